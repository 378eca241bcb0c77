package ggn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Response is a decoded torrentgroup search response. Groups keep the order
// in which the API listed them.
type Response struct {
	Status string
	Error  string
	Groups []Group
}

// Failed reports whether the API answered with a failure status.
func (r *Response) Failed() bool {
	return r != nil && r.Status == StatusFailure
}

// Group is one torrent group returned by a search.
type Group struct {
	ID       string
	Name     string
	Platform string
	Links    WebLinks
}

// SteamAppID returns the Steam app id embedded in the group's Steam link, if any.
func (g Group) SteamAppID() string {
	return SteamAppID(g.Links.SteamURL())
}

// WebLinks holds a group's external links. The API sends either an object
// keyed by label or a plain list of URLs; both decode here.
type WebLinks struct {
	Labeled map[string]string
	URLs    []string
}

// Len returns the number of non-empty links.
func (w WebLinks) Len() int {
	n := 0
	for _, link := range w.Labeled {
		if strings.TrimSpace(link) != "" {
			n++
		}
	}
	for _, link := range w.URLs {
		if strings.TrimSpace(link) != "" {
			n++
		}
	}
	return n
}

// SteamURL returns the Steam store link, or "" when the group has none.
func (w WebLinks) SteamURL() string {
	if link := strings.TrimSpace(w.Labeled["Steam"]); link != "" {
		return link
	}
	for label, link := range w.Labeled {
		if strings.EqualFold(label, "steam") && strings.TrimSpace(link) != "" {
			return strings.TrimSpace(link)
		}
	}
	for _, link := range w.URLs {
		if strings.Contains(strings.ToLower(link), "steam") {
			return strings.TrimSpace(link)
		}
	}
	return ""
}

// SteamAppID extracts the id following the last "/app/" segment of a Steam
// store URL, e.g. "https://store.steampowered.com/app/220/HalfLife_2/" -> "220".
func SteamAppID(storeURL string) string {
	idx := strings.LastIndex(storeURL, "/app/")
	if idx < 0 {
		return ""
	}
	rest := storeURL[idx+len("/app/"):]
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

type rawResponse struct {
	Status   string          `json:"status"`
	Error    string          `json:"error"`
	Response json.RawMessage `json:"response"`
}

type rawPayload struct {
	Groups groupList `json:"groups"`
}

// UnmarshalJSON decodes the envelope. The inner "response" is an object on
// success and usually an empty array otherwise.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw rawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Status = strings.ToLower(strings.TrimSpace(raw.Status))
	r.Error = strings.TrimSpace(raw.Error)
	r.Groups = nil

	body := bytes.TrimSpace(raw.Response)
	if len(body) == 0 || body[0] != '{' {
		return nil
	}
	var payload rawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode response groups: %w", err)
	}
	r.Groups = payload.Groups
	return nil
}

type groupList []Group

func (l *groupList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	switch data[0] {
	case '[':
		var groups []Group
		if err := json.Unmarshal(data, &groups); err != nil {
			return err
		}
		*l = groups
		return nil
	case '{':
		groups, err := decodeOrderedGroups(data)
		if err != nil {
			return err
		}
		*l = groups
		return nil
	default:
		return fmt.Errorf("groups: unexpected JSON value %.20q", data)
	}
}

// decodeOrderedGroups walks an object keyed by group id, keeping key order.
func decodeOrderedGroups(data []byte) ([]Group, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var groups []Group
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("groups: unexpected key %v", tok)
		}
		var group Group
		if err := dec.Decode(&group); err != nil {
			return nil, fmt.Errorf("group %s: %w", key, err)
		}
		group.ID = key
		groups = append(groups, group)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return groups, nil
}

type rawGroup struct {
	ID       flexibleString `json:"id"`
	Name     string         `json:"name"`
	Platform string         `json:"platform"`
	WebLinks WebLinks       `json:"weblinks"`
}

func (g *Group) UnmarshalJSON(data []byte) error {
	var raw rawGroup
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.ID = string(raw.ID)
	g.Name = strings.TrimSpace(raw.Name)
	g.Platform = strings.TrimSpace(raw.Platform)
	g.Links = raw.WebLinks
	return nil
}

func (w *WebLinks) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*w = WebLinks{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '{':
		var labeled map[string]any
		if err := json.Unmarshal(data, &labeled); err != nil {
			return err
		}
		for label, value := range labeled {
			link, ok := value.(string)
			if !ok || strings.TrimSpace(link) == "" {
				continue
			}
			if w.Labeled == nil {
				w.Labeled = make(map[string]string, len(labeled))
			}
			w.Labeled[label] = link
		}
	case '[':
		var list []any
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		for _, value := range list {
			if link, ok := value.(string); ok && strings.TrimSpace(link) != "" {
				w.URLs = append(w.URLs, link)
			}
		}
	default:
		// Scalars such as "" or false carry no links.
	}
	return nil
}

// flexibleString accepts a JSON string or number.
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleString(n.String())
	return nil
}
