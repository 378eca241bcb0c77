package matching

import (
	"strings"
	"time"

	"ggnmatch/internal/ggn"
)

// Entry is one catalog game to match.
type Entry struct {
	Name       string
	ExternalID string
	// Row is the 1-based catalog data row, zero when unknown.
	Row int
}

// Valid reports whether the entry carries both a name and an id.
func (e Entry) Valid() bool {
	return strings.TrimSpace(e.Name) != "" && strings.TrimSpace(e.ExternalID) != ""
}

// Candidate is the matching view of a remote torrent group.
type Candidate struct {
	GroupID    string
	Platform   string
	SteamAppID string
	// SteamLinked is true when the group links to a Steam store page.
	SteamLinked bool
	// Linked is true when the group carries any weblink at all.
	Linked bool
}

// CandidateFromGroup derives a Candidate from a decoded group.
func CandidateFromGroup(group ggn.Group) Candidate {
	steamURL := group.Links.SteamURL()
	return Candidate{
		GroupID:     group.ID,
		Platform:    group.Platform,
		SteamAppID:  ggn.SteamAppID(steamURL),
		SteamLinked: steamURL != "",
		Linked:      group.Links.Len() > 0,
	}
}

// Candidates converts groups preserving their order.
func Candidates(groups []ggn.Group) []Candidate {
	out := make([]Candidate, 0, len(groups))
	for _, group := range groups {
		out = append(out, CandidateFromGroup(group))
	}
	return out
}

// Kind classifies a match outcome.
type Kind string

const (
	KindHighConfidence    Kind = "high_confidence"
	KindPreferredPlatform Kind = "preferred_platform"
	KindNoMatch           Kind = "no_match"
)

// Kinds lists every outcome kind in presentation order.
var Kinds = []Kind{KindHighConfidence, KindPreferredPlatform, KindNoMatch}

const (
	ReasonNoPreferredPlatform = "none in preferred platforms"
	ReasonUnknownError        = "Unknown error"
)

// Outcome is the verdict for one entry.
type Outcome struct {
	Kind     Kind
	GroupID  string
	Platform string
	Reason   string
}

// HighConfidence builds an outcome for a Steam id match.
func HighConfidence(groupID string) Outcome {
	return Outcome{Kind: KindHighConfidence, GroupID: groupID}
}

// PreferredPlatform builds an outcome for a platform fallback match.
func PreferredPlatform(groupID, platform string) Outcome {
	return Outcome{Kind: KindPreferredPlatform, GroupID: groupID, Platform: platform}
}

// NoMatch builds a negative outcome.
func NoMatch(reason string) Outcome {
	return Outcome{Kind: KindNoMatch, Reason: reason}
}

// Matched reports whether the outcome links to a group.
func (o Outcome) Matched() bool {
	return o.Kind == KindHighConfidence || o.Kind == KindPreferredPlatform
}

// Marker returns the report glyph for the outcome kind.
func (o Outcome) Marker() string {
	switch o.Kind {
	case KindHighConfidence:
		return "✅"
	case KindPreferredPlatform:
		return "☑️"
	default:
		return "❌"
	}
}

// Status renders the marker, with the reason for negative outcomes.
func (o Outcome) Status() string {
	if o.Kind == KindNoMatch && o.Reason != "" {
		return o.Marker() + " (" + o.Reason + ")"
	}
	return o.Marker()
}

// Result pairs an entry with its outcome.
type Result struct {
	Entry   Entry
	Outcome Outcome
	// Query is the name used by the final remote search.
	Query string
	// GroupURL links to the matched group; empty for no-match outcomes.
	GroupURL string
}

// Summary counts what happened during a run.
type Summary struct {
	Processed       int
	Skipped         int
	TransportFailed int
	ByKind          map[Kind]int
	Waited          time.Duration
}

func newSummary() Summary {
	return Summary{ByKind: make(map[Kind]int, len(Kinds))}
}
