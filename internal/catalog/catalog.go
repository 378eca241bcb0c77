package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"ggnmatch/internal/matching"
	"ggnmatch/internal/textutil"
)

// Column names expected in the header row.
const (
	ColumnGame = "game"
	ColumnID   = "id"
)

// ErrEmptyCatalog indicates the input has no header row.
var ErrEmptyCatalog = errors.New("catalog is empty")

// SkippedRow records a data row that failed validation.
type SkippedRow struct {
	Row    int
	Reason string
}

// Catalog is a parsed game list.
type Catalog struct {
	Path    string
	Skipped []SkippedRow
	entries []matching.Entry
}

// Open reads the catalog at path.
func Open(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	cat, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	cat.Path = path
	return cat, nil
}

// Read parses a catalog from r.
func Read(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	gameCol, idCol, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{}
	for rowNum := 1; ; rowNum++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}

		row := record{
			Game: strings.TrimSpace(field(fields, gameCol)),
			ID:   strings.TrimSpace(field(fields, idCol)),
		}
		if reason := validateRecord(row); reason != "" {
			cat.Skipped = append(cat.Skipped, SkippedRow{Row: rowNum, Reason: reason})
			continue
		}
		cat.entries = append(cat.entries, matching.Entry{
			Name:       strings.TrimSpace(textutil.StripDecorations(row.Game)),
			ExternalID: row.ID,
			Row:        rowNum,
		})
	}
	return cat, nil
}

// Len returns the number of valid entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries yields the valid entries in file order.
func (c *Catalog) Entries() iter.Seq[matching.Entry] {
	return slices.Values(c.entries)
}

func locateColumns(header []string) (game, id int, err error) {
	game, id = -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch {
		case name == ColumnGame && game < 0:
			game = i
		case name == ColumnID && id < 0:
			id = i
		}
	}
	var missing []string
	if game < 0 {
		missing = append(missing, ColumnGame)
	}
	if id < 0 {
		missing = append(missing, ColumnID)
	}
	if len(missing) > 0 {
		return 0, 0, fmt.Errorf("catalog header missing column(s): %s", strings.Join(missing, ", "))
	}
	return game, id, nil
}

func field(fields []string, idx int) string {
	if idx >= len(fields) {
		return ""
	}
	return fields[idx]
}
