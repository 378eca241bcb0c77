package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteCatalog writes a game,id catalog with one line per row.
func WriteCatalog(t testing.TB, path string, rows ...[2]string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("game,id\n")
	for _, row := range rows {
		b.WriteString(row[0])
		b.WriteByte(',')
		b.WriteString(row[1])
		b.WriteByte('\n')
	}
	WriteFile(t, path, b.String())
}
