package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"ggnmatch/internal/matching"
	"ggnmatch/internal/metrics"
)

var _ matching.Observer = (*metrics.Recorder)(nil)

func TestRecorderCountsEvents(t *testing.T) {
	rec := metrics.NewRecorder()
	entry := matching.Entry{Name: "Portal", ExternalID: "400"}

	rec.Matched(matching.Result{Entry: entry, Outcome: matching.HighConfidence("1")})
	rec.Matched(matching.Result{Entry: entry, Outcome: matching.HighConfidence("2")})
	rec.Matched(matching.Result{Entry: entry, Outcome: matching.NoMatch("no groups found")})
	rec.EntrySkipped(matching.Entry{}, "missing name or id")
	rec.LookupFailed(entry, errors.New("connection refused"))
	rec.RateLimited(entry, 1500*time.Millisecond)
	rec.RateLimited(entry, 500*time.Millisecond)

	expected := `
# HELP ggnmatch_entries_skipped_total Catalog entries skipped for a missing name or id.
# TYPE ggnmatch_entries_skipped_total counter
ggnmatch_entries_skipped_total 1
# HELP ggnmatch_outcomes_total Match outcomes by kind.
# TYPE ggnmatch_outcomes_total counter
ggnmatch_outcomes_total{kind="high_confidence"} 2
ggnmatch_outcomes_total{kind="no_match"} 1
ggnmatch_outcomes_total{kind="preferred_platform"} 0
# HELP ggnmatch_rate_limit_wait_seconds_total Time spent waiting for the rate limiter.
# TYPE ggnmatch_rate_limit_wait_seconds_total counter
ggnmatch_rate_limit_wait_seconds_total 2
# HELP ggnmatch_transport_errors_total Lookups that failed to reach the tracker.
# TYPE ggnmatch_transport_errors_total counter
ggnmatch_transport_errors_total 1
`
	if err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected)); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	rec := metrics.NewRecorder()
	rec.Matched(matching.Result{Outcome: matching.PreferredPlatform("6", "Mac")})

	path := filepath.Join(t.TempDir(), "ggnmatch.prom")
	if err := rec.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `ggnmatch_outcomes_total{kind="preferred_platform"} 1`) {
		t.Fatalf("expected preferred platform counter in textfile, got:\n%s", data)
	}
}

func TestWriteTextfileMissingDirectory(t *testing.T) {
	rec := metrics.NewRecorder()
	if err := rec.WriteTextfile(filepath.Join(t.TempDir(), "missing", "ggnmatch.prom")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
