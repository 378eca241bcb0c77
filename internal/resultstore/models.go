package resultstore

import (
	"time"

	"ggnmatch/internal/matching"
)

// Run is one stored matcher invocation.
type Run struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt *time.Time

	Processed         int
	Skipped           int
	TransportFailed   int
	HighConfidence    int
	PreferredPlatform int
	NoMatch           int
	Waited            time.Duration
}

// Finished reports whether the run recorded its summary.
func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// StoredResult is a persisted match result.
type StoredResult struct {
	ID        int64
	RunID     string
	CreatedAt time.Time
	matching.Result
}
