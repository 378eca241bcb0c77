package matching

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"ggnmatch/internal/ggn"
	"ggnmatch/internal/logging"
	"ggnmatch/internal/ratelimit"
)

// Lookuper searches the remote tracker for a game name.
type Lookuper interface {
	Lookup(ctx context.Context, name string) (ggn.LookupResult, error)
}

// Engine matches entries one at a time against the remote tracker, pacing
// lookups through its rate limiter.
type Engine struct {
	client    Lookuper
	limiter   *ratelimit.Limiter
	selector  Selector
	logger    *slog.Logger
	observers observers
	groupURL  func(groupID string) string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSelector overrides the default selection policy.
func WithSelector(selector Selector) EngineOption {
	return func(e *Engine) {
		e.selector = selector
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logging.NewComponentLogger(logger, "engine")
		}
	}
}

// WithObserver adds an observer. Observers are notified in the order added.
func WithObserver(observer Observer) EngineOption {
	return func(e *Engine) {
		if observer != nil {
			e.observers = append(e.observers, observer)
		}
	}
}

// WithGroupURL sets how matched group ids become links in results.
func WithGroupURL(fn func(groupID string) string) EngineOption {
	return func(e *Engine) {
		e.groupURL = fn
	}
}

// NewEngine creates an engine. The limiter is owned by the engine for the
// duration of a run and must not be shared with concurrent engines.
func NewEngine(client Lookuper, limiter *ratelimit.Limiter, opts ...EngineOption) (*Engine, error) {
	if client == nil {
		return nil, errors.New("lookup client required")
	}
	if limiter == nil {
		return nil, errors.New("rate limiter required")
	}
	e := &Engine{
		client:   client,
		limiter:  limiter,
		selector: DefaultSelector(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Process returns a lazy, single-use sequence of results for entries.
// Malformed entries and entries whose lookup could not reach the remote are
// skipped. The sequence ends early when ctx is cancelled; the cancellation is
// checked before each rate-limited lookup.
func (e *Engine) Process(ctx context.Context, entries iter.Seq[Entry]) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		summary := newSummary()
		e.process(ctx, entries, &summary, yield)
	}
}

// Run drives Process and writes every result to each sink in order. It
// returns the run summary and the first fatal error: a sink failure or the
// context's cancellation. Results written before the error remain valid.
func (e *Engine) Run(ctx context.Context, entries iter.Seq[Entry], sinks ...Sink) (Summary, error) {
	summary := newSummary()
	var sinkErr error
	e.process(ctx, entries, &summary, func(result Result) bool {
		for _, sink := range sinks {
			if err := sink.Write(ctx, result); err != nil {
				sinkErr = fmt.Errorf("write result for %q: %w", result.Entry.Name, err)
				return false
			}
		}
		return true
	})
	if sinkErr != nil {
		return summary, sinkErr
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (e *Engine) process(ctx context.Context, entries iter.Seq[Entry], summary *Summary, yield func(Result) bool) {
	for entry := range entries {
		entry.Name = strings.TrimSpace(entry.Name)
		entry.ExternalID = strings.TrimSpace(entry.ExternalID)
		logger := e.logger.With(
			logging.String(logging.FieldGame, entry.Name),
			logging.String(logging.FieldSteamAppID, entry.ExternalID),
			logging.Int(logging.FieldRow, entry.Row),
		)

		if !entry.Valid() {
			summary.Skipped++
			logger.Debug("entry skipped", logging.String("state", "skipped"), logging.String("reason", "missing name or id"))
			e.observers.EntrySkipped(entry, "missing name or id")
			continue
		}

		if ctx.Err() != nil {
			return
		}

		logger.Debug("entry rate gated", logging.String("state", "rate_gated"))
		var (
			lookup    ggn.LookupResult
			lookupErr error
		)
		waited, err := e.limiter.Do(ctx, func() {
			lookup, lookupErr = e.client.Lookup(ctx, entry.Name)
		})
		if err != nil {
			return
		}
		if waited > 0 {
			summary.Waited += waited
			logger.Info("rate limit reached, waited before lookup", logging.Duration("waited", waited))
			e.observers.RateLimited(entry, waited)
		}

		if lookupErr != nil {
			if ctx.Err() != nil {
				return
			}
			summary.TransportFailed++
			logging.WarnWithContext(logger, "lookup failed; entry skipped", "ggn_lookup_failed",
				logging.Error(lookupErr),
				logging.String("state", "transport_failed"),
				logging.String(logging.FieldErrorHint, "check network connectivity and ggn.base_url"),
				logging.String(logging.FieldImpact, "entry omitted from the report"),
			)
			e.observers.LookupFailed(entry, lookupErr)
			continue
		}

		outcome := e.selector.Resolve(lookup, entry.ExternalID)
		result := Result{Entry: entry, Outcome: outcome, Query: lookup.Query}
		if outcome.Matched() && e.groupURL != nil {
			result.GroupURL = e.groupURL(outcome.GroupID)
		}

		summary.Processed++
		summary.ByKind[outcome.Kind]++
		logger.Debug("entry matched",
			logging.String("state", "matched"),
			logging.String(logging.FieldQuery, lookup.Query),
			logging.Int("candidates", len(lookup.Groups)),
			logging.String(logging.FieldOutcome, string(outcome.Kind)),
			logging.String(logging.FieldGroupID, outcome.GroupID),
			logging.String("reason", outcome.Reason),
		)
		e.observers.Matched(result)
		if !yield(result) {
			return
		}
	}
}
