package matching

import (
	"context"
	"time"
)

// Sink receives every result in processing order. A sink error aborts the run.
type Sink interface {
	Write(ctx context.Context, result Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, result Result) error

func (f SinkFunc) Write(ctx context.Context, result Result) error { return f(ctx, result) }

// Observer is notified of per-entry progress. Implementations must not block
// for long; they run inline with the single matching loop.
type Observer interface {
	// EntrySkipped fires for entries missing a name or id.
	EntrySkipped(entry Entry, reason string)
	// RateLimited fires after the limiter made the engine wait.
	RateLimited(entry Entry, waited time.Duration)
	// LookupFailed fires when the remote could not be reached for entry.
	LookupFailed(entry Entry, err error)
	// Matched fires for each emitted result.
	Matched(result Result)
}

// NopObserver ignores all events. Embed it to implement a subset of Observer.
type NopObserver struct{}

func (NopObserver) EntrySkipped(Entry, string)       {}
func (NopObserver) RateLimited(Entry, time.Duration) {}
func (NopObserver) LookupFailed(Entry, error)        {}
func (NopObserver) Matched(Result)                   {}

type observers []Observer

func (o observers) EntrySkipped(entry Entry, reason string) {
	for _, obs := range o {
		obs.EntrySkipped(entry, reason)
	}
}

func (o observers) RateLimited(entry Entry, waited time.Duration) {
	for _, obs := range o {
		obs.RateLimited(entry, waited)
	}
}

func (o observers) LookupFailed(entry Entry, err error) {
	for _, obs := range o {
		obs.LookupFailed(entry, err)
	}
}

func (o observers) Matched(result Result) {
	for _, obs := range o {
		obs.Matched(result)
	}
}
