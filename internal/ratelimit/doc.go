// Package ratelimit paces outbound API calls to a fixed quota of K calls per
// rolling window W.
//
// The Limiter keeps a bounded history of the most recent call completion
// times. When the history is full and its oldest entry is younger than W, the
// next call sleeps for exactly the remaining part of the window. Times are
// recorded when a call finishes, so slow calls do not over-throttle the ones
// that follow.
package ratelimit
