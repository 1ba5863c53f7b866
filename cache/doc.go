// Package cache stores last-known-good operation results.
//
// The resilience pipeline never caches on the hot path; this package exists
// for the degraded path. When a pipeline execution succeeds, the consumer
// records the result here; when a later execution fails and the caller
// chooses to degrade, the fallback package serves the most recent good
// result for the same input instead of a synthetic placeholder.
//
// Keys are derived deterministically from the operation class and its input
// (see Keyer), so concurrent callers with identical inputs share one entry.
// Entries expire after a TTL: a stale "good" result is worse than an honest
// static fallback.
package cache
