// Package prometheus renders engine metrics for Prometheus scraping.
//
// [NewExporter] accepts an engine and exposes an [net/http.Handler] that
// renders all counters and histograms in Prometheus text exposition
// format. Counter names are prefixed reqguard_*_total; the single
// histogram is reqguard_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount
//     the Handler.
//   - Mutate engine state.
package prometheus
