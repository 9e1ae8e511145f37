// Package prometheus exposes authcore engine metrics as a Prometheus collector.
//
// [NewPrometheusExporter] wraps an [authcore.Engine] in a prometheus.Collector
// that reads one MetricsSnapshot per scrape. Counter names are prefixed
// authcore_*_total; the single histogram is authcore_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry. Callers register the
//     exporter or mount [PrometheusExporter.Handler].
//   - Mutate engine state.
package prometheus
