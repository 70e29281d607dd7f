/*
Package observability turns bridge lifecycle events into metrics and logs.

Metrics exposes Prometheus counters and histograms as domain.LifecycleHooks,
and LogHooks writes one structured record per event. Both can be combined
with domain.MultiHooks.
*/
package observability
