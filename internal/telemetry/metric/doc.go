// Package metric provides Prometheus metrics for leaklab.
//
// It exposes per-pattern leak gauges (item count, estimated MB) and
// heap-snapshot counters in Prometheus format via Handler().
package metric
