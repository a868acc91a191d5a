// Package metrics exports registry activity as Prometheus metrics.
//
// A Collector implements modeler.Observer:
//
//	collector := metrics.NewCollector(metrics.Config{}, prometheus.NewRegistry())
//	reg := modeler.New(modeler.WithObserver(collector))
//
// Metrics:
//   - supermodeler_constructions_total: constructions by operation, model, source and status
//   - supermodeler_construction_duration_seconds: construction latency by operation and model
package metrics
