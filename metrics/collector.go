package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"supermodeler/modeler"
)

// Operation label values.
const (
	OpCreate = "create"
	OpMap    = "map"
)

// Status label values.
const (
	StatusSuccess  = "success"
	StatusInvalid  = "invalid"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// UnknownName replaces the model and source labels of not_found outcomes,
// whose names come from callers rather than from definitions.
const UnknownName = "unknown"

// Config names the metrics and sets histogram buckets.
type Config struct {
	Namespace string
	Subsystem string
	// DurationBuckets in seconds. Constructions are in-memory, so the
	// default spans 1µs to about 33ms.
	DurationBuckets []float64
}

// Collector records construction counts and latencies.
type Collector struct {
	constructions *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

var _ modeler.Observer = (*Collector)(nil)

// NewCollector creates the metrics and registers them with registerer.
// A nil registerer leaves them unregistered.
func NewCollector(cfg Config, registerer prometheus.Registerer) *Collector {
	if cfg.Namespace == "" {
		cfg.Namespace = "supermodeler"
	}

	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = prometheus.ExponentialBuckets(0.000001, 2, 16)
	}

	c := &Collector{
		constructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "constructions_total",
				Help:      "Total number of model constructions",
			},
			[]string{"operation", "model", "source", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "construction_duration_seconds",
				Help:      "Duration of model constructions in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation", "model"},
		),
	}

	if registerer != nil {
		registerer.MustRegister(c.constructions, c.duration)
	}

	return c
}

// ObserveCreate implements modeler.Observer.
func (c *Collector) ObserveCreate(model string, elapsed time.Duration, err error) {
	c.record(OpCreate, model, "", elapsed, err)
}

// ObserveMap implements modeler.Observer.
func (c *Collector) ObserveMap(source, target string, elapsed time.Duration, err error) {
	c.record(OpMap, target, source, elapsed, err)
}

func (c *Collector) record(op, model, source string, elapsed time.Duration, err error) {
	status := Status(err)
	if status == StatusNotFound {
		model = UnknownName
		if source != "" {
			source = UnknownName
		}
	}

	c.constructions.WithLabelValues(op, model, source, status).Inc()
	c.duration.WithLabelValues(op, model).Observe(elapsed.Seconds())
}

// Status classifies a construction error into a status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, modeler.ErrValidation):
		return StatusInvalid
	case errors.Is(err, modeler.ErrNotFound):
		return StatusNotFound
	default:
		return StatusError
	}
}
