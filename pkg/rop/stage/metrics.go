package stage

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSubmitted = "submitted"
	outcomeProcessed = "processed"
	outcomeFailed    = "failed"
	outcomeAbandoned = "abandoned"
)

// Metrics are prometheus collectors shared by any number of stages, told
// apart by the stage label.
type Metrics struct {
	items    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Registering
// twice on the same registerer reuses the collectors already there.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "railyard",
			Subsystem: "stage",
			Name:      "items_total",
			Help:      "Items seen by a stage, by outcome.",
		}, []string{"stage", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "railyard",
			Subsystem: "stage",
			Name:      "transform_duration_seconds",
			Help:      "Time spent inside a stage transform.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
	}

	var err error
	if m.items, err = register(reg, m.items); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) add(stage, outcome string, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.items.WithLabelValues(stage, outcome).Add(float64(n))
}

func (m *Metrics) observe(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(stage).Observe(d.Seconds())
}
