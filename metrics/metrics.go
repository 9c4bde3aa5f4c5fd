package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks surface build activity for the prometheus endpoint
type Metrics struct {
	buildsTotal   *prometheus.CounterVec
	buildFailures *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
}

// New creates the surface build metrics, registered on the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		buildsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fxvol",
				Name:      "surface_builds_total",
				Help:      "Total number of surface build attempts",
			},
			[]string{"pair"},
		),
		buildFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fxvol",
				Name:      "surface_build_failures_total",
				Help:      "Total number of failed surface builds",
			},
			[]string{"pair"},
		),
		buildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fxvol",
				Name:      "surface_build_duration_seconds",
				Help:      "Duration of surface builds, fetch included",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pair"},
		),
	}
}

// ObserveBuild records the outcome of a single surface build.
// Safe to call on a nil receiver, so metrics stay optional
func (m *Metrics) ObserveBuild(pair string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	m.buildsTotal.WithLabelValues(pair).Inc()
	m.buildDuration.WithLabelValues(pair).Observe(duration.Seconds())

	if err != nil {
		m.buildFailures.WithLabelValues(pair).Inc()
	}
}
