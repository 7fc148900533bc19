package sluice

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	depth        prometheus.Gauge
	pushes       prometheus.Counter
	deliveries   prometheus.Counter
	discards     prometheus.Counter
	disposals    *prometheus.CounterVec
	waitDuration prometheus.Histogram
}

func newMetrics(registerer prometheus.Registerer, namespace, subsystem string) *metrics {
	m := metrics{
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "depth",
			Help:      "Number of items buffered and not yet delivered",
		}),
		pushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pushes",
			Help:      "Number of items accepted into the buffer",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deliveries",
			Help:      "Number of items delivered to the consumer",
		}),
		discards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "discards",
			Help:      "Number of buffered items dropped at disposal",
		}),
		disposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "disposals",
			Help:      "Number of disposals by reason",
		}, []string{"reason"}),
		waitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "wait_duration_seconds",
			Help:      "Time a consumption step spent suspended waiting for the producer",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	// A nil registerer means collect without registering.
	if registerer != nil {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "sluice"},
			registerer,
		)
		registerer.MustRegister(
			m.depth,
			m.pushes,
			m.deliveries,
			m.discards,
			m.disposals,
			m.waitDuration,
		)
	}

	return &m
}
