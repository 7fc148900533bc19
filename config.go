package sluice

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Option[Item any] = func(*config[Item])

// WithCapacity preallocates space for the given number of buffered items.
// It is a hint only; the buffer still grows without bound.
func WithCapacity[Item any](capacity int) Option[Item] {
	if capacity < 0 {
		panic("capacity can't be < 0")
	}
	return func(c *config[Item]) {
		c.capacity = capacity
	}
}

// WithPrometheus registers the bridge metrics with the given registerer
// under the given namespace and subsystem. If registerer is nil, metrics are
// collected but not registered anywhere.
func WithPrometheus[Item any](
	registerer prometheus.Registerer,
	namespace, subsystem string,
) Option[Item] {
	return func(c *config[Item]) {
		c.metrics = newMetrics(registerer, namespace, subsystem)
	}
}

type config[Item any] struct {
	capacity int
	metrics  *metrics
}

func newConfig[Item any](options ...Option[Item]) *config[Item] {
	options = append([]Option[Item]{
		WithCapacity[Item](0),
		WithPrometheus[Item](nil, "sluice", ""),
	}, options...)

	cfg := config[Item]{}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}
