// Package metrics exposes the runtime's Prometheus counters and
// histograms. Each worker process carries its own registry (there is
// no in-process global state shared across ranks, since ranks are
// separate OS processes); New returns the registry alongside the
// metrics so the caller (pkg/mimpi's Runtime.Registry) can hand it to
// a host program to Gather or scrape. This stays an in-process
// registry rather than an HTTP listener: MIMPI's Non-goals exclude a
// network surface, not instrumentation.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every counter/histogram the runtime updates.
type Metrics struct {
	FramesSent        prometheus.Counter
	FramesReceived    prometheus.Counter
	BytesSent         prometheus.Counter
	BytesReceived     prometheus.Counter
	RemoteFinished    prometheus.Counter
	CollectiveLatency *prometheus.HistogramVec
}

// New builds a Metrics bound to its own registry, labeled with this
// process's rank so a scraping host can tell workers apart if it
// aggregates several in one registry.
func New(rank int) (*Metrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"rank": strconv.Itoa(rank)}

	m := &Metrics{
		FramesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mimpi",
			Name:        "frames_sent_total",
			Help:        "Point-to-point frames written to a peer pipe.",
			ConstLabels: labels,
		}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mimpi",
			Name:        "frames_received_total",
			Help:        "Point-to-point frames read from a peer pipe.",
			ConstLabels: labels,
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mimpi",
			Name:        "bytes_sent_total",
			Help:        "Payload bytes written across all point-to-point sends.",
			ConstLabels: labels,
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mimpi",
			Name:        "bytes_received_total",
			Help:        "Payload bytes read across all point-to-point receives.",
			ConstLabels: labels,
		}),
		RemoteFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mimpi",
			Name:        "remote_finished_total",
			Help:        "Operations that observed a peer's channel close.",
			ConstLabels: labels,
		}),
		CollectiveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "mimpi",
			Name:        "collective_duration_seconds",
			Help:        "Wall-clock duration of a completed collective call.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"collective"}),
	}

	registry.MustRegister(
		m.FramesSent,
		m.FramesReceived,
		m.BytesSent,
		m.BytesReceived,
		m.RemoteFinished,
		m.CollectiveLatency,
	)

	return m, registry
}
