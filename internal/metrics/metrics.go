package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Appended       prometheus.Counter
	Evicted        prometheus.Counter
	MarkedRead     prometheus.Counter
	ObserverPanics prometheus.Counter
	ArchiveDropped prometheus.Counter
	Unread         prometheus.Gauge
	Stored         prometheus.Gauge
	Observers      prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Appended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_appended_total",
			Help: "Notifications added to the registry.",
		}),
		Evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_evicted_total",
			Help: "Notifications dropped because the registry was full.",
		}),
		MarkedRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_marked_read_total",
			Help: "Notifications switched from unread to read.",
		}),
		ObserverPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notification_observer_panics_total",
			Help: "Observer callbacks that panicked during a broadcast.",
		}),
		ArchiveDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_archive_dropped_total",
			Help: "Evicted notifications the archiver could not accept.",
		}),
		Unread: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notifications_unread",
			Help: "Unread notifications currently held.",
		}),
		Stored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notifications_stored",
			Help: "Notifications currently held.",
		}),
		Observers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_observers",
			Help: "Registered registry observers.",
		}),
	}
	reg.MustRegister(
		m.Appended,
		m.Evicted,
		m.MarkedRead,
		m.ObserverPanics,
		m.ArchiveDropped,
		m.Unread,
		m.Stored,
		m.Observers,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
