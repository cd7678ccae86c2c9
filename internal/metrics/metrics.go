// Package metrics exposes Prometheus collectors for feeds, queries and leads.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog"

// Lead outcomes.
const (
	LeadAccepted  = "accepted"
	LeadInvalid   = "invalid"
	LeadDuplicate = "duplicate"
	LeadNoAdmin   = "no_admin"
	LeadError     = "error"
)

// Metrics holds the service collectors on a private registry. A nil *Metrics
// records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	snapshots *prometheus.CounterVec
	items     *prometheus.GaugeVec
	queries   *prometheus.CounterVec
	leads     *prometheus.CounterVec
}

// New registers the collectors, plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_snapshots_total",
			Help:      "Snapshots received per feed path.",
		}, []string{"path"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Items in the latest snapshot per screen.",
		}, []string{"screen"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Catalog queries per screen and kind.",
		}, []string{"screen", "kind"}),
		leads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_total",
			Help:      "Lead submissions per screen and outcome.",
		}, []string{"screen", "outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.snapshots, m.items, m.queries, m.leads,
	)
	return m
}

// Snapshot counts one snapshot for path.
func (m *Metrics) Snapshot(path string) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(path).Inc()
}

// Items sets the item count of screen.
func (m *Metrics) Items(screen string, n int) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(screen).Set(float64(n))
}

// Query counts one query of kind (items, suggestions) on screen.
func (m *Metrics) Query(screen, kind string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(screen, kind).Inc()
}

// Lead counts one lead submission outcome.
func (m *Metrics) Lead(screen, outcome string) {
	if m == nil {
		return
	}
	m.leads.WithLabelValues(screen, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
