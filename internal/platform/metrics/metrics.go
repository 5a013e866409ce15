package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	EventsCreated       prometheus.Counter
	EventsUpdated       prometheus.Counter
	EventsDeleted       prometheus.Counter
	ProfilesCreated     prometheus.Counter
	AuditEntriesWritten prometheus.Counter
	AuditAppendFailed   prometheus.Counter
	RequestLatency      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics on a caller-supplied registerer so tests can use
// an isolated registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronoplan_events_created_total",
			Help: "Total number of events created.",
		}),
		EventsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronoplan_events_updated_total",
			Help: "Total number of event updates applied.",
		}),
		EventsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronoplan_events_deleted_total",
			Help: "Total number of events deleted.",
		}),
		ProfilesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronoplan_profiles_created_total",
			Help: "Total number of profiles created.",
		}),
		AuditEntriesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronoplan_audit_entries_total",
			Help: "Total number of audit log entries written.",
		}),
		AuditAppendFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronoplan_audit_append_failures_total",
			Help: "Audit log appends that failed after a committed event update.",
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chronoplan_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, method, status).Observe(d.Seconds())
}
