package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	LoginAttempts      *prometheus.CounterVec
	PersonsRegistered  *prometheus.CounterVec
	CapacityRejections prometheus.Counter
	Admissions         prometheus.Counter
	RequestLatency     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer. Tests pass a fresh
// registry so repeated construction in one process cannot collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clinicore_login_attempts_total",
			Help: "Login attempts partitioned by outcome and resolved role",
		}, []string{"outcome", "role"}),
		PersonsRegistered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clinicore_persons_registered_total",
			Help: "Persons registered partitioned by kind (patient, doctor, nurse)",
		}, []string{"kind"}),
		CapacityRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_room_capacity_rejections_total",
			Help: "Room mutations rejected by the capacity guard",
		}),
		Admissions: factory.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_admissions_total",
			Help: "Patients admitted to rooms",
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clinicore_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementLogin records a login attempt outcome. Role is empty on failure so
// the metric never reveals which stage rejected the attempt.
func (m *Metrics) IncrementLogin(outcome, role string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome, role).Inc()
}

// IncrementRegistered records a successful person registration.
func (m *Metrics) IncrementRegistered(kind string) {
	if m == nil {
		return
	}
	m.PersonsRegistered.WithLabelValues(kind).Inc()
}

// IncrementCapacityRejection records a mutation rejected by the capacity guard.
func (m *Metrics) IncrementCapacityRejection() {
	if m == nil {
		return
	}
	m.CapacityRejections.Inc()
}

// IncrementAdmission records a completed admission.
func (m *Metrics) IncrementAdmission() {
	if m == nil {
		return
	}
	m.Admissions.Inc()
}

// ObserveLatency records a served HTTP request.
func (m *Metrics) ObserveLatency(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, status).Observe(seconds)
}
