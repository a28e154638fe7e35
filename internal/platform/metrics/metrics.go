package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RegistrationsCreated *prometheus.CounterVec
	WaitlistPromotions   prometheus.Counter
	RegistrationDenied   *prometheus.CounterVec
	ActiveSessions       prometheus.Gauge
	ChallengesIssued     prometheus.Counter
	AuthFailures         *prometheus.CounterVec
	EndpointLatency      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campushub_registrations_created_total",
			Help: "Total number of registrations created, labeled by initial status",
		}, []string{"status"}),
		WaitlistPromotions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campushub_waitlist_promotions_total",
			Help: "Total number of waitlisted registrations promoted to pending",
		}),
		RegistrationDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campushub_registrations_denied_total",
			Help: "Total number of denied registration attempts, labeled by reason",
		}, []string{"reason"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "campushub_active_sessions",
			Help: "Current number of active sessions",
		}),
		ChallengesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campushub_challenges_issued_total",
			Help: "Total number of one-time-code challenges issued",
		}),
		AuthFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campushub_auth_failures_total",
			Help: "Total number of authentication failures, labeled by reason",
		}, []string{"reason"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campushub_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncrementRegistrationsCreated increments the registrations counter with the initial status label.
func (m *Metrics) IncrementRegistrationsCreated(status string) {
	m.RegistrationsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementWaitlistPromotions() {
	m.WaitlistPromotions.Inc()
}

func (m *Metrics) IncrementRegistrationDenied(reason string) {
	m.RegistrationDenied.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementActiveSessions(count int) {
	m.ActiveSessions.Add(float64(count))
}

func (m *Metrics) DecrementActiveSessions(count int) {
	m.ActiveSessions.Sub(float64(count))
}

func (m *Metrics) IncrementChallengesIssued() {
	m.ChallengesIssued.Inc()
}

func (m *Metrics) IncrementAuthFailures(reason string) {
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
