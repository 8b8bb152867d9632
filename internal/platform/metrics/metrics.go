package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the disclosure service.
type Metrics struct {
	DisclosuresTotal   *prometheus.CounterVec // by access tier
	ConsentChecksTotal *prometheus.CounterVec // by result (allowed/denied)
	NegotiationsTotal  *prometheus.CounterVec // by outcome
	AuditDroppedTotal  prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics with the given registerer.
// Pass prometheus.DefaultRegisterer in main; tests use a fresh registry so
// suites do not collide on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DisclosuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "routewise_disclosures_total",
			Help: "Driver view disclosures rendered, labelled by resolved access tier",
		}, []string{"tier"}),
		ConsentChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "routewise_consent_checks_total",
			Help: "Consent ledger checks, labelled by result",
		}, []string{"result"}),
		NegotiationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "routewise_negotiations_total",
			Help: "Consent negotiations, labelled by outcome",
		}, []string{"outcome"}),
		AuditDroppedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "routewise_audit_dropped_total",
			Help: "Audit events dropped because the sink was unavailable or the inbox was full",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "routewise_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveDisclosure records one rendered driver view at the given tier.
func (m *Metrics) ObserveDisclosure(tier string) {
	m.DisclosuresTotal.WithLabelValues(tier).Inc()
}

// ObserveConsentCheck records one ledger check result.
func (m *Metrics) ObserveConsentCheck(allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.ConsentChecksTotal.WithLabelValues(result).Inc()
}

// ObserveNegotiation records one negotiation outcome transition.
func (m *Metrics) ObserveNegotiation(outcome string) {
	m.NegotiationsTotal.WithLabelValues(outcome).Inc()
}
