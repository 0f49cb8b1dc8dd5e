// Package metrics exposes Prometheus counters for the FixIt functions.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Approval outcomes.
const (
	ApprovalCreated         = "created"
	ApprovalAlreadyApproved = "already_approved"
	ApprovalInvalidToken    = "invalid_token"
	ApprovalFailed          = "failed"
)

// Metrics holds the service's counters on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	invitesIssued    prometheus.Counter
	approvals        *prometheus.CounterVec
	emails           *prometheus.CounterVec
	providersCreated prometheus.Counter
	rejections       prometheus.Counter
}

// New registers the counters plus Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		invitesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fixit",
			Name:      "admin_invites_issued_total",
			Help:      "Admin invites written to the store.",
		}),
		approvals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fixit",
			Name:      "admin_approvals_total",
			Help:      "Admin approval link visits by outcome.",
		}, []string{"outcome"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fixit",
			Name:      "emails_total",
			Help:      "Transactional emails by template and outcome.",
		}, []string{"template", "outcome"}),
		providersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fixit",
			Name:      "provider_accounts_created_total",
			Help:      "Provider accounts created by contractors.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fixit",
			Name:      "contractor_rejections_total",
			Help:      "Pending to rejected contractor transitions observed.",
		}),
	}
	reg.MustRegister(
		m.invitesIssued,
		m.approvals,
		m.emails,
		m.providersCreated,
		m.rejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) InviteIssued() {
	if m == nil {
		return
	}
	m.invitesIssued.Inc()
}

func (m *Metrics) Approval(outcome string) {
	if m == nil {
		return
	}
	m.approvals.WithLabelValues(outcome).Inc()
}

// Email records one send attempt of the named template.
func (m *Metrics) Email(template string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.emails.WithLabelValues(template, outcome).Inc()
}

func (m *Metrics) ProviderCreated() {
	if m == nil {
		return
	}
	m.providersCreated.Inc()
}

func (m *Metrics) ContractorRejected() {
	if m == nil {
		return
	}
	m.rejections.Inc()
}
