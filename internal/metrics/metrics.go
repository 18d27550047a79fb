// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the edge service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	GenerateRequestsTotal *prometheus.CounterVec
	RateLimitedTotal      prometheus.Counter
	UsageRecordedTotal    prometheus.Counter

	WebhookEventsTotal  *prometheus.CounterVec
	SubscriptionChanges *prometheus.CounterVec
	MailDeliveriesTotal *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bidcheck_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bidcheck_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		GenerateRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bidcheck_generate_requests_total",
				Help: "AI generation requests by outcome",
			},
			[]string{"outcome"},
		),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bidcheck_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
		UsageRecordedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bidcheck_usage_recorded_total",
			Help: "Completed audits recorded against entitlements",
		}),
		WebhookEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bidcheck_webhook_events_total",
				Help: "Billing webhook deliveries by event type and result",
			},
			[]string{"type", "result"},
		),
		SubscriptionChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bidcheck_subscription_changes_total",
				Help: "Applied subscription transitions",
			},
			[]string{"transition"},
		),
		MailDeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bidcheck_mail_deliveries_total",
				Help: "Transactional email delivery attempts by status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GenerateRequestsTotal,
		m.RateLimitedTotal,
		m.UsageRecordedTotal,
		m.WebhookEventsTotal,
		m.SubscriptionChanges,
		m.MailDeliveriesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns the HTTP handler that serves this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
