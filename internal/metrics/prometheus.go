// Package metrics provides Prometheus instrumentation for the platform API client.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Outcome labels for RequestCounter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ClientMetrics holds the collectors recorded by the API client.
// A nil *ClientMetrics records nothing.
type ClientMetrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	FailureCounter  *prometheus.CounterVec
	StatusCounter   *prometheus.CounterVec
}

// NewPrometheusMetrics creates the client collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*ClientMetrics, error) {
	m := &ClientMetrics{
		RequestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edudesk",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests issued by the console, by method and outcome.",
		}, []string{"method", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "edudesk",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Wall time of API requests including body decoding.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		FailureCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edudesk",
			Subsystem: "api",
			Name:      "failures_total",
			Help:      "Failed API envelopes by module, error type and error code.",
		}, []string{"module", "error_type", "error_code"}),
		StatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edudesk",
			Subsystem: "api",
			Name:      "responses_total",
			Help:      "Envelopes by status code as reported in the body.",
		}, []string{"status_code"}),
	}

	for _, c := range []prometheus.Collector{m.RequestCounter, m.RequestDuration, m.FailureCounter, m.StatusCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// RecordRequest records one completed call.
func (m *ClientMetrics) RecordRequest(method string, success bool, statusCode int, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	m.RequestCounter.WithLabelValues(method, outcome).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
	m.StatusCounter.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordFailure records the error block of a failed envelope.
func (m *ClientMetrics) RecordFailure(module, errorType, errorCode string) {
	if m == nil {
		return
	}
	m.FailureCounter.WithLabelValues(module, errorType, errorCode).Inc()
}

// Push sends everything gathered by g to a Prometheus Pushgateway under job.
// Short-lived console invocations cannot be scraped, so they push on exit.
func Push(ctx context.Context, gatewayURL, job string, g prometheus.Gatherer, client *http.Client) error {
	if gatewayURL == "" {
		return nil
	}
	if job == "" {
		job = "edudesk"
	}
	p := push.New(gatewayURL, job).Gatherer(g)
	if client != nil {
		p = p.Client(client)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
