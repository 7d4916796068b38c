package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPrometheus_RequestCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	t.Run("counts successes", func(t *testing.T) {
		m.RecordRequest(http.MethodGet, true, 200, 10*time.Millisecond)
		m.RecordRequest(http.MethodGet, true, 200, 20*time.Millisecond)

		val := getCounterValue(t, m.RequestCounter, http.MethodGet, OutcomeSuccess)
		if val != 2 {
			t.Errorf("expected 2, got %f", val)
		}
	})

	t.Run("counts failures independently", func(t *testing.T) {
		m.RecordRequest(http.MethodGet, false, 500, time.Second)

		val := getCounterValue(t, m.RequestCounter, http.MethodGet, OutcomeFailure)
		if val != 1 {
			t.Errorf("expected 1, got %f", val)
		}
	})

	t.Run("observes duration per method", func(t *testing.T) {
		count, sum := getHistogramValues(t, m.RequestDuration, http.MethodGet)
		if count != 3 {
			t.Errorf("expected count 3, got %d", count)
		}
		if sum < 1.03 || sum > 1.031 {
			t.Errorf("expected sum ~1.03, got %f", sum)
		}
	})

	t.Run("counts status codes", func(t *testing.T) {
		val := getCounterValue(t, m.StatusCounter, "200")
		if val != 2 {
			t.Errorf("expected 2, got %f", val)
		}
	})
}

func TestPrometheus_FailureCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	m.RecordFailure("APP", "TECHNICAL_ERROR", "NETWORK_ERROR")
	m.RecordFailure("APP", "TECHNICAL_ERROR", "NETWORK_ERROR")
	m.RecordFailure("STUDENT", "VALIDATION_ERROR", "INVALID_EMAIL")

	if val := getCounterValue(t, m.FailureCounter, "APP", "TECHNICAL_ERROR", "NETWORK_ERROR"); val != 2 {
		t.Errorf("expected 2, got %f", val)
	}
	if val := getCounterValue(t, m.FailureCounter, "STUDENT", "VALIDATION_ERROR", "INVALID_EMAIL"); val != 1 {
		t.Errorf("expected 1, got %f", val)
	}
}

func TestPrometheus_NilSafe(t *testing.T) {
	var m *ClientMetrics
	m.RecordRequest(http.MethodPost, true, 201, time.Millisecond)
	m.RecordFailure("AUTH", "AUTH_ERROR", "INVALID_CREDENTIALS")
}

func TestPrometheus_Registration(t *testing.T) {
	t.Run("fails on duplicate registration", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		if _, err := NewPrometheusMetrics(reg); err != nil {
			t.Fatalf("first registration failed: %v", err)
		}
		if _, err := NewPrometheusMetrics(reg); err == nil {
			t.Fatal("expected error on duplicate registration")
		}
	})
}

func TestPush(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, buf.String()
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	m.RecordRequest(http.MethodGet, true, 200, time.Millisecond)

	if err := Push(context.Background(), server.URL, "console", reg, server.Client()); err != nil {
		t.Fatalf("Push() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Errorf("expected PUT, got %s", method)
	}
	if path != "/metrics/job/console" {
		t.Errorf("unexpected push path %s", path)
	}
	if body == "" {
		t.Error("expected a non-empty metrics body")
	}
}

func TestPush_NoGateway(t *testing.T) {
	if err := Push(context.Background(), "", "", prometheus.NewRegistry(), nil); err != nil {
		t.Fatalf("expected nil error without a gateway, got %v", err)
	}
}

func getCounterValue(t *testing.T, counter *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	if err := counter.WithLabelValues(labels...).(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func getHistogramValues(t *testing.T, hist *prometheus.HistogramVec, label string) (uint64, float64) {
	t.Helper()
	var m dto.Metric
	if err := hist.WithLabelValues(label).(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}
