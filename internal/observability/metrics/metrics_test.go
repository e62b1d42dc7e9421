package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("period", "2025-03"),
		attribute.String("professional_id", "456"),
		attribute.String("format", "csv"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "period" && attrs[1].Key != "period" {
		t.Fatalf("expected period to be retained")
	}
	if attrs[0].Key != "format" && attrs[1].Key != "format" {
		t.Fatalf("expected format to be retained")
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newHTTPMetrics(registry, Config{
		ServiceName: "liquidador",
		Environment: "test",
	})

	metrics.Observe("GET", "/api/v1/liquidaciones", 200, 25*time.Millisecond)
	metrics.Observe("GET", "/api/v1/liquidaciones", 200, 10*time.Millisecond)
	metrics.Observe("GET", "", 404, time.Millisecond)

	got := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/api/v1/liquidaciones", "200"))
	if got != 2 {
		t.Fatalf("expected request count 2, got %v", got)
	}
	got = testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "unknown", "404"))
	if got != 1 {
		t.Fatalf("expected unknown-route count 1, got %v", got)
	}
}
