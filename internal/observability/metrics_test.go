package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics("test")
	m.RecordRequest("/api/departments", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/departments", "GET", 200, 5*time.Millisecond)
	m.RecordError("/api/departments", "POST", "VALIDATION_FAILED")
	m.RecordOperation("create", "ok")

	if got := testutil.ToFloat64(m.requestCount.WithLabelValues("/api/departments", "GET", "200")); got != 2 {
		t.Fatalf("request count = %v", got)
	}
	if got := testutil.ToFloat64(m.errorCount.WithLabelValues("/api/departments", "POST", "VALIDATION_FAILED")); got != 1 {
		t.Fatalf("error count = %v", got)
	}
	if got := testutil.ToFloat64(m.operationCount.WithLabelValues("create", "ok")); got != 1 {
		t.Fatalf("operation count = %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordOperation("list", "ok")
}

func TestRequestLoggerSetsRequestIDAndExposesMetrics(t *testing.T) {
	m := NewMetrics("test")
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Fatalf("expected request id header")
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `test_http_requests_total{method="GET",route="/ping",status="200"} 2`) {
		t.Fatalf("metrics output missing request counter:\n%s", body)
	}
}
