package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_Scrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)
	c.RecordRequestLatency(25 * time.Millisecond)
	c.RecordAuthOutcome("signin", "failure")
	c.RecordUpload()
	c.RecordApplication()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()

	for _, want := range []string{
		`kinderwork_http_status_total{status_code="200"} 2`,
		`kinderwork_http_status_total{status_code="404"} 1`,
		`kinderwork_auth_outcomes_total{operation="signin",outcome="failure"} 1`,
		`kinderwork_uploads_total 1`,
		`kinderwork_applications_total 1`,
		`kinderwork_request_latency_seconds_count 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestNewCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("registering the same metric set twice must panic")
		}
	}()
	NewCollector(reg)
}
