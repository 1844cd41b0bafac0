package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestPlanGenerated verifies the counter is labelled by level and source.
func TestPlanGenerated(t *testing.T) {
	m := New()
	m.PlanGenerated("beginner", "anonymous")
	m.PlanGenerated("beginner", "anonymous")
	m.PlanGenerated("advanced", "user")

	if got := testutil.ToFloat64(m.PlansGenerated.WithLabelValues("beginner", "anonymous")); got != 2 {
		t.Errorf("beginner/anonymous = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PlansGenerated.WithLabelValues("advanced", "user")); got != 1 {
		t.Errorf("advanced/user = %v, want 1", got)
	}
}

// TestHandler verifies the registry is served with the service metric names.
func TestHandler(t *testing.T) {
	m := New()
	m.CatalogRecords.Set(42)
	m.ObserveRequest(http.MethodGet, "/api/v1/routines/recovery", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"gymplan_catalog_records 42", "gymplan_http_request_duration_seconds_bucket"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
