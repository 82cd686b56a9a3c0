package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"jobboard-backend/internal/access"
)

func TestObserveDecisionLabels(t *testing.T) {
	r := New()
	r.ObserveDecision(access.KindResume, access.OpRead, nil)
	r.ObserveDecision(access.KindResume, access.OpRead, access.ErrNotFound)
	r.ObserveDecision(access.KindResume, access.OpRead, access.ErrNotFound)
	r.ObserveDecision(access.KindApplication, access.OpCreate, access.Invalid("Record already exists"))

	if got := testutil.ToFloat64(r.decisions.WithLabelValues("resume", "read", "not_found")); got != 2 {
		t.Fatalf("expected 2 not_found decisions, got %v", got)
	}
	if got := testutil.ToFloat64(r.decisions.WithLabelValues("resume", "read", "allow")); got != 1 {
		t.Fatalf("expected 1 allow decision, got %v", got)
	}
	if got := testutil.ToFloat64(r.decisions.WithLabelValues("application", "create", "invalid")); got != 1 {
		t.Fatalf("expected 1 invalid decision, got %v", got)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New()
	router := gin.New()
	router.Use(r.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", r.Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	r.ObserveDecision(access.KindCompany, access.OpUpdate, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := resp.Body.String()
	if !strings.Contains(body, `authz_decisions_total{kind="company",op="update",result="allow"} 1`) {
		t.Fatalf("missing decision counter in output")
	}
	if !strings.Contains(body, `http_request_duration_seconds_count{method="GET",route="/ping",status="200"} 1`) {
		t.Fatalf("missing request histogram in output")
	}
}
