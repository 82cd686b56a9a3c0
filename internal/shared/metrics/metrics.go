package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobboard-backend/internal/access"
)

// Registry holds the API's collectors. Each router gets its own so tests can
// build several without duplicate registration.
type Registry struct {
	reg          *prometheus.Registry
	decisions    *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a registry with the authorization and HTTP collectors.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization decisions by resource kind, operation and result.",
		}, []string{"kind", "op", "result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration by route, method and status.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),
	}
	r.reg.MustRegister(
		r.decisions,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveDecision counts an authorization decision. It matches the
// access.Evaluator Observe hook.
func (r *Registry) ObserveDecision(kind access.Kind, op access.Operation, err error) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(string(kind), string(op), decisionResult(err)).Inc()
}

func decisionResult(err error) string {
	switch {
	case err == nil:
		return "allow"
	case errors.Is(err, access.ErrNotFound):
		return "not_found"
	case errors.Is(err, access.ErrUnauthenticated):
		return "unauthenticated"
	case access.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}

// Middleware records request durations by route template.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.httpDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func (r *Registry) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
