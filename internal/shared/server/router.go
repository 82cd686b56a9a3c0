package server

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/applications"
	googleauth "jobboard-backend/internal/auth"
	"jobboard-backend/internal/companies"
	"jobboard-backend/internal/opportunities"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/services/health"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

const writeRateGroup = "WRITES"

// RouterDeps are the handlers and infrastructure the router mounts. Nil
// handlers are skipped.
type RouterDeps struct {
	Config  config.Config
	Metrics *metrics.Registry
	Store   object.ObjectStore
	Health  *health.Service

	UserHandler        *users.Handler
	CompanyHandler     *companies.Handler
	OpportunityHandler *opportunities.Handler
	ApplicationHandler *applications.Handler
	ResumeHandler      *resumes.Handler
	GoogleAuth         *googleauth.GoogleService
	DevTokens          *googleauth.DevTokenHandler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", deps.Metrics.Handler())
	}
	r.Use(
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				writeRateGroup: {Rate: cfg.WriteRatePerSec, Burst: cfg.WriteBurst},
			},
			GroupFor: middleware.WritesOnly(writeRateGroup),
		}),
	)

	if deps.Store != nil {
		r.GET("/media/*key", serveMedia(deps.Store))
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Check(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.CompanyHandler != nil {
		deps.CompanyHandler.RegisterRoutes(api)
	}
	if deps.OpportunityHandler != nil {
		deps.OpportunityHandler.RegisterRoutes(api)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if cfg.IsDevLike() && deps.DevTokens != nil {
		deps.DevTokens.RegisterRoutes(api.Group("/dev"))
	}

	return r
}

// serveMedia streams uploaded files such as company logos.
func serveMedia(store object.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				respond.Error(c, http.StatusNotFound, "not_found", "Not found.", nil)
				return
			}
			telemetry.Warn("media.open_failed", map[string]any{"key": key, "error": err.Error()})
			respond.Error(c, http.StatusNotFound, "not_found", "Not found.", nil)
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(path.Ext(key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Header("Cache-Control", "public, max-age=3600")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			telemetry.Warn("media.copy_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
