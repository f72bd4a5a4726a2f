package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"docsum-backend/internal/documents"
	"docsum-backend/internal/services/health"
	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/shared/metrics"
	"docsum-backend/internal/shared/server/middleware"
	"docsum-backend/internal/shared/server/respond"
	"docsum-backend/internal/summaries"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupUpload  = "UPLOAD"
	rateGroupSummary = "SUMMARY"
	rateGroupExempt  = "EXEMPT"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	SummaryHandler  *summaries.Handler
	Health          *health.Service
	Registry        *prometheus.Registry
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig(deps.Config, deps.RateLimiter)),
	)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	if deps.Registry != nil {
		r.GET("/metrics", metrics.Handler(deps.Registry))
	}

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	healthSvc.RegisterRoutes(api)
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.SummaryHandler != nil {
		deps.SummaryHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	rps := cfg.RateLimitRPS
	burst := cfg.RateLimitBurst
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		Limiter:      limiter,
		GroupFor:     rateGroupFor,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault: {Rate: rps, Burst: burst},
			rateGroupUpload:  {Rate: rps / 2, Burst: max(burst/2, 1)},
			rateGroupSummary: {Rate: rps / 5, Burst: max(burst/4, 1)},
		},
	}
}

func rateGroupFor(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case path == "/metrics" || strings.HasSuffix(path, "/health"):
		return rateGroupExempt
	case c.Request.Method == http.MethodPost && path == "/api/v1/documents":
		return rateGroupUpload
	case c.Request.Method == http.MethodPost && path == "/api/v1/documents/:id/summary":
		return rateGroupSummary
	default:
		return rateGroupDefault
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
