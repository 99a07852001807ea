package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/handlers"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/middleware"
)

// DefaultMetricsPath is where the Prometheus handler is mounted.
const DefaultMetricsPath = "/metrics"

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	// Handlers
	SuggestHandler *handlers.SuggestHandler
	HealthHandler  *handlers.HealthHandler

	// Middleware
	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig

	// Infrastructure
	Logger         logging.Logger
	Metrics        middleware.HTTPMetrics
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter constructs the complete HTTP route tree from the given
// configuration: global middleware, public probes, the metrics endpoint and
// the /api/v1 resource group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Logging != nil {
		logCfg = *cfg.Logging
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// --- Global middleware (applied to every request) ---
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(logger, cfg.Metrics, logCfg))
	r.Use(middleware.Recovery(logger))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}

	// --- Public health endpoints ---
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}

	// --- Metrics endpoint ---
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	// --- API v1 ---
	api := r.Group("/api/v1")
	if cfg.SuggestHandler != nil {
		cfg.SuggestHandler.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Code:      "COMMON_005",
			Message:   "route not found",
			RequestID: middleware.GetRequestID(c),
		})
	})

	return r
}

//Personal.AI order the ending
