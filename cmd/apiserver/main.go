// API server entry point for the taxon suggestion service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/application/suggest"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/config"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	httpserver "github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/handlers"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

const sweepInterval = time.Minute

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: FOBI_* environment only)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *httpPort); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, httpPort int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if httpPort > 0 {
		cfg.Server.Port = httpPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)
	logger.Info("Starting taxon suggestion API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("addr", cfg.Server.Addr()))

	if configPath != "" {
		watchLogLevel(configPath, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	svc, err := suggest.NewService(suggest.ServiceConfig{
		Searcher:    deps.searcher,
		Lookup:      deps.lookup,
		Sessions:    deps.sessions,
		Logger:      logger.Named("suggest"),
		Publisher:   deps.publisher,
		Metrics:     deps.metrics,
		PerPage:     cfg.Taxonomy.PerPage,
		MaxPages:    cfg.Taxonomy.MaxPages,
		DataSources: cfg.Taxonomy.DataSources,

		ResolveTimeout: cfg.Taxonomy.CallBudget(),
	})
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.Mode)
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.Server.CORSOrigins

	router := httpserver.NewRouter(httpserver.RouterConfig{
		SuggestHandler: handlers.NewSuggestHandler(svc, logger.Named("http")),
		HealthHandler:  handlers.NewHealthHandler(version, deps.checkers...),
		CORS:           &cors,
		Logger:         logger.Named("http"),
		Metrics:        deps.httpMetrics,
		MetricsHandler: deps.metricsHandler,
		MetricsPath:    cfg.Metrics.Path,
	})
	server := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error { return deps.sessions.Run(gctx, sweepInterval) })

	err = g.Wait()
	logger.Info("Taxon suggestion API server stopped")
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// watchLogLevel applies log.level changes of the config file at runtime.
func watchLogLevel(path string, logger logging.Logger) {
	err := config.Watch(path, func(cfg *config.Config) {
		if logging.SetLevel(logger, cfg.Log.Level) {
			logger.Info("Log level changed", logging.String("level", cfg.Log.Level))
		}
	}, func(err error) {
		logger.Warn("Ignoring invalid configuration change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("Config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
