package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cfanalyzer/internal/analyzer/controller"
	"cfanalyzer/internal/analyzer/service"
	"cfanalyzer/internal/codeforces"
	"cfanalyzer/internal/common/cache"
	"cfanalyzer/internal/common/http/middleware"
	"cfanalyzer/internal/dashboard"
	"cfanalyzer/internal/recommend"
	"cfanalyzer/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/analyzer.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	addr := flag.String("addr", "", "Override listen address")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		appCfg.Server.Addr = *addr
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(appCfg); err != nil {
		logger.Error(context.Background(), "analyzer stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(appCfg *AppConfig) error {
	ctx := context.Background()

	var shared cache.BasicOps
	if appCfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
		if err != nil {
			return fmt.Errorf("init redis failed: %w", err)
		}
		defer func() { _ = redisCache.Close() }()
		shared = redisCache
		logger.Info(ctx, "redis enabled", zap.String("addr", appCfg.Redis.Addr))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := codeforces.NewClient(appCfg.Codeforces, codeforces.WithMetrics(codeforces.NewMetrics(registry)))
	catalog, err := recommend.NewCatalog(client, shared, appCfg.Catalog)
	if err != nil {
		return fmt.Errorf("init catalog failed: %w", err)
	}
	recommender := recommend.NewRecommender(catalog, appCfg.Recommend.Limit)
	dash := dashboard.NewService(client, recommender)
	sessions := dashboard.NewSessions(appCfg.Sessions.MaxSessions, appCfg.Sessions.TTL)

	var limiter middleware.Limiter
	if shared != nil && appCfg.Rate.IPMax > 0 {
		limiter = service.NewRateLimitService(shared, appCfg.Rate.Window, appCfg.Redis.ReadTimeout)
	}

	handler := controller.NewAnalyzerController(dash, sessions, client)
	httpServer := buildHTTPServer(appCfg, handler, limiter, registry, catalog)

	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("init http listener failed: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "analyzer http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.Serve(listener)
	}()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server stopped: %w", err)
			}
			return nil
		case <-reload:
			if err := catalog.Invalidate(ctx); err != nil {
				logger.Warn(ctx, "catalog invalidate failed", zap.Error(err))
			} else {
				logger.Info(ctx, "problem catalog invalidated")
			}
		case <-shutdownCtx.Done():
			logger.Info(ctx, "shutdown signal received")
			timeoutCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(timeoutCtx); err != nil {
				return fmt.Errorf("http server shutdown failed: %w", err)
			}
			return nil
		}
	}
}

func buildHTTPServer(cfg *AppConfig, h *controller.AnalyzerController, limiter middleware.Limiter, registry *prometheus.Registry, catalog catalogState) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceContextMiddleware())
	maxAge := ""
	if cfg.CORS.MaxAge > 0 {
		maxAge = fmt.Sprintf("%d", int(cfg.CORS.MaxAge.Seconds()))
	}
	router.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		Enabled:          cfg.CORS.Enabled,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           maxAge,
	}))
	router.Use(middleware.RequestLogger())
	router.Use(requestTimeout(cfg.Server.RequestTimeout))

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/readyz", readyHandler(catalog))
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	controller.RegisterRoutes(router, h, limiter, middleware.RateLimitPolicy{
		Window: cfg.Rate.Window,
		IPMax:  cfg.Rate.IPMax,
	})

	return &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
}

func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

type catalogState interface {
	Ready() bool
}

// readyHandler reports whether the problem catalog is loaded. The catalog
// loads lazily, so an empty one is reported but does not fail the probe.
func readyHandler(catalog catalogState) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"catalogLoaded": catalog != nil && catalog.Ready(),
		})
	}
}
