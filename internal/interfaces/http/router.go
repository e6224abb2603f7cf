// Package http wires the gin engine: middleware chain, health and metrics
// endpoints, the authorizer contract endpoint, and the authenticated proxy
// route.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloudedge-io/edgegate/internal/config"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/internal/interfaces/http/handlers"
	"github.com/cloudedge-io/edgegate/internal/interfaces/http/middleware"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

// Router is the gateway's HTTP frontend.
type Router struct {
	engine            *gin.Engine
	cfg               *config.Config
	log               logger.Logger
	metrics           *monitoring.Metrics
	healthHandler     *handlers.HealthHandler
	authorizerHandler *handlers.AuthorizerHandler
	proxyHandler      *handlers.ProxyHandler
	server            *http.Server
}

// NewRouter creates the frontend router.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	metrics *monitoring.Metrics,
	healthHandler *handlers.HealthHandler,
	authorizerHandler *handlers.AuthorizerHandler,
	proxyHandler *handlers.ProxyHandler,
) *Router {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// No redirects before the authorizer runs: an unmatched path gets the
	// generic not-found response, never a 301 hint.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	return &Router{
		engine:            engine,
		cfg:               cfg,
		log:               log.WithComponent("http"),
		metrics:           metrics,
		healthHandler:     healthHandler,
		authorizerHandler: authorizerHandler,
		proxyHandler:      proxyHandler,
	}
}

// SetupRoutes registers the middleware chain and routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Observability(r.metrics, r.log))

	if len(r.cfg.Server.AllowedOrigins) > 0 {
		r.engine.Use(cors.New(cors.Config{
			AllowOrigins:     r.cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.engine.GET("/health", r.healthHandler.HealthCheck)
	r.engine.GET("/ready", r.healthHandler.ReadinessCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.cfg.Server.Environment != "production" {
		pprof.Register(r.engine)
	}

	r.engine.POST("/authorize", r.authorizerHandler.Authorize)

	r.engine.Any("/api/:service/*proxyPath", r.proxyHandler.Handle)

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "The requested resource was not found",
		})
	})
}

// Engine exposes the underlying gin engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (r *Router) Start(ctx context.Context) error {
	r.SetupRoutes()

	r.server = &http.Server{
		Addr:           r.cfg.Server.Address(),
		Handler:        r.engine,
		ReadTimeout:    time.Duration(r.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(r.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(r.cfg.Server.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	r.log.Info(ctx, "HTTP server started", logger.String("address", r.cfg.Server.Address()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r.log.Info(shutdownCtx, "shutting down HTTP server")
	return r.server.Shutdown(shutdownCtx)
}
