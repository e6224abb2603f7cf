// Command gateway runs the edge authorization and request-routing gateway.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	appservice "github.com/cloudedge-io/edgegate/internal/application/service"
	"github.com/cloudedge-io/edgegate/internal/config"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/cache"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/secrets"
	gatewayhttp "github.com/cloudedge-io/edgegate/internal/interfaces/http"
	"github.com/cloudedge-io/edgegate/internal/interfaces/http/handlers"
	"github.com/cloudedge-io/edgegate/internal/proxy"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.NewZapLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	secretClient, err := secrets.NewVaultClient(cfg.Vault, appLogger, metrics)
	if err != nil {
		appLogger.Fatal(ctx, "failed to create secret client", err)
	}
	secretClient.StartRefresh(ctx)

	var redisClient *redis.Client
	var decisionCache cache.DecisionCache
	switch cfg.Cache.Backend {
	case "redis":
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		decisionCache = cache.NewRedisCache(redisClient, cfg.Auth.DecisionTTLDuration(), appLogger, metrics)
	default:
		decisionCache = cache.NewMemoryCache(cfg.Auth.DecisionTTLDuration(), metrics)
	}

	authorizer := appservice.NewAuthorizerService(secretClient, decisionCache, cfg.Auth, appLogger, metrics)
	backendRouter := proxy.NewRouter(cfg.Backend, appLogger, metrics)

	router := gatewayhttp.NewRouter(
		cfg,
		appLogger,
		metrics,
		handlers.NewHealthHandler(secretClient, redisClient, appLogger),
		handlers.NewAuthorizerHandler(authorizer),
		handlers.NewProxyHandler(authorizer, backendRouter, cfg.Auth, appLogger),
	)

	if err := router.Start(ctx); err != nil {
		appLogger.Fatal(ctx, "HTTP server failed", err)
	}

	appLogger.Info(context.Background(), "gateway stopped")
}
