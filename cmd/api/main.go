package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/agenda-api/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-api/internal/db"
	"github.com/BruksfildServices01/agenda-api/internal/media"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/monitoring"
	"github.com/BruksfildServices01/agenda-api/internal/payments"
	"github.com/BruksfildServices01/agenda-api/internal/routes"
)

func main() {

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
		}); err != nil {
			log.Fatalf("sentry init failed: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	monitoring.Init()

	db := dbpkg.NewDB(cfg)

	rdb := newRedis(cfg, logger)

	var checkout payments.Checkout
	if cfg.MercadoPagoToken != "" {
		mp, err := payments.NewMercadoPago(cfg.MercadoPagoToken)
		if err != nil {
			log.Fatalf("mercadopago init failed: %v", err)
		}
		checkout = mp
	}

	var storage *media.Storage
	if cfg.S3Bucket != "" {
		s3Client := media.NewS3Client(cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey)
		storage = media.NewStorage(s3Client, cfg.S3Bucket, cfg.S3BaseURL, logger)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SentryMiddleware())
	r.Use(middleware.PrometheusMetrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Redis:    rdb,
		Checkout: checkout,
		Storage:  storage,
		Logger:   logger,
	})

	logger.Info("server running", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newRedis tenta conectar; sem Redis a API sobe mesmo assim, apenas sem
// cache de queries.
func newRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, query cache disabled", "error", err)
		return nil
	}

	return rdb
}
