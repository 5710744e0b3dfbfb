package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shopline/shop-api/auth"
	"github.com/shopline/shop-api/config"
	orderControllers "github.com/shopline/shop-api/controllers/order"
	"github.com/shopline/shop-api/logger"
	"github.com/shopline/shop-api/metrics"
	"github.com/shopline/shop-api/middleware"
	"github.com/shopline/shop-api/routes"
	"github.com/shopline/shop-api/store"
	"github.com/shopline/shop-api/store/gormstore"
	"github.com/shopline/shop-api/store/mongostore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)
	log.Info("✅ Starting application...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init store
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := openStore(initCtx, cfg, log)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("❌ store initialisation failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()

	limiter, closeLimiter := newAuthLimiter(ctx, cfg, log)
	defer closeLimiter()

	hub := orderControllers.NewHub(log)

	// Gin setup
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		metrics.Instrument(),
		cors.New(corsConfig(cfg.CORSOrigins)),
	)

	routes.SetupRoutes(r, routes.Deps{
		Store:       st,
		Tokens:      auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Hub:         hub,
		AuthLimiter: limiter,
		AdminAPIKey: cfg.AdminAPIKey,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Infof("🚀 Server running on port %s (store: %s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// openStore connects the configured backend and prepares its schema and counters.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		ms, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := ms.Init(ctx); err != nil {
			_ = ms.Close(ctx)
			return nil, err
		}
		return ms, nil
	case config.DriverSQLite:
		gs, err := gormstore.OpenSQLite(cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return gs, gs.Migrate(ctx)
	default:
		gs, err := gormstore.OpenPostgres(cfg.PostgresDSN(), log)
		if err != nil {
			return nil, err
		}
		return gs, gs.Migrate(ctx)
	}
}

// newAuthLimiter prefers a redis-backed limiter shared across instances and falls
// back to an in-process one. A limit of zero disables rate limiting.
func newAuthLimiter(ctx context.Context, cfg *config.Config, log *logrus.Logger) (middleware.Limiter, func()) {
	if cfg.AuthRateLimit == 0 {
		return nil, func() {}
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			log.WithField("addr", cfg.RedisAddr).Info("rate limiting through redis")
			return middleware.NewRedisLimiter(client, cfg.AuthRateLimit), func() { _ = client.Close() }
		}
		log.WithError(err).Warn("redis unreachable; using in-process rate limiting")
		_ = client.Close()
	}

	local := middleware.NewLocalLimiter(cfg.AuthRateLimit)
	local.StartCleanup(ctx, 10*time.Minute)
	return local, func() {}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
