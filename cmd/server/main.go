package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"datacatalog/internal/access"
	"datacatalog/internal/admin"
	adminhandler "datacatalog/internal/admin/handler"
	"datacatalog/internal/audit"
	auditpg "datacatalog/internal/audit/store/postgres"
	jwttoken "datacatalog/internal/jwt_token"
	"datacatalog/internal/notification"
	"datacatalog/internal/platform/config"
	"datacatalog/internal/platform/httpserver"
	"datacatalog/internal/platform/logger"
	"datacatalog/internal/platform/metrics"
	"datacatalog/internal/platform/middleware"
	platformredis "datacatalog/internal/platform/redis"
)

// main wires stores, services, the HTTP router, and the notification worker.
// Business logic lives in internal packages; main only assembles them.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	grants := access.NewInMemoryGrantStore()
	notices := access.NewInMemoryNoticeStore()
	requests := access.NewInMemoryRequestStore()

	var notifications notification.Store = notification.NewInMemoryStore()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		notifications = notification.NewRedisStore(redisClient.Client)
		defer redisClient.Close()
		log.Info("using redis-backed notification schedule")
	}

	var auditLog audit.Store = audit.NewInMemoryStore()
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		auditLog = auditpg.New(db)
		log.Info("using postgres-backed audit log")
	}

	service, err := admin.New(grants, notices, requests, notifications, auditLog,
		admin.WithLogger(log),
		admin.WithMetrics(m),
	)
	if err != nil {
		log.Error("service initialization failed", "error", err)
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "catalog-gateway", "catalog-admin")

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.ClientMetadata)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(jwttoken.NewJWTServiceAdapter(jwtService), log))
		adminhandler.New(service, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	worker := admin.NewWorker(service, cfg.WorkerInterval, cfg.NotificationRetentionDays, log, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting catalog gateway", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		err := worker.Run(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
