package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/binarygaragedev/RouteWise-sub000/internal/audit"
	"github.com/binarygaragedev/RouteWise-sub000/internal/auth"
	"github.com/binarygaragedev/RouteWise-sub000/internal/consent"
	consenthandler "github.com/binarygaragedev/RouteWise-sub000/internal/consent/handler"
	"github.com/binarygaragedev/RouteWise-sub000/internal/disclosure"
	disclosurehandler "github.com/binarygaragedev/RouteWise-sub000/internal/disclosure/handler"
	"github.com/binarygaragedev/RouteWise-sub000/internal/drivers"
	"github.com/binarygaragedev/RouteWise-sub000/internal/negotiation"
	negotiationhandler "github.com/binarygaragedev/RouteWise-sub000/internal/negotiation/handler"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/config"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/httpserver"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/kafka"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/logger"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	platformredis "github.com/binarygaragedev/RouteWise-sub000/internal/platform/redis"
	"github.com/binarygaragedev/RouteWise-sub000/internal/preferences"
	preferenceshandler "github.com/binarygaragedev/RouteWise-sub000/internal/preferences/handler"
)

// main wires stores, services, and handlers; business logic lives in the
// internal packages. Store backends are chosen by configuration: PostgreSQL
// and Redis when configured, in-memory otherwise.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Stores.
	var (
		prefsStore       preferences.Store
		driverStore      drivers.Store
		consentStore     consent.Store
		negotiationStore negotiation.Store
		auditStore       audit.Store
	)
	prefsStore = preferences.NewInMemoryStore()
	driverStore = drivers.NewInMemoryStore()
	consentStore = consent.NewInMemoryStore()
	negotiationStore = negotiation.NewInMemoryStore()
	auditStore = audit.NewInMemoryStore()

	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		auditDB, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer auditDB.Close()

		prefsStore = preferences.NewPostgresStore(pool)
		driverStore = drivers.NewPostgresStore(pool)
		consentStore = consent.NewPostgresStore(pool)
		negotiationStore = negotiation.NewPostgresStore(pool)
		auditStore = audit.NewPostgresStore(auditDB)
		log.Info("using postgresql stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		prefsStore = preferences.NewRedisStore(redisClient)
		log.Info("using redis preference store")
	}

	// Audit pipeline: bounded inbox, async worker, optional Kafka stream.
	auditPublisher := audit.NewPublisher(cfg.AuditBuffer, log, m)

	var auditStream audit.Stream
	kafkaPublisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic, log)
	if err != nil {
		return err
	}
	if kafkaPublisher != nil {
		defer kafkaPublisher.Close()
		auditStream = kafkaPublisher
		log.Info("audit stream enabled", "topic", cfg.KafkaAuditTopic)
	}
	auditWorker := audit.NewWorker(auditStore, auditStream, auditPublisher.Events(), log, m)

	// Services.
	prefsService := preferences.NewService(prefsStore, auditPublisher, log)
	ledger, err := consent.NewLedger(consentStore, driverStore, log,
		consent.WithAuditor(auditPublisher),
		consent.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	negotiationService, err := negotiation.NewService(negotiationStore, driverStore, ledger, log,
		negotiation.WithAuditor(auditPublisher),
		negotiation.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	disclosureService := disclosure.NewService(prefsService, ledger, auditPublisher, log, m)

	jwtService := auth.NewJWTService(cfg.JWTSigningKey)

	// Router.
	router := chi.NewRouter()
	router.Get("/healthz", healthz(redisClient))
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	preferenceshandler.New(prefsService, log, m, jwtService).Register(router)
	consenthandler.New(ledger, log, m, jwtService).Register(router)
	negotiationhandler.New(negotiationService, log, m, jwtService).Register(router)
	disclosurehandler.New(disclosureService, log, m, jwtService).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := auditWorker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func healthz(redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
