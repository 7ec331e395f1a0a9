package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/settlement-console/pkg/config"
	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/metrics"
	"github.com/chris/settlement-console/pkg/notifier"
	"github.com/chris/settlement-console/pkg/server"
	"github.com/chris/settlement-console/pkg/settlement"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/chris/settlement-console/pkg/storage/dynamodb"
	"github.com/chris/settlement-console/pkg/storage/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load configuration, %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store    storage.Storage
		profiles identity.ProfileSource
		events   notifier.Notifier = notifier.NoOp{}
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		mem := memory.New(memory.WithMaxAttempts(cfg.TxMaxAttempts))
		if err := seedDemo(mem, time.Now().UTC()); err != nil {
			log.Fatalf("unable to seed memory store, %v", err)
		}
		store, profiles = mem, mem
		logger.Info("Using in-memory store with demo data")
	default:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		dyn := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), dynamodb.Tables{
			Requests: cfg.RequestsTable,
			Wallets:  cfg.WalletsTable,
			Audit:    cfg.AuditTable,
			Users:    cfg.UsersTable,
		})
		dyn.MaxAttempts = cfg.TxMaxAttempts
		store, profiles = dyn, dyn

		if cfg.EventsQueueURL != "" {
			events = notifier.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)
		}
	}

	var backend identity.Backend
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		backend = identity.NewRedisBackend(rdb)
	} else {
		backend = identity.NewLocalBackend()
	}
	names := identity.NewDisplayNameCache(backend, profiles, cfg.DisplayNameTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service := settlement.New(store,
		settlement.WithNotifier(events),
		settlement.WithMetrics(metrics.NewSettlement(registry)),
	)

	router := server.NewRouter(server.Deps{
		Ops:            service,
		Store:          store,
		Names:          names,
		Logger:         logger,
		Gatherer:       registry,
		HTTPMetrics:    metrics.NewHTTP(registry),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down server", "error", err)
		}
	}()

	logger.Info("Starting server", "port", cfg.HTTPPort, "backend", cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("Server stopped")
}
