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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/01moynul/bizdesk/internal/config"
	"github.com/01moynul/bizdesk/internal/dashboard"
	"github.com/01moynul/bizdesk/internal/database"
	"github.com/01moynul/bizdesk/internal/handlers"
	"github.com/01moynul/bizdesk/internal/idempotency"
	"github.com/01moynul/bizdesk/internal/logging"
	"github.com/01moynul/bizdesk/internal/orders"
	"github.com/01moynul/bizdesk/internal/routes"
	"github.com/01moynul/bizdesk/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("bizdesk api stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// 0. --- Configuration & Logging ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otel.SetTextMapPropagator(propagation.TraceContext{})

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDBWithDSN(ctx, log, cfg.PrimaryDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.InitSchema(ctx, log, db); err != nil {
			return err
		}
	}

	// 2. --- Reporting Connection (Read-Only, optional) ---
	var dbReadOnly *sql.DB
	if cfg.ReadOnlyDSN != "" {
		dbReadOnly, err = database.OpenDBWithDSN(ctx, log, cfg.ReadOnlyDSN)
		if err != nil {
			return err
		}
		defer dbReadOnly.Close()
	}

	// 3. --- Idempotency Store (Redis, optional) ---
	var idem *idempotency.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, idempotency keys will be ignored until it recovers", "addr", cfg.RedisAddr, "err", err)
		}
		idem = idempotency.NewStore(rdb, cfg.IdempotencyTTL)
	}

	// --- Application Setup ---
	st := store.New(log, db, dbReadOnly)
	processor := orders.NewProcessor(log, orders.SQLStore{Store: st}, orders.Policy{RestockOnCancel: cfg.RestockOnCancel})
	reports := dashboard.New(st)
	app := handlers.New(log, st, processor, reports, db.PingContext)

	// --- Router Setup ---
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(app, routes.Options{
		CORSOrigin:  cfg.CORSOrigin,
		Idempotency: idem,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "bizdesk-api"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr, "restock_on_cancel", cfg.RestockOnCancel, "idempotency", idem != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("bizdesk api shutdown complete")
	return nil
}
