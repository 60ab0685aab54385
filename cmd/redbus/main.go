package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"redbus-search/internal/config"
	"redbus-search/internal/db"
	"redbus-search/internal/logging"
	"redbus-search/internal/metrics"
	"redbus-search/internal/publisher"
	"redbus-search/internal/search"
	"redbus-search/internal/tracing"
	"redbus-search/internal/web"
)

func main() {
	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logging.Init(cfg.LogLevel)

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.TracingEnabled, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("tracing error: %v", err)
	}
	defer shutdownTracing()

	dsn := cfg.DatabaseURL
	if cfg.DatabaseName != "" {
		dsn, err = db.WithDBName(dsn, cfg.DatabaseName)
		if err != nil {
			log.Fatalf("compose DSN: %v", err)
		}
	}
	pool, err := db.Open(dsn)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer pool.Close()
	// An unreachable database is reported per page render, not fatal at startup.
	if err := db.Ping(ctx, pool); err != nil {
		slog.Warn("database not reachable at startup", "dsn", db.Redact(dsn), "error", err)
	} else {
		slog.Info("database connected", "dsn", db.Redact(dsn))
	}

	mcol := metrics.NewCollector(cfg.SearchDelay)
	if cfg.MetricsAddr != "" {
		msrv := mcol.Serve(cfg.MetricsAddr)
		defer shutdown(msrv)
	}

	opts := search.Options{
		SearchDelay:  cfg.SearchDelay,
		QueryTimeout: cfg.QueryTimeout,
		Metrics:      mcol,
	}
	if cfg.NATSURL != "" {
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, cfg.LogNATSSubjects, mcol)
		if err != nil {
			slog.Warn("nats unavailable, search events disabled", "url", cfg.NATSURL, "error", err)
		} else {
			defer pub.Close()
			opts.Publisher = pub
		}
	}
	svc := search.NewService(pool, opts)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewRouter(svc, mcol, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Block until context cancelled
	<-ctx.Done()
	shutdown(srv)
	slog.Info("shutdown complete")
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("server shutdown", "addr", srv.Addr, "error", err)
	}
}
