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

	"chronoplan/internal/platform/config"
	"chronoplan/internal/platform/httpserver"
	"chronoplan/internal/platform/logger"
	"chronoplan/internal/platform/metrics"
	"chronoplan/internal/scheduling/handler"
	"chronoplan/internal/scheduling/service"
	"chronoplan/internal/scheduling/store/auditlog"
	"chronoplan/internal/scheduling/store/event"
	"chronoplan/internal/scheduling/store/profile"
	"chronoplan/internal/timezone"
	"chronoplan/internal/transport/http/shared"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	m := metrics.New()
	norm := timezone.New()

	var (
		events   service.EventStore
		profiles service.ProfileStore
		logs     service.AuditLog
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err.Error())
			os.Exit(1)
		}
		if err := db.PingContext(context.Background()); err != nil {
			log.Error("failed to ping database", "error", err.Error())
			os.Exit(1)
		}
		events = event.NewPostgres(db)
		profiles = profile.NewPostgres(db)
		logs = auditlog.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		events = event.NewInMemory()
		profiles = profile.NewInMemory()
		logs = auditlog.NewInMemory()
		log.Info("using in-memory stores")
	}

	svc := service.New(events, profiles, logs, norm,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	router := chi.NewRouter()
	handler.New(svc, norm, log, m).Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting chronoplan", "addr", cfg.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
