package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"tailscale.com/tsnet"

	"github.com/meltforce/gymplan/internal/catalogsync"
	"github.com/meltforce/gymplan/internal/config"
	"github.com/meltforce/gymplan/internal/dataset"
	"github.com/meltforce/gymplan/internal/logging"
	"github.com/meltforce/gymplan/internal/metrics"
	"github.com/meltforce/gymplan/internal/plans"
	"github.com/meltforce/gymplan/internal/policy"
	"github.com/meltforce/gymplan/internal/profile"
	"github.com/meltforce/gymplan/internal/server"
	"github.com/meltforce/gymplan/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	log.Info("GymPlan starting", "version", Version)

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	pol, err := policy.Load(cfg.Catalog.PolicyFile)
	if err != nil {
		log.Error("failed to load policy", "error", err)
		os.Exit(1)
	}

	// Catalog comes from the dataset file when configured, else the database
	var source catalogsync.Source = db
	if cfg.Catalog.DatasetPath != "" {
		source = dataset.FileSource{Path: cfg.Catalog.DatasetPath, Log: log}
	}

	m := metrics.New()
	refresher := catalogsync.New(source, pol.NewEngine, m, log)
	if err := refresher.Reload(ctx); err != nil {
		log.Error("initial catalog load failed", "error", err)
		os.Exit(1)
	}
	if err := refresher.Start(cfg.Catalog.Refresh); err != nil {
		log.Error("catalog refresh schedule failed", "error", err)
		os.Exit(1)
	}
	defer refresher.Stop()

	svc := plans.NewService(db, refresher, profile.NewRuleClassifier(), m, cfg.History.LookbackDays, log)

	var limiter *rate.Limiter
	if cfg.RateLimit.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}
	srv := server.New(svc, m, limiter, cfg.Auth.APIKey, log)

	// Listen on the tailnet or plain TCP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
			Logf:     func(format string, args ...any) { log.Debug(fmt.Sprintf(format, args...), "component", "tsnet") },
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
