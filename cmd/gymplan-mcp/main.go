package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/gymplan/internal/catalogsync"
	"github.com/meltforce/gymplan/internal/config"
	"github.com/meltforce/gymplan/internal/dataset"
	"github.com/meltforce/gymplan/internal/mcp"
	"github.com/meltforce/gymplan/internal/plans"
	"github.com/meltforce/gymplan/internal/policy"
	"github.com/meltforce/gymplan/internal/profile"
	"github.com/meltforce/gymplan/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "GymPlan server URL; when set, tools call its REST API")
	apiKey := flag.String("api-key", os.Getenv("GYMPLAN_AUTH_API_KEY"), "API key for -server")
	configPath := flag.String("config", "config.yaml", "path to config file for local mode")
	userID := flag.Int("user", 1, "user ID the session acts for")
	flag.Parse()

	// stdout carries the MCP protocol
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("remote mode", "server", *serverURL)
	} else {
		svc, closeFn, err := localService(*configPath, log)
		if err != nil {
			log.Error("local mode setup failed", "error", err)
			os.Exit(1)
		}
		defer closeFn()
		ds = svc
		log.Info("local mode", "config", *configPath)
	}

	s := mcp.New(ds, Version, log)
	uid := *userID
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, uid)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

func localService(configPath string, log *slog.Logger) (*plans.Service, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}

	pol, err := policy.Load(cfg.Catalog.PolicyFile)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	var source catalogsync.Source = db
	if cfg.Catalog.DatasetPath != "" {
		source = dataset.FileSource{Path: cfg.Catalog.DatasetPath, Log: log}
	}
	refresher := catalogsync.New(source, pol.NewEngine, nil, log)
	if err := refresher.Reload(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initial catalog load: %w", err)
	}

	svc := plans.NewService(db, refresher, profile.NewRuleClassifier(), nil, cfg.History.LookbackDays, log)
	return svc, db.Close, nil
}
