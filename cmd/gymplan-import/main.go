package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/meltforce/gymplan/internal/config"
	"github.com/meltforce/gymplan/internal/dataset"
	"github.com/meltforce/gymplan/internal/routine"
	"github.com/meltforce/gymplan/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("path", "", "path to the routines CSV dataset")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the database")
	listImports := flag.Int("list", 0, "print the N most recent imports and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" && *listImports == 0 {
		fmt.Fprintf(os.Stderr, "Usage: gymplan-import -config config.yaml -path /path/to/routines.csv [-dry-run]\n")
		fmt.Fprintf(os.Stderr, "       gymplan-import -config config.yaml -list 10\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var (
		records []routine.CatalogRecord
		stats   dataset.ConvertStats
		hash    string
		err     error
	)
	if *csvPath != "" {
		records, stats, err = dataset.LoadFile(*csvPath)
		if err != nil {
			log.Error("dataset load failed", "path", *csvPath, "error", err)
			os.Exit(1)
		}
		if hash, err = dataset.HashFile(*csvPath); err != nil {
			log.Error("dataset hash failed", "path", *csvPath, "error", err)
			os.Exit(1)
		}
		printStats(log, stats)
	}

	if *dryRun {
		log.Info("DRY RUN mode, nothing written", "records", len(records))
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	if *listImports > 0 {
		if err := printImports(ctx, db, *listImports); err != nil {
			log.Error("listing imports failed", "error", err)
			os.Exit(1)
		}
		return
	}

	entry := storage.ImportLog{
		Source:         *csvPath,
		DatasetHash:    hash,
		Status:         "running",
		Rows:           stats.Rows,
		Records:        stats.Records,
		SkippedProfile: stats.SkippedProfile,
		UnknownMuscles: stats.UnknownMuscles,
	}
	logID, err := db.InsertImportLog(ctx, entry)
	if err != nil {
		log.Error("failed to record import", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	n, importErr := db.ReplaceCatalogRecords(ctx, records)
	ms := int(time.Since(start).Milliseconds())
	entry.DurationMs = &ms
	entry.Inserted = n
	entry.Status = "success"
	if importErr != nil {
		msg := importErr.Error()
		entry.Status = "error"
		entry.ErrorMessage = &msg
	}
	if err := db.UpdateImportLog(ctx, logID, entry); err != nil {
		log.Warn("failed to update import log", "id", logID, "error", err)
	}

	if importErr != nil {
		log.Error("import failed", "error", importErr)
		os.Exit(1)
	}
	log.Info("import complete", "records_inserted", n, "duration_ms", ms, "dataset_hash", hash)
}

func printStats(log *slog.Logger, stats dataset.ConvertStats) {
	log.Info("dataset stats",
		"rows", stats.Rows,
		"records", stats.Records,
		"skipped_profile", stats.SkippedProfile,
		"unknown_muscles", stats.UnknownMuscles,
	)
}

func printImports(ctx context.Context, db *storage.DB, limit int) error {
	logs, err := db.QueryImportLogs(ctx, limit)
	if err != nil {
		return err
	}
	for _, l := range logs {
		shortHash := l.DatasetHash
		if len(shortHash) > 12 {
			shortHash = shortHash[:12]
		}
		fmt.Printf("%d\t%s\t%-7s\t%d records\t%s\t%s\n",
			l.ID, l.CreatedAt.Local().Format("2006-01-02 15:04"), l.Status, l.Inserted, shortHash, l.Source)
	}
	return nil
}
