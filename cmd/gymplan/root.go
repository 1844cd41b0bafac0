package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meltforce/gymplan/internal/catalogsync"
	"github.com/meltforce/gymplan/internal/dataset"
	"github.com/meltforce/gymplan/internal/logging"
	"github.com/meltforce/gymplan/internal/policy"
	"github.com/meltforce/gymplan/internal/routine"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type options struct {
	datasetPath string
	policyPath  string
	journalDir  string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "gymplan",
		Short:        "Generate weekly gym routines offline",
		Long:         "gymplan builds seven-day gym routines from a trainee profile using the recovery policy and an optional exercise dataset, and keeps a local journal of generated plans.",
		SilenceUsage: true,
	}

	home, _ := os.UserHomeDir()
	rootCmd.PersistentFlags().StringVar(&opts.datasetPath, "dataset", "", "routines CSV dataset (fallback exercises only when empty)")
	rootCmd.PersistentFlags().StringVar(&opts.policyPath, "policy", "", "YAML policy overrides")
	rootCmd.PersistentFlags().StringVar(&opts.journalDir, "journal-dir", filepath.Join(home, ".gymplan"), "directory of the local plan journal")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(opts),
		newRecoveryCmd(opts),
		newValidateCmd(opts),
		newJournalCmd(opts),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}

func (o *options) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// engine loads the policy and dataset once and returns a ready engine.
func (o *options) engine(cmd *cobra.Command, log *slog.Logger) (*catalogsync.Refresher, error) {
	pol, err := policy.Load(o.policyPath)
	if err != nil {
		return nil, err
	}
	var source catalogsync.Source = emptySource{}
	if o.datasetPath != "" {
		source = dataset.FileSource{Path: o.datasetPath, Log: log}
	}
	r := catalogsync.New(source, pol.NewEngine, nil, log)
	if err := r.Reload(cmd.Context()); err != nil {
		return nil, err
	}
	return r, nil
}

// emptySource leaves the catalog empty so every exercise comes from the
// fallback table.
type emptySource struct{}

func (emptySource) LoadCatalogRecords(context.Context) ([]routine.CatalogRecord, error) {
	return nil, nil
}
