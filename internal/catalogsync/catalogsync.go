// Package catalogsync keeps the live engine in step with its exercise source.
package catalogsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"

	"github.com/meltforce/gymplan/internal/metrics"
	"github.com/meltforce/gymplan/internal/routine"
)

// Source provides catalog records, from the dataset file or the database.
type Source interface {
	LoadCatalogRecords(ctx context.Context) ([]routine.CatalogRecord, error)
}

// Builder turns records into an engine, typically policy.Policy.NewEngine.
type Builder func(records []routine.CatalogRecord, log *slog.Logger) (*routine.Engine, error)

// Refresher rebuilds the engine from its source and publishes it atomically.
// Readers always see a complete engine.
type Refresher struct {
	source  Source
	build   Builder
	metrics *metrics.Metrics
	log     *slog.Logger
	engine  atomic.Pointer[routine.Engine]
	cron    *cron.Cron
	timeout time.Duration
}

// New creates a Refresher. Call Reload once before serving.
func New(source Source, build Builder, m *metrics.Metrics, log *slog.Logger) *Refresher {
	return &Refresher{
		source:  source,
		build:   build,
		metrics: m,
		log:     log,
		timeout: 2 * time.Minute,
	}
}

// Engine returns the currently published engine, or nil before the first
// successful Reload.
func (r *Refresher) Engine() *routine.Engine {
	return r.engine.Load()
}

// Reload loads the source, builds a new engine and swaps it in. On error the
// previous engine stays active.
func (r *Refresher) Reload(ctx context.Context) error {
	records, err := r.source.LoadCatalogRecords(ctx)
	if err != nil {
		r.observe("error")
		return fmt.Errorf("loading catalog: %w", err)
	}
	e, err := r.build(records, r.log)
	if err != nil {
		r.observe("error")
		return fmt.Errorf("building engine: %w", err)
	}
	r.engine.Store(e)
	r.observe("success")
	if r.metrics != nil {
		r.metrics.CatalogRecords.Set(float64(e.Catalog().Len()))
	}
	r.log.Info("catalog loaded", "records", e.Catalog().Len())
	return nil
}

func (r *Refresher) observe(result string) {
	if r.metrics != nil {
		r.metrics.CatalogReloads.WithLabelValues(result).Inc()
	}
}

// Start schedules periodic reloads with a cron spec such as "@every 1h".
func (r *Refresher) Start(spec string) error {
	c := cron.New()
	err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.Reload(ctx); err != nil {
			r.log.Error("catalog reload failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling catalog refresh: %w", err)
	}
	c.Start()
	r.cron = c
	return nil
}

// Stop halts scheduled reloads.
func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
