// Package policy loads optional YAML overrides for the engine tables.
package policy

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/gymplan/internal/routine"
)

// Policy is the full set of tables an engine is built from.
type Policy struct {
	Recovery map[routine.MuscleGroup]routine.RecoveryRule `yaml:"recovery"`
	Levels   map[routine.Level]routine.LevelConfig        `yaml:"levels"`
	Fallback routine.Fallback                             `yaml:"fallback"`
}

// Default returns the shipped tables.
func Default() Policy {
	return Policy{
		Recovery: routine.DefaultRecoveryRules(),
		Levels:   routine.DefaultLevelConfigs(),
		Fallback: routine.DefaultFallback(),
	}
}

// Load merges the YAML file at path over the defaults. Entries present in
// the file replace the default entry for that muscle or level; everything
// else keeps its default. An empty path returns the defaults.
func Load(path string) (Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}
	var override Policy
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Policy{}, fmt.Errorf("parsing policy file: %w", err)
	}
	for m, r := range override.Recovery {
		p.Recovery[m] = r
	}
	for lvl, cfg := range override.Levels {
		p.Levels[lvl] = cfg
	}
	for m, names := range override.Fallback.Names {
		p.Fallback.Names[m] = names
	}
	for lvl, in := range override.Fallback.Intensity {
		p.Fallback.Intensity[lvl] = in
	}
	return p, nil
}

// NewEngine validates the tables and builds an engine over records.
func (p Policy) NewEngine(records []routine.CatalogRecord, log *slog.Logger) (*routine.Engine, error) {
	recovery, err := routine.NewRecoveryPolicy(p.Recovery)
	if err != nil {
		return nil, fmt.Errorf("recovery policy: %w", err)
	}
	levels, err := routine.NewLevelTable(p.Levels)
	if err != nil {
		return nil, fmt.Errorf("level table: %w", err)
	}
	catalog, err := routine.NewCatalog(records, p.Fallback, log)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return routine.NewEngine(recovery, levels, catalog, log)
}
