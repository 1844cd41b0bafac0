package routine

import (
	"slices"
)

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// LevelConfig is the training policy for one level.
type LevelConfig struct {
	TotalPerDay  Range        `json:"total_per_day" yaml:"total_per_day"`
	PerGroup     Range        `json:"per_group" yaml:"per_group"`
	Type         TrainingType `json:"training_type" yaml:"training_type"`
	Frequency    int          `json:"frequency" yaml:"frequency"`
	TrainingDays []Day        `json:"training_days" yaml:"training_days"`
}

// IsTrainingDay reports whether d is one of the configured training days.
func (c LevelConfig) IsTrainingDay(d Day) bool {
	return slices.Contains(c.TrainingDays, d)
}

// LevelTable holds the configuration for every level.
type LevelTable struct {
	levels map[Level]LevelConfig
}

// NewLevelTable validates the per-level configuration. Training days are
// stored in calendar order.
func NewLevelTable(levels map[Level]LevelConfig) (LevelTable, error) {
	copied := make(map[Level]LevelConfig, len(levels))
	for lvl, cfg := range levels {
		if !slices.Contains(AllLevels(), lvl) {
			return LevelTable{}, invalidEntry("level config", lvl, "unknown level")
		}
		if err := validateLevelConfig(lvl, cfg); err != nil {
			return LevelTable{}, err
		}
		cfg.TrainingDays = slices.Clone(cfg.TrainingDays)
		slices.Sort(cfg.TrainingDays)
		copied[lvl] = cfg
	}
	for _, lvl := range AllLevels() {
		if _, ok := copied[lvl]; !ok {
			return LevelTable{}, missingEntry("level config", lvl)
		}
	}
	return LevelTable{levels: copied}, nil
}

func validateLevelConfig(lvl Level, cfg LevelConfig) error {
	if cfg.Type != FullBody && cfg.Type != Split {
		return invalidEntry("level config", lvl, "training type must be full_body or split")
	}
	if cfg.Frequency != len(cfg.TrainingDays) {
		return invalidEntry("level config", lvl, "frequency must equal the number of training days")
	}
	seen := make(map[Day]bool, len(cfg.TrainingDays))
	for _, d := range cfg.TrainingDays {
		if !d.Valid() {
			return invalidEntry("level config", lvl, "training day out of range")
		}
		if seen[d] {
			return invalidEntry("level config", lvl, "duplicate training day "+d.String())
		}
		seen[d] = true
	}
	if cfg.PerGroup.Min < 1 || cfg.PerGroup.Max < cfg.PerGroup.Min {
		return invalidEntry("level config", lvl, "per-group range must satisfy 1 <= min <= max")
	}
	if cfg.TotalPerDay.Max < cfg.TotalPerDay.Min {
		return invalidEntry("level config", lvl, "total-per-day range must satisfy min <= max")
	}
	return nil
}

// DefaultLevelConfigs returns the stock policy: full body three times a week
// for beginners, five and six day splits above that.
func DefaultLevelConfigs() map[Level]LevelConfig {
	return map[Level]LevelConfig{
		Beginner: {
			TotalPerDay:  Range{6, 8},
			PerGroup:     Range{1, 1},
			Type:         FullBody,
			Frequency:    3,
			TrainingDays: []Day{Monday, Wednesday, Friday},
		},
		Intermediate: {
			TotalPerDay:  Range{8, 10},
			PerGroup:     Range{2, 3},
			Type:         Split,
			Frequency:    5,
			TrainingDays: []Day{Monday, Tuesday, Wednesday, Thursday, Friday},
		},
		Advanced: {
			TotalPerDay:  Range{9, 12},
			PerGroup:     Range{3, 4},
			Type:         Split,
			Frequency:    6,
			TrainingDays: []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday},
		},
	}
}

// DefaultLevelTable returns the table built from DefaultLevelConfigs.
func DefaultLevelTable() LevelTable {
	t, err := NewLevelTable(DefaultLevelConfigs())
	if err != nil {
		panic(err)
	}
	return t
}

// Config returns the configuration for lvl.
func (t LevelTable) Config(lvl Level) (LevelConfig, error) {
	cfg, ok := t.levels[lvl]
	if !ok {
		return LevelConfig{}, missingEntry("level config", lvl)
	}
	cfg.TrainingDays = slices.Clone(cfg.TrainingDays)
	return cfg, nil
}

// All returns a copy of every level configuration.
func (t LevelTable) All() map[Level]LevelConfig {
	out := make(map[Level]LevelConfig, len(t.levels))
	for lvl, cfg := range t.levels {
		cfg.TrainingDays = slices.Clone(cfg.TrainingDays)
		out[lvl] = cfg
	}
	return out
}

func (t LevelTable) empty() bool {
	return len(t.levels) == 0
}
