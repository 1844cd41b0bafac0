package routine

import (
	"math/rand/v2"
)

// splitExercisesCap bounds exercises per muscle on a split day.
const splitExercisesCap = 3

// DayRoutine is the ordered exercise list for one day. Empty means rest.
type DayRoutine []Exercise

// WeekPlan is the composed week. Level is kept so history adjustment can
// apply level-dependent rules.
type WeekPlan struct {
	Level Level                  `json:"level"`
	Days  [DaysInWeek]DayRoutine `json:"days"`
}

// TotalExercises counts exercises across the week.
func (w WeekPlan) TotalExercises() int {
	n := 0
	for _, d := range w.Days {
		n += len(d)
	}
	return n
}

func (w WeekPlan) clone() WeekPlan {
	out := WeekPlan{Level: w.Level}
	for d, ex := range w.Days {
		if ex != nil {
			out.Days[d] = append(DayRoutine(nil), ex...)
		}
	}
	return out
}

// Composer turns muscle-group lists into concrete exercises.
type Composer struct {
	levels  LevelTable
	catalog *Catalog
}

// NewComposer creates a Composer.
func NewComposer(levels LevelTable, catalog *Catalog) *Composer {
	return &Composer{levels: levels, catalog: catalog}
}

// exercisesPerMuscle is 1 under full-body and min(per-group max, 3) under split.
func exercisesPerMuscle(cfg LevelConfig) int {
	if cfg.Type == FullBody {
		return 1
	}
	return min(cfg.PerGroup.Max, splitExercisesCap)
}

// ComposeDay returns the exercises for one day, muscle by muscle in order.
// No deduplication happens across muscles.
func (c *Composer) ComposeDay(gender Gender, goal Goal, level Level, muscles []MuscleGroup, rng *rand.Rand) (DayRoutine, error) {
	cfg, err := c.levels.Config(level)
	if err != nil {
		return nil, err
	}
	if len(muscles) == 0 {
		return nil, nil
	}
	per := exercisesPerMuscle(cfg)
	var out DayRoutine
	for _, m := range muscles {
		ex, err := c.catalog.Exercises(gender, goal, level, m, per, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, ex...)
	}
	return out, nil
}

// ComposeWeek composes every day of dist.
func (c *Composer) ComposeWeek(gender Gender, goal Goal, level Level, dist WeeklyDistribution, rng *rand.Rand) (WeekPlan, error) {
	plan := WeekPlan{Level: level}
	for d, muscles := range dist {
		day, err := c.ComposeDay(gender, goal, level, muscles, rng)
		if err != nil {
			return WeekPlan{}, err
		}
		plan.Days[d] = day
	}
	return plan, nil
}
