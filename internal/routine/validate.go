package routine

import (
	"fmt"
	"slices"
)

// DistributionReport lists which structural checks a weekly distribution
// passes.
type DistributionReport struct {
	Level            Level         `json:"level"`
	TrainingType     TrainingType  `json:"training_type"`
	TrainingDays     []Day         `json:"training_days"`
	Missing          []MuscleGroup `json:"missing_muscles"`
	SpacingViolation []string      `json:"spacing_violations"`
	OverCapDays      []Day         `json:"over_cap_days"`
	FullBody         bool          `json:"full_body_ok"`
	Valid            bool          `json:"valid"`
}

// CheckDistribution verifies coverage, recovery spacing, the per-day cap for
// split levels and the full-body layout for full-body levels.
func (e *Engine) CheckDistribution(level Level, dist WeeklyDistribution) (DistributionReport, error) {
	cfg, err := e.levels.Config(level)
	if err != nil {
		return DistributionReport{}, err
	}
	r := DistributionReport{
		Level:            level,
		TrainingType:     cfg.Type,
		TrainingDays:     dist.TrainingDays(),
		Missing:          []MuscleGroup{},
		SpacingViolation: []string{},
		OverCapDays:      []Day{},
	}
	for _, m := range AllMuscleGroups() {
		if !dist.Contains(m) {
			r.Missing = append(r.Missing, m)
		}
	}

	switch cfg.Type {
	case FullBody:
		r.FullBody = true
		for d, muscles := range dist {
			want := cfg.IsTrainingDay(Day(d))
			if want && !slices.Equal(muscles, AllMuscleGroups()) || !want && len(muscles) > 0 {
				r.FullBody = false
			}
		}
	case Split:
		r.FullBody = true
		last := make(map[MuscleGroup]int)
		for d, muscles := range dist {
			if len(muscles) > maxMusclesPerDay {
				r.OverCapDays = append(r.OverCapDays, Day(d))
			}
			for _, m := range muscles {
				rest, err := e.policy.RestDays(m)
				if err != nil {
					return DistributionReport{}, err
				}
				if prev, ok := last[m]; ok && d-prev <= rest {
					r.SpacingViolation = append(r.SpacingViolation,
						fmt.Sprintf("%s on %s and %s (rest %d)", m, Day(prev), Day(d), rest))
				}
				last[m] = d
			}
		}
	}

	r.Valid = len(r.Missing) == 0 && len(r.SpacingViolation) == 0 && len(r.OverCapDays) == 0 && r.FullBody
	return r, nil
}
