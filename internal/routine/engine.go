package routine

import (
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
)

// Engine owns the recovery policy, level table and exercise catalog. It is
// immutable after construction and safe for concurrent use; callers pass
// their own *rand.Rand to every sampling call.
type Engine struct {
	policy   RecoveryPolicy
	levels   LevelTable
	catalog  *Catalog
	planner  *Planner
	composer *Composer
	log      *slog.Logger
}

// NewEngine wires the engine components together.
func NewEngine(policy RecoveryPolicy, levels LevelTable, catalog *Catalog, log *slog.Logger) (*Engine, error) {
	if policy.empty() {
		return nil, missingEntry("recovery policy", "")
	}
	if levels.empty() {
		return nil, missingEntry("level table", "")
	}
	if catalog == nil {
		return nil, errors.New("routine: nil catalog")
	}
	return &Engine{
		policy:   policy,
		levels:   levels,
		catalog:  catalog,
		planner:  NewPlanner(policy, log),
		composer: NewComposer(levels, catalog),
		log:      log,
	}, nil
}

// NewDefaultEngine builds an engine with the shipped policy, level table and
// fallback exercises over the given catalog records.
func NewDefaultEngine(records []CatalogRecord, log *slog.Logger) (*Engine, error) {
	catalog, err := NewCatalog(records, DefaultFallback(), log)
	if err != nil {
		return nil, err
	}
	return NewEngine(DefaultRecoveryPolicy(), DefaultLevelTable(), catalog, log)
}

// Policy returns the recovery policy the engine plans with.
func (e *Engine) Policy() RecoveryPolicy { return e.policy }

// Levels returns the per-level training configuration.
func (e *Engine) Levels() LevelTable { return e.levels }

// Catalog returns the exercise catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// BuildWeeklyDistribution assigns muscle groups to the days of the week for level.
func (e *Engine) BuildWeeklyDistribution(level Level, rng *rand.Rand) (WeeklyDistribution, error) {
	cfg, err := e.levels.Config(level)
	if err != nil {
		return WeeklyDistribution{}, err
	}
	return e.planner.Distribution(cfg, rng)
}

// ComposeWeek picks exercises for every training day of dist.
func (e *Engine) ComposeWeek(gender Gender, goal Goal, level Level, dist WeeklyDistribution, rng *rand.Rand) (WeekPlan, error) {
	return e.composer.ComposeWeek(gender, goal, level, dist, rng)
}

// AdjustWeekForHistory dampens or raises load using the trainee's recent
// sessions. The input plan is not modified.
func (e *Engine) AdjustWeekForHistory(week WeekPlan, history []SessionRecord) WeekPlan {
	if len(history) > 0 {
		e.log.Debug("adjusting plan for history", "level", week.Level, "sessions", len(history))
	}
	return AdjustWeek(week, history)
}

// PlanRequest is the input to Generate.
type PlanRequest struct {
	Gender  Gender
	Goal    Goal
	Level   Level
	History []SessionRecord
}

// DayPlan is one day of a generated plan as presented to clients.
type DayPlan struct {
	Day         Day              `json:"day"`
	Muscles     []MuscleGroup    `json:"muscle_groups"`
	Exercises   DayRoutine       `json:"exercises"`
	Rest        bool             `json:"rest"`
	Adjustments []AdjustmentNote `json:"adjustments,omitempty"`
	Modified    bool             `json:"modified"`
}

// PlanSummary is the headline numbers of a generated plan.
type PlanSummary struct {
	TrainingDays   int     `json:"training_days"`
	RestDays       int     `json:"rest_days"`
	TotalExercises int     `json:"total_exercises"`
	AveragePerDay  float64 `json:"average_per_training_day"`
	Message        string  `json:"message"`
}

// PlanResult is everything Generate produces.
type PlanResult struct {
	Level           Level              `json:"level"`
	TrainingType    TrainingType       `json:"training_type"`
	Frequency       int                `json:"frequency"`
	Distribution    WeeklyDistribution `json:"-"`
	Base            WeekPlan           `json:"-"`
	Plan            WeekPlan           `json:"-"`
	Days            []DayPlan          `json:"days"`
	Stats           *TrainingStats     `json:"history_stats,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Summary         PlanSummary        `json:"summary"`
}

// Generate runs the full pipeline: distribution, composition and, when a
// history is given, adjustment.
func (e *Engine) Generate(req PlanRequest, rng *rand.Rand) (*PlanResult, error) {
	cfg, err := e.levels.Config(req.Level)
	if err != nil {
		return nil, err
	}
	dist, err := e.BuildWeeklyDistribution(req.Level, rng)
	if err != nil {
		return nil, err
	}
	base, err := e.ComposeWeek(req.Gender, req.Goal, req.Level, dist, rng)
	if err != nil {
		return nil, err
	}
	plan := e.AdjustWeekForHistory(base, req.History)

	res := &PlanResult{
		Level:        req.Level,
		TrainingType: cfg.Type,
		Frequency:    cfg.Frequency,
		Distribution: dist,
		Base:         base,
		Plan:         plan,
		Days:         make([]DayPlan, 0, DaysInWeek),
	}
	if req.History != nil {
		stats := ComputeTrainingStats(req.History)
		res.Stats = &stats
		res.Recommendations = Recommendations(req.History)
	}
	for d := range DaysInWeek {
		day := DayPlan{
			Day:       Day(d),
			Muscles:   dist[d],
			Exercises: plan.Days[d],
			Rest:      len(plan.Days[d]) == 0,
		}
		if day.Muscles == nil {
			day.Muscles = []MuscleGroup{}
		}
		if day.Exercises == nil {
			day.Exercises = DayRoutine{}
		}
		day.Adjustments = DiffDay(base.Days[d], plan.Days[d])
		day.Modified = len(day.Adjustments) > 0
		res.Days = append(res.Days, day)
	}
	res.Summary = summarize(res.Days, req.Level)
	return res, nil
}

var levelMessages = map[Level]string{
	Beginner:     "Full-body routine: the whole body three times a week with 48h of rest between sessions.",
	Intermediate: "Split routine: each muscle group is trained 2-3 times a week with adequate rest.",
	Advanced:     "Advanced routine: high frequency and intensity with specialized splits.",
}

func summarize(days []DayPlan, level Level) PlanSummary {
	var s PlanSummary
	for _, d := range days {
		if d.Rest {
			s.RestDays++
			continue
		}
		s.TrainingDays++
		s.TotalExercises += len(d.Exercises)
	}
	if s.TrainingDays > 0 {
		s.AveragePerDay = math.Round(float64(s.TotalExercises)/float64(s.TrainingDays)*10) / 10
	}
	s.Message = levelMessages[level]
	return s
}
