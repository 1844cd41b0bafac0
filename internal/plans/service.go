// Package plans generates, persists and reads weekly plans on behalf of the
// HTTP and MCP front ends.
package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/gymplan/internal/metrics"
	"github.com/meltforce/gymplan/internal/models"
	"github.com/meltforce/gymplan/internal/profile"
	"github.com/meltforce/gymplan/internal/routine"
)

// ErrUnavailable is returned while no engine has been loaded yet.
var ErrUnavailable = errors.New("routine engine not loaded")

// Store is the persistence the service needs. *storage.DB satisfies it.
type Store interface {
	GetUser(ctx context.Context, id int) (*models.UserRow, error)
	RecentSessions(ctx context.Context, userID, daysBack int) ([]routine.SessionRecord, error)
	SavePlan(ctx context.Context, row models.PlanRow) (uuid.UUID, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.PlanRow, error)
	ListPlans(ctx context.Context, userID, limit int) ([]models.PlanRow, error)
}

// EngineSource returns the live engine. *catalogsync.Refresher satisfies it.
type EngineSource interface {
	Engine() *routine.Engine
}

// Service wires the engine, the classifier and the store together.
type Service struct {
	store        Store
	engines      EngineSource
	classifier   profile.Classifier
	metrics      *metrics.Metrics
	lookbackDays int
	log          *slog.Logger
}

// NewService creates a Service. m may be nil.
func NewService(store Store, engines EngineSource, classifier profile.Classifier, m *metrics.Metrics, lookbackDays int, log *slog.Logger) *Service {
	return &Service{
		store:        store,
		engines:      engines,
		classifier:   classifier,
		metrics:      m,
		lookbackDays: lookbackDays,
		log:          log,
	}
}

// ProfileRequest is a plan request for a profile that is not stored.
type ProfileRequest struct {
	Gender   string                  `json:"gender"`
	Age      int                     `json:"age"`
	WeightKg float64                 `json:"weight_kg"`
	HeightM  float64                 `json:"height_m"`
	Goal     string                  `json:"goal"`
	Level    string                  `json:"level,omitempty"`
	Seed     *uint64                 `json:"seed,omitempty"`
	History  []routine.SessionRecord `json:"history,omitempty"`
}

// Profile parses the request into the engine vocabulary.
func (r ProfileRequest) Profile() (routine.UserProfile, error) {
	p := routine.UserProfile{Age: r.Age, WeightKg: r.WeightKg, HeightM: r.HeightM}
	var err error
	if p.Gender, err = routine.ParseGender(r.Gender); err != nil {
		return p, err
	}
	if p.Goal, err = routine.ParseGoal(r.Goal); err != nil {
		return p, err
	}
	if r.Level != "" {
		if p.Level, err = routine.ParseLevel(r.Level); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Result is a generated plan with the inputs that produced it.
type Result struct {
	ID         *uuid.UUID          `json:"plan_id,omitempty"`
	UserID     *int                `json:"user_id,omitempty"`
	Profile    routine.UserProfile `json:"profile"`
	Prediction profile.Prediction  `json:"prediction"`
	Seed       uint64              `json:"seed"`
	*routine.PlanResult
}

// GenerateForProfile builds a plan for an anonymous profile. Nothing is stored.
func (s *Service) GenerateForProfile(ctx context.Context, req ProfileRequest) (*Result, error) {
	p, err := req.Profile()
	if err != nil {
		return nil, err
	}
	if err := routine.ValidateHistory(req.History); err != nil {
		return nil, err
	}
	res, err := s.generate(p, req.History, req.Seed)
	if err != nil {
		return nil, err
	}
	s.count(res.Level, "anonymous")
	return res, nil
}

// GenerateForUser builds a plan for a stored user, adjusted to their recent
// sessions, and stores it.
func (s *Service) GenerateForUser(ctx context.Context, userID int, seed *uint64) (*Result, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := userProfile(u)
	if err != nil {
		return nil, err
	}
	history, err := s.store.RecentSessions(ctx, userID, s.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if history == nil {
		history = []routine.SessionRecord{}
	}

	res, err := s.generate(p, history, seed)
	if err != nil {
		return nil, err
	}
	res.UserID = &userID

	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}
	storedSeed := int64(res.Seed)
	id, err := s.store.SavePlan(ctx, models.PlanRow{
		UserID: &userID,
		Level:  string(res.Level),
		Source: "user",
		Seed:   &storedSeed,
		Plan:   data,
	})
	if err != nil {
		return nil, err
	}
	res.ID = &id
	s.count(res.Level, "user")
	s.log.Info("plan generated", "user_id", userID, "level", res.Level, "sessions", len(history), "plan_id", id)
	return res, nil
}

func (s *Service) generate(p routine.UserProfile, history []routine.SessionRecord, seed *uint64) (*Result, error) {
	e := s.engines.Engine()
	if e == nil {
		return nil, ErrUnavailable
	}
	p, err := profile.Normalize(p)
	if err != nil {
		return nil, err
	}
	pred, err := s.classifier.Predict(p)
	if err != nil {
		return nil, err
	}
	p.Level = pred.Level

	sd := uint64(time.Now().UnixNano())
	if seed != nil {
		sd = *seed
	}
	plan, err := e.Generate(routine.PlanRequest{
		Gender:  p.Gender,
		Goal:    p.Goal,
		Level:   pred.Level,
		History: history,
	}, routine.NewRand(sd))
	if err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}
	return &Result{Profile: p, Prediction: pred, Seed: sd, PlanResult: plan}, nil
}

func userProfile(u *models.UserRow) (routine.UserProfile, error) {
	req := ProfileRequest{
		Gender:   u.Gender,
		Age:      u.Age,
		WeightKg: u.WeightKg,
		HeightM:  u.HeightM,
		Goal:     u.Goal,
	}
	if u.Level != nil {
		req.Level = *u.Level
	}
	p, err := req.Profile()
	if err != nil {
		return p, fmt.Errorf("user %d: %w", u.ID, err)
	}
	return p, nil
}

func (s *Service) count(level routine.Level, source string) {
	if s.metrics != nil {
		s.metrics.PlanGenerated(string(level), source)
	}
}

// HistoryReport is a user's recent sessions with derived statistics.
type HistoryReport struct {
	UserID          int                     `json:"user_id"`
	Days            int                     `json:"days"`
	Sessions        []routine.SessionRecord `json:"sessions"`
	Stats           routine.TrainingStats   `json:"stats"`
	Recommendations []string                `json:"recommendations"`
}

// History returns the user's sessions from the last days days. days <= 0
// uses the configured lookback.
func (s *Service) History(ctx context.Context, userID, days int) (*HistoryReport, error) {
	if days <= 0 {
		days = s.lookbackDays
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	sessions, err := s.store.RecentSessions(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if sessions == nil {
		sessions = []routine.SessionRecord{}
	}
	return &HistoryReport{
		UserID:          userID,
		Days:            days,
		Sessions:        sessions,
		Stats:           routine.ComputeTrainingStats(sessions),
		Recommendations: routine.Recommendations(sessions),
	}, nil
}

// StoredPlan is a persisted plan as returned to clients.
type StoredPlan struct {
	ID        uuid.UUID       `json:"id"`
	UserID    *int            `json:"user_id,omitempty"`
	Level     string          `json:"level"`
	Source    string          `json:"source"`
	Seed      *uint64         `json:"seed,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Plan      json.RawMessage `json:"plan"`
}

// storedPlan converts a row. Seeds are kept in a BIGINT column as the same
// 64 bits, so a seed above MaxInt64 is stored negative and restored here.
func storedPlan(row models.PlanRow) StoredPlan {
	var seed *uint64
	if row.Seed != nil {
		v := uint64(*row.Seed)
		seed = &v
	}
	return StoredPlan{
		ID:        row.ID,
		UserID:    row.UserID,
		Level:     row.Level,
		Source:    row.Source,
		Seed:      seed,
		CreatedAt: row.CreatedAt,
		Plan:      json.RawMessage(row.Plan),
	}
}

// Plan returns one stored plan.
func (s *Service) Plan(ctx context.Context, id uuid.UUID) (*StoredPlan, error) {
	row, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	p := storedPlan(*row)
	return &p, nil
}

// UserPlans lists a user's most recent plans.
func (s *Service) UserPlans(ctx context.Context, userID, limit int) ([]StoredPlan, error) {
	rows, err := s.store.ListPlans(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]StoredPlan, 0, len(rows))
	for _, r := range rows {
		out = append(out, storedPlan(r))
	}
	return out, nil
}

// PolicyView is the active recovery policy and level table.
type PolicyView struct {
	Recovery map[routine.MuscleGroup]routine.RecoveryRule `json:"recovery"`
	Levels   map[routine.Level]routine.LevelConfig        `json:"levels"`
}

// RecoveryPolicy describes the live engine's tables.
func (s *Service) RecoveryPolicy(ctx context.Context) (*PolicyView, error) {
	e := s.engines.Engine()
	if e == nil {
		return nil, ErrUnavailable
	}
	return &PolicyView{Recovery: e.Policy().Rules(), Levels: e.Levels().All()}, nil
}

// Validate builds one distribution per level with seed and checks it.
func (s *Service) Validate(ctx context.Context, seed uint64) ([]routine.DistributionReport, error) {
	e := s.engines.Engine()
	if e == nil {
		return nil, ErrUnavailable
	}
	rng := routine.NewRand(seed)
	var reports []routine.DistributionReport
	for _, lvl := range routine.AllLevels() {
		dist, err := e.BuildWeeklyDistribution(lvl, rng)
		if err != nil {
			return nil, err
		}
		r, err := e.CheckDistribution(lvl, dist)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
