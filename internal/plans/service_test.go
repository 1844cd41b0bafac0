package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/gymplan/internal/metrics"
	"github.com/meltforce/gymplan/internal/models"
	"github.com/meltforce/gymplan/internal/profile"
	"github.com/meltforce/gymplan/internal/routine"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var errMissing = errors.New("missing")

type fakeStore struct {
	users    map[int]models.UserRow
	sessions map[int][]routine.SessionRecord
	plans    []models.PlanRow
	daysBack int
}

func (f *fakeStore) GetUser(_ context.Context, id int) (*models.UserRow, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, errMissing)
	}
	return &u, nil
}

func (f *fakeStore) RecentSessions(_ context.Context, userID, daysBack int) ([]routine.SessionRecord, error) {
	f.daysBack = daysBack
	return f.sessions[userID], nil
}

func (f *fakeStore) SavePlan(_ context.Context, row models.PlanRow) (uuid.UUID, error) {
	row.ID = uuid.New()
	row.CreatedAt = time.Now()
	f.plans = append(f.plans, row)
	return row.ID, nil
}

func (f *fakeStore) GetPlan(_ context.Context, id uuid.UUID) (*models.PlanRow, error) {
	for _, p := range f.plans {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errMissing
}

func (f *fakeStore) ListPlans(_ context.Context, userID, limit int) ([]models.PlanRow, error) {
	var out []models.PlanRow
	for _, p := range f.plans {
		if p.UserID != nil && *p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type staticEngine struct{ e *routine.Engine }

func (s staticEngine) Engine() *routine.Engine { return s.e }

var discardLog = slog.New(slog.DiscardHandler)

func newTestService(t *testing.T, store Store, m *metrics.Metrics) *Service {
	t.Helper()
	e, err := routine.NewDefaultEngine(nil, discardLog)
	if err != nil {
		t.Fatalf("NewDefaultEngine: %v", err)
	}
	return NewService(store, staticEngine{e}, profile.NewRuleClassifier(), m, 14, discardLog)
}

func seed(v uint64) *uint64 { return &v }

func TestGenerateForProfileDeterministic(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)
	req := ProfileRequest{
		Gender: "male", Age: 30, WeightKg: 80, HeightM: 1.8,
		Goal: "weight_gain", Level: "intermediate", Seed: seed(7),
	}

	a, err := svc.GenerateForProfile(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateForProfile: %v", err)
	}
	b, err := svc.GenerateForProfile(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateForProfile: %v", err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Error("same seed produced different plans")
	}
	if a.Level != routine.Intermediate {
		t.Errorf("level = %v, want %v", a.Level, routine.Intermediate)
	}
	if a.Seed != 7 {
		t.Errorf("seed = %d, want 7", a.Seed)
	}
	if a.Stats != nil {
		t.Error("stats set without history")
	}
}

func TestGenerateForProfileInvalid(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)

	_, err := svc.GenerateForProfile(context.Background(), ProfileRequest{
		Gender: "other", Age: 30, WeightKg: 80, HeightM: 1.8, Goal: "weight_gain",
	})
	if !errors.Is(err, routine.ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}

	_, err = svc.GenerateForProfile(context.Background(), ProfileRequest{
		Gender: "male", Age: 10, WeightKg: 80, HeightM: 1.8, Goal: "weight_gain",
	})
	if !errors.Is(err, profile.ErrInvalidProfile) {
		t.Errorf("err = %v, want ErrInvalidProfile", err)
	}
}

func TestGenerateForUserStoresPlan(t *testing.T) {
	lvl := "Principiante"
	store := &fakeStore{
		users: map[int]models.UserRow{
			3: {ID: 3, Gender: "Femenino", Age: 25, WeightKg: 60, HeightM: 1.65, Goal: "Pérdida de peso", Level: &lvl},
		},
		sessions: map[int][]routine.SessionRecord{
			3: {{DaysAgo: 1, Muscles: []routine.MuscleGroup{routine.Chest}, AttendancePct: 90, Level: routine.Beginner}},
		},
	}
	m := metrics.New()
	svc := newTestService(t, store, m)

	res, err := svc.GenerateForUser(context.Background(), 3, seed(11))
	if err != nil {
		t.Fatalf("GenerateForUser: %v", err)
	}
	if res.ID == nil || res.UserID == nil || *res.UserID != 3 {
		t.Fatalf("plan id/user not set: %+v", res)
	}
	if res.Level != routine.Beginner {
		t.Errorf("level = %v, want %v", res.Level, routine.Beginner)
	}
	if res.Stats == nil || res.Stats.SessionsPerWeek != 1 {
		t.Errorf("stats = %+v, want weekly frequency 1", res.Stats)
	}
	if store.daysBack != 14 {
		t.Errorf("lookback = %d, want 14", store.daysBack)
	}
	if len(store.plans) != 1 || store.plans[0].Source != "user" {
		t.Fatalf("stored plans = %+v", store.plans)
	}
	if got := testutil.ToFloat64(m.PlansGenerated.WithLabelValues("beginner", "user")); got != 1 {
		t.Errorf("plans_generated = %v, want 1", got)
	}

	stored, err := svc.Plan(context.Background(), *res.ID)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if stored.Level != "beginner" {
		t.Errorf("stored level = %q", stored.Level)
	}
	list, err := svc.UserPlans(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("UserPlans: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(UserPlans) = %d, want 1", len(list))
	}
}

func TestGenerateForUserUnknown(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)
	if _, err := svc.GenerateForUser(context.Background(), 99, nil); !errors.Is(err, errMissing) {
		t.Errorf("err = %v, want errMissing", err)
	}
}

func TestHistoryDefaultsToLookback(t *testing.T) {
	store := &fakeStore{users: map[int]models.UserRow{1: {ID: 1}}}
	svc := newTestService(t, store, nil)

	rep, err := svc.History(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if rep.Days != 14 || store.daysBack != 14 {
		t.Errorf("days = %d (store %d), want 14", rep.Days, store.daysBack)
	}
	if rep.Sessions == nil {
		t.Error("sessions should be an empty slice, not nil")
	}
	if len(rep.Recommendations) == 0 {
		t.Error("expected a recommendation for an empty history")
	}
}

func TestUnavailableWithoutEngine(t *testing.T) {
	svc := NewService(&fakeStore{}, staticEngine{}, profile.NewRuleClassifier(), nil, 14, discardLog)
	if _, err := svc.RecoveryPolicy(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("RecoveryPolicy err = %v, want ErrUnavailable", err)
	}
	if _, err := svc.Validate(context.Background(), 1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Validate err = %v, want ErrUnavailable", err)
	}
}

func TestValidateAllLevels(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)
	reports, err := svc.Validate(context.Background(), 42)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(reports) != len(routine.AllLevels()) {
		t.Fatalf("len(reports) = %d, want %d", len(reports), len(routine.AllLevels()))
	}
	for _, r := range reports {
		if !r.Valid {
			t.Errorf("level %v invalid: %+v", r.Level, r)
		}
	}
}

func TestGenerateForProfileSpanishHistory(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)
	base := `{"gender":"male","age":30,"weight_kg":80,"height_m":1.8,"goal":"weight_gain","level":"intermediate","seed":5,`

	var spanish, english ProfileRequest
	if err := json.Unmarshal([]byte(base+`"history":[{"days_ago":0,"muscle_groups":["pecho","espalda"],"attendance_pct":95,"level":"intermedio"}]}`), &spanish); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(base+`"history":[{"days_ago":0,"muscle_groups":["chest","back"],"attendance_pct":95,"level":"intermediate"}]}`), &english); err != nil {
		t.Fatalf("decode: %v", err)
	}

	a, err := svc.GenerateForProfile(context.Background(), spanish)
	if err != nil {
		t.Fatalf("GenerateForProfile: %v", err)
	}
	b, err := svc.GenerateForProfile(context.Background(), english)
	if err != nil {
		t.Fatalf("GenerateForProfile: %v", err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Error("Spanish and English history produced different plans")
	}
	if a.Stats == nil || a.Stats.MostFrequentLevel != routine.Intermediate {
		t.Errorf("stats = %+v, want most frequent level intermediate", a.Stats)
	}
}

func TestGenerateForProfileRejectsBadHistory(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)
	for name, h := range map[string]routine.SessionRecord{
		"negative days": {DaysAgo: -3, Muscles: []routine.MuscleGroup{routine.Legs}, AttendancePct: 80, Level: routine.Beginner},
		"attendance":    {DaysAgo: 1, Muscles: []routine.MuscleGroup{routine.Legs}, AttendancePct: 250, Level: routine.Beginner},
		"level":         {DaysAgo: 1, Muscles: []routine.MuscleGroup{routine.Legs}, AttendancePct: 80, Level: "bogus"},
	} {
		_, err := svc.GenerateForProfile(context.Background(), ProfileRequest{
			Gender: "male", Age: 30, WeightKg: 80, HeightM: 1.8, Goal: "weight_gain",
			History: []routine.SessionRecord{h},
		})
		if !errors.Is(err, routine.ErrInvalidValue) {
			t.Errorf("%s: err = %v, want ErrInvalidValue", name, err)
		}
	}
}

func TestStoredSeedRoundTrips(t *testing.T) {
	store := &fakeStore{users: map[int]models.UserRow{1: {ID: 1, Gender: "male", Age: 30, WeightKg: 80, HeightM: 1.8, Goal: "weight_gain"}}}
	svc := newTestService(t, store, nil)

	const big = uint64(1<<64 - 1)
	res, err := svc.GenerateForUser(context.Background(), 1, seed(big))
	if err != nil {
		t.Fatalf("GenerateForUser: %v", err)
	}
	stored, err := svc.Plan(context.Background(), *res.ID)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if stored.Seed == nil || *stored.Seed != big {
		t.Errorf("stored seed = %v, want %d", stored.Seed, big)
	}

	again, err := svc.GenerateForUser(context.Background(), 1, stored.Seed)
	if err != nil {
		t.Fatalf("GenerateForUser: %v", err)
	}
	ja, _ := json.Marshal(res.PlanResult)
	jb, _ := json.Marshal(again.PlanResult)
	if string(ja) != string(jb) {
		t.Error("stored seed did not reproduce the plan")
	}
}
