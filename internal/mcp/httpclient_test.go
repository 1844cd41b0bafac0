package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meltforce/gymplan/internal/plans"
	"github.com/meltforce/gymplan/internal/routine"
	"github.com/meltforce/gymplan/internal/storage"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "k" {
			t.Errorf("X-API-Key = %q, want k", got)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestGenerateForProfile verifies the profile is posted as JSON and the
// flattened plan result is decoded.
func TestGenerateForProfile(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/routines/predict": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			var req plans.ProfileRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatal(err)
			}
			if req.Gender != "female" || req.Age != 40 {
				t.Errorf("request = %+v", req)
			}
			writeTestJSON(t, w, map[string]any{
				"seed":  7,
				"level": "beginner",
				"days":  []map[string]any{{"day": "monday", "muscle_groups": []string{"chest"}}},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "k")
	res, err := client.GenerateForProfile(context.Background(), plans.ProfileRequest{Gender: "female", Age: 40})
	if err != nil {
		t.Fatal(err)
	}
	if res.Seed != 7 {
		t.Errorf("seed = %d, want 7", res.Seed)
	}
	if res.PlanResult == nil || res.Level != routine.Beginner {
		t.Fatalf("plan = %+v, want beginner", res.PlanResult)
	}
	if len(res.Days) != 1 || res.Days[0].Day != routine.Monday {
		t.Errorf("days = %+v", res.Days)
	}
}

// TestGenerateForUser verifies the seed travels as a query parameter.
func TestGenerateForUser(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/routines/users/4": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("seed"); got != "12" {
				t.Errorf("seed=%q, want 12", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"plan_id":"0b9f7c1e-7d4a-4c36-8f3e-2f0a7b6f1a11","user_id":4,"seed":12,"level":"advanced"}`))
		},
	})
	defer ts.Close()

	seed := uint64(12)
	res, err := NewHTTPClient(ts.URL, "k").GenerateForUser(context.Background(), 4, &seed)
	if err != nil {
		t.Fatal(err)
	}
	if res.ID == nil || res.UserID == nil || *res.UserID != 4 {
		t.Errorf("result = %+v", res)
	}
}

// TestHistoryParams verifies days is only sent when positive.
func TestHistoryParams(t *testing.T) {
	var gotDays []string
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/users/1/history": func(w http.ResponseWriter, r *http.Request) {
			gotDays = append(gotDays, r.URL.Query().Get("days"))
			writeTestJSON(t, w, plans.HistoryReport{UserID: 1, Days: 14})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "k")
	for _, days := range []int{0, 30} {
		if _, err := client.History(context.Background(), 1, days); err != nil {
			t.Fatal(err)
		}
	}
	if len(gotDays) != 2 || gotDays[0] != "" || gotDays[1] != "30" {
		t.Errorf("days params = %q, want [\"\" \"30\"]", gotDays)
	}
}

// TestUserPlans verifies the list response is decoded.
func TestUserPlans(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/users/2/plans": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit=%q, want 5", got)
			}
			writeTestJSON(t, w, []plans.StoredPlan{{Level: "beginner", Source: "user", Plan: json.RawMessage(`{}`)}})
		},
	})
	defer ts.Close()

	list, err := NewHTTPClient(ts.URL, "k").UserPlans(context.Background(), 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Source != "user" {
		t.Errorf("plans = %+v", list)
	}
}

// TestRecoveryPolicy verifies the policy tables decode with typed keys.
func TestRecoveryPolicy(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/routines/recovery": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, plans.PolicyView{
				Recovery: routine.DefaultRecoveryRules(),
				Levels:   routine.DefaultLevelConfigs(),
			})
		},
	})
	defer ts.Close()

	view, err := NewHTTPClient(ts.URL, "k").RecoveryPolicy(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rule := view.Recovery[routine.Legs]; rule.RestDays != routine.DefaultRecoveryRules()[routine.Legs].RestDays {
		t.Errorf("legs rule = %+v", rule)
	}
	if len(view.Levels) != 3 {
		t.Errorf("len(levels) = %d, want 3", len(view.Levels))
	}
}

// TestHTTPErrorStatus verifies 404s wrap storage.ErrNotFound and other
// failures carry the status.
func TestHTTPErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/users/9/history": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"user 9: not found"}`, http.StatusNotFound)
		},
		"/api/v1/routines/recovery": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"routine engine not loaded"}`, http.StatusServiceUnavailable)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "k")
	if _, err := client.History(context.Background(), 9, 0); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := client.RecoveryPolicy(context.Background()); err == nil {
		t.Error("expected error for 503")
	}
}
