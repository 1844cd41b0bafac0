package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestSaveListGet verifies entries round-trip and list newest first.
func TestSaveListGet(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	older := Entry{CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), Level: "beginner", Gender: "female", Goal: "weight_loss", Seed: 7, Plan: []byte(`{"days":[]}`)}
	newer := Entry{CreatedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC), Level: "advanced", Gender: "male", Goal: "weight_gain", Seed: 1 << 63, Plan: []byte(`{}`)}

	olderID, err := j.Save(older)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := j.Save(newer); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := j.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Level != "advanced" {
		t.Errorf("entries[0].Level = %q, want advanced", entries[0].Level)
	}
	if entries[0].Seed != 1<<63 {
		t.Errorf("entries[0].Seed = %d, want %d", entries[0].Seed, uint64(1<<63))
	}

	got, err := j.Get(olderID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Plan) != `{"days":[]}` {
		t.Errorf("plan = %s", got.Plan)
	}
	if got.Seed != 7 {
		t.Errorf("seed = %d, want 7", got.Seed)
	}
}

// TestGetUnknown verifies the not-found sentinel.
func TestGetUnknown(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	if _, err := j.Get(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
