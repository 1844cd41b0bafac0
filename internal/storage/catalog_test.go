package storage

import (
	"slices"
	"testing"

	"github.com/meltforce/gymplan/internal/models"
	"github.com/meltforce/gymplan/internal/routine"
)

// TestCatalogRowRoundTrip verifies that a record survives the column mapping.
func TestCatalogRowRoundTrip(t *testing.T) {
	rec := routine.CatalogRecord{
		Gender:    routine.Female,
		Goal:      routine.WeightLoss,
		Day:       "lunes",
		Muscles:   []routine.MuscleGroup{routine.Legs, routine.Abdomen},
		Exercises: []string{"Sentadillas", "Plancha"},
		Reps:      []int{15, 30},
		Sets:      []int{3},
	}
	got, ok := catalogRecord(catalogRow(rec))
	if !ok {
		t.Fatal("catalogRecord rejected a valid row")
	}
	if got.Gender != rec.Gender || got.Goal != rec.Goal || got.Day != rec.Day {
		t.Errorf("got %+v, want %+v", got, rec)
	}
	if !slices.Equal(got.Muscles, rec.Muscles) {
		t.Errorf("Muscles = %v, want %v", got.Muscles, rec.Muscles)
	}
	if !slices.Equal(got.Reps, rec.Reps) || !slices.Equal(got.Sets, rec.Sets) {
		t.Errorf("Reps/Sets = %v/%v, want %v/%v", got.Reps, got.Sets, rec.Reps, rec.Sets)
	}
}

// TestCatalogRecordSkipsUnknownGoal verifies that rows outside the engine vocabulary are dropped.
func TestCatalogRecordSkipsUnknownGoal(t *testing.T) {
	_, ok := catalogRecord(models.CatalogRow{Gender: "Masculino", Goal: "tonificar"})
	if ok {
		t.Error("expected row with unknown goal to be skipped")
	}
}
