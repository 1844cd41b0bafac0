package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRow is a row of the users table.
type UserRow struct {
	ID        int
	Email     string
	Name      string
	Gender    string
	Age       int
	WeightKg  float64
	HeightM   float64
	Goal      string
	Level     *string
	CreatedAt time.Time
}

// SessionRow is one attended reservation joined with its schedule and routine.
type SessionRow struct {
	ReservedAt    time.Time
	AttendancePct float64
	Level         string
	MuscleGroups  []string
	Exercises     []string
}

// CatalogRow is a row of the catalog_records table.
type CatalogRow struct {
	Gender    string
	Goal      string
	Day       string
	Muscles   []string
	Exercises []string
	Reps      []int32
	Sets      []int32
}

// PlanRow is a row of the generated_plans table. Plan holds the JSON
// encoded plan result.
type PlanRow struct {
	ID        uuid.UUID
	UserID    *int
	Level     string
	Source    string
	Seed      *int64
	Plan      []byte
	CreatedAt time.Time
}
