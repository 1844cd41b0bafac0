package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/meltforce/gymplan/internal/models"
	"github.com/meltforce/gymplan/internal/routine"
)

// catalogBatchSize keeps each INSERT well below the 65535 parameter limit.
const catalogBatchSize = 1000

// LoadCatalogRecords reads every catalog record. Rows whose gender or goal
// the engine does not recognize are skipped.
func (db *DB) LoadCatalogRecords(ctx context.Context) ([]routine.CatalogRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT gender, goal, day, muscle_groups, exercises, reps, sets
		 FROM catalog_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog records: %w", err)
	}
	defer rows.Close()

	var result []routine.CatalogRecord
	for rows.Next() {
		var r models.CatalogRow
		if err := rows.Scan(&r.Gender, &r.Goal, &r.Day, &r.Muscles, &r.Exercises, &r.Reps, &r.Sets); err != nil {
			return nil, fmt.Errorf("scanning catalog record: %w", err)
		}
		if rec, ok := catalogRecord(r); ok {
			result = append(result, rec)
		}
	}
	return result, rows.Err()
}

// ReplaceCatalogRecords swaps the whole catalog in one transaction.
// Returns the number of rows inserted.
func (db *DB) ReplaceCatalogRecords(ctx context.Context, records []routine.CatalogRecord) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM catalog_records`); err != nil {
		return 0, fmt.Errorf("clearing catalog records: %w", err)
	}

	var total int64
	for start := 0; start < len(records); start += catalogBatchSize {
		batch := records[start:min(start+catalogBatchSize, len(records))]

		query := `INSERT INTO catalog_records (gender, goal, day, muscle_groups, exercises, reps, sets) VALUES `
		args := make([]any, 0, len(batch)*7)
		valueStrings := make([]string, 0, len(batch))

		for i, rec := range batch {
			r := catalogRow(rec)
			base := i * 7
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			))
			args = append(args, r.Gender, r.Goal, r.Day, r.Muscles, r.Exercises, r.Reps, r.Sets)
		}

		query += strings.Join(valueStrings, ",")
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting catalog records: %w", err)
		}
		total += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing catalog records: %w", err)
	}
	return total, nil
}

func catalogRow(rec routine.CatalogRecord) models.CatalogRow {
	r := models.CatalogRow{
		Gender:    string(rec.Gender),
		Goal:      string(rec.Goal),
		Day:       rec.Day,
		Muscles:   make([]string, len(rec.Muscles)),
		Exercises: rec.Exercises,
		Reps:      make([]int32, len(rec.Reps)),
		Sets:      make([]int32, len(rec.Sets)),
	}
	if r.Exercises == nil {
		r.Exercises = []string{}
	}
	for i, m := range rec.Muscles {
		r.Muscles[i] = string(m)
	}
	for i, v := range rec.Reps {
		r.Reps[i] = int32(v)
	}
	for i, v := range rec.Sets {
		r.Sets[i] = int32(v)
	}
	return r
}

func catalogRecord(r models.CatalogRow) (routine.CatalogRecord, bool) {
	gender, err := routine.ParseGender(r.Gender)
	if err != nil {
		return routine.CatalogRecord{}, false
	}
	goal, err := routine.ParseGoal(r.Goal)
	if err != nil {
		return routine.CatalogRecord{}, false
	}
	rec := routine.CatalogRecord{
		Gender:    gender,
		Goal:      goal,
		Day:       r.Day,
		Exercises: r.Exercises,
		Reps:      make([]int, len(r.Reps)),
		Sets:      make([]int, len(r.Sets)),
	}
	for _, name := range r.Muscles {
		if m, err := routine.ParseMuscleGroup(name); err == nil {
			rec.Muscles = append(rec.Muscles, m)
		}
	}
	for i, v := range r.Reps {
		rec.Reps[i] = int(v)
	}
	for i, v := range r.Sets {
		rec.Sets[i] = int(v)
	}
	return rec, true
}
