package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/gymplan/internal/models"
)

// SavePlan stores a generated plan and returns its ID.
func (db *DB) SavePlan(ctx context.Context, row models.PlanRow) (uuid.UUID, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO generated_plans (id, user_id, level, source, seed, plan)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		row.ID, row.UserID, row.Level, row.Source, row.Seed, row.Plan)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting plan: %w", err)
	}
	return row.ID, nil
}

// GetPlan loads a stored plan by ID.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (*models.PlanRow, error) {
	var p models.PlanRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, level, source, seed, plan, created_at
		 FROM generated_plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Level, &p.Source, &p.Seed, &p.Plan, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting plan %s: %w", id, err)
	}
	return &p, nil
}

// ListPlans returns the most recent plans generated for a user.
func (db *DB) ListPlans(ctx context.Context, userID, limit int) ([]models.PlanRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, level, source, seed, plan, created_at
		 FROM generated_plans
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.PlanRow
	for rows.Next() {
		var p models.PlanRow
		if err := rows.Scan(&p.ID, &p.UserID, &p.Level, &p.Source, &p.Seed, &p.Plan, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
