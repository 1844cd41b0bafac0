package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/gymplan/internal/models"
)

// GetUser loads a trainee profile by ID.
func (db *DB) GetUser(ctx context.Context, id int) (*models.UserRow, error) {
	var u models.UserRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, email, name, gender, age, weight_kg, height_m, goal, level, created_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Gender, &u.Age, &u.WeightKg, &u.HeightM, &u.Goal, &u.Level, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &u, nil
}
