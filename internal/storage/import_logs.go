package storage

import (
	"context"
	"fmt"
	"time"
)

// ImportLog represents a single catalog import's outcome.
type ImportLog struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Source         string    `json:"source"`
	DatasetHash    string    `json:"dataset_hash"`
	Status         string    `json:"status"`
	Rows           int       `json:"rows"`
	Records        int       `json:"records"`
	SkippedProfile int       `json:"skipped_profile"`
	UnknownMuscles int       `json:"unknown_muscles"`
	Inserted       int64     `json:"inserted"`
	DurationMs     *int      `json:"duration_ms"`
	ErrorMessage   *string   `json:"error_message"`
}

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO catalog_imports (source, dataset_hash, status, rows, records,
		 skipped_profile, unknown_muscles, inserted, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING id`,
		log.Source, log.DatasetHash, log.Status, log.Rows, log.Records,
		log.SkippedProfile, log.UnknownMuscles, log.Inserted, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry (typically from "running" to "success" or "error").
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE catalog_imports SET
		 status = $2, inserted = $3, duration_ms = $4, error_message = $5
		 WHERE id = $1`,
		id, log.Status, log.Inserted, log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// QueryImportLogs returns the most recent catalog imports.
func (db *DB) QueryImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, source, dataset_hash, status, rows, records,
		 skipped_profile, unknown_muscles, inserted, duration_ms, error_message
		 FROM catalog_imports
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Source, &l.DatasetHash, &l.Status,
			&l.Rows, &l.Records, &l.SkippedProfile, &l.UnknownMuscles, &l.Inserted,
			&l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
