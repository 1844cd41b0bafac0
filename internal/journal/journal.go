// Package journal records plans generated offline by the CLI in a local
// SQLite database.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown entry.
var ErrNotFound = errors.New("journal entry not found")

// Entry is one journaled plan.
type Entry struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Level       string
	Gender      string
	Goal        string
	Seed        uint64
	DatasetHash string
	Plan        []byte
}

// Journal is a SQLite-backed plan log.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at dir/journal.db.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS plans (
		id           TEXT PRIMARY KEY,
		created_at   TIMESTAMP NOT NULL,
		level        TEXT NOT NULL,
		gender       TEXT NOT NULL,
		goal         TEXT NOT NULL,
		seed         INTEGER NOT NULL,
		dataset_hash TEXT NOT NULL,
		plan         TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating plans table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Save records a plan and returns its ID.
func (j *Journal) Save(e Entry) (uuid.UUID, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(
		`INSERT INTO plans (id, created_at, level, gender, goal, seed, dataset_hash, plan)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.CreatedAt, e.Level, e.Gender, e.Goal, int64(e.Seed), e.DatasetHash, string(e.Plan),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("saving plan: %w", err)
	}
	return e.ID, nil
}

// List returns the newest entries first.
func (j *Journal) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT id, created_at, level, gender, goal, seed, dataset_hash, plan
		 FROM plans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Get returns one entry by ID.
func (j *Journal) Get(id uuid.UUID) (Entry, error) {
	row := j.db.QueryRow(
		`SELECT id, created_at, level, gender, goal, seed, dataset_hash, plan
		 FROM plans WHERE id = ?`, id.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e    Entry
		id   string
		seed int64
		plan string
	)
	if err := s.Scan(&id, &e.CreatedAt, &e.Level, &e.Gender, &e.Goal, &seed, &e.DatasetHash, &plan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning plan: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing plan id %q: %w", id, err)
	}
	e.ID = parsed
	e.Seed = uint64(seed)
	e.Plan = []byte(plan)
	return e, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
