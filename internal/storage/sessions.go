package storage

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/meltforce/gymplan/internal/models"
	"github.com/meltforce/gymplan/internal/routine"
)

// RecentSessions returns the attended, confirmed sessions of a user within
// the last daysBack days, newest first.
func (db *DB) RecentSessions(ctx context.Context, userID, daysBack int) ([]routine.SessionRecord, error) {
	since := time.Now().AddDate(0, 0, -daysBack)
	rows, err := db.Pool.Query(ctx,
		`SELECT r.reserved_at, r.attendance, s.level,
		 COALESCE(ru.muscle_groups, '{}'), COALESCE(ru.exercises, '{}')
		 FROM reservations r
		 JOIN schedules s ON r.schedule_id = s.id
		 LEFT JOIN routines ru ON r.routine_id = ru.id
		 WHERE r.user_id = $1
		   AND r.attendance IS NOT NULL
		   AND r.attendance > 0
		   AND r.status = 'confirmed'
		   AND r.reserved_at >= $2
		 ORDER BY r.reserved_at DESC`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var result []routine.SessionRecord
	for rows.Next() {
		var row models.SessionRow
		if err := rows.Scan(&row.ReservedAt, &row.AttendancePct, &row.Level, &row.MuscleGroups, &row.Exercises); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, sessionRecord(row, now))
	}
	return result, rows.Err()
}

// sessionRecord converts a joined reservation row into engine input.
// Muscles and levels the engine does not know are dropped.
func sessionRecord(row models.SessionRow, now time.Time) routine.SessionRecord {
	rec := routine.SessionRecord{
		DaysAgo:       max(0, int(math.Floor(now.Sub(row.ReservedAt).Hours()/24))),
		AttendancePct: row.AttendancePct,
	}
	if lvl, err := routine.ParseLevel(row.Level); err == nil {
		rec.Level = lvl
	}
	for _, name := range row.MuscleGroups {
		if m, err := routine.ParseMuscleGroup(name); err == nil {
			rec.Muscles = append(rec.Muscles, m)
		}
	}
	return rec
}
