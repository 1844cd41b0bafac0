package routine

import (
	"fmt"
	"math"
	"slices"
)

// recencyWindow is how many days back a muscle counts as recently trained.
const recencyWindow = 2

// SessionRecord is one attended session from the trainee's history.
type SessionRecord struct {
	DaysAgo       int           `json:"days_ago"`
	Muscles       []MuscleGroup `json:"muscle_groups"`
	AttendancePct float64       `json:"attendance_pct"`
	Level         Level         `json:"level"`
}

// Validate checks that the record's values are within range.
func (r SessionRecord) Validate() error {
	switch {
	case r.DaysAgo < 0:
		return fmt.Errorf("%w: days_ago %d is negative", ErrInvalidValue, r.DaysAgo)
	case r.AttendancePct < 0 || r.AttendancePct > 100:
		return fmt.Errorf("%w: attendance_pct %v outside 0-100", ErrInvalidValue, r.AttendancePct)
	case !slices.Contains(AllLevels(), r.Level):
		return fmt.Errorf("%w: session level %q", ErrInvalidValue, r.Level)
	}
	for _, m := range r.Muscles {
		if !m.Valid() {
			return fmt.Errorf("%w: muscle group %q", ErrInvalidValue, m)
		}
	}
	return nil
}

// ValidateHistory validates every record and names the first bad one.
func ValidateHistory(records []SessionRecord) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("history[%d]: %w", i, err)
		}
	}
	return nil
}

// MuscleCount is a muscle group with how many sessions trained it.
type MuscleCount struct {
	Muscle MuscleGroup `json:"muscle"`
	Count  int         `json:"count"`
}

// TrainingStats summarizes a session history.
type TrainingStats struct {
	SessionsPerWeek   int           `json:"sessions_per_week"`
	AverageAttendance float64       `json:"average_attendance"`
	MostFrequentLevel Level         `json:"most_frequent_level"`
	TopMuscles        []MuscleCount `json:"top_muscles"`
	TotalSessions     int           `json:"total_sessions"`
}

// RecentMuscleDays maps each muscle trained within limit days to the
// smallest DaysAgo it was trained.
func RecentMuscleDays(records []SessionRecord, limit int) map[MuscleGroup]int {
	out := make(map[MuscleGroup]int)
	for _, r := range records {
		if r.DaysAgo > limit {
			continue
		}
		for _, m := range r.Muscles {
			if prev, ok := out[m]; !ok || r.DaysAgo < prev {
				out[m] = r.DaysAgo
			}
		}
	}
	return out
}

// ComputeTrainingStats aggregates records. Ties in level and muscle counts
// go to whichever was seen first.
func ComputeTrainingStats(records []SessionRecord) TrainingStats {
	stats := TrainingStats{MostFrequentLevel: Intermediate, TotalSessions: len(records)}
	if len(records) == 0 {
		return stats
	}

	var attendance float64
	var levelOrder []Level
	levelCount := make(map[Level]int)
	var muscleOrder []MuscleGroup
	muscleCount := make(map[MuscleGroup]int)

	for _, r := range records {
		if r.DaysAgo <= 7 {
			stats.SessionsPerWeek++
		}
		attendance += r.AttendancePct
		if r.Level != "" {
			if levelCount[r.Level] == 0 {
				levelOrder = append(levelOrder, r.Level)
			}
			levelCount[r.Level]++
		}
		for _, m := range r.Muscles {
			if muscleCount[m] == 0 {
				muscleOrder = append(muscleOrder, m)
			}
			muscleCount[m]++
		}
	}

	stats.AverageAttendance = math.Round(attendance/float64(len(records))*10) / 10

	best := 0
	for _, lvl := range levelOrder {
		if levelCount[lvl] > best {
			best = levelCount[lvl]
			stats.MostFrequentLevel = lvl
		}
	}

	top := make([]MuscleCount, 0, len(muscleOrder))
	for _, m := range muscleOrder {
		top = append(top, MuscleCount{Muscle: m, Count: muscleCount[m]})
	}
	slices.SortStableFunc(top, func(a, b MuscleCount) int { return b.Count - a.Count })
	if len(top) > 5 {
		top = top[:5]
	}
	stats.TopMuscles = top
	return stats
}

// historyLoad is the per-plan input to the adjustment rules.
type historyLoad struct {
	recent     map[MuscleGroup]int
	weekly     int
	attendance float64
	level      Level
}

func newHistoryLoad(records []SessionRecord, level Level) historyLoad {
	stats := ComputeTrainingStats(records)
	return historyLoad{
		recent:     RecentMuscleDays(records, recencyWindow),
		weekly:     stats.SessionsPerWeek,
		attendance: stats.AverageAttendance,
		level:      level,
	}
}

// adjust applies the history rules to one exercise. Rules are cumulative.
func (h historyLoad) adjust(ex Exercise) Exercise {
	if days, ok := h.recent[ex.Muscle]; ok {
		switch days {
		case 0:
			ex.Sets = max(1, ex.Sets-2)
			ex.Reps = max(6, scale(ex.Reps, 0.6))
		case 1:
			ex.Sets = max(1, ex.Sets-1)
			ex.Reps = max(8, scale(ex.Reps, 0.8))
		case 2:
			ex.Reps = max(10, scale(ex.Reps, 0.9))
		}
	}

	if h.weekly >= 5 {
		ex.Sets = max(1, ex.Sets-1)
	} else if h.weekly <= 2 && (h.level == Intermediate || h.level == Advanced) {
		ex.Sets = min(5, ex.Sets+1)
	}

	if h.attendance < 70 {
		ex.Reps = max(8, scale(ex.Reps, 0.9))
	}
	return ex
}

// AdjustDay applies the history rules to every exercise of day and returns
// a new slice.
func AdjustDay(day DayRoutine, records []SessionRecord, level Level) DayRoutine {
	if len(records) == 0 || day == nil {
		return day
	}
	return newHistoryLoad(records, level).adjustDay(day)
}

func (h historyLoad) adjustDay(day DayRoutine) DayRoutine {
	if day == nil {
		return nil
	}
	out := make(DayRoutine, len(day))
	for i, ex := range day {
		out[i] = h.adjust(ex)
	}
	return out
}

// AdjustWeek applies the history rules to the whole week. An empty history
// leaves the plan unchanged. The input plan is never modified.
func AdjustWeek(week WeekPlan, records []SessionRecord) WeekPlan {
	if len(records) == 0 {
		return week.clone()
	}
	h := newHistoryLoad(records, week.Level)
	out := WeekPlan{Level: week.Level}
	for d, day := range week.Days {
		out.Days[d] = h.adjustDay(day)
	}
	return out
}

// AdjustmentNote records how one exercise changed after history adjustment.
type AdjustmentNote struct {
	Exercise string      `json:"exercise"`
	Muscle   MuscleGroup `json:"muscle"`
	BaseSets int         `json:"base_sets"`
	BaseReps int         `json:"base_reps"`
	Sets     int         `json:"sets"`
	Reps     int         `json:"reps"`
}

// DiffDay lists the exercises whose sets or reps differ between base and
// adjusted. Both routines must come from the same composition.
func DiffDay(base, adjusted DayRoutine) []AdjustmentNote {
	var notes []AdjustmentNote
	for i := range min(len(base), len(adjusted)) {
		b, a := base[i], adjusted[i]
		if b.Sets == a.Sets && b.Reps == a.Reps {
			continue
		}
		notes = append(notes, AdjustmentNote{
			Exercise: a.Name,
			Muscle:   a.Muscle,
			BaseSets: b.Sets,
			BaseReps: b.Reps,
			Sets:     a.Sets,
			Reps:     a.Reps,
		})
	}
	return notes
}
