package routine

import "math"

// AdjustForLevel scales a base reps/sets prescription to the trainee level.
// Beginners get lighter volume, advanced trainees more.
func AdjustForLevel(reps, sets int, level Level) (int, int) {
	switch level {
	case Beginner:
		return max(8, scale(reps, 0.8)), min(3, max(2, sets))
	case Advanced:
		return scale(reps, 1.2), min(5, sets+1)
	default:
		return reps, sets
	}
}

func scale(v int, factor float64) int {
	return int(math.Round(float64(v) * factor))
}
