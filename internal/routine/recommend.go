package routine

import "slices"

const recommendationWindow = 3

// Recommendations returns coaching hints derived from the session history.
func Recommendations(records []SessionRecord) []string {
	if len(records) == 0 {
		return []string{"Start with a balanced routine to build a solid base."}
	}
	stats := ComputeTrainingStats(records)
	recent := RecentMuscleDays(records, recommendationWindow)

	var out []string
	switch {
	case stats.SessionsPerWeek > 5:
		out = append(out, "You train very often. Consider adding rest days for better recovery.")
	case stats.SessionsPerWeek < 2:
		out = append(out, "Training more often would improve your results.")
	default:
		out = append(out, "Your training frequency is good.")
	}

	switch {
	case stats.AverageAttendance < 70:
		out = append(out, "Your average attendance is low. Shorter but consistent routines may help.")
	case stats.AverageAttendance > 90:
		out = append(out, "Excellent consistency in your sessions!")
	}

	if len(recent) > 4 {
		out = append(out, "You have worked many muscle groups recently. Consider an active rest day.")
	}

	top := make([]MuscleGroup, 0, 3)
	for _, mc := range stats.TopMuscles[:min(3, len(stats.TopMuscles))] {
		top = append(top, mc.Muscle)
	}
	if !slices.Contains(top, Legs) {
		out = append(out, "Consider including more leg exercises in your routine.")
	}
	if !slices.Contains(top, Abdomen) {
		out = append(out, "Don't forget to train your core regularly.")
	}
	return out
}
