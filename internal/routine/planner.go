package routine

import (
	"log/slog"
	"math/rand/v2"
	"slices"
)

// maxMusclesPerDay caps how many muscle groups a split day trains.
const maxMusclesPerDay = 3

// WeeklyDistribution assigns an ordered list of muscle groups to every
// calendar day. An empty list is a rest day.
type WeeklyDistribution [DaysInWeek][]MuscleGroup

// TrainingDays returns the days with at least one muscle group.
func (w WeeklyDistribution) TrainingDays() []Day {
	var days []Day
	for d, muscles := range w {
		if len(muscles) > 0 {
			days = append(days, Day(d))
		}
	}
	return days
}

// Contains reports whether m is trained anywhere in the week.
func (w WeeklyDistribution) Contains(m MuscleGroup) bool {
	for _, muscles := range w {
		if slices.Contains(muscles, m) {
			return true
		}
	}
	return false
}

// Planner builds weekly muscle-group distributions.
type Planner struct {
	policy RecoveryPolicy
	log    *slog.Logger
}

// NewPlanner creates a Planner over a recovery policy.
func NewPlanner(policy RecoveryPolicy, log *slog.Logger) *Planner {
	return &Planner{policy: policy, log: log}
}

// Distribution builds the week for one level configuration.
func (p *Planner) Distribution(cfg LevelConfig, rng *rand.Rand) (WeeklyDistribution, error) {
	switch cfg.Type {
	case FullBody:
		return fullBodyDistribution(cfg.TrainingDays), nil
	case Split:
		return p.splitDistribution(cfg.TrainingDays, rng)
	}
	return WeeklyDistribution{}, invalidEntry("training type", cfg.Type, "unsupported")
}

func fullBodyDistribution(days []Day) WeeklyDistribution {
	var dist WeeklyDistribution
	for _, d := range days {
		dist[d] = AllMuscleGroups()
	}
	return dist
}

// splitDistribution fills the training days greedily. Muscles never used yet
// take priority, bicep and tricep first, and every pick respects the rest
// days since the muscle's last assignment.
func (p *Planner) splitDistribution(days []Day, rng *rand.Rand) (WeeklyDistribution, error) {
	var dist WeeklyDistribution
	lastDay := make(map[MuscleGroup]int)
	assigned := make(map[MuscleGroup]bool)

	for _, day := range days {
		available, err := p.available(int(day), lastDay)
		if err != nil {
			return WeeklyDistribution{}, err
		}

		var selected []MuscleGroup
		if len(available) == 0 {
			selected = []MuscleGroup{Abdomen}
		} else {
			selected, err = p.selectForDay(available, assigned, rng)
			if err != nil {
				return WeeklyDistribution{}, err
			}
		}

		for _, m := range selected {
			lastDay[m] = int(day)
			assigned[m] = true
		}
		dist[day] = selected
	}

	p.repair(&dist, days)
	return dist, nil
}

func (p *Planner) available(day int, lastDay map[MuscleGroup]int) ([]MuscleGroup, error) {
	var out []MuscleGroup
	for _, m := range AllMuscleGroups() {
		last, worked := lastDay[m]
		if !worked {
			out = append(out, m)
			continue
		}
		rest, err := p.policy.RestDays(m)
		if err != nil {
			return nil, err
		}
		if day-last > rest {
			out = append(out, m)
		}
	}
	return out, nil
}

func (p *Planner) selectForDay(available []MuscleGroup, assigned map[MuscleGroup]bool, rng *rand.Rand) ([]MuscleGroup, error) {
	var priority []MuscleGroup
	for _, m := range available {
		if !assigned[m] {
			priority = append(priority, m)
		}
	}

	selected := make([]MuscleGroup, 0, maxMusclesPerDay)
	switch {
	case slices.Contains(priority, Bicep):
		selected = append(selected, Bicep)
	case slices.Contains(priority, Tricep):
		selected = append(selected, Tricep)
	case len(priority) > 0:
		selected = append(selected, priority[rng.IntN(len(priority))])
	}

	if len(selected) < 2 {
		var large []MuscleGroup
		for _, m := range available {
			if slices.Contains(selected, m) {
				continue
			}
			size, err := p.policy.SizeClass(m)
			if err != nil {
				return nil, err
			}
			if size == Large {
				large = append(large, m)
			}
		}
		if len(large) > 0 {
			selected = append(selected, large[rng.IntN(len(large))])
		}
	}

	var others []MuscleGroup
	for _, m := range available {
		if !slices.Contains(selected, m) {
			others = append(others, m)
		}
	}
	if n := min(maxMusclesPerDay-len(selected), len(others)); n > 0 {
		selected = append(selected, sample(others, n, rng)...)
	}
	return selected, nil
}

// repair inserts muscle groups the greedy pass never placed. Bicep and tricep
// are placed first. A missing muscle goes to the first training day with a
// free slot, otherwise it takes the place of the first abdomen entry. When
// that entry was the week's only abdomen slot, abdomen is left out.
func (p *Planner) repair(dist *WeeklyDistribution, days []Day) {
	missing := make([]MuscleGroup, 0, 2)
	order := append([]MuscleGroup{Bicep, Tricep}, AllMuscleGroups()...)
	for _, m := range order {
		if !dist.Contains(m) && !slices.Contains(missing, m) {
			missing = append(missing, m)
		}
	}

	for _, m := range missing {
		if d, ok := firstDayWithRoom(dist, days); ok {
			dist[d] = append(dist[d], m)
			p.log.Debug("repaired distribution", "muscle", m, "day", d, "action", "inserted")
			continue
		}
		if d, i, ok := firstAbdomenSlot(dist, days); ok {
			dist[d][i] = m
			p.log.Debug("repaired distribution", "muscle", m, "day", d, "action", "replaced abdomen")
			if !dist.Contains(Abdomen) {
				p.log.Warn("muscle group missing from week", "muscle", Abdomen, "replaced_by", m)
			}
			continue
		}
		p.log.Warn("muscle group missing from week", "muscle", m)
	}
}

func firstDayWithRoom(dist *WeeklyDistribution, days []Day) (Day, bool) {
	for _, d := range days {
		if len(dist[d]) < maxMusclesPerDay {
			return d, true
		}
	}
	return 0, false
}

func firstAbdomenSlot(dist *WeeklyDistribution, days []Day) (Day, int, bool) {
	for _, d := range days {
		if i := slices.Index(dist[d], Abdomen); i >= 0 {
			return d, i, true
		}
	}
	return 0, 0, false
}

// sample picks n distinct elements uniformly at random.
func sample[T any](items []T, n int, rng *rand.Rand) []T {
	shuffled := slices.Clone(items)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
