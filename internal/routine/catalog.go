package routine

import (
	"log/slog"
	"math/rand/v2"
	"slices"
)

const (
	defaultBaseReps = 12
	defaultBaseSets = 3
)

// Exercise is one prescribed movement in a day routine.
type Exercise struct {
	Muscle MuscleGroup `json:"muscle"`
	Name   string      `json:"exercise"`
	Reps   int         `json:"reps"`
	Sets   int         `json:"sets"`
}

// CatalogRecord is one historical routine row: the muscle groups it worked
// and its parallel exercise, reps and sets lists.
type CatalogRecord struct {
	Gender    Gender
	Goal      Goal
	Day       string
	Muscles   []MuscleGroup
	Exercises []string
	Reps      []int
	Sets      []int
}

// Intensity is the reps/sets range used for synthesized exercises.
type Intensity struct {
	Reps Range `json:"reps" yaml:"reps"`
	Sets Range `json:"sets" yaml:"sets"`
}

// Fallback supplies generic exercises when the historical data has nothing
// for a gender, goal and muscle combination.
type Fallback struct {
	Names     map[MuscleGroup][]string `yaml:"names"`
	Intensity map[Level]Intensity      `yaml:"intensity"`
}

// DefaultFallback returns the bodyweight exercise list shipped with the engine.
func DefaultFallback() Fallback {
	return Fallback{
		Names: map[MuscleGroup][]string{
			Chest:    {"Push-ups", "Wide push-ups", "Diamond push-ups", "Incline push-ups"},
			Back:     {"Resistance band row", "Superman", "Inverted row", "Pull-ups"},
			Legs:     {"Squats", "Lunges", "Jump squats", "Wall sit"},
			Bicep:    {"Band curl", "Water bottle curl", "Isometric chin-up hold"},
			Tricep:   {"Bench dips", "Chair dips", "Close-grip push-ups"},
			Shoulder: {"Pike push-ups", "Lateral raises", "Handstand progression"},
			Abdomen:  {"Plank", "Crunches", "Mountain climbers", "Bicycle crunches"},
		},
		Intensity: map[Level]Intensity{
			Beginner:     {Reps: Range{8, 12}, Sets: Range{2, 3}},
			Intermediate: {Reps: Range{12, 16}, Sets: Range{3, 4}},
			Advanced:     {Reps: Range{16, 25}, Sets: Range{4, 5}},
		},
	}
}

func (f Fallback) validate() error {
	for _, m := range AllMuscleGroups() {
		if len(f.Names[m]) == 0 {
			return missingEntry("fallback exercises", m)
		}
	}
	for _, lvl := range AllLevels() {
		in, ok := f.Intensity[lvl]
		if !ok {
			return missingEntry("fallback intensity", lvl)
		}
		if in.Reps.Min < 1 || in.Reps.Max < in.Reps.Min || in.Sets.Min < 1 || in.Sets.Max < in.Sets.Min {
			return invalidEntry("fallback intensity", lvl, "ranges must satisfy 1 <= min <= max")
		}
	}
	return nil
}

type profileKey struct {
	gender Gender
	goal   Goal
}

// Catalog indexes historical exercises by gender and goal.
type Catalog struct {
	records  map[profileKey][]CatalogRecord
	fallback Fallback
	size     int
	log      *slog.Logger
}

// NewCatalog indexes the records. The fallback must cover every muscle group
// and level.
func NewCatalog(records []CatalogRecord, fallback Fallback, log *slog.Logger) (*Catalog, error) {
	if err := fallback.validate(); err != nil {
		return nil, err
	}
	c := &Catalog{
		records:  make(map[profileKey][]CatalogRecord),
		fallback: fallback,
		size:     len(records),
		log:      log,
	}
	for _, r := range records {
		k := profileKey{r.Gender, r.Goal}
		c.records[k] = append(c.records[k], r)
	}
	return c, nil
}

// Len returns the number of indexed records.
func (c *Catalog) Len() int {
	return c.size
}

// FallbackNames returns the generic exercise names for m.
func (c *Catalog) FallbackNames(m MuscleGroup) []string {
	return slices.Clone(c.fallback.Names[m])
}

// Exercises returns up to count distinct exercises for muscle, with
// intensity already scaled to level. When the historical data has no match
// the generic list is used, so the result is never empty.
func (c *Catalog) Exercises(gender Gender, goal Goal, level Level, muscle MuscleGroup, count int, rng *rand.Rand) ([]Exercise, error) {
	if !muscle.Valid() {
		return nil, missingEntry("muscle group", muscle)
	}
	if !slices.Contains(AllLevels(), level) {
		return nil, missingEntry("level", level)
	}
	count = max(count, 1)

	candidates := c.candidates(gender, goal, level, muscle)
	if len(candidates) == 0 {
		c.log.Debug("no catalog match, using fallback", "gender", gender, "goal", goal, "muscle", muscle)
		return c.synthesize(muscle, level, count, rng), nil
	}
	return sample(candidates, min(count, len(candidates)), rng), nil
}

func (c *Catalog) candidates(gender Gender, goal Goal, level Level, muscle MuscleGroup) []Exercise {
	var out []Exercise
	seen := make(map[string]bool)
	for _, r := range c.records[profileKey{gender, goal}] {
		if !slices.Contains(r.Muscles, muscle) || len(r.Exercises) == 0 {
			continue
		}
		n := max(len(r.Exercises), len(r.Reps), len(r.Sets))
		for i := range n {
			name := padded(r.Exercises, i, "")
			if seen[name] {
				continue
			}
			seen[name] = true
			reps, sets := AdjustForLevel(padded(r.Reps, i, defaultBaseReps), padded(r.Sets, i, defaultBaseSets), level)
			out = append(out, Exercise{Muscle: muscle, Name: name, Reps: reps, Sets: sets})
		}
	}
	return out
}

func (c *Catalog) synthesize(muscle MuscleGroup, level Level, count int, rng *rand.Rand) []Exercise {
	names := c.fallback.Names[muscle]
	in := c.fallback.Intensity[level]
	out := make([]Exercise, count)
	for i := range out {
		out[i] = Exercise{
			Muscle: muscle,
			Name:   names[i%len(names)],
			Reps:   in.Reps.Min + rng.IntN(in.Reps.Max-in.Reps.Min+1),
			Sets:   in.Sets.Min + rng.IntN(in.Sets.Max-in.Sets.Min+1),
		}
	}
	return out
}

// padded returns items[i], repeating the last element for ragged lists.
func padded[T any](items []T, i int, def T) T {
	switch {
	case len(items) == 0:
		return def
	case i < len(items):
		return items[i]
	default:
		return items[len(items)-1]
	}
}
