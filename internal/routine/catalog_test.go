package routine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T, records ...CatalogRecord) *Catalog {
	t.Helper()
	c, err := NewCatalog(records, DefaultFallback(), discardLog)
	require.NoError(t, err)
	return c
}

func TestAdjustForLevel(t *testing.T) {
	tests := []struct {
		level      Level
		reps, sets int
		wantReps   int
		wantSets   int
	}{
		{Beginner, 12, 3, 10, 3},
		{Intermediate, 12, 3, 12, 3},
		{Advanced, 12, 3, 14, 4},
		{Beginner, 8, 5, 8, 3},
		{Beginner, 15, 1, 12, 2},
		{Advanced, 10, 5, 12, 5},
	}
	for _, tt := range tests {
		reps, sets := AdjustForLevel(tt.reps, tt.sets, tt.level)
		assert.Equal(t, tt.wantReps, reps, "%s reps(%d,%d)", tt.level, tt.reps, tt.sets)
		assert.Equal(t, tt.wantSets, sets, "%s sets(%d,%d)", tt.level, tt.reps, tt.sets)
	}
}

func TestCatalogZipsRaggedLists(t *testing.T) {
	c := testCatalog(t, CatalogRecord{
		Gender:    Male,
		Goal:      WeightGain,
		Muscles:   []MuscleGroup{Chest, Tricep},
		Exercises: []string{"Bench press", "Dips", "Cable fly"},
		Reps:      []int{10, 8},
		Sets:      []int{4},
	})

	got, err := c.Exercises(Male, WeightGain, Intermediate, Chest, 10, NewRand(1))
	require.NoError(t, err)
	require.Len(t, got, 3)

	byName := make(map[string]Exercise)
	for _, ex := range got {
		byName[ex.Name] = ex
		assert.Equal(t, Chest, ex.Muscle)
	}
	assert.Equal(t, Exercise{Muscle: Chest, Name: "Bench press", Reps: 10, Sets: 4}, byName["Bench press"])
	assert.Equal(t, Exercise{Muscle: Chest, Name: "Dips", Reps: 8, Sets: 4}, byName["Dips"])
	assert.Equal(t, Exercise{Muscle: Chest, Name: "Cable fly", Reps: 8, Sets: 4}, byName["Cable fly"])
}

func TestCatalogDefaultsAndDedup(t *testing.T) {
	c := testCatalog(t,
		CatalogRecord{Gender: Female, Goal: WeightGain, Muscles: []MuscleGroup{Legs}, Exercises: []string{"Squat", "Lunge"}},
		CatalogRecord{Gender: Female, Goal: WeightGain, Muscles: []MuscleGroup{Legs}, Exercises: []string{"Squat"}, Reps: []int{20}, Sets: []int{5}},
	)

	got, err := c.Exercises(Female, WeightGain, Intermediate, Legs, 5, NewRand(1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, ex := range got {
		if ex.Name == "Squat" {
			assert.Equal(t, defaultBaseReps, ex.Reps)
			assert.Equal(t, defaultBaseSets, ex.Sets)
		}
	}
}

func TestCatalogSamplesCount(t *testing.T) {
	c := testCatalog(t, CatalogRecord{
		Gender:    Male,
		Goal:      WeightLoss,
		Muscles:   []MuscleGroup{Back},
		Exercises: []string{"Row", "Pull-up", "Deadlift", "Pullover"},
		Reps:      []int{12},
		Sets:      []int{3},
	})

	got, err := c.Exercises(Male, WeightLoss, Beginner, Back, 2, NewRand(9))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].Name, got[1].Name)
	assert.Equal(t, 10, got[0].Reps)

	got, err = c.Exercises(Male, WeightLoss, Beginner, Back, 0, NewRand(9))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatalogFiltersGenderAndGoal(t *testing.T) {
	c := testCatalog(t, CatalogRecord{
		Gender:    Male,
		Goal:      WeightGain,
		Muscles:   []MuscleGroup{Chest},
		Exercises: []string{"Bench press"},
	})

	got, err := c.Exercises(Female, WeightGain, Intermediate, Chest, 1, NewRand(1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, c.FallbackNames(Chest), got[0].Name)
}

func TestCatalogFallbackNeverEmpty(t *testing.T) {
	c := testCatalog(t)
	fb := DefaultFallback()

	for _, lvl := range AllLevels() {
		for _, m := range AllMuscleGroups() {
			got, err := c.Exercises(Male, WeightGain, lvl, m, 3, NewRand(5))
			require.NoError(t, err)
			require.Len(t, got, 3, "%s %s", lvl, m)

			in := fb.Intensity[lvl]
			for i, ex := range got {
				assert.Equal(t, fb.Names[m][i%len(fb.Names[m])], ex.Name)
				assert.GreaterOrEqual(t, ex.Reps, in.Reps.Min)
				assert.LessOrEqual(t, ex.Reps, in.Reps.Max)
				assert.GreaterOrEqual(t, ex.Sets, in.Sets.Min)
				assert.LessOrEqual(t, ex.Sets, in.Sets.Max)
			}
		}
	}
}

func TestCatalogFemaleWeightLossTricepFallback(t *testing.T) {
	c := testCatalog(t, CatalogRecord{
		Gender:    Female,
		Goal:      WeightLoss,
		Muscles:   []MuscleGroup{Legs, Abdomen},
		Exercises: []string{"Sentadillas", "Plancha"},
		Reps:      []int{15, 30},
		Sets:      []int{3, 3},
	})
	gender, err := ParseGender("Femenino")
	require.NoError(t, err)
	goal, err := ParseGoal("perdida de peso")
	require.NoError(t, err)

	got, err := c.Exercises(gender, goal, Intermediate, Tricep, 3, NewRand(2))
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, ex := range got {
		assert.Equal(t, Tricep, ex.Muscle)
		assert.Contains(t, c.FallbackNames(Tricep), ex.Name)
	}
}

func TestCatalogUnknownMuscle(t *testing.T) {
	_, err := testCatalog(t).Exercises(Male, WeightGain, Beginner, "neck", 1, NewRand(1))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNewCatalogRejectsIncompleteFallback(t *testing.T) {
	fb := DefaultFallback()
	delete(fb.Names, Bicep)
	_, err := NewCatalog(nil, fb, discardLog)
	assert.ErrorIs(t, err, ErrConfiguration)
}
