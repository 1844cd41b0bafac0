package routine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVocabulary(t *testing.T) {
	m, err := ParseMuscleGroup(" Bíceps ")
	require.NoError(t, err)
	assert.Equal(t, Bicep, m)

	m, err = ParseMuscleGroup("core")
	require.NoError(t, err)
	assert.Equal(t, Abdomen, m)

	lvl, err := ParseLevel("Intermedio")
	require.NoError(t, err)
	assert.Equal(t, Intermediate, lvl)

	g, err := ParseGender("Femenino")
	require.NoError(t, err)
	assert.Equal(t, Female, g)

	goal, err := ParseGoal("weight_loss")
	require.NoError(t, err)
	assert.Equal(t, WeightLoss, goal)

	goal, err = ParseGoal("Aumento de peso")
	require.NoError(t, err)
	assert.Equal(t, WeightGain, goal)
}

func TestParseVocabularyRejectsUnknown(t *testing.T) {
	_, err := ParseMuscleGroup("neck")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ParseLevel("elite")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ParseGender("")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ParseGoal("maintenance")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ParseDay("someday")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDayText(t *testing.T) {
	d, err := ParseDay("Miércoles")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, d)

	b, err := json.Marshal(map[Day]int{Monday: 1, Sunday: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"monday":1,"sunday":2}`, string(b))

	var back map[Day]int
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, map[Day]int{Monday: 1, Sunday: 2}, back)

	_, err = Day(9).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "Day(9)", Day(9).String())
}

func TestSessionRecordDecodesSpanishNames(t *testing.T) {
	var r SessionRecord
	err := json.Unmarshal([]byte(`{"days_ago":0,"muscle_groups":["pecho","Bíceps"],"attendance_pct":85,"level":"intermedio"}`), &r)
	require.NoError(t, err)
	assert.Equal(t, []MuscleGroup{Chest, Bicep}, r.Muscles)
	assert.Equal(t, Intermediate, r.Level)

	err = json.Unmarshal([]byte(`{"muscle_groups":["nonsense"]}`), &r)
	assert.ErrorIs(t, err, ErrInvalidValue)
	err = json.Unmarshal([]byte(`{"level":"bogus"}`), &r)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLevelDecodesEmptyAsUnset(t *testing.T) {
	var stats TrainingStats
	require.NoError(t, json.Unmarshal([]byte(`{"most_frequent_level":""}`), &stats))
	assert.Equal(t, Level(""), stats.MostFrequentLevel)
}
