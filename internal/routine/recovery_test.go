package routine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRecoveryPolicy(t *testing.T) {
	p := DefaultRecoveryPolicy()

	tests := []struct {
		muscle MuscleGroup
		rest   int
		size   SizeClass
	}{
		{Chest, 2, Large},
		{Back, 2, Large},
		{Legs, 2, Large},
		{Shoulder, 1, Medium},
		{Bicep, 1, Small},
		{Tricep, 1, Small},
		{Abdomen, 0, Small},
	}
	for _, tt := range tests {
		t.Run(string(tt.muscle), func(t *testing.T) {
			rest, err := p.RestDays(tt.muscle)
			require.NoError(t, err)
			assert.Equal(t, tt.rest, rest)

			size, err := p.SizeClass(tt.muscle)
			require.NoError(t, err)
			assert.Equal(t, tt.size, size)
		})
	}
}

func TestRecoveryPolicyUnknownMuscle(t *testing.T) {
	p := DefaultRecoveryPolicy()

	_, err := p.RestDays("neck")
	assert.True(t, errors.Is(err, ErrConfiguration), "err = %v", err)

	_, err = p.SizeClass("neck")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "neck", cfgErr.Value)
}

func TestNewRecoveryPolicyRejectsIncompleteRules(t *testing.T) {
	rules := DefaultRecoveryRules()
	delete(rules, Tricep)
	_, err := NewRecoveryPolicy(rules)
	assert.ErrorIs(t, err, ErrConfiguration)

	rules = DefaultRecoveryRules()
	rules[Chest] = RecoveryRule{RestDays: -1, Size: Large}
	_, err = NewRecoveryPolicy(rules)
	assert.ErrorIs(t, err, ErrConfiguration)

	rules = DefaultRecoveryRules()
	rules[Chest] = RecoveryRule{RestDays: 2, Size: "huge"}
	_, err = NewRecoveryPolicy(rules)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestMusclesOfSize(t *testing.T) {
	p := DefaultRecoveryPolicy()
	assert.Equal(t, []MuscleGroup{Chest, Back, Legs}, p.MusclesOfSize(Large))
	assert.Equal(t, []MuscleGroup{Shoulder}, p.MusclesOfSize(Medium))
}
