package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meltforce/gymplan/internal/routine"
)

func TestBMR(t *testing.T) {
	male := routine.UserProfile{Gender: routine.Male, Age: 30, WeightKg: 80, HeightM: 1.8}
	assert.InDelta(t, 1858.0, BMR(male), 0.001)

	female := routine.UserProfile{Gender: routine.Female, Age: 30, WeightKg: 60, HeightM: 1.65}
	assert.InDelta(t, 1387.0, BMR(female), 0.001)
	assert.InDelta(t, 22.04, BMI(female), 0.001)
}

func TestBMIRange(t *testing.T) {
	tests := []struct {
		bmi  float64
		want string
	}{
		{17, "underweight"},
		{18.5, "normal"},
		{24.99, "normal"},
		{25, "overweight"},
		{30, "obese"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BMIRange(tt.bmi), "BMIRange(%v)", tt.bmi)
	}
}

func TestRuleClassifierPredict(t *testing.T) {
	c := NewRuleClassifier()
	tests := []struct {
		name    string
		profile routine.UserProfile
		want    routine.Level
	}{
		{"young fit male", routine.UserProfile{Gender: routine.Male, Age: 30, WeightKg: 80, HeightM: 1.8, Goal: routine.WeightGain}, routine.Advanced},
		{"older male", routine.UserProfile{Gender: routine.Male, Age: 40, WeightKg: 80, HeightM: 1.8, Goal: routine.WeightGain}, routine.Intermediate},
		{"senior male", routine.UserProfile{Gender: routine.Male, Age: 60, WeightKg: 80, HeightM: 1.8, Goal: routine.WeightLoss}, routine.Beginner},
		{"young female", routine.UserProfile{Gender: routine.Female, Age: 30, WeightKg: 65, HeightM: 1.70, Goal: routine.WeightLoss}, routine.Advanced},
		{"average female", routine.UserProfile{Gender: routine.Female, Age: 30, WeightKg: 60, HeightM: 1.65, Goal: routine.WeightLoss}, routine.Intermediate},
		{"light female", routine.UserProfile{Gender: routine.Female, Age: 50, WeightKg: 45, HeightM: 1.5, Goal: routine.WeightGain}, routine.Beginner},
		{"height in cm", routine.UserProfile{Gender: routine.Male, Age: 30, WeightKg: 80, HeightM: 180, Goal: routine.WeightGain}, routine.Advanced},
		{"explicit level", routine.UserProfile{Gender: routine.Male, Age: 30, WeightKg: 80, HeightM: 1.8, Goal: routine.WeightGain, Level: routine.Beginner}, routine.Beginner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Predict(tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Level)
		})
	}
}

func TestPredictRejectsOutOfRange(t *testing.T) {
	c := NewRuleClassifier()
	base := routine.UserProfile{Gender: routine.Male, Age: 30, WeightKg: 80, HeightM: 1.8, Goal: routine.WeightGain}

	for name, mutate := range map[string]func(*routine.UserProfile){
		"age":    func(p *routine.UserProfile) { p.Age = 12 },
		"weight": func(p *routine.UserProfile) { p.WeightKg = 250 },
		"height": func(p *routine.UserProfile) { p.HeightM = 1.0 },
		"gender": func(p *routine.UserProfile) { p.Gender = "" },
		"goal":   func(p *routine.UserProfile) { p.Goal = "bulk" },
	} {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			_, err := c.Predict(p)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}
