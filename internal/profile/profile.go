// Package profile predicts a trainee's level from body metrics.
package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/meltforce/gymplan/internal/routine"
)

// ErrInvalidProfile is returned when profile values are out of range.
var ErrInvalidProfile = errors.New("invalid profile")

// Prediction is the classifier output.
type Prediction struct {
	Level    routine.Level `json:"level"`
	BMR      float64       `json:"bmr"`
	BMI      float64       `json:"bmi"`
	BMIRange string        `json:"bmi_range"`
}

// Classifier predicts the training level for a profile.
type Classifier interface {
	Predict(p routine.UserProfile) (Prediction, error)
}

// Normalize converts a height given in centimeters to meters and checks the
// value ranges.
func Normalize(p routine.UserProfile) (routine.UserProfile, error) {
	if p.HeightM > 10 {
		p.HeightM /= 100
	}
	switch {
	case p.Gender != routine.Male && p.Gender != routine.Female:
		return p, fmt.Errorf("%w: gender %q", ErrInvalidProfile, p.Gender)
	case p.Goal != routine.WeightGain && p.Goal != routine.WeightLoss:
		return p, fmt.Errorf("%w: goal %q", ErrInvalidProfile, p.Goal)
	case p.Age < 16 || p.Age > 80:
		return p, fmt.Errorf("%w: age must be between 16 and 80", ErrInvalidProfile)
	case p.WeightKg < 30 || p.WeightKg > 200:
		return p, fmt.Errorf("%w: weight must be between 30 and 200 kg", ErrInvalidProfile)
	case p.HeightM < 1.2 || p.HeightM > 2.5:
		return p, fmt.Errorf("%w: height must be between 1.2 and 2.5 m", ErrInvalidProfile)
	}
	return p, nil
}

// BMR is the Harris-Benedict basal metabolic rate in kcal/day, rounded to
// two decimals.
func BMR(p routine.UserProfile) float64 {
	cm := p.HeightM * 100
	age := float64(p.Age)
	var v float64
	if p.Gender == routine.Male {
		v = 66 + 13.7*p.WeightKg + 5*cm - 6.8*age
	} else {
		v = 655 + 9.6*p.WeightKg + 1.8*cm - 4.7*age
	}
	return math.Round(v*100) / 100
}

// BMI is weight over height squared, rounded to two decimals.
func BMI(p routine.UserProfile) float64 {
	return math.Round(p.WeightKg/(p.HeightM*p.HeightM)*100) / 100
}

// BMIRange labels a BMI value.
func BMIRange(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	}
	return "obese"
}

type thresholds struct {
	advancedBMR     float64
	intermediateBMR float64
}

var genderThresholds = map[routine.Gender]thresholds{
	routine.Male:   {advancedBMR: 1800, intermediateBMR: 1500},
	routine.Female: {advancedBMR: 1400, intermediateBMR: 1200},
}

// RuleClassifier assigns levels from BMR, age and BMI thresholds.
type RuleClassifier struct{}

// NewRuleClassifier returns the rule-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Predict validates p and returns its level. An explicit level on the
// profile is kept as is.
func (c *RuleClassifier) Predict(p routine.UserProfile) (Prediction, error) {
	p, err := Normalize(p)
	if err != nil {
		return Prediction{}, err
	}
	pred := Prediction{BMR: BMR(p), BMI: BMI(p)}
	pred.BMIRange = BMIRange(pred.BMI)
	if p.Level != "" {
		pred.Level = p.Level
		return pred, nil
	}

	th := genderThresholds[p.Gender]
	switch {
	case pred.BMR > th.advancedBMR && p.Age < 35 && pred.BMI < 25:
		pred.Level = routine.Advanced
	case pred.BMR > th.intermediateBMR && p.Age < 45 && pred.BMI < 28:
		pred.Level = routine.Intermediate
	default:
		pred.Level = routine.Beginner
	}
	return pred, nil
}
