// Package routine implements the weekly workout-routine engine: recovery-aware
// muscle distribution, exercise selection with level-based intensity, and
// history-driven load adjustment.
package routine

import (
	"fmt"
	"strings"
)

// MuscleGroup is one of the fixed muscle groups the engine plans for.
type MuscleGroup string

const (
	Chest    MuscleGroup = "chest"
	Back     MuscleGroup = "back"
	Legs     MuscleGroup = "legs"
	Shoulder MuscleGroup = "shoulder"
	Bicep    MuscleGroup = "bicep"
	Tricep   MuscleGroup = "tricep"
	Abdomen  MuscleGroup = "abdomen"
)

// AllMuscleGroups returns the vocabulary in planning order.
func AllMuscleGroups() []MuscleGroup {
	return []MuscleGroup{Chest, Back, Legs, Shoulder, Bicep, Tricep, Abdomen}
}

// Valid reports whether m belongs to the vocabulary.
func (m MuscleGroup) Valid() bool {
	switch m {
	case Chest, Back, Legs, Shoulder, Bicep, Tricep, Abdomen:
		return true
	}
	return false
}

var muscleAliases = map[string]MuscleGroup{
	"chest": Chest, "pecho": Chest, "pectoral": Chest,
	"back": Back, "espalda": Back,
	"legs": Legs, "leg": Legs, "pierna": Legs, "piernas": Legs,
	"shoulder": Shoulder, "shoulders": Shoulder, "hombro": Shoulder, "hombros": Shoulder,
	"bicep": Bicep, "biceps": Bicep, "bícep": Bicep, "bíceps": Bicep,
	"tricep": Tricep, "triceps": Tricep, "trícep": Tricep, "tríceps": Tricep,
	"abdomen": Abdomen, "abs": Abdomen, "core": Abdomen, "abdominales": Abdomen,
}

// ParseMuscleGroup converts an English or Spanish muscle name.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	if m, ok := muscleAliases[normalize(s)]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: muscle group %q", ErrInvalidValue, s)
}

// UnmarshalText accepts any name ParseMuscleGroup does.
func (m *MuscleGroup) UnmarshalText(b []byte) error {
	v, err := ParseMuscleGroup(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// SizeClass groups muscles for day composition.
type SizeClass string

const (
	Large  SizeClass = "large"
	Medium SizeClass = "medium"
	Small  SizeClass = "small"
)

func (s SizeClass) valid() bool {
	return s == Large || s == Medium || s == Small
}

// Level is the trainee proficiency tier.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// AllLevels returns the levels from lowest to highest.
func AllLevels() []Level {
	return []Level{Beginner, Intermediate, Advanced}
}

// ParseLevel converts an English or Spanish level name.
func ParseLevel(s string) (Level, error) {
	switch normalize(s) {
	case "beginner", "principiante":
		return Beginner, nil
	case "intermediate", "intermedio":
		return Intermediate, nil
	case "advanced", "avanzado":
		return Advanced, nil
	}
	return "", fmt.Errorf("%w: level %q", ErrInvalidValue, s)
}

// UnmarshalText accepts any name ParseLevel does. An empty value leaves the
// level unset.
func (l *Level) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*l = ""
		return nil
	}
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// TrainingType is the per-level session policy.
type TrainingType string

const (
	FullBody TrainingType = "full_body"
	Split    TrainingType = "split"
)

// Gender as recorded in the historical dataset.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts "male"/"female" and the dataset's Spanish forms.
func ParseGender(s string) (Gender, error) {
	switch normalize(s) {
	case "male", "m", "man", "masculino", "hombre":
		return Male, nil
	case "female", "f", "woman", "femenino", "mujer":
		return Female, nil
	}
	return "", fmt.Errorf("%w: gender %q", ErrInvalidValue, s)
}

// Goal is the trainee's body-composition goal.
type Goal string

const (
	WeightGain Goal = "weight_gain"
	WeightLoss Goal = "weight_loss"
)

// ParseGoal accepts "weight_gain"/"weight_loss" and the dataset's Spanish forms.
func ParseGoal(s string) (Goal, error) {
	switch strings.ReplaceAll(normalize(s), "_", " ") {
	case "weight gain", "gain", "aumento de peso":
		return WeightGain, nil
	case "weight loss", "loss", "perdida de peso", "pérdida de peso":
		return WeightLoss, nil
	}
	return "", fmt.Errorf("%w: goal %q", ErrInvalidValue, s)
}

// Day is a calendar day of the planning week, Monday first.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek is the length of the planning window.
const DaysInWeek = 7

var dayNames = [DaysInWeek]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var dayAliases = map[string]Day{
	"mon": Monday, "lunes": Monday,
	"tue": Tuesday, "martes": Tuesday,
	"wed": Wednesday, "miércoles": Wednesday, "miercoles": Wednesday,
	"thu": Thursday, "jueves": Thursday,
	"fri": Friday, "viernes": Friday,
	"sat": Saturday, "sábado": Saturday, "sabado": Saturday,
	"sun": Sunday, "domingo": Sunday,
}

func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Valid reports whether d is within the week.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ParseDay accepts full English names, three-letter abbreviations and Spanish names.
func ParseDay(s string) (Day, error) {
	n := normalize(s)
	for i, name := range dayNames {
		if n == name {
			return Day(i), nil
		}
	}
	if d, ok := dayAliases[n]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: day %q", ErrInvalidValue, s)
}

// MarshalText encodes the day by name so it can key JSON and YAML maps.
func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: day %d", ErrInvalidValue, int(d))
	}
	return []byte(dayNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
