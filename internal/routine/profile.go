package routine

// UserProfile is the trainee data the engine and the classifier consume.
// Level is empty when it should be predicted.
type UserProfile struct {
	Gender   Gender  `json:"gender"`
	Age      int     `json:"age"`
	WeightKg float64 `json:"weight_kg"`
	HeightM  float64 `json:"height_m"`
	Goal     Goal    `json:"goal"`
	Level    Level   `json:"level,omitempty"`
}
