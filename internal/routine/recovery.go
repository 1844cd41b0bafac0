package routine

// RecoveryRule is the recovery entry for one muscle group.
type RecoveryRule struct {
	RestDays int       `json:"rest_days" yaml:"rest_days"`
	Size     SizeClass `json:"size" yaml:"size"`
}

// RecoveryPolicy maps every muscle group to its required rest days and size
// class. It is immutable once constructed.
type RecoveryPolicy struct {
	rules map[MuscleGroup]RecoveryRule
}

// NewRecoveryPolicy validates that every muscle group has exactly one rule.
func NewRecoveryPolicy(rules map[MuscleGroup]RecoveryRule) (RecoveryPolicy, error) {
	copied := make(map[MuscleGroup]RecoveryRule, len(rules))
	for m, r := range rules {
		if !m.Valid() {
			return RecoveryPolicy{}, invalidEntry("recovery rule", m, "unknown muscle group")
		}
		if r.RestDays < 0 {
			return RecoveryPolicy{}, invalidEntry("recovery rule", m, "rest days must be >= 0")
		}
		if !r.Size.valid() {
			return RecoveryPolicy{}, invalidEntry("recovery rule", m, "size must be large, medium or small")
		}
		copied[m] = r
	}
	for _, m := range AllMuscleGroups() {
		if _, ok := copied[m]; !ok {
			return RecoveryPolicy{}, missingEntry("recovery rule", m)
		}
	}
	return RecoveryPolicy{rules: copied}, nil
}

// DefaultRecoveryRules returns the stock physiology table: large muscles
// rest two days, medium and arm muscles one, abdomen can be trained daily.
func DefaultRecoveryRules() map[MuscleGroup]RecoveryRule {
	return map[MuscleGroup]RecoveryRule{
		Chest:    {RestDays: 2, Size: Large},
		Back:     {RestDays: 2, Size: Large},
		Legs:     {RestDays: 2, Size: Large},
		Shoulder: {RestDays: 1, Size: Medium},
		Bicep:    {RestDays: 1, Size: Small},
		Tricep:   {RestDays: 1, Size: Small},
		Abdomen:  {RestDays: 0, Size: Small},
	}
}

// DefaultRecoveryPolicy returns the policy built from DefaultRecoveryRules.
func DefaultRecoveryPolicy() RecoveryPolicy {
	p, err := NewRecoveryPolicy(DefaultRecoveryRules())
	if err != nil {
		panic(err)
	}
	return p
}

// RestDays returns the full days that must pass before m is trained again.
func (p RecoveryPolicy) RestDays(m MuscleGroup) (int, error) {
	r, ok := p.rules[m]
	if !ok {
		return 0, missingEntry("rest days", m)
	}
	return r.RestDays, nil
}

// SizeClass returns the size classification of m.
func (p RecoveryPolicy) SizeClass(m MuscleGroup) (SizeClass, error) {
	r, ok := p.rules[m]
	if !ok {
		return "", missingEntry("size class", m)
	}
	return r.Size, nil
}

// MusclesOfSize lists the muscles of the given size in vocabulary order.
func (p RecoveryPolicy) MusclesOfSize(s SizeClass) []MuscleGroup {
	var out []MuscleGroup
	for _, m := range AllMuscleGroups() {
		if r, ok := p.rules[m]; ok && r.Size == s {
			out = append(out, m)
		}
	}
	return out
}

// Rules returns a copy of the policy table.
func (p RecoveryPolicy) Rules() map[MuscleGroup]RecoveryRule {
	out := make(map[MuscleGroup]RecoveryRule, len(p.rules))
	for m, r := range p.rules {
		out[m] = r
	}
	return out
}

func (p RecoveryPolicy) empty() bool {
	return len(p.rules) == 0
}
