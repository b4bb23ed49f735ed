package domain

// Policy binds a mode to its rewrite trigger threshold and starting strength
type Policy struct {
	// Threshold is the minimum chunk score that triggers a rewrite (inclusive)
	Threshold float64

	// Strength is the initial rewrite intensity for the mode
	Strength Strength
}

var policies = map[Mode]Policy{
	ModeEasy:       {Threshold: 0.50, Strength: StrengthQuality},
	ModeMedium:     {Threshold: 0.35, Strength: StrengthBalanced},
	ModeAggressive: {Threshold: 0.20, Strength: StrengthMoreHuman},
}

// PolicyFor returns the rewrite policy for a mode
// Unknown modes fall back to the medium policy
func PolicyFor(m Mode) Policy {
	if p, ok := policies[m]; ok {
		return p
	}
	return policies[ModeMedium]
}

// Escalate returns the next strength tier up, or the same tier and false
// when already at the ceiling
func Escalate(s Strength) (Strength, bool) {
	switch s {
	case StrengthQuality:
		return StrengthBalanced, true
	case StrengthBalanced:
		return StrengthMoreHuman, true
	default:
		return StrengthMoreHuman, false
	}
}
