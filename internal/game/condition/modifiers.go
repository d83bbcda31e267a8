package condition

// AttackBonus returns the net attack roll modifier from all active effects.
// Bonuses and penalties are summed.
func AttackBonus(s *ActiveSet) int {
	total := 0
	for _, e := range s.effects {
		total += e.AttackBonus
	}
	return total
}

// ACBonus returns the net armor class modifier from all active effects.
func ACBonus(s *ActiveSet) int {
	total := 0
	for _, e := range s.effects {
		total += e.ACBonus
	}
	return total
}

// DamageBonus returns the net damage modifier from all active effects.
func DamageBonus(s *ActiveSet) int {
	total := 0
	for _, e := range s.effects {
		total += e.DamageBonus
	}
	return total
}

// SpeedMultiplier returns the product of all speed multipliers from active
// effects, or 1 when none apply. Effects with a zero multiplier do not touch
// speed.
//
// Postcondition: Returns > 0 for any set built from well-formed effects.
func SpeedMultiplier(s *ActiveSet) float64 {
	mult := 1.0
	for _, e := range s.effects {
		if e.SpeedMultiplier > 0 {
			mult *= e.SpeedMultiplier
		}
	}
	return mult
}
