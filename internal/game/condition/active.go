// Package condition implements timed status effects and the stat modifiers
// they contribute to combat math.
package condition

// Effect is one timed modifier attached to a combatant. A zero
// SpeedMultiplier means the effect does not touch speed.
type Effect struct {
	ID              string
	Name            string
	Duration        int // remaining turns; -1 = until combat ends
	AttackBonus     int
	ACBonus         int
	DamageBonus     int
	SpeedMultiplier float64
}

// ActiveSet tracks the effects currently applied to one combatant, in
// application order. It is not safe for concurrent use; the caller must
// serialise access.
type ActiveSet struct {
	effects []Effect
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Apply adds an effect. Effects do not stack: re-applying an ID already in
// the set keeps its position and modifiers and extends the remaining
// duration to the larger of the two.
//
// Postcondition: Has(e.ID) is true.
func (s *ActiveSet) Apply(e Effect) {
	for i := range s.effects {
		if s.effects[i].ID == e.ID {
			if e.Duration == -1 || (s.effects[i].Duration != -1 && e.Duration > s.effects[i].Duration) {
				s.effects[i].Duration = e.Duration
			}
			return
		}
	}
	s.effects = append(s.effects, e)
}

// Remove deletes the effect with the given ID. No-op when absent.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	for i := range s.effects {
		if s.effects[i].ID == id {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return
		}
	}
}

// Tick decrements every finite duration by one and removes effects that
// reach zero, returning the expired effects in application order.
// Effects with Duration == -1 are untouched.
//
// Postcondition: every retained effect has Duration == -1 or Duration >= 1.
func (s *ActiveSet) Tick() []Effect {
	var expired []Effect
	kept := s.effects[:0]
	for _, e := range s.effects {
		if e.Duration == -1 {
			kept = append(kept, e)
			continue
		}
		e.Duration--
		if e.Duration <= 0 {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	s.effects = kept
	return expired
}

// Has reports whether the effect with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	for _, e := range s.effects {
		if e.ID == id {
			return true
		}
	}
	return false
}

// All returns a copy of the active effects in application order.
func (s *ActiveSet) All() []Effect {
	out := make([]Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

// Len returns the number of active effects.
func (s *ActiveSet) Len() int {
	return len(s.effects)
}
