// Package character defines the combatant domain model shared by the combat
// engine, the enemy AI, and the scenario builder.
package character

import (
	"fmt"

	"github.com/ironvale/skirmish/internal/game/condition"
	"github.com/ironvale/skirmish/internal/game/grid"
)

// Type distinguishes the side and control of a combatant.
type Type int

const (
	TypePlayer Type = iota
	TypeCompanion
	TypeEnemy
)

// String returns the lowercase label used in content files and logs.
func (t Type) String() string {
	switch t {
	case TypePlayer:
		return "player"
	case TypeCompanion:
		return "companion"
	case TypeEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// PlayerSide reports whether this type fights on the players' side.
// Companions count as players for end-of-combat detection.
func (t Type) PlayerSide() bool {
	return t == TypePlayer || t == TypeCompanion
}

// ParseType converts a content-file label into a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "player":
		return TypePlayer, nil
	case "companion":
		return TypeCompanion, nil
	case "enemy":
		return TypeEnemy, nil
	default:
		return 0, fmt.Errorf("character: unknown type %q", s)
	}
}

// Personality selects an enemy's decision policy. The zero value means no
// profile is assigned and the default policy applies.
type Personality int

const (
	PersonalityNone Personality = iota
	PersonalityAggressive
	PersonalityArcher
	PersonalityCaster
	PersonalityDefensive
	PersonalityTactical
)

// String returns the lowercase label used in content files and logs.
func (p Personality) String() string {
	switch p {
	case PersonalityNone:
		return "none"
	case PersonalityAggressive:
		return "aggressive"
	case PersonalityArcher:
		return "archer"
	case PersonalityCaster:
		return "caster"
	case PersonalityDefensive:
		return "defensive"
	case PersonalityTactical:
		return "tactical"
	default:
		return "unknown"
	}
}

// ParsePersonality converts a content-file label into a Personality.
func ParsePersonality(s string) (Personality, error) {
	switch s {
	case "", "none":
		return PersonalityNone, nil
	case "aggressive":
		return PersonalityAggressive, nil
	case "archer":
		return PersonalityArcher, nil
	case "caster":
		return PersonalityCaster, nil
	case "defensive":
		return PersonalityDefensive, nil
	case "tactical":
		return PersonalityTactical, nil
	default:
		return 0, fmt.Errorf("character: unknown personality %q", s)
	}
}

// BehaviorProfile carries an enemy's personality and its advisory trait
// weights. The traits are reserved for future decision weighting; the
// current policies dispatch on Personality alone.
type BehaviorProfile struct {
	Personality      Personality
	Aggressiveness   float64
	SelfPreservation float64
	Teamwork         float64
	SpellPriority    float64
}

// AbilityScores holds the six ability score values for a combatant.
type AbilityScores struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// Modifier computes the standard ability modifier using floor division:
// floor((score - 10) / 2). Scores below 10 yield negative modifiers.
//
// Postcondition: Returns floor((score - 10) / 2).
func Modifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// SlotPool is one spell-slot level's remaining and maximum charges.
//
// Invariant: 0 <= Current <= Max.
type SlotPool struct {
	Current int
	Max     int
}

// Character represents one combatant. The engine mutates Characters it is
// given for the duration of an encounter; the caller retains the
// authoritative roster across encounters.
type Character struct {
	ID    string
	Name  string
	Type  Type
	Level int

	Abilities  AbilityScores
	MaxHP      int
	CurrentHP  int
	TempHP     int
	ArmorClass int
	Speed      int // feet per full turn

	SpellSlots map[int]SlotPool // keyed by spell level
	WeaponID   string
	SpellIDs   []string

	Position grid.Position
	Behavior *BehaviorProfile // nil unless an AI profile is assigned

	Initiative int

	// Per-turn state, reset by the scheduler at end of turn.
	HasUsedAction      bool
	HasUsedBonusAction bool
	HasUsedReaction    bool
	MovementUsed       int // feet

	Effects *condition.ActiveSet
}

// New creates a combatant with no spent slots and an empty effect set.
//
// Precondition: id and name must be non-empty.
func New(id, name string, typ Type) *Character {
	return &Character{
		ID:         id,
		Name:       name,
		Type:       typ,
		Level:      1,
		SpellSlots: make(map[int]SlotPool),
		Effects:    condition.NewActiveSet(),
	}
}

// Alive reports whether the combatant can still act and block cells.
func (c *Character) Alive() bool {
	return c.CurrentHP > 0
}

// ApplyDamage reduces hit points by amount, consuming temporary hit points
// first and flooring current hit points at zero.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP >= 0 and TempHP >= 0.
func (c *Character) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	if c.TempHP > 0 {
		if amount <= c.TempHP {
			c.TempHP -= amount
			return
		}
		amount -= c.TempHP
		c.TempHP = 0
	}
	c.CurrentHP -= amount
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}

// Heal restores hit points, capped at MaxHP.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP <= MaxHP.
func (c *Character) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.CurrentHP += amount
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
}

// HasSlot reports whether a slot of the given spell level remains. Level 0
// needs no slot and always reports true.
func (c *Character) HasSlot(level int) bool {
	if level <= 0 {
		return true
	}
	return c.SpellSlots[level].Current > 0
}

// ConsumeSlot spends one slot of the given level, reporting whether a slot
// was actually available. Level 0 consumes nothing and reports true.
func (c *Character) ConsumeSlot(level int) bool {
	if level <= 0 {
		return true
	}
	pool, ok := c.SpellSlots[level]
	if !ok || pool.Current <= 0 {
		return false
	}
	pool.Current--
	c.SpellSlots[level] = pool
	return true
}

// EffectiveAC returns armor class including active status effect modifiers.
func (c *Character) EffectiveAC() int {
	return c.ArmorClass + condition.ACBonus(c.Effects)
}

// EffectiveSpeed returns speed in feet including active speed multipliers.
// The stored base Speed is never mutated; dashes and slows compose here.
func (c *Character) EffectiveSpeed() int {
	return int(float64(c.Speed) * condition.SpeedMultiplier(c.Effects))
}

// RemainingMovementCells returns how many grid cells of movement remain this
// turn at 5 feet per cell.
//
// Postcondition: Returns >= 0.
func (c *Character) RemainingMovementCells() int {
	remaining := c.EffectiveSpeed() - c.MovementUsed
	if remaining <= 0 {
		return 0
	}
	return remaining / 5
}

// ResetTurn clears the per-turn flags and movement at the end of the
// combatant's turn.
func (c *Character) ResetTurn() {
	c.HasUsedAction = false
	c.HasUsedBonusAction = false
	c.HasUsedReaction = false
	c.MovementUsed = 0
}
