// Package ai decides enemy actions during an encounter. Each personality
// maps to a fixed decision policy that inspects the encounter state and
// proposes at most one action per call; the driver applies accepted
// proposals through combat.Apply and asks again until the policy returns
// nil, at which point the turn is over.
//
// Policies never mutate the encounter. A proposal can still be rejected by
// the resolver, so drivers must treat a rejected proposal as a stall rather
// than retrying it.
package ai

import (
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/dice"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
)

// Behavior is one enemy decision policy. The set of policies is closed;
// values are produced by ForPersonality and are stateless, so a single
// Behavior may serve any number of combatants.
type Behavior interface {
	// Decide proposes the actor's next action, or nil when the actor has
	// nothing left worth doing this turn.
	//
	// Precondition: st is started and actor belongs to it.
	// Postcondition: the encounter is unchanged.
	Decide(st *combat.State, actor *character.Character) *combat.Action

	isBehavior()
}

// ForPersonality returns the decision policy for a personality. Defensive
// and tactical enemies currently share the default melee policy; their
// BehaviorProfile trait weights are advisory and unread.
//
// Precondition: weapons, spells, and src must be non-nil.
func ForPersonality(p character.Personality, weapons *weapon.Registry, spells *spell.Registry, src dice.Source) Behavior {
	if weapons == nil || spells == nil || src == nil {
		panic("ai: ForPersonality requires a weapon registry, a spell registry, and a dice source")
	}
	switch p {
	case character.PersonalityArcher:
		return archerBehavior{weapons: weapons}
	case character.PersonalityCaster:
		return casterBehavior{
			spells:   spells,
			src:      src,
			fallback: archerBehavior{weapons: weapons},
		}
	default:
		// Aggressive is the melee policy, and personalities without a
		// dedicated policy degrade to it.
		return meleeBehavior{}
	}
}
