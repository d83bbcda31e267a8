package combat

import (
	"fmt"

	"github.com/ironvale/skirmish/internal/game/grid"
)

// ActionType identifies what a combatant intends to do.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionMove
	ActionAttack
	ActionSpell
	ActionDash
	ActionDodge
)

// String returns the human-readable name of the ActionType.
func (a ActionType) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionAttack:
		return "attack"
	case ActionSpell:
		return "spell"
	case ActionDash:
		return "dash"
	case ActionDodge:
		return "dodge"
	default:
		return "unknown"
	}
}

// Action is one combatant's intent for a single step of their turn.
// To is only meaningful for ActionMove, TargetID for ActionAttack and
// ActionSpell, SpellID for ActionSpell.
type Action struct {
	Type     ActionType
	ActorID  string
	TargetID string
	To       grid.Position
	SpellID  string
}

// Apply dispatches act to the matching resolver.
//
// Precondition: st must not be nil.
// Postcondition: Returns nil iff the action was applied; a violated
// precondition leaves the encounter untouched.
func Apply(st *State, act Action) error {
	switch act.Type {
	case ActionMove:
		return ResolveMove(st, act.ActorID, act.To)
	case ActionAttack:
		_, err := ResolveAttack(st, act.ActorID, act.TargetID)
		return err
	case ActionSpell:
		_, err := ResolveCast(st, act.ActorID, act.SpellID, act.TargetID)
		return err
	case ActionDash:
		return ResolveDash(st, act.ActorID)
	case ActionDodge:
		return ResolveDodge(st, act.ActorID)
	default:
		return fmt.Errorf("combat: unknown action type %d", int(act.Type))
	}
}
