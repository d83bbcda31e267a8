package ai

import (
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/grid"
)

// meleeBehavior closes distance to the nearest living opponent and attacks
// once adjacent.
type meleeBehavior struct{}

func (meleeBehavior) isBehavior() {}

func (meleeBehavior) Decide(st *combat.State, actor *character.Character) *combat.Action {
	return meleeOrApproach(st, actor)
}

// meleeOrApproach attacks the nearest opponent when standing next to it and
// otherwise walks the path toward it. Adjacency is orthogonal; diagonals
// are two steps on this grid.
func meleeOrApproach(st *combat.State, actor *character.Character) *combat.Action {
	target := NearestOpponent(st, actor)
	if target == nil {
		return nil
	}
	if grid.Manhattan(actor.Position, target.Position) <= 1 {
		if actor.HasUsedAction {
			return nil
		}
		return &combat.Action{Type: combat.ActionAttack, ActorID: actor.ID, TargetID: target.ID}
	}
	return approach(st, actor, target.Position)
}
