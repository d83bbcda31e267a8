package ai

import (
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/grid"
)

// NearestOpponent returns the living opponent closest to actor by Manhattan
// distance. Ties keep the earliest joiner, so repeated calls within a turn
// settle on the same target.
//
// Postcondition: nil when no living opponent remains.
func NearestOpponent(st *combat.State, actor *character.Character) *character.Character {
	var best *character.Character
	bestDist := 0
	for _, c := range st.Opponents(actor) {
		d := grid.Manhattan(actor.Position, c.Position)
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// approach proposes a move along the shortest path toward dest, truncated
// to the actor's remaining movement and stopping one cell short of dest
// itself. Returns nil when no route exists or no movement remains.
func approach(st *combat.State, actor *character.Character, dest grid.Position) *combat.Action {
	budget := actor.RemainingMovementCells()
	if budget <= 0 {
		return nil
	}
	path := grid.FindPath(st.Battlefield, st.Occupancy(), actor.Position, dest, actor.ID)
	if len(path) < 3 {
		// No route, or already adjacent.
		return nil
	}
	steps := len(path) - 2
	if steps > budget {
		steps = budget
	}
	return &combat.Action{Type: combat.ActionMove, ActorID: actor.ID, To: path[steps]}
}
