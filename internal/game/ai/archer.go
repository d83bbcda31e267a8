package ai

import (
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/grid"
	"github.com/ironvale/skirmish/internal/game/weapon"
)

// Archer spacing, in grid cells.
const (
	retreatTrigger = 3 // back off when the nearest threat is this close
	retreatRadius  = 2 // how far one retreat hop may land
	seekRadius     = 3 // search radius for a firing position
	bandMin        = 3 // closest comfortable firing distance
)

// archerBehavior keeps its distance and shoots. It only ever attacks inside
// the weapon's normal range; long range is used for positioning, not for
// shots. Without a ranged weapon it degrades to the melee policy.
type archerBehavior struct {
	weapons *weapon.Registry
}

func (archerBehavior) isBehavior() {}

func (b archerBehavior) Decide(st *combat.State, actor *character.Character) *combat.Action {
	wpn := b.equippedRanged(actor)
	if wpn == nil {
		return meleeOrApproach(st, actor)
	}
	target := NearestOpponent(st, actor)
	if target == nil {
		return nil
	}
	dist := grid.Manhattan(actor.Position, target.Position)
	if dist <= retreatTrigger && actor.RemainingMovementCells() > 0 {
		if act := retreat(st, actor, target.Position); act != nil {
			return act
		}
	}
	if !actor.HasUsedAction && dist <= wpn.NormalRangeCells() &&
		grid.LineOfSight(st.Battlefield, actor.Position, target.Position) {
		return &combat.Action{Type: combat.ActionAttack, ActorID: actor.ID, TargetID: target.ID}
	}
	return seekFiringPosition(st, actor, target.Position, wpn)
}

// equippedRanged returns the actor's weapon when it attacks at range.
func (b archerBehavior) equippedRanged(actor *character.Character) *weapon.Def {
	if actor.WeaponID == "" {
		return nil
	}
	wpn, ok := b.weapons.Get(actor.WeaponID)
	if !ok || !wpn.Ranged() {
		return nil
	}
	return wpn
}

// retreat proposes a hop to the reachable unoccupied cell within
// retreatRadius that puts the most distance between actor and threat.
// Returns nil unless some cell is strictly farther than standing still, so
// a cornered archer falls through to shooting instead of shuffling in
// place.
func retreat(st *combat.State, actor *character.Character, threat grid.Position) *combat.Action {
	budget := actor.RemainingMovementCells()
	occ := st.Occupancy()
	best := actor.Position
	bestDist := grid.Manhattan(actor.Position, threat)
	for _, cell := range grid.PositionsInRange(st.Battlefield, actor.Position, retreatRadius) {
		if cell == actor.Position || grid.Blocked(st.Battlefield, occ, cell, actor.ID) {
			continue
		}
		d := grid.Manhattan(cell, threat)
		if d <= bestDist {
			continue
		}
		path := grid.FindPath(st.Battlefield, occ, actor.Position, cell, actor.ID)
		if path == nil || len(path)-1 > budget {
			continue
		}
		best, bestDist = cell, d
	}
	if best == actor.Position {
		return nil
	}
	return &combat.Action{Type: combat.ActionMove, ActorID: actor.ID, To: best}
}

// seekFiringPosition walks toward the nearby cell that best sits in the
// weapon's comfortable band: at least bandMin cells from the target, no
// farther than the weapon reaches, with line of sight. Cells outside the
// band rank by how far outside they sit, so the archer still improves its
// spot when no cell lands inside. The chosen cell may take several turns to
// reach; each call moves as far along the path as the budget allows.
func seekFiringPosition(st *combat.State, actor *character.Character, target grid.Position, wpn *weapon.Def) *combat.Action {
	budget := actor.RemainingMovementCells()
	if budget <= 0 {
		return nil
	}
	occ := st.Occupancy()
	maxRange := wpn.MaxRangeCells()
	var bestPath []grid.Position
	bestScore := -1
	for _, cell := range grid.PositionsInRange(st.Battlefield, actor.Position, seekRadius) {
		if cell == actor.Position || grid.Blocked(st.Battlefield, occ, cell, actor.ID) {
			continue
		}
		if !grid.LineOfSight(st.Battlefield, cell, target) {
			continue
		}
		score := bandDistance(grid.Manhattan(cell, target), bandMin, maxRange)
		if bestScore >= 0 && score >= bestScore {
			continue
		}
		path := grid.FindPath(st.Battlefield, occ, actor.Position, cell, actor.ID)
		if path == nil {
			continue
		}
		bestPath, bestScore = path, score
	}
	if bestPath == nil {
		return nil
	}
	steps := len(bestPath) - 1
	if steps > budget {
		steps = budget
	}
	return &combat.Action{Type: combat.ActionMove, ActorID: actor.ID, To: bestPath[steps]}
}

// bandDistance measures how far d sits outside the closed interval
// [lo, hi].
func bandDistance(d, lo, hi int) int {
	switch {
	case d < lo:
		return lo - d
	case d > hi:
		return d - hi
	default:
		return 0
	}
}
