// Package grid provides the battlefield model, distance metric, obstruction
// tests, pathfinding, and line-of-sight queries for the skirmish combat
// engine. All functions are pure with respect to combat state; callers pass
// an occupancy snapshot of living combatants.
package grid

import "fmt"

// Position is an integer grid coordinate. Pure value type, no identity.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// String returns the coordinate in "(x,y)" form for log messages.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Manhattan returns |dx| + |dy|, the grid-step cost metric used throughout.
func Manhattan(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// AreaEffect is a positioned, time-limited zone on the battlefield. Zones do
// not obstruct movement or sight; they exist for scenario flavor and script
// hooks and expire as rounds roll over.
type AreaEffect struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Origin   Position `yaml:"origin"`
	Radius   int      `yaml:"radius"`
	Duration int      `yaml:"duration"` // remaining rounds
}

// Contains reports whether p lies within the effect's Manhattan radius.
func (e AreaEffect) Contains(p Position) bool {
	return Manhattan(e.Origin, p) <= e.Radius
}

// Occupancy maps cells to the id of the living combatant standing there.
// Dead combatants must not be included; they do not block movement.
type Occupancy map[Position]string

// Battlefield is a fixed-size board with impassable obstacle cells and
// transient area effects. Obstacles are static for the life of the encounter.
type Battlefield struct {
	Width  int
	Height int

	obstacles map[Position]bool
	effects   []AreaEffect
}

// NewBattlefield builds a board of the given dimensions with the given
// obstacle cells. Out-of-bounds obstacles are ignored.
//
// Precondition: width > 0 and height > 0.
func NewBattlefield(width, height int, obstacles []Position) *Battlefield {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: NewBattlefield called with non-positive size %dx%d", width, height))
	}
	b := &Battlefield{
		Width:     width,
		Height:    height,
		obstacles: make(map[Position]bool, len(obstacles)),
	}
	for _, p := range obstacles {
		if b.InBounds(p) {
			b.obstacles[p] = true
		}
	}
	return b
}

// InBounds reports whether p lies within [0, Width) x [0, Height).
func (b *Battlefield) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Obstacle reports whether p is an impassable cell.
func (b *Battlefield) Obstacle(p Position) bool {
	return b.obstacles[p]
}

// AddEffect places an area effect on the board.
func (b *Battlefield) AddEffect(e AreaEffect) {
	b.effects = append(b.effects, e)
}

// Effects returns the live area effects in placement order.
func (b *Battlefield) Effects() []AreaEffect {
	return b.effects
}

// EffectsAt returns the live area effects covering p, in placement order.
func (b *Battlefield) EffectsAt(p Position) []AreaEffect {
	var out []AreaEffect
	for _, e := range b.effects {
		if e.Contains(p) {
			out = append(out, e)
		}
	}
	return out
}

// TickEffects decrements every effect's remaining duration and removes the
// expired ones, returning them so the caller can log the expiry.
//
// Postcondition: every retained effect has Duration >= 1.
func (b *Battlefield) TickEffects() []AreaEffect {
	var expired []AreaEffect
	kept := b.effects[:0]
	for _, e := range b.effects {
		e.Duration--
		if e.Duration <= 0 {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	b.effects = kept
	return expired
}

// Blocked reports whether pos is impassable: out of bounds, an obstacle cell,
// or occupied by a living combatant other than excludeID.
func Blocked(b *Battlefield, occ Occupancy, pos Position, excludeID string) bool {
	if !b.InBounds(pos) {
		return true
	}
	if b.Obstacle(pos) {
		return true
	}
	if id, ok := occ[pos]; ok && id != excludeID {
		return true
	}
	return false
}

// PositionsInRange returns every in-bounds cell within the given Manhattan
// radius of center, including center itself, in row-major order. Blocking is
// not considered; callers filter for their own purposes.
//
// Precondition: radius >= 0.
func PositionsInRange(b *Battlefield, center Position, radius int) []Position {
	var out []Position
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			p := Position{X: x, Y: y}
			if !b.InBounds(p) {
				continue
			}
			if Manhattan(center, p) <= radius {
				out = append(out, p)
			}
		}
	}
	return out
}
