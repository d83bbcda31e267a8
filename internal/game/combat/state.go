package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combatlog"
	"github.com/ironvale/skirmish/internal/game/dice"
	"github.com/ironvale/skirmish/internal/game/grid"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
)

// State holds the live state of a single encounter. It is not safe for
// concurrent use; an encounter is stepped from one goroutine.
//
// The engine mutates the Characters it is given but does not own their
// lifecycle beyond the encounter; the caller keeps the authoritative roster.
type State struct {
	// ID identifies this encounter.
	ID string
	// Round is the current round number, starting at 1 once combat begins.
	Round int
	// Turn counts completed turns across the whole encounter.
	Turn int
	// Battlefield is the grid this encounter is fought on.
	Battlefield *grid.Battlefield
	// Log is the bounded encounter history.
	Log *combatlog.Log

	weapons *weapon.Registry
	spells  *spell.Registry
	src     dice.Source

	characters map[string]*character.Character
	roster     []*character.Character // join order, used to break initiative ties
	order      []string               // initiative-ordered character IDs
	current    int                    // index into order
	active     bool
	victor     Victor
}

// NewState creates an encounter on battlefield with no participants.
//
// Precondition: battlefield, weapons, spells, src, and logger must be non-nil.
// Postcondition: Returns a State in the not-started phase.
func NewState(id string, battlefield *grid.Battlefield, weapons *weapon.Registry, spells *spell.Registry, src dice.Source, logger *zap.Logger) *State {
	return &State{
		ID:          id,
		Battlefield: battlefield,
		Log:         combatlog.New(logger),
		weapons:     weapons,
		spells:      spells,
		src:         src,
		characters:  make(map[string]*character.Character),
	}
}

// AddCharacter registers c as a participant.
//
// Precondition: must be called before Start; c must be non-nil with a unique
// non-empty ID and a position on an unblocked battlefield cell.
// Postcondition: Returns nil iff c was added; on error the roster is unchanged.
func (st *State) AddCharacter(c *character.Character) error {
	if st.Round > 0 {
		return fmt.Errorf("combat: encounter %q has already started", st.ID)
	}
	if c == nil {
		return fmt.Errorf("combat: nil character")
	}
	if c.ID == "" {
		return fmt.Errorf("combat: character %q has no ID", c.Name)
	}
	if _, exists := st.characters[c.ID]; exists {
		return fmt.Errorf("combat: duplicate character ID %q", c.ID)
	}
	if grid.Blocked(st.Battlefield, st.Occupancy(), c.Position, c.ID) {
		return fmt.Errorf("combat: position %s is blocked for character %q", c.Position, c.ID)
	}
	st.characters[c.ID] = c
	st.roster = append(st.roster, c)
	return nil
}

// Character returns the participant with the given ID.
func (st *State) Character(id string) (*character.Character, bool) {
	c, ok := st.characters[id]
	return c, ok
}

// Characters returns a snapshot of all participants in join order.
func (st *State) Characters() []*character.Character {
	out := make([]*character.Character, len(st.roster))
	copy(out, st.roster)
	return out
}

// Occupancy returns the positions of all living participants keyed by cell.
func (st *State) Occupancy() grid.Occupancy {
	occ := make(grid.Occupancy, len(st.roster))
	for _, c := range st.roster {
		if c.Alive() {
			occ[c.Position] = c.ID
		}
	}
	return occ
}

// Opponents returns the living characters on the other side of c, in join
// order.
func (st *State) Opponents(c *character.Character) []*character.Character {
	var out []*character.Character
	for _, other := range st.roster {
		if other.Alive() && other.Type.PlayerSide() != c.Type.PlayerSide() {
			out = append(out, other)
		}
	}
	return out
}

// Start rolls initiative, fixes the turn order, and opens round 1.
//
// Precondition: at least two characters must have been added; Start must not
// have been called before.
// Postcondition: IsActive() is true, Round == 1, and Current() is the highest
// initiative roller.
func (st *State) Start() error {
	if st.Round > 0 {
		return fmt.Errorf("combat: encounter %q has already started", st.ID)
	}
	if len(st.roster) < 2 {
		return fmt.Errorf("combat: encounter %q needs at least two characters", st.ID)
	}
	rollInitiative(st.roster, st.src)
	st.order = initiativeOrder(st.roster)
	st.current = 0
	st.Round = 1
	st.Turn = 0
	st.active = true

	st.Log.Append(combatlog.Entry{
		Type:    combatlog.EntryCombatStart,
		Message: fmt.Sprintf("Combat begins with %d combatants.", len(st.roster)),
		Details: combatlog.Details{Round: st.Round},
	})
	st.logRoundStart()
	st.logTurnStart()
	return nil
}

// Current returns the character whose turn it is, or nil before Start.
func (st *State) Current() *character.Character {
	if len(st.order) == 0 {
		return nil
	}
	return st.characters[st.order[st.current]]
}

// Order returns a copy of the initiative-ordered character IDs.
func (st *State) Order() []string {
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}

// EndTurn closes the current actor's turn and advances initiative. The
// outgoing actor's per-turn flags are reset; when the order wraps, the round
// advances and expiring area effects are removed; the incoming actor's status
// effects tick down before their turn is announced. Dead actors still occupy
// a slot in the order, so the cycle length never changes mid-round.
//
// Precondition: Start must have been called and combat must still be active.
// Postcondition: Current() is the next character in initiative order; Round
// has grown by one iff the order wrapped.
func (st *State) EndTurn() error {
	if !st.active {
		return fmt.Errorf("combat: encounter %q is not active", st.ID)
	}
	outgoing := st.characters[st.order[st.current]]
	outgoing.ResetTurn()

	st.current = (st.current + 1) % len(st.order)
	st.Turn++
	if st.current == 0 {
		st.Round++
		for _, eff := range st.Battlefield.TickEffects() {
			st.Log.Append(combatlog.Entry{
				Type:    combatlog.EntryInfo,
				Message: fmt.Sprintf("%s dissipates.", eff.Name),
				Details: combatlog.Details{Round: st.Round, Turn: st.Turn},
			})
		}
		st.logRoundStart()
	}

	incoming := st.characters[st.order[st.current]]
	for _, eff := range incoming.Effects.Tick() {
		st.Log.Append(combatlog.Entry{
			Type:      combatlog.EntryStatus,
			ActorID:   incoming.ID,
			ActorName: incoming.Name,
			Message:   fmt.Sprintf("%s fades from %s.", eff.Name, incoming.Name),
			Details:   combatlog.Details{Round: st.Round, Turn: st.Turn},
		})
	}
	st.logTurnStart()
	return nil
}

// CheckEnd evaluates the end condition and finalizes the encounter when one
// side has no living members. The player side is checked first, so a
// simultaneous wipe counts as an enemy victory.
//
// Postcondition: Returns true iff combat is over; when true, IsActive() is
// false and Victor() is set.
func (st *State) CheckEnd() bool {
	if st.victor != VictorNone {
		return true
	}
	if !st.active {
		return false
	}
	players, enemies := 0, 0
	for _, c := range st.roster {
		if !c.Alive() {
			continue
		}
		if c.Type.PlayerSide() {
			players++
		} else {
			enemies++
		}
	}
	switch {
	case players == 0:
		st.finish(VictorEnemies)
	case enemies == 0:
		st.finish(VictorPlayers)
	default:
		return false
	}
	return true
}

// IsActive reports whether combat has started and not yet ended.
func (st *State) IsActive() bool { return st.active }

// Victor returns the winning side, or VictorNone while combat is undecided.
func (st *State) Victor() Victor { return st.victor }

func (st *State) finish(v Victor) {
	st.victor = v
	st.active = false
	st.Log.Append(combatlog.Entry{
		Type:    combatlog.EntryCombatEnd,
		Message: fmt.Sprintf("Combat ends. The %s are victorious.", string(v)),
		Details: combatlog.Details{Round: st.Round, Turn: st.Turn},
	})
}

func (st *State) logRoundStart() {
	st.Log.Append(combatlog.Entry{
		Type:    combatlog.EntryRoundStart,
		Message: fmt.Sprintf("Round %d begins.", st.Round),
		Details: combatlog.Details{Round: st.Round, Turn: st.Turn},
	})
}

func (st *State) logTurnStart() {
	c := st.Current()
	st.Log.Append(combatlog.Entry{
		Type:      combatlog.EntryTurnStart,
		ActorID:   c.ID,
		ActorName: c.Name,
		Message:   fmt.Sprintf("%s's turn begins.", c.Name),
		Details:   combatlog.Details{Round: st.Round, Turn: st.Turn},
	})
}
