package scenario

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironvale/skirmish/internal/game/ai"
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/dice"
	"github.com/ironvale/skirmish/internal/game/grid"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
)

// defaultSpeed is the walking speed in feet assumed when a combatant
// definition leaves speed unset.
const defaultSpeed = 30

// Encounter is a built, unstarted combat state plus everything a driver
// needs to run it.
type Encounter struct {
	Def    *Def
	State  *combat.State
	Source dice.Source
	// Behaviors holds the decision policy for every combatant whose
	// definition carried a profile. Combatants absent from the map are
	// driven by the caller's default policy.
	Behaviors map[string]ai.Behavior
}

// Builder turns validated scenario definitions into encounters.
type Builder struct {
	weapons *weapon.Registry
	spells  *spell.Registry
	logger  *zap.Logger
}

// NewBuilder creates a Builder backed by the given content registries.
//
// Precondition: weapons, spells, and logger must be non-nil.
func NewBuilder(weapons *weapon.Registry, spells *spell.Registry, logger *zap.Logger) *Builder {
	return &Builder{weapons: weapons, spells: spells, logger: logger}
}

// Build validates def and constructs the encounter: battlefield, roster,
// seeded dice source, and per-combatant behaviors. An empty seed draws a
// random one, so repeated builds of the same definition replay identically
// only when the definition pins a seed.
//
// Postcondition: on success the returned State holds every combatant and has
// not been started.
func (b *Builder) Build(def *Def) (*Encounter, error) {
	if def == nil {
		return nil, fmt.Errorf("scenario: Build requires a definition")
	}
	if err := def.Validate(b.weapons, b.spells); err != nil {
		return nil, err
	}

	src := sourceFor(def.Seed)
	battlefield := grid.NewBattlefield(def.Battlefield.Width, def.Battlefield.Height, def.Battlefield.Obstacles)
	for _, e := range def.Battlefield.Effects {
		battlefield.AddEffect(e)
	}

	id := def.ID
	if id == "" {
		id = uuid.NewString()
	}
	st := combat.NewState(id, battlefield, b.weapons, b.spells, src, b.logger)

	behaviors := make(map[string]ai.Behavior)
	for i := range def.Characters {
		c, err := buildCharacter(&def.Characters[i])
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", def.Name, err)
		}
		if err := st.AddCharacter(c); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", def.Name, err)
		}
		if c.Behavior != nil {
			behaviors[c.ID] = ai.ForPersonality(c.Behavior.Personality, b.weapons, b.spells, src)
		}
	}

	return &Encounter{Def: def, State: st, Source: src, Behaviors: behaviors}, nil
}

// buildCharacter converts one validated definition entry into a live
// combatant at full health.
func buildCharacter(def *Combatant) (*character.Character, error) {
	id := def.ID
	if id == "" {
		id = uuid.NewString()
	}
	typ, err := character.ParseType(def.Type)
	if err != nil {
		return nil, err
	}

	c := character.New(id, def.Name, typ)
	c.Level = def.Level
	c.Abilities = scores(def.Abilities)
	c.MaxHP = def.MaxHP
	c.CurrentHP = def.MaxHP
	c.ArmorClass = def.AC
	c.Speed = def.Speed
	if c.Speed == 0 {
		c.Speed = defaultSpeed
	}
	c.Position = def.Position
	c.WeaponID = def.Weapon
	c.SpellIDs = append([]string(nil), def.Spells...)
	for level, count := range def.Slots {
		c.SpellSlots[level] = character.SlotPool{Current: count, Max: count}
	}
	if def.Behavior != nil {
		p, err := character.ParsePersonality(def.Behavior.Personality)
		if err != nil {
			return nil, err
		}
		c.Behavior = &character.BehaviorProfile{
			Personality:      p,
			Aggressiveness:   def.Behavior.Aggressiveness,
			SelfPreservation: def.Behavior.SelfPreservation,
			Teamwork:         def.Behavior.Teamwork,
			SpellPriority:    def.Behavior.SpellPriority,
		}
	}
	return c, nil
}

// scores fills unset (zero) ability scores with the neutral 10.
func scores(a Abilities) character.AbilityScores {
	fill := func(v int) int {
		if v == 0 {
			return 10
		}
		return v
	}
	return character.AbilityScores{
		Strength:     fill(a.Strength),
		Dexterity:    fill(a.Dexterity),
		Constitution: fill(a.Constitution),
		Intelligence: fill(a.Intelligence),
		Wisdom:       fill(a.Wisdom),
		Charisma:     fill(a.Charisma),
	}
}

// sourceFor derives the encounter's dice source from the configured seed.
func sourceFor(seed string) dice.Source {
	if seed == "" {
		return dice.NewRandomLCG()
	}
	return dice.NewLCGFromString(seed)
}
