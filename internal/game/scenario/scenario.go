// Package scenario loads encounter definitions from YAML and builds
// ready-to-start combat states from them.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/grid"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
)

// Def is a complete encounter definition as authored in YAML.
type Def struct {
	ID          string      `yaml:"id"` // optional; generated when empty
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Seed        string      `yaml:"seed"` // empty means a random seed per run
	Battlefield Board       `yaml:"battlefield"`
	Characters  []Combatant `yaml:"characters"`
}

// Board describes the battlefield geometry and any ambient zones.
type Board struct {
	Width     int               `yaml:"width"`
	Height    int               `yaml:"height"`
	Obstacles []grid.Position   `yaml:"obstacles"`
	Effects   []grid.AreaEffect `yaml:"effects"`
}

// Abilities holds the six core ability scores. A zero score reads as the
// neutral 10 at build time, so authors only write the scores that matter.
type Abilities struct {
	Strength     int `yaml:"strength"`
	Dexterity    int `yaml:"dexterity"`
	Constitution int `yaml:"constitution"`
	Intelligence int `yaml:"intelligence"`
	Wisdom       int `yaml:"wisdom"`
	Charisma     int `yaml:"charisma"`
}

// Combatant describes one roster member.
type Combatant struct {
	ID    string `yaml:"id"` // optional; generated when empty
	Name  string `yaml:"name"`
	Type  string `yaml:"type"` // player, companion, or enemy
	Level int    `yaml:"level"`

	Abilities Abilities `yaml:"abilities"`
	MaxHP     int       `yaml:"max_hp"`
	AC        int       `yaml:"ac"`
	Speed     int       `yaml:"speed"` // feet; zero reads as 30

	Position grid.Position `yaml:"position"`
	Weapon   string        `yaml:"weapon"`
	Spells   []string      `yaml:"spells"`
	Slots    map[int]int   `yaml:"spell_slots"` // spell level -> slot count
	Behavior *Profile      `yaml:"behavior"`
}

// Profile selects a decision policy for a combatant and carries the advisory
// trait weights.
type Profile struct {
	Personality      string  `yaml:"personality"`
	Aggressiveness   float64 `yaml:"aggressiveness"`
	SelfPreservation float64 `yaml:"self_preservation"`
	Teamwork         float64 `yaml:"teamwork"`
	SpellPriority    float64 `yaml:"spell_priority"`
}

// LoadBytes parses a single scenario from raw YAML with strict field
// checking. Content validation is separate; see Validate.
func LoadBytes(data []byte) (*Def, error) {
	var def Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("scenario: parsing: %w", err)
	}
	return &def, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %q: %w", path, err)
	}
	def, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: loading %q: %w", path, err)
	}
	return def, nil
}

// Validate checks the definition against its invariants and the content
// registries, returning the first violation found.
//
// Precondition: weapons and spells must be non-nil.
func (d *Def) Validate(weapons *weapon.Registry, spells *spell.Registry) error {
	if d.Name == "" {
		return fmt.Errorf("scenario: name must not be empty")
	}
	if d.Battlefield.Width < 1 || d.Battlefield.Height < 1 {
		return fmt.Errorf("scenario %q: battlefield must be at least 1x1, got %dx%d",
			d.Name, d.Battlefield.Width, d.Battlefield.Height)
	}
	inBounds := func(p grid.Position) bool {
		return p.X >= 0 && p.X < d.Battlefield.Width && p.Y >= 0 && p.Y < d.Battlefield.Height
	}
	obstacles := make(map[grid.Position]bool, len(d.Battlefield.Obstacles))
	for _, p := range d.Battlefield.Obstacles {
		if !inBounds(p) {
			return fmt.Errorf("scenario %q: obstacle %v is out of bounds", d.Name, p)
		}
		obstacles[p] = true
	}
	for _, e := range d.Battlefield.Effects {
		if e.Name == "" {
			return fmt.Errorf("scenario %q: area effect must have a name", d.Name)
		}
		if !inBounds(e.Origin) {
			return fmt.Errorf("scenario %q: area effect %q origin %v is out of bounds", d.Name, e.Name, e.Origin)
		}
		if e.Radius < 0 {
			return fmt.Errorf("scenario %q: area effect %q radius must not be negative", d.Name, e.Name)
		}
		if e.Duration < 1 {
			return fmt.Errorf("scenario %q: area effect %q duration must be >= 1 round", d.Name, e.Name)
		}
	}

	if len(d.Characters) < 2 {
		return fmt.Errorf("scenario %q: needs at least two combatants, got %d", d.Name, len(d.Characters))
	}
	ids := make(map[string]bool, len(d.Characters))
	cells := make(map[grid.Position]string, len(d.Characters))
	var playerSide, enemySide int
	for i := range d.Characters {
		c := &d.Characters[i]
		where := fmt.Sprintf("scenario %q: combatant %d (%q)", d.Name, i, c.Name)
		if c.Name == "" {
			return fmt.Errorf("scenario %q: combatant %d: name must not be empty", d.Name, i)
		}
		if c.ID != "" {
			if ids[c.ID] {
				return fmt.Errorf("%s: duplicate id %q", where, c.ID)
			}
			ids[c.ID] = true
		}
		typ, err := character.ParseType(c.Type)
		if err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if typ.PlayerSide() {
			playerSide++
		} else {
			enemySide++
		}
		if c.Level < 1 {
			return fmt.Errorf("%s: level must be >= 1", where)
		}
		if c.MaxHP < 1 {
			return fmt.Errorf("%s: max_hp must be >= 1", where)
		}
		if c.AC < 1 {
			return fmt.Errorf("%s: ac must be >= 1", where)
		}
		if c.Speed < 0 {
			return fmt.Errorf("%s: speed must not be negative", where)
		}
		if err := validScores(c.Abilities); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if !inBounds(c.Position) {
			return fmt.Errorf("%s: position %v is out of bounds", where, c.Position)
		}
		if obstacles[c.Position] {
			return fmt.Errorf("%s: position %v is an obstacle", where, c.Position)
		}
		if holder, taken := cells[c.Position]; taken {
			return fmt.Errorf("%s: position %v is already taken by %q", where, c.Position, holder)
		}
		cells[c.Position] = c.Name
		if c.Weapon != "" {
			if _, ok := weapons.Get(c.Weapon); !ok {
				return fmt.Errorf("%s: unknown weapon %q", where, c.Weapon)
			}
		}
		for _, id := range c.Spells {
			if _, ok := spells.Get(id); !ok {
				return fmt.Errorf("%s: unknown spell %q", where, id)
			}
		}
		for level, count := range c.Slots {
			if level < 1 || level > 9 {
				return fmt.Errorf("%s: spell_slots level %d is out of range 1..9", where, level)
			}
			if count < 0 {
				return fmt.Errorf("%s: spell_slots[%d] must not be negative", where, level)
			}
		}
		if c.Behavior != nil {
			if _, err := character.ParsePersonality(c.Behavior.Personality); err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
		}
	}
	if playerSide == 0 || enemySide == 0 {
		return fmt.Errorf("scenario %q: needs combatants on both sides (players %d, enemies %d)",
			d.Name, playerSide, enemySide)
	}
	return nil
}

// validScores accepts zero (meaning "default to 10") or a score in 1..30.
func validScores(a Abilities) error {
	for _, s := range []struct {
		name  string
		score int
	}{
		{"strength", a.Strength},
		{"dexterity", a.Dexterity},
		{"constitution", a.Constitution},
		{"intelligence", a.Intelligence},
		{"wisdom", a.Wisdom},
		{"charisma", a.Charisma},
	} {
		if s.score < 0 || s.score > 30 {
			return fmt.Errorf("ability %s must be in 1..30 (or omitted), got %d", s.name, s.score)
		}
	}
	return nil
}
