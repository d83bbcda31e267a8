// Package spell provides the spell catalog. Each definition's effect is
// resolved to a closed typed variant at load time, so casting never
// re-inspects effect strings.
package spell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironvale/skirmish/internal/game/condition"
	"github.com/ironvale/skirmish/internal/game/dice"
)

// Effect is the sealed set of spell effect variants. Exactly one variant is
// produced per definition when the catalog loads.
type Effect interface {
	isEffect()
}

// DamageEffect deals the rolled dice as damage to the target. Damage kills
// exactly as weapon attacks do.
type DamageEffect struct {
	Dice dice.Expression
}

// HealEffect restores the rolled dice as hit points, capped at the target's
// maximum.
type HealEffect struct {
	Dice dice.Expression
}

// BuffEffect applies a timed status effect to the target.
type BuffEffect struct {
	Status condition.Effect
}

// NarrativeEffect only produces a log entry.
type NarrativeEffect struct {
	Text string
}

func (DamageEffect) isEffect()    {}
func (HealEffect) isEffect()      {}
func (BuffEffect) isEffect()      {}
func (NarrativeEffect) isEffect() {}

// Def defines a spell loaded from YAML. Which payload fields are required
// depends on the Effect tag; Validate resolves the tag and payload into a
// typed variant retrievable with Resolved.
type Def struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Level       int     `yaml:"level"` // 0 = cantrip, no slot needed
	Effect      string  `yaml:"effect"`
	Range       int     `yaml:"range"` // feet
	DamageDice  string  `yaml:"damage_dice"`
	HealDice    string  `yaml:"heal_dice"`
	Duration    int     `yaml:"duration"` // turns, for buffs
	AttackBonus int     `yaml:"attack_bonus"`
	ACBonus     int     `yaml:"ac_bonus"`
	DamageBonus int     `yaml:"damage_bonus"`
	SpeedMult   float64 `yaml:"speed_multiplier"`
	Description string  `yaml:"description"`

	resolved Effect
}

// Resolved returns the typed effect variant built by Validate.
//
// Precondition: Validate must have returned nil.
func (d *Def) Resolved() Effect {
	if d.resolved == nil {
		panic("spell: Resolved called before successful Validate for " + d.ID)
	}
	return d.resolved
}

// IsDamage reports whether the spell's resolved effect deals damage.
func (d *Def) IsDamage() bool {
	_, ok := d.resolved.(DamageEffect)
	return ok
}

// RangeCells returns the casting range in grid cells at 5 feet per cell.
// Touch spells (Range 0) reach one cell.
func (d *Def) RangeCells() int {
	if d.Range <= 0 {
		return 1
	}
	return d.Range / 5
}

// Validate checks the Def's invariants and resolves the effect variant.
// Precondition: d is non-nil.
// Postcondition: returns nil iff the Def is valid; on nil return Resolved()
// yields the typed variant.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if d.Level < 0 || d.Level > 9 {
		errs = append(errs, errors.New("Level must be in [0, 9]"))
	}
	if d.Range < 0 {
		errs = append(errs, errors.New("Range must not be negative"))
	}

	switch d.Effect {
	case "damage":
		if d.DamageDice == "" {
			errs = append(errs, errors.New("damage spells require damage_dice"))
		} else if expr, err := dice.Parse(d.DamageDice); err != nil {
			errs = append(errs, fmt.Errorf("damage_dice: %w", err))
		} else {
			d.resolved = DamageEffect{Dice: expr}
		}
	case "heal":
		if d.HealDice == "" {
			errs = append(errs, errors.New("heal spells require heal_dice"))
		} else if expr, err := dice.Parse(d.HealDice); err != nil {
			errs = append(errs, fmt.Errorf("heal_dice: %w", err))
		} else {
			d.resolved = HealEffect{Dice: expr}
		}
	case "buff":
		if d.Duration == 0 {
			errs = append(errs, errors.New("buff spells require a duration"))
		}
		if d.AttackBonus == 0 && d.ACBonus == 0 && d.DamageBonus == 0 && d.SpeedMult == 0 {
			errs = append(errs, errors.New("buff spells require at least one modifier"))
		}
		if len(errs) == 0 {
			d.resolved = BuffEffect{Status: condition.Effect{
				ID:              d.ID,
				Name:            d.Name,
				Duration:        d.Duration,
				AttackBonus:     d.AttackBonus,
				ACBonus:         d.ACBonus,
				DamageBonus:     d.DamageBonus,
				SpeedMultiplier: d.SpeedMult,
			}}
		}
	case "narrative":
		text := d.Description
		if text == "" {
			text = d.Name
		}
		d.resolved = NarrativeEffect{Text: text}
	case "":
		errs = append(errs, errors.New("effect must not be empty"))
	default:
		errs = append(errs, fmt.Errorf("unknown effect %q", d.Effect))
	}

	if len(errs) > 0 {
		return fmt.Errorf("spell validation failed: %v", errs)
	}
	return nil
}

// Registry holds all known spell Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil, def.ID must not be empty, and def must
// have passed Validate.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Defs.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def with
// strict field checking, validates and resolves it, and returns a populated
// Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading spell dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid spell in %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
