// Package weapon provides the weapon catalog consumed by the action resolver
// and the enemy AI.
package weapon

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironvale/skirmish/internal/game/dice"
)

// Property names recognised on weapon definitions.
const (
	PropertyFinesse = "finesse"
	PropertyLight   = "light"
	PropertyHeavy   = "heavy"
	PropertyReach   = "reach"
)

// Def defines the static properties of a weapon loaded from YAML.
// Ranges are in feet; a zero RangeNormal means a melee weapon.
type Def struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	DamageDice  string   `yaml:"damage_dice"`
	DamageType  string   `yaml:"damage_type"`
	RangeNormal int      `yaml:"range_normal"`
	RangeMax    int      `yaml:"range_max"`
	Properties  []string `yaml:"properties"`
}

// Ranged reports whether the weapon attacks at range (RangeNormal > 0).
func (w *Def) Ranged() bool {
	return w.RangeNormal > 0
}

// HasProperty reports whether the weapon carries the named property.
func (w *Def) HasProperty(name string) bool {
	for _, p := range w.Properties {
		if p == name {
			return true
		}
	}
	return false
}

// Finesse reports whether the weapon has the finesse property.
func (w *Def) Finesse() bool {
	return w.HasProperty(PropertyFinesse)
}

// NormalRangeCells returns the weapon's normal range in grid cells at 5 feet
// per cell. Melee weapons reach one cell.
func (w *Def) NormalRangeCells() int {
	if !w.Ranged() {
		return 1
	}
	return w.RangeNormal / 5
}

// MaxRangeCells returns the weapon's maximum range in grid cells. Melee
// weapons reach one cell; a ranged weapon without an explicit RangeMax uses
// its normal range.
func (w *Def) MaxRangeCells() int {
	if !w.Ranged() {
		return 1
	}
	if w.RangeMax > w.RangeNormal {
		return w.RangeMax / 5
	}
	return w.RangeNormal / 5
}

// Validate checks that the Def satisfies its invariants, including that the
// damage dice expression parses.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *Def) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if w.DamageDice == "" {
		errs = append(errs, errors.New("DamageDice must not be empty"))
	} else if _, err := dice.Parse(w.DamageDice); err != nil {
		errs = append(errs, fmt.Errorf("DamageDice: %w", err))
	}
	if w.DamageType == "" {
		errs = append(errs, errors.New("DamageType must not be empty"))
	}
	if w.RangeNormal < 0 || w.RangeMax < 0 {
		errs = append(errs, errors.New("ranges must not be negative"))
	}
	if w.RangeMax > 0 && w.RangeMax < w.RangeNormal {
		errs = append(errs, errors.New("RangeMax must be >= RangeNormal"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// Unarmed returns the built-in fallback weapon used when a combatant has no
// weapon assigned.
func Unarmed() *Def {
	return &Def{
		ID:         "unarmed",
		Name:       "Unarmed Strike",
		DamageDice: "1d4",
		DamageType: "bludgeoning",
	}
}

// Registry holds all known weapon Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
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
// strict field checking, validates it, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading weapon dir %q: %w", dir, err)
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
			return nil, fmt.Errorf("invalid weapon in %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
