package weapon_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironvale/skirmish/internal/game/weapon"
)

func TestDef_Validate_RejectsEmpty(t *testing.T) {
	w := &weapon.Def{}
	if err := w.Validate(); err == nil {
		t.Fatal("expected error for empty Def, got nil")
	}
}

func TestDef_Validate_AcceptsMinimal(t *testing.T) {
	w := &weapon.Def{
		ID:         "shortsword",
		Name:       "Shortsword",
		DamageDice: "1d6",
		DamageType: "piercing",
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("expected no error for minimal melee Def, got: %v", err)
	}
}

func TestDef_Validate_RejectsMalformedDice(t *testing.T) {
	w := &weapon.Def{
		ID:         "cursed_club",
		Name:       "Cursed Club",
		DamageDice: "1dsix",
		DamageType: "bludgeoning",
	}
	if err := w.Validate(); err == nil {
		t.Fatal("expected error for malformed damage dice, got nil")
	}
}

func TestDef_Validate_RejectsInvertedRange(t *testing.T) {
	w := &weapon.Def{
		ID:          "shortbow",
		Name:        "Shortbow",
		DamageDice:  "1d6",
		DamageType:  "piercing",
		RangeNormal: 80,
		RangeMax:    40,
	}
	if err := w.Validate(); err == nil {
		t.Fatal("expected error for RangeMax < RangeNormal, got nil")
	}
}

func TestDef_RangedAndFinesse(t *testing.T) {
	bow := &weapon.Def{ID: "bow", RangeNormal: 80, RangeMax: 320}
	if !bow.Ranged() {
		t.Error("bow must be ranged")
	}
	if bow.Finesse() {
		t.Error("bow has no finesse property")
	}

	dagger := &weapon.Def{ID: "dagger", Properties: []string{weapon.PropertyFinesse, weapon.PropertyLight}}
	if dagger.Ranged() {
		t.Error("dagger must be melee")
	}
	if !dagger.Finesse() {
		t.Error("dagger must have finesse")
	}
	if !dagger.HasProperty(weapon.PropertyLight) {
		t.Error("dagger must have light")
	}
}

func TestDef_RangeCells(t *testing.T) {
	bow := &weapon.Def{ID: "bow", RangeNormal: 80, RangeMax: 320}
	if got := bow.NormalRangeCells(); got != 16 {
		t.Errorf("expected 16 normal range cells, got %d", got)
	}
	if got := bow.MaxRangeCells(); got != 64 {
		t.Errorf("expected 64 max range cells, got %d", got)
	}

	sling := &weapon.Def{ID: "sling", RangeNormal: 30}
	if got := sling.MaxRangeCells(); got != 6 {
		t.Errorf("ranged weapon without RangeMax falls back to normal, got %d", got)
	}

	sword := &weapon.Def{ID: "sword"}
	if got := sword.NormalRangeCells(); got != 1 {
		t.Errorf("melee weapons reach one cell, got %d", got)
	}
	if got := sword.MaxRangeCells(); got != 1 {
		t.Errorf("melee weapons reach one cell, got %d", got)
	}
}

func TestUnarmed(t *testing.T) {
	u := weapon.Unarmed()
	if err := u.Validate(); err != nil {
		t.Fatalf("built-in unarmed strike must validate: %v", err)
	}
	if u.Ranged() {
		t.Error("unarmed strike must be melee")
	}
}

func TestRegistry(t *testing.T) {
	reg := weapon.NewRegistry()
	reg.Register(&weapon.Def{ID: "axe", Name: "Axe", DamageDice: "1d8", DamageType: "slashing"})

	if _, ok := reg.Get("axe"); !ok {
		t.Fatal("expected axe to be registered")
	}
	if _, ok := reg.Get("pike"); ok {
		t.Fatal("expected pike lookup to miss")
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected 1 registered weapon, got %d", len(reg.All()))
	}
}

func TestLoadDirectory_LoadsYAML(t *testing.T) {
	dir := t.TempDir()
	content := `id: longbow
name: Longbow
damage_dice: 1d8
damage_type: piercing
range_normal: 150
range_max: 600
properties: [heavy]
`
	if err := os.WriteFile(filepath.Join(dir, "longbow.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp YAML: %v", err)
	}

	reg, err := weapon.LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	w, ok := reg.Get("longbow")
	if !ok {
		t.Fatal("expected longbow to load")
	}
	if w.Name != "Longbow" {
		t.Errorf("expected Name 'Longbow', got %q", w.Name)
	}
	if w.NormalRangeCells() != 30 {
		t.Errorf("expected 30 normal range cells, got %d", w.NormalRangeCells())
	}
}

func TestLoadDirectory_RejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	content := `id: hammer
name: Hammer
damage_dice: 1d10
damage_type: bludgeoning
weight: 12
`
	if err := os.WriteFile(filepath.Join(dir, "hammer.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp YAML: %v", err)
	}

	if _, err := weapon.LoadDirectory(dir); err == nil {
		t.Fatal("expected unknown field 'weight' to be rejected")
	}
}

func TestLoadDirectory_RejectsInvalidDef(t *testing.T) {
	dir := t.TempDir()
	content := `id: broken
name: Broken
damage_dice: oops
damage_type: slashing
`
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp YAML: %v", err)
	}

	if _, err := weapon.LoadDirectory(dir); err == nil {
		t.Fatal("expected malformed damage dice to be rejected at load")
	}
}
