package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/ironvale/skirmish/internal/game/ai"
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/grid"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
)

// fixedSrc returns min(val, n-1) for every draw. With val 0 initiative
// rolls all tie, so turn order is the roster join order and the policies
// under test see a predictable encounter.
type fixedSrc struct{ val int }

func (s fixedSrc) Intn(n int) int {
	if s.val >= n {
		return n - 1
	}
	return s.val
}

func testWeapons(t require.TestingT) *weapon.Registry {
	reg := weapon.NewRegistry()
	for _, def := range []*weapon.Def{
		{
			ID:         "shortsword",
			Name:       "Shortsword",
			DamageDice: "1d6",
			DamageType: "piercing",
			Properties: []string{weapon.PropertyFinesse, weapon.PropertyLight},
		},
		{
			ID:          "shortbow",
			Name:        "Shortbow",
			DamageDice:  "1d6",
			DamageType:  "piercing",
			RangeNormal: 15,
			RangeMax:    60,
		},
	} {
		require.NoError(t, def.Validate())
		reg.Register(def)
	}
	return reg
}

func testSpells(t require.TestingT) *spell.Registry {
	reg := spell.NewRegistry()
	for _, def := range []*spell.Def{
		{ID: "fire_bolt", Name: "Fire Bolt", Level: 0, Effect: "damage", Range: 120, DamageDice: "1d10"},
		{ID: "magic_missile", Name: "Magic Missile", Level: 1, Effect: "damage", Range: 120, DamageDice: "3d4+3"},
		{ID: "cure_wounds", Name: "Cure Wounds", Level: 1, Effect: "heal", Range: 5, HealDice: "1d8+3"},
	} {
		require.NoError(t, def.Validate())
		reg.Register(def)
	}
	return reg
}

func makeChar(id, name string, typ character.Type, pos grid.Position) *character.Character {
	c := character.New(id, name, typ)
	c.Abilities = character.AbilityScores{
		Strength: 14, Dexterity: 12, Constitution: 12,
		Intelligence: 10, Wisdom: 10, Charisma: 10,
	}
	c.MaxHP = 15
	c.CurrentHP = 15
	c.ArmorClass = 13
	c.Speed = 30
	c.Position = pos
	return c
}

func startedState(t require.TestingT, b *grid.Battlefield, chars ...*character.Character) *combat.State {
	st := combat.NewState("enc-ai", b, testWeapons(t), testSpells(t), fixedSrc{val: 0}, zap.NewNop())
	for _, c := range chars {
		require.NoError(t, st.AddCharacter(c))
	}
	require.NoError(t, st.Start())
	return st
}

func policy(t require.TestingT, p character.Personality, src fixedSrc) ai.Behavior {
	return ai.ForPersonality(p, testWeapons(t), testSpells(t), src)
}

func TestNearestOpponent(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 0, Y: 0})
	near := makeChar("near", "Near Goblin", character.TypeEnemy, grid.Position{X: 2, Y: 1})
	far := makeChar("far", "Far Goblin", character.TypeEnemy, grid.Position{X: 5, Y: 5})
	st := startedState(t, b, hero, near, far)

	got := ai.NearestOpponent(st, hero)
	require.NotNil(t, got)
	assert.Equal(t, "near", got.ID)

	near.CurrentHP = 0
	got = ai.NearestOpponent(st, hero)
	require.NotNil(t, got)
	assert.Equal(t, "far", got.ID)

	far.CurrentHP = 0
	assert.Nil(t, ai.NearestOpponent(st, hero))
}

func TestNearestOpponent_TiesKeepJoinOrder(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 0, Y: 0})
	first := makeChar("first", "First", character.TypeEnemy, grid.Position{X: 3, Y: 0})
	second := makeChar("second", "Second", character.TypeEnemy, grid.Position{X: 0, Y: 3})
	st := startedState(t, b, hero, first, second)

	got := ai.NearestOpponent(st, hero)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)
}

func TestMelee_AttacksWhenAdjacent(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 1, Y: 1})
	goblin := makeChar("goblin", "Goblin", character.TypeEnemy, grid.Position{X: 1, Y: 2})
	st := startedState(t, b, hero, goblin)

	act := policy(t, character.PersonalityAggressive, fixedSrc{val: 0}).Decide(st, goblin)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionAttack, act.Type)
	assert.Equal(t, "goblin", act.ActorID)
	assert.Equal(t, "hero", act.TargetID)
}

func TestMelee_NilOnceActionSpent(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 1, Y: 1})
	goblin := makeChar("goblin", "Goblin", character.TypeEnemy, grid.Position{X: 1, Y: 2})
	st := startedState(t, b, hero, goblin)

	goblin.HasUsedAction = true
	assert.Nil(t, policy(t, character.PersonalityAggressive, fixedSrc{val: 0}).Decide(st, goblin))
}

func TestMelee_ApproachStopsShortOfTarget(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 0, Y: 5})
	goblin := makeChar("goblin", "Goblin", character.TypeEnemy, grid.Position{X: 0, Y: 0})
	st := startedState(t, b, hero, goblin)

	act := policy(t, character.PersonalityAggressive, fixedSrc{val: 0}).Decide(st, goblin)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionMove, act.Type)
	assert.Equal(t, grid.Position{X: 0, Y: 4}, act.To, "walks the whole path but never onto the target's cell")
}

func TestMelee_ApproachHonorsMovementBudget(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 0, Y: 5})
	goblin := makeChar("goblin", "Goblin", character.TypeEnemy, grid.Position{X: 0, Y: 0})
	st := startedState(t, b, hero, goblin)

	goblin.MovementUsed = 20
	act := policy(t, character.PersonalityAggressive, fixedSrc{val: 0}).Decide(st, goblin)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionMove, act.Type)
	assert.Equal(t, grid.Position{X: 0, Y: 2}, act.To)

	goblin.MovementUsed = 30
	assert.Nil(t, policy(t, character.PersonalityAggressive, fixedSrc{val: 0}).Decide(st, goblin))
}

func TestMelee_NilWhenNoRoute(t *testing.T) {
	walls := []grid.Position{
		{X: 4, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 4}, {X: 5, Y: 6},
	}
	b := grid.NewBattlefield(10, 10, walls)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 5, Y: 5})
	goblin := makeChar("goblin", "Goblin", character.TypeEnemy, grid.Position{X: 0, Y: 0})
	st := startedState(t, b, hero, goblin)

	assert.Nil(t, policy(t, character.PersonalityAggressive, fixedSrc{val: 0}).Decide(st, goblin))
}

func TestArcher_RetreatsWhenThreatClose(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 4, Y: 6})
	archer := makeChar("archer", "Archer", character.TypeEnemy, grid.Position{X: 4, Y: 4})
	archer.WeaponID = "shortbow"
	st := startedState(t, b, hero, archer)

	act := policy(t, character.PersonalityArcher, fixedSrc{val: 0}).Decide(st, archer)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionMove, act.Type)
	assert.Greater(t, grid.Manhattan(act.To, hero.Position), 2, "retreat must gain ground")
	assert.LessOrEqual(t, grid.Manhattan(act.To, archer.Position), 2, "retreat hops at most two cells")
}

func TestArcher_ShootsInsideNormalRange(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 0, Y: 3})
	archer := makeChar("archer", "Archer", character.TypeEnemy, grid.Position{X: 0, Y: 0})
	archer.WeaponID = "shortbow"
	archer.MovementUsed = 30 // no budget, so it stands and shoots
	st := startedState(t, b, hero, archer)

	act := policy(t, character.PersonalityArcher, fixedSrc{val: 0}).Decide(st, archer)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionAttack, act.Type)
	assert.Equal(t, "hero", act.TargetID)
}

func TestArcher_HoldsFireBeyondNormalRange(t *testing.T) {
	// Clear line of sight at eight cells: inside the shortbow's long range
	// but past its normal range, so the archer repositions instead of
	// shooting.
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 0, Y: 8})
	archer := makeChar("archer", "Archer", character.TypeEnemy, grid.Position{X: 0, Y: 0})
	archer.WeaponID = "shortbow"
	st := startedState(t, b, hero, archer)

	act := policy(t, character.PersonalityArcher, fixedSrc{val: 0}).Decide(st, archer)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionMove, act.Type)
}

func TestArcher_SeeksLineOfSight(t *testing.T) {
	walls := []grid.Position{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}}
	b := grid.NewBattlefield(10, 10, walls)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 5, Y: 1})
	archer := makeChar("archer", "Archer", character.TypeEnemy, grid.Position{X: 0, Y: 1})
	archer.WeaponID = "shortbow"
	archer.Speed = 60 // enough budget to reach the chosen cell this turn
	st := startedState(t, b, hero, archer)

	require.False(t, grid.LineOfSight(b, archer.Position, hero.Position))

	act := policy(t, character.PersonalityArcher, fixedSrc{val: 0}).Decide(st, archer)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionMove, act.Type)
	assert.True(t, grid.LineOfSight(b, act.To, hero.Position), "chosen cell must see the target")
}

func TestArcher_FallsBackToMeleeWithoutRangedWeapon(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 1, Y: 1})
	archer := makeChar("archer", "Archer", character.TypeEnemy, grid.Position{X: 1, Y: 2})
	archer.WeaponID = "shortsword"
	st := startedState(t, b, hero, archer)

	// With a bow it would retreat here; with a blade it swings.
	act := policy(t, character.PersonalityArcher, fixedSrc{val: 0}).Decide(st, archer)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionAttack, act.Type)
}

func TestCaster_CastsDamageSpellAtNearestTarget(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	near := makeChar("near", "Near Hero", character.TypePlayer, grid.Position{X: 5, Y: 7})
	far := makeChar("far", "Far Hero", character.TypePlayer, grid.Position{X: 0, Y: 0})
	mage := makeChar("mage", "Goblin Mage", character.TypeEnemy, grid.Position{X: 5, Y: 5})
	mage.SpellIDs = []string{"cure_wounds", "magic_missile", "fire_bolt"}
	mage.SpellSlots = map[int]character.SlotPool{1: {Current: 1, Max: 2}}
	st := startedState(t, b, near, far, mage)

	// cure_wounds is not a damage spell, so the eligible pool is
	// magic_missile then fire_bolt; the source value indexes into it.
	act := policy(t, character.PersonalityCaster, fixedSrc{val: 0}).Decide(st, mage)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionSpell, act.Type)
	assert.Equal(t, "magic_missile", act.SpellID)
	assert.Equal(t, "near", act.TargetID)

	act = policy(t, character.PersonalityCaster, fixedSrc{val: 1}).Decide(st, mage)
	require.NotNil(t, act)
	assert.Equal(t, "fire_bolt", act.SpellID)
}

func TestCaster_SkipsSpellsWithoutSlots(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 5, Y: 7})
	mage := makeChar("mage", "Goblin Mage", character.TypeEnemy, grid.Position{X: 5, Y: 5})
	mage.SpellIDs = []string{"magic_missile", "fire_bolt"}
	st := startedState(t, b, hero, mage)

	// No level-1 slots: the leveled spell drops out and the cantrip is the
	// whole pool.
	act := policy(t, character.PersonalityCaster, fixedSrc{val: 0}).Decide(st, mage)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionSpell, act.Type)
	assert.Equal(t, "fire_bolt", act.SpellID)
}

func TestCaster_FallsBackWhenNothingCastable(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 5, Y: 7})
	mage := makeChar("mage", "Goblin Mage", character.TypeEnemy, grid.Position{X: 5, Y: 5})
	mage.SpellIDs = []string{"magic_missile"}
	st := startedState(t, b, hero, mage)

	act := policy(t, character.PersonalityCaster, fixedSrc{val: 0}).Decide(st, mage)
	require.NotNil(t, act)
	assert.Equal(t, combat.ActionMove, act.Type)
	assert.Equal(t, grid.Position{X: 5, Y: 6}, act.To, "unarmed fallback closes to melee")
}

func TestCaster_NilWhenSpentAndStationary(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 5, Y: 7})
	mage := makeChar("mage", "Goblin Mage", character.TypeEnemy, grid.Position{X: 5, Y: 5})
	mage.SpellIDs = []string{"fire_bolt"}
	mage.HasUsedAction = true
	mage.MovementUsed = 30
	st := startedState(t, b, hero, mage)

	assert.Nil(t, policy(t, character.PersonalityCaster, fixedSrc{val: 0}).Decide(st, mage))
}

func TestForPersonality(t *testing.T) {
	weapons := testWeapons(t)
	spells := testSpells(t)

	assert.Panics(t, func() {
		ai.ForPersonality(character.PersonalityAggressive, nil, spells, fixedSrc{val: 0})
	})

	all := []character.Personality{
		character.PersonalityNone,
		character.PersonalityAggressive,
		character.PersonalityArcher,
		character.PersonalityCaster,
		character.PersonalityDefensive,
		character.PersonalityTactical,
	}
	for _, p := range all {
		assert.NotNil(t, ai.ForPersonality(p, weapons, spells, fixedSrc{val: 0}), p.String())
	}
}

func TestForPersonality_UndifferentiatedFallbacks(t *testing.T) {
	b := grid.NewBattlefield(10, 10, nil)
	hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: 1, Y: 1})
	goblin := makeChar("goblin", "Goblin", character.TypeEnemy, grid.Position{X: 1, Y: 2})
	st := startedState(t, b, hero, goblin)

	for _, p := range []character.Personality{
		character.PersonalityNone,
		character.PersonalityDefensive,
		character.PersonalityTactical,
	} {
		act := policy(t, p, fixedSrc{val: 0}).Decide(st, goblin)
		require.NotNil(t, act, p.String())
		assert.Equal(t, combat.ActionAttack, act.Type, p.String())
		assert.Equal(t, "hero", act.TargetID, p.String())
	}
}

func TestArcher_NeverShootsBeyondNormalRange(t *testing.T) {
	weapons := testWeapons(t)
	spells := testSpells(t)
	pol := ai.ForPersonality(character.PersonalityArcher, weapons, spells, fixedSrc{val: 0})
	shortbow, ok := weapons.Get("shortbow")
	require.True(t, ok)

	rapid.Check(t, func(rt *rapid.T) {
		ax := rapid.IntRange(0, 19).Draw(rt, "ax")
		ay := rapid.IntRange(0, 19).Draw(rt, "ay")
		hx := rapid.IntRange(0, 19).Draw(rt, "hx")
		hy := rapid.IntRange(0, 19).Draw(rt, "hy")
		if ax == hx && ay == hy {
			return
		}
		moved := rapid.IntRange(0, 6).Draw(rt, "movedCells")

		b := grid.NewBattlefield(20, 20, nil) // open board: sight lines everywhere
		hero := makeChar("hero", "Hero", character.TypePlayer, grid.Position{X: hx, Y: hy})
		archer := makeChar("archer", "Archer", character.TypeEnemy, grid.Position{X: ax, Y: ay})
		archer.WeaponID = "shortbow"
		archer.MovementUsed = moved * 5
		st := startedState(rt, b, hero, archer)

		act := pol.Decide(st, archer)
		if act != nil && act.Type == combat.ActionAttack {
			dist := grid.Manhattan(archer.Position, hero.Position)
			if dist > shortbow.NormalRangeCells() {
				rt.Fatalf("archer shot from %d cells, beyond normal range %d cells",
					dist, shortbow.NormalRangeCells())
			}
		}

		// Proposals never mutate the encounter.
		if act != nil {
			if archer.Position != (grid.Position{X: ax, Y: ay}) {
				rt.Fatalf("Decide moved the actor to %v", archer.Position)
			}
			if st.Round != 1 {
				rt.Fatalf("Decide advanced the round to %d", st.Round)
			}
		}
	})
}
