package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/condition"
)

func hero() *character.Character {
	c := character.New("hero", "Hero", character.TypePlayer)
	c.MaxHP = 20
	c.CurrentHP = 20
	c.ArmorClass = 15
	c.Speed = 30
	return c
}

// TestModifier verifies floor division, including negative modifiers.
func TestModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{12, 1},
		{16, 3},
		{20, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, character.Modifier(tt.score), "Modifier(%d)", tt.score)
	}
}

// TestType_PlayerSide verifies side grouping for end-of-combat detection.
func TestType_PlayerSide(t *testing.T) {
	assert.True(t, character.TypePlayer.PlayerSide())
	assert.True(t, character.TypeCompanion.PlayerSide())
	assert.False(t, character.TypeEnemy.PlayerSide())
}

// TestParseType round-trips the content labels.
func TestParseType(t *testing.T) {
	for _, typ := range []character.Type{character.TypePlayer, character.TypeCompanion, character.TypeEnemy} {
		parsed, err := character.ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
	_, err := character.ParseType("villain")
	assert.Error(t, err)
}

// TestParsePersonality round-trips the content labels and accepts the empty
// label as no profile.
func TestParsePersonality(t *testing.T) {
	all := []character.Personality{
		character.PersonalityNone,
		character.PersonalityAggressive,
		character.PersonalityArcher,
		character.PersonalityCaster,
		character.PersonalityDefensive,
		character.PersonalityTactical,
	}
	for _, p := range all {
		parsed, err := character.ParsePersonality(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	parsed, err := character.ParsePersonality("")
	require.NoError(t, err)
	assert.Equal(t, character.PersonalityNone, parsed)

	_, err = character.ParsePersonality("berserk")
	assert.Error(t, err)
}

// TestCharacter_ApplyDamage verifies the temp-HP-first rule and the zero floor.
func TestCharacter_ApplyDamage(t *testing.T) {
	c := hero()
	c.TempHP = 5

	c.ApplyDamage(3)
	assert.Equal(t, 2, c.TempHP, "temporary hit points absorb first")
	assert.Equal(t, 20, c.CurrentHP)

	c.ApplyDamage(6)
	assert.Equal(t, 0, c.TempHP)
	assert.Equal(t, 16, c.CurrentHP, "spillover reduces current")

	c.ApplyDamage(100)
	assert.Equal(t, 0, c.CurrentHP, "current floors at zero")
	assert.False(t, c.Alive())

	c.ApplyDamage(0) // no-op
	assert.Equal(t, 0, c.CurrentHP)
}

// TestCharacter_ApplyDamage_Property verifies the floors hold for arbitrary
// damage sequences.
func TestCharacter_ApplyDamage_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := hero()
		c.TempHP = rapid.IntRange(0, 10).Draw(rt, "temp")

		hits := rapid.SliceOfN(rapid.IntRange(0, 15), 1, 10).Draw(rt, "hits")
		for _, h := range hits {
			c.ApplyDamage(h)
			assert.GreaterOrEqual(rt, c.CurrentHP, 0)
			assert.GreaterOrEqual(rt, c.TempHP, 0)
			assert.LessOrEqual(rt, c.CurrentHP, c.MaxHP)
		}
	})
}

// TestCharacter_Heal verifies the MaxHP cap.
func TestCharacter_Heal(t *testing.T) {
	c := hero()
	c.CurrentHP = 5

	c.Heal(8)
	assert.Equal(t, 13, c.CurrentHP)

	c.Heal(100)
	assert.Equal(t, 20, c.CurrentHP, "healing caps at MaxHP")
}

// TestCharacter_SpellSlots verifies slot queries and consumption, including
// the level-0 cantrip rule.
func TestCharacter_SpellSlots(t *testing.T) {
	c := hero()
	c.SpellSlots[1] = character.SlotPool{Current: 2, Max: 2}

	assert.True(t, c.HasSlot(0), "cantrips never need a slot")
	assert.True(t, c.ConsumeSlot(0))

	assert.True(t, c.HasSlot(1))
	assert.True(t, c.ConsumeSlot(1))
	assert.True(t, c.ConsumeSlot(1))
	assert.False(t, c.HasSlot(1), "pool exhausted")
	assert.False(t, c.ConsumeSlot(1), "consuming an empty pool fails")
	assert.Equal(t, character.SlotPool{Current: 0, Max: 2}, c.SpellSlots[1])

	assert.False(t, c.HasSlot(3), "unknown level has no slots")
}

// TestCharacter_EffectiveAC verifies status effects modify armor class
// without touching the base value.
func TestCharacter_EffectiveAC(t *testing.T) {
	c := hero()
	assert.Equal(t, 15, c.EffectiveAC())

	c.Effects.Apply(condition.Effect{ID: "dodge", Duration: 1, ACBonus: 2})
	assert.Equal(t, 17, c.EffectiveAC())
	assert.Equal(t, 15, c.ArmorClass, "base armor class is never mutated")
}

// TestCharacter_EffectiveSpeed verifies the dash multiplier composes without
// mutating base speed, and expires with the effect.
func TestCharacter_EffectiveSpeed(t *testing.T) {
	c := hero()
	assert.Equal(t, 30, c.EffectiveSpeed())
	assert.Equal(t, 6, c.RemainingMovementCells())

	c.Effects.Apply(condition.Effect{ID: "dash", Duration: 1, SpeedMultiplier: 2})
	assert.Equal(t, 60, c.EffectiveSpeed())
	assert.Equal(t, 30, c.Speed, "base speed is never mutated")
	assert.Equal(t, 12, c.RemainingMovementCells())

	c.MovementUsed = 25
	assert.Equal(t, 7, c.RemainingMovementCells())

	c.Effects.Tick()
	assert.Equal(t, 30, c.EffectiveSpeed(), "expiry restores base speed")
}

// TestCharacter_ResetTurn verifies the per-turn state reset.
func TestCharacter_ResetTurn(t *testing.T) {
	c := hero()
	c.HasUsedAction = true
	c.HasUsedBonusAction = true
	c.HasUsedReaction = true
	c.MovementUsed = 25

	c.ResetTurn()
	assert.False(t, c.HasUsedAction)
	assert.False(t, c.HasUsedBonusAction)
	assert.False(t, c.HasUsedReaction)
	assert.Equal(t, 0, c.MovementUsed)
}
