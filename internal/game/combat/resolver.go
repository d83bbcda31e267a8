package combat

import (
	"fmt"

	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combatlog"
	"github.com/ironvale/skirmish/internal/game/condition"
	"github.com/ironvale/skirmish/internal/game/dice"
	"github.com/ironvale/skirmish/internal/game/grid"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
)

// AttackResult holds the outcome of one attack action.
type AttackResult struct {
	// AttackerID is the attacking character's ID.
	AttackerID string
	// TargetID is the defending character's ID.
	TargetID string
	// Roll is the raw d20 result before modifiers.
	Roll int
	// Total is the full attack roll: d20 + ability modifier + proficiency
	// bonus + status attack bonuses.
	Total int
	// TargetAC is the target's effective armor class at resolution time.
	TargetAC int
	// Hit is true when Total >= TargetAC.
	Hit bool
	// Critical is true for a natural 20 that hit.
	Critical bool
	// Damage is the hit points actually subtracted; at least 1 on any hit.
	Damage int
	// DamageRolls holds the individual damage die values.
	DamageRolls []int
	// Killed is true when this attack dropped the target to 0 HP.
	Killed bool
}

// CastResult holds the outcome of one spell action.
type CastResult struct {
	CasterID string
	TargetID string
	SpellID  string
	// Unfueled is true when the cast went ahead without an available slot.
	Unfueled bool
	Damage   int
	Healing  int
	// Killed is true when this spell dropped the target to 0 HP.
	Killed bool
}

// actor fetches a living participant by ID for action resolution.
func (st *State) actor(id string) (*character.Character, error) {
	if !st.active {
		return nil, fmt.Errorf("combat: encounter %q is not active", st.ID)
	}
	c, ok := st.characters[id]
	if !ok {
		return nil, fmt.Errorf("combat: no character %q in encounter", id)
	}
	if !c.Alive() {
		return nil, fmt.Errorf("combat: character %q is dead", id)
	}
	return c, nil
}

// livingTarget fetches a living target by ID.
func (st *State) livingTarget(id string) (*character.Character, error) {
	if id == "" {
		return nil, fmt.Errorf("combat: action requires a target")
	}
	c, ok := st.characters[id]
	if !ok {
		return nil, fmt.Errorf("combat: no character %q in encounter", id)
	}
	if !c.Alive() {
		return nil, fmt.Errorf("combat: target %q is already down", id)
	}
	return c, nil
}

// weaponFor returns the character's equipped weapon, or the unarmed fallback
// when nothing is equipped.
func (st *State) weaponFor(c *character.Character) (*weapon.Def, error) {
	if c.WeaponID == "" {
		return weapon.Unarmed(), nil
	}
	w, ok := st.weapons.Get(c.WeaponID)
	if !ok {
		return nil, fmt.Errorf("combat: character %q has unknown weapon %q", c.ID, c.WeaponID)
	}
	return w, nil
}

// attackAbility picks the ability modifier for an attack with w: Dexterity
// for ranged weapons, the better of Strength and Dexterity for finesse
// weapons, Strength otherwise.
func attackAbility(c *character.Character, w *weapon.Def) int {
	str := character.Modifier(c.Abilities.Strength)
	dex := character.Modifier(c.Abilities.Dexterity)
	switch {
	case w.Ranged():
		return dex
	case w.Finesse():
		if dex > str {
			return dex
		}
		return str
	default:
		return str
	}
}

// ResolveMove places the actor at to and charges movement for the Manhattan
// distance covered, at 5 feet per cell. The caller is expected to have
// validated the route with grid.FindPath; the resolver only rejects
// destinations that are off the board, obstructed, or occupied by another
// living character.
//
// Postcondition: On nil return the actor stands at to and MovementUsed has
// grown by Manhattan(old, to) * 5; on error nothing changed.
func ResolveMove(st *State, actorID string, to grid.Position) error {
	actor, err := st.actor(actorID)
	if err != nil {
		return err
	}
	if grid.Blocked(st.Battlefield, st.Occupancy(), to, actor.ID) {
		return fmt.Errorf("combat: cannot move %q to blocked position %s", actor.ID, to)
	}
	from := actor.Position
	actor.Position = to
	actor.MovementUsed += grid.Manhattan(from, to) * 5
	st.Log.Append(combatlog.Entry{
		Type:      combatlog.EntryMove,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Message:   fmt.Sprintf("%s moves from %s to %s.", actor.Name, from, to),
		Details:   combatlog.Details{From: from, To: to, Round: st.Round, Turn: st.Turn},
	})
	return nil
}

// ResolveAttack performs a full attack and damage roll for attacker vs target.
// Attack roll: d20 + ability modifier + proficiency bonus + status attack
// bonuses vs the target's effective AC; hit iff the total is at least the AC.
// A hit rolls the weapon dice plus the same ability modifier and any status
// damage bonuses, floored at 1; a natural 20 that hits rolls the weapon dice
// one extra time. The action is consumed whether or not the attack lands.
//
// Precondition: targetID must resolve to a living character.
// Postcondition: Returns a populated AttackResult; a violated precondition
// returns an error and leaves the encounter untouched.
func ResolveAttack(st *State, attackerID, targetID string) (AttackResult, error) {
	attacker, err := st.actor(attackerID)
	if err != nil {
		return AttackResult{}, err
	}
	target, err := st.livingTarget(targetID)
	if err != nil {
		return AttackResult{}, err
	}
	wpn, err := st.weaponFor(attacker)
	if err != nil {
		return AttackResult{}, err
	}
	expr, err := dice.Parse(wpn.DamageDice)
	if err != nil {
		return AttackResult{}, fmt.Errorf("combat: weapon %q has bad damage dice: %w", wpn.ID, err)
	}

	attacker.HasUsedAction = true

	abilityMod := attackAbility(attacker, wpn)
	d20 := dice.RollDie(20, st.src)
	total := d20 + abilityMod + ProficiencyBonus(attacker.Level) + condition.AttackBonus(attacker.Effects)
	ac := target.EffectiveAC()

	res := AttackResult{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		Roll:       d20,
		Total:      total,
		TargetAC:   ac,
		Hit:        total >= ac,
	}
	if !res.Hit {
		st.Log.Append(combatlog.Entry{
			Type:      combatlog.EntryAttack,
			ActorID:   attacker.ID,
			ActorName: attacker.Name,
			Message:   fmt.Sprintf("%s misses %s (%d vs AC %d).", attacker.Name, target.Name, total, ac),
			Details: combatlog.Details{
				TargetID:   target.ID,
				TargetName: target.Name,
				AttackRoll: total,
				TargetAC:   ac,
				Round:      st.Round,
				Turn:       st.Turn,
			},
		})
		return res, nil
	}

	res.Critical = d20 == 20
	roll := dice.RollDice(expr.Count, expr.Sides, expr.Modifier, st.src)
	dmg := roll.Total() + abilityMod + condition.DamageBonus(attacker.Effects)
	rolls := append([]int(nil), roll.Dice...)
	if res.Critical {
		// Critical hits add one extra set of weapon dice, never a second
		// ability modifier.
		extra := dice.RollDice(expr.Count, expr.Sides, 0, st.src)
		for _, d := range extra.Dice {
			dmg += d
			rolls = append(rolls, d)
		}
	}
	if dmg < 1 {
		dmg = 1
	}
	target.ApplyDamage(dmg)
	res.Damage = dmg
	res.DamageRolls = rolls
	res.Killed = !target.Alive()

	msg := fmt.Sprintf("%s hits %s with %s for %d damage.", attacker.Name, target.Name, wpn.Name, dmg)
	if res.Critical {
		msg = fmt.Sprintf("%s critically hits %s with %s for %d damage.", attacker.Name, target.Name, wpn.Name, dmg)
	}
	st.Log.Append(combatlog.Entry{
		Type:      combatlog.EntryAttack,
		ActorID:   attacker.ID,
		ActorName: attacker.Name,
		Message:   msg,
		Details: combatlog.Details{
			TargetID:   target.ID,
			TargetName: target.Name,
			AttackRoll: total,
			TargetAC:   ac,
			Damage:     dmg,
			Critical:   res.Critical,
			Round:      st.Round,
			Turn:       st.Turn,
		},
	})
	if res.Killed {
		st.logDeath(target)
	}
	return res, nil
}

// ResolveCast casts the spell with spellID. The action is consumed, and one
// slot of the spell's level is drained when available; a slot-less cast still
// goes ahead and is marked Unfueled in the log. Damage, heal, and buff spells
// need a living target; narrative spells only produce a log entry.
//
// Postcondition: Returns a populated CastResult; a violated precondition
// returns an error and leaves the encounter untouched.
func ResolveCast(st *State, casterID, spellID, targetID string) (CastResult, error) {
	caster, err := st.actor(casterID)
	if err != nil {
		return CastResult{}, err
	}
	if spellID == "" {
		return CastResult{}, fmt.Errorf("combat: cast requires a spell id")
	}
	def, ok := st.spells.Get(spellID)
	if !ok {
		return CastResult{}, fmt.Errorf("combat: unknown spell %q", spellID)
	}

	var target *character.Character
	switch def.Resolved().(type) {
	case spell.DamageEffect, spell.HealEffect, spell.BuffEffect:
		target, err = st.livingTarget(targetID)
		if err != nil {
			return CastResult{}, err
		}
	}

	caster.HasUsedAction = true
	res := CastResult{CasterID: caster.ID, SpellID: def.ID}
	if def.Level > 0 && !caster.ConsumeSlot(def.Level) {
		res.Unfueled = true
	}

	details := combatlog.Details{Unfueled: res.Unfueled, Round: st.Round, Turn: st.Turn}
	switch eff := def.Resolved().(type) {
	case spell.DamageEffect:
		res.TargetID = target.ID
		roll := dice.RollDice(eff.Dice.Count, eff.Dice.Sides, eff.Dice.Modifier, st.src)
		dmg := roll.Total()
		if dmg < 1 {
			dmg = 1
		}
		target.ApplyDamage(dmg)
		res.Damage = dmg
		res.Killed = !target.Alive()
		details.TargetID = target.ID
		details.TargetName = target.Name
		details.Damage = dmg
		st.Log.Append(combatlog.Entry{
			Type:      combatlog.EntrySpell,
			ActorID:   caster.ID,
			ActorName: caster.Name,
			Message:   fmt.Sprintf("%s casts %s at %s for %d damage.", caster.Name, def.Name, target.Name, dmg),
			Details:   details,
		})
		if res.Killed {
			st.logDeath(target)
		}

	case spell.HealEffect:
		res.TargetID = target.ID
		roll := dice.RollDice(eff.Dice.Count, eff.Dice.Sides, eff.Dice.Modifier, st.src)
		before := target.CurrentHP
		target.Heal(roll.Total())
		res.Healing = target.CurrentHP - before
		details.TargetID = target.ID
		details.TargetName = target.Name
		details.Healing = res.Healing
		st.Log.Append(combatlog.Entry{
			Type:      combatlog.EntryHeal,
			ActorID:   caster.ID,
			ActorName: caster.Name,
			Message:   fmt.Sprintf("%s casts %s on %s, restoring %d hit points.", caster.Name, def.Name, target.Name, res.Healing),
			Details:   details,
		})

	case spell.BuffEffect:
		res.TargetID = target.ID
		target.Effects.Apply(eff.Status)
		details.TargetID = target.ID
		details.TargetName = target.Name
		st.Log.Append(combatlog.Entry{
			Type:      combatlog.EntryStatus,
			ActorID:   caster.ID,
			ActorName: caster.Name,
			Message:   fmt.Sprintf("%s casts %s on %s.", caster.Name, def.Name, target.Name),
			Details:   details,
		})

	case spell.NarrativeEffect:
		st.Log.Append(combatlog.Entry{
			Type:      combatlog.EntrySpell,
			ActorID:   caster.ID,
			ActorName: caster.Name,
			Message:   fmt.Sprintf("%s casts %s. %s", caster.Name, def.Name, eff.Text),
			Details:   details,
		})
	}
	return res, nil
}

// ResolveDash consumes the action and doubles the actor's effective speed for
// the remainder of the turn via a timed status effect. The base Speed field
// is never touched, so repeated dashes on later turns cannot compound.
//
// Postcondition: Returns nil iff the dash was applied.
func ResolveDash(st *State, actorID string) error {
	actor, err := st.actor(actorID)
	if err != nil {
		return err
	}
	actor.HasUsedAction = true
	actor.Effects.Apply(condition.Effect{
		ID:              "dash",
		Name:            "Dash",
		Duration:        1,
		SpeedMultiplier: 2,
	})
	st.Log.Append(combatlog.Entry{
		Type:      combatlog.EntryStatus,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Message:   fmt.Sprintf("%s dashes, doubling their speed this turn.", actor.Name),
		Details:   combatlog.Details{Round: st.Round, Turn: st.Turn},
	})
	return nil
}

// ResolveDodge consumes the action and grants the actor +2 armor class until
// the start of their next turn.
//
// Postcondition: Returns nil iff the dodge was applied.
func ResolveDodge(st *State, actorID string) error {
	actor, err := st.actor(actorID)
	if err != nil {
		return err
	}
	actor.HasUsedAction = true
	actor.Effects.Apply(condition.Effect{
		ID:       "dodge",
		Name:     "Dodge",
		Duration: 1,
		ACBonus:  2,
	})
	st.Log.Append(combatlog.Entry{
		Type:      combatlog.EntryStatus,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Message:   fmt.Sprintf("%s takes a defensive stance.", actor.Name),
		Details:   combatlog.Details{Round: st.Round, Turn: st.Turn},
	})
	return nil
}

func (st *State) logDeath(c *character.Character) {
	st.Log.Append(combatlog.Entry{
		Type:      combatlog.EntryDeath,
		ActorID:   c.ID,
		ActorName: c.Name,
		Message:   fmt.Sprintf("%s falls.", c.Name),
		Details:   combatlog.Details{Round: st.Round, Turn: st.Turn},
	})
}
