package ai

import (
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/dice"
	"github.com/ironvale/skirmish/internal/game/spell"
)

// casterBehavior burns damage spells on the nearest opponent and falls back
// to archer positioning once out of fuel or out of spells.
type casterBehavior struct {
	spells   *spell.Registry
	src      dice.Source
	fallback archerBehavior
}

func (casterBehavior) isBehavior() {}

func (b casterBehavior) Decide(st *combat.State, actor *character.Character) *combat.Action {
	if !actor.HasUsedAction {
		if id, ok := b.pickDamageSpell(actor); ok {
			if target := NearestOpponent(st, actor); target != nil {
				return &combat.Action{
					Type:     combat.ActionSpell,
					ActorID:  actor.ID,
					TargetID: target.ID,
					SpellID:  id,
				}
			}
		}
	}
	return b.fallback.Decide(st, actor)
}

// pickDamageSpell chooses uniformly among the actor's known damage spells
// that can still be fueled. Cantrips need no slot, so a caster with a
// damage cantrip never runs dry.
func (b casterBehavior) pickDamageSpell(actor *character.Character) (string, bool) {
	var castable []string
	for _, id := range actor.SpellIDs {
		def, ok := b.spells.Get(id)
		if !ok || !def.IsDamage() {
			continue
		}
		if !actor.HasSlot(def.Level) {
			continue
		}
		castable = append(castable, id)
	}
	if len(castable) == 0 {
		return "", false
	}
	return dice.Choice(b.src, castable), true
}
