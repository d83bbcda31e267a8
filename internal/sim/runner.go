// Package sim drives encounters from start to outcome without human input.
//
// Every combatant is steered by its scenario behavior profile; combatants
// without one fall back to the default policy, so player-side rosters still
// fight in a headless run. The driver owns turn discipline: it asks the
// actor's policy for proposals one at a time, applies each through the
// combat resolvers, and ends the turn when the policy has nothing left.
package sim

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/ironvale/skirmish/internal/game/ai"
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/scenario"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
	"github.com/ironvale/skirmish/internal/scripting"
)

// Runner executes built encounters to completion.
//
// Precondition: all fields must be non-nil after construction, except
// scripts, which may be nil when no encounter scripts are loaded.
type Runner struct {
	weapons   *weapon.Registry
	spells    *spell.Registry
	scripts   *scripting.Manager
	logger    *zap.Logger
	maxRounds int
}

// Result records how one encounter ended.
type Result struct {
	// EncounterID identifies the encounter that produced this result.
	EncounterID string
	// Victor is the winning side, or VictorNone when the round cap struck.
	Victor combat.Victor
	// Rounds counts rounds fought, including the round combat ended in.
	Rounds int
	// Turns counts completed turns across the whole encounter.
	Turns int
	// Survivors lists the names of living combatants in join order.
	Survivors []string
}

// NewRunner creates a Runner.
//
// Precondition: weapons, spells, and logger must be non-nil; scripts may be
// nil (script hooks are skipped when nil); maxRounds must be >= 1.
// Postcondition: Returns a non-nil Runner.
func NewRunner(weapons *weapon.Registry, spells *spell.Registry, scripts *scripting.Manager, logger *zap.Logger, maxRounds int) *Runner {
	return &Runner{
		weapons:   weapons,
		spells:    spells,
		scripts:   scripts,
		logger:    logger,
		maxRounds: maxRounds,
	}
}

// Run starts enc and steps it until one side wins or the round cap is
// reached. Script hooks fire around the loop: on_combat_start once combat
// opens, on_turn_start before each living actor's turn, on_round_start on
// each rollover into a round that will be fought, and on_combat_end with the
// victor ("" for a draw).
//
// Precondition: enc must be a built, unstarted encounter.
// Postcondition: Returns the outcome; enc.State is no longer active unless
// the round cap ended an undecided fight.
func (r *Runner) Run(enc *scenario.Encounter) (Result, error) {
	st := enc.State
	if err := st.Start(); err != nil {
		return Result{}, fmt.Errorf("sim: %w", err)
	}
	r.logger.Info("encounter started",
		zap.String("encounter", st.ID),
		zap.Int("combatants", len(st.Characters())),
	)

	fallback := ai.ForPersonality(character.PersonalityNone, r.weapons, r.spells, enc.Source)
	r.fireHook(st.ID, scripting.HookCombatStart, lua.LNumber(st.Round))

	for st.IsActive() {
		actor := st.Current()
		if actor.Alive() {
			r.fireHook(st.ID, scripting.HookTurnStart, lua.LString(actor.Name), lua.LNumber(st.Round))
			r.takeTurn(st, actor, enc.Behaviors, fallback)
			if st.CheckEnd() {
				break
			}
		}

		prev := st.Round
		if err := st.EndTurn(); err != nil {
			return Result{}, fmt.Errorf("sim: %w", err)
		}
		if st.Round > prev {
			if st.Round > r.maxRounds {
				r.logger.Info("round cap reached",
					zap.String("encounter", st.ID),
					zap.Int("max_rounds", r.maxRounds),
				)
				break
			}
			r.fireHook(st.ID, scripting.HookRoundStart, lua.LNumber(st.Round))
		}
	}

	res := r.result(st)
	r.fireHook(st.ID, scripting.HookCombatEnd, lua.LString(string(res.Victor)))
	r.logger.Info("encounter finished",
		zap.String("encounter", st.ID),
		zap.String("victor", string(res.Victor)),
		zap.Int("rounds", res.Rounds),
		zap.Int("turns", res.Turns),
	)
	return res, nil
}

// takeTurn drains the actor's policy. Every accepted proposal either
// displaces the actor or spends their action, so the loop cannot spin. A
// rejected proposal means the policy and the resolvers disagree about what
// is legal; the turn is forfeited rather than retried.
func (r *Runner) takeTurn(st *combat.State, actor *character.Character, behaviors map[string]ai.Behavior, fallback ai.Behavior) {
	policy := behaviors[actor.ID]
	if policy == nil {
		policy = fallback
	}
	for {
		act := policy.Decide(st, actor)
		if act == nil {
			return
		}
		if err := combat.Apply(st, *act); err != nil {
			r.logger.Warn("action rejected, forfeiting turn",
				zap.String("encounter", st.ID),
				zap.String("actor", actor.Name),
				zap.String("action", act.Type.String()),
				zap.Error(err),
			)
			return
		}
		if st.CheckEnd() {
			return
		}
	}
}

// fireHook dispatches a script hook when a script manager is attached.
// Hook failures never stop a run; the manager logs them.
func (r *Runner) fireHook(encounterID, hook string, args ...lua.LValue) {
	if r.scripts == nil {
		return
	}
	_, _ = r.scripts.CallHook(encounterID, hook, args...)
}

func (r *Runner) result(st *combat.State) Result {
	rounds := st.Round
	if rounds > r.maxRounds {
		rounds = r.maxRounds
	}
	var survivors []string
	for _, c := range st.Characters() {
		if c.Alive() {
			survivors = append(survivors, c.Name)
		}
	}
	return Result{
		EncounterID: st.ID,
		Victor:      st.Victor(),
		Rounds:      rounds,
		Turns:       st.Turn,
		Survivors:   survivors,
	}
}
