package sim

import (
	"fmt"

	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/scenario"
)

// BatchResult aggregates outcomes across repeated runs of one scenario.
type BatchResult struct {
	// Runs is the number of encounters fought.
	Runs int
	// PlayerWins counts runs the player side won.
	PlayerWins int
	// EnemyWins counts runs the enemy side won.
	EnemyWins int
	// Draws counts runs the round cap ended undecided.
	Draws int
	// TotalRounds sums the rounds fought across all runs.
	TotalRounds int
}

// RunBatch builds and runs the scenario runs times, tallying victories. A
// pinned scenario seed is varied per run ("seed#0", "seed#1", ...) so the
// batch explores distinct fights yet replays identically; an empty seed
// stays empty and every run draws its own. Each run gets a fresh encounter
// ID.
//
// Precondition: builder and def must be non-nil; runs must be >= 1.
// Postcondition: Returns the tally, or the first build or run error.
func (r *Runner) RunBatch(builder *scenario.Builder, def *scenario.Def, runs int) (BatchResult, error) {
	if runs < 1 {
		return BatchResult{}, fmt.Errorf("sim: runs must be >= 1, got %d", runs)
	}
	var out BatchResult
	for i := 0; i < runs; i++ {
		run := *def
		run.ID = ""
		if def.Seed != "" {
			run.Seed = fmt.Sprintf("%s#%d", def.Seed, i)
		}
		enc, err := builder.Build(&run)
		if err != nil {
			return BatchResult{}, fmt.Errorf("sim: run %d: %w", i, err)
		}
		res, err := r.Run(enc)
		if err != nil {
			return BatchResult{}, fmt.Errorf("sim: run %d: %w", i, err)
		}
		switch res.Victor {
		case combat.VictorPlayers:
			out.PlayerWins++
		case combat.VictorEnemies:
			out.EnemyWins++
		default:
			out.Draws++
		}
		out.TotalRounds += res.Rounds
		out.Runs++
	}
	return out, nil
}
