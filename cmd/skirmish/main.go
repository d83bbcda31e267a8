// Package main provides the skirmish binary that loads content and a
// scenario, then simulates the encounter to completion.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ironvale/skirmish/internal/config"
	"github.com/ironvale/skirmish/internal/game/combat"
	"github.com/ironvale/skirmish/internal/game/dice"
	"github.com/ironvale/skirmish/internal/game/scenario"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
	"github.com/ironvale/skirmish/internal/observability"
	"github.com/ironvale/skirmish/internal/scripting"
	"github.com/ironvale/skirmish/internal/sim"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	scenarioPath := flag.String("scenario", "", "path to scenario YAML file (required)")
	contentDir := flag.String("content-dir", "", "content directory override; empty = config value")
	scriptsDir := flag.String("scripts-dir", "", "encounter scripts directory override; empty = config value")
	seed := flag.String("seed", "", "scenario seed override; empty = scenario value")
	runs := flag.Int("runs", 0, "number of simulations; overrides config when > 0")
	maxRounds := flag.Int("max-rounds", 0, "round cap; overrides config when > 0")
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "missing required -scenario flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *runs > 0 {
		cfg.Sim.Runs = *runs
	}
	if *maxRounds > 0 {
		cfg.Sim.MaxRounds = *maxRounds
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}
	if *scriptsDir != "" {
		cfg.Scripting.Dir = *scriptsDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	contentStart := time.Now()
	weapons, err := weapon.LoadDirectory(filepath.Join(cfg.Content.Dir, "weapons"))
	if err != nil {
		logger.Fatal("loading weapon definitions", zap.Error(err))
	}
	spells, err := spell.LoadDirectory(filepath.Join(cfg.Content.Dir, "spells"))
	if err != nil {
		logger.Fatal("loading spell definitions", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(weapons.All())),
		zap.Int("spells", len(spells.All())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	def, err := scenario.Load(*scenarioPath)
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}
	if *seed != "" {
		def.Seed = *seed
	}
	logger.Info("scenario loaded",
		zap.String("name", def.Name),
		zap.Int("combatants", len(def.Characters)),
		zap.String("seed", def.Seed),
	)

	var scriptMgr *scripting.Manager
	if cfg.Scripting.Dir != "" {
		if info, statErr := os.Stat(cfg.Scripting.Dir); statErr == nil && info.IsDir() {
			// Scripts roll on their own stream so a pinned scenario seed
			// still replays the encounter exactly.
			var scriptSrc dice.Source = dice.NewRandomLCG()
			if def.Seed != "" {
				scriptSrc = dice.NewLCGFromString(def.Seed + ":scripts")
			}
			scriptMgr = scripting.NewManager(dice.NewLoggedRoller(scriptSrc, logger), logger)
			defer scriptMgr.Close()
			if err := scriptMgr.LoadGlobal(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
				logger.Fatal("loading encounter scripts", zap.Error(err))
			}
			logger.Info("encounter scripts loaded", zap.String("dir", cfg.Scripting.Dir))
		} else {
			logger.Warn("scripts directory not found, scripting disabled",
				zap.String("dir", cfg.Scripting.Dir))
		}
	}

	builder := scenario.NewBuilder(weapons, spells, logger)
	runner := sim.NewRunner(weapons, spells, scriptMgr, logger, cfg.Sim.MaxRounds)

	if cfg.Sim.Runs > 1 {
		batch, err := runner.RunBatch(builder, def, cfg.Sim.Runs)
		if err != nil {
			logger.Fatal("running batch", zap.Error(err))
		}
		printBatch(def, batch)
	} else {
		enc, err := builder.Build(def)
		if err != nil {
			logger.Fatal("building encounter", zap.Error(err))
		}
		res, err := runner.Run(enc)
		if err != nil {
			logger.Fatal("running encounter", zap.Error(err))
		}
		printRun(enc, res)
	}

	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
}

// printRun writes the retained combat log and the outcome to stdout. The
// log is bounded, so a long fight shows its most recent entries.
func printRun(enc *scenario.Encounter, res sim.Result) {
	fmt.Printf("\n=== %s ===\n", enc.Def.Name)
	for _, e := range enc.State.Log.Entries() {
		fmt.Printf("  [R%d] %s\n", e.Details.Round, e.Message)
	}
	fmt.Printf("\nVictor: %s\n", victorLabel(res.Victor))
	fmt.Printf("Rounds: %d   Turns: %d\n", res.Rounds, res.Turns)
	if len(res.Survivors) > 0 {
		fmt.Printf("Survivors: %s\n", strings.Join(res.Survivors, ", "))
	}
}

func printBatch(def *scenario.Def, batch sim.BatchResult) {
	fmt.Printf("\n=== %s x%d ===\n", def.Name, batch.Runs)
	fmt.Printf("Player wins: %d\n", batch.PlayerWins)
	fmt.Printf("Enemy wins:  %d\n", batch.EnemyWins)
	fmt.Printf("Draws:       %d\n", batch.Draws)
	fmt.Printf("Avg rounds:  %.1f\n", float64(batch.TotalRounds)/float64(batch.Runs))
}

func victorLabel(v combat.Victor) string {
	if v == combat.VictorNone {
		return "none (round cap reached)"
	}
	return string(v)
}
