// Package combat implements the turn-based grid combat engine for Skirmish.
package combat

// Victor identifies the winning side of a finished encounter.
type Victor string

const (
	// VictorNone means combat is still undecided.
	VictorNone Victor = ""
	// VictorPlayers means every enemy is down.
	VictorPlayers Victor = "players"
	// VictorEnemies means every player and companion is down.
	VictorEnemies Victor = "enemies"
)

// ProficiencyBonus returns the proficiency bonus for the given level.
// Formula: (level + 3) / 4, so levels 1-4 give +1, levels 5-8 give +2,
// level 9 gives +3.
//
// Precondition: level >= 1.
// Postcondition: Returns >= 1.
func ProficiencyBonus(level int) int {
	return (level + 3) / 4
}
