package combat

import (
	"github.com/ironvale/skirmish/internal/game/character"
	"github.com/ironvale/skirmish/internal/game/dice"
)

// rollInitiative rolls initiative for every character and sets the Initiative field.
// Formula: d20 + Dexterity modifier.
//
// Precondition: src must be non-nil.
// Postcondition: Each character's Initiative field is set.
func rollInitiative(roster []*character.Character, src dice.Source) {
	for _, c := range roster {
		c.Initiative = dice.RollDie(20, src) + character.Modifier(c.Abilities.Dexterity)
	}
}

// initiativeOrder returns character IDs sorted by Initiative descending.
// The insertion sort only moves strictly higher rollers forward, so ties
// keep the roster join order and the result is replayable.
func initiativeOrder(roster []*character.Character) []string {
	sorted := make([]*character.Character, len(roster))
	copy(sorted, roster)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Initiative > sorted[j-1].Initiative; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	ids := make([]string, len(sorted))
	for i, c := range sorted {
		ids[i] = c.ID
	}
	return ids
}
