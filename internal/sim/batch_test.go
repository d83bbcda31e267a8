package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch_TalliesEveryRun(t *testing.T) {
	r := newRunner(t, nil, 50)
	res, err := r.RunBatch(newBuilder(t), duelDef(), 4)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Runs)
	assert.Equal(t, 4, res.PlayerWins, "the duel is stacked for the player side")
	assert.Zero(t, res.EnemyWins)
	assert.Zero(t, res.Draws)
	assert.GreaterOrEqual(t, res.TotalRounds, 4)
}

func TestRunBatch_PinnedSeedReplaysIdentically(t *testing.T) {
	first, err := newRunner(t, nil, 50).RunBatch(newBuilder(t), duelDef(), 3)
	require.NoError(t, err)
	second, err := newRunner(t, nil, 50).RunBatch(newBuilder(t), duelDef(), 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunBatch_CountsDraws(t *testing.T) {
	res, err := newRunner(t, nil, 3).RunBatch(newBuilder(t), walledDef(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Runs)
	assert.Equal(t, 2, res.Draws)
	assert.Zero(t, res.PlayerWins)
	assert.Zero(t, res.EnemyWins)
	assert.Equal(t, 6, res.TotalRounds, "each capped run reports the cap")
}

func TestRunBatch_RejectsNonPositiveRuns(t *testing.T) {
	r := newRunner(t, nil, 50)
	_, err := r.RunBatch(newBuilder(t), duelDef(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runs must be >= 1")
}

func TestRunBatch_LeavesDefinitionUntouched(t *testing.T) {
	def := duelDef()
	_, err := newRunner(t, nil, 50).RunBatch(newBuilder(t), def, 2)
	require.NoError(t, err)

	assert.Equal(t, "enc-duel", def.ID)
	assert.Equal(t, "oak-and-iron", def.Seed)
}
