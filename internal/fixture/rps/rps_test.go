package rps_test

import (
	"testing"

	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/fixture/rps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T) *game.Instance {
	t.Helper()
	inst := game.NewInstance(rps.Methods)
	require.NoError(t, inst.Create(game.Init{Source: game.InitSourceDefault}))
	return inst
}

func move(t *testing.T, inst *game.Instance, player game.PlayerID, str string) {
	t.Helper()
	m, err := inst.Game.MoveCodeFromString(player, str)
	require.NoError(t, err)
	require.NoError(t, inst.Game.MakeMove(player, m))
}

// TestScenarioS3SimultaneousResult covers spec scenario S3: both
// players commit in the same round, get_results resolves the winner.
func TestScenarioS3SimultaneousResult(t *testing.T) {
	inst := newDefault(t)
	move(t, inst, 1, "R") // rock
	move(t, inst, 2, "P") // paper

	results, err := inst.Game.Results()
	require.NoError(t, err)
	assert.Equal(t, []game.PlayerID{2}, results)
}

// TestProperty9OrderInsensitive covers testable property 9:
// simultaneous moves made in either order reach a compare-equal
// state.
func TestProperty9OrderInsensitive(t *testing.T) {
	a := newDefault(t)
	move(t, a, 1, "R")
	move(t, a, 2, "S")

	b := newDefault(t)
	move(t, b, 2, "S")
	move(t, b, 1, "R")

	equal, err := a.Game.Compare(b.Game)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestTieHasNoResult(t *testing.T) {
	inst := newDefault(t)
	move(t, inst, 1, "R")
	move(t, inst, 2, "R")

	results, err := inst.Game.Results()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestConcreteMovesAlwaysAllThree(t *testing.T) {
	inst := newDefault(t)
	move(t, inst, 1, "R")

	moves, err := inst.Game.ConcreteMoves(2)
	require.NoError(t, err)
	assert.Len(t, moves, 3)

	ok, err := inst.Game.IsLegalMove(1, game.MoveCode(0))
	require.NoError(t, err)
	assert.False(t, ok, "player 1 already committed this round")
}

// TestExportStateHidesPendingChoice covers the privacy rule: before
// both players commit, an already-made choice renders as '*'.
func TestExportStateHidesPendingChoice(t *testing.T) {
	inst := newDefault(t)
	move(t, inst, 1, "R")

	state, err := inst.Game.ExportState()
	require.NoError(t, err)
	assert.Equal(t, "*--", state)
}

// TestScenarioS4SyncDataRoundTrip covers spec scenario S4: once
// resolved, export_sync_data yields one segment targeting {1,2} with
// a 2-byte blob that reproduces the terminal state on import.
func TestScenarioS4SyncDataRoundTrip(t *testing.T) {
	inst := newDefault(t)
	move(t, inst, 1, "P")
	move(t, inst, 2, "R")

	syncer, ok := inst.SyncDataGame()
	require.True(t, ok)
	segments, err := syncer.ExportSyncData()
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.ElementsMatch(t, []game.PlayerID{1, 2}, segments[0].Players)
	assert.Len(t, segments[0].Blob, 2)

	redacted := newDefault(t)
	move(t, redacted, 1, "P")
	move(t, redacted, 2, "R")
	actioner, ok := redacted.ActionGame()
	require.True(t, ok)
	require.NoError(t, actioner.RedactKeepState(nil))

	redactedSyncer, ok := redacted.SyncDataGame()
	require.True(t, ok)
	require.NoError(t, redactedSyncer.ImportSyncData(segments[0].Blob))

	equal, err := redacted.Game.Compare(inst.Game)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestDiscretizeResolvesAnyChoices(t *testing.T) {
	inst := newDefault(t)
	move(t, inst, 1, "R")

	actioner, ok := inst.ActionGame()
	require.True(t, ok)
	require.NoError(t, actioner.RedactKeepState([]game.PlayerID{1}))

	state, err := inst.Game.ExportState()
	require.NoError(t, err)
	assert.Equal(t, "*-*", state)

	require.NoError(t, actioner.Discretize(42))

	toMove, err := inst.Game.PlayersToMove()
	require.NoError(t, err)
	assert.Empty(t, toMove)
}

func TestActionsProjectToAny(t *testing.T) {
	inst := newDefault(t)
	actioner, ok := inst.ActionGame()
	require.True(t, ok)

	actions, err := actioner.Actions(1)
	require.NoError(t, err)
	require.Len(t, actions, 1)

	move, err := inst.Game.MoveCodeFromString(1, "S")
	require.NoError(t, err)
	action, err := actioner.MoveToAction(move)
	require.NoError(t, err)
	assert.Equal(t, actions[0], action)

	isAction, err := actioner.IsAction(action)
	require.NoError(t, err)
	assert.True(t, isAction)
}
