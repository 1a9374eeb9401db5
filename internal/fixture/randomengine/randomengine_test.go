package randomengine_test

import (
	"testing"
	"time"

	"github.com/go-surena/surena/config"
	"github.com/go-surena/surena/engine"
	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/fixture/randomengine"
	"github.com/go-surena/surena/internal/fixture/tictactoe"
	"github.com/go-surena/surena/internal/semverx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawn(t *testing.T) (*engine.Worker, *engine.Queue) {
	t.Helper()
	outbox := engine.NewQueue()
	w, err := engine.Spawn(randomengine.Methods, 1, outbox, config.FastEngineConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(w.Destroy)
	return w, outbox
}

func newTicTacToe(t *testing.T) *game.Instance {
	t.Helper()
	inst := game.NewInstance(tictactoe.Methods)
	require.NoError(t, inst.Create(game.Init{Source: game.InitSourceDefault}))
	return inst
}

// popUntil drains outbox events until one matching want returns true,
// or the deadline elapses.
func popUntil(t *testing.T, q *engine.Queue, deadline time.Duration, want func(engine.Event) bool) engine.Event {
	t.Helper()
	end := time.Now().Add(deadline)
	for {
		remaining := time.Until(end)
		if remaining <= 0 {
			t.Fatalf("deadline exceeded waiting for event")
		}
		ev := q.Pop(remaining)
		if want(ev) {
			return ev
		}
	}
}

// TestProperty14AnnouncesEngineID covers testable property 14.
func TestProperty14AnnouncesEngineID(t *testing.T) {
	_, outbox := spawn(t)
	ev := popUntil(t, outbox, time.Second, func(e engine.Event) bool { return e.Type == engine.EventEngineID })
	require.NotNil(t, ev.EngineIdent)
	assert.Equal(t, "Random", ev.EngineIdent.Name)
}

// TestScenarioS6RandomEngineEndToEnd covers spec scenario S6 and
// testable property 15: bestmove arrives within timeout and is a
// legal opening.
func TestScenarioS6RandomEngineEndToEnd(t *testing.T) {
	w, outbox := spawn(t)
	popUntil(t, outbox, time.Second, func(e engine.Event) bool { return e.Type == engine.EventEngineID })

	loaded := newTicTacToe(t)
	w.Inbox().Push(engine.NewGameLoadEvent(w.EngineID(), loaded))
	w.Inbox().Push(engine.NewEngineStartEvent(w.EngineID(), 50))

	ev := popUntil(t, outbox, 200*time.Millisecond, func(e engine.Event) bool { return e.Type == engine.EventEngineBestmove })
	require.NotNil(t, ev.Bestmove)

	ok, err := loaded.Game.IsLegalMove(ev.Bestmove.Player, ev.Bestmove.Move)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestProperty16StopBeforeTimeoutStillYieldsBestmove covers testable
// property 16.
func TestProperty16StopBeforeTimeoutStillYieldsBestmove(t *testing.T) {
	w, outbox := spawn(t)
	popUntil(t, outbox, time.Second, func(e engine.Event) bool { return e.Type == engine.EventEngineID })

	loaded := newTicTacToe(t)
	w.Inbox().Push(engine.NewGameLoadEvent(w.EngineID(), loaded))
	w.Inbox().Push(engine.NewEngineStartEvent(w.EngineID(), 5000))
	w.Inbox().Push(engine.NewEngineStopEvent(w.EngineID()))

	popUntil(t, outbox, time.Second, func(e engine.Event) bool { return e.Type == engine.EventEngineBestmove })

	w.Inbox().Push(engine.NewGameUnloadEvent(w.EngineID()))
	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, w.LoadedGame())
}

// TestProperty17HeartbeatAnsweredWhileIdle covers testable property
// 17: a heartbeat is answered within bounded delay, even with no
// search running.
func TestProperty17HeartbeatAnsweredWhileIdle(t *testing.T) {
	w, outbox := spawn(t)
	popUntil(t, outbox, time.Second, func(e engine.Event) bool { return e.Type == engine.EventEngineID })

	w.Inbox().Push(engine.NewHeartbeatEvent(w.EngineID(), 99))
	assert.True(t, engine.WaitHeartbeat(outbox, 99, time.Second))
}

// TestProperty18ExitElicitsFinalExit covers testable property 18.
func TestProperty18ExitElicitsFinalExit(t *testing.T) {
	outbox := engine.NewQueue()
	w, err := engine.Spawn(randomengine.Methods, 1, outbox, config.FastEngineConfig(), nil)
	require.NoError(t, err)
	popUntil(t, outbox, time.Second, func(e engine.Event) bool { return e.Type == engine.EventEngineID })

	w.RequestExit()
	<-w.Done()

	ev := popUntil(t, outbox, time.Second, func(e engine.Event) bool { return e.Type == engine.EventExit })
	assert.Equal(t, engine.EventExit, ev.Type)
}

// TestIsGameCompatibleRejectsHiddenInformation covers is_game_compatible
// rejecting rock-paper-scissors (a simultaneous, hidden-information
// game randomengine has no sound way to evaluate).
func TestIsGameCompatibleRejectsHiddenInformation(t *testing.T) {
	incompatible := game.FeatureSimultaneousMoves | game.FeatureHiddenInformation
	fake := &stubSimultaneousGame{features: incompatible}
	inst := game.NewInstance(game.Methods{New: func() game.Game { return fake }})
	require.NoError(t, inst.Create(game.Init{Source: game.InitSourceDefault}))

	assert.Error(t, randomengine.IsGameCompatible(inst))
}

type stubSimultaneousGame struct{ features game.Features }

func (s *stubSimultaneousGame) Name() (string, string, string) { return "stub", "", "" }
func (s *stubSimultaneousGame) Version() semverx.Version        { return semverx.Version{Major: 1} }
func (s *stubSimultaneousGame) Features() game.Features          { return s.features }
func (s *stubSimultaneousGame) Sizer() game.Sizer                 { return game.Sizer{} }
func (s *stubSimultaneousGame) Create(game.Init) error            { return nil }
func (s *stubSimultaneousGame) Destroy() error                    { return nil }
func (s *stubSimultaneousGame) Clone(game.Game) error             { return nil }
func (s *stubSimultaneousGame) CopyFrom(game.Game) error          { return nil }
func (s *stubSimultaneousGame) Compare(game.Game) (bool, error)   { return true, nil }
func (s *stubSimultaneousGame) ExportState() (string, error)      { return "", nil }
func (s *stubSimultaneousGame) ImportState(string) error          { return nil }
func (s *stubSimultaneousGame) PlayersToMove() ([]game.PlayerID, error) { return nil, nil }
func (s *stubSimultaneousGame) ConcreteMoves(game.PlayerID) ([]game.MoveCode, error) {
	return nil, nil
}
func (s *stubSimultaneousGame) IsLegalMove(game.PlayerID, game.MoveCode) (bool, error) {
	return false, nil
}
func (s *stubSimultaneousGame) MakeMove(game.PlayerID, game.MoveCode) error { return nil }
func (s *stubSimultaneousGame) Results() ([]game.PlayerID, error)           { return nil, nil }
func (s *stubSimultaneousGame) MoveCodeFromString(game.PlayerID, string) (game.MoveCode, error) {
	return game.MoveNone, nil
}
func (s *stubSimultaneousGame) MoveString(game.PlayerID, game.MoveCode) (string, error) {
	return "", nil
}
