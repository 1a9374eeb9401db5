package engine_test

import (
	"testing"
	"time"

	"github.com/go-surena/surena/config"
	"github.com/go-surena/surena/engine"
	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/semverx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGame is the minimal game.Game a Worker test needs: a loadable,
// always-legal single-player game.
type stubGame struct {
	state string
	moved []game.MoveCode
}

func (g *stubGame) Name() (string, string, string) { return "stub", "", "ref" }
func (g *stubGame) Version() semverx.Version        { return semverx.Version{Major: 1} }
func (g *stubGame) Features() game.Features         { return 0 }
func (g *stubGame) Sizer() game.Sizer               { return game.Sizer{PlayerCount: 1} }
func (g *stubGame) Create(game.Init) error          { return nil }
func (g *stubGame) Destroy() error                  { return nil }
func (g *stubGame) Clone(game.Game) error            { return nil }
func (g *stubGame) CopyFrom(game.Game) error         { return nil }
func (g *stubGame) Compare(game.Game) (bool, error)  { return true, nil }
func (g *stubGame) ExportState() (string, error)     { return g.state, nil }
func (g *stubGame) ImportState(s string) error        { g.state = s; return nil }
func (g *stubGame) PlayersToMove() ([]game.PlayerID, error) {
	return []game.PlayerID{1}, nil
}
func (g *stubGame) ConcreteMoves(game.PlayerID) ([]game.MoveCode, error) { return nil, nil }
func (g *stubGame) IsLegalMove(game.PlayerID, game.MoveCode) (bool, error) {
	return true, nil
}
func (g *stubGame) MakeMove(_ game.PlayerID, m game.MoveCode) error {
	g.moved = append(g.moved, m)
	return nil
}
func (g *stubGame) Results() ([]game.PlayerID, error) { return nil, nil }
func (g *stubGame) MoveCodeFromString(_ game.PlayerID, _ string) (game.MoveCode, error) {
	return game.MoveNone, nil
}
func (g *stubGame) MoveString(game.PlayerID, game.MoveCode) (string, error) { return "", nil }

func newLoadedInstance(t *testing.T) *game.Instance {
	t.Helper()
	inst := game.NewInstance(game.Methods{
		GameName: "stub",
		ImplName: "ref",
		Version:  semverx.Version{Major: 1},
		New:      func() game.Game { return &stubGame{} },
	})
	require.NoError(t, inst.Create(game.Init{Source: game.InitSourceDefault}))
	return inst
}

// stubSearcher picks the first legal move immediately on Start.
type stubSearcher struct {
	options   []engine.Option
	lastSet   map[string]string
	startedCh chan struct{}
	stopped   bool
}

func newStubSearcher() *stubSearcher {
	return &stubSearcher{lastSet: map[string]string{}, startedCh: make(chan struct{}, 1)}
}

func (s *stubSearcher) Identify() (string, string) { return "stub-engine", "tester" }
func (s *stubSearcher) DefaultOptions() []engine.Option { return s.options }
func (s *stubSearcher) SetOption(name, value string) error {
	s.lastSet[name] = value
	return nil
}
func (s *stubSearcher) Start(loaded *game.Instance, _ engine.TimeoutSpec, push func(engine.Event)) error {
	moves, err := loaded.Game.PlayersToMove()
	if err != nil || len(moves) == 0 {
		return err
	}
	select {
	case s.startedCh <- struct{}{}:
	default:
	}
	push(engine.NewBestmoveEvent(0, moves[0], game.MoveCode(1)))
	return nil
}
func (s *stubSearcher) Stop()                        { s.stopped = true }
func (s *stubSearcher) Tick(push func(engine.Event)) {}

func newTestWorker(t *testing.T, searcher *stubSearcher) (*engine.Worker, *engine.Queue) {
	t.Helper()
	outbox := engine.NewQueue()
	w, err := engine.Spawn(engine.Methods{
		Name:    "stub-engine",
		Version: semverx.Version{Major: 1},
		New:     func() engine.Searcher { return searcher },
	}, 1, outbox, config.FastEngineConfig(), nil)
	require.NoError(t, err)
	return w, outbox
}

func TestSpawnAnnouncesEngineID(t *testing.T) {
	w, outbox := newTestWorker(t, newStubSearcher())
	defer w.Destroy()

	ev := outbox.Pop(time.Second)
	require.Equal(t, engine.EventEngineID, ev.Type)
	require.NotNil(t, ev.EngineIdent)
	assert.Equal(t, "stub-engine", ev.EngineIdent.Name)
}

func TestWorkerGameLoadAndMove(t *testing.T) {
	w, outbox := newTestWorker(t, newStubSearcher())
	defer w.Destroy()
	outbox.Pop(time.Second) // drain EngineID

	inst := newLoadedInstance(t)
	w.Inbox().Push(engine.NewGameLoadEvent(1, inst))
	time.Sleep(50 * time.Millisecond)

	loaded := w.LoadedGame()
	require.NotNil(t, loaded)
	assert.NotSame(t, inst, loaded)

	w.Inbox().Push(engine.NewGameMoveEvent(1, 1, game.MoveCode(5)))
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, inst.Game.(*stubGame).moved)
	sg := loaded.Game.(*stubGame)
	require.Len(t, sg.moved, 1)
	assert.Equal(t, game.MoveCode(5), sg.moved[0])
}

func TestWorkerStartPushesBestmove(t *testing.T) {
	searcher := newStubSearcher()
	w, outbox := newTestWorker(t, searcher)
	defer w.Destroy()
	outbox.Pop(time.Second) // drain EngineID

	inst := newLoadedInstance(t)
	w.Inbox().Push(engine.NewGameLoadEvent(1, inst))
	time.Sleep(30 * time.Millisecond)

	w.Inbox().Push(engine.NewEngineStartEvent(1, 0))

	select {
	case <-searcher.startedCh:
	case <-time.After(time.Second):
		t.Fatal("search never started")
	}

	ev := outbox.Pop(time.Second)
	require.Equal(t, engine.EventEngineBestmove, ev.Type)
	require.NotNil(t, ev.Bestmove)
	assert.Equal(t, game.MoveCode(1), ev.Bestmove.Move)
}

func TestWorkerStartWithoutLoadedGameLogsError(t *testing.T) {
	w, outbox := newTestWorker(t, newStubSearcher())
	defer w.Destroy()
	outbox.Pop(time.Second) // drain EngineID

	w.Inbox().Push(engine.NewEngineStartEvent(1, 0))

	ev := outbox.Pop(time.Second)
	require.Equal(t, engine.EventLog, ev.Type)
	require.NotNil(t, ev.Log)
}

func TestWorkerOptionForwardedToSearcher(t *testing.T) {
	searcher := newStubSearcher()
	w, outbox := newTestWorker(t, searcher)
	defer w.Destroy()
	outbox.Pop(time.Second) // drain EngineID

	w.Inbox().Push(engine.NewEngineOptionEvent(1, engine.Option{
		Name: "Depth", Type: engine.OptionCombo, ComboDefault: "deep",
	}))
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, "deep", searcher.lastSet["Depth"])
}

func TestWorkerSpinOptionForwardsDecimalValue(t *testing.T) {
	searcher := newStubSearcher()
	w, outbox := newTestWorker(t, searcher)
	defer w.Destroy()
	outbox.Pop(time.Second) // drain EngineID

	w.Inbox().Push(engine.NewEngineOptionEvent(1, engine.Option{
		Name: "rng seed", Type: engine.OptionSpin, SpinDefault: 42,
	}))
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, "42", searcher.lastSet["rng seed"])
}

func TestWorkerDestroyIsIdempotentAndSignalsDone(t *testing.T) {
	searcher := newStubSearcher()
	w, _ := newTestWorker(t, searcher)

	w.Destroy()
	w.Destroy()

	select {
	case <-w.Done():
	default:
		t.Fatal("worker did not signal done")
	}
}
