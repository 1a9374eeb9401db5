package engine

import (
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-surena/surena/config"
	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/errcode"
	"github.com/go-surena/surena/logging"
)

// Worker runs one engine.Searcher against a stream of inbox Events,
// generalizing randomengine.cpp's _engine_loop: it handles every
// game-lifecycle event (load/unload/state/move/sync) itself and
// delegates engine-policy events (option/start/stop/tick) to the
// Searcher, the same split bollywood's process draws between system
// messages (Started/Stopping/Stopped) and user messages handed to
// Actor.Receive.
type Worker struct {
	methods  Methods
	searcher Searcher
	engineID uint32
	cfg      config.EngineConfig
	log      *logging.Logger

	inbox  *Queue
	outbox *Queue

	mu      sync.Mutex
	loaded  *game.Instance
	started atomic.Bool

	done     chan struct{}
	exitOnce sync.Once
}

// Spawn constructs a Searcher from methods.New, starts its run loop on
// a new goroutine, and returns the Worker handle. outbox receives
// every Event the Worker or its Searcher produces (EngineID on
// startup, SearchInfo/Bestmove during a search, Log on error).
func Spawn(methods Methods, engineID uint32, outbox *Queue, cfg config.EngineConfig, log *logging.Logger) (*Worker, error) {
	if methods.New == nil {
		return nil, errcode.New(errcode.InvalidInput)
	}
	if log == nil {
		log = logging.NewDefault("engine")
	}

	searcher := methods.New()
	if searcher == nil {
		return nil, errcode.New(errcode.InvalidState)
	}

	w := &Worker{
		methods:  methods,
		searcher: searcher,
		engineID: engineID,
		cfg:      cfg,
		log:      log,
		inbox:    NewQueue(),
		outbox:   outbox,
		done:     make(chan struct{}),
	}

	name, author := searcher.Identify()
	w.outbox.Push(NewEngineIDEvent(engineID, name, author))

	go w.run()
	return w, nil
}

// Inbox returns the Queue a host pushes Events onto to drive this
// worker.
func (w *Worker) Inbox() *Queue { return w.inbox }

// EngineID returns the id this worker was spawned with.
func (w *Worker) EngineID() uint32 { return w.engineID }

// Done is closed once the worker's run loop has exited.
func (w *Worker) Done() <-chan struct{} { return w.done }

// LoadedGame returns the currently loaded game.Instance, or nil if
// none is loaded.
func (w *Worker) LoadedGame() *game.Instance {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// RequestExit pushes an EventExit and returns without waiting; use
// Done to observe completion.
func (w *Worker) RequestExit() {
	w.inbox.Push(NewExitEvent(w.engineID))
}

// Destroy requests exit, waits for the run loop to finish, and
// releases the inbox. It is idempotent and safe to call without a
// prior RequestExit.
func (w *Worker) Destroy() {
	w.exitOnce.Do(func() {
		w.inbox.Push(NewExitEvent(w.engineID))
		<-w.done
		w.inbox.Destroy()
	})
}

func (w *Worker) run() {
	defer close(w.done)
	defer w.outbox.Push(NewExitEvent(w.engineID))
	defer func() {
		if r := recover(); r != nil {
			w.logError(errcode.StateUnrecoverable, "worker panic: %v\n%s", r, debug.Stack())
		}
	}()
	defer func() {
		w.mu.Lock()
		loaded := w.loaded
		w.mu.Unlock()
		if loaded != nil {
			loaded.Destroy()
		}
	}()

	for {
		ev := w.inbox.Pop(w.cfg.PollInterval)

		switch ev.Type {
		case EventNull:
			w.searcher.Tick(w.pushOutbox)

		case EventExit:
			if w.started.Load() {
				w.searcher.Stop()
			}
			return

		case EventHeartbeat:
			w.outbox.Push(ev)

		case EventGameLoad:
			w.handleGameLoad(ev.GameLoad)

		case EventGameUnload:
			w.handleGameUnload()

		case EventGameState:
			w.handleGameState(ev.GameState)

		case EventGameMove:
			w.handleGameMove(ev.GameMove)

		case EventGameSync:
			w.handleGameSync(ev.GameSync)

		case EventEngineOption:
			w.handleOption(ev.EngineOption)

		case EventEngineStart:
			w.handleStart(ev.EngineStart)

		case EventEngineStop:
			if w.started.Load() {
				w.searcher.Stop()
			}

		default:
			w.searcher.Tick(w.pushOutbox)
		}
	}
}

func (w *Worker) pushOutbox(ev Event) {
	ev.EngineID = w.engineID
	w.outbox.Push(ev)
}

func (w *Worker) logError(code errcode.Code, format string, args ...any) {
	w.log.WithField("engine_id", w.engineID).Errorf(format, args...)
	w.pushOutbox(NewLogEvent(w.engineID, code, errcode.New(code).Error()))
}

func (w *Worker) handleGameLoad(p *GameLoadPayload) {
	if p == nil || p.Game == nil {
		w.logError(errcode.InvalidInput, "game load event missing payload")
		return
	}
	if w.methods.IsGameCompatible != nil {
		if err := w.methods.IsGameCompatible(p.Game); err != nil {
			w.logError(errcode.CodeOf(err), "incompatible game: %v", err)
			return
		}
	}
	if p.Game.Methods.New == nil {
		w.logError(errcode.InvalidInput, "game load event carries no game constructor")
		return
	}
	clone := game.NewInstance(p.Game.Methods)
	if err := clone.Create(game.Init{Source: game.InitSourceDefault}); err != nil {
		clone.Destroy()
		w.logError(errcode.CodeOf(err), "clone game: %v", err)
		return
	}
	if err := p.Game.Game.Clone(clone.Game); err != nil {
		clone.Destroy()
		w.logError(errcode.CodeOf(err), "clone game: %v", err)
		return
	}
	w.mu.Lock()
	w.loaded = clone
	w.mu.Unlock()
}

func (w *Worker) handleGameUnload() {
	w.mu.Lock()
	loaded := w.loaded
	w.loaded = nil
	w.mu.Unlock()
	if loaded != nil {
		loaded.Destroy()
	}
}

func (w *Worker) handleGameState(p *GameStatePayload) {
	loaded := w.LoadedGame()
	if p == nil || loaded == nil {
		return
	}
	if err := loaded.Game.ImportState(p.State); err != nil {
		w.logError(errcode.CodeOf(err), "import state: %v", err)
	}
}

func (w *Worker) handleGameMove(p *GameMovePayload) {
	loaded := w.LoadedGame()
	if p == nil || loaded == nil {
		return
	}
	if err := loaded.Game.MakeMove(p.Player, p.Move); err != nil {
		w.logError(errcode.CodeOf(err), "make move: %v", err)
	}
}

func (w *Worker) handleGameSync(p *GameSyncPayload) {
	loaded := w.LoadedGame()
	if p == nil || loaded == nil {
		return
	}
	sg, ok := loaded.SyncDataGame()
	if !ok {
		return
	}
	if err := sg.ImportSyncData(p.Data); err != nil {
		w.logError(errcode.CodeOf(err), "import sync data: %v", err)
	}
}

func (w *Worker) handleOption(opt *Option) {
	if opt == nil {
		return
	}
	value := opt.StringDefault
	switch opt.Type {
	case OptionCheck:
		if opt.CheckDefault {
			value = "true"
		} else {
			value = "false"
		}
	case OptionSpin:
		value = strconv.FormatInt(opt.SpinDefault, 10)
	case OptionSpind:
		value = ""
	case OptionCombo:
		value = opt.ComboDefault
	}
	if err := w.searcher.SetOption(opt.Name, value); err != nil {
		w.logError(errcode.CodeOf(err), "set option %s: %v", opt.Name, err)
	}
}

func (w *Worker) handleStart(p *EngineStartPayload) {
	loaded := w.LoadedGame()
	if loaded == nil {
		w.logError(errcode.InvalidState, "start requested with no game loaded")
		return
	}
	timeout := TimeoutSpec{}
	if p != nil {
		timeout.Duration = p.Timeout
	}
	w.started.Store(true)
	go func() {
		defer w.started.Store(false)
		if err := w.searcher.Start(loaded, timeout, w.pushOutbox); err != nil {
			w.logError(errcode.CodeOf(err), "search: %v", err)
		}
	}()
}

// WaitHeartbeat blocks on q (a worker's outbox) until a heartbeat
// reply carrying id appears, or budget elapses, for hosts that want a
// synchronous liveness check instead of polling the outbox
// themselves. Any non-matching event is dropped.
func WaitHeartbeat(q *Queue, id uint64, budget time.Duration) bool {
	deadline := time.Now().Add(budget)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		ev := q.Pop(remaining)
		if ev.Type == EventHeartbeat && ev.Heartbeat != nil && ev.Heartbeat.ID == id {
			return true
		}
		if ev.Type == EventNull {
			return false
		}
	}
}
