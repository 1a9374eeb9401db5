// Package randomengine is a reference engine.Searcher that picks a
// uniformly random legal move for whichever player is to move,
// ported from original_source's randomengine.cpp. It rejects any
// game with random, hidden, or simultaneous-move features, the same
// restriction _is_game_compatible enforces there: a deterministic
// chooser has nothing sound to say about a position it cannot fully
// see.
package randomengine

import (
	"math/rand"
	"strconv"
	"sync/atomic"

	"github.com/go-surena/surena/engine"
	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/clock"
	"github.com/go-surena/surena/internal/errcode"
	"github.com/go-surena/surena/internal/semverx"
)

const defaultSeed = 42

// Searcher is the random move chooser. It never actually runs in the
// background: Start resolves synchronously and returns once the
// bestmove event has been pushed, mirroring _engine_loop's
// EE_TYPE_ENGINE_START handling resolving within the same switch
// case.
type Searcher struct {
	seed    int64
	counter uint64
}

func New() engine.Searcher {
	return &Searcher{seed: defaultSeed}
}

func (s *Searcher) Identify() (name, author string) { return "Random", "surena_default" }

func (s *Searcher) DefaultOptions() []engine.Option {
	return []engine.Option{
		{Name: "rng seed", Type: engine.OptionSpin, SpinDefault: defaultSeed, SpinMin: 0, SpinMax: (1 << 62)},
	}
}

func (s *Searcher) SetOption(name, value string) error {
	if name != "rng seed" {
		return nil
	}
	seed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return errcode.Newf(errcode.InvalidOptions, "rng seed: %v", err)
	}
	s.seed = seed
	return nil
}

// Start pushes a "search started" log, then immediately resolves a
// uniformly random legal move among the concrete moves of the first
// player to move and pushes the bestmove.
func (s *Searcher) Start(loaded *game.Instance, timeout engine.TimeoutSpec, push func(engine.Event)) error {
	sw := clock.NewStopwatch()
	push(engine.NewLogEvent(0, errcode.OK, "search started"))

	toMove, err := loaded.Game.PlayersToMove()
	if err != nil {
		return err
	}
	if len(toMove) == 0 {
		push(engine.NewLogEvent(0, errcode.InvalidInput, "no bestmove available on finished game"))
		return nil
	}
	player := toMove[0]

	moves, err := loaded.Game.ConcreteMoves(player)
	if err != nil {
		return err
	}

	push(engine.NewSearchInfoEvent(0, engine.SearchInfo{
		Flags:  engine.SearchInfoDepth | engine.SearchInfoNodes | engine.SearchInfoTime,
		Depth:  uint32(len(toMove)),
		Nodes:  uint64(len(moves)),
		TimeMS: uint64(sw.Elapsed().Milliseconds()),
	}))

	idx := s.nextIndex(len(moves))
	push(engine.NewBestmoveEvent(0, player, moves[idx]))
	return nil
}

// nextIndex derives a deterministic pseudo-random index from the
// Searcher's seed and a monotonically advancing counter, the Go
// stand-in for squirrelnoise5(counter, seed).
func (s *Searcher) nextIndex(n int) int {
	counter := atomic.AddUint64(&s.counter, 1)
	rng := rand.New(rand.NewSource(s.seed ^ int64(counter)))
	return rng.Intn(n)
}

// Stop is a no-op: Start always resolves before returning, so there
// is never a running search to cancel.
func (s *Searcher) Stop() {}

// Tick is a no-op: randomengine has no periodic progress to report
// between moves.
func (s *Searcher) Tick(push func(engine.Event)) {}

// IsGameCompatible rejects any game whose outcome a random chooser
// cannot evaluate without also modeling chance, hidden state, or
// simultaneous commitment.
func IsGameCompatible(g *game.Instance) error {
	incompatible := game.FeatureRandomMoves | game.FeatureHiddenInformation | game.FeatureSimultaneousMoves
	if g.Game.Features()&incompatible != 0 {
		return errcode.New(errcode.InvalidInput)
	}
	return nil
}

// Methods is the vtable a host registers to play against randomengine.
var Methods = engine.Methods{
	Name:             "randomengine",
	Version:          semverx.Version{Major: 1},
	Features:         engine.FeatureOptions,
	New:              New,
	IsGameCompatible: IsGameCompatible,
}
