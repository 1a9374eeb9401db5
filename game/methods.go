package game

import (
	"fmt"

	"github.com/go-surena/surena/internal/errcode"
	"github.com/go-surena/surena/internal/semverx"
)

// Methods is the vtable a game implementation registers, the Go
// analogue of original_source's game_methods struct. Where the C
// struct carries one function pointer per operation (valid only when
// the matching feature flag is set), a Go Methods only needs a
// producer: New returns a fresh Game, and feature-gated behaviour is
// discovered at runtime via the optional interfaces in game.go.
//
// The New field is grounded directly on bollywood.Props.Produce
// (lguibr-pongo/bollywood/engine.go) — the same "factory function
// stands in for a class" idiom, generalized from spawning actors to
// creating game instances.
type Methods struct {
	GameName    string
	VariantName string
	ImplName    string
	Version     semverx.Version

	// New constructs a fresh, uninitialized Game. Its Features() and
	// Sizer() values must be stable across every instance it
	// produces.
	New func() Game

	// Internal exposes game-specific read/write accessors a
	// board-aware caller can type-assert against (the Go stand-in
	// for original_source's untyped internal_methods pointer, e.g.
	// tictactoe.h's get_cell/set_cell). Nil if this game exposes
	// nothing beyond the Game contract.
	Internal any
}

// Identity concatenates game+variant+impl+version the way
// original_source requires identifying a unique methods set.
func (m Methods) Identity() string {
	return fmt.Sprintf("%s/%s/%s@%s", m.GameName, m.VariantName, m.ImplName, m.Version)
}

// Instance wraps a live Game together with the Methods that produced
// it and its advisory Sizer, the Go replacement for the C game
// struct's {methods, sizer, data1, data2} quartet — here ownership of
// all private state lives inside the concrete Game value, so there
// is no separate opaque data pointer to manage.
type Instance struct {
	Methods Methods
	Game    Game
	Sizer   Sizer

	created bool
}

// NewInstance produces a fresh Instance from m without creating it
// yet; call Create to bring it to a usable state.
func NewInstance(m Methods) *Instance {
	return &Instance{Methods: m, Game: m.New()}
}

// Create constructs and initializes the wrapped Game. An instance can
// only be created once; even on failure it must still be destroyed
// before release or re-creation.
func (i *Instance) Create(init Init) error {
	if i.created {
		return errcode.New(errcode.InvalidState)
	}
	if err := i.Game.Create(init); err != nil {
		i.created = true
		return err
	}
	i.Sizer = i.Game.Sizer()
	i.created = true
	return nil
}

// Destroy releases the wrapped Game's resources. Safe to call
// whether or not Create succeeded, and idempotent.
func (i *Instance) Destroy() error {
	if !i.created {
		return nil
	}
	err := i.Game.Destroy()
	i.created = false
	return err
}

// HasFeature reports whether the wrapped Game declares want.
func (i *Instance) HasFeature(want Features) bool {
	return i.Game.Features().Has(want)
}

// OptionsExporter type-asserts the wrapped Game against
// game.OptionsExporter, returning ok=false if FeatureOptions is not
// declared or the assertion fails.
func (i *Instance) OptionsExporter() (OptionsExporter, bool) {
	if !i.HasFeature(FeatureOptions) {
		return nil, false
	}
	oe, ok := i.Game.(OptionsExporter)
	return oe, ok
}

// Serializer type-asserts the wrapped Game against game.Serializer.
func (i *Instance) Serializer() (Serializer, bool) {
	if !i.HasFeature(FeatureSerializable) {
		return nil, false
	}
	s, ok := i.Game.(Serializer)
	return s, ok
}

// RandomMover type-asserts the wrapped Game against game.RandomMover.
func (i *Instance) RandomMover() (RandomMover, bool) {
	if !i.HasFeature(FeatureRandomMoves) {
		return nil, false
	}
	rm, ok := i.Game.(RandomMover)
	return rm, ok
}

// MoveOrderer type-asserts the wrapped Game against game.MoveOrderer.
func (i *Instance) MoveOrderer() (MoveOrderer, bool) {
	if !i.HasFeature(FeatureMoveOrdering) {
		return nil, false
	}
	mo, ok := i.Game.(MoveOrderer)
	return mo, ok
}

// ActionGame type-asserts the wrapped Game against game.ActionGame.
func (i *Instance) ActionGame() (ActionGame, bool) {
	if !i.Game.Features().Any(FeatureRandomMoves | FeatureHiddenInformation | FeatureSimultaneousMoves) {
		return nil, false
	}
	ag, ok := i.Game.(ActionGame)
	return ag, ok
}

// SyncDataGame type-asserts the wrapped Game against
// game.SyncDataGame.
func (i *Instance) SyncDataGame() (SyncDataGame, bool) {
	if !i.Game.Features().Any(FeatureHiddenInformation | FeatureSimultaneousMoves) {
		return nil, false
	}
	sd, ok := i.Game.(SyncDataGame)
	return sd, ok
}

// Legacy type-asserts the wrapped Game against game.Legacy.
func (i *Instance) Legacy() (Legacy, bool) {
	if !i.HasFeature(FeatureLegacy) {
		return nil, false
	}
	l, ok := i.Game.(Legacy)
	return l, ok
}

// Scorer type-asserts the wrapped Game against game.Scorer.
func (i *Instance) Scorer() (Scorer, bool) {
	if !i.HasFeature(FeatureScores) {
		return nil, false
	}
	s, ok := i.Game.(Scorer)
	return s, ok
}

// Identifier type-asserts the wrapped Game against game.Identifier.
func (i *Instance) Identifier() (Identifier, bool) {
	if !i.HasFeature(FeatureID) {
		return nil, false
	}
	id, ok := i.Game.(Identifier)
	return id, ok
}

// Evaluator type-asserts the wrapped Game against game.Evaluator.
func (i *Instance) Evaluator() (Evaluator, bool) {
	if !i.HasFeature(FeatureEval) {
		return nil, false
	}
	e, ok := i.Game.(Evaluator)
	return e, ok
}

// PlayoutGame type-asserts the wrapped Game against game.Playout.
func (i *Instance) PlayoutGame() (Playout, bool) {
	if !i.HasFeature(FeaturePlayout) {
		return nil, false
	}
	p, ok := i.Game.(Playout)
	return p, ok
}

// Printer type-asserts the wrapped Game against game.Printer.
func (i *Instance) Printer() (Printer, bool) {
	if !i.HasFeature(FeaturePrint) {
		return nil, false
	}
	p, ok := i.Game.(Printer)
	return p, ok
}

// LastErrorer type-asserts the wrapped Game against game.LastErrorer.
func (i *Instance) LastErrorer() (LastErrorer, bool) {
	if !i.HasFeature(FeatureErrorStrings) {
		return nil, false
	}
	le, ok := i.Game.(LastErrorer)
	return le, ok
}
