package engine

import (
	"fmt"

	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/semverx"
)

// Features is the engine-side analogue of game.Features: a bitset a
// host consults before relying on optional Searcher behavior.
type Features uint32

const (
	// FeatureOptions marks a Searcher whose DefaultOptions is
	// meaningful (some engines, like randomengine, have none).
	FeatureOptions Features = 1 << iota
	// FeatureOptionsBin marks a Searcher that accepts binary option
	// payloads in addition to the string encoding Option always
	// supports.
	FeatureOptionsBin
)

func (f Features) Has(want Features) bool { return f&want == want }

// Searcher is the policy a concrete engine implements; Worker supplies
// everything generic (game lifecycle, the event loop, heartbeats) and
// delegates engine-specific behavior to these six methods, the same
// split original_source's engine.h draws between the engine_methods
// vtable and the host-owned event loop in randomengine.cpp's
// _engine_loop.
type Searcher interface {
	// Identify returns the name and author string reported once on
	// worker startup.
	Identify() (name, author string)

	// DefaultOptions returns the option set this Searcher exposes;
	// may return nil if FeatureOptions isn't set.
	DefaultOptions() []Option

	// SetOption applies a host-provided option value, addressed by
	// name, string-encoded regardless of the option's declared Type
	// (matching original_source's single-string eoptions_set entry
	// point).
	SetOption(name, value string) error

	// Start begins searching the currently loaded game.Instance.
	// loaded is guaranteed non-nil and created. Start runs on a
	// goroutine the Worker starts for it and must return once Stop is called
	// or it decides the search is done, pushing a Bestmove event
	// through push before returning.
	Start(loaded *game.Instance, timeout TimeoutSpec, push func(Event)) error

	// Stop asks a running Start to wind down as soon as possible.
	// Safe to call when no search is running.
	Stop()

	// Tick is called once per Worker poll interval so a Searcher can
	// emit periodic SearchInfo without owning its own timer.
	Tick(push func(Event))
}

// TimeoutSpec is the budget Start receives, zero meaning unbounded.
type TimeoutSpec struct {
	Duration uint32 // milliseconds
}

// Producer constructs a fresh Searcher, the engine-side analogue of
// game.Methods.New / bollywood.Props.Produce.
type Producer func() Searcher

// IsGameCompatible reports whether a Searcher built from this Methods
// can play the given game, the engine-side mirror of
// original_source's engine_methods.is_game_compatible.
type IsGameCompatible func(*game.Instance) error

// Methods is an engine's vtable: identity plus the constructor a
// Worker calls once per Spawn.
type Methods struct {
	Name    string
	Version semverx.Version

	Features Features

	New Producer

	// IsGameCompatible rejects games the engine cannot play (e.g. an
	// engine that assumes perfect information rejecting a
	// FeatureHiddenInformation game). Nil means "compatible with
	// everything".
	IsGameCompatible IsGameCompatible

	Internal any
}

func (m Methods) Identity() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}
