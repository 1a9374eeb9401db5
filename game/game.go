// Package game defines the polymorphic two-or-more-player game
// contract: a base Game interface every concrete game implements, a
// set of optional feature interfaces gated by Features(), and a
// Methods vtable + Instance wrapper a host uses to drive an arbitrary
// game implementation without knowing its concrete type.
//
// Where original_source's game_methods is a struct of function
// pointers, some of which are only valid when a feature flag bit is
// set, this package replaces "function pointer valid iff flag set"
// with "optional interface satisfied iff flag set" — the same
// pattern io.ReaderFrom/io.WriterTo use in the standard library.
package game

import (
	"github.com/go-surena/surena/internal/errcode"
	"github.com/go-surena/surena/internal/semverx"
)

// PlayerID identifies a player at the table. PlayerNone marks no
// player; PlayerRand marks a move branch decided by chance.
type PlayerID uint8

const (
	PlayerNone PlayerID = 0x00
	PlayerRand PlayerID = 0xFF
)

// MoveCode is an opaque, game-specific encoding of a state
// transition. MoveNone marks the absence of a move.
type MoveCode uint64

const MoveNone MoveCode = ^MoveCode(0)

// Action is MoveCode used at call sites that specifically expect a
// projected action (the information-set transform of a concrete
// move) rather than a concrete move, to keep signatures
// self-documenting. The representation is identical.
type Action = MoveCode

// SeedNone marks "do not use randomness" anywhere a seed argument is
// accepted.
const SeedNone uint64 = 0

// Features is a bitset of optional game capabilities. A Game's
// Features() return value never changes across its lifetime, even if
// a feature is only exercised under specific options.
type Features uint32

const (
	FeatureErrorStrings Features = 1 << iota
	FeatureOptions
	FeatureSerializable
	FeatureLegacy
	FeatureRandomMoves
	FeatureHiddenInformation
	FeatureSimultaneousMoves
	FeatureMoveOrdering
	FeatureScores
	FeatureID
	FeatureEval
	FeaturePlayout
	FeaturePrint
)

// Has reports whether every bit in want is set in f.
func (f Features) Has(want Features) bool { return f&want == want }

// Any reports whether at least one bit of want is set in f.
func (f Features) Any(want Features) bool { return f&want != 0 }

// Sizer gives advisory buffer-size hints a host can use to pre-size
// buffers or bound loops. Go slices grow on demand, so unlike
// original_source's buf_sizer these are never a hard allocation
// ceiling; they still never shrink, and never grow mid-game except
// through an explicit resize on the concrete Game.
type Sizer struct {
	OptionsStr        int
	SerializationSize int
	StateStr          int
	PlayerCount       uint8
	MaxPlayersToMove  uint8
	MaxMoves          uint32
	MaxActions        uint32
	MaxResults        uint8
	LegacyStr         int
	MoveStr           int
	PrintStr          int
}

// InitSource selects which variant of Init is populated.
type InitSource int

const (
	InitSourceDefault InitSource = iota
	InitSourceStandard
	InitSourceSerialized
)

// Init describes how to construct a new game instance: either the
// default starting position, a standard triple of
// options/legacy/state strings (any of which may be nil to mean
// "use the default"), or a raw serialization buffer produced by a
// prior Serializer.Serialize call.
type Init struct {
	Source InitSource

	Options *string
	Legacy  *string
	State   *string

	Serialized []byte
}

// SyncData is one segment of hidden/simultaneous-move state destined
// for a specific set of players, produced by SyncDataGame.ExportSyncData
// and consumed by SyncDataGame.ImportSyncData on the receiving side.
type SyncData struct {
	Players []PlayerID
	Blob    []byte
}

// Game is the operation set every concrete game must implement
// unconditionally (spec.md's core table: Create, Destroy, Clone,
// CopyFrom, Compare, ExportState/ImportState, PlayersToMove,
// ConcreteMoves, IsLegalMove, MakeMove, Results, MoveCode/MoveString).
//
// Implementations are not required to be safe for concurrent use by
// multiple goroutines on the same instance; a host serializes access
// to one Game the way original_source requires ("threadsafe across
// multiple games, but not within one game instance").
type Game interface {
	// Name reports game/variant/impl identity and the semver this
	// implementation speaks.
	Name() (gameName, variantName, implName string)
	Version() semverx.Version
	Features() Features
	Sizer() Sizer

	// Create populates the instance from init. Create may only be
	// called once per instance; even on failure the instance must
	// still be destroyed before release or reuse.
	Create(init Init) error

	// Destroy releases any resources held. Safe to call on an
	// instance that failed Create.
	Destroy() error

	// Clone fills target with a deep, independent copy of this
	// instance's state. Undefined behaviour if target == this.
	Clone(target Game) error

	// CopyFrom deep-copies other's state into this instance. other
	// must already be created with the same options.
	CopyFrom(other Game) error

	// Compare reports whether this and other are in a behaviourally
	// identical state.
	Compare(other Game) (equal bool, err error)

	// ExportState writes a universal state string. An empty result
	// combined with a nil error means "use the default initial
	// state string".
	ExportState() (string, error)

	// ImportState loads a state from str. If str is "" the initial
	// position is loaded. Parse errors leave the instance in an
	// empty, reusable state rather than panicking.
	ImportState(str string) error

	// PlayersToMove returns the players to move from this state, or
	// PlayerRand if the branch is decided by chance, or none if the
	// game is over.
	PlayersToMove() ([]PlayerID, error)

	// ConcreteMoves returns the available moves for player from this
	// position.
	ConcreteMoves(player PlayerID) ([]MoveCode, error)

	// IsLegalMove reports whether move would be legal for player to
	// make right now.
	IsLegalMove(player PlayerID, move MoveCode) (bool, error)

	// MakeMove applies move as player. Behaviour is undefined if move
	// is not in ConcreteMoves(player) or player is not in
	// PlayersToMove().
	MakeMove(player PlayerID, move MoveCode) error

	// Results returns the winning players, or none if the game is
	// not yet over or has no winners.
	Results() ([]PlayerID, error)

	// MoveCodeFromString parses str into a move code for player
	// (PlayerNone means a universal move string). Returns MoveNone if
	// str is not a valid move here.
	MoveCodeFromString(player PlayerID, str string) (MoveCode, error)

	// MoveString renders move as a string for player (PlayerNone
	// means render a universal move string).
	MoveString(player PlayerID, move MoveCode) (string, error)
}

// OptionsExporter is satisfied by games with FeatureOptions.
type OptionsExporter interface {
	ExportOptions() (string, error)
}

// Serializer is satisfied by games with FeatureSerializable: a
// binary representation that is an absolutely accurate reproduction
// of the state (options included), driven by the serialize package.
type Serializer interface {
	Serialize() ([]byte, error)
}

// RandomMover is satisfied by games with FeatureRandomMoves.
type RandomMover interface {
	ConcreteMoveProbabilities(player PlayerID) (moves []MoveCode, probabilities []float32, err error)
}

// MoveOrderer is satisfied by games with FeatureMoveOrdering.
type MoveOrderer interface {
	ConcreteMovesOrdered(player PlayerID) ([]MoveCode, error)
}

// ActionGame is satisfied by games with any of FeatureRandomMoves,
// FeatureHiddenInformation, or FeatureSimultaneousMoves.
type ActionGame interface {
	Actions(player PlayerID) ([]MoveCode, error)
	MoveToAction(move MoveCode) (Action, error)
	IsAction(move MoveCode) (bool, error)
	Discretize(seed uint64) error
	RedactKeepState(keep []PlayerID) error
}

// SyncDataGame is satisfied by games with FeatureHiddenInformation or
// FeatureSimultaneousMoves.
type SyncDataGame interface {
	ExportSyncData() ([]SyncData, error)
	ImportSyncData(data []byte) error
}

// Legacy is satisfied by games with FeatureLegacy: a finished game
// with complete hidden information can export a legacy token usable
// to seed a future game.
type Legacy interface {
	ExportLegacy() (string, error)
}

// Scorer is satisfied by games with FeatureScores.
type Scorer interface {
	Scores() (players []PlayerID, scores []int32, err error)
}

// Identifier is satisfied by games with FeatureID: a conflict-free,
// commutative state identifier.
type Identifier interface {
	ID() (uint64, error)
}

// Evaluator is satisfied by games with FeatureEval. Evaluations are
// only meaningful from a stable position (exactly one player to
// move); evaluations taken from a position with multiple players to
// move are worthless by definition.
type Evaluator interface {
	Eval(player PlayerID) (float32, error)
}

// Playout is satisfied by games with FeaturePlayout: play the game to
// completion using the given seed to pick among available moves for
// every player.
type Playout interface {
	Playout(seed uint64) error
}

// Printer is satisfied by games with FeaturePrint: a debug rendering
// of the current state.
type Printer interface {
	Print() (string, error)
}

// Discretizer narrows ActionGame's Discretize to games that want to
// expose it without the rest of ActionGame. Instance has no accessor
// for it; callers type-assert Instance.Game directly.
type Discretizer interface {
	Discretize(seed uint64) error
}

// LastErrorer is satisfied by games with FeatureErrorStrings: a
// human-readable string complementing the most recently returned
// non-OK errcode.Error.
type LastErrorer interface {
	LastError() string
}

// ErrOf is a convenience for callers that want to compare a returned
// error's code without an explicit type assertion.
func ErrOf(err error) errcode.Code {
	return errcode.CodeOf(err)
}
