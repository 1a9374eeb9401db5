package engine

import "github.com/go-surena/surena/game"

// SearchInfoFlags marks which fields of a SearchInfo are populated,
// the same "flag bit gates a value" idiom Features uses for an
// Instance's optional methods (original_source's
// EE_SEARCHINFO_FLAG_*).
type SearchInfoFlags uint32

const (
	SearchInfoTime SearchInfoFlags = 1 << iota
	SearchInfoDepth
	SearchInfoSelDepth
	SearchInfoScore
	SearchInfoNodes
	SearchInfoNps
	SearchInfoHashfull
	SearchInfoPV
	SearchInfoString
)

// SearchInfo is a periodic progress report a Searcher pushes through
// its outbox while Start is running.
type SearchInfo struct {
	Flags SearchInfoFlags

	TimeMS     uint64
	Depth      uint32
	SelDepth   uint32
	Score      float32
	Nodes      uint64
	Nps        uint64
	HashfullPM uint32 // parts per mille, matching original_source's permille unit
	PV         []game.MoveCode
	String     string
}

// Has reports whether every bit in want is set.
func (f SearchInfoFlags) Has(want SearchInfoFlags) bool {
	return f&want == want
}
