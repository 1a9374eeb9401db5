// Package tictactoe is a reference game.Game implementation used to
// exercise the game-contract testable properties: a complete-
// information, perfect two-player game with no hidden state, ported
// from original_source's tictactoe.cpp/tictactoe.h.
package tictactoe

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/errcode"
	"github.com/go-surena/surena/internal/semverx"
	"github.com/go-surena/surena/serialize"
)

const (
	playerX game.PlayerID = 1
	playerO game.PlayerID = 2
)

// Game is a 3x3 tic-tac-toe board. Cells are indexed row-major with
// y growing up from the bottom row (index 0), matching
// tictactoe.h's "x grows right, y grows up" comment.
type Game struct {
	cells   [9]game.PlayerID
	current game.PlayerID
	result  game.PlayerID
}

func cellIndex(x, y int) int { return y*3 + x }

func New() game.Game { return &Game{} }

func (g *Game) Name() (string, string, string) { return "tictactoe", "", "ref" }
func (g *Game) Version() semverx.Version        { return semverx.Version{Major: 1} }
func (g *Game) Features() game.Features {
	return game.FeatureSerializable | game.FeatureID | game.FeaturePlayout | game.FeaturePrint
}
func (g *Game) Sizer() game.Sizer {
	return game.Sizer{
		SerializationSize: 11,
		StateStr:          20,
		PlayerCount:       2,
		MaxPlayersToMove:  1,
		MaxMoves:          9,
		MaxResults:        1,
		MoveStr:           2,
		PrintStr:          12,
	}
}

func (g *Game) Create(init game.Init) error {
	switch init.Source {
	case game.InitSourceDefault:
		*g = Game{current: playerX}
		return nil
	case game.InitSourceStandard:
		*g = Game{current: playerX}
		if init.State != nil {
			return g.ImportState(*init.State)
		}
		return nil
	case game.InitSourceSerialized:
		return g.importSerialized(init.Serialized)
	default:
		return errcode.New(errcode.InvalidInput)
	}
}

func (g *Game) Destroy() error { return nil }

func (g *Game) Clone(target game.Game) error {
	t, ok := target.(*Game)
	if !ok {
		return errcode.New(errcode.InvalidInput)
	}
	*t = *g
	return nil
}

func (g *Game) CopyFrom(other game.Game) error {
	o, ok := other.(*Game)
	if !ok {
		return errcode.New(errcode.InvalidInput)
	}
	*g = *o
	return nil
}

func (g *Game) Compare(other game.Game) (bool, error) {
	o, ok := other.(*Game)
	if !ok {
		return false, errcode.New(errcode.InvalidInput)
	}
	return *g == *o, nil
}

func (g *Game) ExportState() (string, error) {
	var b strings.Builder
	for y := 2; y >= 0; y-- {
		empty := 0
		for x := 0; x < 3; x++ {
			p := g.cells[cellIndex(x, y)]
			if p == game.PlayerNone {
				empty++
				continue
			}
			if empty > 0 {
				fmt.Fprintf(&b, "%d", empty)
				empty = 0
			}
			b.WriteByte(playerChar(p))
		}
		if empty > 0 {
			fmt.Fprintf(&b, "%d", empty)
		}
		if y > 0 {
			b.WriteByte('/')
		}
	}
	b.WriteByte(' ')
	b.WriteByte(playerCharOrDash(g.current))
	b.WriteByte(' ')
	b.WriteByte(playerCharOrDash(g.result))
	return b.String(), nil
}

func (g *Game) ImportState(str string) error {
	if str == "" {
		*g = Game{current: playerX}
		return nil
	}
	cells := [9]game.PlayerID{}
	x, y := 0, 2
	i := 0
	for ; i < len(str); i++ {
		c := str[i]
		switch {
		case c == 'X' || c == 'O':
			if x > 2 || y < 0 {
				return errcode.New(errcode.InvalidInput)
			}
			cells[cellIndex(x, y)] = playerFromChar(c)
			x++
		case c >= '1' && c <= '3':
			n := int(c - '0')
			for ; n > 0; n-- {
				if x > 2 {
					return errcode.New(errcode.InvalidInput)
				}
				cells[cellIndex(x, y)] = game.PlayerNone
				x++
			}
		case c == '/':
			y--
			x = 0
		case c == ' ':
			i++
			goto parsedBoard
		default:
			return errcode.New(errcode.InvalidInput)
		}
	}
	return errcode.New(errcode.InvalidInput)

parsedBoard:
	if i >= len(str) {
		return errcode.New(errcode.InvalidInput)
	}
	current, n, err := parsePlayerOrDash(str[i:])
	if err != nil {
		return err
	}
	i += n
	if i >= len(str) || str[i] != ' ' {
		return errcode.New(errcode.InvalidInput)
	}
	i++
	result, _, err := parsePlayerOrDash(str[i:])
	if err != nil {
		return err
	}

	g.cells = cells
	g.current = current
	g.result = result
	return nil
}

func parsePlayerOrDash(s string) (game.PlayerID, int, error) {
	if len(s) == 0 {
		return game.PlayerNone, 0, errcode.New(errcode.InvalidInput)
	}
	switch s[0] {
	case '-':
		return game.PlayerNone, 1, nil
	case 'X':
		return playerX, 1, nil
	case 'O':
		return playerO, 1, nil
	default:
		return game.PlayerNone, 0, errcode.New(errcode.InvalidInput)
	}
}

func (g *Game) PlayersToMove() ([]game.PlayerID, error) {
	if g.current == game.PlayerNone {
		return nil, nil
	}
	return []game.PlayerID{g.current}, nil
}

func (g *Game) ConcreteMoves(player game.PlayerID) ([]game.MoveCode, error) {
	if g.current == game.PlayerNone || player != g.current {
		return nil, nil
	}
	var moves []game.MoveCode
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if g.cells[cellIndex(x, y)] == game.PlayerNone {
				moves = append(moves, encodeMove(x, y))
			}
		}
	}
	return moves, nil
}

func (g *Game) IsLegalMove(player game.PlayerID, move game.MoveCode) (bool, error) {
	if move == game.MoveNone || g.current == game.PlayerNone || player != g.current {
		return false, nil
	}
	x, y := decodeMove(move)
	if x > 2 || y > 2 {
		return false, nil
	}
	return g.cells[cellIndex(x, y)] == game.PlayerNone, nil
}

func (g *Game) MakeMove(player game.PlayerID, move game.MoveCode) error {
	ok, err := g.IsLegalMove(player, move)
	if err != nil {
		return err
	}
	if !ok {
		return errcode.New(errcode.InvalidMove)
	}
	x, y := decodeMove(move)
	g.cells[cellIndex(x, y)] = g.current

	if g.hasLine(g.current) {
		g.result = g.current
		g.current = game.PlayerNone
		return nil
	}
	if g.isFull() {
		g.current = game.PlayerNone
		return nil
	}
	if g.current == playerX {
		g.current = playerO
	} else {
		g.current = playerX
	}
	return nil
}

func (g *Game) hasLine(p game.PlayerID) bool {
	lines := [8][3]int{
		{cellIndex(0, 0), cellIndex(1, 0), cellIndex(2, 0)},
		{cellIndex(0, 1), cellIndex(1, 1), cellIndex(2, 1)},
		{cellIndex(0, 2), cellIndex(1, 2), cellIndex(2, 2)},
		{cellIndex(0, 0), cellIndex(0, 1), cellIndex(0, 2)},
		{cellIndex(1, 0), cellIndex(1, 1), cellIndex(1, 2)},
		{cellIndex(2, 0), cellIndex(2, 1), cellIndex(2, 2)},
		{cellIndex(0, 0), cellIndex(1, 1), cellIndex(2, 2)},
		{cellIndex(0, 2), cellIndex(1, 1), cellIndex(2, 0)},
	}
	for _, l := range lines {
		if g.cells[l[0]] == p && g.cells[l[1]] == p && g.cells[l[2]] == p {
			return true
		}
	}
	return false
}

func (g *Game) isFull() bool {
	for _, c := range g.cells {
		if c == game.PlayerNone {
			return false
		}
	}
	return true
}

func (g *Game) Results() ([]game.PlayerID, error) {
	if g.result == game.PlayerNone {
		return nil, nil
	}
	return []game.PlayerID{g.result}, nil
}

func (g *Game) MoveCodeFromString(_ game.PlayerID, str string) (game.MoveCode, error) {
	if str == "-" || len(str) != 2 {
		return game.MoveNone, nil
	}
	x := int(str[0] - 'a')
	y := int(str[1] - '0')
	if x < 0 || x > 2 || y < 0 || y > 2 {
		return game.MoveNone, nil
	}
	return encodeMove(x, y), nil
}

func (g *Game) MoveString(_ game.PlayerID, move game.MoveCode) (string, error) {
	if move == game.MoveNone {
		return "-", nil
	}
	x, y := decodeMove(move)
	return fmt.Sprintf("%c%c", 'a'+x, '0'+y), nil
}

func encodeMove(x, y int) game.MoveCode { return game.MoveCode((y << 2) | x) }
func decodeMove(m game.MoveCode) (x, y int) {
	return int(m) & 0b11, int(m>>2) & 0b11
}

func playerChar(p game.PlayerID) byte {
	if p == playerX {
		return 'X'
	}
	return 'O'
}

func playerCharOrDash(p game.PlayerID) byte {
	switch p {
	case playerX:
		return 'X'
	case playerO:
		return 'O'
	default:
		return '-'
	}
}

func playerFromChar(c byte) game.PlayerID {
	if c == 'X' {
		return playerX
	}
	return playerO
}

// wireCellsLayout is the serialize.Layout backing Serialize/
// importSerialized: 9 board cells plus current player plus result,
// one byte each.
var wireCellsLayout = serialize.Layout{
	{Name: "Cells", Kind: serialize.KindU8, Array: true, FieldIndex: []int{0}, Len: serialize.LengthSpec{Immediate: 9}},
	{Name: "Current", Kind: serialize.KindU8, FieldIndex: []int{1}},
	{Name: "Result", Kind: serialize.KindU8, FieldIndex: []int{2}},
}

type wireState struct {
	Cells   [9]uint8
	Current uint8
	Result  uint8
}

// Serialize satisfies game.Serializer (FeatureSerializable).
func (g *Game) Serialize() ([]byte, error) {
	ws := wireState{Current: uint8(g.current), Result: uint8(g.result)}
	for i, c := range g.cells {
		ws.Cells[i] = uint8(c)
	}
	return serialize.Serialize(wireCellsLayout, &ws)
}

func (g *Game) importSerialized(buf []byte) error {
	var ws wireState
	if _, err := serialize.Deserialize(wireCellsLayout, &ws, buf); err != nil {
		return err
	}
	for i, c := range ws.Cells {
		g.cells[i] = game.PlayerID(c)
	}
	g.current = game.PlayerID(ws.Current)
	g.result = game.PlayerID(ws.Result)
	return nil
}

// ID satisfies game.Identifier (FeatureID): a commutative hash since
// a board's final cell contents already don't depend on the order
// moves were played in, only their positions.
func (g *Game) ID() (uint64, error) {
	var h uint64 = 1469598103934665603 // FNV-1a offset basis
	const prime uint64 = 1099511628211
	for i, c := range g.cells {
		h ^= uint64(i)<<8 | uint64(c)
		h *= prime
	}
	h ^= uint64(g.current)
	h *= prime
	h ^= uint64(g.result) << 8
	h *= prime
	return h, nil
}

// Playout satisfies game.Playout (FeaturePlayout): play to completion
// picking uniformly among legal moves each turn.
func (g *Game) Playout(seed uint64) error {
	rng := rand.New(rand.NewSource(int64(seed)))
	for {
		moves, err := g.ConcreteMoves(g.current)
		if err != nil {
			return err
		}
		if len(moves) == 0 {
			return nil
		}
		move := moves[rng.Intn(len(moves))]
		if err := g.MakeMove(g.current, move); err != nil {
			return err
		}
	}
}

// Print satisfies game.Printer (FeaturePrint).
func (g *Game) Print() (string, error) {
	var b strings.Builder
	for y := 2; y >= 0; y-- {
		for x := 0; x < 3; x++ {
			switch g.cells[cellIndex(x, y)] {
			case playerX:
				b.WriteByte('X')
			case playerO:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// InternalMethods is the board-aware extension point
// internal/fixture/tictactoe exposes through game.Methods.Internal,
// the Go equivalent of tictactoe.h's tictactoe_internal_methods
// function-pointer table: every entry type-asserts its game.Game
// argument to *Game.
type InternalMethods struct {
	GetCell          func(g game.Game, x, y int) (game.PlayerID, error)
	SetCell          func(g game.Game, x, y int, p game.PlayerID) error
	SetCurrentPlayer func(g game.Game, p game.PlayerID) error
	SetResult        func(g game.Game, p game.PlayerID) error
}

// Internal is the package-level internal-methods vtable, set as
// Methods.Internal below.
var Internal = InternalMethods{
	GetCell: func(gg game.Game, x, y int) (game.PlayerID, error) {
		t, ok := gg.(*Game)
		if !ok {
			return game.PlayerNone, errcode.New(errcode.InvalidInput)
		}
		if x < 0 || x > 2 || y < 0 || y > 2 {
			return game.PlayerNone, errcode.New(errcode.InvalidInput)
		}
		return t.cells[cellIndex(x, y)], nil
	},
	SetCell: func(gg game.Game, x, y int, p game.PlayerID) error {
		t, ok := gg.(*Game)
		if !ok {
			return errcode.New(errcode.InvalidInput)
		}
		if x < 0 || x > 2 || y < 0 || y > 2 {
			return errcode.New(errcode.InvalidInput)
		}
		t.cells[cellIndex(x, y)] = p
		return nil
	},
	SetCurrentPlayer: func(gg game.Game, p game.PlayerID) error {
		t, ok := gg.(*Game)
		if !ok {
			return errcode.New(errcode.InvalidInput)
		}
		t.current = p
		return nil
	},
	SetResult: func(gg game.Game, p game.PlayerID) error {
		t, ok := gg.(*Game)
		if !ok {
			return errcode.New(errcode.InvalidInput)
		}
		t.result = p
		return nil
	},
}

// Methods is the vtable a host registers to play tic-tac-toe.
var Methods = game.Methods{
	GameName: "tictactoe",
	ImplName: "ref",
	Version:  semverx.Version{Major: 1},
	New:      New,
	Internal: Internal,
}
