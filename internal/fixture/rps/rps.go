// Package rps is a reference game.Game implementing simultaneous,
// hidden-information rock-paper-scissors, ported from
// original_source's rockpaperscissors.cpp/rockpaperscissors.h. It
// exercises the ActionGame/SyncDataGame optional interfaces no
// sequential game needs.
package rps

import (
	"math/rand"

	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/errcode"
	"github.com/go-surena/surena/internal/semverx"
)

type choice uint8

const (
	choiceNone choice = iota
	choiceAny
	choiceRock
	choicePaper
	choiceScissor
)

// Game tracks each player's accumulated choice (or "undecided"/"any"
// before discretization) plus the resolved result once both players
// have committed to a concrete choice.
type Game struct {
	acc    [2]choice
	done   bool
	result game.PlayerID
}

func New() game.Game { return &Game{} }

func (g *Game) Name() (string, string, string) { return "rockpaperscissors", "", "ref" }
func (g *Game) Version() semverx.Version        { return semverx.Version{Major: 1} }
func (g *Game) Features() game.Features {
	return game.FeatureSimultaneousMoves | game.FeatureHiddenInformation | game.FeaturePrint
}
func (g *Game) Sizer() game.Sizer {
	return game.Sizer{
		StateStr:         3,
		PlayerCount:      2,
		MaxPlayersToMove: 2,
		MaxMoves:         3,
		MaxActions:       1,
		MaxResults:       1,
		MoveStr:          1,
		PrintStr:         3,
	}
}

func (g *Game) Create(init game.Init) error {
	*g = Game{}
	if init.Source == game.InitSourceStandard && init.State != nil {
		return g.ImportState(*init.State)
	}
	return nil
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

// ExportState renders each player's choice as "<p1>-<p2>": '-'
// undecided, '*' for any committed choice while the round is not yet
// resolved, and 'R'/'P'/'S' once both players have committed.
func (g *Game) ExportState() (string, error) {
	return string([]byte{choiceChar(g, 0), '-', choiceChar(g, 1)}), nil
}

func choiceChar(g *Game, idx int) byte {
	c := g.acc[idx]
	if !g.done && c != choiceNone {
		c = choiceAny
	}
	switch c {
	case choiceNone:
		return '-'
	case choiceAny:
		return '*'
	case choiceRock:
		return 'R'
	case choicePaper:
		return 'P'
	case choiceScissor:
		return 'S'
	default:
		return '-'
	}
}

func (g *Game) ImportState(str string) error {
	if str == "" {
		*g = Game{}
		return nil
	}
	if len(str) != 3 || str[1] != '-' {
		return errcode.New(errcode.InvalidInput)
	}
	var acc [2]choice
	for i, idx := range []int{0, 2} {
		c, err := choiceFromChar(str[idx])
		if err != nil {
			return err
		}
		acc[i] = c
	}
	g.acc = acc
	return g.calcDone()
}

func choiceFromChar(c byte) (choice, error) {
	switch c {
	case '-':
		return choiceNone, nil
	case '*':
		return choiceAny, nil
	case 'R':
		return choiceRock, nil
	case 'P':
		return choicePaper, nil
	case 'S':
		return choiceScissor, nil
	default:
		return choiceNone, errcode.New(errcode.InvalidInput)
	}
}

func (g *Game) PlayersToMove() ([]game.PlayerID, error) {
	if g.done {
		return nil, nil
	}
	var players []game.PlayerID
	for i, c := range g.acc {
		if c == choiceNone {
			players = append(players, game.PlayerID(i+1))
		}
	}
	return players, nil
}

// ConcreteMoves always offers rock/paper/scissor, independent of
// whether player has already committed a choice this round;
// IsLegalMove is what rejects a second move from the same player.
func (g *Game) ConcreteMoves(_ game.PlayerID) ([]game.MoveCode, error) {
	return []game.MoveCode{game.MoveCode(choiceRock), game.MoveCode(choicePaper), game.MoveCode(choiceScissor)}, nil
}

func (g *Game) IsLegalMove(player game.PlayerID, move game.MoveCode) (bool, error) {
	if player < 1 || player > 2 {
		return false, nil
	}
	if g.done || g.acc[player-1] != choiceNone {
		return false, nil
	}
	c := choice(move)
	return c == choiceRock || c == choicePaper || c == choiceScissor, nil
}

func (g *Game) MakeMove(player game.PlayerID, move game.MoveCode) error {
	ok, err := g.IsLegalMove(player, move)
	if err != nil {
		return err
	}
	if !ok {
		return errcode.New(errcode.InvalidMove)
	}
	g.acc[player-1] = choice(move)
	return g.calcDone()
}

func (g *Game) calcDone() error {
	if g.acc[0] == choiceNone || g.acc[0] == choiceAny || g.acc[1] == choiceNone || g.acc[1] == choiceAny {
		g.done = false
		g.result = game.PlayerNone
		return nil
	}
	g.done = true
	if g.acc[0] == g.acc[1] {
		g.result = game.PlayerNone
		return nil
	}
	g.result = beats(g.acc[0], g.acc[1])
	return nil
}

// beats reports who wins when player 1 plays a against player 2's b,
// assuming a != b.
func beats(a, b choice) game.PlayerID {
	switch a {
	case choiceRock:
		if b == choicePaper {
			return 2
		}
		return 1
	case choicePaper:
		if b == choiceScissor {
			return 2
		}
		return 1
	case choiceScissor:
		if b == choiceRock {
			return 2
		}
		return 1
	default:
		return game.PlayerNone
	}
}

func (g *Game) Results() ([]game.PlayerID, error) {
	if g.result == game.PlayerNone {
		return nil, nil
	}
	return []game.PlayerID{g.result}, nil
}

func (g *Game) MoveCodeFromString(_ game.PlayerID, str string) (game.MoveCode, error) {
	if len(str) != 1 {
		return game.MoveNone, nil
	}
	c, err := choiceFromChar(str[0])
	if err != nil || c == choiceNone {
		return game.MoveNone, nil
	}
	return game.MoveCode(c), nil
}

func (g *Game) MoveString(_ game.PlayerID, move game.MoveCode) (string, error) {
	return string(choiceChar(&Game{acc: [2]choice{choice(move), choiceNone}, done: true}, 0)), nil
}

// Actions satisfies game.ActionGame: every concrete choice projects
// to the single hidden action ANY.
func (g *Game) Actions(_ game.PlayerID) ([]game.MoveCode, error) {
	return []game.MoveCode{game.MoveCode(choiceAny)}, nil
}

func (g *Game) MoveToAction(_ game.MoveCode) (game.Action, error) {
	return game.MoveCode(choiceAny), nil
}

func (g *Game) IsAction(move game.MoveCode) (bool, error) {
	return choice(move) == choiceAny, nil
}

// Discretize resolves every ANY-accumulator slot to a concrete,
// seed-derived choice, the way an information-set sampler would
// before evaluating a node.
func (g *Game) Discretize(seed uint64) error {
	rng := rand.New(rand.NewSource(int64(seed)))
	for i, c := range g.acc {
		if c == choiceAny {
			g.acc[i] = choiceRock + choice(rng.Intn(3))
		}
	}
	return g.calcDone()
}

// RedactKeepState hides every player not in keep by setting their
// slot to ANY, whether or not they have committed yet, once the round
// isn't already resolved.
func (g *Game) RedactKeepState(keep []game.PlayerID) error {
	if g.done {
		return nil
	}
	keepSet := map[game.PlayerID]bool{}
	for _, p := range keep {
		keepSet[p] = true
	}
	for i := range g.acc {
		p := game.PlayerID(i + 1)
		if !keepSet[p] {
			g.acc[i] = choiceAny
		}
	}
	return nil
}

// ExportSyncData satisfies game.SyncDataGame: once the round is
// resolved, exports both players' choices as one 2-byte segment
// targeting both of them.
func (g *Game) ExportSyncData() ([]game.SyncData, error) {
	if !g.done {
		return nil, nil
	}
	return []game.SyncData{{
		Players: []game.PlayerID{1, 2},
		Blob:    []byte{byte(g.acc[0]), byte(g.acc[1])},
	}}, nil
}

func (g *Game) ImportSyncData(data []byte) error {
	if len(data) != 2 {
		return errcode.New(errcode.InvalidInput)
	}
	g.acc[0] = choice(data[0])
	g.acc[1] = choice(data[1])
	return g.calcDone()
}

// Print satisfies game.Printer.
func (g *Game) Print() (string, error) {
	return string([]byte{choiceChar(g, 0), choiceChar(g, 1)}), nil
}

// Methods is the vtable a host registers to play rock-paper-scissors.
var Methods = game.Methods{
	GameName: "rockpaperscissors",
	ImplName: "ref",
	Version:  semverx.Version{Major: 1},
	New:      New,
}
