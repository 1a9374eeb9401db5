// Package engine implements the event-driven engine contract: a
// bounded-wait MPSC event Queue (component D), and the Methods/Worker
// pair that drives a concrete search implementation against a loaded
// game.Instance (component E).
package engine

import (
	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/errcode"
)

// EventType tags which payload field of an Event is meaningful
// (original_source's EE_TYPE enum).
type EventType uint32

const (
	EventNull EventType = iota
	EventExit
	EventLog // engine-outbound, also serves errors
	EventHeartbeat
	EventGameLoad
	EventGameUnload
	EventGameState
	EventGameMove
	EventGameSync
	EventEngineID
	EventEngineOption
	EventEngineStart
	EventEngineStop
	EventEngineSearchInfo
	EventEngineBestmove
)

// LogPayload carries an error code plus human-readable text, the
// engine-outbound channel errors travel on (EE_TYPE_LOG).
type LogPayload struct {
	Code errcode.Code
	Text string
}

// GameLoadPayload hands the worker a game.Instance to clone into its
// own loaded-game slot.
type GameLoadPayload struct {
	Game *game.Instance
}

// GameStatePayload carries a state string to import into the loaded
// game.
type GameStatePayload struct {
	State string
}

// GameMovePayload carries a move to apply to the loaded game.
type GameMovePayload struct {
	Player game.PlayerID
	Move   game.MoveCode
}

// GameSyncPayload carries a sync-data blob to import into the loaded
// game.
type GameSyncPayload struct {
	Data []byte
}

// EngineIDPayload announces the engine's name and author, emitted
// once when a worker starts.
type EngineIDPayload struct {
	Name   string
	Author string
}

// EngineStartPayload requests the engine begin searching, with an
// optional timeout (zero means no timeout).
type EngineStartPayload struct {
	Timeout uint32 // milliseconds, 0 = unbounded
}

// BestmovePayload carries the chosen move for a player, the engine's
// final answer to a search.
type BestmovePayload struct {
	Player game.PlayerID
	Move   game.MoveCode
}

// HeartbeatPayload carries an opaque id a host can match a heartbeat
// reply against its request.
type HeartbeatPayload struct {
	ID uint64
}

// Event is the Go analogue of original_source's tagged union
// engine_event: exactly one of the pointer-typed payload fields below
// is non-nil for a given Type. Ownership transfer on push/pop is
// expressed by the Queue taking an Event by value and the popper
// receiving a fresh value — there is no separate reset-to-NULL step
// because Go values aren't shared after being handed to the queue.
type Event struct {
	Type     EventType
	EngineID uint32

	Log          *LogPayload
	GameLoad     *GameLoadPayload
	GameState    *GameStatePayload
	GameMove     *GameMovePayload
	GameSync     *GameSyncPayload
	EngineIdent  *EngineIDPayload
	EngineOption *Option
	EngineStart  *EngineStartPayload
	SearchInfo   *SearchInfo
	Bestmove     *BestmovePayload
	Heartbeat    *HeartbeatPayload
}

// Destroy is a documented no-op kept for readers coming from the C
// ABI, where destroying an event released its owned buffers; Go's
// garbage collector already reclaims an Event's payload once it is
// no longer referenced.
func (e Event) Destroy() {}

func NewExitEvent(engineID uint32) Event {
	return Event{Type: EventExit, EngineID: engineID}
}

func NewLogEvent(engineID uint32, code errcode.Code, text string) Event {
	return Event{Type: EventLog, EngineID: engineID, Log: &LogPayload{Code: code, Text: text}}
}

func NewHeartbeatEvent(engineID uint32, id uint64) Event {
	return Event{Type: EventHeartbeat, EngineID: engineID, Heartbeat: &HeartbeatPayload{ID: id}}
}

func NewGameLoadEvent(engineID uint32, g *game.Instance) Event {
	return Event{Type: EventGameLoad, EngineID: engineID, GameLoad: &GameLoadPayload{Game: g}}
}

func NewGameUnloadEvent(engineID uint32) Event {
	return Event{Type: EventGameUnload, EngineID: engineID}
}

func NewGameStateEvent(engineID uint32, state string) Event {
	return Event{Type: EventGameState, EngineID: engineID, GameState: &GameStatePayload{State: state}}
}

func NewGameMoveEvent(engineID uint32, player game.PlayerID, move game.MoveCode) Event {
	return Event{Type: EventGameMove, EngineID: engineID, GameMove: &GameMovePayload{Player: player, Move: move}}
}

func NewGameSyncEvent(engineID uint32, data []byte) Event {
	return Event{Type: EventGameSync, EngineID: engineID, GameSync: &GameSyncPayload{Data: data}}
}

func NewEngineIDEvent(engineID uint32, name, author string) Event {
	return Event{Type: EventEngineID, EngineID: engineID, EngineIdent: &EngineIDPayload{Name: name, Author: author}}
}

func NewEngineOptionEvent(engineID uint32, opt Option) Event {
	return Event{Type: EventEngineOption, EngineID: engineID, EngineOption: &opt}
}

func NewEngineStartEvent(engineID uint32, timeoutMS uint32) Event {
	return Event{Type: EventEngineStart, EngineID: engineID, EngineStart: &EngineStartPayload{Timeout: timeoutMS}}
}

func NewEngineStopEvent(engineID uint32) Event {
	return Event{Type: EventEngineStop, EngineID: engineID}
}

func NewSearchInfoEvent(engineID uint32, si SearchInfo) Event {
	return Event{Type: EventEngineSearchInfo, EngineID: engineID, SearchInfo: &si}
}

func NewBestmoveEvent(engineID uint32, player game.PlayerID, move game.MoveCode) Event {
	return Event{Type: EventEngineBestmove, EngineID: engineID, Bestmove: &BestmovePayload{Player: player, Move: move}}
}
