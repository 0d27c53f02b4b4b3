package protocol

import "territory-client/network_state"

// Inbound message kinds.
const (
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgCells   = "cells"
	MsgPlayers = "players"
	MsgTrail   = "trail"
	MsgAlert   = "alert"
)

// Outbound intent kinds.
const (
	MsgMove   = "move"
	MsgRename = "rename"
)

// Message is the closed set of inbound variants. Only types in this package implement it.
type Message interface {
	Kind() string
	isMessage()
}

// Welcome bootstraps a session. Nil or absent fields keep the previous value.
type Welcome struct {
	PlayerID    *string                              `json:"player_id"`
	GridW       *int                                 `json:"grid_w"`
	GridH       *int                                 `json:"grid_h"`
	Grid        [][]string                           `json:"grid"`
	Players     map[string]network_state.PlayerPatch `json:"players"`
	Round       *int                                 `json:"round"`
	TimeLeft    *int                                 `json:"time_left"`
	Leaderboard map[string]int                       `json:"leaderboard"`
}

// State is a periodic full re-sync without identity or dimensions.
type State struct {
	Grid        [][]string                           `json:"grid"`
	Players     map[string]network_state.PlayerPatch `json:"players"`
	Round       *int                                 `json:"round"`
	TimeLeft    *int                                 `json:"time_left"`
	Leaderboard map[string]int                       `json:"leaderboard"`
}

// Cells is an incremental ownership patch.
type Cells struct {
	Cells []network_state.CellPatch `json:"cells"`
}

// Players is an incremental player attribute patch.
type Players struct {
	Players map[string]network_state.PlayerPatch `json:"players"`
}

// Trail replaces one player's trail.
type Trail struct {
	PID   string                `json:"pid"`
	Trail []network_state.Coord `json:"trail"`
}

// Alert is a transient notice for the user; it is never stored.
type Alert struct {
	Msg string `json:"msg"`
}

// Unknown carries a kind this client does not understand. It is dropped by the router.
type Unknown struct {
	Type string
}

func (Welcome) Kind() string { return MsgWelcome }
func (State) Kind() string   { return MsgState }
func (Cells) Kind() string   { return MsgCells }
func (Players) Kind() string { return MsgPlayers }
func (Trail) Kind() string   { return MsgTrail }
func (Alert) Kind() string   { return MsgAlert }
func (u Unknown) Kind() string {
	return u.Type
}

func (Welcome) isMessage() {}
func (State) isMessage()   {}
func (Cells) isMessage()   {}
func (Players) isMessage() {}
func (Trail) isMessage()   {}
func (Alert) isMessage()   {}
func (Unknown) isMessage() {}

// Move asks the server to step the local player by one cell.
type Move struct {
	Type string `json:"type"`
	DX   int    `json:"dx"`
	DY   int    `json:"dy"`
}

// Rename asks the server to change the local player's display name.
type Rename struct {
	Type string `json:"type"`
	Name string `json:"name"`
}
