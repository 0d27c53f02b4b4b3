package session

import (
	"log"
	"maps"

	"territory-client/network_state"
	"territory-client/protocol"
)

// Notifier receives transient alerts. Alerts are never stored in the world model.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Apply dispatches one decoded message onto the world model. It is the only writer of
// logical fields. It returns false for kinds it does not handle, which leave state as is.
func Apply(ns *network_state.NetworkState, msg protocol.Message, notifier Notifier) bool {
	switch m := msg.(type) {
	case protocol.Welcome:
		applyWelcome(ns, m)
	case protocol.State:
		applyState(ns, m)
	case protocol.Cells:
		ns.Grid.PatchCells(m.Cells)
	case protocol.Players:
		ns.Players.MergeSnapshot(m.Players)
	case protocol.Trail:
		ns.Players.MergeTrail(m.PID, m.Trail)
	case protocol.Alert:
		if notifier != nil {
			notifier.Notify(m.Msg)
		}
	default:
		return false
	}
	return true
}

// applyWelcome treats every welcome as a fresh bootstrap: a provided grid or player set
// replaces the previous one outright, absent fields keep what was there.
func applyWelcome(ns *network_state.NetworkState, m protocol.Welcome) {
	if m.PlayerID != nil {
		if ns.LocalID != "" && ns.LocalID != *m.PlayerID {
			log.Printf("Session: identity changed from %s to %s", ns.LocalID, *m.PlayerID)
		}
		ns.LocalID = *m.PlayerID
	}
	if m.GridW != nil {
		ns.GridW = *m.GridW
	}
	if m.GridH != nil {
		ns.GridH = *m.GridH
	}
	if m.Grid != nil {
		ns.Grid.ReplaceAll(m.Grid)
	}
	ns.EnsureShape()

	if m.Players != nil {
		ns.Players.ReplaceSnapshot(m.Players)
	}
	if m.Round != nil {
		ns.Round = *m.Round
	}
	if m.TimeLeft != nil {
		ns.TimeLeft = *m.TimeLeft
		ns.RoundDuration = *m.TimeLeft
	}
	if m.Leaderboard != nil {
		ns.AllTime = maps.Clone(m.Leaderboard)
	}
	ns.Welcomed = true
	log.Printf("Session: welcome as %q on %dx%d grid with %d players", ns.LocalID, ns.GridW, ns.GridH, ns.Players.Len())
}

func applyState(ns *network_state.NetworkState, m protocol.State) {
	if m.Grid != nil {
		ns.Grid.ReplaceAll(m.Grid)
	}
	ns.EnsureShape()

	if m.Players != nil {
		ns.Players.MergeSnapshot(m.Players)
	}
	if m.Round != nil {
		ns.Round = *m.Round
	}
	if m.TimeLeft != nil {
		ns.TimeLeft = *m.TimeLeft
	}
	if m.Leaderboard != nil {
		ns.AllTime = maps.Clone(m.Leaderboard)
	}
}
