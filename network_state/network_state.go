package network_state

import (
	"sort"

	"territory-client/config"
)

// NetworkState is the client's mirror of the server world. It has no lock: one session
// goroutine owns it, and only the message router writes its logical fields.
type NetworkState struct {
	LocalID       string         // Identity assigned by the last welcome, empty before it
	GridW, GridH  int            // Last known logical dimensions
	Grid          *GridStore     // Cell ownership
	Players       *Registry      // Per-player presence
	Round         int            // Current round number
	TimeLeft      int            // Seconds left in the round
	RoundDuration int            // Round length in seconds, taken from the welcome
	AllTime       map[string]int // Cumulative scores by player name, server-owned
	Welcomed      bool           // At least one welcome has been applied
}

// NewNetworkState initializes the pre-welcome state with default dimensions.
func NewNetworkState() *NetworkState {
	return &NetworkState{
		GridW:         config.DEFAULT_GRID_W,
		GridH:         config.DEFAULT_GRID_H,
		Grid:          NewGridStore(config.DEFAULT_GRID_W, config.DEFAULT_GRID_H),
		Players:       NewRegistry(),
		Round:         config.DefaultRound,
		TimeLeft:      config.DefaultTimeLeft,
		RoundDuration: config.DefaultRoundDuration,
		AllTime:       map[string]int{},
	}
}

// EnsureShape heals the grid against the last known dimensions.
func (ns *NetworkState) EnsureShape() {
	ns.Grid.EnsureShape(ns.GridW, ns.GridH)
}

// Local returns the local player's record when both identity and record exist.
func (ns *NetworkState) Local() (*PlayerRecord, bool) {
	if ns.LocalID == "" {
		return nil, false
	}
	return ns.Players.Get(ns.LocalID)
}

// Ready reports whether there is enough state to render the world.
func (ns *NetworkState) Ready() bool {
	_, ok := ns.Local()
	return ok
}

// AllTimeEntry is one line of the cumulative leaderboard.
type AllTimeEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// AllTimeRanking returns the cumulative leaderboard by descending score, then name.
func (ns *NetworkState) AllTimeRanking() []AllTimeEntry {
	out := make([]AllTimeEntry, 0, len(ns.AllTime))
	for name, score := range ns.AllTime {
		out = append(out, AllTimeEntry{Name: name, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}
