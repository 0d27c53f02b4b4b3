package session

import "territory-client/network_state"

// RankEntry is one leaderboard line for the current round.
type RankEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Score int    `json:"score"`
	Me    bool   `json:"me"`
}

// Summary is the read-only view handed to HUDs and the debug API. It is a copy and shares
// nothing with the live stores.
type Summary struct {
	PlayerID      string                       `json:"player_id"`
	Ready         bool                         `json:"ready"`
	Welcomed      bool                         `json:"welcomed"`
	Round         int                          `json:"round"`
	TimeLeft      int                          `json:"time_left"`
	RoundDuration int                          `json:"round_duration"`
	TimerFraction float64                      `json:"timer_fraction"`
	LocalScore    int                          `json:"local_score"`
	GridW         int                          `json:"grid_w"`
	GridH         int                          `json:"grid_h"`
	Claimed       int                          `json:"claimed"`
	Ranking       []RankEntry                  `json:"ranking"`
	AllTime       []network_state.AllTimeEntry `json:"all_time"`
}

// Summarize derives the UI-facing summary from the world model. It does no game logic.
func Summarize(ns *network_state.NetworkState) Summary {
	s := Summary{
		PlayerID:      ns.LocalID,
		Ready:         ns.Ready(),
		Welcomed:      ns.Welcomed,
		Round:         ns.Round,
		TimeLeft:      ns.TimeLeft,
		RoundDuration: ns.RoundDuration,
		TimerFraction: timerFraction(ns.TimeLeft, ns.RoundDuration),
		LocalScore:    ns.Players.LocalScore(ns.LocalID),
		GridW:         ns.Grid.Width(),
		GridH:         ns.Grid.Height(),
		Claimed:       ns.Grid.Claimed(),
		AllTime:       ns.AllTimeRanking(),
	}
	for _, p := range ns.Players.Ranking() {
		s.Ranking = append(s.Ranking, RankEntry{
			ID:    p.ID,
			Name:  p.DisplayName(),
			Color: p.Color,
			Score: p.Score,
			Me:    p.ID == ns.LocalID,
		})
	}
	return s
}

func timerFraction(left, duration int) float64 {
	if duration <= 0 {
		return 0
	}
	f := float64(left) / float64(duration)
	return max(0, min(1, f))
}
