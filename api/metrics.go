package api

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"territory-client/network_state"
	"territory-client/session"
)

// HealthStatus represents the overall health of the client
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWaiting  HealthStatus = "waiting"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

// TransportMetrics holds the state of the server connection
type TransportMetrics struct {
	Connected bool   `json:"connected"`
	ClientID  string `json:"client_id,omitempty"`
}

// WorldMetrics summarizes the mirrored world
type WorldMetrics struct {
	GridW   int `json:"grid_w"`
	GridH   int `json:"grid_h"`
	Claimed int `json:"claimed"`
	Players int `json:"players"`
}

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp         time.Time        `json:"timestamp"`
	Health            HealthStatus     `json:"health"`
	HealthDescription string           `json:"health_description"`
	Transport         TransportMetrics `json:"transport"`
	World             WorldMetrics     `json:"world"`
	Session           session.Stats    `json:"session"`
	LastUpdate        *time.Time       `json:"last_update,omitempty"`
	UptimeSec         int64            `json:"uptime_sec"`
}

// Board holds the latest summary published by the session goroutine. HTTP handlers only
// ever read these copies.
type Board struct {
	mu         sync.RWMutex
	startTime  time.Time
	summary    session.Summary
	stats      session.Stats
	lastUpdate time.Time
	connected  func() bool
	clientID   string
}

func NewBoard() *Board {
	return &Board{startTime: time.Now()}
}

// Publish stores a new snapshot. Its signature matches session.Options.Publish.
func (b *Board) Publish(sum session.Summary, stats session.Stats) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.summary = sum
	b.stats = stats
	b.lastUpdate = time.Now()
}

// SetTransport lets metrics report the connection state.
func (b *Board) SetTransport(clientID string, connected func() bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clientID = clientID
	b.connected = connected
}

// Summary returns the last published summary.
func (b *Board) Summary() session.Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.summary
}

// MetricsHandler serves the board over HTTP
type MetricsHandler struct {
	board *Board
}

func NewMetricsHandler(board *Board) *MetricsHandler {
	return &MetricsHandler{board: board}
}

// Routes registers summary, leaderboard and metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/summary", h.GetSummary)
	r.Get("/leaderboard", h.GetLeaderboard)
	r.Get("/leaderboard/all-time", h.GetAllTime)
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/health", h.GetHealth)
}

// GetSummary returns the full UI summary
func (h *MetricsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.board.Summary())
}

// GetLeaderboard returns this round's ranking, optionally capped by ?limit=
func (h *MetricsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	ranking := h.board.Summary().Ranking
	writeJSON(w, http.StatusOK, apiListResponse[session.RankEntry]{Items: capList(ranking, limit), TotalItems: len(ranking)})
}

// GetAllTime returns the cumulative leaderboard, optionally capped by ?limit=
func (h *MetricsHandler) GetAllTime(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	all := h.board.Summary().AllTime
	writeJSON(w, http.StatusOK, apiListResponse[network_state.AllTimeEntry]{Items: capList(all, limit), TotalItems: len(all)})
}

// GetMetrics returns complete metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics())
}

// GetHealth returns only health status
func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":   metrics.Timestamp,
		"health":      metrics.Health,
		"description": metrics.HealthDescription,
		"uptime_sec":  metrics.UptimeSec,
	})
}

// collectMetrics gathers all metrics from the last snapshot
func (h *MetricsHandler) collectMetrics() *MetricsResponse {
	b := h.board
	b.mu.RLock()
	defer b.mu.RUnlock()

	transport := TransportMetrics{ClientID: b.clientID}
	if b.connected != nil {
		transport.Connected = b.connected()
	}
	m := &MetricsResponse{
		Timestamp: time.Now(),
		Transport: transport,
		World: WorldMetrics{
			GridW:   b.summary.GridW,
			GridH:   b.summary.GridH,
			Claimed: b.summary.Claimed,
			Players: len(b.summary.Ranking),
		},
		Session:   b.stats,
		UptimeSec: int64(time.Since(b.startTime).Seconds()),
	}
	if !b.lastUpdate.IsZero() {
		last := b.lastUpdate
		m.LastUpdate = &last
	}
	m.Health, m.HealthDescription = determineHealth(b.summary, b.stats, transport, b.connected != nil)
	return m
}

// determineHealth derives the health status from the last snapshot
func determineHealth(sum session.Summary, stats session.Stats, transport TransportMetrics, hasTransport bool) (HealthStatus, string) {
	if hasTransport && !transport.Connected {
		if sum.Welcomed {
			return HealthDegraded, "Connection lost - showing last known state while reconnecting"
		}
		return HealthDown, "Not connected to the game server"
	}
	if !sum.Welcomed {
		return HealthWaiting, "Connected - waiting for the server welcome"
	}
	if !sum.Ready {
		return HealthWaiting, fmt.Sprintf("Welcomed as %q - waiting for the local player record", sum.PlayerID)
	}
	if stats.Malformed > 0 {
		return HealthHealthy, fmt.Sprintf("Synchronized - %d malformed frames dropped", stats.Malformed)
	}
	return HealthHealthy, "Synchronized with the game server"
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		errorJSON(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func capList[T any](items []T, limit int) []T {
	if items == nil {
		items = []T{}
	}
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
