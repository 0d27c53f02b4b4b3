package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"territory-client/network_state"
	"territory-client/session"
)

func sampleSummary() session.Summary {
	return session.Summary{
		PlayerID: "p1", Ready: true, Welcomed: true,
		Round: 2, TimeLeft: 50, RoundDuration: 100, TimerFraction: 0.5, LocalScore: 4,
		GridW: 30, GridH: 20, Claimed: 6,
		Ranking: []session.RankEntry{
			{ID: "p2", Name: "Bea", Score: 5},
			{ID: "p1", Name: "Ada", Score: 4, Me: true},
			{ID: "p3", Name: "p3", Score: 0},
		},
		AllTime: []network_state.AllTimeEntry{{Name: "Bea", Score: 40}},
	}
}

func get(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v\n%s", path, err, rec.Body.String())
		}
	}
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	r := NewAPIRouter(LoadConfig(), NewBoard())
	var body map[string]string
	if rec := get(t, r, "/health", &body); rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", rec.Code, body)
	}
}

func TestSummaryAndLeaderboard(t *testing.T) {
	board := NewBoard()
	board.Publish(sampleSummary(), session.Stats{Applied: map[string]int{"welcome": 1}})
	r := NewAPIRouter(LoadConfig(), board)

	var sum session.Summary
	get(t, r, "/v1/summary", &sum)
	if sum.PlayerID != "p1" || sum.LocalScore != 4 || len(sum.Ranking) != 3 {
		t.Fatalf("summary = %+v", sum)
	}

	var lb apiListResponse[session.RankEntry]
	get(t, r, "/v1/leaderboard?limit=2", &lb)
	if lb.TotalItems != 3 || len(lb.Items) != 2 || lb.Items[0].ID != "p2" || !lb.Items[1].Me {
		t.Fatalf("leaderboard = %+v", lb)
	}

	var all apiListResponse[network_state.AllTimeEntry]
	get(t, r, "/v1/leaderboard/all-time", &all)
	if all.TotalItems != 1 || all.Items[0].Score != 40 {
		t.Fatalf("all-time = %+v", all)
	}

	if rec := get(t, r, "/v1/leaderboard?limit=abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d", rec.Code)
	}
}

func TestEmptyBoardListsAreArrays(t *testing.T) {
	r := NewAPIRouter(LoadConfig(), NewBoard())
	rec := get(t, r, "/v1/leaderboard", nil)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["items"]) != "[]" {
		t.Fatalf("items = %s, want []", raw["items"])
	}
}

func TestMetricsHealthFollowsTransportAndWelcome(t *testing.T) {
	board := NewBoard()
	connected := false
	board.SetTransport("client-1", func() bool { return connected })
	r := NewAPIRouter(LoadConfig(), board)

	var m MetricsResponse
	get(t, r, "/v1/metrics", &m)
	if m.Health != HealthDown || m.Transport.ClientID != "client-1" || m.LastUpdate != nil {
		t.Fatalf("metrics before connect = %+v", m)
	}

	connected = true
	get(t, r, "/v1/metrics", &m)
	if m.Health != HealthWaiting {
		t.Fatalf("health after connect = %s", m.Health)
	}

	board.Publish(sampleSummary(), session.Stats{Malformed: 2})
	get(t, r, "/v1/metrics", &m)
	if m.Health != HealthHealthy || m.World.Claimed != 6 || m.World.Players != 3 || m.Session.Malformed != 2 {
		t.Fatalf("metrics after welcome = %+v", m)
	}

	connected = false
	var h map[string]any
	get(t, r, "/v1/metrics/health", &h)
	if h["health"] != string(HealthDegraded) {
		t.Fatalf("health after disconnect = %v", h["health"])
	}
}

func TestCORSPreflight(t *testing.T) {
	r := NewAPIRouter(Config{AllowedOrigins: []string{"http://example.test"}}, NewBoard())
	req := httptest.NewRequest(http.MethodOptions, "/v1/summary", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.test" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestGRPCHealthTurnsServingAfterWelcome(t *testing.T) {
	hs := NewHealthService()
	lis := bufconn.Listen(1 << 16)
	go hs.Serve(lis)
	t.Cleanup(hs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: HEALTH_SERVICE})
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		return resp.GetStatus()
	}

	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status before welcome = %v", got)
	}
	hs.Update(sampleSummary(), session.Stats{})
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status after welcome = %v", got)
	}
}
