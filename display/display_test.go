package display

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"territory-client/config"
	"territory-client/protocol"
	"territory-client/render"
	"territory-client/session"
)

type fakeSender struct {
	sent    []string
	offline bool
}

func (f *fakeSender) Send(raw []byte) bool {
	if f.offline {
		return false
	}
	f.sent = append(f.sent, string(raw))
	return true
}

func TestAlertsExpire(t *testing.T) {
	now := time.Unix(1000, 0)
	a := NewAlerts(config.AlertLifetime)
	a.SetClock(func() time.Time { return now })

	a.Notify("first")
	now = now.Add(2 * time.Second)
	a.Notify("second")
	if got := a.Active(); len(got) != 2 || got[0] != "first" {
		t.Fatalf("active = %v", got)
	}

	now = now.Add(1500 * time.Millisecond)
	if got := a.Active(); len(got) != 1 || got[0] != "second" {
		t.Fatalf("after first expiry active = %v", got)
	}
	now = now.Add(2 * time.Second)
	if got := a.Active(); len(got) != 0 {
		t.Fatalf("after all expired active = %v", got)
	}
}

func TestDirectionForRune(t *testing.T) {
	cases := map[rune]Direction{'w': Up, 'a': Left, 's': Down, 'd': Right, 'W': Up}
	for r, want := range cases {
		if got, ok := DirectionForRune(r); !ok || got != want {
			t.Fatalf("rune %q = %v,%v; want %v", r, got, ok, want)
		}
	}
	if _, ok := DirectionForRune('x'); ok {
		t.Fatalf("x should not map to a move")
	}
}

func TestControllerEncodesIntents(t *testing.T) {
	fs := &fakeSender{}
	c := NewController(fs)
	if err := c.Move(Left); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := c.Rename("  Ada "); err != nil {
		t.Fatalf("rename: %v", err)
	}
	want := []string{`{"type":"move","dx":-1,"dy":0}`, `{"type":"rename","name":"Ada"}`}
	if strings.Join(fs.sent, "|") != strings.Join(want, "|") {
		t.Fatalf("sent %v, want %v", fs.sent, want)
	}

	if err := c.Rename("   "); !errors.Is(err, protocol.ErrInvalidIntent) {
		t.Fatalf("blank rename err = %v", err)
	}
	fs.offline = true
	if err := c.Move(Up); !errors.Is(err, ErrOffline) {
		t.Fatalf("offline move err = %v", err)
	}
}

func TestNameEditor(t *testing.T) {
	var e NameEditor
	if e.Prompt() != "" {
		t.Fatalf("inactive editor shows a prompt")
	}
	e.Begin()
	e.Type([]rune(" Bob\x07y")...)
	e.Backspace()
	if e.Prompt() != "Name:  Bob_" {
		t.Fatalf("prompt = %q", e.Prompt())
	}
	if got := e.Submit(); got != "Bob" || e.Active() {
		t.Fatalf("submit = %q active=%v", got, e.Active())
	}

	e.Begin()
	e.Type([]rune(strings.Repeat("x", 40))...)
	if got := e.Submit(); len(got) != maxNameLen {
		t.Fatalf("name length = %d, want %d", len(got), maxNameLen)
	}
}

func TestDrawHUDHighlightsLocalEntry(t *testing.T) {
	sum := session.Summary{
		Round: 3, TimeLeft: 30, RoundDuration: 120, TimerFraction: 0.25, LocalScore: 7,
		Ranking: []session.RankEntry{
			{ID: "p2", Name: "Bea", Color: "#00f", Score: 9},
			{ID: "p1", Name: "Ada", Color: "#f00", Score: 7, Me: true},
		},
	}
	var rec render.Recorder
	DrawHUD(&rec, sum, HUDLayout{Width: 400, Height: 140, LineHeight: 18, FontSize: 14, Padding: 12, BarGap: 6, BarHeight: 6}, "")

	if !rec.HasText("Round: 3   Time: 30s   Tiles: 7") {
		t.Fatalf("status line missing: %+v", rec.Ops)
	}
	highlight := render.ColorOf(config.HighlightColor, config.HighlightColor)
	for _, op := range rec.Ops {
		if op.Kind != "text" {
			continue
		}
		switch op.Text {
		case "2. Ada  7":
			if op.Color != highlight {
				t.Fatalf("local entry not highlighted")
			}
		case "1. Bea  9":
			if op.Color == highlight {
				t.Fatalf("remote entry highlighted")
			}
		}
	}
	if !rec.HasText("2. Ada  7") || !rec.HasText("1. Bea  9") {
		t.Fatalf("ranking lines missing")
	}
	bar := rec.Ops[2]
	if bar.Kind != "fill_rect" || bar.W != 376*0.25 {
		t.Fatalf("timer bar = %+v", bar)
	}
}

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestTerminalDrawsWorldAndHUD(t *testing.T) {
	screen := newSimScreen(t, 40, 12)
	sess := session.NewSession(session.Options{})
	term := NewTerminal(screen, sess, NewController(&fakeSender{}), NewAlerts(config.AlertLifetime))

	term.Draw()
	if !strings.Contains(rowText(screen, 8)+rowText(screen, 9), "Waiting") {
		t.Fatalf("waiting text missing before welcome")
	}

	sess.Deliver([]byte(`{"type":"welcome","player_id":"p1","grid_w":3,"grid_h":2,"players":{"p1":{"x":1,"y":0,"color":"#f00"}},"round":2}`))
	sess.Pump()
	term.Draw()

	if !strings.Contains(rowText(screen, 0), "Round: 2") {
		t.Fatalf("HUD row = %q", rowText(screen, 0))
	}
	r, _, style, _ := screen.GetContent(21, 9)
	if r != '●' {
		t.Fatalf("marker cell = %q, want player marker", r)
	}
	if fg, _, _ := style.Decompose(); fg != tcell.NewRGBColor(0xff, 0, 0) {
		t.Fatalf("marker color = %v", fg)
	}
	if !strings.Contains(rowText(screen, 8), "p1") {
		t.Fatalf("name row = %q", rowText(screen, 8))
	}
}

func TestTerminalHandleKey(t *testing.T) {
	screen := newSimScreen(t, 40, 12)
	fs := &fakeSender{}
	term := NewTerminal(screen, session.NewSession(session.Options{}), NewController(fs), NewAlerts(config.AlertLifetime))

	key := func(k tcell.Key, r rune) bool {
		return term.HandleKey(tcell.NewEventKey(k, r, tcell.ModNone))
	}
	if key(tcell.KeyRune, 'w') || key(tcell.KeyRight, 0) {
		t.Fatalf("move keys reported quit")
	}
	key(tcell.KeyEnter, 0)
	for _, r := range "Ada" {
		key(tcell.KeyRune, r)
	}
	if key(tcell.KeyRune, 'q') {
		t.Fatalf("q while editing should type, not quit")
	}
	key(tcell.KeyBackspace2, 0)
	key(tcell.KeyEnter, 0)

	want := []string{
		`{"type":"move","dx":0,"dy":-1}`,
		`{"type":"move","dx":1,"dy":0}`,
		`{"type":"rename","name":"Ada"}`,
	}
	if strings.Join(fs.sent, "|") != strings.Join(want, "|") {
		t.Fatalf("sent %v, want %v", fs.sent, want)
	}
	if !key(tcell.KeyRune, 'q') || !key(tcell.KeyEscape, 0) {
		t.Fatalf("quit keys not recognized")
	}
}
