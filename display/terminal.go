package display

import (
	"context"
	"errors"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"territory-client/config"
	"territory-client/render"
	"territory-client/session"
)

// Terminal cell geometry: one grid cell spans two columns and one row.
const (
	TERM_COL_PX   = config.CELL_SIZE / 2
	TERM_ROW_PX   = config.CELL_SIZE
	TERM_HUD_ROWS = 5
)

func tcellColor(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// TermCanvas maps pixel drawing onto a rectangle of terminal cells. Shapes smaller than a
// cell become glyphs that keep the background underneath.
type TermCanvas struct {
	screen       tcell.Screen
	x0, y0       int // Top-left cell of the region
	cols, rows   int
	colPx, rowPx float64
}

func NewTermCanvas(screen tcell.Screen, x0, y0, cols, rows int) *TermCanvas {
	return &TermCanvas{screen: screen, x0: x0, y0: y0, cols: cols, rows: rows, colPx: TERM_COL_PX, rowPx: TERM_ROW_PX}
}

// Viewport is the pixel area the region represents.
func (t *TermCanvas) Viewport() render.Viewport {
	return render.Viewport{W: float64(t.cols) * t.colPx, H: float64(t.rows) * t.rowPx}
}

func (t *TermCanvas) set(col, row int, r rune, fg *color.NRGBA, bg *color.NRGBA) {
	if col < 0 || row < 0 || col >= t.cols || row >= t.rows {
		return
	}
	x, y := t.x0+col, t.y0+row
	mainc, _, style, _ := t.screen.GetContent(x, y)
	if r == 0 {
		r = mainc
	}
	if fg != nil {
		style = style.Foreground(tcellColor(*fg))
	}
	if bg != nil {
		style = style.Background(tcellColor(*bg))
	}
	t.screen.SetContent(x, y, r, nil, style)
}

func (t *TermCanvas) Clear(c color.NRGBA) {
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			t.set(col, row, ' ', nil, &c)
		}
	}
}

func (t *TermCanvas) FillRect(x, y, w, h float64, c color.NRGBA) {
	if w < t.colPx || h < t.rowPx {
		t.set(int(math.Floor((x+w/2)/t.colPx)), int(math.Floor((y+h/2)/t.rowPx)), '■', &c, nil)
		return
	}
	c0, c1 := int(math.Floor(x/t.colPx)), int(math.Ceil((x+w)/t.colPx))
	r0, r1 := int(math.Floor(y/t.rowPx)), int(math.Ceil((y+h)/t.rowPx))
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			t.set(col, row, ' ', nil, &c)
		}
	}
}

// StrokeRect is a no-op: one-pixel grid lines have no terminal equivalent.
func (t *TermCanvas) StrokeRect(x, y, w, h, lineWidth float64, c color.NRGBA) {}

func (t *TermCanvas) FillCircle(cx, cy, r float64, c color.NRGBA) {
	t.set(int(math.Floor(cx/t.colPx)), int(math.Floor(cy/t.rowPx)), '●', &c, nil)
}

func (t *TermCanvas) StrokeCircle(cx, cy, r, lineWidth float64, c color.NRGBA) {}

func (t *TermCanvas) Text(s string, x, y, size float64, c color.NRGBA, align render.Align) {
	runes := []rune(s)
	col := int(math.Floor(x / t.colPx))
	switch align {
	case render.AlignCenter:
		col -= len(runes) / 2
	case render.AlignRight:
		col -= len(runes)
	}
	row := int(math.Floor((y - 1) / t.rowPx))
	for i, r := range runes {
		t.set(col+i, row, r, &c, nil)
	}
}

// Terminal is the tcell frontend. Input, drawing and message application all run on the
// session goroutine inside Session.Run.
type Terminal struct {
	screen tcell.Screen
	sess   *session.Session
	ctl    *Controller
	alerts *Alerts
	editor NameEditor
	events chan tcell.Event
}

// NewTerminal wraps an initialized screen. The caller owns Init and Fini.
func NewTerminal(screen tcell.Screen, sess *session.Session, ctl *Controller, alerts *Alerts) *Terminal {
	return &Terminal{
		screen: screen,
		sess:   sess,
		ctl:    ctl,
		alerts: alerts,
		events: make(chan tcell.Event, 64),
	}
}

// Run polls the screen for input and drives the session at fps until the user quits,
// the session stops or ctx ends.
func (t *Terminal) Run(ctx context.Context, fps int) error {
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case t.events <- ev:
			case <-t.sess.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(max(1, fps)))
	defer ticker.Stop()

	err := t.sess.Run(ctx, ticker.C, func() {
		t.drainEvents()
		t.Draw()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (t *Terminal) drainEvents() {
	for {
		select {
		case ev := <-t.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if t.HandleKey(ev) {
					t.sess.Stop()
					return
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		default:
			return
		}
	}
}

// HandleKey applies one key press and reports whether the user asked to quit.
func (t *Terminal) HandleKey(ev *tcell.EventKey) bool {
	if t.editor.Active() {
		switch ev.Key() {
		case tcell.KeyEnter:
			if err := t.ctl.Rename(t.editor.Submit()); err != nil {
				log.Printf("Terminal: rename not sent: %v", err)
			}
		case tcell.KeyEscape:
			t.editor.Cancel()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			t.editor.Backspace()
		case tcell.KeyRune:
			t.editor.Type(ev.Rune())
		}
		return false
	}

	var dir Direction
	ok := true
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		t.editor.Begin()
		return false
	case tcell.KeyUp:
		dir = Up
	case tcell.KeyDown:
		dir = Down
	case tcell.KeyLeft:
		dir = Left
	case tcell.KeyRight:
		dir = Right
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return true
		}
		dir, ok = DirectionForRune(ev.Rune())
	default:
		ok = false
	}
	if ok {
		// Moves while disconnected are dropped like the web client does.
		_ = t.ctl.Move(dir)
	}
	return false
}

// Draw renders the HUD band, the world below it and any alerts, then shows the screen.
func (t *Terminal) Draw() {
	cols, rows := t.screen.Size()
	hudRows := min(TERM_HUD_ROWS, rows)

	hud := NewTermCanvas(t.screen, 0, 0, cols, hudRows)
	vp := hud.Viewport()
	DrawHUD(hud, t.sess.Summary(), HUDLayout{
		Width: vp.W, Height: vp.H, LineHeight: TERM_ROW_PX, FontSize: config.NAME_FONT_SIZE,
		Padding: TERM_COL_PX, BarHeight: TERM_ROW_PX,
	}, t.editor.Prompt())

	world := NewTermCanvas(t.screen, 0, hudRows, cols, rows-hudRows)
	wvp := world.Viewport()
	t.sess.Frame(world, wvp)
	DrawAlerts(world, t.alerts.Active(), wvp.W, wvp.H, TERM_ROW_PX, config.NAME_FONT_SIZE)

	t.screen.Show()
}
