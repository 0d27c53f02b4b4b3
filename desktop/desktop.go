// Package desktop is the ebiten window frontend.
package desktop

import (
	"bytes"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"territory-client/config"
	"territory-client/display"
	"territory-client/render"
	"territory-client/session"
)

// Desktop HUD geometry in pixels.
const (
	HUD_LINE_HEIGHT = 18
	HUD_FONT_SIZE   = 14
	HUD_PADDING     = 12
	HUD_BAR_GAP     = 6
	HUD_BAR_HEIGHT  = 6
)

// ebitenCanvas draws onto an ebiten image with vector shapes and text/v2 faces.
type ebitenCanvas struct {
	dst   *ebiten.Image
	src   *text.GoTextFaceSource
	faces map[float64]*text.GoTextFace
}

func (c *ebitenCanvas) face(size float64) *text.GoTextFace {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: c.src, Size: size}
	c.faces[size] = f
	return f
}

func (c *ebitenCanvas) Clear(clr color.NRGBA) {
	c.dst.Fill(clr)
}

func (c *ebitenCanvas) FillRect(x, y, w, h float64, clr color.NRGBA) {
	vector.DrawFilledRect(c.dst, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func (c *ebitenCanvas) StrokeRect(x, y, w, h, lineWidth float64, clr color.NRGBA) {
	vector.StrokeRect(c.dst, float32(x), float32(y), float32(w), float32(h), float32(lineWidth), clr, false)
}

func (c *ebitenCanvas) FillCircle(cx, cy, r float64, clr color.NRGBA) {
	vector.DrawFilledCircle(c.dst, float32(cx), float32(cy), float32(r), clr, true)
}

func (c *ebitenCanvas) StrokeCircle(cx, cy, r, lineWidth float64, clr color.NRGBA) {
	vector.StrokeCircle(c.dst, float32(cx), float32(cy), float32(r), float32(lineWidth), clr, true)
}

func (c *ebitenCanvas) Text(s string, x, y, size float64, clr color.NRGBA, align render.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.SecondaryAlign = text.AlignEnd
	switch align {
	case render.AlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case render.AlignRight:
		op.PrimaryAlign = text.AlignEnd
	}
	text.Draw(c.dst, s, c.face(size), op)
}

// Game is the ebiten frontend. Update pumps the session inbox and reads input; Draw
// renders. ebiten calls both from its main loop, which makes it the session goroutine.
type Game struct {
	sess   *session.Session
	ctl    *display.Controller
	alerts *display.Alerts
	cfg    config.Config
	editor display.NameEditor

	world   *ebiten.Image
	hud     *ebitenCanvas
	worldCv *ebitenCanvas
}

func NewGame(sess *session.Session, ctl *display.Controller, alerts *display.Alerts, cfg config.Config) (*Game, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	faces := map[float64]*text.GoTextFace{}
	return &Game{
		sess:    sess,
		ctl:     ctl,
		alerts:  alerts,
		cfg:     cfg,
		hud:     &ebitenCanvas{src: src, faces: faces},
		worldCv: &ebitenCanvas{src: src, faces: faces},
	}, nil
}

// RunWindow opens the desktop window and blocks until it closes.
func RunWindow(g *Game) error {
	ebiten.SetWindowSize(g.cfg.WindowWidth, g.cfg.WindowHeight)
	ebiten.SetWindowTitle("Territory")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.FPS)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	select {
	case <-g.sess.Done():
		return ebiten.Termination
	default:
	}
	g.sess.Pump()
	if g.handleInput() {
		g.sess.Stop()
		return ebiten.Termination
	}
	return nil
}

var moveKeys = []struct {
	key ebiten.Key
	dir display.Direction
}{
	{ebiten.KeyArrowUp, display.Up}, {ebiten.KeyW, display.Up},
	{ebiten.KeyArrowDown, display.Down}, {ebiten.KeyS, display.Down},
	{ebiten.KeyArrowLeft, display.Left}, {ebiten.KeyA, display.Left},
	{ebiten.KeyArrowRight, display.Right}, {ebiten.KeyD, display.Right},
}

// repeating matches keyboard auto-repeat: the first tick, then every few ticks after a delay.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 15 && (d-15)%6 == 0)
}

func (g *Game) handleInput() bool {
	if g.editor.Active() {
		g.editor.Type(ebiten.AppendInputChars(nil)...)
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
			if err := g.ctl.Rename(g.editor.Submit()); err != nil {
				log.Printf("Game: rename not sent: %v", err)
			}
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			g.editor.Cancel()
		case repeating(ebiten.KeyBackspace):
			g.editor.Backspace()
		}
		return false
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.editor.Begin()
		return false
	}
	for _, mk := range moveKeys {
		if repeating(mk.key) {
			_ = g.ctl.Move(mk.dir)
			break
		}
	}
	return false
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	vpH := g.cfg.ViewportHeight(h)
	hudH := max(0, h-vpH)

	if g.world == nil || g.world.Bounds().Dx() != w || g.world.Bounds().Dy() != vpH {
		if g.world != nil {
			g.world.Deallocate()
		}
		g.world = ebiten.NewImage(w, vpH)
	}
	g.worldCv.dst = g.world
	g.sess.Frame(g.worldCv, render.Viewport{W: float64(w), H: float64(vpH)})
	display.DrawAlerts(g.worldCv, g.alerts.Active(), float64(w), float64(vpH), HUD_LINE_HEIGHT+4, HUD_FONT_SIZE)

	g.hud.dst = screen
	display.DrawHUD(g.hud, g.sess.Summary(), display.HUDLayout{
		Width: float64(w), Height: float64(hudH),
		LineHeight: HUD_LINE_HEIGHT, FontSize: HUD_FONT_SIZE, Padding: HUD_PADDING,
		BarGap: HUD_BAR_GAP, BarHeight: HUD_BAR_HEIGHT,
	}, g.editor.Prompt())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(hudH))
	screen.DrawImage(g.world, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
