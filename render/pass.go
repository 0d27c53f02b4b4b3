package render

import (
	"math"

	"territory-client/config"
	"territory-client/network_state"
)

// Window is the half-open rectangle of grid cells drawn in one frame.
type Window struct {
	X0, Y0, X1, Y1 int
}

// Contains reports whether a cell lies inside the window.
func (w Window) Contains(x, y int) bool {
	return x >= w.X0 && x < w.X1 && y >= w.Y0 && y < w.Y1
}

// VisibleWindow derives the drawn cells from the camera origin with one cell of margin on
// every side, clamped to a gridW x gridH board.
func VisibleWindow(originX, originY float64, vp Viewport, gridW, gridH int) Window {
	const cell = float64(config.CELL_SIZE)
	return Window{
		X0: max(0, int(math.Floor(originX/cell))-1),
		Y0: max(0, int(math.Floor(originY/cell))-1),
		X1: min(gridW, int(math.Ceil((originX+vp.W)/cell))+1),
		Y1: min(gridH, int(math.Ceil((originY+vp.H)/cell))+1),
	}
}

// Draw paints one frame: tiles row by row, then every trail, then every player marker.
// Render positions and the camera advance here and nowhere else. It returns false when it
// drew the waiting placeholder because the local player is not known yet.
func Draw(ns *network_state.NetworkState, cam *Camera, vp Viewport, cv Canvas) bool {
	if !cam.Advance(ns) {
		cv.Clear(ColorOf(config.WaitingBackground, config.WaitingBackground))
		cv.Text(config.WaitingMessage, vp.W/2, vp.H/2, config.WAIT_FONT_SIZE,
			ColorOf(config.WaitingText, config.WaitingText), AlignCenter)
		return false
	}

	cv.Clear(ColorOf(config.WaitingBackground, config.WaitingBackground))
	ox, oy := cam.Origin(vp)
	win := VisibleWindow(ox, oy, vp, ns.Grid.Width(), ns.Grid.Height())

	drawTiles(ns, win, ox, oy, cv)
	drawTrails(ns, win, ox, oy, cv)
	drawPlayers(ns, ox, oy, cv)
	return true
}

func drawTiles(ns *network_state.NetworkState, win Window, ox, oy float64, cv Canvas) {
	const cell = float64(config.CELL_SIZE)
	empty := ColorOf(config.TileBackground, config.TileBackground)
	border := ColorOf(config.TileBorder, config.TileBorder)

	for y := win.Y0; y < win.Y1; y++ {
		for x := win.X0; x < win.X1; x++ {
			sx := float64(x)*cell - ox
			sy := float64(y)*cell - oy
			if owner := ns.Grid.Owner(x, y); owner != network_state.UNCLAIMED {
				if p, ok := ns.Players.Get(owner); ok {
					cv.FillRect(sx, sy, cell, cell, ColorOf(p.Color, config.PlayerDefaultColor))
					continue
				}
			}
			// Unclaimed, or owned by a player no update has described yet.
			cv.FillRect(sx, sy, cell, cell, empty)
			cv.StrokeRect(sx+0.5, sy+0.5, cell-1, cell-1, 1, border)
		}
	}
}

func drawTrails(ns *network_state.NetworkState, win Window, ox, oy float64, cv Canvas) {
	const cell = float64(config.CELL_SIZE)
	size := math.Max(config.TRAIL_MIN_SIZE, cell-12)

	ns.Players.Each(func(p *network_state.PlayerRecord) {
		c := ColorOf(p.Color, config.PlayerDefaultColor)
		for _, t := range p.Trail {
			if !win.Contains(t.X(), t.Y()) {
				continue
			}
			sx := float64(t.X())*cell - ox + config.TRAIL_INSET
			sy := float64(t.Y())*cell - oy + config.TRAIL_INSET
			cv.FillRect(sx, sy, size, size, c)
		}
	})
}

func drawPlayers(ns *network_state.NetworkState, ox, oy float64, cv Canvas) {
	const cell = float64(config.CELL_SIZE)
	radius := math.Max(config.MARKER_MIN_RAD, cell*0.4)
	outline := ColorOf(config.MarkerOutline, config.MarkerOutline)
	label := ColorOf(config.NameText, config.NameText)

	ns.Players.Each(func(p *network_state.PlayerRecord) {
		AdvancePlayer(p)
		sx, sy := p.RenderX-ox, p.RenderY-oy
		cv.FillCircle(sx, sy, radius, ColorOf(p.Color, config.PlayerDefaultColor))
		cv.StrokeCircle(sx, sy, radius, config.MARKER_OUTLINE_W, outline)
		cv.Text(p.DisplayName(), sx, sy-cell*0.6, config.NAME_FONT_SIZE, label, AlignCenter)
	})
}
