package render

import (
	"territory-client/config"
	"territory-client/network_state"
)

// Camera is the smoothed focus point in grid units. It has no value until the local
// player's record exists.
type Camera struct {
	FocusX, FocusY float64
	initialized    bool
}

// Initialized reports whether the camera has snapped to a local player yet.
func (c *Camera) Initialized() bool {
	return c.initialized
}

// Reset drops the focus so the next advance snaps to the local player again.
func (c *Camera) Reset() {
	c.FocusX, c.FocusY = 0, 0
	c.initialized = false
}

// Advance moves the focus one frame toward the local player's logical cell.
// It returns false and leaves the focus untouched when there is no local record.
func (c *Camera) Advance(ns *network_state.NetworkState) bool {
	me, ok := ns.Local()
	if !ok {
		return false
	}
	tx, ty := float64(me.LogicalX), float64(me.LogicalY)
	if !c.initialized {
		c.FocusX, c.FocusY = tx, ty
		c.initialized = true
		return true
	}
	c.FocusX = Smooth(c.FocusX, tx, config.CameraSmoothing)
	c.FocusY = Smooth(c.FocusY, ty, config.CameraSmoothing)
	return true
}

// Origin is the top-left pixel of the viewport in world space.
func (c *Camera) Origin(vp Viewport) (float64, float64) {
	return c.FocusX*config.CELL_SIZE - vp.W/2, c.FocusY*config.CELL_SIZE - vp.H/2
}

// AdvancePlayer moves one record's render position a frame toward its logical pixel center.
func AdvancePlayer(p *network_state.PlayerRecord) {
	tx, ty := p.TargetPixel()
	p.RenderX = Smooth(p.RenderX, tx, config.PlayerSmoothing)
	p.RenderY = Smooth(p.RenderY, ty, config.PlayerSmoothing)
}

// AdvancePlayers steps every known record, the local one included.
func AdvancePlayers(reg *network_state.Registry) {
	reg.Each(AdvancePlayer)
}

// Smooth is one step of first-order lag: value += (target - value) * alpha.
func Smooth(value, target, alpha float64) float64 {
	return value + (target-value)*alpha
}
