package display

import (
	"fmt"

	"territory-client/config"
	"territory-client/render"
	"territory-client/session"
)

// HUDLayout sizes the status band for a given frontend.
type HUDLayout struct {
	Width, Height float64
	LineHeight    float64
	FontSize      float64
	Padding       float64
	BarGap        float64 // Space between the status line and the timer bar
	BarHeight     float64
}

// StatusLine is the first HUD row: round, timer and local tile count.
func StatusLine(sum session.Summary) string {
	return fmt.Sprintf("Round: %d   Time: %ds   Tiles: %d", sum.Round, sum.TimeLeft, sum.LocalScore)
}

// DrawHUD paints the status band: status line, timer bar, this round's ranking on the left
// and the all-time board on the right. prompt is drawn when a rename is in progress.
func DrawHUD(cv render.Canvas, sum session.Summary, l HUDLayout, prompt string) {
	if l.Height <= 0 {
		return
	}
	text := render.ColorOf(config.HUDText, config.HUDText)
	highlight := render.ColorOf(config.HighlightColor, config.HighlightColor)

	cv.FillRect(0, 0, l.Width, l.Height, render.ColorOf(config.HUDBackground, config.HUDBackground))
	cv.Text(StatusLine(sum), l.Padding, l.LineHeight, l.FontSize, text, render.AlignLeft)

	barW := l.Width - 2*l.Padding
	barY := l.LineHeight + l.BarGap
	barH := max(2, l.BarHeight)
	if sum.TimerFraction > 0 {
		cv.FillRect(l.Padding, barY, barW*sum.TimerFraction, barH,
			render.ColorOf(config.TimerBarColor, config.TimerBarColor))
	}

	rows := int((l.Height-barY-barH)/l.LineHeight) - 1
	top := barY + barH + l.LineHeight
	half := l.Width / 2

	if rows > 0 {
		cv.Text("Leaderboard", l.Padding, top, l.FontSize, text, render.AlignLeft)
		cv.Text("All time", half, top, l.FontSize, text, render.AlignLeft)
	}
	for i := 0; i < rows && i < len(sum.Ranking); i++ {
		e := sum.Ranking[i]
		y := top + float64(i+1)*l.LineHeight
		c := text
		if e.Me {
			c = highlight
		}
		badge := l.FontSize * 0.6
		cv.FillRect(l.Padding, y-badge, badge, badge, render.ColorOf(e.Color, config.PlayerDefaultColor))
		cv.Text(fmt.Sprintf("%d. %s  %d", i+1, e.Name, e.Score), l.Padding+badge*2, y, l.FontSize, c, render.AlignLeft)
	}
	for i := 0; i < rows && i < len(sum.AllTime); i++ {
		e := sum.AllTime[i]
		y := top + float64(i+1)*l.LineHeight
		cv.Text(fmt.Sprintf("%d. %s  %d", i+1, e.Name, e.Score), half, y, l.FontSize, text, render.AlignLeft)
	}

	if prompt != "" {
		cv.Text(prompt, l.Width-l.Padding, l.LineHeight, l.FontSize, highlight, render.AlignRight)
	}
}

// DrawAlerts stacks active notices upward from the bottom center of a w x h area.
func DrawAlerts(cv render.Canvas, alerts []string, w, h, lineHeight, fontSize float64) {
	c := render.ColorOf(config.HighlightColor, config.HighlightColor)
	for i := len(alerts) - 1; i >= 0; i-- {
		y := h - float64(len(alerts)-1-i)*lineHeight - lineHeight/2
		cv.Text(alerts[i], w/2, y, fontSize, c, render.AlignCenter)
	}
}
