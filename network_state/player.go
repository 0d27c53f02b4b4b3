package network_state

import "territory-client/config"

// PlayerRecord is the locally mirrored presence state of one player.
type PlayerRecord struct {
	ID       string
	LogicalX int     // Authoritative grid column as last reported
	LogicalY int     // Authoritative grid row as last reported
	RenderX  float64 // Smoothed pixel position, written by the interpolation engine only
	RenderY  float64
	Trail    []Coord
	Color    string
	Name     string
	Score    int
}

// DisplayName falls back to the identifier when the server sent no name.
func (p *PlayerRecord) DisplayName() string {
	if p.Name == "" {
		return p.ID
	}
	return p.Name
}

// TargetPixel is the pixel center of the player's logical cell.
func (p *PlayerRecord) TargetPixel() (float64, float64) {
	return PixelCenter(p.LogicalX), PixelCenter(p.LogicalY)
}

// PlayerPatch is a partial player record as carried by players, state and welcome
// messages. Nil fields were absent from the update.
type PlayerPatch struct {
	X     *int     `json:"x,omitempty"`
	Y     *int     `json:"y,omitempty"`
	Name  *string  `json:"name,omitempty"`
	Color *string  `json:"color,omitempty"`
	Score *int     `json:"score,omitempty"`
	Trail *[]Coord `json:"trail,omitempty"`
}

// newPlayerRecord builds a record with every field at its default.
func newPlayerRecord(id string) *PlayerRecord {
	return &PlayerRecord{
		ID:      id,
		RenderX: PixelCenter(0),
		RenderY: PixelCenter(0),
		Trail:   []Coord{},
		Color:   config.PlayerDefaultColor,
		Name:    id,
	}
}

// apply copies every provided field of the patch onto the record.
func (p *PlayerRecord) apply(patch PlayerPatch) {
	if patch.X != nil {
		p.LogicalX = *patch.X
	}
	if patch.Y != nil {
		p.LogicalY = *patch.Y
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.Score != nil {
		p.Score = *patch.Score
	}
	if patch.Trail != nil {
		p.Trail = *patch.Trail
	}
}

// normalize is the single defaulting step run after creation and after every merge.
func (p *PlayerRecord) normalize() {
	if p.Trail == nil {
		p.Trail = []Coord{}
	}
	if p.Color == "" {
		p.Color = config.PlayerDefaultColor
	}
}
