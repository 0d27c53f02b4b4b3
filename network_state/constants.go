package network_state

import "territory-client/config"

// Network State Constants
const (
	UNCLAIMED = ""               // Owner value of a cell nobody holds (JSON null on the wire)
	CELL_SIZE = config.CELL_SIZE // Pixel size of a cell, used to seed render positions
)

// Coord is a grid coordinate as carried by trails: [x, y].
type Coord [2]int

func (c Coord) X() int { return c[0] }
func (c Coord) Y() int { return c[1] }

// PixelCenter converts a logical cell coordinate to the pixel position of its center.
func PixelCenter(logical int) float64 {
	return float64(logical*CELL_SIZE) + CELL_SIZE/2.0
}
