package network_state

// CellPatch is a single incremental ownership change.
type CellPatch struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Owner string `json:"owner"`
}

// GridStore owns the 2D ownership mapping mirrored from the server.
type GridStore struct {
	width, height int
	cells         [][]string // height rows of width owner ids, UNCLAIMED when free
}

// NewGridStore allocates an unclaimed grid of the given dimensions.
func NewGridStore(w, h int) *GridStore {
	g := &GridStore{}
	g.EnsureShape(w, h)
	return g
}

// EnsureShape reallocates any row that does not match w columns and fixes the row count
// to h. It never fails; afterwards the grid is structurally valid for (w, h).
func (g *GridStore) EnsureShape(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g.width, g.height = w, h

	// a row-count change means new geometry; keep nothing from the old grid
	if len(g.cells) != h {
		g.cells = make([][]string, h)
	}
	for y := range g.cells {
		if len(g.cells[y]) != w {
			g.cells[y] = make([]string, w)
		}
	}
}

// ReplaceAll substitutes the whole grid. Shape is not validated here; callers follow up
// with EnsureShape.
func (g *GridStore) ReplaceAll(rows [][]string) {
	g.cells = rows
}

// PatchCells applies in-bounds entries and silently skips the rest. It returns the
// number of entries applied.
func (g *GridStore) PatchCells(patches []CellPatch) int {
	applied := 0
	for _, p := range patches {
		if !g.InBounds(p.X, p.Y) {
			continue
		}
		g.cells[p.Y][p.X] = p.Owner
		applied++
	}
	return applied
}

func (g *GridStore) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height && y < len(g.cells) && x < len(g.cells[y])
}

// Owner returns the owner of (x, y), UNCLAIMED when free or out of bounds.
func (g *GridStore) Owner(x, y int) string {
	if !g.InBounds(x, y) {
		return UNCLAIMED
	}
	return g.cells[y][x]
}

func (g *GridStore) Width() int  { return g.width }
func (g *GridStore) Height() int { return g.height }

// Rows returns a deep copy of the grid rows.
func (g *GridStore) Rows() [][]string {
	out := make([][]string, len(g.cells))
	for y, row := range g.cells {
		out[y] = append([]string(nil), row...)
	}
	return out
}

// Claimed counts the cells that currently have an owner.
func (g *GridStore) Claimed() int {
	n := 0
	for _, row := range g.cells {
		for _, owner := range row {
			if owner != UNCLAIMED {
				n++
			}
		}
	}
	return n
}
