package network_state

import (
	"reflect"
	"testing"
)

func assertShape(t *testing.T, g *GridStore, w, h int) {
	t.Helper()
	rows := g.Rows()
	if len(rows) != h {
		t.Fatalf("rows = %d, want %d", len(rows), h)
	}
	for y, row := range rows {
		if len(row) != w {
			t.Fatalf("row %d has %d columns, want %d", y, len(row), w)
		}
	}
}

func TestEnsureShapeAlwaysYieldsValidGrid(t *testing.T) {
	g := NewGridStore(0, 0)
	shapes := [][2]int{{3, 2}, {5, 5}, {5, 1}, {1, 5}, {0, 3}, {30, 20}, {30, 20}, {-2, 4}}
	for _, s := range shapes {
		g.EnsureShape(s[0], s[1])
		w, h := s[0], s[1]
		if w < 0 {
			w = 0
		}
		assertShape(t, g, w, h)
	}
}

func TestEnsureShapeHealsRaggedReplacement(t *testing.T) {
	g := NewGridStore(3, 2)
	g.ReplaceAll([][]string{{"a", "b", "c"}, {"d"}})
	g.EnsureShape(3, 2)
	assertShape(t, g, 3, 2)
	if got := g.Owner(1, 0); got != "b" {
		t.Fatalf("intact row lost data: %q", got)
	}
	if got := g.Owner(0, 1); got != UNCLAIMED {
		t.Fatalf("reallocated row should be unclaimed, got %q", got)
	}

	g.ReplaceAll(nil)
	g.EnsureShape(4, 3)
	assertShape(t, g, 4, 3)
}

func TestPatchCellsIsIdempotent(t *testing.T) {
	patch := []CellPatch{{X: 0, Y: 0, Owner: "p1"}, {X: 2, Y: 1, Owner: "p2"}, {X: 2, Y: 1, Owner: "p3"}}

	once := NewGridStore(3, 2)
	once.PatchCells(patch)

	twice := NewGridStore(3, 2)
	twice.PatchCells(patch)
	twice.PatchCells(patch)

	if !reflect.DeepEqual(once.Rows(), twice.Rows()) {
		t.Fatalf("patch not idempotent:\nonce  %v\ntwice %v", once.Rows(), twice.Rows())
	}
	if got := once.Owner(2, 1); got != "p3" {
		t.Fatalf("later entry should win, got %q", got)
	}
}

func TestPatchCellsSkipsOutOfBounds(t *testing.T) {
	g := NewGridStore(3, 2)
	before := g.Rows()
	applied := g.PatchCells([]CellPatch{
		{X: -1, Y: 0, Owner: "p1"},
		{X: 3, Y: 0, Owner: "p1"},
		{X: 0, Y: -1, Owner: "p1"},
		{X: 0, Y: 2, Owner: "p1"},
	})
	if applied != 0 {
		t.Fatalf("applied = %d, want 0", applied)
	}
	if !reflect.DeepEqual(before, g.Rows()) {
		t.Fatalf("out-of-bounds patch mutated grid: %v", g.Rows())
	}
}

func TestClaimedCountsOwnedCells(t *testing.T) {
	g := NewGridStore(3, 2)
	g.PatchCells([]CellPatch{{X: 0, Y: 0, Owner: "p1"}, {X: 1, Y: 1, Owner: "p2"}})
	if got := g.Claimed(); got != 2 {
		t.Fatalf("claimed = %d, want 2", got)
	}
	g.PatchCells([]CellPatch{{X: 0, Y: 0, Owner: UNCLAIMED}})
	if got := g.Claimed(); got != 1 {
		t.Fatalf("claimed = %d, want 1", got)
	}
}
