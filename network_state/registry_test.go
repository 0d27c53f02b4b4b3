package network_state

import (
	"testing"

	"territory-client/config"
)

func intp(v int) *int { return &v }
func strp(v string) *string { return &v }
func trailp(v []Coord) *[]Coord { return &v }

func TestMergeSnapshotKeepsAbsentFields(t *testing.T) {
	r := NewRegistry()
	r.MergeSnapshot(map[string]PlayerPatch{
		"p1": {X: intp(2), Y: intp(3), Color: strp("#fff"), Score: intp(5), Name: strp("Ada")},
	})
	r.MergeSnapshot(map[string]PlayerPatch{
		"p1": {Score: intp(7)},
	})

	p, ok := r.Get("p1")
	if !ok {
		t.Fatalf("record missing after merge")
	}
	if p.Color != "#fff" || p.Score != 7 {
		t.Fatalf("got color=%q score=%d, want #fff/7", p.Color, p.Score)
	}
	if p.LogicalX != 2 || p.LogicalY != 3 || p.Name != "Ada" {
		t.Fatalf("absent fields changed: %+v", p)
	}
}

func TestMergeSnapshotSeedsRenderPositionOnlyOnCreation(t *testing.T) {
	r := NewRegistry()
	r.MergeSnapshot(map[string]PlayerPatch{"p1": {X: intp(1), Y: intp(2)}})
	p, _ := r.Get("p1")
	if p.RenderX != PixelCenter(1) || p.RenderY != PixelCenter(2) {
		t.Fatalf("render seeded at (%v,%v)", p.RenderX, p.RenderY)
	}

	r.MergeSnapshot(map[string]PlayerPatch{"p1": {X: intp(9), Y: intp(9)}})
	if p.RenderX != PixelCenter(1) || p.RenderY != PixelCenter(2) {
		t.Fatalf("merge moved render position to (%v,%v)", p.RenderX, p.RenderY)
	}
	if p.LogicalX != 9 || p.LogicalY != 9 {
		t.Fatalf("logical position not updated: %+v", p)
	}
}

func TestMergeSnapshotNormalizesDefaults(t *testing.T) {
	r := NewRegistry()
	r.MergeSnapshot(map[string]PlayerPatch{"p1": {Color: strp("")}})
	p, _ := r.Get("p1")
	if p.Color != config.PlayerDefaultColor {
		t.Fatalf("color = %q, want default", p.Color)
	}
	if p.Trail == nil || len(p.Trail) != 0 {
		t.Fatalf("trail = %v, want empty", p.Trail)
	}
	if p.LogicalX != 0 || p.LogicalY != 0 {
		t.Fatalf("position = (%d,%d), want origin", p.LogicalX, p.LogicalY)
	}
}

func TestMergeTrailCreatesDefaultRecord(t *testing.T) {
	r := NewRegistry()
	r.MergeTrail("p9", []Coord{{1, 1}, {1, 2}})

	p, ok := r.Get("p9")
	if !ok {
		t.Fatalf("trail update did not create record")
	}
	if p.LogicalX != 0 || p.LogicalY != 0 {
		t.Fatalf("position = (%d,%d), want (0,0)", p.LogicalX, p.LogicalY)
	}
	if p.Color != config.PlayerDefaultColor {
		t.Fatalf("color = %q, want default", p.Color)
	}
	if p.DisplayName() != "p9" {
		t.Fatalf("display name = %q, want id", p.DisplayName())
	}
	if len(p.Trail) != 2 || p.Trail[1] != (Coord{1, 2}) {
		t.Fatalf("trail = %v", p.Trail)
	}

	r.MergeTrail("p9", nil)
	if p.Trail == nil || len(p.Trail) != 0 {
		t.Fatalf("nil trail should become empty, got %v", p.Trail)
	}
}

func TestMergeSnapshotReplacesTrailWhenProvided(t *testing.T) {
	r := NewRegistry()
	r.MergeTrail("p1", []Coord{{0, 1}})
	r.MergeSnapshot(map[string]PlayerPatch{"p1": {Score: intp(1)}})
	p, _ := r.Get("p1")
	if len(p.Trail) != 1 {
		t.Fatalf("absent trail should be kept, got %v", p.Trail)
	}
	r.MergeSnapshot(map[string]PlayerPatch{"p1": {Trail: trailp([]Coord{})}})
	if len(p.Trail) != 0 {
		t.Fatalf("provided trail should replace, got %v", p.Trail)
	}
}

func TestReplaceSnapshotDropsUnlistedPlayers(t *testing.T) {
	r := NewRegistry()
	r.MergeSnapshot(map[string]PlayerPatch{"old": {}, "keep": {Score: intp(4)}})
	r.ReplaceSnapshot(map[string]PlayerPatch{"keep": {}})
	if _, ok := r.Get("old"); ok {
		t.Fatalf("replace kept a player absent from the snapshot")
	}
	if got := r.LocalScore("keep"); got != 0 {
		t.Fatalf("replace should rebuild records from scratch, score = %d", got)
	}
}

func TestLocalScoreUnknownIsZero(t *testing.T) {
	r := NewRegistry()
	if got := r.LocalScore("nobody"); got != 0 {
		t.Fatalf("score = %d, want 0", got)
	}
}

func TestRankingOrdersByScoreWithStableTies(t *testing.T) {
	r := NewRegistry()
	r.MergeSnapshot(map[string]PlayerPatch{
		"a": {Score: intp(3)},
		"b": {Score: intp(10)},
		"c": {Score: intp(10)},
		"d": {Score: intp(0)},
	})
	for i := 0; i < 5; i++ {
		ranking := r.Ranking()
		got := []string{ranking[0].ID, ranking[1].ID, ranking[2].ID, ranking[3].ID}
		want := []string{"b", "c", "a", "d"}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("ranking = %v, want %v", got, want)
			}
		}
	}
}
