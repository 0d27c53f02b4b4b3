package network_state

import "sort"

// Registry owns every player record seen during the session. Records are never removed
// by incremental updates; only a fresh bootstrap replaces the whole set.
type Registry struct {
	players map[string]*PlayerRecord
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*PlayerRecord)}
}

// getOrCreate returns the record for id, creating it with defaults and seeding its render
// position from the logical position the first patch carries.
func (r *Registry) getOrCreate(id string, first PlayerPatch) *PlayerRecord {
	if p, ok := r.players[id]; ok {
		return p
	}
	p := newPlayerRecord(id)
	p.apply(first)
	p.RenderX, p.RenderY = p.TargetPixel()
	p.normalize()
	r.players[id] = p
	return p
}

// MergeSnapshot creates or updates a record per id, copying only the provided fields.
func (r *Registry) MergeSnapshot(patches map[string]PlayerPatch) {
	for id, patch := range patches {
		if _, seen := r.players[id]; !seen {
			r.getOrCreate(id, patch)
			continue
		}
		p := r.players[id]
		p.apply(patch)
		p.normalize()
	}
}

// ReplaceSnapshot discards every record and rebuilds the set from the snapshot.
func (r *Registry) ReplaceSnapshot(patches map[string]PlayerPatch) {
	r.players = make(map[string]*PlayerRecord, len(patches))
	r.MergeSnapshot(patches)
}

// MergeTrail replaces the trail of id, creating a default record for unseen players.
func (r *Registry) MergeTrail(id string, trail []Coord) {
	p := r.getOrCreate(id, PlayerPatch{})
	if trail == nil {
		trail = []Coord{}
	}
	p.Trail = trail
}

func (r *Registry) Get(id string) (*PlayerRecord, bool) {
	p, ok := r.players[id]
	return p, ok
}

func (r *Registry) Len() int {
	return len(r.players)
}

// LocalScore returns the score of id, 0 when the player is unknown.
func (r *Registry) LocalScore(id string) int {
	if p, ok := r.players[id]; ok {
		return p.Score
	}
	return 0
}

// IDs returns all known ids in ascending order, the stable draw order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Each visits records in IDs order.
func (r *Registry) Each(fn func(p *PlayerRecord)) {
	for _, id := range r.IDs() {
		fn(r.players[id])
	}
}

// Ranking orders records by descending score; ties keep ascending id order.
func (r *Registry) Ranking() []*PlayerRecord {
	out := make([]*PlayerRecord, 0, len(r.players))
	r.Each(func(p *PlayerRecord) {
		out = append(out, p)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
