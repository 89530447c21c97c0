package ecs

// poolRegistry tracks every component pool of a World, indexed by type id and
// in creation order, and supports bulk removal on entity destroy.
type poolRegistry struct {
	byType []*pool
	pools  []*pool
}

func newPoolRegistry() *poolRegistry {
	return &poolRegistry{
		byType: make([]*pool, 0, 64),
		pools:  make([]*pool, 0, 16),
	}
}

// lookup returns the pool for t, or nil if t was never used in this World.
func (r *poolRegistry) lookup(t *ComponentType) *pool {
	if int(t.id) >= len(r.byType) {
		return nil
	}
	return r.byType[t.id]
}

// ensure returns the pool for t, creating it on first use.
func (r *poolRegistry) ensure(t *ComponentType) (*pool, bool) {
	if p := r.lookup(t); p != nil {
		return p, false
	}
	for len(r.byType) <= int(t.id) {
		r.byType = append(r.byType, nil)
	}
	p := newPool(t)
	r.byType[t.id] = p
	r.pools = append(r.pools, p)
	return p, true
}

// removeAll clears e from every pool in creation order, running destroy
// callbacks. Pools created by a callback during the walk are visited too.
func (r *poolRegistry) removeAll(w *World, e Entity) {
	for i := 0; i < len(r.pools); i++ {
		r.pools[i].remove(w, e)
	}
}

func (r *poolRegistry) reset() {
	clear(r.byType)
	r.byType = r.byType[:0]
	clear(r.pools)
	r.pools = r.pools[:0]
}
