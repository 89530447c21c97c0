package ecs

import "unsafe"

const absent uint32 = 0xFFFFFFFF

// pool is the sparse-set store for one component type.
// sparse[e.ID()] indexes dense and the column; dense and the column are kept
// in lock step with no holes.
type pool struct {
	typ       *ComponentType
	sparse    []uint32
	dense     []Entity
	data      column
	onCreate  ComponentFunc
	onDestroy ComponentFunc
	// removing holds entities whose destroy callback is running.
	removing []Entity
	// gen increments on every append and removal; overwrites leave it alone.
	gen uint64
}

func newPool(t *ComponentType) *pool {
	return &pool{
		typ:    t,
		sparse: make([]uint32, 0, 256),
		dense:  make([]Entity, 0, 64),
		data:   t.newColumn(),
	}
}

func (p *pool) Len() int { return len(p.dense) }

// index returns the dense slot holding e, or -1.
func (p *pool) index(e Entity) int {
	id := e.ID()
	if int(id) >= len(p.sparse) {
		return -1
	}
	i := p.sparse[id]
	if i == absent || p.dense[i] != e {
		return -1
	}
	return int(i)
}

func (p *pool) has(e Entity) bool {
	return p.index(e) >= 0
}

func (p *pool) get(e Entity) unsafe.Pointer {
	i := p.index(e)
	if i < 0 {
		return nil
	}
	return p.data.at(i)
}

// insert places the record and runs the create callback. A second insert for
// the same entity overwrites in place and runs the callback again.
func (p *pool) insert(w *World, e Entity, src unsafe.Pointer) unsafe.Pointer {
	i := p.index(e)
	if i >= 0 {
		p.data.store(i, src)
	} else {
		id := int(e.ID())
		for len(p.sparse) <= id {
			p.sparse = append(p.sparse, absent)
		}
		// A stale occupant of this id cannot exist: DestroyEntity retires
		// the handle before clearing pools and releases the id after.
		i = len(p.dense)
		p.dense = append(p.dense, e)
		p.data.push(src)
		p.sparse[id] = uint32(i)
		p.gen++
	}
	if p.onCreate != nil {
		p.onCreate(w, e, p.data.at(i))
		// the callback may have touched this pool
		return p.get(e)
	}
	return p.data.at(i)
}

// remove runs the destroy callback and swap-removes e. Reports whether e was
// removed. A remove of e issued from e's own destroy callback is a no-op.
func (p *pool) remove(w *World, e Entity) bool {
	i := p.index(e)
	if i < 0 || p.isRemoving(e) {
		return false
	}
	if p.onDestroy != nil {
		p.removing = append(p.removing, e)
		p.onDestroy(w, e, p.data.at(i))
		p.removing = p.removing[:len(p.removing)-1]
		// the callback may have moved e
		i = p.index(e)
	}
	last := len(p.dense) - 1
	if i != last {
		moved := p.dense[last]
		p.dense[i] = moved
		p.sparse[moved.ID()] = uint32(i)
	}
	p.data.swapRemove(i)
	p.dense = p.dense[:last]
	p.sparse[e.ID()] = absent
	p.gen++
	return true
}

func (p *pool) isRemoving(e Entity) bool {
	for _, r := range p.removing {
		if r == e {
			return true
		}
	}
	return false
}

func (p *pool) clear() {
	p.sparse = p.sparse[:0]
	p.dense = p.dense[:0]
	p.data.clear()
	p.gen++
}
