package ecs

// Entity encodes a 32-bit id in the lower bits and a 32-bit version in the
// upper bits. The version increments on destroy to invalidate stale handles.
type Entity uint64

// nullID is never issued by the registry.
const nullID uint32 = 0xFFFFFFFF

// NullEntity never compares equal to a live entity.
const NullEntity = Entity(nullID)

func MakeEntity(id uint32, version uint32) Entity {
	return Entity(uint64(version)<<32 | uint64(id))
}

func (e Entity) ID() uint32      { return uint32(e) }
func (e Entity) Version() uint32 { return uint32(e >> 32) }
func (e Entity) IsNull() bool    { return e.ID() == nullID }

type slot struct {
	version uint32
	alive   bool
}

// EntityRegistry manages entity allocation with versioned ids and a LIFO free list.
type EntityRegistry struct {
	slots    []slot
	freeList []uint32
	alive    int
}

func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{
		slots:    make([]slot, 0, 1024),
		freeList: make([]uint32, 0, 256),
	}
}

func (r *EntityRegistry) Create() Entity {
	r.alive++
	if len(r.freeList) > 0 {
		id := r.freeList[len(r.freeList)-1]
		r.freeList = r.freeList[:len(r.freeList)-1]
		r.slots[id].alive = true
		return MakeEntity(id, r.slots[id].version)
	}
	id := uint32(len(r.slots))
	if id == nullID {
		panic("ecs: entity id space exhausted")
	}
	r.slots = append(r.slots, slot{alive: true})
	return MakeEntity(id, 0)
}

func (r *EntityRegistry) Valid(e Entity) bool {
	id := e.ID()
	if int(id) >= len(r.slots) {
		return false
	}
	s := r.slots[id]
	return s.alive && s.version == e.Version()
}

// Destroy frees the id for reuse. Reports false for stale or dead handles.
func (r *EntityRegistry) Destroy(e Entity) bool {
	if !r.retire(e) {
		return false
	}
	r.release(e.ID())
	return true
}

// retire makes e invalid without releasing its id, so nothing can attach to
// it or reuse the id while its components are torn down.
func (r *EntityRegistry) retire(e Entity) bool {
	if !r.Valid(e) {
		return false
	}
	r.slots[e.ID()].alive = false
	r.alive--
	return true
}

// release bumps the version of a retired id and pushes it on the free list.
func (r *EntityRegistry) release(id uint32) {
	r.slots[id].version++ // wraps after 2^32 reuses; accepted
	r.freeList = append(r.freeList, id)
}

// Alive returns the number of live entities.
func (r *EntityRegistry) Alive() int { return r.alive }

// Cap returns the size of the id space issued so far.
func (r *EntityRegistry) Cap() int { return len(r.slots) }

// releaseAll destroys every live entity. Versions are kept, so handles
// issued before stay invalid once their ids are reissued.
func (r *EntityRegistry) releaseAll() {
	for id := range r.slots {
		if r.slots[id].alive {
			r.slots[id].alive = false
			r.release(uint32(id))
		}
	}
	r.alive = 0
}
