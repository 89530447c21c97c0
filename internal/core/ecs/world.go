package ecs

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// World is the top-level ECS container. It owns the entity registry, every
// component pool, and a deferred destruction queue flushed by the cleanup
// system each tick.
//
// A World is not safe for concurrent use. Pointers returned by GetComponent,
// AddComponent and view accessors are borrows: they are valid until the next
// add or remove on the owning pool, which may relocate records.
type World struct {
	entities     *EntityRegistry
	pools        *poolRegistry
	callbacks    map[*ComponentType]callbacks
	destroyQueue []Entity
	log          *zap.Logger
}

// callbacks is the World-level table pools copy from when they are created.
type callbacks struct {
	onCreate  ComponentFunc
	onDestroy ComponentFunc
}

// Option configures a World at construction.
type Option func(*World)

func WithLogger(log *zap.Logger) Option {
	return func(w *World) { w.log = log }
}

// WithCreateFunc registers the create callback for t.
func WithCreateFunc(t *ComponentType, fn ComponentFunc) Option {
	return func(w *World) { w.SetComponentCreateFunc(t, fn) }
}

// WithDestroyFunc registers the destroy callback for t.
func WithDestroyFunc(t *ComponentType, fn ComponentFunc) Option {
	return func(w *World) { w.SetComponentDestroyFunc(t, fn) }
}

func NewWorld(opts ...Option) *World {
	w := &World{
		entities:     NewEntityRegistry(),
		pools:        newPoolRegistry(),
		callbacks:    make(map[*ComponentType]callbacks),
		destroyQueue: make([]Entity, 0, 64),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Free releases every pool and destroys every live entity. Destroy callbacks
// are not run. The World is empty afterwards and may be reused: entity
// versions survive, so handles issued before Free stay invalid, and the
// callback table is kept.
func (w *World) Free() {
	for _, p := range w.pools.pools {
		p.clear()
	}
	w.pools.reset()
	w.entities.releaseAll()
	w.destroyQueue = w.destroyQueue[:0]
}

func (w *World) NewEntity() Entity {
	return w.entities.Create()
}

func (w *World) EntityValid(e Entity) bool {
	return w.entities.Valid(e)
}

// DestroyEntity removes every component attached to e, running destroy
// callbacks in pool creation order, then frees the id. Invalid handles are
// ignored. e is already invalid while the callbacks run: adding to it fails
// and destroying it again is a no-op.
func (w *World) DestroyEntity(e Entity) {
	if !w.entities.Valid(e) {
		w.log.Debug("destroy of invalid entity ignored",
			zap.Uint32("id", e.ID()), zap.Uint32("version", e.Version()))
		return
	}
	w.entities.retire(e)
	w.pools.removeAll(w, e)
	w.entities.release(e.ID())
}

// MarkForDestruction queues e for FlushDestroyQueue. Safe to call while
// iterating a view.
func (w *World) MarkForDestruction(e Entity) {
	w.destroyQueue = append(w.destroyQueue, e)
}

// FlushDestroyQueue destroys all queued entities and returns how many were
// still valid. Entities queued by destroy callbacks during the flush are
// destroyed in the same call.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for i := 0; i < len(w.destroyQueue); i++ {
		e := w.destroyQueue[i]
		if w.entities.Valid(e) {
			w.DestroyEntity(e)
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

// AddComponent copies the record at init (zero value when nil) into t's pool
// and returns a pointer to the stored record after t's create callback ran.
// Adding a type the entity already has overwrites it and reruns the callback.
func (w *World) AddComponent(e Entity, t *ComponentType, init unsafe.Pointer) (unsafe.Pointer, error) {
	if !w.entities.Valid(e) {
		return nil, fmt.Errorf("add %s to entity %d: %w", t.name, e.ID(), ErrInvalidEntity)
	}
	return w.pool(t).insert(w, e, init), nil
}

// RemoveComponent is a no-op when e lacks t.
func (w *World) RemoveComponent(e Entity, t *ComponentType) {
	if p := w.pools.lookup(t); p != nil {
		p.remove(w, e)
	}
}

func (w *World) HasComponent(e Entity, t *ComponentType) bool {
	p := w.pools.lookup(t)
	return p != nil && p.has(e)
}

// GetComponent returns nil when e lacks t.
func (w *World) GetComponent(e Entity, t *ComponentType) unsafe.Pointer {
	p := w.pools.lookup(t)
	if p == nil {
		return nil
	}
	return p.get(e)
}

// SetComponentCreateFunc replaces the create callback of t. nil clears it.
func (w *World) SetComponentCreateFunc(t *ComponentType, fn ComponentFunc) {
	cb := w.callbacks[t]
	cb.onCreate = fn
	w.callbacks[t] = cb
	if p := w.pools.lookup(t); p != nil {
		p.onCreate = fn
	}
}

// SetComponentDestroyFunc replaces the destroy callback of t. nil clears it.
func (w *World) SetComponentDestroyFunc(t *ComponentType, fn ComponentFunc) {
	cb := w.callbacks[t]
	cb.onDestroy = fn
	w.callbacks[t] = cb
	if p := w.pools.lookup(t); p != nil {
		p.onDestroy = fn
	}
}

// Count returns the number of entities holding t.
func (w *World) Count(t *ComponentType) int {
	if p := w.pools.lookup(t); p != nil {
		return p.Len()
	}
	return 0
}

func (w *World) pool(t *ComponentType) *pool {
	p, created := w.pools.ensure(t)
	if created {
		cb := w.callbacks[t]
		p.onCreate, p.onDestroy = cb.onCreate, cb.onDestroy
		w.log.Debug("component pool created", zap.Stringer("type", t))
	}
	return p
}

// TypeCount is the live record count of one component type.
type TypeCount struct {
	Type  string
	Count int
}

// Stats summarizes a World.
type Stats struct {
	Entities   int
	IDSpace    int
	Pending    int
	Components []TypeCount
}

// Stats lists live entities and per-type counts in pool creation order.
func (w *World) Stats() Stats {
	s := Stats{
		Entities:   w.entities.Alive(),
		IDSpace:    w.entities.Cap(),
		Pending:    len(w.destroyQueue),
		Components: make([]TypeCount, 0, len(w.pools.pools)),
	}
	for _, p := range w.pools.pools {
		s.Components = append(s.Components, TypeCount{Type: p.typ.name, Count: p.Len()})
	}
	return s
}
