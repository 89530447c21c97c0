package ecs

import (
	"fmt"
	"unsafe"
)

// MaxViewTypes bounds the number of component types a View can join.
const MaxViewTypes = 16

// Views are transient iterators. No entity may be created or destroyed and no
// component of a viewed type may be added or removed while a view is in use;
// the pools' structural generations are checked on every step and a
// violation panics with ErrViewInvalidated. Use MarkForDestruction to destroy
// from inside a loop.

// SingleView walks every entity holding one component type in dense order.
//
//	for v := w.NewSingleView(t); v.Valid(); v.Next() { ... }
type SingleView struct {
	pool *pool
	gen  uint64
	idx  int
}

func (w *World) NewSingleView(t *ComponentType) SingleView {
	p := w.pools.lookup(t)
	if p == nil {
		return SingleView{}
	}
	return SingleView{pool: p, gen: p.gen}
}

func (v *SingleView) Valid() bool {
	return v.pool != nil && v.idx < len(v.pool.dense)
}

// Next advances the cursor. It panics with ErrViewInvalidated if the pool
// was mutated, even when the mutation shrank it below the cursor.
func (v *SingleView) Next() {
	if v.pool == nil {
		return
	}
	v.check()
	if v.idx < len(v.pool.dense) {
		v.idx++
	}
}

// Entity returns the entity under the cursor, or NullEntity past the end.
func (v *SingleView) Entity() Entity {
	if !v.Valid() {
		return NullEntity
	}
	return v.pool.dense[v.idx]
}

// Get returns the component under the cursor, or nil past the end.
func (v *SingleView) Get() unsafe.Pointer {
	if !v.Valid() {
		return nil
	}
	v.check()
	return v.pool.data.at(v.idx)
}

func (v *SingleView) check() {
	if v.pool.gen != v.gen {
		panic(fmt.Errorf("%w: %s", ErrViewInvalidated, v.pool.typ))
	}
}

// View walks the entities holding every one of its component types. It is
// driven by the smallest pool; the others are only checked for membership.
//
//	for v := w.MustView(a, b); v.Valid(); v.Next() { ... }
type View struct {
	types [MaxViewTypes]*ComponentType
	pools [MaxViewTypes]*pool
	gens  [MaxViewTypes]uint64
	count int
	drive int
	idx   int
	// empty is set when a type has never been used in the World.
	empty bool
}

// NewView resolves types to pools and positions the cursor on the first
// matching entity.
func (w *World) NewView(types ...*ComponentType) (View, error) {
	var v View
	if len(types) == 0 {
		return v, ErrNoTypes
	}
	if len(types) > MaxViewTypes {
		return v, fmt.Errorf("%w: %d > %d", ErrTooManyTypes, len(types), MaxViewTypes)
	}
	v.count = len(types)
	for i, t := range types {
		p := w.pools.lookup(t)
		v.types[i] = t
		if p == nil {
			v.empty = true
			continue
		}
		v.pools[i] = p
		v.gens[i] = p.gen
	}
	if v.empty {
		return v, nil
	}
	for i := 1; i < v.count; i++ {
		if v.pools[i].Len() < v.pools[v.drive].Len() {
			v.drive = i
		}
	}
	v.seek()
	return v, nil
}

// MustView is like NewView but panics on error.
func (w *World) MustView(types ...*ComponentType) View {
	v, err := w.NewView(types...)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *View) Valid() bool {
	return !v.empty && v.idx < len(v.pools[v.drive].dense)
}

func (v *View) Next() {
	if v.empty {
		return
	}
	v.check()
	if v.idx < len(v.pools[v.drive].dense) {
		v.idx++
		v.seek()
	}
}

// Entity returns the entity under the cursor, or NullEntity past the end.
func (v *View) Entity() Entity {
	if !v.Valid() {
		return NullEntity
	}
	return v.pools[v.drive].dense[v.idx]
}

// Get returns the current entity's component of type t, or nil if t is not
// part of the view or the cursor is past the end.
func (v *View) Get(t *ComponentType) unsafe.Pointer {
	if !v.Valid() {
		return nil
	}
	v.check()
	for i := 0; i < v.count; i++ {
		if v.types[i] != t {
			continue
		}
		if i == v.drive {
			return v.pools[i].data.at(v.idx)
		}
		return v.pools[i].get(v.pools[v.drive].dense[v.idx])
	}
	return nil
}

// seek advances idx to the first driving entry present in every other pool.
func (v *View) seek() {
	dense := v.pools[v.drive].dense
	for ; v.idx < len(dense); v.idx++ {
		if v.matches(dense[v.idx]) {
			return
		}
	}
}

func (v *View) matches(e Entity) bool {
	for i := 0; i < v.count; i++ {
		if i != v.drive && !v.pools[i].has(e) {
			return false
		}
	}
	return true
}

func (v *View) check() {
	for i := 0; i < v.count; i++ {
		if v.pools[i].gen != v.gens[i] {
			panic(fmt.Errorf("%w: %s", ErrViewInvalidated, v.types[i]))
		}
	}
}
