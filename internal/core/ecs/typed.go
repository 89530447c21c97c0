package ecs

import "unsafe"

// Component is a typed handle over a ComponentType.
//
//	var Transform = ecs.NewComponent[Transform]("transform")
//	t, err := Transform.Add(w, e, Transform{...})
type Component[T any] struct {
	typ *ComponentType
}

// NewComponent allocates a new descriptor for T. Call it once per logical
// type, typically in a package-level var block.
func NewComponent[T any](name string) Component[T] {
	return Component[T]{typ: typeOf[T](name)}
}

func (c Component[T]) Type() *ComponentType { return c.typ }

func (c Component[T]) Add(w *World, e Entity, v T) (*T, error) {
	p, err := w.AddComponent(e, c.typ, unsafe.Pointer(&v))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Get returns a borrow of e's record, or nil.
func (c Component[T]) Get(w *World, e Entity) *T {
	return (*T)(w.GetComponent(e, c.typ))
}

// Copy returns a copy of e's record that survives later pool mutations.
func (c Component[T]) Copy(w *World, e Entity) (T, bool) {
	if p := c.Get(w, e); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

func (c Component[T]) Has(w *World, e Entity) bool {
	return w.HasComponent(e, c.typ)
}

func (c Component[T]) Remove(w *World, e Entity) {
	w.RemoveComponent(e, c.typ)
}

func (c Component[T]) Count(w *World) int {
	return w.Count(c.typ)
}

// OnCreate replaces the create callback of T in w.
func (c Component[T]) OnCreate(w *World, fn func(w *World, e Entity, v *T)) {
	w.SetComponentCreateFunc(c.typ, wrap(fn))
}

// OnDestroy replaces the destroy callback of T in w.
func (c Component[T]) OnDestroy(w *World, fn func(w *World, e Entity, v *T)) {
	w.SetComponentDestroyFunc(c.typ, wrap(fn))
}

// WithCreate is the NewWorld option form of OnCreate.
func (c Component[T]) WithCreate(fn func(w *World, e Entity, v *T)) Option {
	return WithCreateFunc(c.typ, wrap(fn))
}

// WithDestroy is the NewWorld option form of OnDestroy.
func (c Component[T]) WithDestroy(fn func(w *World, e Entity, v *T)) Option {
	return WithDestroyFunc(c.typ, wrap(fn))
}

// In returns the current entity's record from a multi-type view.
func (c Component[T]) In(v *View) *T {
	return (*T)(v.Get(c.typ))
}

// At returns the record under a single view's cursor.
func (c Component[T]) At(v *SingleView) *T {
	return (*T)(v.Get())
}

func wrap[T any](fn func(*World, Entity, *T)) ComponentFunc {
	if fn == nil {
		return nil
	}
	return func(w *World, e Entity, p unsafe.Pointer) {
		fn(w, e, (*T)(p))
	}
}
