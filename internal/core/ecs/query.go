package ecs

// Each calls fn for every entity holding A.
func Each[A any](w *World, ca Component[A], fn func(Entity, *A)) {
	for v := w.NewSingleView(ca.typ); v.Valid(); v.Next() {
		fn(v.Entity(), ca.At(&v))
	}
}

// Each2 iterates over entities that have both component A and B.
// It drives from the smaller pool and checks membership in the larger one.
func Each2[A, B any](w *World, ca Component[A], cb Component[B], fn func(Entity, *A, *B)) {
	for v := w.MustView(ca.typ, cb.typ); v.Valid(); v.Next() {
		fn(v.Entity(), ca.In(&v), cb.In(&v))
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](w *World, ca Component[A], cb Component[B], cc Component[C], fn func(Entity, *A, *B, *C)) {
	for v := w.MustView(ca.typ, cb.typ, cc.typ); v.Valid(); v.Next() {
		fn(v.Entity(), ca.In(&v), cb.In(&v), cc.In(&v))
	}
}

// Collect returns the entities of a view in iteration order.
func Collect(w *World, types ...*ComponentType) ([]Entity, error) {
	v, err := w.NewView(types...)
	if err != nil {
		return nil, err
	}
	var out []Entity
	for ; v.Valid(); v.Next() {
		out = append(out, v.Entity())
	}
	return out, nil
}
