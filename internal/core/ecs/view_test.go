package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagC struct{}

type viewFixture struct {
	w          *World
	a          Component[position]
	b          Component[velocity]
	c          Component[tagC]
	e1, e2, e3 Entity
}

// e1 has A,B; e2 has A; e3 has A,B,C.
func newViewFixture(t *testing.T) viewFixture {
	t.Helper()
	f := viewFixture{
		w: NewWorld(),
		a: NewComponent[position]("a"),
		b: NewComponent[velocity]("b"),
		c: NewComponent[tagC]("c"),
	}
	f.e1, f.e2, f.e3 = f.w.NewEntity(), f.w.NewEntity(), f.w.NewEntity()
	for i, e := range []Entity{f.e1, f.e2, f.e3} {
		_, err := f.a.Add(f.w, e, position{X: float32(i + 1)})
		require.NoError(t, err)
	}
	_, err := f.b.Add(f.w, f.e1, velocity{Y: 1})
	require.NoError(t, err)
	_, err = f.b.Add(f.w, f.e3, velocity{Y: 3})
	require.NoError(t, err)
	_, err = f.c.Add(f.w, f.e3, tagC{})
	require.NoError(t, err)
	return f
}

func TestViewIntersection(t *testing.T) {
	f := newViewFixture(t)

	got, err := Collect(f.w, f.a.Type(), f.b.Type())
	require.NoError(t, err)
	assert.ElementsMatch(t, []Entity{f.e1, f.e3}, got)

	got, err = Collect(f.w, f.a.Type(), f.b.Type(), f.c.Type())
	require.NoError(t, err)
	assert.Equal(t, []Entity{f.e3}, got)

	f.b.Remove(f.w, f.e1)
	got, err = Collect(f.w, f.a.Type(), f.b.Type())
	require.NoError(t, err)
	assert.Equal(t, []Entity{f.e3}, got)
}

func TestViewGet(t *testing.T) {
	f := newViewFixture(t)
	seen := map[Entity]float32{}
	for v := f.w.MustView(f.a.Type(), f.b.Type()); v.Valid(); v.Next() {
		pos := f.a.In(&v)
		vel := f.b.In(&v)
		require.NotNil(t, pos)
		require.NotNil(t, vel)
		assert.Same(t, f.a.Get(f.w, v.Entity()), pos)
		assert.Same(t, f.b.Get(f.w, v.Entity()), vel)
		assert.Nil(t, v.Get(f.c.Type()), "types outside the view resolve to nil")
		seen[v.Entity()] = pos.X + vel.Y
	}
	assert.Equal(t, map[Entity]float32{f.e1: 2, f.e3: 6}, seen)
}

func TestViewDrivesFromSmallestPool(t *testing.T) {
	f := newViewFixture(t)
	v := f.w.MustView(f.a.Type(), f.b.Type(), f.c.Type())
	assert.Equal(t, 2, v.drive, "c has one entity")
	v = f.w.MustView(f.a.Type(), f.b.Type())
	assert.Equal(t, 1, v.drive)
}

func TestViewEachEntityOnce(t *testing.T) {
	w := NewWorld()
	a := NewComponent[position]("a")
	b := NewComponent[velocity]("b")
	want := map[Entity]bool{}
	for i := 0; i < 200; i++ {
		e := w.NewEntity()
		_, _ = a.Add(w, e, position{})
		if i%3 == 0 {
			_, _ = b.Add(w, e, velocity{})
			want[e] = true
		}
	}
	// churn the pools so dense order diverges from id order
	for i := 0; i < 200; i += 7 {
		e := MakeEntity(uint32(i), 0)
		a.Remove(w, e)
		delete(want, e)
	}

	got := map[Entity]int{}
	Each2(w, a, b, func(e Entity, _ *position, _ *velocity) { got[e]++ })
	assert.Len(t, got, len(want))
	for e, n := range got {
		assert.True(t, want[e])
		assert.Equal(t, 1, n)
	}
}

func TestViewUnknownTypeIsEmpty(t *testing.T) {
	f := newViewFixture(t)
	never := NewComponent[health]("never")
	v := f.w.MustView(f.a.Type(), never.Type())
	assert.False(t, v.Valid())
	assert.Equal(t, NullEntity, v.Entity())
	assert.Nil(t, v.Get(f.a.Type()))
	v.Next()
	assert.False(t, v.Valid())

	sv := f.w.NewSingleView(never.Type())
	assert.False(t, sv.Valid())
	assert.Nil(t, sv.Get())
}

func TestViewTypeCountLimits(t *testing.T) {
	w := NewWorld()
	_, err := w.NewView()
	assert.ErrorIs(t, err, ErrNoTypes)

	types := make([]*ComponentType, MaxViewTypes+1)
	for i := range types {
		types[i] = NewRawType("t", 4, 4)
	}
	_, err = w.NewView(types...)
	assert.ErrorIs(t, err, ErrTooManyTypes)
	assert.Panics(t, func() { w.MustView(types...) })

	_, err = w.NewView(types[:MaxViewTypes]...)
	assert.NoError(t, err)
}

func TestViewDetectsMutation(t *testing.T) {
	f := newViewFixture(t)
	assert.PanicsWithError(t, ErrViewInvalidated.Error()+": "+f.b.Type().String(), func() {
		for v := f.w.MustView(f.a.Type(), f.b.Type()); v.Valid(); v.Next() {
			f.b.Remove(f.w, v.Entity())
		}
	})
}

func TestViewDetectsShrinkBelowCursor(t *testing.T) {
	f := newViewFixture(t)
	visits := 0
	assert.PanicsWithError(t, ErrViewInvalidated.Error()+": "+f.a.Type().String(), func() {
		for v := f.w.NewSingleView(f.a.Type()); v.Valid(); v.Next() {
			visits++
			for _, e := range []Entity{f.e1, f.e2, f.e3} {
				f.a.Remove(f.w, e)
			}
		}
	})
	assert.Equal(t, 1, visits)

	g := newViewFixture(t)
	assert.Panics(t, func() {
		for v := g.w.MustView(g.a.Type(), g.b.Type()); v.Valid(); v.Next() {
			g.b.Remove(g.w, g.e1)
			g.b.Remove(g.w, g.e3)
		}
	})
}

func TestViewToleratesUnrelatedMutation(t *testing.T) {
	f := newViewFixture(t)
	other := NewComponent[health]("other")
	n := 0
	for v := f.w.MustView(f.a.Type(), f.b.Type()); v.Valid(); v.Next() {
		_, err := other.Add(f.w, v.Entity(), health{HP: 1})
		require.NoError(t, err)
		f.a.In(&v).X = 0 // writes through borrows are fine
		n++
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, other.Count(f.w))
}

func TestNestedViews(t *testing.T) {
	f := newViewFixture(t)
	pairs := 0
	for outer := f.w.MustView(f.a.Type(), f.b.Type()); outer.Valid(); outer.Next() {
		for inner := f.w.NewSingleView(f.a.Type()); inner.Valid(); inner.Next() {
			pairs++
		}
	}
	assert.Equal(t, 2*3, pairs)
}

func TestSingleViewDenseOrder(t *testing.T) {
	f := newViewFixture(t)
	f.a.Remove(f.w, f.e1)

	var order []Entity
	Each(f.w, f.a, func(e Entity, p *position) {
		order = append(order, e)
		assert.Equal(t, f.a.Get(f.w, e), p)
	})
	// e3 was relocated into e1's slot
	assert.Equal(t, []Entity{f.e3, f.e2}, order)
}

func TestEach3(t *testing.T) {
	f := newViewFixture(t)
	n := 0
	Each3(f.w, f.a, f.b, f.c, func(e Entity, p *position, v *velocity, _ *tagC) {
		assert.Equal(t, f.e3, e)
		assert.Equal(t, float32(3), p.X)
		assert.Equal(t, float32(3), v.Y)
		n++
	})
	assert.Equal(t, 1, n)
}
