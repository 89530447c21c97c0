package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPacking(t *testing.T) {
	e := MakeEntity(7, 3)
	assert.Equal(t, uint32(7), e.ID())
	assert.Equal(t, uint32(3), e.Version())
	assert.Equal(t, Entity(7|3<<32), e)
	assert.True(t, NullEntity.IsNull())
	assert.False(t, e.IsNull())
}

func TestRegistryCreateDistinct(t *testing.T) {
	r := NewEntityRegistry()
	seen := make(map[Entity]bool)
	for i := 0; i < 100; i++ {
		e := r.Create()
		require.False(t, seen[e], "duplicate handle %d", e)
		seen[e] = true
	}
	for e := range seen {
		assert.True(t, r.Valid(e))
	}
	assert.Equal(t, 100, r.Alive())
}

func TestRegistryDestroyAndReuse(t *testing.T) {
	r := NewEntityRegistry()
	a := r.Create()
	b := r.Create()

	require.True(t, r.Destroy(a))
	assert.False(t, r.Valid(a))
	assert.True(t, r.Valid(b))

	// stale and repeated destroys are ignored
	assert.False(t, r.Destroy(a))

	c := r.Create()
	assert.Equal(t, a.ID(), c.ID(), "free id is reused")
	assert.Equal(t, a.Version()+1, c.Version())
	assert.NotEqual(t, a, c)
	assert.False(t, r.Valid(a))
	assert.True(t, r.Valid(c))
	assert.False(t, r.Destroy(a), "stale handle must not destroy the new occupant")
	assert.True(t, r.Valid(c))
}

func TestRegistryFreeListIsLIFO(t *testing.T) {
	r := NewEntityRegistry()
	a, b := r.Create(), r.Create()
	r.Destroy(a)
	r.Destroy(b)
	assert.Equal(t, b.ID(), r.Create().ID())
	assert.Equal(t, a.ID(), r.Create().ID())
	assert.Equal(t, 2, r.Cap())
}

func TestRegistryRejectsUnknownIDs(t *testing.T) {
	r := NewEntityRegistry()
	assert.False(t, r.Valid(MakeEntity(0, 0)))
	assert.False(t, r.Valid(NullEntity))
	assert.False(t, r.Destroy(MakeEntity(5, 0)))
}

func TestRegistryReleaseAllKeepsVersions(t *testing.T) {
	r := NewEntityRegistry()
	a, b := r.Create(), r.Create()
	r.Destroy(b)

	r.releaseAll()
	assert.Equal(t, 0, r.Alive())
	assert.False(t, r.Valid(a))

	c := r.Create()
	assert.Equal(t, a.ID(), c.ID())
	assert.Equal(t, uint32(1), c.Version())
	d := r.Create()
	assert.Equal(t, b.ID(), d.ID())
	assert.Equal(t, uint32(1), d.Version(), "dead slots keep their version")
	assert.Equal(t, 2, r.Cap())
}
