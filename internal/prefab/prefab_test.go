package prefab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/component"
	"github.com/cavern/cavern/internal/core/ecs"
	"github.com/cavern/cavern/internal/core/event"
	"github.com/cavern/cavern/internal/data"
)

func newSpawner(t *testing.T) (*Spawner, *ecs.World, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	w := ecs.NewWorld(Hooks(bus)...)
	return NewSpawner(w, bus, zap.NewNop()), w, bus
}

func TestBatAnchorsAtTransform(t *testing.T) {
	s, w, _ := newSpawner(t)
	e, err := s.Bat("cave", component.Vec2{X: 100, Y: 250}, "")
	require.NoError(t, err)

	bat := component.Bats.Get(w, e)
	require.NotNil(t, bat)
	assert.Equal(t, component.Vec2{X: 100, Y: 250}, bat.Anchor)
	assert.Equal(t, 250.0, bat.Offset)
	assert.False(t, component.PathFollowers.Has(w, e))
	assert.Equal(t, "cave", component.RoomChildren.Get(w, e).Room)
	assert.Equal(t, 1, component.Enemies.Get(w, e).HP)
}

func TestBatWithPathFollows(t *testing.T) {
	s, w, _ := newSpawner(t)
	e, err := s.Bat("cave", component.Vec2{}, "loop")
	require.NoError(t, err)
	f := component.PathFollowers.Get(w, e)
	require.NotNil(t, f)
	assert.True(t, f.FirstFrame)
	assert.Equal(t, float32(100), f.Speed)
	assert.Equal(t, "loop", f.PathName)
}

func TestSpawnRejectsUnknownBatPath(t *testing.T) {
	s, w, _ := newSpawner(t)
	room := &data.Room{Name: "cave", Paths: map[string][]data.Point{"loop": {{X: 1, Y: 2}}}}

	_, err := s.Spawn(room, data.SpawnEntry{Kind: data.KindBat, Path: "loop"})
	require.NoError(t, err)
	_, err = s.Spawn(room, data.SpawnEntry{Kind: data.KindBat, Path: "spiral"})
	assert.ErrorContains(t, err, `no path "spiral"`)
	assert.Equal(t, 1, component.Bats.Count(w))
	assert.Equal(t, 1, w.Stats().Entities)
}

func TestSpiderAnchorsBottomRight(t *testing.T) {
	s, w, _ := newSpawner(t)
	e, err := s.Spider("cave", component.Vec2{X: 400, Y: 500})
	require.NoError(t, err)
	tr := component.Transforms.Get(w, e)
	assert.Equal(t, component.Vec2{X: 400 - 40, Y: 500 - 32}, tr.Position)
	assert.Equal(t, component.Vec2{X: 40, Y: 32}, tr.Dimensions)
	assert.Equal(t, 5, component.Enemies.Get(w, e).HP)
}

func TestSpawnFromRoomEmitsEvents(t *testing.T) {
	s, w, bus := newSpawner(t)
	var spawned []string
	event.Subscribe(bus, func(ev event.EntitySpawned) { spawned = append(spawned, ev.Kind) })

	room := &data.Room{Name: "cave", Spawns: []data.SpawnEntry{
		{Kind: data.KindDrill, X: 10, Y: 10},
		{Kind: data.KindSavePoint, X: 0, Y: 100, W: 64, H: 64},
		{Kind: data.KindAbilityPickup, X: 5, Y: 5, ID: "dash"},
	}}
	for _, sp := range room.Spawns {
		_, err := s.Spawn(room, sp)
		require.NoError(t, err)
	}
	_, err := s.Spawn(room, data.SpawnEntry{Kind: "dragon"})
	assert.ErrorContains(t, err, "unknown kind")

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []string{data.KindDrill, data.KindSavePoint, data.KindAbilityPickup}, spawned)
	assert.Equal(t, 3, component.RoomChildren.Count(w))
	assert.Equal(t, 1, component.SavePoints.Count(w))

	var pickup *component.Pickup
	ecs.Each(w, component.Pickups, func(_ ecs.Entity, p *component.Pickup) { pickup = p })
	require.NotNil(t, pickup)
	assert.Equal(t, component.PickupAbility, pickup.Kind)
	assert.Equal(t, "dash", pickup.ID)
}

func TestDestroyEmitsKind(t *testing.T) {
	s, w, bus := newSpawner(t)
	var destroyed []event.EntityDestroyed
	event.Subscribe(bus, func(ev event.EntityDestroyed) { destroyed = append(destroyed, ev) })

	e, err := s.Spider("cave", component.Vec2{X: 100, Y: 100})
	require.NoError(t, err)
	w.DestroyEntity(e)

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []event.EntityDestroyed{{Entity: e, Kind: data.KindSpider}}, destroyed)
	assert.Equal(t, 0, component.Spiders.Count(w))
}
