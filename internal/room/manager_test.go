package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/core/ecs"
	"github.com/cavern/cavern/internal/core/event"
	"github.com/cavern/cavern/internal/data"
	"github.com/cavern/cavern/internal/prefab"
)

func newManager() (*Manager, *ecs.World, *event.Bus) {
	bus := event.NewBus()
	w := ecs.NewWorld(prefab.Hooks(bus)...)
	log := zap.NewNop()
	return NewManager(w, prefab.NewSpawner(w, bus, log), bus, log), w, bus
}

var (
	cave = &data.Room{Name: "cave", Spawns: []data.SpawnEntry{
		{Kind: data.KindBat, X: 1, Y: 1},
		{Kind: data.KindSpider, X: 100, Y: 100},
	}}
	shaft = &data.Room{Name: "shaft", Spawns: []data.SpawnEntry{
		{Kind: data.KindDrill, X: 100, Y: 100},
	}}
)

func TestLoadAndUnload(t *testing.T) {
	m, w, _ := newManager()
	n, err := m.Load(cave)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = m.Load(shaft)
	require.NoError(t, err)
	assert.Equal(t, []string{"cave", "shaft"}, m.Loaded())
	assert.Equal(t, "shaft", m.Current())

	_, err = m.Load(cave)
	assert.ErrorContains(t, err, "already loaded")

	assert.Equal(t, 2, m.Unload("cave"))
	assert.Equal(t, 2, m.Children("cave"), "children live until the queue is flushed")
	assert.Equal(t, 2, w.FlushDestroyQueue())
	assert.Equal(t, 0, m.Children("cave"))
	assert.Equal(t, 1, m.Children("shaft"))
	assert.Nil(t, m.Room("cave"))
	assert.Equal(t, 0, m.Unload("cave"))
}

func TestTransition(t *testing.T) {
	m, w, bus := newManager()
	var unloaded []event.RoomUnloaded
	event.Subscribe(bus, func(ev event.RoomUnloaded) { unloaded = append(unloaded, ev) })

	require.NoError(t, m.Transition(cave))
	require.NoError(t, m.Transition(shaft))
	w.FlushDestroyQueue()

	assert.Equal(t, "shaft", m.Current())
	assert.Equal(t, []string{"shaft"}, m.Loaded())
	assert.Equal(t, 1, w.Stats().Entities)

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []event.RoomUnloaded{{Room: "cave", Queued: 2}}, unloaded)
}

func TestLoadFailureRollsBack(t *testing.T) {
	m, w, _ := newManager()
	bad := &data.Room{Name: "bad", Spawns: []data.SpawnEntry{
		{Kind: data.KindBat},
		{Kind: "dragon"},
	}}
	_, err := m.Load(bad)
	assert.ErrorContains(t, err, "spawn 1")
	w.FlushDestroyQueue()
	assert.Equal(t, 0, w.Stats().Entities)
	assert.Empty(t, m.Loaded())
}

func TestTransitionFailureRestoresPreviousRoom(t *testing.T) {
	m, w, _ := newManager()
	require.NoError(t, m.Transition(cave))

	bad := &data.Room{Name: "bad", Spawns: []data.SpawnEntry{{Kind: "dragon"}}}
	err := m.Transition(bad)
	assert.ErrorContains(t, err, "unknown kind")

	assert.Equal(t, "cave", m.Current())
	assert.Equal(t, []string{"cave"}, m.Loaded())
	assert.Equal(t, 2, w.FlushDestroyQueue(), "the original children are replaced")
	assert.Equal(t, 2, m.Children("cave"))
	assert.Equal(t, 2, w.Stats().Entities)
}
