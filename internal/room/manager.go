package room

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/component"
	"github.com/cavern/cavern/internal/core/ecs"
	"github.com/cavern/cavern/internal/core/event"
	"github.com/cavern/cavern/internal/data"
	"github.com/cavern/cavern/internal/prefab"
)

// Manager owns the set of loaded rooms. Every entity a room spawns carries a
// RoomChild component naming it; unloading a room queues those entities for
// the cleanup system.
type Manager struct {
	world   *ecs.World
	spawner *prefab.Spawner
	bus     *event.Bus
	log     *zap.Logger
	loaded  map[string]*data.Room
	current string
}

func NewManager(w *ecs.World, spawner *prefab.Spawner, bus *event.Bus, log *zap.Logger) *Manager {
	return &Manager{
		world:   w,
		spawner: spawner,
		bus:     bus,
		log:     log,
		loaded:  make(map[string]*data.Room),
	}
}

// Load spawns every entry of r and makes it the current room.
func (m *Manager) Load(r *data.Room) (int, error) {
	if _, ok := m.loaded[r.Name]; ok {
		return 0, fmt.Errorf("room %s already loaded", r.Name)
	}
	m.loaded[r.Name] = r
	for i, sp := range r.Spawns {
		if _, err := m.spawner.Spawn(r, sp); err != nil {
			m.Unload(r.Name)
			return 0, fmt.Errorf("load room %s: spawn %d: %w", r.Name, i, err)
		}
	}
	m.current = r.Name
	event.Emit(m.bus, event.RoomLoaded{Room: r.Name, Spawned: r.Count()})
	m.log.Info("room loaded", zap.String("room", r.Name), zap.Int("spawned", r.Count()))
	return r.Count(), nil
}

// Unload queues every child of the named room for destruction and returns
// how many were queued. Destruction happens on the next FlushDestroyQueue.
func (m *Manager) Unload(name string) int {
	if _, ok := m.loaded[name]; !ok {
		return 0
	}
	queued := 0
	for v := m.world.NewSingleView(component.RoomChildren.Type()); v.Valid(); v.Next() {
		if component.RoomChildren.At(&v).Room == name {
			m.world.MarkForDestruction(v.Entity())
			queued++
		}
	}
	delete(m.loaded, name)
	if m.current == name {
		m.current = ""
	}
	event.Emit(m.bus, event.RoomUnloaded{Room: name, Queued: queued})
	m.log.Info("room unloaded", zap.String("room", name), zap.Int("queued", queued))
	return queued
}

// Transition unloads the current room, if any, and loads r. If r fails to
// load, the previous room is loaded again with fresh children; the old ones
// are already queued for destruction.
func (m *Manager) Transition(r *data.Room) error {
	prev := m.loaded[m.current]
	if prev != nil {
		m.Unload(prev.Name)
	}
	_, err := m.Load(r)
	if err == nil || prev == nil {
		return err
	}
	if _, rerr := m.Load(prev); rerr != nil {
		return fmt.Errorf("%w; restore %s: %v", err, prev.Name, rerr)
	}
	m.log.Warn("room transition failed, previous room restored",
		zap.String("room", r.Name), zap.String("restored", prev.Name), zap.Error(err))
	return err
}

// Children counts live entities belonging to the named room.
func (m *Manager) Children(name string) int {
	n := 0
	ecs.Each(m.world, component.RoomChildren, func(_ ecs.Entity, rc *component.RoomChild) {
		if rc.Room == name {
			n++
		}
	})
	return n
}

func (m *Manager) Current() string { return m.current }

// Room returns the definition of a loaded room, or nil.
func (m *Manager) Room(name string) *data.Room { return m.loaded[name] }

// Loaded returns the names of loaded rooms, sorted.
func (m *Manager) Loaded() []string {
	names := make([]string, 0, len(m.loaded))
	for n := range m.loaded {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
