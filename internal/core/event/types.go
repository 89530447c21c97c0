package event

import "github.com/cavern/cavern/internal/core/ecs"

// EntitySpawned is emitted by prefab constructors.
type EntitySpawned struct {
	Entity ecs.Entity
	Kind   string
}

// EntityDestroyed is emitted by destroy callbacks of lifetime-tracked components.
type EntityDestroyed struct {
	Entity ecs.Entity
	Kind   string
}

// RoomLoaded is emitted once a room's spawns are in the world.
type RoomLoaded struct {
	Room    string
	Spawned int
}

// RoomUnloaded is emitted after a room's children were queued for destruction.
type RoomUnloaded struct {
	Room   string
	Queued int
}

// RoomTransitionRequested asks the host to replace the current room.
type RoomTransitionRequested struct {
	Room string
}
