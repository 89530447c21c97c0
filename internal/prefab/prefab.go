package prefab

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/component"
	"github.com/cavern/cavern/internal/core/ecs"
	"github.com/cavern/cavern/internal/core/event"
	"github.com/cavern/cavern/internal/data"
)

// Sprite pixels are drawn at this scale in room space.
const spriteScale = 4

var spriteSizes = map[string]component.Vec2{
	data.KindBat:           {X: 12, Y: 8},
	data.KindSpider:        {X: 10, Y: 8},
	data.KindDrill:         {X: 14, Y: 12},
	data.KindSavePoint:     {X: 16, Y: 20},
	data.KindHealthPickup:  {X: 8, Y: 8},
	data.KindAbilityPickup: {X: 8, Y: 8},
}

// Hooks returns the create and destroy callbacks the prefabs rely on. Pass
// them to ecs.NewWorld.
func Hooks(bus *event.Bus) []ecs.Option {
	return []ecs.Option{
		component.Bats.WithCreate(onBatCreate),
		component.PathFollowers.WithCreate(onPathFollowCreate),
		component.Kinds.WithDestroy(func(_ *ecs.World, e ecs.Entity, k *component.Kind) {
			event.Emit(bus, event.EntityDestroyed{Entity: e, Kind: k.Name})
		}),
	}
}

// onBatCreate anchors the bat at the transform attached before it.
func onBatCreate(w *ecs.World, e ecs.Entity, bat *component.Bat) {
	t := component.Transforms.Get(w, e)
	if t == nil {
		return
	}
	bat.Anchor = t.Position
	bat.Offset = float64(t.Position.Y)
}

func onPathFollowCreate(_ *ecs.World, _ ecs.Entity, f *component.PathFollow) {
	f.FirstFrame = true
}

// Spawner builds prefab entities in a World.
type Spawner struct {
	world *ecs.World
	bus   *event.Bus
	log   *zap.Logger
}

func NewSpawner(w *ecs.World, bus *event.Bus, log *zap.Logger) *Spawner {
	return &Spawner{world: w, bus: bus, log: log}
}

// builder keeps the first attach error so constructors read linearly.
type builder struct {
	w   *ecs.World
	e   ecs.Entity
	err error
}

func attach[T any](b *builder, c ecs.Component[T], v T) {
	if b.err != nil {
		return
	}
	if _, err := c.Add(b.w, b.e, v); err != nil {
		b.err = fmt.Errorf("attach %s: %w", c.Type().Name(), err)
	}
}

func (s *Spawner) begin(kind, room string, pos component.Vec2) (*builder, component.Vec2) {
	size := scaled(kind)
	b := &builder{w: s.world, e: s.world.NewEntity()}
	attach(b, component.Kinds, component.Kind{Name: kind})
	attach(b, component.RoomChildren, component.RoomChild{Room: room})
	attach(b, component.Transforms, component.Transform{Position: pos, Dimensions: size})
	return b, size
}

func (s *Spawner) finish(b *builder, kind string) (ecs.Entity, error) {
	if b.err != nil {
		s.world.DestroyEntity(b.e)
		return ecs.NullEntity, fmt.Errorf("spawn %s: %w", kind, b.err)
	}
	event.Emit(s.bus, event.EntitySpawned{Entity: b.e, Kind: kind})
	s.log.Debug("entity spawned", zap.String("kind", kind), zap.Uint32("id", b.e.ID()))
	return b.e, nil
}

// Bat spawns a bat; with a path name it follows that path instead of bobbing.
func (s *Spawner) Bat(room string, pos component.Vec2, path string) (ecs.Entity, error) {
	b, size := s.begin(data.KindBat, room, pos)
	attach(b, component.AnimatedSprites, component.AnimatedSprite{ID: "bat"})
	attach(b, component.Bats, component.Bat{PathName: path})
	attach(b, component.Enemies, component.Enemy{HP: 1, Damage: 1, MoneyDrop: 1})
	attach(b, component.Colliders, component.Collider{Rect: component.Rect{W: size.X, H: size.Y}})
	if path != "" {
		attach(b, component.PathFollowers, component.PathFollow{PathName: path, Room: room, Speed: 100})
	}
	return s.finish(b, data.KindBat)
}

// Spider spawns a spider whose position is its bottom-right anchor.
func (s *Spawner) Spider(room string, pos component.Vec2) (ecs.Entity, error) {
	size := scaled(data.KindSpider)
	b, _ := s.begin(data.KindSpider, room, component.Vec2{X: pos.X - size.X, Y: pos.Y - size.Y})
	attach(b, component.Sprites, component.Sprite{ID: "spider"})
	attach(b, component.Enemies, component.Enemy{HP: 5, Damage: 1, MoneyDrop: 1})
	attach(b, component.Spiders, component.Spider{Room: room})
	attach(b, component.Colliders, component.Collider{Rect: component.Rect{W: size.X, H: size.Y}})
	return s.finish(b, data.KindSpider)
}

// Drill spawns a drill whose position is its bottom-right anchor.
func (s *Spawner) Drill(room string, pos component.Vec2) (ecs.Entity, error) {
	size := scaled(data.KindDrill)
	b, _ := s.begin(data.KindDrill, room, component.Vec2{X: pos.X - size.X, Y: pos.Y - size.Y})
	attach(b, component.AnimatedSprites, component.AnimatedSprite{ID: "drill_left"})
	attach(b, component.Enemies, component.Enemy{HP: 10, Damage: 1, MoneyDrop: 1})
	attach(b, component.Colliders, component.Collider{Rect: component.Rect{W: size.X, H: size.Y}})
	attach(b, component.Drills, component.Drill{Room: room})
	return s.finish(b, data.KindDrill)
}

// SavePoint spawns a save point; the sprite sits just above the trigger rect.
func (s *Spawner) SavePoint(room string, rect component.Rect) (ecs.Entity, error) {
	b, _ := s.begin(data.KindSavePoint, room, component.Vec2{X: rect.X, Y: rect.Y - 5*spriteScale})
	attach(b, component.Sprites, component.Sprite{ID: "save_point"})
	attach(b, component.SavePoints, component.SavePoint{Rect: rect})
	return s.finish(b, data.KindSavePoint)
}

func (s *Spawner) Pickup(room, id string, kind component.PickupKind, pos component.Vec2) (ecs.Entity, error) {
	name := data.KindHealthPickup
	if kind == component.PickupAbility {
		name = data.KindAbilityPickup
	}
	b, size := s.begin(name, room, pos)
	attach(b, component.Sprites, component.Sprite{ID: name})
	attach(b, component.Pickups, component.Pickup{
		ID:       id,
		Kind:     kind,
		Collider: component.Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y},
	})
	return s.finish(b, name)
}

// Spawn builds the prefab described by a room spawn entry.
func (s *Spawner) Spawn(room *data.Room, sp data.SpawnEntry) (ecs.Entity, error) {
	pos := component.Vec2{X: sp.X, Y: sp.Y}
	switch sp.Kind {
	case data.KindBat:
		if sp.Path != "" && room.Path(sp.Path) == nil {
			return ecs.NullEntity, fmt.Errorf("spawn bat: room %s has no path %q", room.Name, sp.Path)
		}
		return s.Bat(room.Name, pos, sp.Path)
	case data.KindSpider:
		return s.Spider(room.Name, pos)
	case data.KindDrill:
		return s.Drill(room.Name, pos)
	case data.KindSavePoint:
		return s.SavePoint(room.Name, component.Rect{X: sp.X, Y: sp.Y, W: sp.W, H: sp.H})
	case data.KindHealthPickup:
		return s.Pickup(room.Name, sp.ID, component.PickupHealth, pos)
	case data.KindAbilityPickup:
		return s.Pickup(room.Name, sp.ID, component.PickupAbility, pos)
	}
	return ecs.NullEntity, fmt.Errorf("spawn: unknown kind %q", sp.Kind)
}

func scaled(kind string) component.Vec2 {
	size := spriteSizes[kind]
	return component.Vec2{X: size.X * spriteScale, Y: size.Y * spriteScale}
}
