package component

import "github.com/cavern/cavern/internal/core/ecs"

type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

type Rect struct {
	X, Y, W, H float32
}

// Overlaps reports whether two rects intersect with positive area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Transform places an entity in room space.
type Transform struct {
	Position   Vec2
	Dimensions Vec2
}

// Collider is relative to the owning entity's Transform.
type Collider struct {
	Rect Rect
}

// World returns the collider rect in room space.
func (c Collider) World(t Transform) Rect {
	return Rect{X: t.Position.X + c.Rect.X, Y: t.Position.Y + c.Rect.Y, W: c.Rect.W, H: c.Rect.H}
}

type Sprite struct {
	ID string
}

type AnimatedSprite struct {
	ID    string
	Frame int
	Timer float64
}

// RoomChild ties an entity's lifetime to a loaded room.
type RoomChild struct {
	Room string
}

var (
	Transforms      = ecs.NewComponent[Transform]("transform")
	Colliders       = ecs.NewComponent[Collider]("collider")
	Sprites         = ecs.NewComponent[Sprite]("sprite")
	AnimatedSprites = ecs.NewComponent[AnimatedSprite]("animated_sprite")
	RoomChildren    = ecs.NewComponent[RoomChild]("room_child")
)
