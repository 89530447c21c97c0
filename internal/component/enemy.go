package component

import "github.com/cavern/cavern/internal/core/ecs"

type Enemy struct {
	HP        int
	Damage    int
	MoneyDrop int
}

// Bat bobs around its spawn point unless it follows a path.
// Anchor and Offset are filled by the bat create callback.
type Bat struct {
	PathName string
	Anchor   Vec2
	Offset   float64
}

type PathFollow struct {
	PathName   string
	Room       string
	Speed      float32
	Node       int
	Reverse    bool
	FirstFrame bool
}

type Spider struct {
	Room      string
	Velocity  Vec2
	Triggered bool
}

type Drill struct {
	Room      string
	Velocity  Vec2
	Triggered bool
}

var (
	Enemies       = ecs.NewComponent[Enemy]("enemy")
	Bats          = ecs.NewComponent[Bat]("bat")
	PathFollowers = ecs.NewComponent[PathFollow]("path_follow")
	Spiders       = ecs.NewComponent[Spider]("spider")
	Drills        = ecs.NewComponent[Drill]("drill")
)
