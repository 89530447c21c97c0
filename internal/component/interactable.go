package component

import "github.com/cavern/cavern/internal/core/ecs"

type SavePoint struct {
	Rect Rect
}

type PickupKind uint8

const (
	PickupHealth PickupKind = iota
	PickupAbility
)

func (k PickupKind) String() string {
	if k == PickupAbility {
		return "ability"
	}
	return "health"
}

// Pickup is collected once; ID is unique per save file.
type Pickup struct {
	ID       string
	Kind     PickupKind
	Collider Rect
}

var (
	SavePoints = ecs.NewComponent[SavePoint]("save_point")
	Pickups    = ecs.NewComponent[Pickup]("pickup")
)
