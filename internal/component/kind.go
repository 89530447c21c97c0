package component

import "github.com/cavern/cavern/internal/core/ecs"

// Kind names the prefab an entity was built from.
type Kind struct {
	Name string
}

var Kinds = ecs.NewComponent[Kind]("kind")
