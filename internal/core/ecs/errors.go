package ecs

import "errors"

var (
	ErrInvalidEntity   = errors.New("ecs: invalid entity")
	ErrNoTypes         = errors.New("ecs: view needs at least one component type")
	ErrTooManyTypes    = errors.New("ecs: too many component types for a view")
	ErrViewInvalidated = errors.New("ecs: component pool mutated while a view was iterating it")
)
