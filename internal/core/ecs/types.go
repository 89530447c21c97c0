package ecs

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

var nextTypeID atomic.Uint32

// ComponentType identifies a component type to a World: byte size, alignment
// and a process-wide id assigned in construction order. Callers must pass the
// same descriptor for a logical type everywhere.
type ComponentType struct {
	id        uint32
	name      string
	size      uintptr
	align     uintptr
	newColumn func() column
}

// ComponentFunc is a per-type create or destroy callback. c points at the
// stored component and is only valid for the duration of the call.
type ComponentFunc func(w *World, e Entity, c unsafe.Pointer)

func newComponentType(name string, size, align uintptr, newColumn func() column) *ComponentType {
	return &ComponentType{
		id:        nextTypeID.Add(1) - 1,
		name:      name,
		size:      size,
		align:     align,
		newColumn: newColumn,
	}
}

// NewRawType returns a descriptor whose records are stored as raw bytes.
// Raw records must not contain Go pointers; align must be a power of two
// no larger than 8.
func NewRawType(name string, size, align uintptr) *ComponentType {
	if align == 0 || align&(align-1) != 0 || align > 8 {
		panic(fmt.Sprintf("ecs: raw type %q: invalid alignment %d", name, align))
	}
	stride := (size + align - 1) &^ (align - 1)
	return newComponentType(name, size, align, func() column {
		return &rawColumn{size: size, stride: stride}
	})
}

func (t *ComponentType) ID() uint32     { return t.id }
func (t *ComponentType) Name() string   { return t.name }
func (t *ComponentType) Size() uintptr  { return t.size }
func (t *ComponentType) Align() uintptr { return t.align }

func (t *ComponentType) String() string {
	return fmt.Sprintf("%s#%d", t.name, t.id)
}

// typeOf builds a descriptor backed by a typed column.
func typeOf[T any](name string) *ComponentType {
	var zero T
	return newComponentType(name, unsafe.Sizeof(zero), unsafe.Alignof(zero), func() column {
		return &typedColumn[T]{data: make([]T, 0, 64)}
	})
}
