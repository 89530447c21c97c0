package ecs

import "unsafe"

// column is the type-erased dense component array of a pool.
type column interface {
	len() int
	push(src unsafe.Pointer)
	store(i int, src unsafe.Pointer)
	at(i int) unsafe.Pointer
	// swapRemove moves the last element into i and shrinks by one.
	swapRemove(i int)
	clear()
}

type typedColumn[T any] struct {
	data []T
}

func (c *typedColumn[T]) len() int { return len(c.data) }

func (c *typedColumn[T]) push(src unsafe.Pointer) {
	var v T
	if src != nil {
		v = *(*T)(src)
	}
	c.data = append(c.data, v)
}

func (c *typedColumn[T]) store(i int, src unsafe.Pointer) {
	var v T
	if src != nil {
		v = *(*T)(src)
	}
	c.data[i] = v
}

func (c *typedColumn[T]) at(i int) unsafe.Pointer {
	return unsafe.Pointer(&c.data[i])
}

func (c *typedColumn[T]) swapRemove(i int) {
	last := len(c.data) - 1
	c.data[i] = c.data[last]
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
}

func (c *typedColumn[T]) clear() {
	clear(c.data)
	c.data = c.data[:0]
}

// rawColumn stores fixed-stride records in 8-byte words so that every record
// is at least 8-byte aligned in memory.
type rawColumn struct {
	words  []uint64
	size   uintptr
	stride uintptr
	n      int
}

var zeroSized uint64

func (c *rawColumn) len() int { return c.n }

func (c *rawColumn) bytes(i int) []byte {
	base := unsafe.Pointer(&c.words[0])
	return unsafe.Slice((*byte)(unsafe.Add(base, uintptr(i)*c.stride)), c.stride)
}

func (c *rawColumn) push(src unsafe.Pointer) {
	c.n++
	need := (uintptr(c.n)*c.stride + 7) / 8
	for uintptr(len(c.words)) < need {
		c.words = append(c.words, 0)
	}
	c.store(c.n-1, src)
}

func (c *rawColumn) store(i int, src unsafe.Pointer) {
	if c.stride == 0 {
		return
	}
	dst := c.bytes(i)
	clear(dst)
	if src != nil && c.size > 0 {
		copy(dst, unsafe.Slice((*byte)(src), c.size))
	}
}

func (c *rawColumn) at(i int) unsafe.Pointer {
	if c.stride == 0 {
		return unsafe.Pointer(&zeroSized)
	}
	return unsafe.Pointer(&c.bytes(i)[0])
}

func (c *rawColumn) swapRemove(i int) {
	last := c.n - 1
	if c.stride != 0 {
		if i != last {
			copy(c.bytes(i), c.bytes(last))
		}
		clear(c.bytes(last))
	}
	c.n = last
}

func (c *rawColumn) clear() {
	clear(c.words)
	c.words = c.words[:0]
	c.n = 0
}
