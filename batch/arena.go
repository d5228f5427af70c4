// Package batch holds the fixed-capacity CPU-side storage shared by the
// batch renderers.
package batch

import (
	"fmt"
	"unsafe"
)

// Arena is a pre-sized contiguous buffer with a write cursor. It never
// grows: callers check Fits before Push and flush when it reports false.
type Arena[V any] struct {
	buf    []V
	cursor int
}

func NewArena[V any](capacity int) *Arena[V] {
	if capacity <= 0 {
		panic(fmt.Sprintf("batch: arena capacity %d", capacity))
	}
	return &Arena[V]{buf: make([]V, capacity)}
}

// Reset rewinds the cursor. Contents are overwritten by later pushes.
func (a *Arena[V]) Reset() { a.cursor = 0 }

func (a *Arena[V]) Len() int       { return a.cursor }
func (a *Arena[V]) Cap() int       { return len(a.buf) }
func (a *Arena[V]) Empty() bool    { return a.cursor == 0 }
func (a *Arena[V]) Remaining() int { return len(a.buf) - a.cursor }

// Fits reports whether n more records can be pushed.
func (a *Arena[V]) Fits(n int) bool { return a.cursor+n <= len(a.buf) }

// Push appends one record. Pushing past capacity is a programming error.
func (a *Arena[V]) Push(v V) {
	if a.cursor >= len(a.buf) {
		panic(fmt.Sprintf("batch: push past arena capacity %d", len(a.buf)))
	}
	a.buf[a.cursor] = v
	a.cursor++
}

// Next returns a pointer to the next slot and advances the cursor, for
// records written field by field.
func (a *Arena[V]) Next() *V {
	if a.cursor >= len(a.buf) {
		panic(fmt.Sprintf("batch: push past arena capacity %d", len(a.buf)))
	}
	v := &a.buf[a.cursor]
	a.cursor++
	return v
}

// Slice is the written prefix. It aliases the arena.
func (a *Arena[V]) Slice() []V { return a.buf[:a.cursor] }

// Bytes views the written prefix as raw bytes for upload. Its length is
// exactly cursor * sizeof(V).
func (a *Arena[V]) Bytes() []byte {
	if a.cursor == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(a.buf[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&a.buf[0])), a.cursor*size)
}

// Stride is sizeof(V) in bytes.
func (a *Arena[V]) Stride() int {
	var v V
	return int(unsafe.Sizeof(v))
}
