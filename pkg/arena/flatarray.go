package arena

import (
	"encoding/binary"
	"unsafe"
)

// FlatArray is a header bound to one Arena: it stores variable-length
// elements of type T in the arena's tail, with the current element count
// kept as a uint32 at a fixed offset (sizeOff) inside the same arena. T must
// be a fixed-size value type (no pointers, no slices) so that a block copy
// of the arena is a correct copy of every FlatArray built over it.
type FlatArray[T any] struct {
	offset  uint32 // arena offset of the first element
	sizeOff uint32 // arena offset of the uint32 size word
}

// NewFlatArray allocates the size word for a new, empty FlatArray at the
// arena's current tail and returns a header bound to it. The caller decides
// where the element block starts; for a freshly created array the elements
// begin immediately after the size word.
func NewFlatArray[T any](a *Arena) FlatArray[T] {
	sizeOff := a.AppendZero(4)
	return FlatArray[T]{offset: sizeOff + 4, sizeOff: sizeOff}
}

// Len reads the current element count from the arena.
func (f FlatArray[T]) Len(a *Arena) int {
	return int(binary.LittleEndian.Uint32(a.buf[f.sizeOff : f.sizeOff+4]))
}

func (f FlatArray[T]) setLen(a *Arena, n uint32) {
	binary.LittleEndian.PutUint32(a.buf[f.sizeOff:f.sizeOff+4], n)
}

func elemSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// At returns a copy of the element at index i.
func (f FlatArray[T]) At(a *Arena, i int) T {
	size := elemSize[T]()
	start := f.offset + uint32(i)*uint32(size)
	return *(*T)(unsafe.Pointer(&a.buf[start]))
}

// Set overwrites the element at index i in place.
func (f FlatArray[T]) Set(a *Arena, i int, v T) {
	size := elemSize[T]()
	start := f.offset + uint32(i)*uint32(size)
	*(*T)(unsafe.Pointer(&a.buf[start])) = v
}

// PushBack appends v to the arena's tail, assuming it is the current tail
// owner of this FlatArray (i.e. nothing else has been appended to the
// arena since this array's last element). It increments the size word and
// returns the new index.
//
// Embedding more than one growable FlatArray in the same arena requires
// each one to own a contiguous, never-interleaved region; the caller (the
// road-graph and journal builders) is responsible for building arrays
// in an order that respects this.
func (f FlatArray[T]) PushBack(a *Arena, v T) int {
	size := int(elemSize[T]())
	a.growGuard(size)
	b := (*[1 << 30]byte)(unsafe.Pointer(&v))[:size:size]
	a.buf = append(a.buf, b...)
	n := f.Len(a)
	f.setLen(a, uint32(n+1))
	return n
}

// All returns a freshly materialized slice of every element (a convenience
// for read-mostly call sites; it copies out of the arena).
func (f FlatArray[T]) All(a *Arena) []T {
	n := f.Len(a)
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = f.At(a, i)
	}
	return out
}
