// Package arena provides append-only byte buffers; the road graph and the
// situation journal are built on them (World and Situation use ordinary Go
// slices and are not arena-backed). A buffer holds typed records at fixed offsets plus embedded FlatArray
// headers for variable-length children; because every child stores an
// arena-relative offset instead of a pointer, cloning a whole snapshot is
// one block copy with no fix-up pass.
package arena

import "fmt"

// Arena is an append-only linear byte buffer.
type Arena struct {
	buf       []byte
	reserved  int
	trapAlloc bool
}

// New creates an empty Arena with an initial capacity hint.
func New(capacityHint int) *Arena {
	return &Arena{buf: make([]byte, 0, capacityHint)}
}

// SetTrapAlloc enables (or disables) the reallocation trap used in tests:
// once set, any append that would grow the backing array beyond a prior
// Reserve call panics instead of silently reallocating.
func (a *Arena) SetTrapAlloc(trap bool) {
	a.trapAlloc = trap
}

// Len returns the number of bytes currently appended.
func (a *Arena) Len() int {
	return len(a.buf)
}

// Bytes exposes the underlying buffer for read access; callers must not
// retain it across a mutating call.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// Reserve guarantees the arena can grow by at least n bytes without a
// reallocation. Call this before a batch of PushBack calls whose total size
// is known up front.
func (a *Arena) Reserve(n int) {
	need := len(a.buf) + n
	if need <= cap(a.buf) {
		a.reserved = need
		return
	}
	grown := make([]byte, len(a.buf), need)
	copy(grown, a.buf)
	a.buf = grown
	a.reserved = need
}

// growGuard panics if trapAlloc is set and the append below is about to
// reallocate without having gone through Reserve.
func (a *Arena) growGuard(n int) {
	if a.trapAlloc && len(a.buf)+n > cap(a.buf) {
		panic(fmt.Sprintf("arena: unreserved growth by %d bytes (len=%d cap=%d)", n, len(a.buf), cap(a.buf)))
	}
}

// Append writes raw bytes to the tail of the arena and returns the offset
// they were written at.
func (a *Arena) Append(b []byte) uint32 {
	a.growGuard(len(b))
	offset := uint32(len(a.buf))
	a.buf = append(a.buf, b...)
	return offset
}

// AppendZero appends n zero bytes and returns the offset they start at.
func (a *Arena) AppendZero(n int) uint32 {
	a.growGuard(n)
	offset := uint32(len(a.buf))
	for i := 0; i < n; i++ {
		a.buf = append(a.buf, 0)
	}
	return offset
}

// Clone duplicates the arena's contents into a fresh buffer. This is the
// whole point of the design: every FlatArray embedded in the buffer stores
// an arena-relative offset rather than a pointer, so one append-copy is a
// complete, independent snapshot.
func (a *Arena) Clone() Arena {
	cloned := make([]byte, len(a.buf))
	copy(cloned, a.buf)
	return Arena{buf: cloned, trapAlloc: a.trapAlloc}
}
