package arena

import "testing"

type point struct {
	X, Y uint32
}

func TestFlatArrayPushBackAndRead(t *testing.T) {
	a := New(64)
	arr := NewFlatArray[point](a)

	arr.PushBack(a, point{X: 1, Y: 2})
	arr.PushBack(a, point{X: 3, Y: 4})

	if got := arr.Len(a); got != 2 {
		t.Fatalf("expected len 2, got %d", got)
	}
	if got := arr.At(a, 0); got != (point{1, 2}) {
		t.Fatalf("element 0 = %+v", got)
	}
	if got := arr.At(a, 1); got != (point{3, 4}) {
		t.Fatalf("element 1 = %+v", got)
	}
}

func TestArenaCloneIsIndependent(t *testing.T) {
	a := New(64)
	arr := NewFlatArray[point](a)
	arr.PushBack(a, point{X: 10, Y: 20})

	cloned := a.Clone()
	clonedArr := arr // offsets are still valid against the cloned buffer
	clonedArr.Set(&cloned, 0, point{X: 99, Y: 99})

	if got := arr.At(a, 0); got != (point{10, 20}) {
		t.Fatalf("mutating the clone must not affect the original, got %+v", got)
	}
	if got := clonedArr.At(&cloned, 0); got != (point{99, 99}) {
		t.Fatalf("clone mutation did not apply, got %+v", got)
	}
}

func TestReserveGuardsReallocation(t *testing.T) {
	a := New(0)
	a.SetTrapAlloc(true)
	a.Reserve(16)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic after proper Reserve: %v", r)
		}
	}()
	a.Append(make([]byte, 16))
}

func TestTrapAllocPanicsOnMissedReserve(t *testing.T) {
	a := New(0)
	a.SetTrapAlloc(true)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for unreserved growth")
		}
	}()
	a.Append(make([]byte, 16))
}
