package ids

import "testing"

func TestAllocatorNextMonotonic(t *testing.T) {
	a := NewAllocator()
	var got []ID
	for range 3 {
		got = append(got, a.Next())
	}
	want := []ID{0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAllocatorReserveDuplicateFails(t *testing.T) {
	a := NewAllocator()
	if err := a.Reserve(1); err != nil {
		t.Fatalf("first reserve of 1: %v", err)
	}
	if err := a.Reserve(1); err == nil {
		t.Fatalf("second reserve of 1: want error, got nil")
	}
	if err := a.Reserve(2); err != nil {
		t.Fatalf("reserve of 2: %v", err)
	}
}

func TestAllocatorReserveBumpsNext(t *testing.T) {
	a := NewAllocator()
	if err := a.Reserve(5); err != nil {
		t.Fatalf("reserve 5: %v", err)
	}
	if got := a.Next(); got != 6 {
		t.Fatalf("Next() after Reserve(5) = %d, want 6", got)
	}
}

func TestAllocatorReleaseAllowsReuse(t *testing.T) {
	a := NewAllocator()
	if err := a.Reserve(1); err != nil {
		t.Fatalf("reserve 1: %v", err)
	}
	a.Release(1)
	if a.InUse(1) {
		t.Fatalf("InUse(1) = true after Release")
	}
	if err := a.Reserve(1); err != nil {
		t.Fatalf("reserve 1 after release: %v", err)
	}
}
