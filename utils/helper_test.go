package utils

import "testing"

func TestDereferencePtr(t *testing.T) {
	if DereferencePtr(NewTrue()) != true {
		t.Error("set pointer should dereference to its value")
	}
	if DereferencePtr[bool](nil) != false {
		t.Error("nil pointer without default should yield the zero value")
	}
	if DereferencePtr(nil, 42) != 42 {
		t.Error("nil pointer should fall back to the default")
	}
	n := 7
	if DereferencePtr(&n, 42) != 7 {
		t.Error("set pointer should win over the default")
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}
