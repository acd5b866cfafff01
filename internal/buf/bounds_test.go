package buf

import (
	"math"
	"testing"
)

func TestAddU64(t *testing.T) {
	if sum, ok := AddU64(1, 2); !ok || sum != 3 {
		t.Fatalf("AddU64(1,2)=%d,%v want 3,true", sum, ok)
	}
	if sum, ok := AddU64(math.MaxUint64-1, 1); !ok || sum != math.MaxUint64 {
		t.Fatalf("AddU64 at the edge=%d,%v", sum, ok)
	}
	if _, ok := AddU64(math.MaxUint64, 1); ok {
		t.Fatalf("expected wrap when adding to MaxUint64")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	tests := []struct {
		a, b uint64
		want uint64
		ok   bool
	}{
		{10, 8, 80, true},
		{0, math.MaxUint64, 0, true},
		{math.MaxUint64, 1, math.MaxUint64, true},
		{1 << 32, 1 << 32, 0, false},
		{math.MaxUint64, 2, 0, false},
		{math.MaxUint64/2 + 1, 2, 0, false},
	}
	for _, tt := range tests {
		got, ok := MulOverflowSafe(tt.a, tt.b)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("MulOverflowSafe(%d,%d)=%d,%v want %d,%v", tt.a, tt.b, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRange(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}

	got, ok := Range(data, 1, 3)
	if !ok || len(got) != 3 || cap(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Range(1,3)=%v,%v cap %d", got, ok, cap(got))
	}
	if got, ok := Range(data, 5, 0); !ok || len(got) != 0 {
		t.Fatalf("empty range at the end should be valid")
	}

	bad := []struct {
		off int
		n   uint64
	}{
		{4, 2},
		{6, 0},
		{-1, 1},
		{1, math.MaxUint64},
	}
	for _, tt := range bad {
		if Within(data, tt.off, tt.n) {
			t.Fatalf("Within(%d,%d) should be false", tt.off, tt.n)
		}
	}
	if !Within(data, 2, 3) {
		t.Fatalf("Within(2,3) should be true")
	}
}
