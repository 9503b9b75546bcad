package dice

import "testing"

func TestSeededSource_Determinism(t *testing.T) {
	a := NewSeededSource(12345)
	b := NewSeededSource(12345)

	for i := 0; i < 100; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("draw %d: %d != %d for the same seed", i, x, y)
		}
	}
}

func TestSeededSource_CoversAllFaces(t *testing.T) {
	src := NewSeededSource(1)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := src.Next()
		if v < 1 || v > Sides {
			t.Fatalf("Next() = %d, out of range", v)
		}
		seen[v] = true
	}
	if len(seen) != Sides {
		t.Fatalf("saw %d distinct faces, want %d", len(seen), Sides)
	}
}

func TestSequence_Cycles(t *testing.T) {
	seq := NewSequence(3, 9)
	got := []int{seq.Next(), seq.Next(), seq.Next()}
	want := []int{3, 9, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draws = %v, want %v", got, want)
		}
	}
}

func TestNewSequence_PanicsWhenEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewSequence()
}
