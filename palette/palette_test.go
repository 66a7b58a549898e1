package palette

import "testing"

func TestPaletteSizeAndUniqueness(t *testing.T) {
	if len(RGB) != Size {
		t.Fatalf("palette size = %d, want %d", len(RGB), Size)
	}
	seen := make(map[[3]uint8]int, Size)
	for i, rgb := range RGB {
		if prev, ok := seen[rgb]; ok {
			t.Fatalf("palette entries %d and %d are identical (%v)", prev, i, rgb)
		}
		seen[rgb] = i
	}
}

func TestReservedIndex(t *testing.T) {
	if ReservedIndex != 230 {
		t.Fatalf("ReservedIndex = %d, want 230", ReservedIndex)
	}
}

// TestSelfNearest checks the round-trip invariant: for every
// palette entry, the nearest entry to itself (by Lab distance) is itself.
func TestSelfNearest(t *testing.T) {
	for i := 0; i < Size; i++ {
		lab := labTable[i]
		best := 0
		bestDist := lab.DistanceSquared(labTable[0])
		for j := 1; j < Size; j++ {
			d := lab.DistanceSquared(labTable[j])
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		if best != i {
			t.Fatalf("nearest(palette[%d]) = %d, want %d (dist %v vs %v)", i, best, i, bestDist, lab.DistanceSquared(labTable[i]))
		}
	}
}

func TestGrayPalettesMonotonicAndBounded(t *testing.T) {
	for _, gp := range []GrayPalette{Gray4, Gray16} {
		if len(gp.L) != gp.Levels {
			t.Fatalf("gray palette has %d L values, want %d", len(gp.L), gp.Levels)
		}
		for i := 1; i < gp.Levels; i++ {
			if gp.L[i] <= gp.L[i-1] {
				t.Fatalf("gray palette L not strictly increasing at %d: %v <= %v", i, gp.L[i], gp.L[i-1])
			}
		}
		if gp.L[0] != 0 {
			t.Fatalf("gray palette first level L = %v, want 0", gp.L[0])
		}
	}
}
