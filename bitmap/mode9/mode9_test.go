package mode9

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestRoundTripSolid(t *testing.T) {
	w, h := 10, 10
	indices := make([]uint8, w*h)
	for i := range indices {
		indices[i] = 5
	}
	enc := Encode(indices, w, h)
	dec := Decode(enc, w, h)
	if !reflect.DeepEqual(dec, indices) {
		t.Fatalf("round trip mismatch for solid image")
	}
}

// TestSolidRowEncodesAsSingleRLE checks a 1-row, 10-wide image of all
// palette-index 5 encodes as byte 0x05, RLE_6, length 3.
func TestSolidRowEncodesAsSingleRLE(t *testing.T) {
	indices := make([]uint8, 10)
	for i := range indices {
		indices[i] = 5
	}
	enc := Encode(indices, 10, 1)
	if len(enc) != 3 {
		t.Fatalf("encoded length = %d, want 3", len(enc))
	}
	if enc[0] != 5 {
		t.Fatalf("first byte = %d, want 5", enc[0])
	}
	if enc[1] != rleCodeByte(6) {
		t.Fatalf("second byte = %d, want RLE_6 code %d", enc[1], rleCodeByte(6))
	}
	if enc[2] != 3 {
		t.Fatalf("third byte = %d, want length remainder 3", enc[2])
	}

	dec := Decode(enc, 10, 1)
	want := make([]uint8, 10)
	for i := range want {
		want[i] = 5
	}
	if !reflect.DeepEqual(dec, want) {
		t.Fatalf("decoded %v, want %v", dec, want)
	}
}

func TestRoundTripRandomAndGradient(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for trial := 0; trial < 25; trial++ {
		w := 1 + rnd.Intn(30)
		h := 1 + rnd.Intn(30)
		indices := make([]uint8, w*h)
		// mix of solid runs, gradients, and random noise so all four
		// candidate kinds are exercised across trials.
		switch trial % 3 {
		case 0:
			for i := range indices {
				indices[i] = uint8(rnd.Intn(231))
			}
		case 1:
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					indices[y*w+x] = uint8((x + y) % 7)
				}
			}
		default:
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					indices[y*w+x] = uint8(y % 3)
				}
			}
		}
		enc := Encode(indices, w, h)
		dec := Decode(enc, w, h)
		if !reflect.DeepEqual(dec, indices) {
			t.Fatalf("trial %d (w=%d h=%d): round trip mismatch", trial, w, h)
		}
	}
}

func TestAdvanceNeverExceedsRowLength(t *testing.T) {
	// A pathological width-1 image still must terminate with advance=1
	// per pixel, never overrunning.
	indices := []uint8{1, 1, 1, 1, 1}
	enc := Encode(indices, 1, 5)
	dec := Decode(enc, 1, 5)
	if !reflect.DeepEqual(dec, indices) {
		t.Fatalf("width-1 column round trip mismatch: got %v want %v", dec, indices)
	}
}
