package mode9

import (
	"reflect"
	"testing"
)

// FuzzRoundTrip builds an image from three fuzzed bytes — width and
// height (each reduced to 1..24) and a start value — filled with a ramp
// of palette indices (start+i mod 231), and asserts
// Decode(Encode(x)) == x for every combination the fuzzer discovers.
func FuzzRoundTrip(f *testing.F) {
	f.Add(uint8(5), uint8(10), uint8(1))
	f.Add(uint8(3), uint8(3), uint8(230))
	f.Add(uint8(1), uint8(1), uint8(0))
	f.Add(uint8(21), uint8(2), uint8(7))

	f.Fuzz(func(t *testing.T, wSeed, hSeed, valSeed uint8) {
		w := int(wSeed)%24 + 1
		h := int(hSeed)%24 + 1
		indices := make([]uint8, w*h)
		for i := range indices {
			indices[i] = uint8((int(valSeed) + i) % 231)
		}
		enc := Encode(indices, w, h)
		dec := Decode(enc, w, h)
		if !reflect.DeepEqual(dec, indices) {
			t.Fatalf("round trip mismatch for w=%d h=%d valSeed=%d", w, h, valSeed)
		}
	})
}
