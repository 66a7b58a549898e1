package bitmap

import (
	"reflect"
	"testing"
)

func TestPack1RoundTrip(t *testing.T) {
	w, h := 9, 3
	indices := make([]uint8, w*h)
	for i := range indices {
		indices[i] = uint8(i % 2)
	}
	packed := Pack1(indices, w, h)
	got := Unpack1(packed, w, h)
	if !reflect.DeepEqual(got, indices) {
		t.Fatalf("Pack1/Unpack1 round trip mismatch")
	}
}

func TestPack1BitConvention(t *testing.T) {
	// bit=1 means black; a single black pixel at x=0 sets the MSB.
	packed := Pack1([]uint8{1, 0, 0, 0, 0, 0, 0, 0}, 8, 1)
	if packed[0] != 0x80 {
		t.Fatalf("packed byte = %#x, want 0x80", packed[0])
	}
}

func TestPack2RoundTrip(t *testing.T) {
	w, h := 7, 2
	indices := make([]uint8, w*h)
	for i := range indices {
		indices[i] = uint8(i % 4)
	}
	packed := Pack2(indices, w, h)
	got := Unpack2(packed, w, h)
	if !reflect.DeepEqual(got, indices) {
		t.Fatalf("Pack2/Unpack2 round trip mismatch")
	}
}

func TestPack2BitOrder(t *testing.T) {
	packed := Pack2([]uint8{3, 0, 0, 0}, 4, 1)
	if packed[0] != 0xC0 {
		t.Fatalf("packed byte = %#x, want 0xC0 (pixel0 in bits 7-6)", packed[0])
	}
}

func TestPack4RoundTrip(t *testing.T) {
	w, h := 5, 3
	indices := make([]uint8, w*h)
	for i := range indices {
		indices[i] = uint8(i % 16)
	}
	packed := Pack4(indices, w, h)
	got := Unpack4(packed, w, h)
	if !reflect.DeepEqual(got, indices) {
		t.Fatalf("Pack4/Unpack4 round trip mismatch")
	}
}

func TestPack4NibbleOrder(t *testing.T) {
	packed := Pack4([]uint8{0xA, 0xB}, 2, 1)
	if packed[0] != 0xAB {
		t.Fatalf("packed byte = %#x, want 0xAB (high nibble=pixel0)", packed[0])
	}
}

func TestPack8Identity(t *testing.T) {
	indices := []uint8{1, 2, 3, 230}
	packed := Pack8(indices)
	got := Unpack8(packed)
	if !reflect.DeepEqual(got, indices) {
		t.Fatalf("Pack8/Unpack8 round trip mismatch")
	}
}
