package scanline

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTripIdenticalRows(t *testing.T) {
	rowWidth := 10
	rows := 5
	data := make([]byte, rowWidth*rows)
	for i := range data {
		data[i] = byte(i % 7)
	}
	// make every row identical to test the all-zero-mask path
	for r := 1; r < rows; r++ {
		copy(data[r*rowWidth:(r+1)*rowWidth], data[0:rowWidth])
	}
	enc := Encode(data, rows, rowWidth)
	dec := Decode(enc, rows, rowWidth)
	if !bytes.Equal(dec, data) {
		t.Fatalf("round trip mismatch:\n got %v\nwant %v", dec, data)
	}
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		rowWidth := 1 + rnd.Intn(40)
		rows := 1 + rnd.Intn(20)
		data := make([]byte, rowWidth*rows)
		rnd.Read(data)
		enc := Encode(data, rows, rowWidth)
		dec := Decode(enc, rows, rowWidth)
		if !bytes.Equal(dec, data) {
			t.Fatalf("trial %d: round trip mismatch for rowWidth=%d rows=%d", trial, rowWidth, rows)
		}
	}
}

func TestFirstRowAllOnesMask(t *testing.T) {
	rowWidth := 8
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	enc := Encode(data, 1, rowWidth)
	if enc[0] != 0xFF {
		t.Fatalf("first row mask = %#x, want 0xFF", enc[0])
	}
}

func TestTrailingPartialChunkMask(t *testing.T) {
	rowWidth := 5 // one partial chunk of 5 bytes
	data := []byte{9, 8, 7, 6, 5}
	enc := Encode(data, 1, rowWidth)
	want := byte((0xFF << uint(8-5)) & 0xFF) // 0xF8
	if enc[0] != want {
		t.Fatalf("partial chunk mask = %#x, want %#x", enc[0], want)
	}
}
