package compose

import (
	"bytes"
	"testing"
)

func TestFramePrefix(t *testing.T) {
	out, err := Frame("hello")
	if err != nil {
		t.Fatalf("Frame error: %v", err)
	}
	want := append(bytes.Repeat([]byte{0}, 12), 0x0D, 0x0A, 0x0D, 0x0A)
	if !bytes.Equal(out[:16], want) {
		t.Fatalf("frame prefix mismatch: got %v want %v", out[:16], want)
	}
	if string(out[16:]) != "hello" {
		t.Fatalf("body mismatch: got %q", out[16:])
	}
}
