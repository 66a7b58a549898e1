package bitmap

import (
	"github.com/openxiino/transcoder/bitmap/mode9"
	"github.com/openxiino/transcoder/bitmap/scanline"
	"github.com/openxiino/transcoder/internal/pool"
)

// Encode packs a dithered index map (see dither.Result) into the wire
// bytes for the requested mode.
func Encode(m Mode, indices []uint8, width, height int) (Bitmap, error) {
	switch m {
	case Mode0:
		packed := Pack1(indices, width, height)
		defer pool.Put(packed)
		return Bitmap{Mode: m, Width: width, Height: height, Bytes: clone(packed)}, nil
	case Mode1:
		packed := Pack1(indices, width, height)
		defer pool.Put(packed)
		wb := rowWidthBytes(width, 8)
		return Bitmap{Mode: m, Width: width, Height: height, Bytes: scanline.Encode(packed, height, wb)}, nil
	case Mode2:
		packed := Pack2(indices, width, height)
		defer pool.Put(packed)
		return Bitmap{Mode: m, Width: width, Height: height, Bytes: clone(packed)}, nil
	case Mode3:
		packed := Pack2(indices, width, height)
		defer pool.Put(packed)
		wb := rowWidthBytes(width, 4)
		return Bitmap{Mode: m, Width: width, Height: height, Bytes: scanline.Encode(packed, height, wb)}, nil
	case Mode4:
		packed := Pack4(indices, width, height)
		defer pool.Put(packed)
		return Bitmap{Mode: m, Width: width, Height: height, Bytes: clone(packed)}, nil
	case Mode5:
		packed := Pack4(indices, width, height)
		defer pool.Put(packed)
		wb := rowWidthBytes(width, 2)
		return Bitmap{Mode: m, Width: width, Height: height, Bytes: scanline.Encode(packed, height, wb)}, nil
	case Mode8:
		packed := Pack8(indices)
		defer pool.Put(packed)
		return Bitmap{Mode: m, Width: width, Height: height, Bytes: clone(packed)}, nil
	case Mode9:
		return Bitmap{Mode: m, Width: width, Height: height, Bytes: mode9.Encode(indices, width, height)}, nil
	default:
		return Bitmap{}, errInvalidMode
	}
}

// Decode is the inverse of Encode; used by tests to verify round-trip
// fidelity.
func Decode(b Bitmap) ([]uint8, error) {
	switch b.Mode {
	case Mode0:
		return Unpack1(b.Bytes, b.Width, b.Height), nil
	case Mode1:
		wb := rowWidthBytes(b.Width, 8)
		return Unpack1(scanline.Decode(b.Bytes, b.Height, wb), b.Width, b.Height), nil
	case Mode2:
		return Unpack2(b.Bytes, b.Width, b.Height), nil
	case Mode3:
		wb := rowWidthBytes(b.Width, 4)
		return Unpack2(scanline.Decode(b.Bytes, b.Height, wb), b.Width, b.Height), nil
	case Mode4:
		return Unpack4(b.Bytes, b.Width, b.Height), nil
	case Mode5:
		wb := rowWidthBytes(b.Width, 2)
		return Unpack4(scanline.Decode(b.Bytes, b.Height, wb), b.Width, b.Height), nil
	case Mode8:
		return Unpack8(b.Bytes), nil
	case Mode9:
		return mode9.Decode(b.Bytes, b.Width, b.Height), nil
	default:
		return nil, errInvalidMode
	}
}

// clone copies a pool-backed buffer into freshly owned memory so the
// pool buffer can be returned immediately.
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
