package bitmap

import "github.com/openxiino/transcoder/internal/pool"

// Pack1 packs a 1-bit index map (booleans, 0=white/1=black already
// resolved by the caller's threshold step) 8 pixels per byte, MSB-first,
// with bit=1 meaning "black". Indices must be 0 or 1; any nonzero value
// is treated as black.
func Pack1(indices []uint8, width, height int) []byte {
	wb := rowWidthBytes(width, 8)
	out := pool.Get(wb * height)
	for i := range out {
		out[i] = 0
	}
	for y := 0; y < height; y++ {
		rowOff := y * width
		byteOff := y * wb
		for x := 0; x < width; x++ {
			if indices[rowOff+x] != 0 {
				out[byteOff+x/8] |= 1 << uint(7-x%8)
			}
		}
	}
	return out
}

// Unpack1 is the inverse of Pack1.
func Unpack1(data []byte, width, height int) []uint8 {
	wb := rowWidthBytes(width, 8)
	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		rowOff := y * width
		byteOff := y * wb
		for x := 0; x < width; x++ {
			b := data[byteOff+x/8]
			if b&(1<<uint(7-x%8)) != 0 {
				out[rowOff+x] = 1
			}
		}
	}
	return out
}

// Pack2 packs a 2-bit index map, 4 values per byte MSB-first (pixel 0
// occupies bits 7-6).
func Pack2(indices []uint8, width, height int) []byte {
	wb := rowWidthBytes(width, 4)
	out := pool.Get(wb * height)
	for i := range out {
		out[i] = 0
	}
	for y := 0; y < height; y++ {
		rowOff := y * width
		byteOff := y * wb
		for x := 0; x < width; x++ {
			shift := uint(6 - 2*(x%4))
			out[byteOff+x/4] |= (indices[rowOff+x] & 0x3) << shift
		}
	}
	return out
}

// Unpack2 is the inverse of Pack2.
func Unpack2(data []byte, width, height int) []uint8 {
	wb := rowWidthBytes(width, 4)
	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		rowOff := y * width
		byteOff := y * wb
		for x := 0; x < width; x++ {
			shift := uint(6 - 2*(x%4))
			out[rowOff+x] = (data[byteOff+x/4] >> shift) & 0x3
		}
	}
	return out
}

// Pack4 packs a 4-bit index map, 2 nibbles per byte: high nibble =
// pixel 0, low nibble = pixel 1.
func Pack4(indices []uint8, width, height int) []byte {
	wb := rowWidthBytes(width, 2)
	out := pool.Get(wb * height)
	for i := range out {
		out[i] = 0
	}
	for y := 0; y < height; y++ {
		rowOff := y * width
		byteOff := y * wb
		for x := 0; x < width; x++ {
			v := indices[rowOff+x] & 0xF
			if x%2 == 0 {
				out[byteOff+x/2] |= v << 4
			} else {
				out[byteOff+x/2] |= v
			}
		}
	}
	return out
}

// Unpack4 is the inverse of Pack4.
func Unpack4(data []byte, width, height int) []uint8 {
	wb := rowWidthBytes(width, 2)
	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		rowOff := y * width
		byteOff := y * wb
		for x := 0; x < width; x++ {
			b := data[byteOff+x/2]
			if x%2 == 0 {
				out[rowOff+x] = b >> 4
			} else {
				out[rowOff+x] = b & 0xF
			}
		}
	}
	return out
}

// Pack8 emits one byte per pixel (the palette index), no padding.
func Pack8(indices []uint8) []byte {
	out := pool.Get(len(indices))
	copy(out, indices)
	return out
}

// Unpack8 is the inverse of Pack8.
func Unpack8(data []byte) []uint8 {
	out := make([]uint8, len(data))
	copy(out, data)
	return out
}
