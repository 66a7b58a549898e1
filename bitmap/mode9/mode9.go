// Package mode9 implements the EBD mode-9 bitmap coder: an RLE and
// three-way vertical-offset back-reference compressor over an 8-bit
// palette-index image.
package mode9

// window is the maximum run/match length considered per candidate.
const window = 21

// Encode compresses a width x height palette-index image (values 0..230)
// into the mode-9 byte stream.
func Encode(indices []uint8, width, height int) []byte {
	out := make([]byte, 0, len(indices))
	for y := 0; y < height; y++ {
		x := 0
		for x < width {
			advance := encodePixel(&out, indices, width, height, x, y)
			x += advance
		}
	}
	return out
}

// encodePixel evaluates the four candidates at (x,y), emits the winning
// token, and returns how far x advances.
func encodePixel(out *[]byte, indices []uint8, width, height, x, y int) int {
	row := func(yy int) []uint8 { return indices[yy*width : (yy+1)*width] }

	maxLen := width - x
	if maxLen > window {
		maxLen = window
	}

	rleLen := runLength(row(y), x, maxLen)
	if rleLen < 2 {
		rleLen = 0
	}

	var copyLen [3]int // index 0 = offset -1, 1 = offset 0, 2 = offset +1
	if y > 0 {
		prev := row(y - 1)
		for i, off := range [3]int{-1, 0, 1} {
			copyLen[i] = matchLength(row(y), prev, x, off, width, maxLen)
		}
	}

	rleScore := float64(rleLen) * 1.2
	copy0Score := float64(copyLen[1]) * 1.1
	copyM1Score := float64(copyLen[0]) * 1.0
	copyP1Score := float64(copyLen[2]) * 1.0

	best := rleScore
	choice := "rle"
	if copy0Score > best {
		best = copy0Score
		choice = "copy0"
	}
	if copyM1Score > best {
		best = copyM1Score
		choice = "copym1"
	}
	if copyP1Score > best {
		best = copyP1Score
		choice = "copyp1"
	}

	if best == 0 {
		*out = append(*out, indices[y*width+x])
		return 1
	}

	switch choice {
	case "rle":
		*out = append(*out, indices[y*width+x])
		k := rleLen - 1
		emitRLE(out, k)
		return rleLen
	case "copy0":
		emitCopy(out, copyLen[1], 0)
		return copyLen[1]
	case "copym1":
		emitCopy(out, copyLen[0], -1)
		return copyLen[0]
	default:
		emitCopy(out, copyLen[2], 1)
		return copyLen[2]
	}
}

func emitRLE(out *[]byte, k int) {
	if k <= 5 {
		*out = append(*out, rleCodeByte(k))
		return
	}
	*out = append(*out, rleCodeByte(6), byte(k-6))
}

func emitCopy(out *[]byte, length, offset int) {
	if length <= 5 {
		*out = append(*out, copyCodeByte(length, offset))
		return
	}
	*out = append(*out, copyCodeByte(6, offset), byte(length-6))
}

// runLength returns the number of consecutive pixels starting at x equal
// to row[x], capped at maxLen.
func runLength(row []uint8, x, maxLen int) int {
	v := row[x]
	n := 1
	for n < maxLen && row[x+n] == v {
		n++
	}
	return n
}

// matchLength returns the longest match between row[x:] and
// prev[x+offset:], capped at maxLen and by prev's bounds.
func matchLength(row, prev []uint8, x, offset, width, maxLen int) int {
	srcStart := x + offset
	if srcStart < 0 || srcStart >= width {
		return 0
	}
	srcCap := width - srcStart
	if srcCap < maxLen {
		maxLen = srcCap
	}
	n := 0
	for n < maxLen && row[x+n] == prev[srcStart+n] {
		n++
	}
	return n
}

// Decode reverses Encode, given the target width and height.
func Decode(data []byte, width, height int) []uint8 {
	out := make([]uint8, width*height)
	pos := 0
	written := 0
	total := width * height

	for written < total {
		b := data[pos]
		pos++

		if isControlCode(b) {
			// A control code read as the "current byte" (not
			// following a literal read this iteration) is always a
			// COPY: the encoder never emits an RLE code except
			// immediately after its associated literal byte, which
			// is consumed in the literal branch below.
			c := codeTable[b]
			length := c.k
			if length == 6 {
				length += int(data[pos])
				pos++
			}
			x, y := written%width, written/width
			srcIdx := (y-1)*width + x + c.offset
			for i := 0; i < length; i++ {
				out[written+i] = out[srcIdx+i]
			}
			written += length
			continue
		}

		// Literal pixel; peek for a trailing RLE code.
		out[written] = b
		if pos < len(data) && isControlCode(data[pos]) && codeTable[data[pos]].kind == kindRLE {
			c := codeTable[data[pos]]
			pos++
			k := c.k
			if k == 6 {
				k += int(data[pos])
				pos++
			}
			for i := 1; i <= k; i++ {
				out[written+i] = b
			}
			written += k + 1
			continue
		}
		written++
	}
	return out
}
