// Package scanline implements the row-delta "scanline" coder used by EBD
// modes 1, 3, and 5 to compress the packed byte streams of modes 0, 2,
// and 4 respectively.
package scanline

// Encode compresses a byte stream already laid out as `rows` rows of
// `rowWidthBytes` bytes each. Row 0 is emitted as all-literal 8-byte
// chunks (mask 0xFF); subsequent rows emit, per 8-byte chunk, a change
// mask followed by only the bytes that differ from the previous row.
func Encode(data []byte, rows, rowWidthBytes int) []byte {
	out := make([]byte, 0, len(data)+len(data)/8+rows)
	var prev []byte
	for r := 0; r < rows; r++ {
		row := data[r*rowWidthBytes : (r+1)*rowWidthBytes]
		out = append(out, encodeRow(row, prev)...)
		prev = row
	}
	return out
}

// encodeRow encodes one row against prev (nil for the first row).
func encodeRow(row, prev []byte) []byte {
	out := make([]byte, 0, len(row)+len(row)/8+1)
	n := len(row)
	for off := 0; off < n; off += 8 {
		end := off + 8
		if end > n {
			end = n
		}
		chunkLen := end - off
		var mask byte
		var changed []byte
		if prev == nil {
			if chunkLen == 8 {
				mask = 0xFF
			} else {
				mask = 0xFF << uint(8-chunkLen)
			}
			changed = row[off:end]
		} else {
			for k := 0; k < chunkLen; k++ {
				if row[off+k] != prev[off+k] {
					mask |= 1 << uint(7-k)
					changed = append(changed, row[off+k])
				}
			}
		}
		out = append(out, mask)
		out = append(out, changed...)
	}
	return out
}

// Decode reverses Encode, given the original row/column geometry.
func Decode(data []byte, rows, rowWidthBytes int) []byte {
	out := make([]byte, rows*rowWidthBytes)
	pos := 0
	var prev []byte
	for r := 0; r < rows; r++ {
		rowOut := out[r*rowWidthBytes : (r+1)*rowWidthBytes]
		pos = decodeRow(data, pos, rowOut, prev)
		prev = rowOut
	}
	return out
}

// decodeRow decodes one row starting at data[pos], writing into rowOut
// (which has the previous row's bytes preloaded by the caller via prev
// being nil only on row 0 — for row i>0 rowOut starts as a copy of prev).
func decodeRow(data []byte, pos int, rowOut []byte, prev []byte) int {
	n := len(rowOut)
	if prev != nil {
		copy(rowOut, prev)
	}
	for off := 0; off < n; off += 8 {
		end := off + 8
		if end > n {
			end = n
		}
		chunkLen := end - off
		mask := data[pos]
		pos++
		for k := 0; k < chunkLen; k++ {
			if mask&(1<<uint(7-k)) != 0 {
				rowOut[off+k] = data[pos]
				pos++
			}
		}
	}
	return pos
}
