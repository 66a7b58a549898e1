package mode9

// kind identifies the action a control code encodes.
type kind int

const (
	kindRLE kind = iota
	kindCopy
)

// code describes one CONTROL_CODES table entry.
type code struct {
	kind   kind
	k      int // RLE: additional-repeat count (1..6, 6 means "+length byte"); COPY: match length (1..6, 6 means "+length byte")
	offset int // COPY only: -1, 0, or +1
}

// firstCodeByte is the first byte value used by the control-code table.
// The palette has 231 entries (0..230); codes occupy the remaining
// byte values. The per-pixel state machine in this package needs 24
// distinct control codes (RLE_1..6, and COPY_1..6 for each of three
// offsets) to represent every (length, offset) combination exactly —
// eight more than the informal "sixteen" figure sometimes quoted for this
// coder, which undercounts the COPY-offset cross product. 24 fits
// comfortably in the 25 byte values (231..255) available above the
// palette range.
const firstCodeByte = 231

// codeTable maps wire byte -> code, built once at init from the ordered
// list below. codeByParams is the reverse lookup used by the encoder.
var codeTable [256]*code
var codeByParams = map[[2]int]byte{} // rleKey(k) / copyKey(k, offset) -> byte, built below

func init() {
	b := byte(firstCodeByte)
	// RLE_1..RLE_6
	for k := 1; k <= 6; k++ {
		c := &code{kind: kindRLE, k: k}
		codeTable[b] = c
		codeByParams[rleKey(k)] = b
		b++
	}
	// COPY_1..COPY_6 for offset -1, 0, +1, in that order.
	for _, off := range []int{-1, 0, 1} {
		for k := 1; k <= 6; k++ {
			c := &code{kind: kindCopy, k: k, offset: off}
			codeTable[b] = c
			codeByParams[copyKey(k, off)] = b
			b++
		}
	}
}

func rleKey(k int) [2]int {
	return [2]int{1, k}
}

func copyKey(k, offset int) [2]int {
	return [2]int{2*10 + (offset + 1), k}
}

func rleCodeByte(k int) byte {
	b, ok := codeByParams[rleKey(k)]
	if !ok {
		panic("mode9: no RLE code for k")
	}
	return b
}

func copyCodeByte(k, offset int) byte {
	b, ok := codeByParams[copyKey(k, offset)]
	if !ok {
		panic("mode9: no COPY code for k/offset")
	}
	return b
}

// isControlCode reports whether b is one of the 24 recognized codes.
func isControlCode(b byte) bool {
	return codeTable[b] != nil
}
