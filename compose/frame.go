package compose

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// framePrefix is the fixed 16-byte header the client expects at the
// start of every response body: twelve 0x00 bytes, then CRLFCRLF.
var framePrefix = append(make([]byte, 12), 0x0D, 0x0A, 0x0D, 0x0A)

// Frame encodes body as ISO-8859-1 (lossy, replacing unencodable code
// points) and prepends the fixed frame prefix.
func Frame(body string) ([]byte, error) {
	lossyEncoder := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	encoded, err := lossyEncoder.String(body)
	if err != nil {
		return nil, fmt.Errorf("compose: latin-1 encode: %w", err)
	}
	out := make([]byte, 0, len(framePrefix)+len(encoded))
	out = append(out, framePrefix...)
	out = append(out, encoded...)
	return out, nil
}
