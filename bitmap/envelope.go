package bitmap

import (
	"encoding/base64"
	"fmt"
)

// Envelope renders a Bitmap as the paired EBD tags: the `<EBDIMAGE>` tag
// carrying the base64-encoded bytes, and the `<IMG>` tag that references
// it by name. name is the page's monotonic per-image counter; displayW/
// displayH are the on-page pixel dimensions (equal to b.Width/b.Height
// unless the caller scaled for display separately).
func Envelope(b Bitmap, name int, displayW, displayH int) string {
	encoded := base64.StdEncoding.EncodeToString(b.Bytes)
	imgTag := fmt.Sprintf(`<IMG WIDTH="%d" HEIGHT="%d" EBDWIDTH="%d" EBDHEIGHT="%d" EBD="#%d">`,
		displayW, displayH, b.Width, b.Height, name)
	ebdTag := fmt.Sprintf(`<EBDIMAGE MODE="%d" NAME="%d"><!--%s--></EBDIMAGE>`, b.Mode, name, encoded)
	return imgTag + "\n" + ebdTag + "\n"
}
