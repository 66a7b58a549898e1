package compose

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/openxiino/transcoder/bitmap"
	"github.com/openxiino/transcoder/dither"
	"github.com/openxiino/transcoder/internal/fetch"
	"github.com/openxiino/transcoder/internal/svgraster"
)

// maxDecodedPixels caps decoded width*height before any scaling runs.
const maxDecodedPixels = 1_000_000

var dataURLMimeWhitelist = toSet([]string{"IMAGE/JPEG", "IMAGE/PNG", "IMAGE/GIF", "IMAGE/SVG+XML", "IMAGE/WEBP"})

// fetchImageBytes resolves src to raw image bytes: either a data: URL
// payload or an upstream fetch.
func (c *Composer) fetchImageBytes(ctx context.Context, src string, cookies []*http.Cookie) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURL(src, c.cfg.MaxDataURLSize)
	}
	res, err := c.fetcher.Fetch(ctx, src, cookies, c.cfg.MaxImageSize)
	if err != nil {
		if err == fetch.ErrContentTooLarge {
			return nil, &ImageTaskError{Kind: ImageTooLarge, Err: err}
		}
		return nil, &ImageTaskError{Kind: ImageInvalidURL, Err: err}
	}
	return res.Body, nil
}

func decodeDataURL(src string, maxSize int) ([]byte, error) {
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return nil, &ImageTaskError{Kind: ImageInvalidURL, Err: fmt.Errorf("malformed data URL")}
	}
	meta := src[len("data:"):comma]
	mimeType := strings.ToUpper(strings.SplitN(meta, ";", 2)[0])
	if !dataURLMimeWhitelist[mimeType] {
		return nil, &ImageTaskError{Kind: ImageInvalidURL, Err: fmt.Errorf("unsupported data URL mime %q", mimeType)}
	}
	payload := src[comma+1:]
	if len(payload) > maxSize {
		return nil, &ImageTaskError{Kind: ImageTooLarge, Err: fmt.Errorf("data URL exceeds max size")}
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &ImageTaskError{Kind: ImageInvalidURL, Err: err}
	}
	return decoded, nil
}

// isSVG sniffs for a literal "<svg" in the first 1000 bytes.
func isSVG(data []byte) bool {
	n := len(data)
	if n > 1000 {
		n = 1000
	}
	return bytes.Contains(bytes.ToLower(data[:n]), []byte("<svg"))
}

// errImageDimensionsTooLarge is decodeToRGB's sentinel for both the
// total-pixel cap and the per-dimension cap, distinguishing it from a
// generic decode failure so the caller can report the right diagnostic.
var errImageDimensionsTooLarge = fmt.Errorf("image dimensions too large")

// decodeToRGB decodes raster image bytes to opaque RGB, compositing any
// alpha channel over white. maxDim bounds each of width/height
// individually, on top of the fixed total-pixel cap.
func decodeToRGB(data []byte, maxDim int) (pix [][3]uint8, w, h int, err error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	if w*h > maxDecodedPixels || (maxDim > 0 && (w > maxDim || h > maxDim)) {
		return nil, 0, 0, errImageDimensionsTooLarge
	}
	pix = make([][3]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			pix[y*w+x] = compositeOverWhite(r, g, bl, a)
		}
	}
	return pix, w, h, nil
}

func compositeOverWhite(r, g, b, a uint32) [3]uint8 {
	if a == 0xffff {
		return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
	af := float64(a) / 0xffff
	// image.Color.RGBA returns alpha-premultiplied channels, so the
	// color already carries its alpha weight; only white's share is added.
	comp := func(c uint32) uint8 {
		cf := float64(c>>8) / 255
		return uint8((cf + (1 - af)) * 255)
	}
	return [3]uint8{comp(r), comp(g), comp(b)}
}

// scaleDimensions applies the display-fit scaling rule: images wider
// than 306px are scaled down to 153px wide, images wider than 100px
// are halved, and anything smaller is left alone.
func scaleDimensions(w, h int) (int, int) {
	if w > 306 {
		return 153, h * 153 / w
	}
	if w > 100 {
		return w / 2, h / 2
	}
	return w, h
}

// scaleImage resizes pix (w x h) to newW x newH using a Catmull-Rom
// resampler.
func scaleImage(pix [][3]uint8, w, h, newW, newH int) [][3]uint8 {
	if newW == w && newH == h {
		return pix
	}
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := pix[y*w+x]
			i := src.PixOffset(x, y)
			src.Pix[i] = p[0]
			src.Pix[i+1] = p[1]
			src.Pix[i+2] = p[2]
			src.Pix[i+3] = 255
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out := make([][3]uint8, newW*newH)
	for y := 0; y < newH; y++ {
		for x := 0; x < newW; x++ {
			i := dst.PixOffset(x, y)
			out[y*newW+x] = [3]uint8{dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2]}
		}
	}
	return out
}

// runImageTask bounds the full per-image pipeline to
// cfg.ImageProcessingTimeout wall-clock and maps a blown deadline to the
// ImageTimeout diagnostic, whatever step was in flight when it fired.
func (c *Composer) runImageTask(ctx context.Context, src string, cookies []*http.Cookie, grayDepth int) (bitmap.Bitmap, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ImageProcessingTimeout)
	defer cancel()

	bm, w, h, err := c.runImagePipeline(ctx, src, cookies, grayDepth)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return bitmap.Bitmap{}, 0, 0, &ImageTaskError{Kind: ImageTimeout, Err: ctx.Err()}
	}
	return bm, w, h, err
}

// runImagePipeline performs the full per-image pipeline — fetch, decode
// or rasterize, scale, dither, encode — and returns the rendered bitmap
// plus final dimensions, or an *ImageTaskError describing which
// diagnostic to show instead.
func (c *Composer) runImagePipeline(ctx context.Context, src string, cookies []*http.Cookie, grayDepth int) (bitmap.Bitmap, int, int, error) {
	data, err := c.fetchImageBytes(ctx, src, cookies)
	if err != nil {
		return bitmap.Bitmap{}, 0, 0, err
	}
	if len(data) > c.cfg.MaxImageSize {
		return bitmap.Bitmap{}, 0, 0, &ImageTaskError{Kind: ImageTooLarge, Err: fmt.Errorf("image exceeds max size")}
	}

	var pix [][3]uint8
	var w, h int

	if isSVG(data) {
		if len(data) > c.cfg.MaxSVGSize {
			return bitmap.Bitmap{}, 0, 0, &ImageTaskError{Kind: ImageTooLarge, Err: fmt.Errorf("svg exceeds max size")}
		}
		sw, sh := svgraster.TargetDimensions(parseSVGDimensions(data))
		pix, err = rasterizeWithTimeout(ctx, c.cfg.SVGProcessingTimeout, data, sw, sh)
		if err != nil {
			kind := ImageProcessingError
			if err == context.DeadlineExceeded {
				kind = ImageTimeout
			}
			return bitmap.Bitmap{}, 0, 0, &ImageTaskError{Kind: kind, Err: err}
		}
		w, h = sw, sh
	} else {
		pix, w, h, err = decodeToRGB(data, c.cfg.MaxImageDimension)
		if err != nil {
			kind := ImageProcessingError
			if err == errImageDimensionsTooLarge {
				kind = ImageDimensionsTooLarge
			}
			return bitmap.Bitmap{}, 0, 0, &ImageTaskError{Kind: kind, Err: err}
		}
		newW, newH := scaleDimensions(w, h)
		pix = scaleImage(pix, w, h, newW, newH)
		w, h = newW, newH
	}

	img := dither.Image{Width: w, Height: h, Pix: pix}

	var result dither.Result
	var mode bitmap.Mode
	switch grayDepth {
	case 4:
		result = dither.GrayDither(img, 16, c.strategy)
		mode = bitmap.Mode4
	case 2:
		result = dither.GrayDither(img, 4, c.strategy)
		mode = bitmap.Mode2
	default:
		result = dither.ColorDither(img, c.strategy)
		mode = bitmap.Mode9
	}

	bm, err := bitmap.Encode(mode, result.Indices, w, h)
	if err != nil {
		return bitmap.Bitmap{}, 0, 0, &ImageTaskError{Kind: ImageProcessingError, Err: err}
	}
	return bm, w, h, nil
}

// rasterizeWithTimeout bounds svgraster.Rasterize to timeout, since it
// has no context parameter of its own to cancel on.
func rasterizeWithTimeout(ctx context.Context, timeout time.Duration, data []byte, w, h int) ([][3]uint8, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		pix [][3]uint8
		err error
	}
	done := make(chan result, 1)
	go func() {
		pix, err := svgraster.Rasterize(data, w, h)
		done <- result{pix, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.pix, r.err
	}
}

// parseSVGDimensions extracts target dimensions from the top of an SVG
// document's root element: the width/height attributes if both are
// present, else the width/height implied by viewBox, else (0,0) letting
// the caller fall back to svgraster.DefaultSize.
func parseSVGDimensions(data []byte) (float64, float64) {
	head := data
	if len(head) > 2000 {
		head = head[:2000]
	}
	w := extractAttrFloat(head, "width")
	h := extractAttrFloat(head, "height")
	if w > 0 && h > 0 {
		return w, h
	}
	if vw, vh, ok := extractViewBox(head); ok {
		if w <= 0 {
			w = vw
		}
		if h <= 0 {
			h = vh
		}
	}
	return w, h
}

func extractAttrFloat(data []byte, attr string) float64 {
	needle := []byte(attr + "=\"")
	idx := bytes.Index(data, needle)
	if idx < 0 {
		return 0
	}
	rest := data[idx+len(needle):]
	end := bytes.IndexByte(rest, '"')
	if end < 0 {
		return 0
	}
	numStr := strings.TrimRight(string(rest[:end]), "px")
	v, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0
	}
	return v
}

// extractViewBox reads the width/height implied by a viewBox attribute
// ("min-x min-y width height"), matching on the attribute name
// case-insensitively since SVG tooling isn't consistent about casing.
func extractViewBox(data []byte) (w, h float64, ok bool) {
	lower := bytes.ToLower(data)
	idx := bytes.Index(lower, []byte("viewbox=\""))
	if idx < 0 {
		return 0, 0, false
	}
	rest := data[idx+len("viewbox=\""):]
	end := bytes.IndexByte(rest, '"')
	if end < 0 {
		return 0, 0, false
	}
	fields := strings.Fields(string(rest[:end]))
	if len(fields) != 4 {
		return 0, 0, false
	}
	vw, errW := strconv.ParseFloat(fields[2], 64)
	vh, errH := strconv.ParseFloat(fields[3], 64)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return vw, vh, true
}
