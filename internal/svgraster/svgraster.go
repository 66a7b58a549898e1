// Package svgraster rasterizes SVG documents to RGB pixel buffers using
// oksvg (parsing) and rasterx (scan conversion).
package svgraster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultSize is used when an SVG has neither width/height attributes
// nor a viewBox.
const DefaultSize = 306

// Rasterize parses svgBytes and renders it at targetW x targetH,
// compositing over opaque white (SVGs may have transparent backgrounds,
// and the bitmap coders downstream assume opaque RGB).
func Rasterize(svgBytes []byte, targetW, targetH int) ([][3]uint8, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgBytes))
	if err != nil {
		return nil, fmt.Errorf("svgraster: parse: %w", err)
	}
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	img := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(targetW, targetH, img, img.Bounds())
	raster := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(raster, 1.0)

	out := make([][3]uint8, targetW*targetH)
	for y := 0; y < targetH; y++ {
		for x := 0; x < targetW; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out[y*targetW+x] = compositeOverWhite(r, g, b, a)
		}
	}
	return out, nil
}

func compositeOverWhite(r, g, b, a uint32) [3]uint8 {
	if a == 0xffff {
		return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
	af := float64(a) / 0xffff
	comp := func(c uint32) uint8 {
		cf := float64(c>>8) / 255 // already alpha-premultiplied
		out := cf + 1.0*(1-af)
		return uint8(out * 255)
	}
	return [3]uint8{comp(r), comp(g), comp(b)}
}

// TargetDimensions derives the raster target size from an SVG's declared
// width/height or viewBox, falling back to DefaultSize, then applies the
// same display-fit scaling rule used for raster images.
func TargetDimensions(width, height float64) (w, h int) {
	if width <= 0 || height <= 0 {
		width, height = DefaultSize, DefaultSize
	}
	if width > 306 {
		return 153, int(height * 153 / width)
	}
	if width > 100 {
		return int(width / 2), int(height / 2)
	}
	return int(width), int(height)
}
