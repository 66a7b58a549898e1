// Package dither implements the two dithering strategies (Floyd-Steinberg
// and ordered/Bayer) used before bitmap encoding.
package dither

import (
	"github.com/openxiino/transcoder/palette"
	"github.com/openxiino/transcoder/quantize"
)

// Strategy selects a dithering algorithm.
type Strategy int

const (
	// Quality selects Floyd-Steinberg error-diffusion dithering.
	Quality Strategy = iota
	// Performance selects ordered (4x4 Bayer) dithering.
	Performance
)

// Image is a row-major RGB image used as ditherer input.
type Image struct {
	Width, Height int
	Pix           [][3]uint8 // len == Width*Height
}

// Result is the ditherer's output: the dithered/quantized index map, in
// row-major order.
type Result struct {
	Width, Height int
	Indices       []uint8
}

// ColorDither dithers img to the 231-color palette using the given
// strategy.
func ColorDither(img Image, strategy Strategy) Result {
	switch strategy {
	case Performance:
		return orderedColor(img)
	default:
		return floydSteinbergColor(img)
	}
}

// GrayDither dithers img to a `levels`-level (4 or 16) grayscale
// sub-palette using the given strategy.
func GrayDither(img Image, levels int, strategy Strategy) Result {
	switch strategy {
	case Performance:
		return orderedGray(img, levels)
	default:
		return floydSteinbergGray(img, levels)
	}
}

func rgbToL(p [3]uint8) float32 {
	return palette.RGBToLab(p[0], p[1], p[2]).L
}

func clip255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clipL(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// floydSteinbergColor iterates rows top to bottom, diffusing residual RGB
// error to four neighbors with weights 7/16 E, 3/16 SW, 5/16 S, 1/16 SE.
func floydSteinbergColor(img Image) Result {
	w, h := img.Width, img.Height
	res := Result{Width: w, Height: h, Indices: make([]uint8, w*h)}

	// accumErr[y][x] holds error carried into that pixel before it is
	// quantized; only the current and next row are ever needed, but we
	// keep a single full-image buffer for simplicity of indexing.
	accumErr := make([][3]float32, w*h)

	for y := 0; y < h; y++ {
		rowRGB := make([][3]uint8, w)
		for x := 0; x < w; x++ {
			i := y*w + x
			e := accumErr[i]
			src := img.Pix[i]
			rowRGB[x] = [3]uint8{
				clip255(float32(src[0]) + e[0]),
				clip255(float32(src[1]) + e[1]),
				clip255(float32(src[2]) + e[2]),
			}
		}
		lab := palette.RGBToLabRow(rowRGB)
		indices, errRGB := quantize.NearestPaletteIndex(lab, rowRGB)
		for x := 0; x < w; x++ {
			res.Indices[y*w+x] = indices[x]
			diffuseColorError(accumErr, w, h, x, y, errRGB[x])
		}
	}
	return res
}

func diffuseColorError(accumErr [][3]float32, w, h, x, y int, e [3]float32) {
	add := func(nx, ny int, weight float32) {
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			return
		}
		idx := ny*w + nx
		accumErr[idx][0] += e[0] * weight
		accumErr[idx][1] += e[1] * weight
		accumErr[idx][2] += e[2] * weight
	}
	add(x+1, y, 7.0/16)
	add(x-1, y+1, 3.0/16)
	add(x, y+1, 5.0/16)
	add(x+1, y+1, 1.0/16)
}

func floydSteinbergGray(img Image, levels int) Result {
	w, h := img.Width, img.Height
	res := Result{Width: w, Height: h, Indices: make([]uint8, w*h)}
	accumErr := make([]float32, w*h)

	for y := 0; y < h; y++ {
		rowL := make([]float32, w)
		for x := 0; x < w; x++ {
			i := y*w + x
			rowL[x] = clipL(rgbToL(img.Pix[i]) + accumErr[i]*100.0/255.0)
		}
		indices, errL := quantize.NearestGray(rowL, levels)
		for x := 0; x < w; x++ {
			res.Indices[y*w+x] = indices[x]
			diffuseGrayError(accumErr, w, h, x, y, errL[x])
		}
	}
	return res
}

func diffuseGrayError(accumErr []float32, w, h, x, y int, e float32) {
	add := func(nx, ny int, weight float32) {
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			return
		}
		accumErr[ny*w+nx] += e * weight
	}
	add(x+1, y, 7.0/16)
	add(x-1, y+1, 3.0/16)
	add(x, y+1, 5.0/16)
	add(x+1, y+1, 1.0/16)
}
