package dither

import (
	"github.com/openxiino/transcoder/palette"
	"github.com/openxiino/transcoder/quantize"
)

// bayer4x4 is the standard 4x4 ordered-dither threshold matrix, values
// 0..15.
var bayer4x4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

func threshold(x, y int) float32 {
	return float32(bayer4x4[y%4][x%4]) / 16.0
}

// orderedColor tiles the Bayer matrix over the whole image and quantizes
// in one vectorized call; there is no row-to-row data dependency, so the
// whole image is flattened before the single quantize call.
func orderedColor(img Image) Result {
	w, h := img.Width, img.Height
	res := Result{Width: w, Height: h, Indices: make([]uint8, w*h)}

	adjusted := make([][3]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			t := threshold(x, y)*32 - 16
			src := img.Pix[i]
			adjusted[i] = [3]uint8{
				clip255(float32(src[0]) + t),
				clip255(float32(src[1]) + t),
				clip255(float32(src[2]) + t),
			}
		}
	}
	labSamples := palette.RGBToLabRow(adjusted)
	indices, _ := quantize.NearestPaletteIndex(labSamples, adjusted)
	copy(res.Indices, indices)
	return res
}

// orderedGray is the grayscale analogue of orderedColor.
func orderedGray(img Image, levels int) Result {
	w, h := img.Width, img.Height
	res := Result{Width: w, Height: h, Indices: make([]uint8, w*h)}

	adjusted := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			t := threshold(x, y)*32 - 16
			adjusted[i] = clipL(rgbToL(img.Pix[i]) + t*100.0/255.0)
		}
	}
	indices, _ := quantize.NearestGray(adjusted, levels)
	copy(res.Indices, indices)
	return res
}
