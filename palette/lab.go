// Package palette defines the fixed 231-entry color palette, the two
// grayscale sub-palettes, and RGB<->CIE L*a*b* conversion used to measure
// perceptual color distance during quantization.
package palette

import "math"

// sRGB->XYZ (D65) matrix, applied directly to normalized [0,1] RGB with no
// intermediate gamma step. Constants are part of the wire contract: two
// implementations that quantize the same image to different palette
// indices because they used slightly different matrix coefficients are
// non-conformant.
const (
	mXr, mXg, mXb = 0.4124564, 0.3575761, 0.1804375
	mYr, mYg, mYb = 0.2126729, 0.7151522, 0.0721750
	mZr, mZg, mZb = 0.0193339, 0.1191920, 0.9503041

	whiteXn = 0.95047
	whiteYn = 1.0
	whiteZn = 1.08883

	labEpsilon = 0.008856
	labKappa   = 903.3
)

// Lab is a single CIE L*a*b* sample. L is in [0,100]; a and b are roughly
// in [-128,127].
type Lab struct {
	L, A, B float32
}

// f is the nonlinear L*a*b* companding curve.
func f(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

// RGBToLab converts one normalized (0..255) RGB triple to Lab.
func RGBToLab(r, g, b uint8) Lab {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	x := mXr*rf + mXg*gf + mXb*bf
	y := mYr*rf + mYg*gf + mYb*bf
	z := mZr*rf + mZg*gf + mZb*bf

	fx := f(x / whiteXn)
	fy := f(y / whiteYn)
	fz := f(z / whiteZn)

	l := 116*fy - 16
	if l < 0 {
		l = 0
	}
	return Lab{
		L: float32(l),
		A: float32(500 * (fx - fy)),
		B: float32(200 * (fy - fz)),
	}
}

// RGBToLabRow converts a whole row of RGB triples at once. This is the
// "vectorized" entry point callers in quantize and dither use; on current
// Go it is a tight loop rather than a SIMD kernel, which satisfies the
// per-row batching contract without architecture-specific code.
func RGBToLabRow(pixels [][3]uint8) []Lab {
	out := make([]Lab, len(pixels))
	for i, p := range pixels {
		out[i] = RGBToLab(p[0], p[1], p[2])
	}
	return out
}

// DistanceSquared returns the squared Euclidean distance between two Lab
// samples. Squared distance is sufficient for nearest-neighbor search and
// avoids a sqrt per comparison.
func (l Lab) DistanceSquared(o Lab) float64 {
	dl := float64(l.L - o.L)
	da := float64(l.A - o.A)
	db := float64(l.B - o.B)
	return dl*dl + da*da + db*db
}
