// Package quantize maps image pixels to the nearest palette entry (color
// or grayscale) and returns the residual error used by the ditherer.
package quantize

import "github.com/openxiino/transcoder/palette"

// NearestPaletteIndex maps a row of Lab samples to palette indices,
// returning both the index and the RGB residual (source RGB minus the
// chosen palette entry's RGB — error diffusion happens in RGB, not Lab,
// so the wire output matches the reference behavior exactly). Ties are
// broken to the lowest index.
func NearestPaletteIndex(labRow []palette.Lab, rgbRow [][3]uint8) (indices []uint8, errRGB [][3]float32) {
	n := len(labRow)
	indices = make([]uint8, n)
	errRGB = make([][3]float32, n)
	table := palette.All()

	for i, lab := range labRow {
		best := 0
		bestDist := lab.DistanceSquared(table[0])
		for j := 1; j < len(table); j++ {
			d := lab.DistanceSquared(table[j])
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		indices[i] = uint8(best)
		pr := palette.RGB[best]
		errRGB[i] = [3]float32{
			float32(rgbRow[i][0]) - float32(pr[0]),
			float32(rgbRow[i][1]) - float32(pr[1]),
			float32(rgbRow[i][2]) - float32(pr[2]),
		}
	}
	return indices, errRGB
}

// NearestGray maps a row of L* samples to a grayscale sub-palette of the
// given level count (4 or 16), returning wire indices (already inverted:
// 0=white, levels-1=black) and the residual L error scaled back to
// [0,255] for diffusion.
func NearestGray(lRow []float32, levels int) (indices []uint8, errL []float32) {
	gp := grayPaletteFor(levels)
	n := len(lRow)
	indices = make([]uint8, n)
	errL = make([]float32, n)

	for i, l := range lRow {
		best := 0
		bestDist := absDiff(l, gp.L[0])
		for j := 1; j < levels; j++ {
			d := absDiff(l, gp.L[j])
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		indices[i] = uint8(levels - 1 - best)
		errL[i] = (l - gp.L[best]) * 255.0 / 100.0
	}
	return indices, errL
}

func grayPaletteFor(levels int) palette.GrayPalette {
	switch levels {
	case 4:
		return palette.Gray4
	case 16:
		return palette.Gray16
	default:
		panic("quantize: unsupported grayscale level count")
	}
}

func absDiff(a, b float32) float32 {
	if a < b {
		return b - a
	}
	return a - b
}
