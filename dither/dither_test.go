package dither

import (
	"testing"

	"github.com/openxiino/transcoder/palette"
)

func solidImage(w, h int, rgb [3]uint8) Image {
	pix := make([][3]uint8, w*h)
	for i := range pix {
		pix[i] = rgb
	}
	return Image{Width: w, Height: h, Pix: pix}
}

func TestColorDitherIndicesInRange(t *testing.T) {
	img := solidImage(9, 9, [3]uint8{37, 200, 88})
	for _, s := range []Strategy{Quality, Performance} {
		res := ColorDither(img, s)
		for _, idx := range res.Indices {
			if int(idx) >= palette.Size {
				t.Fatalf("strategy %v: index %d out of range", s, idx)
			}
		}
	}
}

func TestGrayDitherIndicesInRange(t *testing.T) {
	img := solidImage(9, 9, [3]uint8{37, 200, 88})
	for _, levels := range []int{4, 16} {
		for _, s := range []Strategy{Quality, Performance} {
			res := GrayDither(img, levels, s)
			for _, idx := range res.Indices {
				if int(idx) >= levels {
					t.Fatalf("levels %d strategy %v: index %d out of range", levels, s, idx)
				}
			}
		}
	}
}

func TestSolidBlackDithersToNearestBlack(t *testing.T) {
	img := solidImage(4, 4, [3]uint8{0, 0, 0})
	res := ColorDither(img, Quality)
	wantLab := palette.RGBToLab(0, 0, 0)
	best := 0
	bestDist := wantLab.DistanceSquared(palette.LabAt(0))
	for i := 1; i < palette.Size; i++ {
		d := wantLab.DistanceSquared(palette.LabAt(i))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	for _, idx := range res.Indices {
		if int(idx) != best {
			t.Fatalf("solid black dithered to index %d, want nearest index %d", idx, best)
		}
	}
}
