package palette

// Size is the fixed number of entries in the color palette. Wire-level
// palette indices are always < Size.
const Size = 231

// ReservedIndex is the distinguished "should never occur" fallback index.
const ReservedIndex = 0xE6 // 230

// levelSteps are the six evenly spaced channel values used to build the
// 6x6x6 color cube that forms the bulk of the palette.
var levelSteps = [6]uint8{0, 51, 102, 153, 204, 255}

// extraGrayLevels fills out the cube with additional gray tones not
// already present at a cube vertex (cube vertices only produce grays at
// multiples of 51).
var extraGrayLevels = [14]uint8{8, 24, 40, 64, 80, 96, 120, 136, 160, 176, 200, 216, 232, 248}

// reservedRGB is the RGB triple stored at ReservedIndex. Its exact value
// is immaterial (per spec, "identities immaterial provided disjoint");
// the round-trip invariant only requires every entry be unique.
var reservedRGB = [3]uint8{255, 0, 128}

// RGB is the full 231-entry immutable palette, indexed by wire index.
// Order must never change: it is part of the wire contract.
var RGB [Size][3]uint8

// labTable holds the precomputed Lab value of each palette entry.
var labTable [Size]Lab

func init() {
	idx := 0
	for _, r := range levelSteps {
		for _, g := range levelSteps {
			for _, b := range levelSteps {
				RGB[idx] = [3]uint8{r, g, b}
				idx++
			}
		}
	}
	for _, v := range extraGrayLevels {
		RGB[idx] = [3]uint8{v, v, v}
		idx++
	}
	RGB[ReservedIndex] = reservedRGB
	idx++
	if idx != Size {
		panic("palette: generated entry count does not match Size")
	}

	for i, rgb := range RGB {
		labTable[i] = RGBToLab(rgb[0], rgb[1], rgb[2])
	}
}

// LabAt returns the precomputed Lab value for palette index i.
func LabAt(i int) Lab {
	return labTable[i]
}

// All returns the precomputed Lab table for the whole palette, in index
// order. Callers must not mutate the returned slice.
func All() []Lab {
	return labTable[:]
}
