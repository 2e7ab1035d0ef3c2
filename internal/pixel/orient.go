package pixel

import "github.com/disintegration/imaging"

func FlipH(src *RGB) *RGB {
	return FromImage(imaging.FlipH(src.Image()))
}

func FlipV(src *RGB) *RGB {
	return FromImage(imaging.FlipV(src.Image()))
}

// RotateCW rotates a quarter turn clockwise; width and height swap.
func RotateCW(src *RGB) *RGB {
	return FromImage(imaging.Rotate270(src.Image()))
}

// RotateCCW rotates a quarter turn counter-clockwise.
func RotateCCW(src *RGB) *RGB {
	return FromImage(imaging.Rotate90(src.Image()))
}

// Rotate turns src by a multiple of 90 degrees, clockwise for positive
// angles.
func Rotate(src *RGB, degrees int) *RGB {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return RotateCW(src)
	case 180:
		return FromImage(imaging.Rotate180(src.Image()))
	case 270:
		return RotateCCW(src)
	}
	return src.Clone()
}
