package pixel

import (
	"math"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
)

// Luma returns the rounded Rec. 601 luma of an RGB triple.
func Luma(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000)
}

// Grayscale sets all three channels of every pixel to its luma. Applying it to
// an already gray buffer returns an identical buffer.
func Grayscale(src *RGB) *RGB {
	out := NewRGB(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 3 {
		v := Luma(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = v, v, v
	}
	return out
}

// Invert returns the photographic negative of src.
func Invert(src *RGB) *RGB {
	out := NewRGB(src.Width, src.Height)
	for i, v := range src.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// Balance holds brightness and contrast as signed percentages and gamma as a
// percentage where 100 leaves the image unchanged.
type Balance struct {
	Brightness int
	Contrast   int
	Gamma      int
}

// Identity reports whether b leaves every sample unchanged.
func (b Balance) Identity() bool {
	return b.Brightness == 0 && b.Contrast == 0 && b.Gamma == 100
}

// AdjustBalance applies contrast scaling plus brightness offset, clamps, then
// applies gamma through a lookup table and clamps again.
func AdjustBalance(src *RGB, b Balance) (*RGB, error) {
	if b.Gamma <= 0 {
		return nil, errdefs.InvalidParameter("gamma must be positive, got %d", b.Gamma)
	}
	if b.Identity() {
		return src.Clone(), nil
	}

	scale := 1 + float64(b.Contrast)/100
	offset := 255 * float64(b.Brightness) / 100
	gamma := float64(b.Gamma) / 100

	var lut [256]uint8
	for i := range lut {
		v := clamp(scale*float64(i) + offset)
		lut[i] = uint8(clamp(255 * math.Pow(v/255, 1/gamma)))
	}

	out := NewRGB(src.Width, src.Height)
	for i, v := range src.Pix {
		out.Pix[i] = lut[v]
	}
	return out, nil
}

// clamp rounds v to the nearest integer in [0,255].
func clamp(v float64) float64 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
