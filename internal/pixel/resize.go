package pixel

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
)

// Interpolation selects the resampling kernel used by Resize.
type Interpolation int

const (
	NearestNeighbor Interpolation = iota
	Bilinear
	CatmullRom
)

func (i Interpolation) String() string {
	switch i {
	case NearestNeighbor:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case CatmullRom:
		return "catmullrom"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "", "nearest":
		return NearestNeighbor, nil
	case "bilinear":
		return Bilinear, nil
	case "catmullrom", "catmull-rom":
		return CatmullRom, nil
	}
	return 0, errdefs.InvalidParameter("unknown interpolation %q", s)
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case Bilinear:
		return draw.ApproxBiLinear
	case CatmullRom:
		return draw.CatmullRom
	}
	return draw.NearestNeighbor
}

// floorSlack absorbs binary rounding in divisions such as 0.3/0.1.
const floorSlack = 1e-9

// MaxPixels bounds every grid this package allocates.
const MaxPixels = 1 << 26

// TargetSize converts a physical size into a pixel grid for the given
// resolution (physical units per pixel).
func TargetSize(width, height, resolution float64) (int, int, error) {
	if !(resolution > 0) {
		return 0, 0, errdefs.InvalidParameter("resolution must be positive, got %v", resolution)
	}
	if !(width > 0) || !(height > 0) {
		return 0, 0, errdefs.InvalidParameter("size must be positive, got %vx%v", width, height)
	}

	fw := math.Floor(width/resolution + floorSlack)
	fh := math.Floor(height/resolution + floorSlack)
	if math.IsInf(fw, 0) || math.IsInf(fh, 0) {
		return 0, 0, errdefs.InvalidParameter("%vx%v at resolution %v is not a finite grid", width, height, resolution)
	}
	if fw < 1 || fh < 1 {
		return 0, 0, errdefs.InvalidParameter("%vx%v at resolution %v is smaller than one pixel", width, height, resolution)
	}
	if fw*fh > MaxPixels {
		return 0, 0, errdefs.InvalidParameter("%vx%v at resolution %v exceeds %d pixels", width, height, resolution, MaxPixels)
	}
	return int(fw), int(fh), nil
}

// Resize resamples src onto a w×h grid. The same kernel is used on both axes.
func Resize(src *RGB, w, h int, interp Interpolation) (*RGB, error) {
	if w < 1 || h < 1 || int64(w)*int64(h) > MaxPixels {
		return nil, errdefs.InvalidParameter("target size %dx%d", w, h)
	}
	if w == src.Width && h == src.Height {
		return src.Clone(), nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	interp.scaler().Scale(dst, dst.Bounds(), src.Image(), image.Rect(0, 0, src.Width, src.Height), draw.Src, nil)
	return FromImage(dst), nil
}
