// Package preview draws what a generated program would burn.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
	"github.com/fabienbrocklesby/image2gcode/internal/gcode"
	"github.com/fabienbrocklesby/image2gcode/internal/pixel"
	"github.com/fabienbrocklesby/image2gcode/internal/toolpath"
)

// Options describe the raster the program was generated from.
type Options struct {
	Width, Height int
	Resolution    float64
	Power         toolpath.Range
	// Scale is the number of preview pixels per raster pixel; 0 means 1.
	Scale int
}

type segment struct {
	from, to fixed.Point26_6
}

// Render replays prog and strokes every move made with the laser on. The gray
// level of a stroke follows its power within opts.Power, black being maximum.
func Render(prog *gcode.Program, opts Options) (*image.RGBA, error) {
	if opts.Width < 1 || opts.Height < 1 || !(opts.Resolution > 0) {
		return nil, errdefs.InvalidParameter("preview of %dx%d at resolution %v", opts.Width, opts.Height, opts.Resolution)
	}
	scale := max(opts.Scale, 1)
	if float64(opts.Width)*float64(opts.Height)*float64(scale)*float64(scale) > pixel.MaxPixels {
		return nil, errdefs.InvalidParameter("preview of %dx%d at scale %d exceeds %d pixels", opts.Width, opts.Height, scale, pixel.MaxPixels)
	}
	w, h := opts.Width*scale, opts.Height*scale

	// machine coordinates to the center of the matching preview pixel
	toCanvas := func(x, y float64) fixed.Point26_6 {
		cx := (x/opts.Resolution + 0.5) * float64(scale)
		cy := (float64(opts.Height) - 0.5 - y/opts.Resolution) * float64(scale)
		return rasterx.ToFixedP(cx, cy)
	}

	levels := make(map[uint8][]segment)
	var x, y, power float64
	on := false
	for _, l := range prog.Lines() {
		if l.Literal != "" {
			continue
		}
		if l.HasPower {
			power = l.Power
		}

		switch l.Code {
		case "M3":
			on = true
		case "M5":
			on = false
		case "G0", "G1":
			nx, ny := x, y
			if l.HasX {
				nx = l.X
			}
			if l.HasY {
				ny = l.Y
			}
			if l.Code == "G1" && on && (nx != x || ny != y) {
				if g := shade(power, opts.Power); g < 255 {
					levels[g] = append(levels[g], segment{toCanvas(x, y), toCanvas(nx, ny)})
				}
			}
			x, y = nx, ny
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	stroker := rasterx.NewStroker(w, h, scanner)
	stroker.SetStroke(fixed.I(scale), fixed.I(4*scale), rasterx.ButtCap, nil, rasterx.FlatGap, rasterx.Miter)

	// lightest first so darker burns win where strokes overlap
	for g := 254; g >= 0; g-- {
		segs := levels[uint8(g)]
		if len(segs) == 0 {
			continue
		}
		for _, s := range segs {
			stroker.Start(s.from)
			stroker.Line(s.to)
			stroker.Stop(false)
		}
		scanner.SetColor(color.Gray{Y: uint8(g)})
		stroker.Draw()
		stroker.Clear()
	}

	return img, nil
}

// shade maps a power value to a gray level, 0 for full power.
func shade(power float64, r toolpath.Range) uint8 {
	span := r.Max - r.Min
	frac := 1.0
	if span != 0 {
		frac = (power - r.Min) / span
	}
	frac = math.Min(1, math.Max(0, frac))
	return uint8(math.Round(255 * (1 - frac)))
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Save writes img as a PNG file, replacing path atomically.
func Save(path string, img image.Image) error {
	return gcode.AtomicWrite(path, func(w io.Writer) error {
		return Encode(w, img)
	})
}
