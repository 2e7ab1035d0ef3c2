package toolpath

import (
	"context"
	"fmt"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
	"github.com/fabienbrocklesby/image2gcode/internal/gcode"
)

// Raster is the image a toolpath is generated from. Intensity is 0 for black
// and 255 for white.
type Raster interface {
	Size() (w, h int)
	Intensity(x, y int) uint8
}

// Options configure one generation run.
type Options struct {
	// Resolution is the physical size of one pixel.
	Resolution float64
	Power      Range
	Axis       gcode.Axis
	Pattern    Pattern
	// EdgeFrame traces the work area at maximum power after the raster.
	EdgeFrame bool
	// Progress, when set, is called after every pass with the number of
	// pixels processed so far.
	Progress func(done, total int)
}

func (o Options) validate() error {
	if !(o.Resolution > 0) {
		return errdefs.InvalidParameter("resolution must be positive, got %v", o.Resolution)
	}
	if o.Axis != gcode.AxisS && o.Axis != gcode.AxisZ {
		return errdefs.InvalidParameter("power axis must be S or Z, got %q", byte(o.Axis))
	}
	if o.Pattern != Horizontal && o.Pattern != Diagonal {
		return errdefs.InvalidParameter("unknown scan pattern %v", o.Pattern)
	}
	return nil
}

// Result is the toolpath body together with its pixel counters.
type Result struct {
	Body   *gcode.Program
	Pixels int
	Total  int
}

// emission remembers the last values written so unchanged tokens can be left
// out of the next line.
type emission struct {
	x, y, power float64
	set         bool
}

// next builds the motion line for a pixel and records its values. A token is
// only included when it differs from the previous pixel.
func (e *emission) next(x, y, power float64, axis gcode.Axis) gcode.Line {
	l := gcode.Command("G1")
	if !e.set || x != e.x {
		l = l.WithX(x)
	}
	if !e.set || y != e.y {
		l = l.WithY(y)
	}
	if !e.set || power != e.power {
		l = l.WithPower(axis, power)
	}
	e.x, e.y, e.power, e.set = x, y, power, true
	return l
}

// cursor tracks where a run is in the scan.
type cursor struct {
	col, row int
	pass     int
	done     int
	total    int
}

// Generate walks src in the configured pattern and returns the motion
// commands for it: a rapid move to the first pixel, continuous mode, laser on,
// one line per pixel whose position or power changed, laser off, then the
// optional edge frame followed by a second laser off.
//
// ctx is checked between passes; a cancelled run returns ctx's error and no
// result.
func Generate(ctx context.Context, src Raster, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	w, h := src.Size()
	if w < 1 || h < 1 {
		return nil, errdefs.InvalidParameter("image size %dx%d", w, h)
	}

	res := opts.Resolution
	physical := func(col, row int) (float64, float64) {
		return gcode.Round(res * float64(col)), gcode.Round(res * float64(h-1-row))
	}

	body := &gcode.Program{}
	for start := range opts.Pattern.Order(w, h) {
		x, y := physical(start.X, start.Y)
		body.Append(gcode.Command("G0").WithX(x).WithY(y))
		break
	}
	body.Append(gcode.Command("G1"))
	body.Append(gcode.Command("M3"))

	var em emission
	cur := cursor{total: w * h}
	for pass := range opts.Pattern.Passes(w, h) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("toolpath generation stopped at pass %d: %w", cur.pass, err)
		}

		for _, pt := range pass {
			cur.col, cur.row = pt.X, pt.Y
			x, y := physical(cur.col, cur.row)
			p := gcode.Round(opts.Power.Power(src.Intensity(cur.col, cur.row)))

			if l := em.next(x, y, p, opts.Axis); l.Tokens() > 0 {
				body.Append(l)
			}
			cur.done++
		}
		cur.pass++

		if opts.Progress != nil {
			opts.Progress(cur.done, cur.total)
		}
	}
	body.Append(gcode.Command("M5"))

	if opts.EdgeFrame {
		body.Extend(Frame(w, h, res, opts.Power.Max, opts.Axis))
		body.Append(gcode.Command("M5"))
	}

	return &Result{Body: body, Pixels: cur.done, Total: cur.total}, nil
}

// Frame returns the six commands tracing the border of a w×h pixel area at
// the given power: rapid to the origin, laser on, then up the left edge,
// along the top, down the right edge and back along the bottom.
func Frame(w, h int, resolution, power float64, axis gcode.Axis) *gcode.Program {
	right := gcode.Round(float64(w-1) * resolution)
	top := gcode.Round(float64(h-1) * resolution)

	p := &gcode.Program{}
	p.Append(gcode.Command("G0").WithX(0).WithY(0))
	p.Append(gcode.Command("M3").WithPower(axis, power))
	p.Append(gcode.Command("G1").WithX(0).WithY(top))
	p.Append(gcode.Command("G1").WithX(right).WithY(top))
	p.Append(gcode.Command("G1").WithX(right).WithY(0))
	p.Append(gcode.Command("G1").WithX(0).WithY(0))
	return p
}
