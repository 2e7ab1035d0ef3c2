// Package pipeline owns the working image of a conversion session and runs
// the image-to-toolpath stages over it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fabienbrocklesby/image2gcode/internal/config"
	"github.com/fabienbrocklesby/image2gcode/internal/gcode"
	"github.com/fabienbrocklesby/image2gcode/internal/loader"
	"github.com/fabienbrocklesby/image2gcode/internal/pixel"
	"github.com/fabienbrocklesby/image2gcode/internal/toolpath"
)

// Pipeline holds the decoded source image and the images derived from it.
// Derived images are replaced, never modified, when settings change. A
// Pipeline is not safe for concurrent use.
type Pipeline struct {
	// Now stamps generated files; tests pin it for reproducible output.
	Now func() time.Time

	source   *pixel.RGB // grayscale as decoded
	original *pixel.RGB // source after invert and orientation
	working  *pixel.RGB // original resized and balanced
	dithered *pixel.Bilevel

	last applied
}

// applied records the value each setting had when the derived images were
// last rebuilt. Fields are compared one by one so a change to any of them is
// never hidden by another.
type applied struct {
	valid bool

	invert           bool
	mirrorX, mirrorY bool
	rotate           int

	width, height, resolution float64
	interp                    pixel.Interpolation
	balance                   pixel.Balance
	dither                    bool
}

// Open decodes the image at path and converts it to grayscale.
func Open(path string) (*Pipeline, error) {
	img, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	Logger().Info("image loaded", "path", path, "width", img.Width, "height", img.Height)
	return New(img), nil
}

// New starts a session on img, which is converted to grayscale.
func New(img *pixel.RGB) *Pipeline {
	gray := pixel.Grayscale(img)
	return &Pipeline{
		Now:      time.Now,
		source:   gray,
		original: gray,
		working:  gray,
	}
}

// Original returns the grayscale image after invert and orientation.
func (p *Pipeline) Original() *pixel.RGB { return p.original }

// Working returns the resized and balanced image of the last Adjust.
func (p *Pipeline) Working() *pixel.RGB { return p.working }

// Dithered returns the dithered working image, or nil when dithering is off.
func (p *Pipeline) Dithered() *pixel.Bilevel { return p.dithered }

// Raster returns the image toolpaths are generated from.
func (p *Pipeline) Raster() toolpath.Raster {
	if p.dithered != nil {
		return p.dithered
	}
	return p.working
}

// AspectRatio is the width over height of the oriented image.
func (p *Pipeline) AspectRatio() float64 {
	return aspectRatio(p.original)
}

func aspectRatio(img *pixel.RGB) float64 {
	return float64(img.Width) / float64(img.Height)
}

// Adjust rebuilds whatever derived images depend on settings that changed
// since the last call. On error the previous images are kept.
func (p *Pipeline) Adjust(s config.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	interp, err := pixel.ParseInterpolation(s.Interpolation)
	if err != nil {
		return err
	}

	next := applied{
		valid:      true,
		invert:     s.Invert,
		mirrorX:    s.MirrorX,
		mirrorY:    s.MirrorY,
		rotate:     ((s.Rotate % 360) + 360) % 360,
		width:      s.Width,
		height:     s.Height,
		resolution: s.Resolution,
		interp:     interp,
		balance:    s.Balance(),
		dither:     s.Dither,
	}
	last := p.last

	original := p.original
	orient := !last.valid || next.invert != last.invert || next.mirrorX != last.mirrorX ||
		next.mirrorY != last.mirrorY || next.rotate != last.rotate
	if orient {
		original = p.source
		if next.invert {
			original = pixel.Invert(original)
		}
		if next.mirrorX {
			original = pixel.FlipH(original)
		}
		if next.mirrorY {
			original = pixel.FlipV(original)
		}
		original = pixel.Rotate(original, next.rotate)
	}

	if s.LockAspect {
		next.height = next.width / aspectRatio(original)
	}

	working := p.working
	resize := orient || next.width != last.width || next.height != last.height ||
		next.resolution != last.resolution || next.interp != last.interp
	rebalance := resize || next.balance != last.balance
	if rebalance {
		start := time.Now()
		w, h, err := pixel.TargetSize(next.width, next.height, next.resolution)
		if err != nil {
			return err
		}
		resized, err := pixel.Resize(original, w, h, interp)
		if err != nil {
			return err
		}
		Logger().Debug("resized", "width", w, "height", h, "interpolation", interp.String(), "elapsed", time.Since(start))

		start = time.Now()
		working, err = pixel.AdjustBalance(resized, next.balance)
		if err != nil {
			return err
		}
		Logger().Debug("balanced", "brightness", next.balance.Brightness, "contrast", next.balance.Contrast,
			"gamma", next.balance.Gamma, "elapsed", time.Since(start))
	}

	dithered := p.dithered
	switch {
	case !next.dither:
		dithered = nil
	case rebalance || !last.dither:
		start := time.Now()
		dithered = pixel.FloydSteinberg(working)
		Logger().Debug("dithered", "elapsed", time.Since(start))
	}

	p.original, p.working, p.dithered, p.last = original, working, dithered, next
	return nil
}

// Output is a complete generated program.
type Output struct {
	Program *gcode.Program
	Lines   []string
	Pixels  int
	Total   int
}

// Generate adjusts the working image to s and produces the full program for
// it. progress, if not nil, receives the pixel counters after every pass.
func (p *Pipeline) Generate(ctx context.Context, s config.Settings, progress func(done, total int)) (*Output, error) {
	if err := p.Adjust(s); err != nil {
		return nil, err
	}
	axis, err := gcode.ParseAxis(s.PowerAxis)
	if err != nil {
		return nil, err
	}
	pattern, err := toolpath.ParsePattern(s.Pattern)
	if err != nil {
		return nil, err
	}
	units, err := gcode.ParseUnits(s.Units)
	if err != nil {
		return nil, err
	}

	log := Logger()
	step := -1
	report := func(done, total int) {
		if pct := done * 100 / total; pct/10 != step {
			step = pct / 10
			log.Debug("generating", "percent", pct, "pixels", done, "total", total)
		}
		if progress != nil {
			progress(done, total)
		}
	}

	start := time.Now()
	res, err := toolpath.Generate(ctx, p.Raster(), toolpath.Options{
		Resolution: s.Resolution,
		Power:      s.PowerRange(),
		Axis:       axis,
		Pattern:    pattern,
		EdgeFrame:  s.EdgeFrame,
		Progress:   report,
	})
	if err != nil {
		return nil, err
	}

	doc := gcode.Document{
		Time:     p.Now(),
		Header:   s.Header,
		Footer:   s.Footer,
		Units:    units,
		Feedrate: s.Feedrate,
		Body:     res.Body,
	}
	prog := doc.Program()
	out := &Output{Program: prog, Lines: prog.Strings(), Pixels: res.Pixels, Total: res.Total}
	log.Info("toolpath generated", "pattern", pattern.String(), "lines", len(out.Lines),
		"pixels", fmt.Sprintf("%d/%d", out.Pixels, out.Total), "elapsed", time.Since(start))
	return out, nil
}

// Save generates the program for s and writes it to path in one atomic step.
// Nothing is written if generation fails or ctx is cancelled.
func (p *Pipeline) Save(ctx context.Context, path string, s config.Settings, progress func(done, total int)) (*Output, error) {
	out, err := p.Generate(ctx, s, progress)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := gcode.WriteFile(path, out.Lines); err != nil {
		return nil, err
	}
	Logger().Info("saved", "path", path)
	return out, nil
}
