package toolpath

import (
	"fmt"
	"image"
	"iter"
	"strings"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
)

// Pattern is a scan order over the pixel grid.
type Pattern int

const (
	// Horizontal scans rows from the top of the image down, alternating
	// direction so consecutive rows join without a retrace.
	Horizontal Pattern = iota
	// Diagonal scans anti-diagonals starting at the bottom left corner,
	// alternating direction on each diagonal.
	Diagonal
)

func ParsePattern(s string) (Pattern, error) {
	switch strings.ToLower(s) {
	case "", "horizontal":
		return Horizontal, nil
	case "diagonal":
		return Diagonal, nil
	}
	return 0, errdefs.InvalidParameter("unknown scan pattern %q", s)
}

func (p Pattern) String() string {
	switch p {
	case Horizontal:
		return "horizontal"
	case Diagonal:
		return "diagonal"
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// Passes yields the scan as a series of continuous passes (a row or a
// diagonal) of image coordinates, row 0 being the top of the image. Every
// pixel of the w×h grid appears exactly once. The sequence can be ranged
// over any number of times.
func (p Pattern) Passes(w, h int) iter.Seq[[]image.Point] {
	if p == Diagonal {
		return diagonalPasses(w, h)
	}
	return horizontalPasses(w, h)
}

// Order flattens Passes into single pixels.
func (p Pattern) Order(w, h int) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for pass := range p.Passes(w, h) {
			for _, pt := range pass {
				if !yield(pt) {
					return
				}
			}
		}
	}
}

func horizontalPasses(w, h int) iter.Seq[[]image.Point] {
	return func(yield func([]image.Point) bool) {
		for row := 0; row < h; row++ {
			pass := make([]image.Point, w)
			for i := range pass {
				col := i
				if row%2 == 1 {
					col = w - 1 - i
				}
				pass[i] = image.Pt(col, row)
			}
			if !yield(pass) {
				return
			}
		}
	}
}

// diagonalPasses walks the diagonals col+lin = d, where lin counts rows up
// from the bottom of the image. Even diagonals run with increasing column
// (down and to the right on the machine), odd ones with decreasing column, so
// each pass starts next to where the previous one ended.
func diagonalPasses(w, h int) iter.Seq[[]image.Point] {
	return func(yield func([]image.Point) bool) {
		for d := 0; d < w+h-1; d++ {
			lo := max(0, d-(h-1))
			hi := min(d, w-1)

			pass := make([]image.Point, 0, hi-lo+1)
			for i := 0; i <= hi-lo; i++ {
				col := lo + i
				if d%2 == 1 {
					col = hi - i
				}
				lin := d - col
				pass = append(pass, image.Pt(col, h-1-lin))
			}
			if !yield(pass) {
				return
			}
		}
	}
}
