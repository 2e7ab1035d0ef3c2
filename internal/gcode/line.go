// Package gcode formats toolpath command lines as text and writes finished
// programs to disk.
package gcode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
)

// Axis is the command letter that carries tool power.
type Axis byte

const (
	AxisS Axis = 'S'
	AxisZ Axis = 'Z'
)

func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(s) {
	case "S":
		return AxisS, nil
	case "Z":
		return AxisZ, nil
	}
	return 0, errdefs.InvalidParameter("power axis must be S or Z, got %q", s)
}

func (a Axis) String() string {
	return string(a)
}

// Units is the machine unit system.
type Units int

const (
	Metric Units = iota
	Imperial
)

func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(s) {
	case "", "metric", "mm":
		return Metric, nil
	case "imperial", "in", "inch":
		return Imperial, nil
	}
	return 0, errdefs.InvalidParameter("unknown unit system %q", s)
}

func (u Units) String() string {
	if u == Imperial {
		return "imperial"
	}
	return "metric"
}

// Code returns G20 for imperial and G21 for metric.
func (u Units) Code() string {
	if u == Imperial {
		return "G20"
	}
	return "G21"
}

// Round quantises v to the three decimals used in the output.
func Round(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// Number renders v with at most three decimals and no trailing zeros,
// independent of locale.
func Number(v float64) string {
	return strconv.FormatFloat(Round(v), 'f', -1, 64)
}

// Line is one output command. A literal line is emitted verbatim; otherwise
// the line is a command word followed by optional X, Y and power tokens.
type Line struct {
	Literal string

	Code string
	Axis Axis

	X, Y, Power          float64
	HasX, HasY, HasPower bool
}

func Literal(s string) Line {
	return Line{Literal: s}
}

func Command(code string) Line {
	return Line{Code: code}
}

func (l Line) WithX(x float64) Line {
	l.X, l.HasX = x, true
	return l
}

func (l Line) WithY(y float64) Line {
	l.Y, l.HasY = y, true
	return l
}

func (l Line) WithPower(axis Axis, p float64) Line {
	l.Axis, l.Power, l.HasPower = axis, p, true
	return l
}

// Tokens reports how many coordinate and power tokens the line carries.
func (l Line) Tokens() int {
	n := 0
	for _, ok := range []bool{l.HasX, l.HasY, l.HasPower} {
		if ok {
			n++
		}
	}
	return n
}

// Empty reports whether the line would render as nothing.
func (l Line) Empty() bool {
	return l.Literal == "" && l.Code == "" && l.Tokens() == 0
}

func (l Line) String() string {
	if l.Literal != "" {
		return l.Literal
	}

	var sb strings.Builder
	sb.WriteString(l.Code)
	if l.HasX {
		sb.WriteString("X" + Number(l.X))
	}
	if l.HasY {
		sb.WriteString("Y" + Number(l.Y))
	}
	if l.HasPower {
		sb.WriteString(fmt.Sprintf("%c%s", l.Axis, Number(l.Power)))
	}
	return sb.String()
}
