package gcode

import (
	"strconv"
	"time"
)

// Generator identifies the tool in the first comment of every file.
const Generator = "image2gcode v0.1"

const timestampLayout = "Jan/02/2006 15:04:05"

// Document wraps a generated toolpath body with the fixed preamble and the
// user supplied header and footer blocks.
type Document struct {
	Time     time.Time
	Header   []string
	Footer   []string
	Units    Units
	Feedrate int
	Body     *Program
}

// Program assembles the full output: identification and timestamp comments,
// a laser-off safety line, the header block, absolute mode, units, feedrate,
// the body, then the footer block.
func (d Document) Program() *Program {
	var p Program
	p.Literals(
		"(Generated by "+Generator+")",
		"(@"+d.Time.Format(timestampLayout)+")",
		"M5",
	)
	p.Literals(d.Header...)
	p.Append(Command("G90"))
	p.Append(Command(d.Units.Code()))
	p.Append(Command("F" + strconv.Itoa(d.Feedrate)))
	p.Extend(d.Body)
	p.Literals(d.Footer...)
	return &p
}

func (d Document) Lines() []string {
	return d.Program().Strings()
}
