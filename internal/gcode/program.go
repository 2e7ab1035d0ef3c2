package gcode

// Program is an ordered list of command lines. Empty lines are never stored.
type Program struct {
	lines []Line
}

// Append adds l unless it is empty and reports whether it was kept.
func (p *Program) Append(l Line) bool {
	if l.Empty() {
		return false
	}
	p.lines = append(p.lines, l)
	return true
}

// Literals appends each string as a literal line, skipping blank ones.
func (p *Program) Literals(ss ...string) {
	for _, s := range ss {
		p.Append(Literal(s))
	}
}

func (p *Program) Extend(o *Program) {
	if o != nil {
		p.lines = append(p.lines, o.lines...)
	}
}

func (p *Program) Len() int {
	return len(p.lines)
}

// Lines returns the stored lines; the slice must not be modified.
func (p *Program) Lines() []Line {
	return p.lines
}

func (p *Program) Strings() []string {
	out := make([]string, len(p.lines))
	for i, l := range p.lines {
		out[i] = l.String()
	}
	return out
}
