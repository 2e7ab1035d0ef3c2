package gcode

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{12.5, "12.5"},
		{0.75, "0.75"},
		{0.6117647, "0.612"},
		{2.0004, "2"},
		{-0.0001, "0"},
		{1234.5678, "1234.568"},
		{0.1 * 3, "0.3"},
	}
	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLineString(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want string
	}{
		{"full", Command("G1").WithX(12.5).WithY(0.75).WithPower(AxisS, 0.612), "G1X12.5Y0.75S0.612"},
		{"y only", Command("G1").WithY(3), "G1Y3"},
		{"z axis", Command("G1").WithX(1).WithPower(AxisZ, 40), "G1X1Z40"},
		{"bare code", Command("M3"), "M3"},
		{"literal", Literal("(hello)"), "(hello)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgramDropsEmpty(t *testing.T) {
	var p Program
	if p.Append(Line{}) {
		t.Error("empty line was kept")
	}
	p.Literals("", "G4 P0", "")
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
	if !p.Append(Command("M5")) {
		t.Error("command line was dropped")
	}
	if got := strings.Join(p.Strings(), ","); got != "G4 P0,M5" {
		t.Errorf("got %q", got)
	}
}

func TestParse(t *testing.T) {
	if a, err := ParseAxis("z"); err != nil || a != AxisZ {
		t.Errorf("ParseAxis(z) = %v, %v", a, err)
	}
	if _, err := ParseAxis("Q"); !errors.Is(err, errdefs.ErrInvalidParameter) {
		t.Errorf("ParseAxis(Q) err = %v", err)
	}
	if u, err := ParseUnits("imperial"); err != nil || u.Code() != "G20" {
		t.Errorf("ParseUnits(imperial) = %v, %v", u, err)
	}
	if u, _ := ParseUnits("metric"); u.Code() != "G21" {
		t.Errorf("metric code = %s", u.Code())
	}
	if _, err := ParseUnits("furlong"); err == nil {
		t.Error("expected error for unknown units")
	}
}

func TestDocument(t *testing.T) {
	var body Program
	body.Append(Command("G1").WithX(1))

	d := Document{
		Time:     time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC),
		Header:   []string{"(header)", "", "G4 P1"},
		Footer:   []string{"M2"},
		Units:    Imperial,
		Feedrate: 1200,
		Body:     &body,
	}
	want := []string{
		"(Generated by " + Generator + ")",
		"(@Mar/05/2024 14:07:09)",
		"M5",
		"(header)",
		"G4 P1",
		"G90",
		"G20",
		"F1200",
		"G1X1",
		"M2",
	}
	got := d.Lines()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []string{"G90", "M5"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "G90\nM5\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gcode")
	if err := WriteFile(path, []string{"G21", "M5"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "G21\nM5\n" {
		t.Errorf("file = %q", data)
	}
}

func TestAtomicWriteKeepsOldFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gcode")
	if err := os.WriteFile(path, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := AtomicWrite(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, errdefs.ErrWrite) || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "old\n" {
		t.Errorf("destination changed to %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.gcode")
	if err := WriteFile(path, []string{"M5"}); !errors.Is(err, errdefs.ErrWrite) {
		t.Errorf("err = %v, want ErrWrite", err)
	}
}
