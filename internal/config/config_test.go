package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Settings)
	}{
		{"zero resolution", func(s *Settings) { s.Resolution = 0 }},
		{"negative width", func(s *Settings) { s.Width = -4 }},
		{"zero height", func(s *Settings) { s.Height = 0 }},
		{"zero feedrate", func(s *Settings) { s.Feedrate = 0 }},
		{"zero gamma", func(s *Settings) { s.Gamma = 0 }},
		{"odd rotation", func(s *Settings) { s.Rotate = 45 }},
		{"bad axis", func(s *Settings) { s.PowerAxis = "X" }},
		{"bad pattern", func(s *Settings) { s.Pattern = "spiral" }},
		{"bad units", func(s *Settings) { s.Units = "cubits" }},
		{"bad interpolation", func(s *Settings) { s.Interpolation = "magic" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mod(&s)
			if err := s.Validate(); !errors.Is(err, errdefs.ErrInvalidParameter) {
				t.Errorf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestValidateCollectsAll(t *testing.T) {
	s := Default()
	s.Resolution = 0
	s.Feedrate = 0
	err := s.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"resolution", "feedrate"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLockAspectAllowsMissingHeight(t *testing.T) {
	s := Default()
	s.LockAspect = true
	s.Height = 0
	if err := s.Validate(); err != nil {
		t.Error(err)
	}
}

func TestRead(t *testing.T) {
	s, err := Read(strings.NewReader(`{"width": 40, "power_axis": "Z", "header": ["G28"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 40 || s.PowerAxis != "Z" || len(s.Header) != 1 {
		t.Errorf("fields not decoded: %+v", s)
	}
	if s.Resolution != Default().Resolution {
		t.Errorf("default resolution lost: %v", s.Resolution)
	}

	if _, err := Read(strings.NewReader(`{"widht": 40}`)); !errors.Is(err, errdefs.ErrInvalidParameter) {
		t.Errorf("unknown field err = %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	s := Default()
	s.Pattern = "diagonal"
	s.Footer = []string{"M2"}
	s.Dither = true

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Errorf("got %+v, want %+v", got, s)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errdefs.ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
}
