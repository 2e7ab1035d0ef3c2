// Package config holds the settings of a conversion run and persists them as
// JSON.
package config

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
	"github.com/fabienbrocklesby/image2gcode/internal/gcode"
	"github.com/fabienbrocklesby/image2gcode/internal/pixel"
	"github.com/fabienbrocklesby/image2gcode/internal/toolpath"
)

// Settings is the complete, immutable input of one generation run. Physical
// sizes are in the selected unit system.
type Settings struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Resolution float64 `json:"resolution"`
	LockAspect bool    `json:"lock_aspect"`

	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Gamma      int `json:"gamma"`

	Interpolation string `json:"interpolation"`
	Dither        bool   `json:"dither"`
	Invert        bool   `json:"invert"`
	MirrorX       bool   `json:"mirror_x"`
	MirrorY       bool   `json:"mirror_y"`
	Rotate        int    `json:"rotate"`

	MinPower  float64 `json:"min_power"`
	MaxPower  float64 `json:"max_power"`
	PowerAxis string  `json:"power_axis"`
	Pattern   string  `json:"pattern"`
	EdgeFrame bool    `json:"edge_frame"`
	Feedrate  int     `json:"feedrate"`
	Units     string  `json:"units"`

	Header []string `json:"header,omitempty"`
	Footer []string `json:"footer,omitempty"`
}

func Default() Settings {
	return Settings{
		Width:         100,
		Height:        100,
		Resolution:    0.1,
		Gamma:         100,
		Interpolation: pixel.NearestNeighbor.String(),
		MinPower:      0,
		MaxPower:      255,
		PowerAxis:     "S",
		Pattern:       toolpath.Horizontal.String(),
		Feedrate:      1500,
		Units:         gcode.Metric.String(),
	}
}

// Validate reports every problem with s at once.
func (s Settings) Validate() error {
	var errs []error
	if !(s.Resolution > 0) {
		errs = append(errs, errdefs.InvalidParameter("resolution must be positive, got %v", s.Resolution))
	}
	if !(s.Width > 0) {
		errs = append(errs, errdefs.InvalidParameter("width must be positive, got %v", s.Width))
	}
	if !(s.Height > 0) && !s.LockAspect {
		errs = append(errs, errdefs.InvalidParameter("height must be positive, got %v", s.Height))
	}
	if s.Feedrate < 1 {
		errs = append(errs, errdefs.InvalidParameter("feedrate must be at least 1, got %d", s.Feedrate))
	}
	if s.Gamma <= 0 {
		errs = append(errs, errdefs.InvalidParameter("gamma must be positive, got %d", s.Gamma))
	}
	if s.Rotate%90 != 0 {
		errs = append(errs, errdefs.InvalidParameter("rotation must be a multiple of 90, got %d", s.Rotate))
	}
	if _, err := gcode.ParseAxis(s.PowerAxis); err != nil {
		errs = append(errs, err)
	}
	if _, err := toolpath.ParsePattern(s.Pattern); err != nil {
		errs = append(errs, err)
	}
	if _, err := gcode.ParseUnits(s.Units); err != nil {
		errs = append(errs, err)
	}
	if _, err := pixel.ParseInterpolation(s.Interpolation); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s Settings) Balance() pixel.Balance {
	return pixel.Balance{Brightness: s.Brightness, Contrast: s.Contrast, Gamma: s.Gamma}
}

func (s Settings) PowerRange() toolpath.Range {
	return toolpath.Range{Min: s.MinPower, Max: s.MaxPower}
}

// Read decodes settings from r on top of Default, so a file only needs the
// fields it changes.
func Read(r io.Reader) (Settings, error) {
	s := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, errdefs.InvalidParameter("settings: %v", err)
	}
	return s, nil
}

func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, errdefs.InvalidParameter("settings: %v", err)
	}
	defer f.Close()
	return Read(f)
}

// Save writes s to path atomically.
func Save(path string, s Settings) error {
	return gcode.AtomicWrite(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	})
}
