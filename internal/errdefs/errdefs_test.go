package errdefs

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"invalid", InvalidParameter("resolution %v", 0), ErrInvalidParameter},
		{"decode", Decode("a.png", os.ErrNotExist), ErrDecode},
		{"write", Write("out.gcode", os.ErrPermission), ErrWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
		})
	}
}

func TestWrappedCause(t *testing.T) {
	err := Decode("missing.png", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause lost: %v", err)
	}
	if !strings.Contains(err.Error(), "missing.png") {
		t.Errorf("path missing from %q", err.Error())
	}
}
