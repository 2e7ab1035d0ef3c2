package gcode

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
)

// Write writes lines to w, one per line.
func Write(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile replaces path with lines atomically: the data goes to a temporary
// file in the same directory which is renamed over path only after it has
// been fully written and synced. On failure path is left untouched.
func WriteFile(path string, lines []string) error {
	return AtomicWrite(path, func(w io.Writer) error {
		return Write(w, lines)
	})
}

// AtomicWrite runs fill against a temporary file and renames it to path when
// fill succeeds.
func AtomicWrite(path string, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errdefs.Write(path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return errdefs.Write(path, err)
	}
	if err = tmp.Sync(); err != nil {
		return errdefs.Write(path, err)
	}
	if err = tmp.Close(); err != nil {
		return errdefs.Write(path, err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return errdefs.Write(path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errdefs.Write(path, err)
	}
	return nil
}
