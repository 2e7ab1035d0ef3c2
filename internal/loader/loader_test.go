package loader

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 100), uint8(y * 200), 50, 255})
		}
	}
	img.SetNRGBA(2, 1, color.NRGBA{0, 0, 0, 0})
	return img
}

func writeFile(t *testing.T, name string, enc func(io.Writer, image.Image) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := enc(f, sample()); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRaster(t *testing.T) {
	tests := []struct {
		name string
		enc  func(io.Writer, image.Image) error
	}{
		{"in.png", png.Encode},
		{"in.bmp", bmp.Encode},
		{"in.tiff", func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }},
		{"no-extension", png.Encode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Load(writeFile(t, tt.name, tt.enc))
			if err != nil {
				t.Fatal(err)
			}
			if buf.Width != 3 || buf.Height != 2 {
				t.Fatalf("size %dx%d, want 3x2", buf.Width, buf.Height)
			}
			if r, g, b := buf.At(1, 1); r != 100 || g != 200 || b != 50 {
				t.Errorf("pixel (1,1) = %d,%d,%d", r, g, b)
			}
			if r, g, b := buf.At(2, 1); tt.name != "in.bmp" && (r != 255 || g != 255 || b != 255) {
				t.Errorf("transparent pixel = %d,%d,%d, want white", r, g, b)
			}
		})
	}
}

func TestLoadSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 20" width="10" height="20">
<rect x="0" y="0" width="5" height="20" fill="#000000"/>
</svg>`
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		t.Fatal(err)
	}

	buf, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 500 || buf.Height != 1000 {
		t.Fatalf("size %dx%d, want 500x1000", buf.Width, buf.Height)
	}
	if v := buf.Intensity(100, 500); v > 10 {
		t.Errorf("inside rect = %d, want black", v)
	}
	if v := buf.Intensity(400, 500); v < 245 {
		t.Errorf("outside rect = %d, want white", v)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	unknown := filepath.Join(dir, "bad.xyz")
	if err := os.WriteFile(unknown, []byte("still not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.png"), garbage, unknown} {
		if _, err := Load(path); !errors.Is(err, errdefs.ErrDecode) {
			t.Errorf("Load(%s) err = %v, want ErrDecode", filepath.Base(path), err)
		}
	}
}
