// Package pixel holds the raster buffers passed between pipeline stages and
// the pure transforms over them. Every transform returns a new buffer; inputs
// are never modified.
package pixel

import (
	"image"
	"image/color"
)

// RGB is an 8-bit three channel raster stored row-major.
type RGB struct {
	Width, Height int
	Pix           []uint8
}

// NewRGB returns a black w×h buffer.
func NewRGB(w, h int) *RGB {
	return &RGB{Width: w, Height: h, Pix: make([]uint8, 3*w*h)}
}

func (b *RGB) offset(x, y int) int {
	return 3 * (y*b.Width + x)
}

func (b *RGB) Size() (int, int) {
	return b.Width, b.Height
}

func (b *RGB) At(x, y int) (r, g, bl uint8) {
	i := b.offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

func (b *RGB) Set(x, y int, r, g, bl uint8) {
	i := b.offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

// Intensity returns the red channel, which carries the gray level once the
// buffer has been through Grayscale.
func (b *RGB) Intensity(x, y int) uint8 {
	return b.Pix[b.offset(x, y)]
}

func (b *RGB) Clone() *RGB {
	c := &RGB{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// Equal reports whether both buffers have the same size and samples.
func (b *RGB) Equal(o *RGB) bool {
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Image exposes the buffer as an opaque *image.RGBA for the x/image scalers
// and encoders.
func (b *RGB) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			r, g, bl := b.At(x, y)
			img.SetRGBA(x, y, color.RGBA{r, g, bl, 255})
		}
	}
	return img
}

// FromImage flattens img into an RGB buffer. Translucent pixels are
// composited over white, fully transparent ones become white.
func FromImage(img image.Image) *RGB {
	bounds := img.Bounds()
	out := NewRGB(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				out.Set(x-bounds.Min.X, y-bounds.Min.Y, 255, 255, 255)
				continue
			}

			// premultiplied: add the white that shows through
			bg := 0xffff - a
			out.Set(x-bounds.Min.X, y-bounds.Min.Y,
				uint8((r+bg)>>8), uint8((g+bg)>>8), uint8((b+bg)>>8))
		}
	}

	return out
}

// Bilevel is a one bit per pixel raster packed MSB first, one padded byte
// row per image row. A set bit marks a dark pixel to burn.
type Bilevel struct {
	Width, Height int
	Stride        int
	Pix           []uint8
}

var masks = [8]uint8{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01}

func NewBilevel(w, h int) *Bilevel {
	stride := (w + 7) / 8
	return &Bilevel{Width: w, Height: h, Stride: stride, Pix: make([]uint8, stride*h)}
}

func (b *Bilevel) Size() (int, int) {
	return b.Width, b.Height
}

// Bit returns 1 for a dark pixel and 0 for a light one.
func (b *Bilevel) Bit(x, y int) uint8 {
	if b.Pix[y*b.Stride+x/8]&masks[x%8] != 0 {
		return 1
	}
	return 0
}

func (b *Bilevel) Set(x, y int, dark bool) {
	i := y*b.Stride + x/8
	if dark {
		b.Pix[i] |= masks[x%8]
	} else {
		b.Pix[i] &^= masks[x%8]
	}
}

// Intensity maps a dark bit to 0 and a light bit to 255.
func (b *Bilevel) Intensity(x, y int) uint8 {
	if b.Bit(x, y) == 1 {
		return 0
	}
	return 255
}
