package loader

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// minSVGSide is the smallest long side, in pixels, that vector input is
// rasterised at.
const minSVGSide = 1000

func decodeSVG(data []byte) (image.Image, error) {
	svgIcon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	viewBoxW := svgIcon.ViewBox.W
	viewBoxH := svgIcon.ViewBox.H
	if viewBoxW <= 0 || viewBoxH <= 0 {
		return nil, errors.New("svg has an empty viewBox")
	}

	scale := math.Max(1, minSVGSide/math.Max(viewBoxW, viewBoxH))
	width := int(math.Round(viewBoxW * scale))
	height := int(math.Round(viewBoxH * scale))
	svgIcon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)

	svgIcon.Draw(raster, 1.0)
	return img, nil
}
