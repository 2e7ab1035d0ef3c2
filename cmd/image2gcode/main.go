package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fabienbrocklesby/image2gcode/internal/config"
	"github.com/fabienbrocklesby/image2gcode/internal/pipeline"
	"github.com/fabienbrocklesby/image2gcode/internal/preview"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "image2gcode: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("image2gcode", flag.ContinueOnError)
	def := config.Default()

	inputFile := fs.String("input", "", "Path to the input image (png, jpg, gif, bmp, tiff, webp, svg)")
	outputFile := fs.String("output", "output.gcode", "Path to output G-code file")
	configFile := fs.String("config", "", "JSON settings file; flags override its values")
	saveConfig := fs.String("save-config", "", "Write the effective settings to this JSON file")
	previewFile := fs.String("preview", "", "Write a PNG preview of the toolpath to this file")
	previewScale := fs.Int("preview-scale", 1, "Preview pixels per engraved pixel")
	headerFile := fs.String("header", "", "File whose lines are inserted before the toolpath")
	footerFile := fs.String("footer", "", "File whose lines are appended after the toolpath")
	verbose := fs.Bool("v", false, "Verbose logging")

	// bound to a scratch copy; only flags set on the command line are applied
	f := def
	fs.Float64Var(&f.Width, "width", def.Width, "Target engraving width")
	fs.Float64Var(&f.Height, "height", def.Height, "Target engraving height")
	fs.Float64Var(&f.Resolution, "resolution", def.Resolution, "Size of one pixel (laser spot size)")
	fs.BoolVar(&f.LockAspect, "lock-aspect", def.LockAspect, "Derive height from width and the image aspect ratio")
	fs.IntVar(&f.Brightness, "brightness", def.Brightness, "Brightness adjustment in percent")
	fs.IntVar(&f.Contrast, "contrast", def.Contrast, "Contrast adjustment in percent")
	fs.IntVar(&f.Gamma, "gamma", def.Gamma, "Gamma in percent (100 = unchanged)")
	fs.StringVar(&f.Interpolation, "interpolation", def.Interpolation, "Resize kernel: nearest, bilinear or catmullrom")
	fs.BoolVar(&f.Dither, "dither", def.Dither, "Floyd-Steinberg dither to 1 bit")
	fs.BoolVar(&f.Invert, "invert", def.Invert, "Invert the image")
	fs.BoolVar(&f.MirrorX, "mirror-x", def.MirrorX, "Mirror horizontally")
	fs.BoolVar(&f.MirrorY, "mirror-y", def.MirrorY, "Mirror vertically")
	fs.IntVar(&f.Rotate, "rotate", def.Rotate, "Rotate clockwise by a multiple of 90 degrees")
	fs.Float64Var(&f.MinPower, "min-power", def.MinPower, "Power for white pixels")
	fs.Float64Var(&f.MaxPower, "max-power", def.MaxPower, "Power for black pixels")
	fs.StringVar(&f.PowerAxis, "axis", def.PowerAxis, "Power command letter: S or Z")
	fs.StringVar(&f.Pattern, "pattern", def.Pattern, "Scan pattern: horizontal or diagonal")
	fs.BoolVar(&f.EdgeFrame, "edge", def.EdgeFrame, "Trace the work area border after engraving")
	fs.IntVar(&f.Feedrate, "feed", def.Feedrate, "Feedrate")
	fs.StringVar(&f.Units, "units", def.Units, "Unit system: metric or imperial")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputFile == "" {
		fs.Usage()
		return errors.New("missing -input")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	pipeline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s := def
	if *configFile != "" {
		var err error
		if s, err = config.Load(*configFile); err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
	}
	fs.Visit(func(fl *flag.Flag) { applyFlag(&s, &f, fl.Name) })

	if *headerFile != "" {
		lines, err := readLines(*headerFile)
		if err != nil {
			return err
		}
		s.Header = lines
	}
	if *footerFile != "" {
		lines, err := readLines(*footerFile)
		if err != nil {
			return err
		}
		s.Footer = lines
	}

	if err := s.Validate(); err != nil {
		return err
	}

	p, err := pipeline.Open(*inputFile)
	if err != nil {
		return err
	}

	out, err := p.Save(ctx, *outputFile, s, nil)
	if err != nil {
		return fmt.Errorf("failed to convert image to G-code: %w", err)
	}

	if *previewFile != "" {
		if err := writePreview(p, out, s, *previewFile, *previewScale); err != nil {
			return err
		}
	}

	if *saveConfig != "" {
		if err := config.Save(*saveConfig, s); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	fmt.Printf("G-code successfully written to %s (%d/%d pixels, %d lines)\n", *outputFile, out.Pixels, out.Total, len(out.Lines))
	return nil
}

// applyFlag copies the field behind flag name from src to dst.
func applyFlag(dst, src *config.Settings, name string) {
	switch name {
	case "width":
		dst.Width = src.Width
	case "height":
		dst.Height = src.Height
	case "resolution":
		dst.Resolution = src.Resolution
	case "lock-aspect":
		dst.LockAspect = src.LockAspect
	case "brightness":
		dst.Brightness = src.Brightness
	case "contrast":
		dst.Contrast = src.Contrast
	case "gamma":
		dst.Gamma = src.Gamma
	case "interpolation":
		dst.Interpolation = src.Interpolation
	case "dither":
		dst.Dither = src.Dither
	case "invert":
		dst.Invert = src.Invert
	case "mirror-x":
		dst.MirrorX = src.MirrorX
	case "mirror-y":
		dst.MirrorY = src.MirrorY
	case "rotate":
		dst.Rotate = src.Rotate
	case "min-power":
		dst.MinPower = src.MinPower
	case "max-power":
		dst.MaxPower = src.MaxPower
	case "axis":
		dst.PowerAxis = src.PowerAxis
	case "pattern":
		dst.Pattern = src.Pattern
	case "edge":
		dst.EdgeFrame = src.EdgeFrame
	case "feed":
		dst.Feedrate = src.Feedrate
	case "units":
		dst.Units = src.Units
	}
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}

func writePreview(p *pipeline.Pipeline, out *pipeline.Output, s config.Settings, path string, scale int) error {
	w, h := p.Raster().Size()
	img, err := preview.Render(out.Program, preview.Options{
		Width:      w,
		Height:     h,
		Resolution: s.Resolution,
		Power:      s.PowerRange(),
		Scale:      scale,
	})
	if err != nil {
		return err
	}
	if err := preview.Save(path, img); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
