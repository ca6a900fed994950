package cmd

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/Jacobs-University/eyden-tracer-03/scene/reader"
	"github.com/urfave/cli"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Load the scene passed as the command argument or the demo scene selected
// by the --demo flag.
func loadScene(ctx *cli.Context, frameW, frameH int) (*scene.Scene, error) {
	if demo := ctx.String("demo"); demo != "" {
		if ctx.NArg() != 0 {
			return nil, errors.New("the --demo flag cannot be combined with a scene file argument")
		}
		logger.Noticef("using demo scene %q", demo)
		return scene.DemoScene(demo, frameW, frameH)
	}

	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument")
	}

	opts, err := readerOptions(ctx)
	if err != nil {
		return nil, err
	}
	opts.FrameW, opts.FrameH = frameW, frameH

	start := time.Now()
	sc, err := reader.ReadScene(ctx.Args().First(), opts)
	if err != nil {
		return nil, err
	}
	logger.Noticef("loaded scene %s with %d shapes in %d ms", ctx.Args().First(), len(sc.Shapes), time.Since(start).Nanoseconds()/1000000)
	return sc, nil
}

// Get the scene reader options; the material type of wavefront shapes is
// selected by the --material flag.
func readerOptions(ctx *cli.Context) (reader.Options, error) {
	opts := reader.DefaultOptions()
	materialType, err := scene.ParseMaterialType(ctx.String("material"))
	if err != nil {
		return opts, err
	}
	opts.MaterialType = materialType
	return opts, nil
}

// Read the frame resolution from the --width and --height flags.
func frameSize(ctx *cli.Context) (int, int, error) {
	frameW, frameH := ctx.Int("width"), ctx.Int("height")
	if frameW <= 0 || frameH <= 0 {
		return 0, 0, fmt.Errorf("invalid frame size %dx%d; width and height must be greater than zero", frameW, frameH)
	}
	return frameW, frameH, nil
}

// Collect tree build options from the --max-depth, --min-prims and --split flags.
func buildOptions(ctx *cli.Context) (bsp.BuildOptions, error) {
	policy, err := bsp.ParseSplitPolicy(ctx.String("split"))
	if err != nil {
		return bsp.BuildOptions{}, err
	}

	opts := bsp.BuildOptions{
		MaxDepth:      ctx.Int("max-depth"),
		MinPrimitives: ctx.Int("min-prims"),
		SplitPolicy:   policy,
	}
	return opts, opts.Validate()
}

// Encode frame to a png, bmp or tiff file depending on the file extension.
func writeFrame(imgFile string, frame image.Image) error {
	var encode func(f *os.File) error
	switch strings.ToLower(filepath.Ext(imgFile)) {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, frame) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, frame) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error {
			return tiff.Encode(f, frame, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("unsupported image format %q; expected .png, .bmp or .tiff", filepath.Ext(imgFile))
	}

	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}

	err = encode(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(imgFile)
	}
	return err
}
