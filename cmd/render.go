package cmd

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/renderer"
	"github.com/Jacobs-University/eyden-tracer-03/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	buildOpts, err := buildOptions(ctx)
	if err != nil {
		return err
	}

	frameW, frameH, err := frameSize(ctx)
	if err != nil {
		return err
	}

	opts := renderer.Options{
		FrameW:       uint32(frameW),
		FrameH:       uint32(frameH),
		Workers:      ctx.Int("workers"),
		BuildOptions: buildOpts,
		BruteForce:   ctx.Bool("brute-force"),
	}

	var scheduler tracer.BlockScheduler
	switch ctx.String("scheduler") {
	case "naive":
		scheduler = tracer.NaiveScheduler()
	case "perfect":
		scheduler = tracer.PerfectScheduler()
	default:
		return fmt.Errorf("unknown block scheduler %q; expected naive or perfect", ctx.String("scheduler"))
	}

	numFrames := ctx.Int("frames")
	if numFrames < 1 {
		numFrames = 1
	}

	// Load scene
	sc, err := loadScene(ctx, frameW, frameH)
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	var frame *image.RGBA
	for frameIdx := 0; frameIdx < numFrames; frameIdx++ {
		frame, err = r.Render()
		if err != nil {
			return err
		}

		// Display stats
		displayFrameStats(r.Stats())
	}

	imgFile := ctx.String("out")
	start := time.Now()
	if err = writeFrame(imgFile, frame); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)

	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Primary", "Block height", "% of frame", "Rays", "Hits", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%t", stat.IsPrimary),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%d", stat.Hits),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%d", stats.Rays), fmt.Sprintf("%d", stats.Hits), stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
