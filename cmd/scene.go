package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/Jacobs-University/eyden-tracer-03/scene/reader"
	"github.com/Jacobs-University/eyden-tracer-03/scene/writer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Compile scene to binary format.
func CompileScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var ext string
	switch ctx.String("format") {
	case "zstd":
		ext = ".zst"
	case "snappy":
		ext = ".sz"
	default:
		return fmt.Errorf("unknown compression format %q; expected zstd or snappy", ctx.String("format"))
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene file argument")
	}

	opts, err := readerOptions(ctx)
	if err != nil {
		return err
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing and compiling scene: %s", sceneFile)
		sc, err := reader.ReadScene(sceneFile, opts)
		if err != nil {
			return err
		}

		compiledFile := strings.TrimSuffix(sceneFile, ".obj") + ext
		err = writer.WriteScene(sc, compiledFile)
		if err != nil {
			return err
		}
		logger.Noticef("wrote %d shapes to %s", len(sc.Shapes), compiledFile)
	}

	return nil
}

// Build the acceleration structure for a scene and display its statistics.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	buildOpts, err := buildOptions(ctx)
	if err != nil {
		return err
	}

	sc, err := loadScene(ctx, 0, 0)
	if err != nil {
		return err
	}

	if err = sc.BuildAccelStructure(buildOpts); err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sceneStats(sc))
	return nil
}

// Format scene shape counts and tree statistics as a table.
func sceneStats(sc *scene.Scene) string {
	var spheres, planes, triangles int
	for _, shape := range sc.Shapes {
		switch shape.(type) {
		case *scene.Sphere:
			spheres++
		case *scene.Plane:
			planes++
		case *scene.Triangle:
			triangles++
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.Append([]string{"Spheres", fmt.Sprintf("%d", spheres)})
	table.Append([]string{"Planes", fmt.Sprintf("%d", planes)})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", triangles)})

	if tree := sc.Tree(); tree != nil {
		stats := tree.Stats()
		opts := tree.Options()
		box := tree.BBox()
		table.Append([]string{"Split policy", opts.SplitPolicy.String()})
		table.Append([]string{"Max depth (limit)", fmt.Sprintf("%d", opts.MaxDepth)})
		table.Append([]string{"Min primitives", fmt.Sprintf("%d", opts.MinPrimitives)})
		table.Append([]string{"Bounding box", fmt.Sprintf("%v - %v", box.Min, box.Max)})
		if sc.Camera != nil {
			table.Append([]string{"Camera inside bounds", fmt.Sprintf("%t", box.Contains(sc.Camera.Position))})
		}
		table.Append([]string{"Branches", fmt.Sprintf("%d", stats.Branches)})
		table.Append([]string{"Leafs", fmt.Sprintf("%d", stats.Leafs)})
		table.Append([]string{"Empty leafs", fmt.Sprintf("%d", stats.EmptyLeafs)})
		table.Append([]string{"Max depth (reached)", fmt.Sprintf("%d", stats.MaxDepth)})
		table.Append([]string{"Leaf references", fmt.Sprintf("%d", stats.PartitionedItems)})
		table.Append([]string{"Degenerate splits", fmt.Sprintf("%d", stats.DegenerateSplits)})
		table.Append([]string{"Avg primitives per leaf", fmt.Sprintf("%.2f", avgLeafSize(stats))})
		table.Append([]string{"Build time", stats.BuildTime.String()})
	}

	table.Render()
	return buf.String()
}

func avgLeafSize(stats bsp.Stats) float64 {
	nonEmpty := stats.Leafs - stats.EmptyLeafs
	if nonEmpty <= 0 {
		return 0
	}
	return float64(stats.PartitionedItems) / float64(nonEmpty)
}
