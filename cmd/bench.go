package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

type benchResult struct {
	name    string
	hits    int
	dist    []float32
	elapsed time.Duration
}

// Trace random primary rays using both the BSP tree and brute-force
// intersection, verify that both agree and display their throughput.
func BenchIntersectors(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	buildOpts, err := buildOptions(ctx)
	if err != nil {
		return err
	}

	numRays := ctx.Int("rays")
	if numRays < 1 {
		return errors.New("the number of rays must be greater than zero")
	}

	frameW, frameH, err := frameSize(ctx)
	if err != nil {
		return err
	}

	sc, err := loadScene(ctx, frameW, frameH)
	if err != nil {
		return err
	}
	if err = sc.Camera.Validate(); err != nil {
		return err
	}
	if err = sc.BuildAccelStructure(buildOpts); err != nil {
		return err
	}

	// Pick random pixels to trace
	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	pixels := make([][2]int, numRays)
	for i := range pixels {
		pixels[i] = [2]int{rng.Intn(sc.Camera.Width), rng.Intn(sc.Camera.Height)}
	}

	linear := make(bsp.Linear, len(sc.Shapes))
	for index, shape := range sc.Shapes {
		linear[index] = shape
	}

	results := []*benchResult{
		traceRays("bsp tree", sc.Tree(), sc.Camera, pixels),
		traceRays("brute force", linear, sc.Camera, pixels),
	}

	mismatches := countMismatches(results[0].dist, results[1].dist)
	displayBenchResults(results, numRays)

	if mismatches != 0 {
		return fmt.Errorf("bsp tree and brute force disagree on %d of %d rays", mismatches, numRays)
	}
	logger.Noticef("bsp tree and brute force agree on all %d rays", numRays)
	return nil
}

// Trace a primary ray through each pixel and record the hit distances.
func traceRays(name string, isect bsp.Intersector, cam *scene.Camera, pixels [][2]int) *benchResult {
	res := &benchResult{
		name: name,
		dist: make([]float32, len(pixels)),
	}

	start := time.Now()
	for i, px := range pixels {
		ray := cam.InitRay(px[0], px[1])
		if isect.Intersect(ray) {
			res.hits++
		}
		res.dist[i] = ray.T
	}
	res.elapsed = time.Since(start)

	return res
}

// Count the rays whose nearest hit distances differ.
func countMismatches(a, b []float32) int {
	mismatches := 0
	for i := range a {
		if math.IsInf(float64(a[i]), 1) || math.IsInf(float64(b[i]), 1) {
			if a[i] != b[i] {
				mismatches++
			}
			continue
		}

		tolerance := 1e-3 * math.Max(1.0, math.Abs(float64(a[i])))
		if math.Abs(float64(a[i]-b[i])) > tolerance {
			mismatches++
		}
	}
	return mismatches
}

func displayBenchResults(results []*benchResult, numRays int) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Intersector", "Rays", "Hits", "Time", "Rays/sec", "Speedup"})

	baseline := results[len(results)-1].elapsed
	for _, res := range results {
		table.Append([]string{
			res.name,
			fmt.Sprintf("%d", numRays),
			fmt.Sprintf("%d", res.hits),
			res.elapsed.String(),
			fmt.Sprintf("%.0f", float64(numRays)/math.Max(res.elapsed.Seconds(), 1e-9)),
			fmt.Sprintf("%.2fx", baseline.Seconds()/math.Max(res.elapsed.Seconds(), 1e-9)),
		})
	}

	table.Render()
	logger.Noticef("intersection benchmark\n%s", buf.String())
}
