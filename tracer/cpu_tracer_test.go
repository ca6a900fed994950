package tracer

import (
	"image"
	"testing"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
)

func TestCPUTracerRendersBlocks(t *testing.T) {
	const frameW, frameH = 32, 24

	sc, err := scene.DemoScene("spheres", frameW, frameH)
	if err != nil {
		t.Fatal(err)
	}
	if err = sc.BuildAccelStructure(bsp.DefaultBuildOptions()); err != nil {
		t.Fatal(err)
	}

	tr := NewCPUTracer("cpu-0", 1)
	if err = tr.Init(); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	tr.Update(UpdateScene, sc)
	tr.Update(UpdateIntersector, sc.Intersector())

	frame := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	doneChan := make(chan uint32, 2)
	errChan := make(chan error, 2)

	blocks := [][2]uint32{{0, 10}, {10, 14}}
	for _, block := range blocks {
		tr.Enqueue(BlockRequest{
			FrameW:   frameW,
			FrameH:   frameH,
			BlockY:   block[0],
			BlockH:   block[1],
			Frame:    frame,
			DoneChan: doneChan,
			ErrChan:  errChan,
		})

		select {
		case rows := <-doneChan:
			if rows != block[1] {
				t.Fatalf("expected tracer to complete %d rows; got %d", block[1], rows)
			}
		case err = <-errChan:
			t.Fatal(err)
		case <-time.After(10 * time.Second):
			t.Fatal("timeout waiting for block")
		}

		stats := tr.Stats()
		if stats.BlockH != block[1] {
			t.Fatalf("expected stats block height %d; got %d", block[1], stats.BlockH)
		}
		if expRays := uint64(block[1] * frameW); stats.Rays != expRays {
			t.Fatalf("expected %d traced rays; got %d", expRays, stats.Rays)
		}
	}

	// Compare against brute-force tracing
	for y := 0; y < frameH; y++ {
		for x := 0; x < frameW; x++ {
			exp := toRGBA(sc.Trace(bsp.Linear(shapesAsPrimitives(sc)), sc.Camera.InitRay(x, y)))
			got := frame.RGBAAt(x, y)
			if absDiff(exp.R, got.R) > 1 || absDiff(exp.G, got.G) > 1 || absDiff(exp.B, got.B) > 1 || got.A != 255 {
				t.Fatalf("pixel (%d, %d): expected color %v; got %v", x, y, exp, got)
			}
		}
	}
}

func TestCPUTracerWithoutIntersector(t *testing.T) {
	const frameW, frameH = 16, 12

	sc, err := scene.DemoScene("grid", frameW, frameH)
	if err != nil {
		t.Fatal(err)
	}

	tr := NewCPUTracer("cpu-0", 1)
	if err = tr.Init(); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()
	tr.Update(UpdateScene, sc)

	frame := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(BlockRequest{
		FrameW:   frameW,
		FrameH:   frameH,
		BlockH:   frameH,
		Frame:    frame,
		DoneChan: doneChan,
		ErrChan:  errChan,
	})

	select {
	case <-doneChan:
	case err = <-errChan:
		t.Fatal(err)
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for block")
	}

	for y := 0; y < frameH; y++ {
		for x := 0; x < frameW; x++ {
			exp := toRGBA(sc.RayTrace(sc.Camera.InitRay(x, y)))
			if got := frame.RGBAAt(x, y); got != exp {
				t.Fatalf("pixel (%d, %d): expected color %v; got %v", x, y, exp, got)
			}
		}
	}
}

func TestCPUTracerErrors(t *testing.T) {
	sc, err := scene.DemoScene("spheres", 8, 8)
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		setup    func(tr Tracer)
		req      BlockRequest
		expError error
	}
	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	specs := []spec{
		{
			func(tr Tracer) {},
			BlockRequest{FrameW: 8, FrameH: 8, BlockH: 8, Frame: frame},
			ErrNoSceneData,
		},
		{
			func(tr Tracer) { tr.Update(UpdateScene, sc) },
			BlockRequest{FrameW: 16, FrameH: 8, BlockH: 8, Frame: frame},
			ErrResolutionMatch,
		},
		{
			func(tr Tracer) { tr.Update(UpdateScene, sc) },
			BlockRequest{FrameW: 8, FrameH: 8, BlockY: 4, BlockH: 8, Frame: frame},
			ErrInvalidBlock,
		},
		{
			func(tr Tracer) { tr.Update(UpdateScene, sc) },
			BlockRequest{FrameW: 8, FrameH: 8, BlockH: 8},
			ErrInvalidBlock,
		},
		{
			func(tr Tracer) { tr.Update(UpdateScene, scene.NewScene()) },
			BlockRequest{FrameW: 8, FrameH: 8, BlockH: 8, Frame: frame},
			ErrNoCamera,
		},
	}

	for index, s := range specs {
		tr := NewCPUTracer("cpu-0", 1)
		if err = tr.Init(); err != nil {
			t.Fatal(err)
		}
		s.setup(tr)

		doneChan := make(chan uint32, 1)
		errChan := make(chan error, 1)
		s.req.DoneChan = doneChan
		s.req.ErrChan = errChan
		tr.Enqueue(s.req)

		select {
		case <-doneChan:
			t.Fatalf("[spec %d] expected to get error %v", index, s.expError)
		case err = <-errChan:
			if err != s.expError {
				t.Fatalf("[spec %d] expected to get error %v; got %v", index, s.expError, err)
			}
		case <-time.After(10 * time.Second):
			t.Fatalf("[spec %d] timeout waiting for block", index)
		}
		tr.Close()
	}
}

func TestCPUTracerNotInitialized(t *testing.T) {
	tr := NewCPUTracer("cpu-0", 1)

	errChan := make(chan error)
	tr.Enqueue(BlockRequest{ErrChan: errChan})
	if err := <-errChan; err != ErrNotInitialized {
		t.Fatalf("expected to get error %v; got %v", ErrNotInitialized, err)
	}

	// Closing twice or closing a closed tracer is a no-op
	if err := tr.Init(); err != nil {
		t.Fatal(err)
	}
	tr.Close()
	tr.Close()

	tr.Enqueue(BlockRequest{ErrChan: errChan})
	if err := <-errChan; err != ErrNotInitialized {
		t.Fatalf("expected to get error %v after close; got %v", ErrNotInitialized, err)
	}
}

func shapesAsPrimitives(sc *scene.Scene) []bsp.Primitive {
	prims := make([]bsp.Primitive, len(sc.Shapes))
	for index, shape := range sc.Shapes {
		prims[index] = shape
	}
	return prims
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
