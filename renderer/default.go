package renderer

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/Jacobs-University/eyden-tracer-03/tracer"
)

// A renderer that splits each frame into row blocks and traces them in
// parallel using a pool of CPU tracers.
type defaultRenderer struct {
	logger log.Logger

	// The scene to render.
	sc *scene.Scene

	// Tracer pool and the scheduler that assigns blocks to them.
	scheduler        tracer.BlockScheduler
	tracers          []tracer.Tracer
	blockAssignments []uint32

	// Channels for receiving tracer completion/error messages.
	doneChan chan uint32
	errChan  chan error

	// The frame buffer shared by all tracers.
	frame *image.RGBA

	options Options
	stats   FrameStats
	closed  bool
}

// Create a new default renderer for the given scene. The scene camera is
// updated to match the requested frame dimensions and, unless brute-force
// tracing is requested, a BSP tree is built over the scene shapes.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	sc.Camera.Width, sc.Camera.Height = int(opts.FrameW), int(opts.FrameH)
	sc.Camera.Update()
	if err := sc.Camera.Validate(); err != nil {
		return nil, err
	}

	if !opts.BruteForce {
		if err := sc.BuildAccelStructure(opts.BuildOptions); err != nil {
			return nil, err
		}
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		sc:        sc,
		scheduler: scheduler,
		options:   opts,
		frame:     image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
	}

	err := r.initTracers()
	if err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// Create and initialize the tracer pool.
func (r *defaultRenderer) initTracers() error {
	isect := r.sc.Intersector()
	for idx := 0; idx < r.options.Workers; idx++ {
		tr := tracer.NewCPUTracer(fmt.Sprintf("cpu-%d", idx), 1)
		if err := tr.Init(); err != nil {
			r.logger.Warningf("skipping tracer %s due to init error: %s", tr.Id(), err.Error())
			continue
		}

		tr.Update(tracer.UpdateScene, r.sc)
		tr.Update(tracer.UpdateIntersector, isect)
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	r.doneChan = make(chan uint32, len(r.tracers))
	r.errChan = make(chan error, len(r.tracers))
	r.logger.Infof("attached %d tracers (brute force: %t)", len(r.tracers), r.options.BruteForce)
	return nil
}

// Render frame. The returned frame buffer is reused by subsequent calls.
func (r *defaultRenderer) Render() (*image.RGBA, error) {
	if r.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	// Enqueue block requests
	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			FrameW:   r.options.FrameW,
			FrameH:   r.options.FrameH,
			BlockY:   blockY,
			BlockH:   blockH,
			Frame:    r.frame,
			DoneChan: r.doneChan,
			ErrChan:  r.errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for all tracers to finish so no tracer touches the frame after
	// we return.
	var err error
	for ; pending > 0; pending-- {
		select {
		case <-r.doneChan:
		case blockErr := <-r.errChan:
			if err == nil {
				err = blockErr
			}
		}
	}
	if err != nil {
		return nil, err
	}

	r.updateStats(time.Since(start))
	r.logger.Debugf("rendered %dx%d frame in %s", r.options.FrameW, r.options.FrameH, r.stats.RenderTime)
	return r.frame, nil
}

// Collect tracer statistics for the last rendered frame.
func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		stat := TracerStat{
			Id:           tr.Id(),
			IsPrimary:    idx == 0,
			BlockH:       r.blockAssignments[idx],
			FramePercent: 100.0 * float32(r.blockAssignments[idx]) / float32(r.options.FrameH),
		}

		if stat.BlockH != 0 {
			trStats := tr.Stats()
			stat.RenderTime = trStats.RenderTime
			stat.Rays = trStats.Rays
			stat.Hits = trStats.Hits
		}

		r.stats.Tracers[idx] = stat
		r.stats.Rays += stat.Rays
		r.stats.Hits += stat.Hits
	}
}

// Get last frame stats.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
	r.closed = true
}
