package tracer

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Relative speed estimate.
	speed uint32

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last traced block.
	stats *Stats

	// The traced scene and the structure used for answering ray queries.
	sc    *scene.Scene
	isect bsp.Intersector
}

// Create a new tracer that traces blocks on the CPU using a dedicated
// go-routine.
func NewCPUTracer(id string, speed uint32) Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		speed:        speed,
		updateBuffer: make(map[UpdateType]interface{}),
		stats:        &Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return tr.speed
}

// Initialize tracer and start the worker go-routine.
func (tr *cpuTracer) Init() error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		tr.startWorker()
	}
	return nil
}

// Shutdown the worker go-routine and wait for it to exit.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.blockReqChan = nil
	tr.Unlock()

	// The worker may need the lock to commit updates so we must not hold
	// it while waiting.
	if closeChan != nil {
		close(closeChan)
		tr.wg.Wait()
	}

	tr.Lock()
	tr.sc = nil
	tr.isect = nil
	tr.Unlock()
}

// Enqueue block request. Requests to a tracer that has not been initialized
// or has been closed fail with ErrNotInitialized.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.Lock()
	reqChan, closeChan := tr.blockReqChan, tr.closeChan
	tr.Unlock()

	if reqChan == nil {
		go func() { blockReq.ErrChan <- ErrNotInitialized }()
		return
	}

	select {
	case reqChan <- blockReq:
	case <-closeChan:
		go func() { blockReq.ErrChan <- ErrNotInitialized }()
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()
	tr.updateBuffer[updateType] = data
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	tr.Lock()
	defer tr.Unlock()

	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case UpdateScene:
			sc, ok := data.(*scene.Scene)
			if !ok {
				return fmt.Errorf("tracer: invalid payload %T for scene update", data)
			}
			tr.sc = sc
		case UpdateIntersector:
			isect, ok := data.(bsp.Intersector)
			if !ok {
				return fmt.Errorf("tracer: invalid payload %T for intersector update", data)
			}
			tr.isect = isect
		default:
			return fmt.Errorf("tracer: unsupported update type %d", updateType)
		}
	}

	tr.updateBuffer = make(map[UpdateType]interface{})
	return nil
}

// Spawn a go-routine to process block requests. This method is meant to be
// called while holding tr.Lock()
func (tr *cpuTracer) startWorker() {
	tr.blockReqChan = make(chan BlockRequest, 1)
	tr.closeChan = make(chan struct{})

	reqChan, closeChan := tr.blockReqChan, tr.closeChan
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		for {
			select {
			case blockReq := <-reqChan:
				tr.process(&blockReq)
			case <-closeChan:
				return
			}
		}
	}()
}

// Apply pending updates, trace block and reply with our completion status.
func (tr *cpuTracer) process(blockReq *BlockRequest) {
	startTime := time.Now()
	if err := tr.commitUpdates(); err != nil {
		blockReq.ErrChan <- err
		return
	}
	updateTime := time.Since(startTime)

	startTime = time.Now()
	rays, hits, err := tr.traceBlock(blockReq)
	if err != nil {
		blockReq.ErrChan <- err
		return
	}

	tr.stats.BlockH = blockReq.BlockH
	tr.stats.RenderTime = time.Since(startTime)
	tr.stats.UpdateTime = updateTime
	tr.stats.Rays = rays
	tr.stats.Hits = hits
	tr.logger.Debugf("traced rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.stats.RenderTime)

	blockReq.DoneChan <- blockReq.BlockH
}

// Trace a primary ray for every pixel of the block rows.
func (tr *cpuTracer) traceBlock(blockReq *BlockRequest) (rays, hits uint64, err error) {
	if tr.sc == nil {
		return 0, 0, ErrNoSceneData
	}
	cam := tr.sc.Camera
	if cam == nil {
		return 0, 0, ErrNoCamera
	}
	if uint32(cam.Width) != blockReq.FrameW || uint32(cam.Height) != blockReq.FrameH {
		return 0, 0, ErrResolutionMatch
	}
	bounds := image.Rect(0, 0, int(blockReq.FrameW), int(blockReq.FrameH))
	if blockReq.Frame == nil || !blockReq.Frame.Bounds().Eq(bounds) || blockReq.BlockY+blockReq.BlockH > blockReq.FrameH {
		return 0, 0, ErrInvalidBlock
	}

	// Without an explicit intersector fall back to the scene's own
	trace := tr.sc.RayTrace
	if tr.isect != nil {
		isect := tr.isect
		trace = func(ray *bsp.Ray) types.Vec3 { return tr.sc.Trace(isect, ray) }
	}

	for y := int(blockReq.BlockY); y < int(blockReq.BlockY+blockReq.BlockH); y++ {
		for x := 0; x < int(blockReq.FrameW); x++ {
			ray := cam.InitRay(x, y)
			blockReq.Frame.SetRGBA(x, y, toRGBA(trace(ray)))
			rays++
			if ray.Hit != nil {
				hits++
			}
		}
	}

	return rays, hits, nil
}

// Convert a [0, 1] color to an opaque 8-bit RGBA color.
func toRGBA(c types.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(c[0]*255 + 0.5),
		G: uint8(c[1]*255 + 0.5),
		B: uint8(c[2]*255 + 0.5),
		A: 255,
	}
}
