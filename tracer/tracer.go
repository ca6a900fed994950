package tracer

import (
	"image"
	"time"
)

type UpdateType uint8

// Supported update types.
const (
	// Replace the traced scene. Payload: *scene.Scene
	UpdateScene UpdateType = iota

	// Replace the structure used for ray queries. Payload: bsp.Intersector
	UpdateIntersector
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Frame dimensions.
	FrameW uint32
	FrameH uint32

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The frame buffer to write the traced block into. Each tracer only
	// writes the rows of its own block.
	Frame *image.RGBA

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics for the last traced block.
type Stats struct {
	// The traced block height.
	BlockH uint32

	// The time for tracing this block.
	RenderTime time.Duration

	// The time for applying pending updates before tracing the block.
	UpdateTime time.Duration

	// Number of primary rays traced and how many of them hit a shape.
	Rays uint64
	Hits uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed estimate. Speeds are only
	// compared to each other.
	Speed() uint32

	// Initialize tracer and start its worker.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Queue an update. Updates are applied before processing the next
	// block request.
	Update(UpdateType, interface{})

	// Retrieve last block statistics.
	Stats() *Stats
}
