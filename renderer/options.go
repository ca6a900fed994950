package renderer

import "github.com/Jacobs-University/eyden-tracer-03/bsp"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of CPU tracers. A value of zero uses one tracer per CPU.
	Workers int

	// Options for building the scene acceleration structure.
	BuildOptions bsp.BuildOptions

	// Test every ray against every scene shape instead of building a tree.
	BruteForce bool
}

// Get the default renderer options.
func DefaultOptions() Options {
	return Options{
		FrameW:       800,
		FrameH:       600,
		BuildOptions: bsp.DefaultBuildOptions(),
	}
}
