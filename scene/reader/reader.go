package reader

import (
	"fmt"

	"github.com/Jacobs-University/eyden-tracer-03/asset"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

// Options control how parsed scenes are set up.
type Options struct {
	// The camera frame resolution. Compiled scenes keep their stored
	// resolution when these are zero.
	FrameW int
	FrameH int

	// The material type assigned to wavefront faces.
	MaterialType scene.MaterialType

	// The background color for wavefront scenes.
	BgColor types.Vec3
}

// Get the default reader options (800x600 frame, eyelight materials, black
// background).
func DefaultOptions() Options {
	return Options{
		FrameW:       800,
		FrameH:       600,
		MaterialType: scene.EyelightMaterial,
	}
}

type sceneReader interface {
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or remote URL. The format is selected by the
// file extension: wavefront (.obj) or compiled scenes (.zst, .sz).
func ReadScene(sceneFile string, opts Options) (*scene.Scene, error) {
	res, err := asset.NewResource(sceneFile, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res, opts)
}

// Read scene from a resource.
func Read(res *asset.Resource, opts Options) (*scene.Scene, error) {
	var r sceneReader
	switch res.Ext() {
	case ".obj":
		r = newWavefrontReader(opts)
	case ".zst", ".sz":
		r = newCompiledSceneReader(opts)
	default:
		return nil, fmt.Errorf("reader: unsupported file extension %q for %s", res.Ext(), res.Path())
	}

	return r.Read(res)
}
