package reader

import (
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/asset"
	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

type compiledSceneReader struct {
	logger log.Logger
	opts   Options
}

// Create a new reader for scenes written by the compile command.
func newCompiledSceneReader(opts Options) *compiledSceneReader {
	return &compiledSceneReader{
		logger: log.New("compiled scene reader"),
		opts:   opts,
	}
}

// Read compiled scene. The stream is zstd or snappy compressed depending
// on the resource extension.
func (r *compiledSceneReader) Read(res *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef("loading compiled scene from %s", res.Path())
	start := time.Now()

	var src io.Reader
	switch res.Ext() {
	case ".zst":
		dec, err := zstd.NewReader(res)
		if err != nil {
			return nil, fmt.Errorf("reader: could not create zstd decoder for %s: %w", res.Path(), err)
		}
		defer dec.Close()
		src = dec
	case ".sz":
		src = snappy.NewReader(res)
	default:
		return nil, fmt.Errorf("reader: unsupported compiled scene extension %q", res.Ext())
	}

	var snap scene.Snapshot
	if err := gob.NewDecoder(src).Decode(&snap); err != nil {
		return nil, fmt.Errorf("reader: could not decode compiled scene %s: %w", res.Path(), err)
	}

	sc, err := scene.FromSnapshot(&snap)
	if err != nil {
		return nil, err
	}

	if sc.Camera != nil && r.opts.FrameW > 0 && r.opts.FrameH > 0 {
		sc.Camera.Width = r.opts.FrameW
		sc.Camera.Height = r.opts.FrameH
		sc.Camera.Update()
	}

	r.logger.Noticef("loaded %d shapes from %s in %d ms", len(sc.Shapes), res.Name(), time.Since(start).Nanoseconds()/1000000)
	return sc, nil
}
