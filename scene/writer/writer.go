package writer

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

type compressedSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Write a compiled scene to sceneFile. The compression codec is selected by
// the file extension: zstd (.zst) or snappy (.sz).
func WriteScene(sc *scene.Scene, sceneFile string) error {
	w := &compressedSceneWriter{
		logger:    log.New("scene writer"),
		sceneFile: sceneFile,
	}
	return w.Write(sc)
}

// Write scene definition to a compressed file.
func (w *compressedSceneWriter) Write(sc *scene.Scene) error {
	snap, err := sc.Snapshot()
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(w.sceneFile))
	if ext != ".zst" && ext != ".sz" {
		return fmt.Errorf("writer: unsupported file extension %q; expected .zst or .sz", ext)
	}

	w.logger.Noticef("writing compressed scene to %s", w.sceneFile)
	start := time.Now()

	f, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}

	err = encode(f, ext, snap)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(w.sceneFile)
		return err
	}

	w.logger.Noticef("compressed scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	return nil
}

// Gob-encode snap into dst using the codec for ext. The encoder stream is
// flushed before returning.
func encode(dst io.Writer, ext string, snap *scene.Snapshot) error {
	var stream io.WriteCloser
	switch ext {
	case ".zst":
		enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("writer: could not create zstd encoder: %w", err)
		}
		stream = enc
	default:
		stream = snappy.NewBufferedWriter(dst)
	}

	if err := gob.NewEncoder(stream).Encode(snap); err != nil {
		stream.Close()
		return fmt.Errorf("writer: could not encode scene: %w", err)
	}
	return stream.Close()
}
