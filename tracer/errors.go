package tracer

import "errors"

var (
	ErrNoSceneData     = errors.New("tracer: no scene data uploaded")
	ErrNoCamera        = errors.New("tracer: scene has no camera")
	ErrNotInitialized  = errors.New("tracer: tracer not initialized")
	ErrInvalidBlock    = errors.New("tracer: block request exceeds frame bounds")
	ErrResolutionMatch = errors.New("tracer: frame size does not match camera resolution")
)
