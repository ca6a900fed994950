package bsp

import "errors"

var (
	ErrInvalidMaxDepth      = errors.New("bsp: max depth must not be negative")
	ErrInvalidMinPrimitives = errors.New("bsp: min primitives per leaf must be at least 1")
	ErrInvalidSplitPolicy   = errors.New("bsp: unknown split policy")
)
