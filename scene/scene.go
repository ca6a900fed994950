package scene

import (
	"errors"
	"fmt"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

var ErrNilShape = errors.New("scene: nil shape")

// A Scene owns a list of shapes, the camera used to view them and an
// optional acceleration structure. Shapes must not be added while the scene
// is being traced.
type Scene struct {
	Camera *Camera

	Shapes []Shape

	BgColor types.Vec3

	logger log.Logger
	tree   *bsp.Tree
}

func NewScene() *Scene {
	return &Scene{
		Shapes: make([]Shape, 0),
		logger: log.New("scene"),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a shape to the scene. Adding shapes discards any previously built
// acceleration structure.
func (s *Scene) Add(shapes ...Shape) error {
	for _, shape := range shapes {
		if shape == nil {
			return ErrNilShape
		}
		if shape.Material() == nil {
			return fmt.Errorf("scene: no material assigned to shape")
		}
	}

	s.Shapes = append(s.Shapes, shapes...)
	s.tree = nil
	return nil
}

// Build a BSP tree over the scene shapes. Subsequent Intersect calls use
// the tree instead of testing every shape.
func (s *Scene) BuildAccelStructure(opts bsp.BuildOptions) error {
	prims := make([]bsp.Primitive, len(s.Shapes))
	for index, shape := range s.Shapes {
		prims[index] = shape
	}

	tree, err := bsp.Build(prims, opts)
	if err != nil {
		return err
	}

	stats := tree.Stats()
	s.logger.Infof(
		"built acceleration structure for %d shapes in %d ms (%d branches, %d leafs)",
		len(prims), stats.BuildTime.Nanoseconds()/1e6, stats.Branches, stats.Leafs,
	)
	s.tree = tree
	return nil
}

// Get the acceleration structure or nil if BuildAccelStructure has not
// been invoked.
func (s *Scene) Tree() *bsp.Tree {
	return s.tree
}

// Get the bounding box of all scene shapes.
func (s *Scene) BBox() bsp.BBox {
	if s.tree != nil {
		return s.tree.BBox()
	}

	box := bsp.EmptyBBox()
	for _, shape := range s.Shapes {
		box.ExtendBox(shape.BBox())
	}
	return box
}

// Get the intersector used for ray queries.
func (s *Scene) Intersector() bsp.Intersector {
	if s.tree != nil {
		return s.tree
	}

	prims := make(bsp.Linear, len(s.Shapes))
	for index, shape := range s.Shapes {
		prims[index] = shape
	}
	return prims
}

// Find the closest shape hit by ray. The tree is used if one has been
// built; otherwise every shape is tested.
func (s *Scene) Intersect(ray *bsp.Ray) bool {
	return s.Intersector().Intersect(ray)
}

// Trace ray using intersector and return the color of the closest hit
// shape or the scene background color.
func (s *Scene) Trace(isect bsp.Intersector, ray *bsp.Ray) types.Vec3 {
	if !isect.Intersect(ray) {
		return s.BgColor
	}

	shape, ok := ray.Hit.(Shape)
	if !ok {
		return s.BgColor
	}
	return shape.Material().Shade(ray, shape.Normal(ray))
}

// Trace ray against the scene shapes.
func (s *Scene) RayTrace(ray *bsp.Ray) types.Vec3 {
	return s.Trace(s, ray)
}
