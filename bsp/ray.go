package bsp

import "github.com/Jacobs-University/eyden-tracer-03/types"

// A Ray is a half-line Org + t*Dir. T holds the distance to the closest hit
// found so far and Hit the primitive that produced it.
type Ray struct {
	Org types.Vec3
	Dir types.Vec3

	// Distance to the nearest hit. Rays start with T set to the maximum
	// visible distance.
	T float32

	// The primitive hit at distance T or nil.
	Hit Primitive
}

// Create a new ray with an unbounded visible distance.
func NewRay(org, dir types.Vec3) *Ray {
	return &Ray{
		Org: org,
		Dir: dir,
		T:   posInf,
	}
}

// Get the point at the current hit distance.
func (r *Ray) Point() types.Vec3 {
	return r.Org.Add(r.Dir.Mul(r.T))
}

// The Primitive interface is implemented by all scene objects that can be
// partitioned by the tree.
type Primitive interface {
	// Get the primitive bounding box.
	BBox() BBox

	// Intersect the primitive with ray. If the hit is farther than Epsilon
	// and closer than ray.T, ray.T and ray.Hit are updated and Intersect
	// returns true.
	Intersect(ray *Ray) bool
}

// The Intersector interface is implemented by structures that can find the
// closest primitive hit along a ray.
type Intersector interface {
	Intersect(ray *Ray) bool
}

// Linear is an Intersector that tests a ray against every primitive in the
// list.
type Linear []Primitive

// Intersect ray with all primitives. Returns true if any of them was hit.
func (l Linear) Intersect(ray *Ray) bool {
	hit := false
	for _, prim := range l {
		if prim.Intersect(ray) {
			hit = true
		}
	}
	return hit
}
