package bsp

import (
	"fmt"
	"math"

	"github.com/Jacobs-University/eyden-tracer-03/types"
)

// Epsilon is the tolerance used for boundary tests during partitioning and
// the minimum accepted hit distance for primitives.
const Epsilon float32 = 1e-4

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// BBox is an axis-aligned bounding box. The zero value is a degenerate box
// at the origin; use EmptyBBox to get the identity element for Extend.
type BBox struct {
	Min types.Vec3
	Max types.Vec3
}

// Create an empty box (Min = +Inf, Max = -Inf) which encloses nothing.
func EmptyBBox() BBox {
	return BBox{
		Min: types.Splat(posInf),
		Max: types.Splat(negInf),
	}
}

// Create the tightest box enclosing points a and b.
func NewBBox(a, b types.Vec3) BBox {
	return BBox{
		Min: types.MinVec3(a, b),
		Max: types.MaxVec3(a, b),
	}
}

// Returns true if the box encloses no point.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Grow the box so that it encloses p.
func (b *BBox) Extend(p types.Vec3) {
	b.Min = types.MinVec3(b.Min, p)
	b.Max = types.MaxVec3(b.Max, p)
}

// Grow the box so that it encloses other. Extending by an empty box leaves
// the box unchanged.
func (b *BBox) ExtendBox(other BBox) {
	if other.IsEmpty() {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Split the box at coordinate val along axis. The returned boxes share the
// split plane and keep all other bounds of the original box.
func (b BBox) Split(axis types.Axis, val float32) (left, right BBox) {
	left, right = b, b
	left.Max[axis] = val
	right.Min[axis] = val
	return left, right
}

// Overlaps returns true if no axis separates the two boxes. Boxes that touch
// (or are closer than Epsilon) are considered to be overlapping.
func (b BBox) Overlaps(other BBox) bool {
	for axis := 0; axis < 3; axis++ {
		if b.Min[axis] > other.Max[axis]+Epsilon || other.Min[axis] > b.Max[axis]+Epsilon {
			return false
		}
	}
	return true
}

// Returns true if p lies inside the box or on its boundary.
func (b BBox) Contains(p types.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Get the box center.
func (b BBox) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the box side lengths.
func (b BBox) Extent() types.Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the axis along which the box is the widest.
func (b BBox) WidestAxis() types.Axis {
	ext := b.Extent()
	switch {
	case ext[0] > ext[1] && ext[0] > ext[2]:
		return types.XAxis
	case ext[1] > ext[2]:
		return types.YAxis
	}
	return types.ZAxis
}

// Clip narrows the parametric range [t0, t1] of ray to the part that lies
// inside the box using the slab method. If the ray misses the box the
// returned range is empty (t0 > t1). The returned range never exceeds the
// input range.
func (b BBox) Clip(ray *Ray, t0, t1 float32) (float32, float32) {
	if b.IsEmpty() {
		return posInf, negInf
	}

	for axis := 0; axis < 3; axis++ {
		org, dir := ray.Org[axis], ray.Dir[axis]

		// A ray parallel to the slab either stays inside it for its
		// entire length or never enters it.
		if dir == 0 {
			if org < b.Min[axis] || org > b.Max[axis] {
				return posInf, negInf
			}
			continue
		}

		invDir := 1.0 / dir
		tNear := (b.Min[axis] - org) * invDir
		tFar := (b.Max[axis] - org) * invDir
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}

		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t0 > t1 {
			return t0, t1
		}
	}

	return t0, t1
}

func (b BBox) String() string {
	return fmt.Sprintf("[%v - %v]", b.Min, b.Max)
}
