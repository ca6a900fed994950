package bsp

import "github.com/Jacobs-University/eyden-tracer-03/types"

// Node is a node of the partition tree. It is either a *Leaf or a *Branch.
type Node interface {
	// Intersect ray with the node contents within the parametric range
	// [t0, t1] covered by the node region.
	intersect(ray *Ray, t0, t1 float32) bool
}

// A Leaf holds references to the primitives overlapping its region. The
// primitives are owned by the caller of Build.
type Leaf struct {
	Primitives []Primitive
}

// A Branch splits its region at Split along Axis. Left covers the region
// below the split plane and Right the region above it.
type Branch struct {
	Axis  types.Axis
	Split float32

	Left  Node
	Right Node
}

func newLeaf(primitives []Primitive) *Leaf {
	return &Leaf{Primitives: primitives}
}

func newBranch(axis types.Axis, split float32, left, right Node) *Branch {
	if left == nil || right == nil {
		panic("bsp: branch requires two child nodes")
	}
	return &Branch{
		Axis:  axis,
		Split: split,
		Left:  left,
		Right: right,
	}
}

// Every primitive is tested since they are not sorted by distance; the
// ray keeps track of the closest hit.
func (n *Leaf) intersect(ray *Ray, t0, t1 float32) bool {
	hit := false
	for _, prim := range n.Primitives {
		if prim.Intersect(ray) {
			hit = true
		}
	}
	return hit
}

func (n *Branch) intersect(ray *Ray, t0, t1 float32) bool {
	org, dir := ray.Org[n.Axis], ray.Dir[n.Axis]

	// Rays parallel to the split plane never cross it.
	if dir == 0 {
		switch {
		case org < n.Split:
			return n.Left.intersect(ray, t0, t1)
		case org > n.Split:
			return n.Right.intersect(ray, t0, t1)
		}
		hit := n.Left.intersect(ray, t0, t1)
		return n.Right.intersect(ray, t0, t1) || hit
	}

	near, far := n.Left, n.Right
	if dir < 0 {
		near, far = n.Right, n.Left
	}

	d := (n.Split - org) / dir
	if d <= t0 {
		return far.intersect(ray, t0, t1)
	}
	if d >= t1 {
		return near.intersect(ray, t0, t1)
	}

	hit := near.intersect(ray, t0, d)
	if hit && ray.T <= d {
		return true
	}
	return far.intersect(ray, d, t1) || hit
}
