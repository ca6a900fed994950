package scene

import (
	"math"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// The Shape interface is implemented by all renderable scene primitives.
type Shape interface {
	bsp.Primitive

	// Get the surface normal at the hit point stored in ray.
	Normal(ray *bsp.Ray) types.Vec3

	// Get the shape material.
	Material() *Material
}

// A sphere primitive.
type Sphere struct {
	Center types.Vec3
	Radius float32

	Mat *Material
}

// Create new sphere primitive.
func NewSphere(center types.Vec3, radius float32, material *Material) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		Mat:    material,
	}
}

func (s *Sphere) BBox() bsp.BBox {
	r := types.Splat(s.Radius)
	return bsp.BBox{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Find the roots of |org + t*dir - center|^2 = r^2. The near root is used
// unless it lies behind the ray origin.
func (s *Sphere) Intersect(ray *bsp.Ray) bool {
	diff := ray.Org.Sub(s.Center)
	a := ray.Dir.Dot(ray.Dir)
	b := 2 * ray.Dir.Dot(diff)
	c := diff.Dot(diff) - s.Radius*s.Radius

	inRoot := b*b - 4*a*c
	if inRoot < 0 || a == 0 {
		return false
	}
	root := float32(math.Sqrt(float64(inRoot)))

	dist := (-b - root) / (2 * a)
	if dist < bsp.Epsilon {
		dist = (-b + root) / (2 * a)
	}
	if dist < bsp.Epsilon || dist >= ray.T {
		return false
	}

	ray.T = dist
	ray.Hit = s
	return true
}

func (s *Sphere) Normal(ray *bsp.Ray) types.Vec3 {
	return ray.Point().Sub(s.Center).Normalize()
}

func (s *Sphere) Material() *Material {
	return s.Mat
}

// An infinite plane defined by a point on the plane and its normal.
type Plane struct {
	Origin types.Vec3
	Norm   types.Vec3

	Mat *Material
}

// Create new plane primitive. The normal is normalized.
func NewPlane(origin, normal types.Vec3, material *Material) *Plane {
	return &Plane{
		Origin: origin,
		Norm:   normal.Normalize(),
		Mat:    material,
	}
}

// Planes are unbounded along every axis except for the axis their normal
// is aligned to (if any).
func (p *Plane) BBox() bsp.BBox {
	box := bsp.BBox{Min: types.Splat(negInf), Max: types.Splat(posInf)}
	for axis := 0; axis < 3; axis++ {
		if p.Norm[axis] == 1 || p.Norm[axis] == -1 {
			box.Min[axis] = p.Origin[axis]
			box.Max[axis] = p.Origin[axis]
		}
	}
	return box
}

func (p *Plane) Intersect(ray *bsp.Ray) bool {
	denom := ray.Dir.Dot(p.Norm)
	if denom == 0 {
		return false
	}

	dist := p.Origin.Sub(ray.Org).Dot(p.Norm) / denom
	if dist < bsp.Epsilon || dist >= ray.T || math.IsInf(float64(dist), 0) {
		return false
	}

	ray.T = dist
	ray.Hit = p
	return true
}

func (p *Plane) Normal(_ *bsp.Ray) types.Vec3 {
	return p.Norm
}

func (p *Plane) Material() *Material {
	return p.Mat
}

// A triangle primitive.
type Triangle struct {
	V [3]types.Vec3

	Mat *Material
}

// Create new triangle primitive.
func NewTriangle(a, b, c types.Vec3, material *Material) *Triangle {
	return &Triangle{
		V:   [3]types.Vec3{a, b, c},
		Mat: material,
	}
}

func (t *Triangle) BBox() bsp.BBox {
	box := bsp.EmptyBBox()
	for _, v := range t.V {
		box.Extend(v)
	}
	return box
}

// Moller-Trumbore ray/triangle intersection.
func (t *Triangle) Intersect(ray *bsp.Ray) bool {
	edge1 := t.V[1].Sub(t.V[0])
	edge2 := t.V[2].Sub(t.V[0])

	pvec := ray.Dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if det > -1e-8 && det < 1e-8 {
		return false
	}
	invDet := 1 / det

	tvec := ray.Org.Sub(t.V[0])
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return false
	}

	qvec := tvec.Cross(edge1)
	v := ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	dist := edge2.Dot(qvec) * invDet
	if dist < bsp.Epsilon || dist >= ray.T {
		return false
	}

	ray.T = dist
	ray.Hit = t
	return true
}

func (t *Triangle) Normal(_ *bsp.Ray) types.Vec3 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])).Normalize()
}

func (t *Triangle) Material() *Material {
	return t.Mat
}
