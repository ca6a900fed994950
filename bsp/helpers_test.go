package bsp

import (
	"math"
	"math/rand"

	"github.com/Jacobs-University/eyden-tracer-03/types"
)

type testSphere struct {
	center types.Vec3
	radius float32
}

func (s *testSphere) BBox() BBox {
	r := types.Splat(s.radius)
	return BBox{Min: s.center.Sub(r), Max: s.center.Add(r)}
}

func (s *testSphere) Intersect(ray *Ray) bool {
	diff := ray.Org.Sub(s.center)
	a := ray.Dir.Dot(ray.Dir)
	b := 2 * ray.Dir.Dot(diff)
	c := diff.Dot(diff) - s.radius*s.radius

	inRoot := b*b - 4*a*c
	if inRoot < 0 {
		return false
	}
	root := float32(math.Sqrt(float64(inRoot)))

	dist := (-b - root) / (2 * a)
	if dist < Epsilon {
		dist = (-b + root) / (2 * a)
	}
	if dist < Epsilon || dist >= ray.T {
		return false
	}

	ray.T = dist
	ray.Hit = s
	return true
}

// An axis-aligned solid cube.
type testCube struct {
	box BBox
}

func (c *testCube) BBox() BBox {
	return c.box
}

func (c *testCube) Intersect(ray *Ray) bool {
	tNear, tFar := c.box.Clip(ray, 0, posInf)
	if tNear > tFar {
		return false
	}

	dist := tNear
	if dist < Epsilon {
		dist = tFar
	}
	if dist < Epsilon || dist >= ray.T {
		return false
	}

	ray.T = dist
	ray.Hit = c
	return true
}

// An infinite plane perpendicular to axis.
type testPlane struct {
	axis types.Axis
	pos  float32
}

func (p *testPlane) BBox() BBox {
	box := BBox{Min: types.Splat(negInf), Max: types.Splat(posInf)}
	box.Min[p.axis] = p.pos
	box.Max[p.axis] = p.pos
	return box
}

func (p *testPlane) Intersect(ray *Ray) bool {
	if ray.Dir[p.axis] == 0 {
		return false
	}
	dist := (p.pos - ray.Org[p.axis]) / ray.Dir[p.axis]
	if dist < Epsilon || dist >= ray.T {
		return false
	}

	ray.T = dist
	ray.Hit = p
	return true
}

// A primitive that never reports a hit but records the order in which it
// was tested.
type recordingPrim struct {
	name string
	log  *[]string

	// If > 0 the primitive reports a hit at this distance.
	hitDist float32
}

func (p *recordingPrim) BBox() BBox {
	return NewBBox(types.Vec3{}, types.Vec3{})
}

func (p *recordingPrim) Intersect(ray *Ray) bool {
	*p.log = append(*p.log, p.name)
	if p.hitDist <= 0 || p.hitDist >= ray.T {
		return false
	}
	ray.T = p.hitDist
	ray.Hit = p
	return true
}

func cube(minX, minY, minZ, maxX, maxY, maxZ float32) *testCube {
	return &testCube{box: NewBBox(types.XYZ(minX, minY, minZ), types.XYZ(maxX, maxY, maxZ))}
}

func randomVec3(rnd *rand.Rand, lo, hi float32) types.Vec3 {
	return types.XYZ(
		lo+rnd.Float32()*(hi-lo),
		lo+rnd.Float32()*(hi-lo),
		lo+rnd.Float32()*(hi-lo),
	)
}

func randomBox(rnd *rand.Rand, extent, maxSize float32) BBox {
	min := randomVec3(rnd, -extent, extent)
	return NewBBox(min, min.Add(randomVec3(rnd, 0, maxSize)))
}

func randomScene(rnd *rand.Rand, population int) []Primitive {
	prims := make([]Primitive, population)
	for i := range prims {
		if rnd.Intn(2) == 0 {
			prims[i] = &testSphere{
				center: randomVec3(rnd, -10, 10),
				radius: 0.1 + rnd.Float32()*2,
			}
		} else {
			prims[i] = &testCube{box: randomBox(rnd, 10, 3)}
		}
	}
	return prims
}

// Generate a random direction. Some directions have zero components so
// that rays parallel to slabs and split planes get exercised.
func randomDir(rnd *rand.Rand) types.Vec3 {
	for {
		dir := randomVec3(rnd, -1, 1)
		for axis := 0; axis < 3; axis++ {
			if rnd.Intn(4) == 0 {
				dir[axis] = 0
			}
		}
		if dir.Len() > 1e-3 {
			return dir.Normalize()
		}
	}
}
