package scene

import (
	"fmt"

	"github.com/Jacobs-University/eyden-tracer-03/types"
)

// The current snapshot layout version.
const SnapshotVersion uint32 = 1

// A Snapshot is a flat, serializable representation of a scene. Shapes
// reference materials by their index in the material list.
type Snapshot struct {
	Version uint32

	Camera  *Camera
	BgColor types.Vec3

	Materials []Material
	Spheres   []SphereData
	Planes    []PlaneData
	Triangles []TriangleData
}

type SphereData struct {
	Center   types.Vec3
	Radius   float32
	Material uint32
}

type PlaneData struct {
	Origin   types.Vec3
	Normal   types.Vec3
	Material uint32
}

type TriangleData struct {
	V        [3]types.Vec3
	Material uint32
}

// Create a snapshot of the scene contents. Materials shared by multiple
// shapes are stored once.
func (s *Scene) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{
		Version: SnapshotVersion,
		Camera:  s.Camera,
		BgColor: s.BgColor,
	}

	matIndex := make(map[*Material]uint32)
	materialIndex := func(mat *Material) uint32 {
		index, exists := matIndex[mat]
		if !exists {
			snap.Materials = append(snap.Materials, *mat)
			index = uint32(len(snap.Materials) - 1)
			matIndex[mat] = index
		}
		return index
	}

	for _, shape := range s.Shapes {
		if shape.Material() == nil {
			return nil, fmt.Errorf("scene: no material assigned to shape")
		}

		switch sh := shape.(type) {
		case *Sphere:
			snap.Spheres = append(snap.Spheres, SphereData{sh.Center, sh.Radius, materialIndex(sh.Mat)})
		case *Plane:
			snap.Planes = append(snap.Planes, PlaneData{sh.Origin, sh.Norm, materialIndex(sh.Mat)})
		case *Triangle:
			snap.Triangles = append(snap.Triangles, TriangleData{sh.V, materialIndex(sh.Mat)})
		default:
			return nil, fmt.Errorf("scene: shape type %T cannot be serialized", shape)
		}
	}

	return snap, nil
}

// Create a scene from a snapshot.
func FromSnapshot(snap *Snapshot) (*Scene, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("scene: unsupported snapshot version %d; expected %d", snap.Version, SnapshotVersion)
	}

	materials := make([]*Material, len(snap.Materials))
	for index := range snap.Materials {
		mat := snap.Materials[index]
		materials[index] = &mat
	}
	lookup := func(index uint32) (*Material, error) {
		if int(index) >= len(materials) {
			return nil, fmt.Errorf("scene: snapshot references unknown material %d", index)
		}
		return materials[index], nil
	}

	sc := NewScene()
	sc.BgColor = snap.BgColor
	if snap.Camera != nil {
		sc.SetCamera(snap.Camera)
		sc.Camera.Update()
	}

	shapes := make([]Shape, 0, len(snap.Spheres)+len(snap.Planes)+len(snap.Triangles))
	for _, sp := range snap.Spheres {
		mat, err := lookup(sp.Material)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, NewSphere(sp.Center, sp.Radius, mat))
	}
	for _, pl := range snap.Planes {
		mat, err := lookup(pl.Material)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, NewPlane(pl.Origin, pl.Normal, mat))
	}
	for _, tri := range snap.Triangles {
		mat, err := lookup(tri.Material)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, NewTriangle(tri.V[0], tri.V[1], tri.V[2], mat))
	}

	if err := sc.Add(shapes...); err != nil {
		return nil, err
	}
	return sc, nil
}
