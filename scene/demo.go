package scene

import (
	"fmt"
	"sort"

	"github.com/Jacobs-University/eyden-tracer-03/types"
)

type demoBuilder func(sc *Scene)

var demoScenes = map[string]demoBuilder{
	"spheres": buildSpheresDemo,
	"grid":    buildGridDemo,
}

// Get the names of the built-in demo scenes.
func DemoScenes() []string {
	names := make([]string, 0, len(demoScenes))
	for name := range demoScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create a built-in demo scene viewed by a camera with the given frame
// resolution.
func DemoScene(name string, width, height int) (*Scene, error) {
	builder, exists := demoScenes[name]
	if !exists {
		return nil, fmt.Errorf("scene: unknown demo scene %q; available scenes: %v", name, DemoScenes())
	}

	sc := NewScene()
	sc.SetCamera(NewCamera(width, height, types.XYZ(0, 3.5, -13), types.XYZ(0, 0, 1), types.XYZ(0, 1, 0), 60))
	builder(sc)
	return sc, nil
}

// A few colored spheres and a triangle resting on an infinite floor.
func buildSpheresDemo(sc *Scene) {
	sc.BgColor = types.XYZ(0.4, 0.4, 0.4)
	sc.Add(
		NewPlane(types.XYZ(0, -1, 0), types.XYZ(0, 1, 0), NewEyelight(types.XYZ(1, 1, 1))),
		NewSphere(types.XYZ(-2, 1.7, 0), 2, NewEyelight(types.XYZ(1, 0, 0))),
		NewSphere(types.XYZ(1, -1, 1), 2.2, NewEyelight(types.XYZ(0, 1, 0))),
		NewSphere(types.XYZ(3, 0.8, -2), 2, NewEyelight(types.XYZ(0, 0, 1))),
		NewTriangle(types.XYZ(-2, -1, 2), types.XYZ(3, -1, 6), types.XYZ(0, 4, 4), NewEyelight(types.XYZ(1, 1, 0))),
	)
}

// A grid of small spheres above a floor made of two triangles.
func buildGridDemo(sc *Scene) {
	const (
		gridSize = 16
		spacing  = 1.0
		radius   = 0.35
	)

	sc.BgColor = types.XYZ(0.1, 0.1, 0.15)
	floor := NewEyelight(types.XYZ(0.8, 0.8, 0.8))
	sc.Add(
		NewTriangle(types.XYZ(-10, -1, -10), types.XYZ(10, -1, -10), types.XYZ(10, -1, 20), floor),
		NewTriangle(types.XYZ(-10, -1, -10), types.XYZ(10, -1, 20), types.XYZ(-10, -1, 20), floor),
	)

	offset := -float32(gridSize-1) * spacing * 0.5
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			color := types.XYZ(float32(row)/gridSize, float32(col)/gridSize, 0.5)
			center := types.XYZ(offset+float32(col)*spacing, 0.5+float32(row)*spacing*0.5, float32(row)*spacing)
			sc.Add(NewSphere(center, radius, NewEyelight(color)))
		}
	}
}
