package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

type MaterialType uint8

const (
	// Surfaces are rendered with a constant color.
	FlatMaterial MaterialType = iota

	// Surfaces are lit by a light source located at the eye position.
	EyelightMaterial
)

func (t MaterialType) String() string {
	switch t {
	case FlatMaterial:
		return "flat"
	case EyelightMaterial:
		return "eyelight"
	}
	return fmt.Sprintf("MaterialType(%d)", uint8(t))
}

// Parse a material type name.
func ParseMaterialType(name string) (MaterialType, error) {
	switch strings.ToLower(name) {
	case "flat":
		return FlatMaterial, nil
	case "eyelight", "":
		return EyelightMaterial, nil
	}
	return EyelightMaterial, fmt.Errorf("scene: unknown material type %q", name)
}

// Defines a scene material.
type Material struct {
	// The type of the material.
	Type MaterialType

	// Diffuse color.
	Diffuse types.Vec3
}

// Create an eyelight material with the given color.
func NewEyelight(color types.Vec3) *Material {
	return &Material{Type: EyelightMaterial, Diffuse: color}
}

// Create a flat material with the given color.
func NewFlat(color types.Vec3) *Material {
	return &Material{Type: FlatMaterial, Diffuse: color}
}

// Calculate the color of a surface point with the given normal as seen
// along ray. Eyelight shading scales the diffuse color by the cosine of the
// angle between the normal and the ray; both sides of a surface are lit.
func (m *Material) Shade(ray *bsp.Ray, normal types.Vec3) types.Vec3 {
	if m.Type == FlatMaterial {
		return m.Diffuse.Clamp(0, 1)
	}

	cos := float32(math.Abs(float64(ray.Dir.Normalize().Dot(normal))))
	return m.Diffuse.Mul(cos).Clamp(0, 1)
}
