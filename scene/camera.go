package scene

import (
	"fmt"
	"math"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

// The camera type controls the scene camera. Primary rays are generated
// through the pixel centers of a virtual screen placed at distance focus
// in front of the camera position.
type Camera struct {
	Position  types.Vec3
	Direction types.Vec3
	Up        types.Vec3

	// Vertical camera FOV in degrees.
	FOV float32

	// Frame resolution.
	Width  int
	Height int

	// Screen basis vectors and focal distance; set by Update.
	right  types.Vec3
	down   types.Vec3
	focus  float32
	aspect float32
}

// Create a new perspective camera. The direction and up vectors do not
// need to be normalized.
func NewCamera(width, height int, position, direction, up types.Vec3, fov float32) *Camera {
	c := &Camera{
		Position:  position,
		Direction: direction,
		Up:        up,
		FOV:       fov,
		Width:     width,
		Height:    height,
	}
	c.Update()
	return c
}

// Update the screen basis after changing any of the camera attributes.
func (c *Camera) Update() {
	dir := c.Direction.Normalize()
	c.right = dir.Cross(c.Up).Normalize()
	c.down = dir.Cross(c.right).Normalize()
	c.focus = float32(1.0 / math.Tan(float64(c.FOV)*math.Pi/360.0))
	c.aspect = 1
	if c.Height > 0 {
		c.aspect = float32(c.Width) / float32(c.Height)
	}
}

// Validate camera settings.
func (c *Camera) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("camera: invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("camera: fov must be in the (0, 180) range; got %f", c.FOV)
	}
	if c.Direction.Cross(c.Up).Len() == 0 {
		return fmt.Errorf("camera: direction %v and up %v vectors must not be parallel", c.Direction, c.Up)
	}
	return nil
}

// Create a primary ray through the center of pixel (x, y). Pixel (0, 0) is
// the top-left frame corner.
func (c *Camera) InitRay(x, y int) *bsp.Ray {
	sscx := 2*(float32(x)+0.5)/float32(c.Width) - 1
	sscy := 2*(float32(y)+0.5)/float32(c.Height) - 1

	dir := c.right.Mul(c.aspect * sscx).
		Add(c.down.Mul(sscy)).
		Add(c.Direction.Normalize().Mul(c.focus)).
		Normalize()

	return bsp.NewRay(c.Position, dir)
}

func (c *Camera) String() string {
	return fmt.Sprintf("pos: %v, dir: %v, up: %v, fov: %g, res: %dx%d", c.Position, c.Direction, c.Up, c.FOV, c.Width, c.Height)
}
