package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/asset"
	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

// The color assigned to faces that do not reference a material.
var defaultColor = types.XYZ(0.7, 0.7, 0.7)

type wavefrontSceneReader struct {
	logger log.Logger

	opts Options

	// The parsed scene.
	sc *scene.Scene

	// Materials defined by referenced material libraries.
	matNameToMaterial map[string]*scene.Material

	// Currently selected material.
	curMaterial *scene.Material

	// Parsed vertex list.
	vertexList []types.Vec3

	// Parsed camera settings.
	camFOV  float32
	camEye  types.Vec3
	camLook types.Vec3
	camUp   types.Vec3

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new wavefront scene reader.
func newWavefrontReader(opts Options) *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:            log.New("wavefront reader"),
		opts:              opts,
		sc:                scene.NewScene(),
		matNameToMaterial: make(map[string]*scene.Material),
		vertexList:        make([]types.Vec3, 0),
		camFOV:            60,
		camEye:            types.XYZ(0, 0, 0),
		camLook:           types.XYZ(0, 0, 1),
		camUp:             types.XYZ(0, 1, 0),
		errStack:          make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef("parsing scene from %s", sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	r.sc.SetCamera(scene.NewCamera(
		r.opts.FrameW, r.opts.FrameH,
		r.camEye, r.camLook.Sub(r.camEye), r.camUp, r.camFOV,
	))
	r.sc.BgColor = r.opts.BgColor

	r.logger.Noticef("parsed %d triangles from %s in %d ms", len(r.sc.Shapes), sceneRes.Name(), time.Since(start).Nanoseconds()/1000000)
	return r.sc, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return fmt.Errorf("%s", errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Get the selected material or create a default one for surfaces not using one.
func (r *wavefrontSceneReader) material() *scene.Material {
	if r.curMaterial == nil {
		r.curMaterial = &scene.Material{Type: r.opts.MaterialType, Diffuse: defaultColor}
	}
	return r.curMaterial
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	scanner := bufio.NewScanner(res)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for '%s'; expected 1 argument; got %d", lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for 'usemtl'; expected 1 argument; got %d", len(lineTokens)-1)
			}

			matName := lineTokens[1]
			mat, exists := r.matNameToMaterial[matName]
			if !exists {
				return r.emitError(res.Path(), lineNum, "undefined material with name '%s'", matName)
			}
			r.curMaterial = mat
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "f":
			tris, err := r.parseFace(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			for _, tri := range tris {
				if err = r.sc.Add(tri); err != nil {
					return r.emitError(res.Path(), lineNum, "%s", err.Error())
				}
			}
		case "camera_fov":
			r.camFOV, err = parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_eye":
			r.camEye, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_look":
			r.camLook, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_up":
			r.camUp, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		default:
			// Normals, uv coords, groups and smoothing groups do not
			// affect the rendered image.
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	return nil
}

// Parse face definition. Each face definition consists of 3 or more
// vertex arguments. Each one of the vertex arguments is comprised of
// 1, 2 or 3 indices separated by a slash character. The following formats
// are supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex list. Only the vertex index is used.
//
// Faces with more than 3 vertices are split into a triangle fan.
func (r *wavefrontSceneReader) parseFace(lineTokens []string) ([]*scene.Triangle, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf("unsupported syntax for 'f'; expected at least 3 arguments; got %d", len(lineTokens)-1)
	}

	vertices := make([]types.Vec3, len(lineTokens)-1)
	expIndices := 0
	for arg := range vertices {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]
	}

	mat := r.material()
	tris := make([]*scene.Triangle, 0, len(vertices)-2)
	for index := 1; index < len(vertices)-1; index++ {
		tris = append(tris, scene.NewTriangle(vertices[0], vertices[index], vertices[index+1], mat))
	}
	return tris, nil
}

// Parse a wavefront material library. Only the diffuse color of each
// material is used.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	scanner := bufio.NewScanner(res)

	var curMaterial *scene.Material

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for 'newmtl'; expected 1 argument; got %d", len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if _, exists := r.matNameToMaterial[matName]; exists {
				return r.emitError(res.Path(), lineNum, "material '%s' already defined", matName)
			}

			curMaterial = &scene.Material{Type: r.opts.MaterialType, Diffuse: defaultColor}
			r.matNameToMaterial[matName] = curMaterial
		case "Kd":
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, "got '%s' without a 'newmtl'", lineTokens[0])
			}

			curMaterial.Diffuse, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, "got '%s' without a 'newmtl'", lineTokens[0])
			}
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = int(index - 1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf("unsupported syntax for '%s'; expected 1 argument; got %d", lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
