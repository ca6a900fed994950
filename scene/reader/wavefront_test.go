package reader

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/Jacobs-University/eyden-tracer-03/asset"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

func TestFloat32Parser(t *testing.T) {
	expError := "unsupported syntax for 'v'; expected 1 argument; got 0"
	_, err := parseFloat32([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseFloat32([]string{"v", "not-a-float"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseFloat32([]string{"v", "3.14"})
	if err != nil {
		t.Fatal(err)
	}

	if v != 3.14 {
		t.Fatalf("expected parsed value to be 3.14; got %f", v)
	}
}

func TestVec3Parser(t *testing.T) {
	expError := "unsupported syntax for 'v'; expected 3 arguments; got 0"
	_, err := parseVec3([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}

	expVal := types.Vec3{3.14, 0, 0.4}
	if !reflect.DeepEqual(v, expVal) {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, v)
	}
}

func TestSelectFaceCoordinate(t *testing.T) {
	expError := "index out of bounds"
	type spec struct {
		in       string
		listLen  int
		out      int
		expError string
	}
	specs := []spec{
		{"2", 1, -1, expError},
		{"-2", 1, -1, expError},
		{"0", 1, -1, expError},
		{"1", 10, 0, ""}, // indices are 1-based
		{"-1", 10, 9, ""},
	}

	for idx, s := range specs {
		v, err := selectFaceCoordIndex(s.in, s.listLen)
		if s.expError != "" && (err == nil || err.Error() != s.expError) {
			t.Fatalf("[spec %d] expected error %s; got %v", idx, s.expError, err)
		} else if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestParseSingleFacedObject(t *testing.T) {
	payload := `
o testObj
v 0 0 0
v 1 0 0
v 0 1 0
vn 1 0 0
vt 0 0
vn 0 1 0
vt 0 1
vn 0 0 1
vt 1 0
# Comment
f 1/1/1 2/2/2 -1/-1/-1
`

	r := newWavefrontReader(DefaultOptions())
	err := r.parse(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.sc.Shapes) != 1 {
		t.Fatalf("expected 1 triangle to be parsed; got %d", len(r.sc.Shapes))
	}

	tri := r.sc.Shapes[0].(*scene.Triangle)
	expPoints := [3]types.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	if tri.V != expPoints {
		t.Fatalf("expected triangle vertices to be %v; got %v", expPoints, tri.V)
	}

	mat := tri.Material()
	if mat.Type != scene.EyelightMaterial || mat.Diffuse != defaultColor {
		t.Fatalf("expected default eyelight material; got %+v", mat)
	}
}

func TestPolygonFaceTriangulation(t *testing.T) {
	payload := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 2 0
f 1 2 3 4 5
f -5//1 -4//1 -3//1
`

	r := newWavefrontReader(DefaultOptions())
	err := r.parse(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.sc.Shapes) != 4 {
		t.Fatalf("expected 4 triangles to be parsed; got %d", len(r.sc.Shapes))
	}

	v := r.vertexList
	expTris := [][3]types.Vec3{
		{v[0], v[1], v[2]},
		{v[0], v[2], v[3]},
		{v[0], v[3], v[4]},
		{v[0], v[1], v[2]},
	}
	for index, exp := range expTris {
		if got := r.sc.Shapes[index].(*scene.Triangle).V; got != exp {
			t.Fatalf("expected triangle %d to be %v; got %v", index, exp, got)
		}
	}

	// All faces share the default material
	if r.sc.Shapes[0].Material() != r.sc.Shapes[3].Material() {
		t.Fatal("expected faces without a usemtl directive to share the default material")
	}
}

func TestFaceErrors(t *testing.T) {
	type spec struct {
		payload  string
		expError string
	}
	specs := []spec{
		{
			"v 0 0 0\nv 1 0 0\nf 1 2 3",
			"[embedded: 3] error: could not parse vertex coord for face argument 2: index out of bounds",
		},
		{
			"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2 3",
			"[embedded: 4] error: expected each face argument to contain 2 indices; arg 1 contains 1 indices",
		},
		{
			"v 0 0 0\nf 1 1",
			"[embedded: 2] error: unsupported syntax for 'f'; expected at least 3 arguments; got 2",
		},
		{
			"v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3",
			"[embedded: 4] error: face argument 0 does not include a vertex index",
		},
		{
			"v 0 0",
			"[embedded: 1] error: unsupported syntax for 'v'; expected 3 arguments; got 2",
		},
		{
			"usemtl missing",
			"[embedded: 1] error: undefined material with name 'missing'",
		},
	}

	for index, s := range specs {
		err := newWavefrontReader(DefaultOptions()).parse(mockResource(s.payload))
		if err == nil || err.Error() != s.expError {
			t.Fatalf("[spec %d] expected to get error: %s; got %v", index, s.expError, err)
		}
	}
}

func TestCameraDirectives(t *testing.T) {
	payload := `
camera_fov 45
camera_eye 0 3.5 -13
camera_look 0 3.5 -12
camera_up 0 1 0
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

	opts := DefaultOptions()
	opts.FrameW, opts.FrameH = 320, 240
	opts.BgColor = types.XYZ(0.1, 0.2, 0.3)
	sc, err := newWavefrontReader(opts).Read(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	cam := sc.Camera
	if cam.FOV != 45 || cam.Position != types.XYZ(0, 3.5, -13) || cam.Direction != types.XYZ(0, 0, 1) || cam.Up != types.XYZ(0, 1, 0) {
		t.Fatalf("unexpected camera settings: %s", cam)
	}
	if cam.Width != 320 || cam.Height != 240 {
		t.Fatalf("expected camera resolution 320x240; got %dx%d", cam.Width, cam.Height)
	}
	if sc.BgColor != opts.BgColor {
		t.Fatalf("expected background color %v; got %v", opts.BgColor, sc.BgColor)
	}
}

func TestMaterialLoaderMissingNewMaterialCommand(t *testing.T) {
	payload := `Kd 1.0 1.0 1.0`
	err := newWavefrontReader(DefaultOptions()).parseMaterials(mockResource(payload))

	expError := "[embedded: 1] error: got 'Kd' without a 'newmtl'"
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func TestMaterialLoaderInvalidVec3Param(t *testing.T) {
	payload := `
	newmtl foo
	Kd 1.0`
	err := newWavefrontReader(DefaultOptions()).parseMaterials(mockResource(payload))

	expError := "[embedded: 3] error: unsupported syntax for 'Kd'; expected 3 arguments; got 1"
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func TestMaterialLoaderDuplicateMaterial(t *testing.T) {
	payload := `
newmtl foo
newmtl foo`
	err := newWavefrontReader(DefaultOptions()).parseMaterials(mockResource(payload))

	expError := "[embedded: 3] error: material 'foo' already defined"
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func TestMaterialLoaderSuccess(t *testing.T) {
	payload := `
	# comment
	newmtl foo
	Kd 1.0 0.5 0.25
	Ks 0.1 0.2 0.3
	Ni 2.5`

	opts := DefaultOptions()
	opts.MaterialType = scene.FlatMaterial
	r := newWavefrontReader(opts)
	err := r.parseMaterials(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.matNameToMaterial) != 1 {
		t.Fatalf("expected to parse 1 material; got %d", len(r.matNameToMaterial))
	}

	mat := r.matNameToMaterial["foo"]
	expVec3 := types.Vec3{1, 0.5, 0.25}
	if mat == nil || mat.Diffuse != expVec3 || mat.Type != scene.FlatMaterial {
		t.Fatalf("expected flat material with color %v; got %+v", expVec3, mat)
	}
}

func TestRemoteSceneWithIncludes(t *testing.T) {
	files := map[string]string{
		"/models/scene.obj": `
mtllib lib/colors.mtl
call part.obj
usemtl red
f 1 2 3
`,
		"/models/lib/colors.mtl": `
newmtl red
Kd 1 0 0
`,
		"/models/part.obj": `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, exists := files[r.URL.Path]
		if !exists {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(payload))
	}))
	defer server.Close()

	sc, err := ReadScene(server.URL+"/models/scene.obj", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Shapes) != 2 {
		t.Fatalf("expected 2 triangles; got %d", len(sc.Shapes))
	}
	if color := sc.Shapes[0].Material().Diffuse; color != defaultColor {
		t.Fatalf("expected included face to use the default material; got %v", color)
	}
	if color := sc.Shapes[1].Material().Diffuse; color != types.XYZ(1, 0, 0) {
		t.Fatalf("expected second face to use the red material; got %v", color)
	}
}

func TestIncludeErrorStack(t *testing.T) {
	payload := `
v 0 0 0
call /path/to/missing.obj
`
	err := newWavefrontReader(DefaultOptions()).parse(mockResource(payload))
	if err == nil || !strings.HasPrefix(err.Error(), "[embedded: 3] error: open /path/to/missing.obj") {
		t.Fatalf("expected a file-not-found error; got %v", err)
	}
	if !strings.Contains(err.Error(), "referenced from embedded:3 [call]") {
		t.Fatalf("expected error to include the include stack; got %v", err)
	}
}

func TestUnsupportedSceneExtension(t *testing.T) {
	_, err := Read(asset.NewResourceFromStream("scene.ply", strings.NewReader("")), DefaultOptions())
	expError := `reader: unsupported file extension ".ply" for scene.ply`
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func mockResource(payload string) *asset.Resource {
	return asset.NewResourceFromStream("embedded", strings.NewReader(payload))
}
