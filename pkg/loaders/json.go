package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var (
	// ErrMissingField is returned when a required scene-file field is absent
	ErrMissingField = errors.New("missing field")

	// ErrMalformedArray is returned when a vector or matrix has the wrong shape
	ErrMalformedArray = errors.New("malformed array")

	// ErrInvalidPath is returned when a referenced file escapes the scene directory
	ErrInvalidPath = errors.New("invalid path")
)

// SceneFile is the on-disk JSON layout of a scene
type SceneFile struct {
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Group       string      `json:"group,omitempty"`
	Camera      *CameraJSON `json:"camera"`
	Light       *LightJSON  `json:"light"`
	Shapes      []ShapeJSON `json:"shapes,omitempty"`
	Meshes      []MeshJSON  `json:"meshes,omitempty"`
}

// CameraJSON places the camera. FOV is in radians.
type CameraJSON struct {
	From   []float64 `json:"from"`
	To     []float64 `json:"to"`
	Up     []float64 `json:"up"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	FOV    float64   `json:"fov"`
}

// LightJSON is a point light
type LightJSON struct {
	Origin []float64 `json:"origin"`
	Color  []float64 `json:"color"`
}

// ShapeJSON is one primitive. Points is only read for triangles.
type ShapeJSON struct {
	Type      string        `json:"type"`
	Transform [][]float64   `json:"transform,omitempty"`
	Points    [][]float64   `json:"points,omitempty"`
	Material  *MaterialJSON `json:"material,omitempty"`
}

// MeshJSON references an OBJ file relative to the scene file
type MeshJSON struct {
	File      string        `json:"file"`
	Transform [][]float64   `json:"transform,omitempty"`
	Material  *MaterialJSON `json:"material,omitempty"`
}

// MaterialJSON overrides material defaults; omitted fields keep the defaults of material.NewMaterial
type MaterialJSON struct {
	Pattern         *PatternJSON `json:"pattern,omitempty"`
	Ambient         *float64     `json:"ambient,omitempty"`
	Diffuse         *float64     `json:"diffuse,omitempty"`
	Specular        *float64     `json:"specular,omitempty"`
	Shininess       *float64     `json:"shininess,omitempty"`
	General         *float64     `json:"general,omitempty"`
	RefractiveIndex *float64     `json:"refractive_index,omitempty"`
	Transparency    *float64     `json:"transparency,omitempty"`
	Shader          string       `json:"shader,omitempty"`
	StepWidth       *float64     `json:"step_width,omitempty"`
}

// PatternJSON describes a two-color pattern
type PatternJSON struct {
	Type      string      `json:"type"`
	ColorA    []float64   `json:"color_a"`
	ColorB    []float64   `json:"color_b,omitempty"`
	Transform [][]float64 `json:"transform,omitempty"`
}

// ReadScene loads a JSON scene file. Meshes are resolved relative to the file's directory.
func ReadScene(path string, logger core.Logger) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file, filepath.Dir(path), logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScene decodes a scene from r. Unknown tags and malformed arrays are errors;
// singular transforms are rectified and reported through logger.
func ParseScene(r io.Reader, baseDir string, logger core.Logger) (*scene.Scene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	var file SceneFile
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	camera, err := buildCamera(file.Camera, logger)
	if err != nil {
		return nil, err
	}
	light, err := buildLight(file.Light)
	if err != nil {
		return nil, err
	}

	s := scene.NewScene(camera, light)

	for i, sj := range file.Shapes {
		shape, err := buildShape(sj, logger)
		if err != nil {
			return nil, fmt.Errorf("shapes[%d]: %w", i, err)
		}
		s.AddShape(shape)
	}

	for i, mj := range file.Meshes {
		tree, err := buildMesh(mj, baseDir, logger)
		if err != nil {
			return nil, fmt.Errorf("meshes[%d]: %w", i, err)
		}
		s.AddTree(tree)
	}

	return s, nil
}

func buildCamera(cj *CameraJSON, logger core.Logger) (*geometry.Camera, error) {
	if cj == nil {
		return nil, fmt.Errorf("%w: camera", ErrMissingField)
	}
	if cj.Width <= 0 || cj.Height <= 0 {
		return nil, fmt.Errorf("camera: width and height must be positive, got %dx%d", cj.Width, cj.Height)
	}
	if cj.FOV <= 0 {
		return nil, fmt.Errorf("%w: camera.fov", ErrMissingField)
	}

	from, err := parseVec3(cj.From, "camera.from")
	if err != nil {
		return nil, err
	}
	to, err := parseVec3(cj.To, "camera.to")
	if err != nil {
		return nil, err
	}
	up, err := parseVec3(cj.Up, "camera.up")
	if err != nil {
		return nil, err
	}

	camera, err := geometry.NewCameraFromConfig(geometry.CameraConfig{
		From:   from,
		To:     to,
		Up:     up,
		Width:  cj.Width,
		Height: cj.Height,
		FOV:    cj.FOV,
	})
	if err != nil {
		logger.Printf("Warning: %v (rectified)\n", err)
	}
	return camera, nil
}

func buildLight(lj *LightJSON) (lights.PointLight, error) {
	if lj == nil {
		return lights.PointLight{}, fmt.Errorf("%w: light", ErrMissingField)
	}
	origin, err := parseVec3(lj.Origin, "light.origin")
	if err != nil {
		return lights.PointLight{}, err
	}
	color, err := parseVec3(lj.Color, "light.color")
	if err != nil {
		return lights.PointLight{}, err
	}
	return lights.NewPointLight(origin, color), nil
}

func buildShape(sj ShapeJSON, logger core.Logger) (*geometry.Shape, error) {
	if sj.Type == "" {
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	}
	kind, err := geometry.ParseKind(sj.Type)
	if err != nil {
		return nil, err
	}

	var shape *geometry.Shape
	switch kind {
	case geometry.KindSphere:
		shape = geometry.NewSphere()
	case geometry.KindPlane:
		shape = geometry.NewPlane()
	case geometry.KindCube:
		shape = geometry.NewCube()
	case geometry.KindTriangle:
		if len(sj.Points) != 3 {
			return nil, fmt.Errorf("%w: triangle needs 3 points, got %d", ErrMalformedArray, len(sj.Points))
		}
		var p [3]core.Vec3
		for i := range p {
			if p[i], err = parseVec3(sj.Points[i], fmt.Sprintf("points[%d]", i)); err != nil {
				return nil, err
			}
		}
		if geometry.IsDegenerateTriangle(p[0], p[1], p[2]) {
			return nil, fmt.Errorf("triangle points are collinear")
		}
		shape = geometry.NewTriangle(p[0], p[1], p[2])
	}

	if sj.Transform != nil {
		m, err := parseMatrix(sj.Transform, "transform")
		if err != nil {
			return nil, err
		}
		if err := shape.SetTransform(m); err != nil {
			logger.Printf("Warning: %v (rectified)\n", err)
		}
	}

	if sj.Material != nil {
		mat, err := buildMaterial(*sj.Material, logger)
		if err != nil {
			return nil, err
		}
		shape.Material = mat
	}

	return shape, nil
}

func buildMaterial(mj MaterialJSON, logger core.Logger) (material.Material, error) {
	mat := material.NewMaterial(core.NewVec3(1, 1, 1))

	if mj.Pattern != nil {
		pattern, err := buildPattern(*mj.Pattern, logger)
		if err != nil {
			return mat, err
		}
		mat.Pattern = pattern
	}

	shader, err := material.ParseShader(mj.Shader)
	if err != nil {
		return mat, err
	}
	mat.Shader = shader

	setFloat(&mat.Ambient, mj.Ambient)
	setFloat(&mat.Diffuse, mj.Diffuse)
	setFloat(&mat.Specular, mj.Specular)
	setFloat(&mat.Shininess, mj.Shininess)
	setFloat(&mat.Reflective, mj.General)
	setFloat(&mat.RefractiveIndex, mj.RefractiveIndex)
	setFloat(&mat.Transparency, mj.Transparency)
	setFloat(&mat.StepWidth, mj.StepWidth)

	return mat, nil
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func buildPattern(pj PatternJSON, logger core.Logger) (material.Pattern, error) {
	kind := material.PatternSolid
	if pj.Type != "" {
		var err error
		if kind, err = material.ParsePatternKind(pj.Type); err != nil {
			return material.Pattern{}, err
		}
	}

	a, err := parseVec3(pj.ColorA, "pattern.color_a")
	if err != nil {
		return material.Pattern{}, err
	}
	b := a
	if pj.ColorB != nil {
		if b, err = parseVec3(pj.ColorB, "pattern.color_b"); err != nil {
			return material.Pattern{}, err
		}
	}

	pattern := material.NewPattern(kind, a, b)
	if pj.Transform != nil {
		m, err := parseMatrix(pj.Transform, "pattern.transform")
		if err != nil {
			return material.Pattern{}, err
		}
		if err := pattern.SetTransform(m); err != nil {
			logger.Printf("Warning: %v (rectified)\n", err)
		}
	}
	return pattern, nil
}

func buildMesh(mj MeshJSON, baseDir string, logger core.Logger) (*scene.Tree, error) {
	path, err := resolveMeshPath(baseDir, mj.File)
	if err != nil {
		return nil, err
	}

	tree, err := ReadObj(path, logger)
	if err != nil {
		return nil, err
	}

	if mj.Material != nil {
		mat, err := buildMaterial(*mj.Material, logger)
		if err != nil {
			return nil, err
		}
		tree.PropagateMaterial(mat)
	}

	if mj.Transform != nil {
		m, err := parseMatrix(mj.Transform, "transform")
		if err != nil {
			return nil, err
		}
		if err := tree.PropagateTransform(m); err != nil {
			logger.Printf("Warning: mesh %s: %v (rectified)\n", mj.File, err)
		}
	}

	return tree, nil
}

// resolveMeshPath joins a mesh reference onto the scene directory, refusing
// absolute paths and references that climb out of it
func resolveMeshPath(baseDir, file string) (string, error) {
	if file == "" {
		return "", fmt.Errorf("%w: file", ErrMissingField)
	}
	if strings.Contains(file, "\x00") {
		return "", fmt.Errorf("%w: null bytes not allowed", ErrInvalidPath)
	}
	if filepath.IsAbs(file) {
		return "", fmt.Errorf("%w: %q must be relative to the scene file", ErrInvalidPath, file)
	}

	clean := filepath.Clean(file)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q leaves the scene directory", ErrInvalidPath, file)
	}
	if !strings.EqualFold(filepath.Ext(clean), ".obj") {
		return "", fmt.Errorf("%w: only .obj meshes are supported, got %q", ErrInvalidPath, file)
	}
	return filepath.Join(baseDir, clean), nil
}

func parseVec3(values []float64, field string) (core.Vec3, error) {
	if values == nil {
		return core.Vec3{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s: expected 3 values, got %d", ErrMalformedArray, field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func parseMatrix(rows [][]float64, field string) (core.Matrix4, error) {
	var m core.Matrix4
	if len(rows) != 4 {
		return m, fmt.Errorf("%w: %s: expected 4 rows, got %d", ErrMalformedArray, field, len(rows))
	}
	for i, row := range rows {
		if len(row) != 4 {
			return m, fmt.Errorf("%w: %s: row %d has %d values, expected 4", ErrMalformedArray, field, i, len(row))
		}
		copy(m[i][:], row)
	}
	return m, nil
}
