package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Inside       bool                   `json:"inside"`
	N1           float64                `json:"n1"`
	N2           float64                `json:"n2"`
	Color        [3]float64             `json:"color"` // Shaded color of the pixel
	Properties   map[string]interface{} `json:"properties"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(v core.Vec3) string {
	v = v.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(v.X*255), int(v.Y*255), int(v.Z*255))
}

// materialType names the dominant behaviour of a material
func materialType(mat material.Material) string {
	switch {
	case mat.IsTransparent() && mat.IsReflective():
		return "glass"
	case mat.IsTransparent():
		return "transparent"
	case mat.IsReflective():
		return "reflective"
	default:
		return mat.Shader.String()
	}
}

// extractMaterialInfo extracts the lighting coefficients and pattern of a material
func (s *Server) extractMaterialInfo(mat material.Material, point core.Vec3, shape *geometry.Shape) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"shader":          mat.Shader.String(),
		"ambient":         mat.Ambient,
		"diffuse":         mat.Diffuse,
		"specular":        mat.Specular,
		"shininess":       mat.Shininess,
		"reflective":      mat.Reflective,
		"refractiveIndex": mat.RefractiveIndex,
		"transparency":    mat.Transparency,
		"pattern":         mat.Pattern.Kind.String(),
		"color":           hexColor(shape.ColorAt(point)),
	}
	if mat.Shader == material.ShaderStep {
		properties["stepWidth"] = mat.StepWidth
	}
	if mat.Pattern.Kind != material.PatternSolid {
		properties["colorA"] = hexColor(mat.Pattern.A)
		properties["colorB"] = hexColor(mat.Pattern.B)
	}
	return materialType(mat), properties
}

// extractGeometryInfo extracts the transform and extent of a shape
func (s *Server) extractGeometryInfo(shape *geometry.Shape) (string, map[string]interface{}) {
	m := shape.Transform()
	rows := make([][4]float64, 4)
	for i := range rows {
		rows[i] = m[i]
	}
	properties := map[string]interface{}{
		"transform": rows,
	}

	if vertices, ok := shape.Vertices(); ok {
		properties["vertices"] = [][3]float64{vec(vertices[0]), vec(vertices[1]), vec(vertices[2])}
	}

	bbox := geometry.ShapeBounds(shape)
	if !bbox.IsInfinite() {
		properties["boundingBox"] = map[string]interface{}{
			"min": vec(bbox.Min),
			"max": vec(bbox.Max),
		}
	}
	return shape.Kind().String(), properties
}

// inspectPixel casts the primary ray of a pixel and prepares the nearest hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (integrator.Computations, core.Vec3, bool) {
	ray := sceneObj.Camera.RayForPixel(pixelX, pixelY)
	comps, ok := integrator.FindHit(sceneObj, ray)
	if !ok {
		return comps, core.Vec3{}, false
	}
	return comps, integrator.ColorFor(sceneObj, ray), true
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq, err := s.parseSceneParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	values := r.URL.Query()
	pixelX, err := parseIntParam(values, "x", -1, 0, s.config.MaxWidth-1)
	if err != nil || pixelX < 0 {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := parseIntParam(values, "y", -1, 0, s.config.MaxHeight-1)
	if err != nil || pixelY < 0 {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(inspectReq, core.NopLogger{})
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	// Scene files carry their own image size
	if pixelX >= sceneObj.Camera.Width() || pixelY >= sceneObj.Camera.Height() {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	comps, color, hit := inspectPixel(sceneObj, pixelX, pixelY)
	if !hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := s.extractMaterialInfo(comps.Shape.Material, comps.Point, comps.Shape)
	geometryType, geometryProps := s.extractGeometryInfo(comps.Shape)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec(comps.Point),
		Normal:       vec(comps.Normal),
		Distance:     comps.Point.Subtract(sceneObj.Camera.RayForPixel(pixelX, pixelY).Origin).Length(),
		Inside:       comps.Inside,
		N1:           comps.N1,
		N2:           comps.N2,
		Color:        vec(color),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
	writeJSON(w, http.StatusOK, response)
}
