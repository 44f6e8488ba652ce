package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrUnknownShader is returned when a shader tag is not recognised
var ErrUnknownShader = errors.New("unknown shader")

// Shader selects the local illumination model
type Shader int

const (
	ShaderPhong Shader = iota
	ShaderStep
)

func (s Shader) String() string {
	switch s {
	case ShaderPhong:
		return "phong"
	case ShaderStep:
		return "step"
	default:
		return fmt.Sprintf("Shader(%d)", int(s))
	}
}

// ParseShader maps a scene-file tag onto a Shader. An empty tag means phong.
func ParseShader(name string) (Shader, error) {
	switch name {
	case "", "phong":
		return ShaderPhong, nil
	case "step":
		return ShaderStep, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownShader, name)
	}
}

// Material describes how a surface responds to light
type Material struct {
	Pattern         Pattern
	Ambient         float64 // Ambient reflection coefficient
	Diffuse         float64 // Diffuse reflection coefficient
	Specular        float64 // Specular reflection coefficient
	Shininess       float64 // Specular exponent
	Reflective      float64 // General (mirror) reflection coefficient
	RefractiveIndex float64
	Transparency    float64
	Shader          Shader
	StepWidth       float64 // Band width for the step shader
}

// NewMaterial creates a material with default coefficients and a solid color
func NewMaterial(color core.Vec3) Material {
	return Material{
		Pattern:         NewSolidPattern(color),
		Ambient:         0.1,
		Diffuse:         0.9,
		Specular:        0.9,
		Shininess:       200,
		RefractiveIndex: 1.0,
		Shader:          ShaderPhong,
		StepWidth:       0.25,
	}
}

// NewGlass creates a clear, fully transparent and reflective material
func NewGlass(refractiveIndex float64) Material {
	m := NewMaterial(core.NewVec3(0.05, 0.05, 0.05))
	m.Diffuse = 0.1
	m.Specular = 1.0
	m.Shininess = 300
	m.Reflective = 0.9
	m.Transparency = 0.9
	m.RefractiveIndex = refractiveIndex
	return m
}

// NewMirror creates a dark, strongly reflective material
func NewMirror() Material {
	m := NewMaterial(core.NewVec3(0.1, 0.1, 0.1))
	m.Diffuse = 0.2
	m.Specular = 1.0
	m.Shininess = 300
	m.Reflective = 0.9
	return m
}

// IsReflective reports whether the material spawns reflection rays
func (m Material) IsReflective() bool {
	return m.Reflective != 0
}

// IsTransparent reports whether the material spawns refraction rays
func (m Material) IsTransparent() bool {
	return m.Transparency != 0
}
