package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// LightingInput is the geometry of a single shading evaluation
type LightingInput struct {
	Light    lights.Light
	Color    core.Vec3 // Surface color at the point, already resolved from the pattern
	Point    core.Vec3
	Eye      core.Vec3 // Unit vector toward the viewer
	Normal   core.Vec3 // Unit normal facing the viewer
	InShadow bool
}

// Lighting evaluates the material's local illumination model.
// Ambient always contributes; diffuse and specular vanish in shadow or when the light is behind the surface.
func Lighting(m Material, in LightingInput) core.Vec3 {
	sample := in.Light.Sample(in.Point)
	effective := in.Color.MultiplyVec(sample.Emission)
	ambient := effective.Multiply(m.Ambient)

	if in.InShadow {
		return ambient
	}

	lightDotNormal := sample.Direction.Dot(in.Normal)
	if lightDotNormal < 0 {
		return ambient
	}

	reflectDotEye := sample.Direction.Negate().Reflect(in.Normal).Dot(in.Eye)

	switch m.Shader {
	case ShaderStep:
		return ambient.
			Add(effective.Multiply(m.Diffuse * stepBand(lightDotNormal, m.StepWidth))).
			Add(sample.Emission.Multiply(m.Specular * stepHighlight(reflectDotEye, m.Shininess)))
	default:
		diffuse := effective.Multiply(m.Diffuse * lightDotNormal)
		var specular core.Vec3
		if reflectDotEye > 0 {
			specular = sample.Emission.Multiply(m.Specular * math.Pow(reflectDotEye, m.Shininess))
		}
		return ambient.Add(diffuse).Add(specular)
	}
}

// stepBand quantizes a cosine term up to the next multiple of width
func stepBand(cosine, width float64) float64 {
	if width <= 0 || width >= 1 {
		if cosine > 0 {
			return 1
		}
		return 0
	}
	return math.Min(1, math.Ceil(cosine/width)*width)
}

// stepHighlight is a hard-edged specular spot
func stepHighlight(reflectDotEye, shininess float64) float64 {
	if reflectDotEye <= 0 {
		return 0
	}
	if math.Pow(reflectDotEye, shininess) > 0.5 {
		return 1
	}
	return 0
}
