package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// PointLight is an infinitesimal light at Origin with no falloff
type PointLight struct {
	Origin core.Vec3
	Color  core.Vec3
}

// NewPointLight creates a point light
func NewPointLight(origin, color core.Vec3) PointLight {
	return PointLight{Origin: origin, Color: color}
}

// NewWhiteLight creates a point light with unit intensity in every channel
func NewWhiteLight(origin core.Vec3) PointLight {
	return NewPointLight(origin, core.NewVec3(1, 1, 1))
}

func (pl PointLight) Type() LightType {
	return LightTypePoint
}

func (pl PointLight) Sample(point core.Vec3) LightSample {
	toLight := pl.Origin.Subtract(point)
	distance := toLight.Length()
	return LightSample{
		Point:     pl.Origin,
		Direction: toLight.Normalize(),
		Distance:  distance,
		Emission:  pl.Color,
	}
}
