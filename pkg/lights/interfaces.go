package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint LightType = "point"
)

// Light is a source that can be sampled for direct lighting from a shading point
type Light interface {
	Type() LightType

	// Sample returns the direction FROM the shading point TO the light
	Sample(point core.Vec3) LightSample
}

// LightSample contains information about the light as seen from a shading point
type LightSample struct {
	Point     core.Vec3 // Position of the light
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light
	Emission  core.Vec3 // Light color
}
