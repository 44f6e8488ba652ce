package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultDepthLimit bounds the number of reflection and refraction bounces
const DefaultDepthLimit = 8

// WhittedIntegrator implements recursive Whitted-style ray tracing with a
// single point light, mirror reflection and refraction
type WhittedIntegrator struct {
	DepthLimit int
}

// NewWhittedIntegrator creates an integrator. A negative limit selects DefaultDepthLimit.
func NewWhittedIntegrator(depthLimit int) *WhittedIntegrator {
	if depthLimit < 0 {
		depthLimit = DefaultDepthLimit
	}
	return &WhittedIntegrator{DepthLimit: depthLimit}
}

// RayColor computes the color for a single ray
func (w *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	return ColorForLimited(s, ray, w.DepthLimit)
}

// RayColorDepth computes the color for a single ray along with the distance
// to its primary hit
func (w *WhittedIntegrator) RayColorDepth(ray core.Ray, s *scene.Scene) (core.Vec3, float64, bool) {
	comps, ok := FindHit(s, ray)
	if !ok {
		return core.Vec3{}, 0, false
	}
	return shadeHit(s, comps, w.DepthLimit), comps.Point.Subtract(ray.Origin).Length(), true
}

// ColorFor traces a ray with the default depth limit
func ColorFor(s *scene.Scene, ray core.Ray) core.Vec3 {
	return ColorForLimited(s, ray, DefaultDepthLimit)
}

// ColorForLimited traces a ray allowing at most remaining further shading steps.
// A miss is black.
func ColorForLimited(s *scene.Scene, ray core.Ray, remaining int) core.Vec3 {
	comps, ok := FindHit(s, ray)
	if !ok {
		return core.Vec3{}
	}
	return shadeHit(s, comps, remaining)
}

func shadeHit(s *scene.Scene, comps Computations, remaining int) core.Vec3 {
	// Running out of depth is the normal end of a reflection chain
	if remaining <= 0 {
		return core.Vec3{}
	}

	m := comps.Shape.Material
	surface := material.Lighting(m, material.LightingInput{
		Light:    s.Light,
		Color:    comps.Shape.ColorAt(comps.OverPoint),
		Point:    comps.OverPoint,
		Eye:      comps.Eye,
		Normal:   comps.Normal,
		InShadow: s.IsInShadow(comps.OverPoint),
	})

	reflected := reflectedColor(s, comps, remaining)
	refracted := refractedColor(s, comps, remaining)

	if m.IsReflective() && m.IsTransparent() {
		reflectance := material.Schlick(comps.Eye, comps.Normal, comps.N1, comps.N2)
		return surface.
			Add(reflected.Multiply(reflectance)).
			Add(refracted.Multiply(1 - reflectance))
	}
	return surface.Add(reflected).Add(refracted)
}

func reflectedColor(s *scene.Scene, comps Computations, remaining int) core.Vec3 {
	m := comps.Shape.Material
	if !m.IsReflective() {
		return core.Vec3{}
	}
	ray := core.NewRay(comps.OverPoint, comps.ReflectV)
	return ColorForLimited(s, ray, remaining-1).Multiply(m.Reflective)
}

func refractedColor(s *scene.Scene, comps Computations, remaining int) core.Vec3 {
	m := comps.Shape.Material
	if !m.IsTransparent() {
		return core.Vec3{}
	}

	direction, ok := material.Refract(comps.Eye, comps.Normal, comps.N1, comps.N2)
	if !ok {
		return core.Vec3{} // total internal reflection
	}
	ray := core.NewRay(comps.UnderPoint, direction)
	return ColorForLimited(s, ray, remaining-1).Multiply(m.Transparency)
}
