package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color seen along a ray. Implementations must not
	// mutate the scene; the renderer calls RayColor from many goroutines at once.
	RayColor(ray core.Ray, scene *scene.Scene) core.Vec3
}

// DepthIntegrator is an Integrator that can also report the distance to the
// primary hit from the same trace, so depth buffers cost no extra intersection.
type DepthIntegrator interface {
	Integrator
	// RayColorDepth returns the color along the ray and the distance from the
	// ray origin to the nearest visible hit; ok is false on a miss.
	RayColorDepth(ray core.Ray, scene *scene.Scene) (color core.Vec3, depth float64, ok bool)
}
