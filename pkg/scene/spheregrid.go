package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// SphereGridSize is the number of spheres along each side of the grid scene
const SphereGridSize = 10

// hueToRGB converts a hue in degrees to a saturated RGB color
func hueToRGB(h float64) core.Vec3 {
	channel := func(offset float64) float64 {
		k := math.Mod(offset+h/60, 6)
		return 1 - math.Max(0, math.Min(1, math.Min(k, 4-k)))
	}
	return core.NewVec3(channel(5), channel(3), channel(1))
}

// NewSphereGridScene creates an n×n grid of small spheres, useful for stressing the BVH.
// Alternate rows use the step shader.
func NewSphereGridScene(width, height int) *Scene {
	n := SphereGridSize
	centre := float64(n-1) / 2

	camera, _ := geometry.NewCameraFromConfig(geometry.CameraConfig{
		From:   core.NewVec3(centre, 7, -8),
		To:     core.NewVec3(centre, 0, centre),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		FOV:    math.Pi / 3,
	})

	s := NewScene(camera, lights.NewWhiteLight(core.NewVec3(centre-10, 15, -10)))

	floor := geometry.NewPlane()
	mustTransform(floor.SetTransform(core.Translation(0, -0.4, 0)))
	floor.Material = material.NewMaterial(core.NewVec3(0.8, 0.8, 0.8))
	floor.Material.Specular = 0
	s.AddShape(floor)

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			sphere := geometry.NewSphere()
			mustTransform(sphere.SetTransform(core.Translation(float64(col), 0, float64(row)).Multiply(core.Scaling(0.4, 0.4, 0.4))))

			hue := float64(row*n+col) / float64(n*n) * 360
			sphere.Material = material.NewMaterial(hueToRGB(hue))
			if row%2 == 1 {
				sphere.Material.Shader = material.ShaderStep
			}
			if (row+col)%7 == 0 {
				sphere.Material.Reflective = 0.5
			}
			s.AddShape(sphere)
		}
	}

	return s
}
