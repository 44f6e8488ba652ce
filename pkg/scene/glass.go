package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewGlassScene creates a scene exercising reflection and refraction: a glass sphere
// with an air bubble, a mirror sphere and a patterned cube in front of a ringed wall
func NewGlassScene(width, height int) *Scene {
	camera, _ := geometry.NewCameraFromConfig(geometry.CameraConfig{
		From:   core.NewVec3(0, 2, -6),
		To:     core.NewVec3(0, 0.8, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		FOV:    math.Pi / 3,
	})

	s := NewScene(camera, lights.NewWhiteLight(core.NewVec3(-6, 8, -8)))

	floor := geometry.NewPlane()
	floor.Material = material.NewMaterial(core.NewVec3(1, 1, 1))
	floor.Material.Pattern = material.NewPattern(material.PatternCheckered,
		core.NewVec3(0.15, 0.15, 0.15), core.NewVec3(0.85, 0.85, 0.85))
	floor.Material.Reflective = 0.2
	s.AddShape(floor)

	wall := geometry.NewPlane()
	mustTransform(wall.SetTransform(core.Translation(0, 0, 6).Multiply(core.RotationX(math.Pi / 2))))
	wall.Material = material.NewMaterial(core.NewVec3(1, 1, 1))
	wall.Material.Pattern = material.NewPattern(material.PatternRinged,
		core.NewVec3(0.35, 0.45, 0.7), core.NewVec3(0.75, 0.8, 0.9))
	mustTransform(wall.Material.Pattern.SetTransform(core.Scaling(0.7, 0.7, 0.7)))
	wall.Material.Specular = 0
	s.AddShape(wall)

	glass := geometry.NewSphere()
	mustTransform(glass.SetTransform(core.Translation(0, 1, 0)))
	glass.Material = material.NewGlass(1.5)
	s.AddShape(glass)

	bubble := geometry.NewSphere()
	mustTransform(bubble.SetTransform(core.Translation(0, 1, 0).Multiply(core.Scaling(0.5, 0.5, 0.5))))
	bubble.Material = material.NewGlass(1.0000034)
	s.AddShape(bubble)

	mirror := geometry.NewSphere()
	mustTransform(mirror.SetTransform(core.Translation(-2.2, 0.7, 1.5).Multiply(core.Scaling(0.7, 0.7, 0.7))))
	mirror.Material = material.NewMirror()
	s.AddShape(mirror)

	cube := geometry.NewCube()
	mustTransform(cube.SetTransform(core.Translation(2.2, 0.6, 1).
		Multiply(core.RotationY(math.Pi / 5)).
		Multiply(core.Scaling(0.6, 0.6, 0.6))))
	cube.Material = material.NewMaterial(core.NewVec3(1, 1, 1))
	cube.Material.Pattern = material.NewPattern(material.PatternGradient,
		core.NewVec3(0.9, 0.2, 0.3), core.NewVec3(0.2, 0.3, 0.9))
	cube.Material.Reflective = 0.15
	s.AddShape(cube)

	return s
}
