package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCornellScene creates a Cornell-style box from planes, with a cube and a mirror sphere inside
func NewCornellScene(width, height int) *Scene {
	const boxSize = 5.0
	half := boxSize / 2

	camera, _ := geometry.NewCameraFromConfig(geometry.CameraConfig{
		From:   core.NewVec3(0, half, -9),
		To:     core.NewVec3(0, half, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		FOV:    math.Pi / 4,
	})

	s := NewScene(camera, lights.NewPointLight(core.NewVec3(0, boxSize-0.3, -0.5), core.NewVec3(1, 0.95, 0.9)))

	white := wallMaterial(core.NewVec3(0.73, 0.73, 0.73))
	red := wallMaterial(core.NewVec3(0.65, 0.05, 0.05))
	green := wallMaterial(core.NewVec3(0.12, 0.45, 0.15))

	// floor, ceiling, back, left, right
	addWall(s, core.Identity(), white)
	addWall(s, core.Translation(0, boxSize, 0), white)
	addWall(s, core.Translation(0, 0, half).Multiply(core.RotationX(math.Pi/2)), white)
	addWall(s, core.Translation(-half, 0, 0).Multiply(core.RotationZ(math.Pi/2)), red)
	addWall(s, core.Translation(half, 0, 0).Multiply(core.RotationZ(math.Pi/2)), green)

	box := geometry.NewCube()
	mustTransform(box.SetTransform(core.Translation(0.9, 1.2, 0.8).
		Multiply(core.RotationY(-math.Pi / 10)).
		Multiply(core.Scaling(0.7, 1.2, 0.7))))
	box.Material = wallMaterial(core.NewVec3(0.73, 0.73, 0.73))
	s.AddShape(box)

	ball := geometry.NewSphere()
	mustTransform(ball.SetTransform(core.Translation(-1, 0.8, -0.6).Multiply(core.Scaling(0.8, 0.8, 0.8))))
	ball.Material = material.NewMirror()
	s.AddShape(ball)

	return s
}

func wallMaterial(color core.Vec3) material.Material {
	m := material.NewMaterial(color)
	m.Ambient = 0.15
	m.Specular = 0
	return m
}

func addWall(s *Scene, transform core.Matrix4, m material.Material) {
	wall := geometry.NewPlane()
	mustTransform(wall.SetTransform(transform))
	wall.Material = m
	s.AddShape(wall)
}
