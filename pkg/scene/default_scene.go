package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the reference two-sphere world standing on a checkered floor
func NewDefaultScene(width, height int) *Scene {
	camera, _ := geometry.NewCameraFromConfig(geometry.CameraConfig{
		From:   core.NewVec3(0, 1.5, -5),
		To:     core.NewVec3(0, 0.5, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		FOV:    math.Pi / 3,
	})

	s := NewDefaultWorld(camera)

	floor := geometry.NewPlane()
	mustTransform(floor.SetTransform(core.Translation(0, -1, 0)))
	floor.Material = material.NewMaterial(core.NewVec3(1, 1, 1))
	floor.Material.Pattern = material.NewPattern(material.PatternCheckered,
		core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.2, 0.25, 0.3))
	floor.Material.Specular = 0
	floor.Material.Reflective = 0.1
	s.AddShape(floor)

	accent := geometry.NewSphere()
	mustTransform(accent.SetTransform(core.Translation(1.8, -0.4, -0.6).Multiply(core.Scaling(0.6, 0.6, 0.6))))
	accent.Material = material.NewMaterial(core.NewVec3(0.9, 0.3, 0.2))
	accent.Material.Pattern = material.NewPattern(material.PatternStriped,
		core.NewVec3(0.9, 0.3, 0.2), core.NewVec3(1, 0.8, 0.2))
	mustTransform(accent.Material.Pattern.SetTransform(core.Scaling(0.25, 0.25, 0.25).Multiply(core.RotationZ(math.Pi / 4))))
	s.AddShape(accent)

	return s
}
