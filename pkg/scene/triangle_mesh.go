package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewPyramidScene creates a scene of triangle meshes: a pyramid and an icosahedron,
// each grafted into the scene as its own subtree
func NewPyramidScene(width, height int) *Scene {
	camera, _ := geometry.NewCameraFromConfig(geometry.CameraConfig{
		From:   core.NewVec3(0, 2.5, -6),
		To:     core.NewVec3(0, 0.8, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		FOV:    math.Pi / 3,
	})

	s := NewScene(camera, lights.NewWhiteLight(core.NewVec3(-5, 10, -8)))

	ground := geometry.NewPlane()
	ground.Material = material.NewMaterial(core.NewVec3(1, 1, 1))
	ground.Material.Pattern = material.NewPattern(material.PatternCheckered,
		core.NewVec3(0.8, 0.8, 0.75), core.NewVec3(0.4, 0.4, 0.45))
	ground.Material.Specular = 0
	s.AddShape(ground)

	pyramidVertices, pyramidFaces := pyramidMesh(2, 2)
	pyramid, _, _ := NewMeshTree(pyramidVertices, pyramidFaces)
	mustTransform(pyramid.PropagateTransform(core.Translation(-1.3, 1, 0).Multiply(core.RotationY(math.Pi / 8))))
	gold := material.NewMaterial(core.NewVec3(0.85, 0.65, 0.2))
	gold.Reflective = 0.3
	gold.Shininess = 80
	pyramid.PropagateMaterial(gold)
	s.AddTree(pyramid)

	icoVertices, icoFaces := icosahedronMesh()
	ico, _, _ := NewMeshTree(icoVertices, icoFaces)
	mustTransform(ico.PropagateTransform(core.Translation(1.4, 0.9, 0.2).Multiply(core.Scaling(0.9, 0.9, 0.9))))
	teal := material.NewMaterial(core.NewVec3(0.2, 0.6, 0.6))
	teal.Shader = material.ShaderStep
	ico.PropagateMaterial(teal)
	s.AddTree(ico)

	return s
}
