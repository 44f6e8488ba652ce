package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Tree   *Tree
	Light  lights.PointLight
	Camera *geometry.Camera
}

// NewScene creates an empty scene
func NewScene(camera *geometry.Camera, light lights.PointLight) *Scene {
	return &Scene{
		Tree:   NewTree(),
		Light:  light,
		Camera: camera,
	}
}

// AddShape adds a shape to the root of the scene tree
func (s *Scene) AddShape(shape *geometry.Shape) {
	s.Tree.AddShape(shape)
}

// AddTree grafts a copy of tree into the scene
func (s *Scene) AddTree(tree *Tree) {
	s.Tree.CopyInChild(tree)
}

// Preprocess prepares the tree for rendering, either by rebuilding it as a BVH
// or by recomputing the bounds of the existing hierarchy
func (s *Scene) Preprocess(useBVH bool) {
	if useBVH {
		s.Tree = GenerateBVH(s.Tree, ShapesPerChild)
		return
	}
	s.Tree.CalculateBounds()
}

// IntersectScene returns every intersection of the ray with the scene, hits only
func (s *Scene) IntersectScene(ray core.Ray) []geometry.Intersection {
	return s.Tree.Intersect(ray, nil)
}

// IsInShadow reports whether something lies between point and the light
func (s *Scene) IsInShadow(point core.Vec3) bool {
	sample := s.Light.Sample(point)
	ray := core.NewRay(point, sample.Direction)

	for _, xs := range s.IntersectScene(ray) {
		for _, hit := range xs.Hits() {
			if hit.T > core.Epsilon && hit.T < sample.Distance-core.Epsilon {
				return true
			}
		}
	}
	return false
}

// NewDefaultWorld creates the two-sphere world used as a reference by the
// shading tests: a light at (-10, 10, -10), a unit sphere and a half-size
// sphere inside it
func NewDefaultWorld(camera *geometry.Camera) *Scene {
	s := NewScene(camera, lights.NewWhiteLight(core.NewVec3(-10, 10, -10)))

	outer := geometry.NewSphere()
	outer.Material = material.NewMaterial(core.NewVec3(0.8, 1.0, 0.6))
	outer.Material.Diffuse = 0.7
	outer.Material.Specular = 0.2

	inner := geometry.NewSphere()
	mustTransform(inner.SetTransform(core.Scaling(0.5, 0.5, 0.5)))

	s.AddShape(outer)
	s.AddShape(inner)
	return s
}

// mustTransform panics on a transform error. Builtin scenes only use fixed,
// invertible transforms, so an error here is a bug in the scene itself.
func mustTransform(err error) {
	if err != nil {
		panic(fmt.Sprintf("scene: invalid builtin transform: %v", err))
	}
}
