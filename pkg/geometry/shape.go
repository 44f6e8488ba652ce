package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var (
	// ErrUnknownShape is returned when a shape tag is not recognised
	ErrUnknownShape = errors.New("unknown shape")

	// ErrSingularTransform is returned when a shape transform had to be rectified
	ErrSingularTransform = errors.New("singular shape transform")
)

// Kind is the closed set of primitive variants
type Kind int

const (
	KindSphere Kind = iota
	KindPlane
	KindCube
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	case KindCube:
		return "cube"
	case KindTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a scene-file tag onto a Kind
func ParseKind(name string) (Kind, error) {
	switch name {
	case "sphere":
		return KindSphere, nil
	case "plane":
		return KindPlane, nil
	case "cube":
		return KindCube, nil
	case "triangle":
		return KindTriangle, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
}

// Shape is a single primitive: a kind, an object-to-world transform kept in
// lockstep with its inverse, and a material.
//
// Triangles carry a fixed basis mapping the reference triangle (0,0,0),(1,0,0),(0,1,0)
// onto their vertices; user transforms are applied on top of it.
type Shape struct {
	Material material.Material

	kind         Kind
	basis        core.Matrix4 // identity except for triangles
	local        core.Matrix4 // user transform
	localInverse core.Matrix4
	transform    core.Matrix4 // local × basis
	inverse      core.Matrix4
}

func newShape(kind Kind, basis core.Matrix4) *Shape {
	s := &Shape{
		Material:     material.NewMaterial(core.NewVec3(1, 1, 1)),
		kind:         kind,
		basis:        basis,
		local:        core.Identity(),
		localInverse: core.Identity(),
	}
	s.recompute()
	return s
}

// NewSphere creates a unit sphere centred at the origin
func NewSphere() *Shape {
	return newShape(KindSphere, core.Identity())
}

// NewPlane creates the x–z plane through the origin
func NewPlane() *Shape {
	return newShape(KindPlane, core.Identity())
}

// NewCube creates an axis-aligned cube spanning [-1, 1] on every axis
func NewCube() *Shape {
	return newShape(KindCube, core.Identity())
}

// NewTriangle creates a triangle through the three points
func NewTriangle(p1, p2, p3 core.Vec3) *Shape {
	e1 := p2.Subtract(p1)
	e2 := p3.Subtract(p1)
	n := e1.Cross(e2).Normalize()

	basis := core.Matrix4{
		{e1.X, e2.X, n.X, p1.X},
		{e1.Y, e2.Y, n.Y, p1.Y},
		{e1.Z, e2.Z, n.Z, p1.Z},
		{0, 0, 0, 1},
	}
	return newShape(KindTriangle, basis)
}

// IsDegenerateTriangle reports whether three points are (nearly) collinear
func IsDegenerateTriangle(p1, p2, p3 core.Vec3) bool {
	return p2.Subtract(p1).Cross(p3.Subtract(p1)).LengthSquared() < core.Epsilon*core.Epsilon*core.Epsilon
}

// Kind returns the primitive variant
func (s *Shape) Kind() Kind {
	return s.kind
}

// Transform returns the full object-to-world transform
func (s *Shape) Transform() core.Matrix4 {
	return s.transform
}

// Inverse returns the world-to-object transform
func (s *Shape) Inverse() core.Matrix4 {
	return s.inverse
}

// LocalTransform returns the user transform, excluding a triangle's vertex basis
func (s *Shape) LocalTransform() core.Matrix4 {
	return s.local
}

// SetTransform replaces the user transform and recomputes the inverse in the same step.
// A singular matrix is rectified; the shape stays usable and ErrSingularTransform is returned.
func (s *Shape) SetTransform(m core.Matrix4) error {
	rectified, inverse, err := core.InvertRectified(m)
	s.local = rectified
	s.localInverse = inverse
	s.recompute()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSingularTransform, s.kind, err)
	}
	return nil
}

// ApplyTransform composes m on top of the current user transform
func (s *Shape) ApplyTransform(m core.Matrix4) error {
	return s.SetTransform(m.Multiply(s.local))
}

func (s *Shape) recompute() {
	// local is already invertible here; only a degenerate triangle basis can fail,
	// and that is rectified silently
	s.transform, s.inverse, _ = core.InvertRectified(s.local.Multiply(s.basis))
}

// Clone returns an independent copy of the shape
func (s *Shape) Clone() *Shape {
	clone := *s
	return &clone
}

// ColorAt returns the material's pattern color at a world-space point
func (s *Shape) ColorAt(worldPoint core.Vec3) core.Vec3 {
	return s.Material.Pattern.ColorAt(s.localInverse.MultiplyPoint(worldPoint))
}

// Vertices returns the world-space corners of a triangle. Other kinds return false.
func (s *Shape) Vertices() ([3]core.Vec3, bool) {
	if s.kind != KindTriangle {
		return [3]core.Vec3{}, false
	}
	return [3]core.Vec3{
		s.transform.MultiplyPoint(core.NewVec3(0, 0, 0)),
		s.transform.MultiplyPoint(core.NewVec3(1, 0, 0)),
		s.transform.MultiplyPoint(core.NewVec3(0, 1, 0)),
	}, true
}
