package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestShapeBounds(t *testing.T) {
	e := core.Epsilon
	s2 := math.Sqrt2

	translated := NewSphere()
	_ = translated.SetTransform(core.Translation(1, 2, 3).Multiply(core.Scaling(2, 2, 2)))

	rotated := NewCube()
	_ = rotated.SetTransform(core.RotationY(math.Pi / 4))

	triangle := NewTriangle(core.NewVec3(-3, 7, 2), core.NewVec3(6, 2, -4), core.NewVec3(2, -1, -1))

	tests := []struct {
		name     string
		shape    *Shape
		min, max core.Vec3
	}{
		{"Unit sphere", NewSphere(), core.NewVec3(-1-e, -1-e, -1-e), core.NewVec3(1+e, 1+e, 1+e)},
		{"Unit cube", NewCube(), core.NewVec3(-1-e, -1-e, -1-e), core.NewVec3(1+e, 1+e, 1+e)},
		{"Scaled translated sphere", translated, core.NewVec3(-1-e, -e, 1-e), core.NewVec3(3+e, 4+e, 5+e)},
		{"Rotated cube uses all corners", rotated, core.NewVec3(-s2-e, -1-e, -s2-e), core.NewVec3(s2+e, 1+e, s2+e)},
		{"Triangle", triangle, core.NewVec3(-3-e, -1-e, -4-e), core.NewVec3(6+e, 7+e, 2+e)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := ShapeBounds(tt.shape)
			if !box.Min.Equals(tt.min, 1e-9) || !box.Max.Equals(tt.max, 1e-9) {
				t.Errorf("Expected [%v, %v], got [%v, %v]", tt.min, tt.max, box.Min, box.Max)
			}
		})
	}
}

func TestShapeBounds_Plane(t *testing.T) {
	plane := NewPlane()
	_ = plane.SetTransform(core.Translation(0, 3, 0))

	box := ShapeBounds(plane)
	if !math.IsInf(box.Min.X, -1) || !math.IsInf(box.Max.Z, 1) {
		t.Errorf("Expected plane to be unbounded in x and z, got %v", box)
	}
	if math.Abs(box.Min.Y-(3-core.Epsilon)) > 1e-9 || math.Abs(box.Max.Y-(3+core.Epsilon)) > 1e-9 {
		t.Errorf("Expected thin slab around y=3, got [%f, %f]", box.Min.Y, box.Max.Y)
	}
	if !box.IsInfinite() {
		t.Error("Expected plane bounds to be infinite")
	}
}

func TestTransformBounds_InfiniteTimesZero(t *testing.T) {
	inf := math.Inf(1)
	slab := core.NewAABB(core.NewVec3(-inf, 0, -inf), core.NewVec3(inf, 0, inf))

	box := TransformBounds(slab, core.Scaling(2, 2, 2))
	for _, v := range []float64{box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z} {
		if math.IsNaN(v) {
			t.Fatalf("Expected no NaN in %v", box)
		}
	}
	if box.Min.Y != 0 || box.Max.Y != 0 {
		t.Errorf("Expected y extent to stay [0,0], got [%f, %f]", box.Min.Y, box.Max.Y)
	}
}

func TestTransformBounds_UndefinedAxisWidens(t *testing.T) {
	inf := math.Inf(1)
	slab := core.NewAABB(core.NewVec3(-inf, 0, -inf), core.NewVec3(inf, 0, inf))

	// x' = x + z mixes +inf and -inf
	box := TransformBounds(slab, core.Shearing(0, 1, 0, 0, 0, 0))
	if !math.IsInf(box.Min.X, -1) || !math.IsInf(box.Max.X, 1) {
		t.Errorf("Expected x to widen to the whole line, got [%f, %f]", box.Min.X, box.Max.X)
	}
}

func TestIsInBounds(t *testing.T) {
	box := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		box      core.AABB
		ray      core.Ray
		expected bool
	}{
		{"Straight through", box, core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)), true},
		{"Box behind origin still passes", box, core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)), true},
		{"Miss", box, core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 0, 1)), false},
		{"Infinite always passes", core.InfiniteAABB(), core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 0, 1)), true},
		{"Empty never passes", core.EmptyAABB(), core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInBounds(tt.box, tt.ray); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIsInBounds_NeverRejectsAHit(t *testing.T) {
	shapes := []*Shape{NewSphere(), NewCube(), NewTriangle(core.NewVec3(0, 1, 0), core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0))}
	for _, s := range shapes {
		_ = s.SetTransform(core.Translation(0.5, -0.25, 1).Multiply(core.RotationX(0.7)).Multiply(core.Scaling(1.5, 0.5, 2)))
	}

	for i := 0; i < 200; i++ {
		angle := float64(i) * 0.137
		origin := core.NewVec3(5*math.Cos(angle), 3*math.Sin(angle*1.3), 5*math.Sin(angle))
		target := core.NewVec3(math.Sin(angle*2.1)*0.8, math.Cos(angle*0.7)*0.8, math.Sin(angle*0.3))
		ray := core.NewRay(origin, target.Subtract(origin).Normalize())

		for _, s := range shapes {
			if Intersect(s, ray).Count > 0 && !IsInBounds(ShapeBounds(s), ray) {
				t.Fatalf("Bounds of %v rejected a ray that hits it: %v", s.Kind(), ray)
			}
		}
	}
}
