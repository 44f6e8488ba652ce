package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const colorTolerance = 1e-4

var sqrt2Over2 = math.Sqrt(2) / 2

func expectColor(t *testing.T, expected, got core.Vec3, tolerance float64) {
	t.Helper()
	if !got.Equals(expected, tolerance) {
		t.Errorf("Expected color %v, got %v", expected, got)
	}
}

// outerAndInner returns the two spheres of the default world
func outerAndInner(s *scene.Scene) (*geometry.Shape, *geometry.Shape) {
	shapes := s.Tree.Shapes()
	return shapes[0], shapes[1]
}

func glassSphere() *geometry.Shape {
	s := geometry.NewSphere()
	s.Material.Transparency = 1.0
	s.Material.RefractiveIndex = 1.5
	return s
}

func TestColorFor_DefaultWorld(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	expectColor(t, core.NewVec3(0.38066, 0.47583, 0.2855), ColorFor(s, ray), colorTolerance)
}

func TestColorFor_Miss(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 1, 0))

	if got := ColorFor(s, ray); got != (core.Vec3{}) {
		t.Errorf("Expected black for a miss, got %v", got)
	}
}

func TestColorFor_ShapesBehindRay(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))

	if got := ColorFor(s, ray); got != (core.Vec3{}) {
		t.Errorf("Expected black when every hit is behind the origin, got %v", got)
	}
}

func TestColorFor_HitInsideOuterSphere(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	outer, inner := outerAndInner(s)
	outer.Material.Ambient = 1
	inner.Material.Ambient = 1

	ray := core.NewRay(core.NewVec3(0, 0, 0.75), core.NewVec3(0, 0, -1))
	expectColor(t, inner.Material.Pattern.A, ColorFor(s, ray), colorTolerance)
}

func TestColorFor_ShadingFromInside(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	s.Light = lights.NewWhiteLight(core.NewVec3(0, 0.25, 0))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	expectColor(t, core.NewVec3(0.90498, 0.90498, 0.90498), ColorFor(s, ray), 1e-3)
}

func TestColorFor_InShadow(t *testing.T) {
	s := scene.NewScene(nil, lights.NewWhiteLight(core.NewVec3(0, 0, -10)))
	s.AddShape(geometry.NewSphere())
	far := geometry.NewSphere()
	_ = far.SetTransform(core.Translation(0, 0, 10))
	s.AddShape(far)

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))
	expectColor(t, core.NewVec3(0.1, 0.1, 0.1), ColorFor(s, ray), colorTolerance)
}

func TestColorForLimited_DepthZeroIsBlack(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	if got := ColorForLimited(s, ray, 0); got != (core.Vec3{}) {
		t.Errorf("Expected black at depth 0, got %v", got)
	}
}

func TestColorFor_Deterministic(t *testing.T) {
	s := scene.NewGlassScene(32, 24)
	s.Preprocess(true)

	for y := 0; y < 24; y += 5 {
		for x := 0; x < 32; x += 5 {
			ray := s.Camera.RayForPixel(x, y)
			first := ColorFor(s, ray)
			second := ColorFor(s, ray)
			if first != second {
				t.Fatalf("Pixel (%d,%d): expected identical colors, got %v and %v", x, y, first, second)
			}
		}
	}
}

func reflectiveFloor(reflective float64) *geometry.Shape {
	floor := geometry.NewPlane()
	floor.Material.Reflective = reflective
	_ = floor.SetTransform(core.Translation(0, -1, 0))
	return floor
}

func TestColorFor_ReflectiveFloor(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	s.AddShape(reflectiveFloor(0.5))

	ray := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, -sqrt2Over2, sqrt2Over2))
	expectColor(t, core.NewVec3(0.87677, 0.92436, 0.82918), ColorFor(s, ray), 1e-3)
}

func TestReflectedColor(t *testing.T) {
	tests := []struct {
		name       string
		reflective float64
		remaining  int
		expected   core.Vec3
	}{
		{"Non-reflective surface", 0, 5, core.Vec3{}},
		{"Reflective surface", 0.5, 5, core.NewVec3(0.19033, 0.23791, 0.14274)},
		{"No depth left", 0.5, 1, core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewDefaultWorld(nil)
			floor := reflectiveFloor(tt.reflective)
			s.AddShape(floor)

			ray := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, -sqrt2Over2, sqrt2Over2))
			comps := PrepareComputations(ray, []geometry.Hit{{T: math.Sqrt2, Shape: floor}}, 0)

			expectColor(t, tt.expected, reflectedColor(s, comps, tt.remaining), 1e-3)
		})
	}
}

func TestColorFor_MutuallyReflectiveSurfaces(t *testing.T) {
	s := scene.NewScene(nil, lights.NewWhiteLight(core.NewVec3(0, 0, 0)))

	lower := geometry.NewPlane()
	lower.Material.Reflective = 1
	_ = lower.SetTransform(core.Translation(0, -1, 0))
	upper := geometry.NewPlane()
	upper.Material.Reflective = 1
	_ = upper.SetTransform(core.Translation(0, 1, 0))
	s.AddShape(lower)
	s.AddShape(upper)

	// Terminates thanks to the depth limit
	got := ColorFor(s, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)))
	if got.X <= 0 {
		t.Errorf("Expected a lit color, got %v", got)
	}
}

func TestPrepareComputations_RefractiveIndices(t *testing.T) {
	a := glassSphere()
	_ = a.SetTransform(core.Scaling(2, 2, 2))
	a.Material.RefractiveIndex = 1.5

	b := glassSphere()
	_ = b.SetTransform(core.Translation(0, 0, -0.25))
	b.Material.RefractiveIndex = 2.0

	c := glassSphere()
	_ = c.SetTransform(core.Translation(0, 0, 0.25))
	c.Material.RefractiveIndex = 2.5

	ray := core.NewRay(core.NewVec3(0, 0, -4), core.NewVec3(0, 0, 1))
	hits := []geometry.Hit{
		{T: 2, Shape: a}, {T: 2.75, Shape: b}, {T: 3.25, Shape: c},
		{T: 4.75, Shape: b}, {T: 5.25, Shape: c}, {T: 6, Shape: a},
	}

	expected := []struct{ n1, n2 float64 }{
		{1.0, 1.5}, {1.5, 2.0}, {2.0, 2.5}, {2.5, 2.5}, {2.5, 1.5}, {1.5, 1.0},
	}

	for i, e := range expected {
		comps := PrepareComputations(ray, hits, i)
		if comps.N1 != e.n1 || comps.N2 != e.n2 {
			t.Errorf("Hit %d: expected n1=%v n2=%v, got n1=%v n2=%v", i, e.n1, e.n2, comps.N1, comps.N2)
		}
	}
}

func TestPrepareComputations_Geometry(t *testing.T) {
	t.Run("Outside hit", func(t *testing.T) {
		shape := geometry.NewSphere()
		ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
		comps := PrepareComputations(ray, []geometry.Hit{{T: 4, Shape: shape}}, 0)

		if comps.Inside {
			t.Error("Expected outside hit")
		}
		if !comps.Point.Equals(core.NewVec3(0, 0, -1), 1e-9) {
			t.Errorf("Expected point (0,0,-1), got %v", comps.Point)
		}
		if !comps.Eye.Equals(core.NewVec3(0, 0, -1), 1e-9) || !comps.Normal.Equals(core.NewVec3(0, 0, -1), 1e-9) {
			t.Errorf("Expected eye and normal (0,0,-1), got %v and %v", comps.Eye, comps.Normal)
		}
	})

	t.Run("Inside hit flips the normal", func(t *testing.T) {
		shape := geometry.NewSphere()
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
		comps := PrepareComputations(ray, []geometry.Hit{{T: -1, Shape: shape}, {T: 1, Shape: shape}}, 1)

		if !comps.Inside {
			t.Error("Expected inside hit")
		}
		if !comps.Normal.Equals(core.NewVec3(0, 0, -1), 1e-9) {
			t.Errorf("Expected flipped normal (0,0,-1), got %v", comps.Normal)
		}
	})

	t.Run("Over and under points", func(t *testing.T) {
		shape := glassSphere()
		_ = shape.SetTransform(core.Translation(0, 0, 1))
		ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
		comps := PrepareComputations(ray, []geometry.Hit{{T: 5, Shape: shape}, {T: 7, Shape: shape}}, 0)

		if comps.OverPoint.Z >= -core.Epsilon/2 || comps.Point.Z <= comps.OverPoint.Z {
			t.Errorf("Expected over point above the surface, got %v", comps.OverPoint)
		}
		if comps.UnderPoint.Z <= core.Epsilon/2 || comps.Point.Z >= comps.UnderPoint.Z {
			t.Errorf("Expected under point below the surface, got %v", comps.UnderPoint)
		}
	})

	t.Run("Reflection vector", func(t *testing.T) {
		plane := geometry.NewPlane()
		ray := core.NewRay(core.NewVec3(0, 1, -1), core.NewVec3(0, -sqrt2Over2, sqrt2Over2))
		comps := PrepareComputations(ray, []geometry.Hit{{T: math.Sqrt2, Shape: plane}}, 0)

		if !comps.ReflectV.Equals(core.NewVec3(0, sqrt2Over2, sqrt2Over2), 1e-9) {
			t.Errorf("Expected reflect vector (0, √2/2, √2/2), got %v", comps.ReflectV)
		}
	})
}

func TestRefractedColor(t *testing.T) {
	t.Run("Opaque surface", func(t *testing.T) {
		s := scene.NewDefaultWorld(nil)
		outer, _ := outerAndInner(s)
		ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
		comps := PrepareComputations(ray, []geometry.Hit{{T: 4, Shape: outer}, {T: 6, Shape: outer}}, 0)

		if got := refractedColor(s, comps, 5); got != (core.Vec3{}) {
			t.Errorf("Expected black, got %v", got)
		}
	})

	t.Run("Total internal reflection", func(t *testing.T) {
		s := scene.NewDefaultWorld(nil)
		outer, _ := outerAndInner(s)
		outer.Material.Transparency = 1.0
		outer.Material.RefractiveIndex = 1.5

		ray := core.NewRay(core.NewVec3(0, 0, sqrt2Over2), core.NewVec3(0, 1, 0))
		hits := []geometry.Hit{{T: -sqrt2Over2, Shape: outer}, {T: sqrt2Over2, Shape: outer}}
		comps := PrepareComputations(ray, hits, 1)

		if got := refractedColor(s, comps, 5); got != (core.Vec3{}) {
			t.Errorf("Expected black under total internal reflection, got %v", got)
		}
	})

	t.Run("No depth left", func(t *testing.T) {
		s := scene.NewDefaultWorld(nil)
		outer, _ := outerAndInner(s)
		outer.Material.Transparency = 1.0
		outer.Material.RefractiveIndex = 1.5

		ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
		comps := PrepareComputations(ray, []geometry.Hit{{T: 4, Shape: outer}, {T: 6, Shape: outer}}, 0)

		if got := refractedColor(s, comps, 1); got != (core.Vec3{}) {
			t.Errorf("Expected black with no depth left, got %v", got)
		}
	})
}

func transparentFloorWorld(reflective float64) *scene.Scene {
	s := scene.NewDefaultWorld(nil)

	floor := geometry.NewPlane()
	_ = floor.SetTransform(core.Translation(0, -1, 0))
	floor.Material.Transparency = 0.5
	floor.Material.RefractiveIndex = 1.5
	floor.Material.Reflective = reflective
	s.AddShape(floor)

	ball := geometry.NewSphere()
	ball.Material = material.NewMaterial(core.NewVec3(1, 0, 0))
	ball.Material.Ambient = 0.5
	_ = ball.SetTransform(core.Translation(0, -3.5, -0.5))
	s.AddShape(ball)

	return s
}

func TestColorFor_TransparentFloor(t *testing.T) {
	s := transparentFloorWorld(0)
	ray := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, -sqrt2Over2, sqrt2Over2))

	expectColor(t, core.NewVec3(0.93642, 0.68642, 0.68642), ColorFor(s, ray), 1e-3)
}

func TestColorFor_SchlickBlend(t *testing.T) {
	s := transparentFloorWorld(0.5)
	ray := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, -sqrt2Over2, sqrt2Over2))

	expectColor(t, core.NewVec3(0.93391, 0.69643, 0.69243), ColorFor(s, ray), 1e-3)
}

func TestNearestHit(t *testing.T) {
	s := scene.NewDefaultWorld(nil)

	d, ok := NearestHit(s, core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 2)))
	if !ok || math.Abs(d-4) > 1e-9 {
		t.Errorf("Expected distance 4, got %v (hit=%v)", d, ok)
	}

	if _, ok := NearestHit(s, core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 1, 0))); ok {
		t.Error("Expected a miss")
	}
}

func TestWhittedIntegrator_RayColor(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	var integrator Integrator = NewWhittedIntegrator(-1)
	if got, expected := integrator.RayColor(ray, s), ColorFor(s, ray); got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	if got := NewWhittedIntegrator(0).RayColor(ray, s); got != (core.Vec3{}) {
		t.Errorf("Expected black at depth 0, got %v", got)
	}
}

func TestWhittedIntegrator_RayColorDepth(t *testing.T) {
	s := scene.NewDefaultWorld(nil)
	var integrator DepthIntegrator = NewWhittedIntegrator(-1)

	tests := []struct {
		name string
		ray  core.Ray
	}{
		{"hit", core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 2))},
		{"oblique hit", core.NewRay(core.NewVec3(0, 0.25, -5), core.NewVec3(0.05, 0, 1))},
		{"miss", core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 1, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color, depth, ok := integrator.RayColorDepth(tt.ray, s)

			if expected := integrator.RayColor(tt.ray, s); color != expected {
				t.Errorf("Expected color %v, got %v", expected, color)
			}
			expectedDepth, expectedOK := NearestHit(s, tt.ray)
			if ok != expectedOK {
				t.Fatalf("Expected hit=%v, got %v", expectedOK, ok)
			}
			if math.Abs(depth-expectedDepth) > 1e-9 {
				t.Errorf("Expected depth %v, got %v", expectedDepth, depth)
			}
		})
	}
}
