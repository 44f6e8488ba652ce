package material

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestSchlick(t *testing.T) {
	s := math.Sqrt2 / 2

	tests := []struct {
		name     string
		eye      core.Vec3
		n1, n2   float64
		expected float64
	}{
		{"Total internal reflection", core.NewVec3(0, s, s), 1.5, 1.0, 1.0},
		{"Perpendicular", core.NewVec3(0, 0, 1), 1.5, 1.0, 0.04},
		{"Perpendicular entering", core.NewVec3(0, 0, 1), 1.0, 1.5, 0.04},
		{"Equal indices", core.NewVec3(0, 0, 1), 1.0, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Schlick(tt.eye, core.NewVec3(0, 0, 1), tt.n1, tt.n2)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestRefract(t *testing.T) {
	normal := core.NewVec3(0, 0, 1)

	t.Run("Straight through", func(t *testing.T) {
		dir, ok := Refract(core.NewVec3(0, 0, 1), normal, 1.0, 1.5)
		if !ok {
			t.Fatal("Expected refraction")
		}
		if !dir.Equals(core.NewVec3(0, 0, -1), 1e-9) {
			t.Errorf("Expected (0,0,-1), got %v", dir)
		}
	})

	t.Run("Total internal reflection", func(t *testing.T) {
		s := math.Sqrt2 / 2
		if _, ok := Refract(core.NewVec3(0, s, s), normal, 1.5, 1.0); ok {
			t.Error("Expected total internal reflection")
		}
	})

	t.Run("Snell's law", func(t *testing.T) {
		s := math.Sqrt2 / 2
		dir, ok := Refract(core.NewVec3(0, s, s), normal, 1.0, 1.5)
		if !ok {
			t.Fatal("Expected refraction")
		}
		sinI := s
		sinT := math.Abs(dir.Normalize().Y)
		if math.Abs(sinI/sinT-1.5) > 1e-9 {
			t.Errorf("Expected sinI/sinT = 1.5, got %f", sinI/sinT)
		}
	})
}
