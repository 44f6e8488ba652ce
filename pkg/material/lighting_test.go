package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

func TestLighting_Phong(t *testing.T) {
	m := NewMaterial(core.NewVec3(1, 1, 1))
	s := math.Sqrt2 / 2

	tests := []struct {
		name     string
		eye      core.Vec3
		light    core.Vec3
		inShadow bool
		expected float64
	}{
		{"Eye between light and surface", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -10), false, 1.9},
		{"Eye offset 45 degrees", core.NewVec3(0, s, -s), core.NewVec3(0, 0, -10), false, 1.0},
		{"Light offset 45 degrees", core.NewVec3(0, 0, -1), core.NewVec3(0, 10, -10), false, 0.7364},
		{"Eye in reflection path", core.NewVec3(0, -s, -s), core.NewVec3(0, 10, -10), false, 1.6364},
		{"Light behind surface", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 10), false, 0.1},
		{"Surface in shadow", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -10), true, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lighting(m, LightingInput{
				Light:    lights.NewWhiteLight(tt.light),
				Color:    white,
				Point:    core.NewVec3(0, 0, 0),
				Eye:      tt.eye,
				Normal:   core.NewVec3(0, 0, -1),
				InShadow: tt.inShadow,
			})
			expected := core.NewVec3(tt.expected, tt.expected, tt.expected)
			if !result.Equals(expected, 1e-4) {
				t.Errorf("Expected %v, got %v", expected, result)
			}
		})
	}
}

func TestLighting_Step(t *testing.T) {
	m := NewMaterial(core.NewVec3(1, 1, 1))
	m.Shader = ShaderStep

	head := Lighting(m, LightingInput{
		Light:  lights.NewWhiteLight(core.NewVec3(0, 0, -10)),
		Color:  white,
		Eye:    core.NewVec3(0, 0, -1),
		Normal: core.NewVec3(0, 0, -1),
	})
	if !head.Equals(core.NewVec3(1.9, 1.9, 1.9), 1e-9) {
		t.Errorf("Expected 1.9 head-on, got %v", head)
	}

	// cos 45° lands in the 0.75 band and misses the highlight
	angled := Lighting(m, LightingInput{
		Light:  lights.NewWhiteLight(core.NewVec3(0, 10, -10)),
		Color:  white,
		Eye:    core.NewVec3(0, 0, -1),
		Normal: core.NewVec3(0, 0, -1),
	})
	if !angled.Equals(core.NewVec3(0.775, 0.775, 0.775), 1e-9) {
		t.Errorf("Expected 0.775 at 45 degrees, got %v", angled)
	}
}

func TestParseShader(t *testing.T) {
	tests := []struct {
		name     string
		expected Shader
	}{
		{"", ShaderPhong},
		{"phong", ShaderPhong},
		{"step", ShaderStep},
	}
	for _, tt := range tests {
		got, err := ParseShader(tt.name)
		if err != nil || got != tt.expected {
			t.Errorf("Expected %v for %q, got %v (%v)", tt.expected, tt.name, got, err)
		}
	}

	if _, err := ParseShader("toon"); !errors.Is(err, ErrUnknownShader) {
		t.Errorf("Expected ErrUnknownShader, got %v", err)
	}
}

func TestNewMaterial_Defaults(t *testing.T) {
	m := NewMaterial(white)
	if m.Ambient != 0.1 || m.Diffuse != 0.9 || m.Specular != 0.9 || m.Shininess != 200 {
		t.Errorf("Unexpected defaults: %+v", m)
	}
	if m.RefractiveIndex != 1.0 || m.IsReflective() || m.IsTransparent() {
		t.Errorf("Expected opaque non-reflective material with index 1, got %+v", m)
	}
}
