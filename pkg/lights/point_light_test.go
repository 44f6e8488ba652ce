package lights

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPointLight_Sample(t *testing.T) {
	const tolerance = 1e-9

	light := NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(0.5, 0.5, 0.5))
	sample := light.Sample(core.NewVec3(0, 0, 0))

	if math.Abs(sample.Distance-10) > tolerance {
		t.Errorf("Expected distance 10, got %f", sample.Distance)
	}
	if !sample.Direction.Equals(core.NewVec3(0, 1, 0), tolerance) {
		t.Errorf("Expected direction (0,1,0), got %v", sample.Direction)
	}
	if sample.Emission != light.Color {
		t.Errorf("Expected emission %v, got %v", light.Color, sample.Emission)
	}
	if light.Type() != LightTypePoint {
		t.Errorf("Expected point light type, got %v", light.Type())
	}
}

func TestNewWhiteLight(t *testing.T) {
	light := NewWhiteLight(core.NewVec3(-10, 10, -10))
	if light.Color != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected white, got %v", light.Color)
	}
}
