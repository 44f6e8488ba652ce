package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

var unitBox = core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))

// ShapeBounds returns the world-space bounds of a shape, padded by Epsilon so
// zero-thickness shapes still prune soundly
func ShapeBounds(shape *Shape) core.AABB {
	var box core.AABB

	switch shape.kind {
	case KindSphere, KindCube:
		box = TransformBounds(unitBox, shape.transform)
	case KindPlane:
		inf := math.Inf(1)
		slab := core.NewAABB(core.NewVec3(-inf, 0, -inf), core.NewVec3(inf, 0, inf))
		box = TransformBounds(slab, shape.transform)
	case KindTriangle:
		vertices, _ := shape.Vertices()
		box = core.NewAABBFromPoints(vertices[:]...)
	default:
		return core.InfiniteAABB()
	}

	return box.Expand(core.Epsilon)
}

// TransformBounds maps all eight corners of a box through m and bounds the results.
// Rotations make the two-corner shortcut wrong, so every corner is visited.
// A zero coefficient times an infinite extent counts as zero; an axis whose
// extent becomes undefined is widened to the whole line.
func TransformBounds(box core.AABB, m core.Matrix4) core.AABB {
	if !box.IsValid() {
		return box
	}

	result := core.EmptyAABB()
	undefined := [3]bool{}

	for _, corner := range box.Corners() {
		in := [3]float64{corner.X, corner.Y, corner.Z}
		var out [3]float64
		for row := 0; row < 3; row++ {
			sum := m[row][3]
			for col := 0; col < 3; col++ {
				sum += scaleTerm(m[row][col], in[col])
			}
			if math.IsNaN(sum) {
				undefined[row] = true
			}
			out[row] = sum
		}
		p := core.NewVec3(out[0], out[1], out[2])
		result.Min = core.MinVec(result.Min, p)
		result.Max = core.MaxVec(result.Max, p)
	}

	inf := math.Inf(1)
	if undefined[0] {
		result.Min.X, result.Max.X = -inf, inf
	}
	if undefined[1] {
		result.Min.Y, result.Max.Y = -inf, inf
	}
	if undefined[2] {
		result.Min.Z, result.Max.Z = -inf, inf
	}
	return result
}

func scaleTerm(coefficient, value float64) float64 {
	if coefficient == 0 || value == 0 {
		return 0
	}
	return coefficient * value
}

// IsInBounds is the pruning filter: does the infinite line through the ray touch the box?
// Any box with an infinite extent always passes; an empty box never does.
func IsInBounds(box core.AABB, ray core.Ray) bool {
	if !box.IsValid() {
		return false
	}
	if box.IsInfinite() {
		return true
	}
	return box.Hit(ray, math.Inf(-1), math.Inf(1))
}

// Centroid returns the centre of a bounded box
func Centroid(box core.AABB) core.Vec3 {
	return box.Center()
}
