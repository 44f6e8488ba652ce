package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Intersection records where a ray crosses one shape. Count is 0, 1 or 2 and
// when it is 2 the times are ascending.
type Intersection struct {
	Shape *Shape
	Ray   core.Ray
	Times [2]float64
	Count int
}

// Hit is a single (time, shape) pair
type Hit struct {
	T     float64
	Shape *Shape
}

// Hits returns each recorded time paired with its shape
func (i Intersection) Hits() []Hit {
	hits := make([]Hit, i.Count)
	for n := 0; n < i.Count; n++ {
		hits[n] = Hit{T: i.Times[n], Shape: i.Shape}
	}
	return hits
}

// Intersect solves the ray against a shape in the shape's object space
func Intersect(shape *Shape, ray core.Ray) Intersection {
	local := ray.Transform(shape.inverse)
	xs := Intersection{Shape: shape, Ray: ray}

	switch shape.kind {
	case KindSphere:
		intersectSphere(local, &xs)
	case KindPlane:
		intersectPlane(local, &xs)
	case KindCube:
		intersectCube(local, &xs)
	case KindTriangle:
		intersectTriangle(local, triangleParallelLimit(shape, ray), &xs)
	}
	return xs
}

func intersectSphere(ray core.Ray, xs *Intersection) {
	// |d|²t² + 2(o·d)t + (|o|²−1) = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Origin.Dot(ray.Direction)
	c := ray.Origin.Dot(ray.Origin) - 1

	discriminant := b*b - 4*a*c
	switch {
	case discriminant < 0:
		return
	case discriminant == 0:
		xs.Times[0] = -b / (2 * a)
		xs.Count = 1
	default:
		root := math.Sqrt(discriminant)
		t1 := (-b - root) / (2 * a)
		t2 := (-b + root) / (2 * a)
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		xs.Times = [2]float64{t1, t2}
		xs.Count = 2
	}
}

func intersectPlane(ray core.Ray, xs *Intersection) {
	// Parallel and coplanar rays both miss a zero-thickness surface
	if math.Abs(ray.Direction.Y) < core.Epsilon {
		return
	}
	xs.Times[0] = -ray.Origin.Y / ray.Direction.Y
	xs.Count = 1
}

func intersectCube(ray core.Ray, xs *Intersection) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		lo, hi := cubeSlab(ray.Origin.Component(axis), ray.Direction.Component(axis))
		tMin = math.Max(tMin, lo)
		tMax = math.Min(tMax, hi)
	}

	if tMin > tMax {
		return
	}
	xs.Times = [2]float64{tMin, tMax}
	xs.Count = 2
}

// cubeSlab returns the entry and exit times through the [-1, 1] slab of one axis
func cubeSlab(origin, direction float64) (float64, float64) {
	if direction == 0 {
		if origin < -1 || origin > 1 {
			return math.Inf(1), math.Inf(-1)
		}
		return math.Inf(-1), math.Inf(1)
	}

	t1 := (-1 - origin) / direction
	t2 := (1 - origin) / direction
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return t1, t2
}

// triangleParallelLimit is the smallest object-space |dz| treated as a hit.
// The object-space dz equals the world direction dotted with the third row of
// the inverse transform, which is the unscaled world normal, so scaling the
// limit by both lengths compares the world-space cosine against Epsilon
// whatever the transform's scale.
func triangleParallelLimit(shape *Shape, worldRay core.Ray) float64 {
	inv := shape.inverse
	normal := core.NewVec3(inv[2][0], inv[2][1], inv[2][2])
	return core.Epsilon * normal.Length() * worldRay.Direction.Length()
}

func intersectTriangle(ray core.Ray, parallelLimit float64, xs *Intersection) {
	// The reference triangle lies in z=0 with legs along x and y
	if math.Abs(ray.Direction.Z) < parallelLimit {
		return
	}

	t := -ray.Origin.Z / ray.Direction.Z
	p := ray.At(t)
	u, v := p.X, p.Y
	if u < 0 || v < 0 || u+v > 1 {
		return
	}
	xs.Times[0] = t
	xs.Count = 1
}
