package integrator

import (
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Computations holds everything the shader needs about one ray/surface hit
type Computations struct {
	T     float64
	Shape *geometry.Shape

	Point      core.Vec3
	OverPoint  core.Vec3 // Point nudged off the surface toward the eye
	UnderPoint core.Vec3 // Point nudged below the surface, origin of refracted rays
	Eye        core.Vec3 // Unit vector back toward the ray origin
	Normal     core.Vec3 // Unit normal facing the eye
	ReflectV   core.Vec3
	Inside     bool

	// Refractive indices on the incoming and outgoing side of the surface
	N1, N2 float64
}

// SortedHits flattens intersections into individual hits ordered by time.
// Equal times keep traversal order.
func SortedHits(xs []geometry.Intersection) []geometry.Hit {
	var hits []geometry.Hit
	for _, x := range xs {
		hits = append(hits, x.Hits()...)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].T < hits[j].T
	})
	return hits
}

// nearestIndex picks, among hits in front of the origin, the one whose point is
// closest to the ray origin. Secondary rays are not normalized so the point
// distance is used rather than the raw time.
func nearestIndex(ray core.Ray, hits []geometry.Hit) (int, bool) {
	best := -1
	bestDistance := 0.0
	for i, h := range hits {
		if h.T <= 0 {
			continue
		}
		d := ray.At(h.T).Subtract(ray.Origin).LengthSquared()
		if best < 0 || d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best, best >= 0
}

// PrepareComputations derives the shading state for hits[index]. hits must be
// sorted by time and include hits behind the origin, since they decide which
// transparent shapes already contain the ray.
func PrepareComputations(ray core.Ray, hits []geometry.Hit, index int) Computations {
	hit := hits[index]
	comps := Computations{
		T:     hit.T,
		Shape: hit.Shape,
		Point: ray.At(hit.T),
		Eye:   ray.Direction.Negate().Normalize(),
	}

	comps.Normal = geometry.NormalAt(hit.Shape, comps.Point)
	if comps.Normal.Dot(comps.Eye) < 0 {
		comps.Inside = true
		comps.Normal = comps.Normal.Negate()
	}

	offset := comps.Normal.Multiply(core.Epsilon)
	comps.OverPoint = comps.Point.Add(offset)
	comps.UnderPoint = comps.Point.Subtract(offset)
	comps.ReflectV = ray.Direction.Reflect(comps.Normal)

	comps.N1, comps.N2 = refractiveIndices(hits, index)
	return comps
}

// refractiveIndices walks the hits up to index, toggling each shape in and out of
// the set of shapes currently containing the ray
func refractiveIndices(hits []geometry.Hit, index int) (n1, n2 float64) {
	var containers []*geometry.Shape

	outermost := func() float64 {
		if len(containers) == 0 {
			return 1.0
		}
		return containers[len(containers)-1].Material.RefractiveIndex
	}

	for i := 0; i <= index; i++ {
		if i == index {
			n1 = outermost()
		}

		shape := hits[i].Shape
		found := -1
		for j, c := range containers {
			if c == shape {
				found = j
				break
			}
		}
		if found >= 0 {
			containers = append(containers[:found], containers[found+1:]...)
		} else {
			containers = append(containers, shape)
		}

		if i == index {
			n2 = outermost()
		}
	}
	return n1, n2
}

// FindHit intersects the ray with the scene and prepares the nearest visible hit
func FindHit(s *scene.Scene, ray core.Ray) (Computations, bool) {
	hits := SortedHits(s.IntersectScene(ray))
	index, ok := nearestIndex(ray, hits)
	if !ok {
		return Computations{}, false
	}
	return PrepareComputations(ray, hits, index), true
}

// NearestHit reports the distance from the ray origin to the nearest visible hit
func NearestHit(s *scene.Scene, ray core.Ray) (float64, bool) {
	hits := SortedHits(s.IntersectScene(ray))
	index, ok := nearestIndex(ray, hits)
	if !ok {
		return 0, false
	}
	return ray.At(hits[index].T).Subtract(ray.Origin).Length(), true
}
