package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Refract bends the eye vector through a surface using Snell's law.
// eye points away from the surface, normal faces the eye, and n1/n2 are the indices
// on the incoming and outgoing sides. ok is false on total internal reflection.
func Refract(eye, normal core.Vec3, n1, n2 float64) (direction core.Vec3, ok bool) {
	ratio := n1 / n2
	cosI := eye.Dot(normal)
	sin2T := ratio * ratio * (1 - cosI*cosI)
	if sin2T > 1 {
		return core.Vec3{}, false
	}

	cosT := math.Sqrt(1 - sin2T)
	direction = normal.Multiply(ratio*cosI - cosT).Subtract(eye.Multiply(ratio))
	return direction, true
}

// Schlick approximates the fraction of light reflected at the interface between n1 and n2
func Schlick(eye, normal core.Vec3, n1, n2 float64) float64 {
	cosine := eye.Dot(normal)

	if n1 > n2 {
		ratio := n1 / n2
		sin2T := ratio * ratio * (1 - cosine*cosine)
		if sin2T > 1 {
			return 1 // total internal reflection
		}
		cosine = math.Sqrt(1 - sin2T)
	}

	return Reflectance(cosine, n1/n2)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
