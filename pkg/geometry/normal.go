package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NormalAt returns the unit surface normal of a shape at a world-space point
func NormalAt(shape *Shape, worldPoint core.Vec3) core.Vec3 {
	objectPoint := shape.inverse.MultiplyPoint(worldPoint)
	objectNormal := objectNormalAt(shape.kind, objectPoint)

	// Normals follow the inverse-transpose; MultiplyVector drops w
	return shape.inverse.Transpose().MultiplyVector(objectNormal).Normalize()
}

func objectNormalAt(kind Kind, p core.Vec3) core.Vec3 {
	switch kind {
	case KindSphere:
		return p
	case KindPlane:
		return core.NewVec3(0, 1, 0)
	case KindCube:
		ax, ay, az := math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)
		switch maxc := math.Max(ax, math.Max(ay, az)); maxc {
		case ax:
			return core.NewVec3(p.X, 0, 0)
		case ay:
			return core.NewVec3(0, p.Y, 0)
		default:
			return core.NewVec3(0, 0, p.Z)
		}
	case KindTriangle:
		return core.NewVec3(0, 0, 1)
	default:
		return core.Vec3{}
	}
}
