package core

// Ray represents a ray with origin and direction. The direction is not required to be unit length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Transform maps the ray through m, keeping the direction unnormalized so hit times are preserved
func (r Ray) Transform(m Matrix4) Ray {
	return Ray{
		Origin:    m.MultiplyPoint(r.Origin),
		Direction: m.MultiplyVector(r.Direction),
	}
}
