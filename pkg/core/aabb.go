package core

import "math"

// AABB represents an axis-aligned bounding box. Components may be infinite.
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that acts as the identity for Union
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// InfiniteAABB returns a box covering all of space
func InfiniteAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{-inf, -inf, -inf},
		Max: Vec3{inf, inf, inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box.Min = MinVec(box.Min, point)
		box.Max = MaxVec(box.Max, point)
	}
	return box
}

// Hit tests if a ray intersects with this AABB inside [tMin, tMax] using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		lo := aabb.Min.Component(axis)
		hi := aabb.Max.Component(axis)
		origin := ray.Origin.Component(axis)
		direction := ray.Direction.Component(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-12 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: MinVec(aabb.Min, other.Min),
		Max: MaxVec(aabb.Max, other.Max),
	}
}

// Contains reports whether other lies entirely inside this box
func (aabb AABB) Contains(other AABB) bool {
	return aabb.Min.X <= other.Min.X && aabb.Min.Y <= other.Min.Y && aabb.Min.Z <= other.Min.Z &&
		aabb.Max.X >= other.Max.X && aabb.Max.Y >= other.Max.Y && aabb.Max.Z >= other.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0 // X axis
	}
	if size.Y > size.Z {
		return 1 // Y axis
	}
	return 2 // Z axis
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// IsInfinite reports whether any bound is infinite
func (aabb AABB) IsInfinite() bool {
	for axis := 0; axis < 3; axis++ {
		if math.IsInf(aabb.Min.Component(axis), 0) || math.IsInf(aabb.Max.Component(axis), 0) {
			return true
		}
	}
	return false
}

// Corners returns the eight corners of the box
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := 0; i < 8; i++ {
		c := aabb.Min
		if i&1 != 0 {
			c.X = aabb.Max.X
		}
		if i&2 != 0 {
			c.Y = aabb.Max.Y
		}
		if i&4 != 0 {
			c.Z = aabb.Max.Z
		}
		corners[i] = c
	}
	return corners
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
