package core

import (
	"fmt"
	"math"
)

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z Interval
}

// NewAABB creates a new AABB from its per-axis extents
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// EmptyAABB returns a box that contains nothing and is never hit.
// It is the identity for Union.
func EmptyAABB() AABB {
	return AABB{X: EmptyInterval(), Y: EmptyInterval(), Z: EmptyInterval()}
}

// NewAABBFromPoints creates the AABB spanned by two opposite corners given in any order
func NewAABBFromPoints(a, b Vec3) AABB {
	return AABB{
		X: NewInterval(math.Min(a.X, b.X), math.Max(a.X, b.X)),
		Y: NewInterval(math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)),
		Z: NewInterval(math.Min(a.Z, b.Z), math.Max(a.Z, b.Z)),
	}
}

// NewAABBFromBoxes returns the AABB enclosing both boxes
func NewAABBFromBoxes(a, b AABB) AABB {
	return a.Union(b)
}

// Axis returns the interval for axis 0 (X), 1 (Y) or 2 (Z).
// Any other index is a programming error and panics.
func (aabb AABB) Axis(i int) Interval {
	switch i {
	case 0:
		return aabb.X
	case 1:
		return aabb.Y
	case 2:
		return aabb.Z
	}
	panic(fmt.Sprintf("core: invalid AABB axis %d", i))
}

// Hit tests if a ray intersects with this AABB using the slab method.
// The returned interval is rayT narrowed to the span where the ray is inside the box;
// it is only meaningful when the second result is true.
func (aabb AABB) Hit(ray Ray, rayT Interval) (Interval, bool) {
	for axis := 0; axis < 3; axis++ {
		slab := aabb.Axis(axis)
		origin := ray.Origin.Axis(axis)

		// A zero direction component yields ±Inf here, which the comparisons below handle
		invDirection := 1.0 / ray.Direction.Axis(axis)

		var near, far float64
		if invDirection >= 0 {
			near = (slab.Min - origin) * invDirection
			far = (slab.Max - origin) * invDirection
		} else {
			near = (slab.Max - origin) * invDirection
			far = (slab.Min - origin) * invDirection
		}

		if near > rayT.Min {
			rayT.Min = near
		}
		if far < rayT.Max {
			rayT.Max = far
		}

		if rayT.Max <= rayT.Min {
			return rayT, false
		}
	}

	return rayT, true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		X: IntervalUnion(aabb.X, other.X),
		Y: IntervalUnion(aabb.Y, other.Y),
		Z: IntervalUnion(aabb.Z, other.Z),
	}
}

// Min returns the minimum corner
func (aabb AABB) Min() Vec3 {
	return NewVec3(aabb.X.Min, aabb.Y.Min, aabb.Z.Min)
}

// Max returns the maximum corner
func (aabb AABB) Max() Vec3 {
	return NewVec3(aabb.X.Max, aabb.Y.Max, aabb.Z.Max)
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min().Add(aabb.Max()).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return NewVec3(aabb.X.Size(), aabb.Y.Size(), aabb.Z.Size())
}

// IsValid returns true if min <= max on every axis
func (aabb AABB) IsValid() bool {
	return !aabb.X.IsEmpty() && !aabb.Y.IsEmpty() && !aabb.Z.IsEmpty()
}

// IsEmpty returns true if the box contains no points
func (aabb AABB) IsEmpty() bool {
	return !aabb.IsValid()
}
