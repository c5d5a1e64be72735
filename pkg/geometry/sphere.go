package geometry

import (
	"math"

	"github.com/df07/go-halide/pkg/core"
	"github.com/df07/go-halide/pkg/material"
)

// Sphere represents a sphere shape. A moving sphere travels linearly from
// Center to Center+Motion over shutter time [0,1].
type Sphere struct {
	Center   core.Vec3
	Motion   core.Vec3
	Radius   float64
	Material material.Handle
	bbox     core.AABB
}

// NewSphere creates a new stationary sphere
func NewSphere(center core.Vec3, radius float64, mat material.Handle) *Sphere {
	radius = math.Max(0, radius)
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
		bbox:     sphereBox(center, radius),
	}
}

// NewMovingSphere creates a sphere at center0 at time 0 and center1 at time 1
func NewMovingSphere(center0, center1 core.Vec3, radius float64, mat material.Handle) *Sphere {
	radius = math.Max(0, radius)
	return &Sphere{
		Center:   center0,
		Motion:   center1.Subtract(center0),
		Radius:   radius,
		Material: mat,
		bbox:     sphereBox(center0, radius).Union(sphereBox(center1, radius)),
	}
}

func sphereBox(center core.Vec3, radius float64) core.AABB {
	r := core.NewVec3(radius, radius, radius)
	return core.NewAABBFromPoints(center.Subtract(r), center.Add(r))
}

// IsMoving reports whether the sphere has a motion path
func (s *Sphere) IsMoving() bool {
	return !s.Motion.Equals(core.Vec3{})
}

// CenterAt returns the center at shutter time t
func (s *Sphere) CenterAt(time float64) core.Vec3 {
	return s.Center.Add(s.Motion.Multiply(time))
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, rayT core.Interval) (HitRecord, bool) {
	// A zero-radius sphere has no surface normal
	if s.Radius <= 0 {
		return HitRecord{}, false
	}

	center := s.Center
	if s.IsMoving() {
		center = s.CenterAt(ray.Time)
	}

	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Find the nearest root that lies in the acceptable range
	root := (-halfB - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (-halfB + sqrtD) / a
		if !rayT.Surrounds(root) {
			return HitRecord{}, false
		}
	}

	hit := HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Calculate outward normal (from center to hit point)
	outwardNormal := hit.Point.Subtract(center).Divide(s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere over the whole shutter interval
func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}
