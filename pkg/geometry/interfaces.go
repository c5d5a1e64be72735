package geometry

import (
	"fmt"

	"github.com/df07/go-halide/pkg/core"
	"github.com/df07/go-halide/pkg/material"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3       // Point of intersection
	Normal    core.Vec3       // Unit surface normal, always facing against the ray
	T         float64         // Parameter t along the ray
	FrontFace bool            // Whether ray hit the front face
	Material  material.Handle // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal is assumed to have unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Interaction returns the part of the record a material scatters from
func (h HitRecord) Interaction() material.Interaction {
	return material.Interaction{Point: h.Point, Normal: h.Normal, FrontFace: h.FrontFace}
}

// Kind identifies the variant held by a Hittable
type Kind uint8

const (
	KindSphere Kind = iota + 1
	KindList
	KindBVH
)

// String returns the lowercase variant name
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindList:
		return "list"
	case KindBVH:
		return "bvh"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Hittable is anything a ray can intersect: a sphere, a list of hittables or a BVH node.
// The set of variants is closed; Hit and BoundingBox switch on Kind directly.
// The zero Hittable is invalid.
type Hittable struct {
	kind   Kind
	sphere *Sphere
	list   *List
	node   *BVHNode
}

// FromSphere wraps a sphere
func FromSphere(s *Sphere) Hittable {
	return Hittable{kind: KindSphere, sphere: s}
}

// FromList wraps a list
func FromList(l *List) Hittable {
	return Hittable{kind: KindList, list: l}
}

// FromBVH wraps a BVH node
func FromBVH(n *BVHNode) Hittable {
	return Hittable{kind: KindBVH, node: n}
}

// Kind returns the variant held
func (h Hittable) Kind() Kind {
	return h.kind
}

// Sphere returns the wrapped sphere, or nil for other variants
func (h Hittable) Sphere() *Sphere {
	return h.sphere
}

// List returns the wrapped list, or nil for other variants
func (h Hittable) List() *List {
	return h.list
}

// BVH returns the wrapped node, or nil for other variants
func (h Hittable) BVH() *BVHNode {
	return h.node
}

// Hit returns the closest intersection with t strictly inside rayT
func (h Hittable) Hit(ray core.Ray, rayT core.Interval) (HitRecord, bool) {
	switch h.kind {
	case KindSphere:
		return h.sphere.Hit(ray, rayT)
	case KindList:
		return h.list.Hit(ray, rayT)
	case KindBVH:
		return h.node.Hit(ray, rayT)
	}
	panic(fmt.Sprintf("geometry: unknown hittable kind %d", h.kind))
}

// BoundingBox returns the precomputed bounds of the variant
func (h Hittable) BoundingBox() core.AABB {
	switch h.kind {
	case KindSphere:
		return h.sphere.BoundingBox()
	case KindList:
		return h.list.BoundingBox()
	case KindBVH:
		return h.node.BoundingBox()
	}
	panic(fmt.Sprintf("geometry: unknown hittable kind %d", h.kind))
}
