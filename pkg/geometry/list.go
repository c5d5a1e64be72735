package geometry

import (
	"github.com/df07/go-halide/pkg/core"
)

// List is a flat collection of hittables tested one after another
type List struct {
	objects []Hittable
	bbox    core.AABB
}

// NewList creates a list holding the given objects
func NewList(objects ...Hittable) *List {
	l := &List{bbox: core.EmptyAABB()}
	for _, object := range objects {
		l.Add(object)
	}
	return l
}

// Add appends an object and grows the bounding box.
// Lists are only modified while a scene is being built.
func (l *List) Add(object Hittable) {
	l.objects = append(l.objects, object)
	l.bbox = l.bbox.Union(object.BoundingBox())
}

// Objects returns the objects in insertion order
func (l *List) Objects() []Hittable {
	return l.objects
}

// Len returns the number of objects
func (l *List) Len() int {
	return len(l.objects)
}

// Hit returns the nearest hit over all objects
func (l *List) Hit(ray core.Ray, rayT core.Interval) (HitRecord, bool) {
	var closestHit HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for _, object := range l.objects {
		if hit, isHit := object.Hit(ray, core.NewInterval(rayT.Min, closestSoFar)); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

// BoundingBox returns the union of all object boxes
func (l *List) BoundingBox() core.AABB {
	return l.bbox
}
