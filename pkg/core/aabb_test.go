package core

import (
	"math"
	"testing"
)

func TestAABB_FromPointsResolvesExtrema(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, -2, 3), NewVec3(-1, 2, -3))

	for axis := 0; axis < 3; axis++ {
		interval := box.Axis(axis)
		if interval.Min > interval.Max {
			t.Errorf("Axis %d: min %f > max %f", axis, interval.Min, interval.Max)
		}
	}
	if !box.Min().Equals(NewVec3(-1, -2, -3)) || !box.Max().Equals(NewVec3(1, 2, 3)) {
		t.Errorf("Unexpected corners: min %v, max %v", box.Min(), box.Max())
	}
}

func TestAABB_UnionProperties(t *testing.T) {
	a := NewAABBFromPoints(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABBFromPoints(NewVec3(2, -1, 0.5), NewVec3(3, 0.5, 4))
	c := NewAABBFromPoints(NewVec3(-5, 2, 2), NewVec3(-4, 3, 3))

	if a.Union(b) != b.Union(a) {
		t.Errorf("Union not commutative: %v vs %v", a.Union(b), b.Union(a))
	}
	if a.Union(b).Union(c) != a.Union(b.Union(c)) {
		t.Errorf("Union not associative")
	}
	if a.Union(a) != a {
		t.Errorf("Union(A, A) should equal A, got %v", a.Union(a))
	}
	if a.Union(EmptyAABB()) != a {
		t.Errorf("Empty box should be the union identity, got %v", a.Union(EmptyAABB()))
	}
	if NewAABBFromBoxes(a, b) != a.Union(b) {
		t.Errorf("NewAABBFromBoxes should equal Union")
	}
}

func TestAABB_HitThroughCenter(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(-1, -2, -3), NewVec3(1, 2, 3))

	directions := []Vec3{
		NewVec3(1, 0, 0),
		NewVec3(0, -1, 0),
		NewVec3(0, 0, 1),
		NewVec3(1, 1, 1),
		NewVec3(-0.3, 0.7, -2),
	}

	intervals := []Interval{
		UniverseInterval(),
		NewInterval(0, math.Inf(1)),
		NewInterval(-0.5, 0.5),
		NewInterval(-1e-6, 1e-6),
	}

	for _, dir := range directions {
		for _, interval := range intervals {
			ray := NewRay(box.Center(), dir)
			if _, hit := box.Hit(ray, interval); !hit {
				t.Errorf("Ray from center along %v should hit over %v", dir, interval)
			}
		}
	}

	// A ray whose line passes through the center from outside
	ray := NewRay(NewVec3(0, 0, -10), NewVec3(0, 0, 1))
	narrowed, hit := box.Hit(ray, NewInterval(-20, 20))
	if !hit {
		t.Fatal("Ray through center from outside should hit")
	}
	if math.Abs(narrowed.Min-7) > 1e-12 || math.Abs(narrowed.Max-13) > 1e-12 {
		t.Errorf("Expected narrowed interval [7, 13], got %v", narrowed)
	}
}

func TestAABB_HitMisses(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		interval Interval
	}{
		{"Pointing away", NewRay(NewVec3(0.5, 0.5, -1), NewVec3(0, 0, -1)), NewInterval(0, math.Inf(1))},
		{"Passing beside", NewRay(NewVec3(2, 0.5, -1), NewVec3(0, 0, 1)), NewInterval(0, math.Inf(1))},
		{"Interval ends before box", NewRay(NewVec3(0.5, 0.5, -5), NewVec3(0, 0, 1)), NewInterval(0, 4)},
		{"Parallel outside slab", NewRay(NewVec3(-1, 0.5, 0.5), NewVec3(0, 1, 0)), UniverseInterval()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, hit := box.Hit(tt.ray, tt.interval); hit {
				t.Errorf("Expected miss")
			}
		})
	}
}

func TestAABB_ZeroDirectionComponents(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	// Parallel to X and Y, origin inside those slabs
	ray := NewRay(NewVec3(0.5, -0.5, -5), NewVec3(0, 0, 1))
	if _, hit := box.Hit(ray, NewInterval(0, math.Inf(1))); !hit {
		t.Error("Axis-parallel ray inside the other slabs should hit")
	}

	// Negative zero components must not panic either
	ray = NewRay(NewVec3(0.5, -0.5, 5), NewVec3(math.Copysign(0, -1), math.Copysign(0, -1), -1))
	if _, hit := box.Hit(ray, NewInterval(0, math.Inf(1))); !hit {
		t.Error("Ray with negative zero components should hit")
	}
}

func TestAABB_EmptyNeverHit(t *testing.T) {
	empty := EmptyAABB()
	rays := []Ray{
		NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)),
		NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 0)),
		NewRay(NewVec3(1, 2, 3), NewVec3(-1, -1, -1)),
	}
	for _, ray := range rays {
		if _, hit := empty.Hit(ray, UniverseInterval()); hit {
			t.Errorf("Empty box should never be hit by %v", ray)
		}
	}
	if empty.IsValid() {
		t.Error("Empty box should not be valid")
	}
}

func TestAABB_AxisPanicsOnInvalidIndex(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for invalid axis")
		}
	}()
	EmptyAABB().Axis(-1)
}
