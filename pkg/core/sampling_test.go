package core

import (
	"math"
	"testing"
)

func TestRandomUnitVector_IsUnitLength(t *testing.T) {
	sampler := NewSeededSampler(42)
	var sum Vec3
	const n = 2000
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit vector, got length %f", v.Length())
		}
		sum = sum.Add(v)
	}

	// Uniform on the sphere: the mean should be close to the origin
	mean := sum.Divide(n)
	if mean.Length() > 0.1 {
		t.Errorf("Mean of unit vectors too far from origin: %v", mean)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(7)
	for i := 0; i < 500; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample should lie in z=0, got %v", p)
		}
		if p.LengthSquared() >= 1 {
			t.Fatalf("Disk sample outside unit disk: %v", p)
		}
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(7)
	for i := 0; i < 500; i++ {
		if p := RandomInUnitSphere(sampler); p.LengthSquared() >= 1 {
			t.Fatalf("Sphere sample outside unit sphere: %v", p)
		}
	}
}

func TestSeededSampler_Reproducible(t *testing.T) {
	a := NewSeededSampler(99)
	b := NewSeededSampler(99)
	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed should produce identical streams")
		}
	}
}
