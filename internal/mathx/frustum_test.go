package mathx

import (
	"math"
	"testing"
)

// testFrustum is a camera at the origin looking down -Z with a 90 degree
// vertical field of view, square aspect, near 1 and far 100.
func testFrustum() Frustum {
	return FrustumFromCamera(
		Vector3{},
		Vector3{Z: -1},
		Vector3{Y: 1},
		math.Pi/2, 1, 1, 100,
	)
}

func TestFrustumContainsPoint(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name string
		p    Vector3
		want Intersection
	}{
		{"in front of camera", Vector3{Z: -50}, Inside},
		{"behind camera", Vector3{Z: 10}, Outside},
		{"closer than near plane", Vector3{Z: -0.5}, Outside},
		{"beyond far plane", Vector3{Z: -200}, Outside},
		{"inside left edge", Vector3{X: -40, Z: -50}, Inside},
		{"past left edge", Vector3{X: -60, Z: -50}, Outside},
		{"inside top edge", Vector3{Y: 40, Z: -50}, Inside},
		{"past bottom edge", Vector3{Y: -60, Z: -50}, Outside},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsPoint(tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestFrustumContainsBox(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name string
		box  BoundingBox
		want Intersection
	}{
		{"deep inside", box(-5, -5, -55, 5, 5, -45), Inside},
		{"behind camera", box(-5, -5, 45, 5, 5, 55), Outside},
		{"straddles near plane", box(-1, -1, -3, 1, 1, 3), Intersects},
		{"straddles far plane", box(-5, -5, -120, 5, 5, -80), Intersects},
		{"straddles side plane", box(40, -5, -55, 60, 5, -45), Intersects},
		{"far to the side", box(200, -5, -55, 220, 5, -45), Outside},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Contains(tt.box); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.box, got, tt.want)
			}
			wantFast := tt.want != Outside
			if got := f.ContainsFast(tt.box); got != wantFast {
				t.Errorf("ContainsFast(%v) = %v, want %v", tt.box, got, wantFast)
			}
		})
	}
}

func TestFrustumPlanesNormalized(t *testing.T) {
	f := testFrustum()
	for i, pl := range f.Planes {
		if l := pl.Normal.Length(); math.Abs(l-1) > 1e-9 {
			t.Errorf("plane %d normal length = %v, want 1", i, l)
		}
	}
}

func TestRayHitDistance(t *testing.T) {
	b := box(-1, -1, -1, 1, 1, 1)

	tests := []struct {
		name string
		ray  Ray
		want float64
	}{
		{"origin inside", NewRay(Vector3{}, Vector3{X: 1}), 0},
		{"head-on from +x", NewRay(Vector3{X: 5}, Vector3{X: -1}), 4},
		{"pointing away", NewRay(Vector3{X: 5}, Vector3{X: 1}), math.Inf(1)},
		{"parallel miss", NewRay(Vector3{X: 5, Y: 5}, Vector3{Z: 1}), math.Inf(1)},
		{"grazing corner axis", NewRay(Vector3{X: 1, Y: 0, Z: 5}, Vector3{Z: -1}), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ray.HitDistance(b)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("HitDistance = %v, want +Inf", got)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("HitDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayHitDistanceDiagonal(t *testing.T) {
	b := box(2, 2, 2, 4, 4, 4)
	r := NewRay(Vector3{}, Vector3{X: 1, Y: 1, Z: 1})

	got := r.HitDistance(b)
	want := Vector3{X: 2, Y: 2, Z: 2}.Length()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("diagonal hit = %v, want %v", got, want)
	}

	// The computed entry point lies on the box surface.
	entry := r.Point(got)
	if b.DistanceToPoint(entry) > 1e-9 {
		t.Errorf("entry point %v not on box surface", entry)
	}
}
