package mathx

import (
	"math"
	"testing"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float64) BoundingBox {
	return BoundingBox{
		Min: Vector3{X: minX, Y: minY, Z: minZ},
		Max: Vector3{X: maxX, Y: maxY, Z: maxZ},
	}
}

func TestBoundingBoxContains(t *testing.T) {
	outer := box(-10, -10, -10, 10, 10, 10)

	tests := []struct {
		name string
		o    BoundingBox
		want Intersection
	}{
		{"fully inside", box(-1, -1, -1, 1, 1, 1), Inside},
		{"identical", outer, Inside},
		{"straddles one face", box(5, -1, -1, 15, 1, 1), Intersects},
		{"straddles corner", box(8, 8, 8, 12, 12, 12), Intersects},
		{"outside positive x", box(11, -1, -1, 12, 1, 1), Outside},
		{"outside negative y", box(-1, -20, -1, 1, -11, 1), Outside},
		{"touching face", box(10, -1, -1, 12, 1, 1), Intersects},
		{"larger than outer", box(-20, -20, -20, 20, 20, 20), Intersects},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.o); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.o, got, tt.want)
			}

			wantFast := tt.want != Outside
			if got := outer.ContainsFast(tt.o); got != wantFast {
				t.Errorf("ContainsFast(%v) = %v, want %v", tt.o, got, wantFast)
			}
		})
	}
}

func TestBoundingBoxContainsPoint(t *testing.T) {
	b := box(0, 0, 0, 4, 4, 4)

	if got := b.ContainsPoint(Vector3{X: 2, Y: 2, Z: 2}); got != Inside {
		t.Errorf("center point = %v, want inside", got)
	}
	if got := b.ContainsPoint(Vector3{X: 4, Y: 4, Z: 4}); got != Inside {
		t.Errorf("corner point = %v, want inside", got)
	}
	if got := b.ContainsPoint(Vector3{X: 5, Y: 2, Z: 2}); got != Outside {
		t.Errorf("outside point = %v, want outside", got)
	}
}

func TestBoundingBoxMerge(t *testing.T) {
	b := EmptyBox()
	if b.Defined() {
		t.Fatal("empty box should be undefined")
	}

	b = b.MergePoint(Vector3{X: 1, Y: 2, Z: 3})
	if !b.Defined() {
		t.Fatal("box should be defined after merging a point")
	}
	if b.Min != b.Max {
		t.Errorf("single-point box: min %v != max %v", b.Min, b.Max)
	}

	b = b.Merge(box(-5, 0, 0, 0, 1, 1))
	want := box(-5, 0, 0, 1, 2, 3)
	if b != want {
		t.Errorf("merged box = %v, want %v", b, want)
	}
}

func TestBoundingBoxCenterSize(t *testing.T) {
	b := box(-2, -4, -6, 2, 4, 6)

	if c := b.Center(); c != (Vector3{}) {
		t.Errorf("center = %v, want origin", c)
	}
	if s := b.Size(); s != (Vector3{X: 4, Y: 8, Z: 12}) {
		t.Errorf("size = %v", s)
	}
	if h := b.HalfSize(); h != (Vector3{X: 2, Y: 4, Z: 6}) {
		t.Errorf("half size = %v", h)
	}
}

func TestBoundingBoxDistanceToPoint(t *testing.T) {
	b := box(0, 0, 0, 2, 2, 2)

	if d := b.DistanceToPoint(Vector3{X: 1, Y: 1, Z: 1}); d != 0 {
		t.Errorf("inside distance = %v, want 0", d)
	}
	if d := b.DistanceToPoint(Vector3{X: 5, Y: 1, Z: 1}); d != 3 {
		t.Errorf("face distance = %v, want 3", d)
	}
	got := b.DistanceToPoint(Vector3{X: 5, Y: 6, Z: 1})
	want := 5.0 // 3-4-5 triangle off the edge
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("edge distance = %v, want %v", got, want)
	}
}

func TestSphereContains(t *testing.T) {
	s := Sphere{Center: Vector3{}, Radius: 10}

	tests := []struct {
		name string
		box  BoundingBox
		want Intersection
	}{
		{"small box at center", box(-1, -1, -1, 1, 1, 1), Inside},
		{"box past radius on x", box(11, -1, -1, 13, 1, 1), Outside},
		{"box crossing surface", box(8, -1, -1, 12, 1, 1), Intersects},
		{"corner outside radius", box(6, 6, 6, 8, 8, 8), Intersects},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.box); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.box, got, tt.want)
			}
			wantFast := tt.want != Outside
			if got := s.ContainsFast(tt.box); got != wantFast {
				t.Errorf("ContainsFast(%v) = %v, want %v", tt.box, got, wantFast)
			}
		})
	}

	if got := s.ContainsPoint(Vector3{X: 9.9}); got != Inside {
		t.Error("point just inside radius should be contained")
	}
	if got := s.ContainsPoint(Vector3{X: 10.1}); got != Outside {
		t.Error("point past radius should not be contained")
	}
}

func TestVector3Ops(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: 4, Y: -5, Z: 6}

	if got := a.Dot(b); got != 12 {
		t.Errorf("dot = %v, want 12", got)
	}
	cross := a.Cross(b)
	if cross != (Vector3{X: 27, Y: 6, Z: -13}) {
		t.Errorf("cross = %v", cross)
	}
	// Cross product is perpendicular to both inputs.
	if cross.Dot(a) != 0 || cross.Dot(b) != 0 {
		t.Errorf("cross %v not perpendicular to inputs", cross)
	}

	n := Vector3{X: 3, Y: 4, Z: 0}.Normalized()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %v", n.Length())
	}
}
