package mathx

import "math"

// Sphere is a center/radius bounding volume.
type Sphere struct {
	Center Vector3
	Radius float64
}

// ContainsPoint classifies a point against the sphere.
func (s Sphere) ContainsPoint(p Vector3) Intersection {
	if p.Sub(s.Center).LengthSquared() > s.Radius*s.Radius {
		return Outside
	}
	return Inside
}

// Contains classifies a box against the sphere.
//
// Outside requires the closest box point to lie beyond the radius. Inside
// requires every box corner within the radius, which is checked via the
// corner farthest from the center; anything else intersects.
func (s Sphere) Contains(box BoundingBox) Intersection {
	r2 := s.Radius * s.Radius

	// Closest point on the box to the sphere center.
	closest := s.Center.Max(box.Min).Min(box.Max)
	if closest.Sub(s.Center).LengthSquared() > r2 {
		return Outside
	}

	// Farthest corner from the sphere center.
	var far Vector3
	far.X = farAxis(s.Center.X, box.Min.X, box.Max.X)
	far.Y = farAxis(s.Center.Y, box.Min.Y, box.Max.Y)
	far.Z = farAxis(s.Center.Z, box.Min.Z, box.Max.Z)
	if far.Sub(s.Center).LengthSquared() <= r2 {
		return Inside
	}
	return Intersects
}

// ContainsFast reports whether the sphere and box overlap at all.
func (s Sphere) ContainsFast(box BoundingBox) bool {
	closest := s.Center.Max(box.Min).Min(box.Max)
	return closest.Sub(s.Center).LengthSquared() <= s.Radius*s.Radius
}

// BoundingBox returns the tight axis-aligned box around the sphere.
func (s Sphere) BoundingBox() BoundingBox {
	r := Vector3{s.Radius, s.Radius, s.Radius}
	return BoundingBox{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// farAxis picks whichever of lo/hi is farther from c on one axis.
func farAxis(c, lo, hi float64) float64 {
	if math.Abs(lo-c) > math.Abs(hi-c) {
		return lo
	}
	return hi
}
