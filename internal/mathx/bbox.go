package mathx

import "math"

// Intersection classifies the result of a volume containment test.
type Intersection int

const (
	// Outside means the tested volume is completely outside.
	Outside Intersection = iota
	// Intersects means the tested volume crosses the boundary.
	Intersects
	// Inside means the tested volume is completely contained.
	Inside
)

// String returns a bounded label suitable for logs and metrics.
func (i Intersection) String() string {
	switch i {
	case Outside:
		return "outside"
	case Intersects:
		return "intersects"
	case Inside:
		return "inside"
	}
	return "unknown"
}

// BoundingBox is an axis-aligned box defined by its minimum and maximum
// corners. A box with Min > Max on any axis is undefined (empty).
type BoundingBox struct {
	Min, Max Vector3
}

// NewBoundingBox constructs a box from explicit corners.
func NewBoundingBox(min, max Vector3) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// EmptyBox returns an undefined box that any Merge will overwrite.
func EmptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Vector3{inf, inf, inf},
		Max: Vector3{-inf, -inf, -inf},
	}
}

// Defined reports whether the box encloses any volume at all.
func (b BoundingBox) Defined() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Center returns the box center point.
func (b BoundingBox) Center() Vector3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents on each axis.
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// HalfSize returns half the box extents on each axis.
func (b BoundingBox) HalfSize() Vector3 {
	return b.Size().Scale(0.5)
}

// MergePoint grows the box to contain a point.
func (b BoundingBox) MergePoint(p Vector3) BoundingBox {
	return BoundingBox{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Merge grows the box to contain another box.
func (b BoundingBox) Merge(o BoundingBox) BoundingBox {
	return BoundingBox{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// ContainsPoint classifies a point against the box. A point can never
// straddle the boundary, so the result is Inside or Outside.
func (b BoundingBox) ContainsPoint(p Vector3) Intersection {
	if p.X < b.Min.X || p.X > b.Max.X ||
		p.Y < b.Min.Y || p.Y > b.Max.Y ||
		p.Z < b.Min.Z || p.Z > b.Max.Z {
		return Outside
	}
	return Inside
}

// Contains classifies another box against this box: Outside when the boxes
// do not overlap, Inside when o is fully enclosed, Intersects otherwise.
func (b BoundingBox) Contains(o BoundingBox) Intersection {
	if o.Max.X < b.Min.X || o.Min.X > b.Max.X ||
		o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y ||
		o.Max.Z < b.Min.Z || o.Min.Z > b.Max.Z {
		return Outside
	}
	if o.Min.X < b.Min.X || o.Max.X > b.Max.X ||
		o.Min.Y < b.Min.Y || o.Max.Y > b.Max.Y ||
		o.Min.Z < b.Min.Z || o.Max.Z > b.Max.Z {
		return Intersects
	}
	return Inside
}

// ContainsFast reports whether o overlaps this box at all. Used for narrow
// drawable tests where distinguishing Inside from Intersects buys nothing.
func (b BoundingBox) ContainsFast(o BoundingBox) bool {
	return o.Max.X >= b.Min.X && o.Min.X <= b.Max.X &&
		o.Max.Y >= b.Min.Y && o.Min.Y <= b.Max.Y &&
		o.Max.Z >= b.Min.Z && o.Min.Z <= b.Max.Z
}

// DistanceToPoint returns the distance from a point to the box surface,
// zero when the point is inside.
func (b BoundingBox) DistanceToPoint(p Vector3) float64 {
	dx := math.Max(0, math.Max(b.Min.X-p.X, p.X-b.Max.X))
	dy := math.Max(0, math.Max(b.Min.Y-p.Y, p.Y-b.Max.Y))
	dz := math.Max(0, math.Max(b.Min.Z-p.Z, p.Z-b.Max.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
