package octree

import "octoscene/internal/mathx"

// Query is implemented once per query shape and consumed by the shared
// octree traversal. TestOctant classifies an octant's culling box against
// the query volume; TestDrawables appends matching drawables to the result
// sink, trivially accepting when the enclosing octant was fully inside.
type Query interface {
	TestOctant(box mathx.BoundingBox, inside bool) mathx.Intersection
	TestDrawables(drawables []Drawable, inside bool)
}

// queryBase carries the pieces every shape shares: the append-only result
// sink and the drawable/view mask filters.
type queryBase struct {
	result        *[]Drawable
	drawableFlags uint8
	viewMask      uint32
}

// matches applies the mask filters common to all shapes.
func (q *queryBase) matches(d Drawable) bool {
	return d.DrawableFlags()&q.drawableFlags != 0 && d.ViewMask()&q.viewMask != 0
}

// PointQuery collects drawables whose world bounds contain a point.
type PointQuery struct {
	queryBase
	Point mathx.Vector3
}

// NewPointQuery constructs a point query appending into result.
func NewPointQuery(result *[]Drawable, point mathx.Vector3, drawableFlags uint8, viewMask uint32) *PointQuery {
	return &PointQuery{
		queryBase: queryBase{result: result, drawableFlags: drawableFlags, viewMask: viewMask},
		Point:     point,
	}
}

func (q *PointQuery) TestOctant(box mathx.BoundingBox, inside bool) mathx.Intersection {
	if inside {
		return mathx.Inside
	}
	return box.ContainsPoint(q.Point)
}

func (q *PointQuery) TestDrawables(drawables []Drawable, inside bool) {
	for _, d := range drawables {
		if !q.matches(d) {
			continue
		}
		if inside || d.WorldBoundingBox().ContainsPoint(q.Point) == mathx.Inside {
			*q.result = append(*q.result, d)
		}
	}
}

// SphereQuery collects drawables whose world bounds touch a sphere.
type SphereQuery struct {
	queryBase
	Sphere mathx.Sphere
}

// NewSphereQuery constructs a sphere query appending into result.
func NewSphereQuery(result *[]Drawable, sphere mathx.Sphere, drawableFlags uint8, viewMask uint32) *SphereQuery {
	return &SphereQuery{
		queryBase: queryBase{result: result, drawableFlags: drawableFlags, viewMask: viewMask},
		Sphere:    sphere,
	}
}

func (q *SphereQuery) TestOctant(box mathx.BoundingBox, inside bool) mathx.Intersection {
	if inside {
		return mathx.Inside
	}
	return q.Sphere.Contains(box)
}

func (q *SphereQuery) TestDrawables(drawables []Drawable, inside bool) {
	for _, d := range drawables {
		if !q.matches(d) {
			continue
		}
		if inside || q.Sphere.ContainsFast(d.WorldBoundingBox()) {
			*q.result = append(*q.result, d)
		}
	}
}

// BoxQuery collects drawables whose world bounds touch a box.
type BoxQuery struct {
	queryBase
	Box mathx.BoundingBox
}

// NewBoxQuery constructs a box query appending into result.
func NewBoxQuery(result *[]Drawable, box mathx.BoundingBox, drawableFlags uint8, viewMask uint32) *BoxQuery {
	return &BoxQuery{
		queryBase: queryBase{result: result, drawableFlags: drawableFlags, viewMask: viewMask},
		Box:       box,
	}
}

func (q *BoxQuery) TestOctant(box mathx.BoundingBox, inside bool) mathx.Intersection {
	if inside {
		return mathx.Inside
	}
	return q.Box.Contains(box)
}

func (q *BoxQuery) TestDrawables(drawables []Drawable, inside bool) {
	for _, d := range drawables {
		if !q.matches(d) {
			continue
		}
		if inside || q.Box.ContainsFast(d.WorldBoundingBox()) {
			*q.result = append(*q.result, d)
		}
	}
}

// FrustumQuery collects drawables whose world bounds touch a view frustum.
// This is the visibility-culling workhorse.
type FrustumQuery struct {
	queryBase
	Frustum mathx.Frustum
}

// NewFrustumQuery constructs a frustum query appending into result.
func NewFrustumQuery(result *[]Drawable, frustum mathx.Frustum, drawableFlags uint8, viewMask uint32) *FrustumQuery {
	return &FrustumQuery{
		queryBase: queryBase{result: result, drawableFlags: drawableFlags, viewMask: viewMask},
		Frustum:   frustum,
	}
}

func (q *FrustumQuery) TestOctant(box mathx.BoundingBox, inside bool) mathx.Intersection {
	if inside {
		return mathx.Inside
	}
	return q.Frustum.Contains(box)
}

func (q *FrustumQuery) TestDrawables(drawables []Drawable, inside bool) {
	for _, d := range drawables {
		if !q.matches(d) {
			continue
		}
		if inside || q.Frustum.ContainsFast(d.WorldBoundingBox()) {
			*q.result = append(*q.result, d)
		}
	}
}

// AllContentQuery collects every drawable passing the mask filters,
// without any shape test.
type AllContentQuery struct {
	queryBase
}

// NewAllContentQuery constructs an all-content query appending into result.
func NewAllContentQuery(result *[]Drawable, drawableFlags uint8, viewMask uint32) *AllContentQuery {
	return &AllContentQuery{
		queryBase: queryBase{result: result, drawableFlags: drawableFlags, viewMask: viewMask},
	}
}

func (q *AllContentQuery) TestOctant(mathx.BoundingBox, bool) mathx.Intersection {
	return mathx.Inside
}

func (q *AllContentQuery) TestDrawables(drawables []Drawable, _ bool) {
	for _, d := range drawables {
		if q.matches(d) {
			*q.result = append(*q.result, d)
		}
	}
}
