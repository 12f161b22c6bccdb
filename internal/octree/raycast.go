package octree

import (
	"math"
	"sort"

	"octoscene/internal/mathx"
)

// RayQueryResult is one ray hit.
type RayQueryResult struct {
	Drawable Drawable
	Position mathx.Vector3
	Distance float64
}

// RayQuery describes a raycast through the octree.
type RayQuery struct {
	Ray           mathx.Ray
	MaxDistance   float64
	DrawableFlags uint8
	ViewMask      uint32

	result *[]RayQueryResult
}

// NewRayQuery constructs a ray query. A non-positive maxDistance means
// unbounded.
func NewRayQuery(result *[]RayQueryResult, ray mathx.Ray, maxDistance float64, drawableFlags uint8, viewMask uint32) *RayQuery {
	if maxDistance <= 0 {
		maxDistance = math.Inf(1)
	}
	return &RayQuery{
		Ray:           ray,
		MaxDistance:   maxDistance,
		DrawableFlags: drawableFlags,
		ViewMask:      viewMask,
		result:        result,
	}
}

// RayHittable lets a drawable refine the default bounding-box hit with a
// more precise test (oriented bounds, triangles). Implementations append
// zero or more results; returning without appending rejects the hit.
type RayHittable interface {
	ProcessRayQuery(q *RayQuery, results *[]RayQueryResult)
}

// Raycast returns every drawable hit within the query's max distance,
// sorted nearest first.
func (t *Octree) Raycast(q *RayQuery) {
	t.root.raycast(q)
	sort.Slice(*q.result, func(i, j int) bool {
		return (*q.result)[i].Distance < (*q.result)[j].Distance
	})
}

// RaycastSingle returns only the nearest hit, or ok=false on a miss.
func (t *Octree) RaycastSingle(ray mathx.Ray, maxDistance float64, drawableFlags uint8, viewMask uint32) (RayQueryResult, bool) {
	var results []RayQueryResult
	q := NewRayQuery(&results, ray, maxDistance, drawableFlags, viewMask)
	t.root.raycast(q)

	best := RayQueryResult{Distance: math.Inf(1)}
	for _, r := range results {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best, best.Drawable != nil
}

func (o *Octant) raycast(q *RayQuery) {
	if o != o.tree.root {
		if q.Ray.HitDistance(o.cullingBox) >= q.MaxDistance {
			return
		}
	}

	for _, d := range o.drawables {
		if d.DrawableFlags()&q.DrawableFlags == 0 || d.ViewMask()&q.ViewMask == 0 {
			continue
		}
		if h, ok := d.(RayHittable); ok {
			h.ProcessRayQuery(q, q.result)
			continue
		}
		dist := q.Ray.HitDistance(d.WorldBoundingBox())
		if dist < q.MaxDistance {
			*q.result = append(*q.result, RayQueryResult{
				Drawable: d,
				Position: q.Ray.Point(dist),
				Distance: dist,
			})
		}
	}

	for _, c := range o.children {
		if c != nil {
			c.raycast(q)
		}
	}
}
