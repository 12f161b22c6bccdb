// Package octree implements a hierarchical spatial index over drawables:
// a loose octree with configurable subdivision depth, shape-based queries
// (point, sphere, box, frustum, all-content) sharing one traversal, and
// distance-sorted raycasts.
//
// The octree is not goroutine-safe; callers serialize access (the scene
// world guards it with its own lock).
package octree

import "octoscene/internal/mathx"

// Drawable flag bits. A query's drawable mask must share at least one bit
// with a drawable's flags for the drawable to be considered.
const (
	DrawableGeometry uint8 = 0x1
	DrawableLight    uint8 = 0x2
	DrawableZone     uint8 = 0x4
	DrawableAny      uint8 = 0xff
)

// DefaultViewMask accepts every view.
const DefaultViewMask uint32 = 0xffffffff

// Drawable is anything with a world-space bounding volume that can be
// indexed and queried. Implementations are read, never mutated, by the
// octree and its queries.
type Drawable interface {
	// WorldBoundingBox returns the current world-space bounds.
	WorldBoundingBox() mathx.BoundingBox
	// DrawableFlags returns the type bits (DrawableGeometry etc).
	DrawableFlags() uint8
	// ViewMask returns the visibility mask matched against query masks.
	ViewMask() uint32
}
