// Package scene owns the concrete drawable model and the world: a
// mutex-guarded set of bodies indexed by a loose octree, with a fixed-rate
// tick loop that integrates motion and batches octree reinsertion.
package scene

import (
	"octoscene/internal/mathx"
	"octoscene/internal/octree"
)

// Body is the concrete drawable: an axis-aligned box with type and view
// masks and an optional velocity. All mutation goes through the owning
// World so octree bookkeeping stays consistent.
type Body struct {
	id   uint32
	name string

	center      mathx.Vector3
	halfExtents mathx.Vector3
	velocity    mathx.Vector3

	flags    uint8
	viewMask uint32
}

// ID returns the world-assigned identifier.
func (b *Body) ID() uint32 { return b.id }

// Name returns the optional display name.
func (b *Body) Name() string { return b.name }

// Center returns the current center position.
func (b *Body) Center() mathx.Vector3 { return b.center }

// Velocity returns the current velocity in units per second.
func (b *Body) Velocity() mathx.Vector3 { return b.velocity }

// WorldBoundingBox returns the body's world-space bounds.
func (b *Body) WorldBoundingBox() mathx.BoundingBox {
	return mathx.BoundingBox{
		Min: b.center.Sub(b.halfExtents),
		Max: b.center.Add(b.halfExtents),
	}
}

// DrawableFlags returns the type bits.
func (b *Body) DrawableFlags() uint8 { return b.flags }

// ViewMask returns the visibility mask.
func (b *Body) ViewMask() uint32 { return b.viewMask }

// BodySpec describes a body to add to the world. Zero Flags defaults to
// DrawableGeometry and zero ViewMask to DefaultViewMask.
type BodySpec struct {
	Name        string        `json:"name"`
	Center      mathx.Vector3 `json:"center"`
	HalfExtents mathx.Vector3 `json:"halfExtents"`
	Velocity    mathx.Vector3 `json:"velocity"`
	Flags       uint8         `json:"flags"`
	ViewMask    uint32        `json:"viewMask"`
}

func (s BodySpec) normalized() BodySpec {
	if s.Flags == 0 {
		s.Flags = octree.DrawableGeometry
	}
	if s.ViewMask == 0 {
		s.ViewMask = octree.DefaultViewMask
	}
	return s
}

// BodySnapshot is the lock-free view of a body handed to renderers and
// API responses.
type BodySnapshot struct {
	ID          uint32        `json:"id"`
	Name        string        `json:"name,omitempty"`
	Center      mathx.Vector3 `json:"center"`
	HalfExtents mathx.Vector3 `json:"halfExtents"`
	Velocity    mathx.Vector3 `json:"velocity"`
	Flags       uint8         `json:"flags"`
	ViewMask    uint32        `json:"viewMask"`
}

func (b *Body) snapshot() BodySnapshot {
	return BodySnapshot{
		ID:          b.id,
		Name:        b.name,
		Center:      b.center,
		HalfExtents: b.halfExtents,
		Velocity:    b.velocity,
		Flags:       b.flags,
		ViewMask:    b.viewMask,
	}
}
