package octree

import (
	"fmt"

	"octoscene/internal/mathx"
)

const (
	// DefaultLevels is the default maximum subdivision depth.
	DefaultLevels = 8
	// maxLevels caps depth to keep octant boxes numerically sane.
	maxLevels = 32
)

// Octant is one node of the octree. Its culling box is the world box grown
// by half an octant on every side (a loose octree), so a drawable centered
// in the octant can overhang without being pushed to the parent.
type Octant struct {
	worldBox   mathx.BoundingBox
	cullingBox mathx.BoundingBox
	center     mathx.Vector3
	halfSize   mathx.Vector3
	level      int
	index      int

	drawables []Drawable
	children  [8]*Octant
	parent    *Octant
	tree      *Octree

	// numDrawables counts this octant's drawables plus all descendants'.
	// Branches are deleted when the count returns to zero.
	numDrawables int
}

func newOctant(box mathx.BoundingBox, level, index int, parent *Octant, tree *Octree) *Octant {
	half := box.HalfSize()
	return &Octant{
		worldBox: box,
		cullingBox: mathx.BoundingBox{
			Min: box.Min.Sub(half),
			Max: box.Max.Add(half),
		},
		center:   box.Center(),
		halfSize: half,
		level:    level,
		index:    index,
		parent:   parent,
		tree:     tree,
	}
}

// WorldBoundingBox returns the octant's tight bounds.
func (o *Octant) WorldBoundingBox() mathx.BoundingBox { return o.worldBox }

// CullingBox returns the loose bounds used for query and raycast tests.
func (o *Octant) CullingBox() mathx.BoundingBox { return o.cullingBox }

// Level returns the subdivision depth, zero at the root.
func (o *Octant) Level() int { return o.level }

// checkFit decides whether a drawable box should be stored in this octant
// rather than a child: at max depth, when the box is at least half the
// octant size on any axis, or when it straddles the child culling bounds.
func (o *Octant) checkFit(box mathx.BoundingBox) bool {
	size := box.Size()
	if o.level >= o.tree.numLevels ||
		size.X >= o.halfSize.X || size.Y >= o.halfSize.Y || size.Z >= o.halfSize.Z {
		return true
	}
	if box.Min.X <= o.worldBox.Min.X-0.5*o.halfSize.X ||
		box.Max.X >= o.worldBox.Max.X+0.5*o.halfSize.X ||
		box.Min.Y <= o.worldBox.Min.Y-0.5*o.halfSize.Y ||
		box.Max.Y >= o.worldBox.Max.Y+0.5*o.halfSize.Y ||
		box.Min.Z <= o.worldBox.Min.Z-0.5*o.halfSize.Z ||
		box.Max.Z >= o.worldBox.Max.Z+0.5*o.halfSize.Z {
		return true
	}
	return false
}

// insert places a drawable in this octant or descends into the child
// octant holding the box center.
func (o *Octant) insert(d Drawable, box mathx.BoundingBox) {
	var insertHere bool
	if o == o.tree.root {
		// The root keeps anything not fully inside its culling box, so
		// out-of-bounds drawables remain queryable.
		insertHere = o.cullingBox.Contains(box) != mathx.Inside || o.checkFit(box)
	} else {
		insertHere = o.checkFit(box)
	}

	if insertHere {
		old := o.tree.octants[d]
		if old != o {
			// Add before removing so the branch count never touches zero.
			o.addDrawable(d)
			if old != nil {
				old.removeDrawable(d)
			}
		}
		return
	}

	c := box.Center()
	idx := 0
	if c.X >= o.center.X {
		idx |= 1
	}
	if c.Y >= o.center.Y {
		idx |= 2
	}
	if c.Z >= o.center.Z {
		idx |= 4
	}
	o.childOctant(idx).insert(d, box)
}

// childOctant returns the child at index, creating it on first use.
// Index bits select the half along each axis: 1 = +X, 2 = +Y, 4 = +Z.
func (o *Octant) childOctant(index int) *Octant {
	if c := o.children[index]; c != nil {
		return c
	}

	newMin := o.worldBox.Min
	newMax := o.worldBox.Max
	if index&1 != 0 {
		newMin.X = o.center.X
	} else {
		newMax.X = o.center.X
	}
	if index&2 != 0 {
		newMin.Y = o.center.Y
	} else {
		newMax.Y = o.center.Y
	}
	if index&4 != 0 {
		newMin.Z = o.center.Z
	} else {
		newMax.Z = o.center.Z
	}

	c := newOctant(mathx.BoundingBox{Min: newMin, Max: newMax}, o.level+1, index, o, o.tree)
	o.children[index] = c
	return c
}

func (o *Octant) addDrawable(d Drawable) {
	o.drawables = append(o.drawables, d)
	o.tree.octants[d] = o
	for oct := o; oct != nil; oct = oct.parent {
		oct.numDrawables++
	}
}

func (o *Octant) removeDrawable(d Drawable) {
	for i, other := range o.drawables {
		if other == d {
			last := len(o.drawables) - 1
			o.drawables[i] = o.drawables[last]
			o.drawables[last] = nil
			o.drawables = o.drawables[:last]
			o.decDrawableCount()
			return
		}
	}
}

// decDrawableCount walks toward the root decrementing subtree counts and
// pruning any branch that empties out.
func (o *Octant) decDrawableCount() {
	for oct := o; oct != nil; oct = oct.parent {
		oct.numDrawables--
		if oct.numDrawables == 0 && oct.parent != nil {
			oct.parent.children[oct.index] = nil
		}
	}
}

// getDrawables is the shared recursive traversal behind every query shape.
// An octant fully inside the query volume flips the inside flag so its
// whole subtree is accepted without further octant tests.
func (o *Octant) getDrawables(q Query, inside bool) {
	if o != o.tree.root {
		switch q.TestOctant(o.cullingBox, inside) {
		case mathx.Inside:
			inside = true
		case mathx.Outside:
			return
		}
	}

	if len(o.drawables) > 0 {
		q.TestDrawables(o.drawables, inside)
	}

	for _, c := range o.children {
		if c != nil {
			c.getDrawables(q, inside)
		}
	}
}

// Octree is a loose octree over a fixed world volume.
type Octree struct {
	root      *Octant
	numLevels int

	// octants tracks which octant currently stores each drawable.
	octants map[Drawable]*Octant

	// dirty holds drawables whose bounds changed since the last Update.
	dirty map[Drawable]struct{}
}

// New creates an octree spanning box with the given maximum subdivision
// depth. Depth is clamped to at least 1.
func New(box mathx.BoundingBox, numLevels int) *Octree {
	t := &Octree{
		octants: make(map[Drawable]*Octant),
		dirty:   make(map[Drawable]struct{}),
	}
	t.setSize(box, numLevels)
	return t
}

func (t *Octree) setSize(box mathx.BoundingBox, numLevels int) {
	if numLevels < 1 {
		numLevels = 1
	}
	if numLevels > maxLevels {
		numLevels = maxLevels
	}
	t.numLevels = numLevels
	t.root = newOctant(box, 0, 0, nil, t)
}

// SetSize rebuilds the octree over new bounds, reinserting every drawable.
func (t *Octree) SetSize(box mathx.BoundingBox, numLevels int) {
	existing := make([]Drawable, 0, len(t.octants))
	for d := range t.octants {
		existing = append(existing, d)
	}

	t.octants = make(map[Drawable]*Octant, len(existing))
	t.setSize(box, numLevels)

	for _, d := range existing {
		t.root.insert(d, d.WorldBoundingBox())
	}
}

// Insert adds a drawable to the index. Inserting a drawable that is
// already present reinserts it at its current bounds.
func (t *Octree) Insert(d Drawable) error {
	if d == nil {
		return fmt.Errorf("octree: drawable is nil")
	}
	box := d.WorldBoundingBox()
	if !box.Defined() {
		return fmt.Errorf("octree: drawable has undefined bounding box")
	}
	t.root.insert(d, box)
	return nil
}

// Remove detaches a drawable from the index. Unknown drawables are a no-op.
func (t *Octree) Remove(d Drawable) {
	oct := t.octants[d]
	if oct == nil {
		return
	}
	oct.removeDrawable(d)
	delete(t.octants, d)
	delete(t.dirty, d)
}

// QueueUpdate marks a drawable for reinsertion on the next Update call.
// Batching moves this way keeps per-tick cost at one reinsertion per moved
// drawable regardless of how often it moved within the tick.
func (t *Octree) QueueUpdate(d Drawable) {
	if _, known := t.octants[d]; known {
		t.dirty[d] = struct{}{}
	}
}

// Update reinserts every queued drawable. A drawable whose box still fits
// its current octant stays put.
func (t *Octree) Update() {
	for d := range t.dirty {
		delete(t.dirty, d)
		oct := t.octants[d]
		if oct == nil {
			continue
		}
		box := d.WorldBoundingBox()
		if oct != t.root && oct.cullingBox.Contains(box) == mathx.Inside && oct.checkFit(box) {
			continue
		}
		t.root.insert(d, box)
	}
}

// Contains reports whether the drawable is currently indexed.
func (t *Octree) Contains(d Drawable) bool {
	_, ok := t.octants[d]
	return ok
}

// DrawableCount returns the number of indexed drawables.
func (t *Octree) DrawableCount() int { return len(t.octants) }

// NumLevels returns the maximum subdivision depth.
func (t *Octree) NumLevels() int { return t.numLevels }

// WorldBounds returns the root octant's bounds.
func (t *Octree) WorldBounds() mathx.BoundingBox { return t.root.worldBox }

// GetDrawables runs a query, appending matches to the query's result sink.
func (t *Octree) GetDrawables(q Query) {
	t.root.getDrawables(q, false)
}

// WalkOctants visits every live octant, passing its tight box, level and
// own drawable count. Used by the debug renderer and stats.
func (t *Octree) WalkOctants(visit func(box mathx.BoundingBox, level, drawables int)) {
	t.root.walk(visit)
}

func (o *Octant) walk(visit func(box mathx.BoundingBox, level, drawables int)) {
	visit(o.worldBox, o.level, len(o.drawables))
	for _, c := range o.children {
		if c != nil {
			c.walk(visit)
		}
	}
}

// Stats summarizes octree occupancy for diagnostics.
type Stats struct {
	NumOctants   int   `json:"numOctants"`
	NumDrawables int   `json:"numDrawables"`
	MaxDepth     int   `json:"maxDepth"`
	PerLevel     []int `json:"drawablesPerLevel"`
}

// Stats walks the tree and returns occupancy counters.
func (t *Octree) Stats() Stats {
	s := Stats{
		NumDrawables: len(t.octants),
		PerLevel:     make([]int, t.numLevels+1),
	}
	t.WalkOctants(func(_ mathx.BoundingBox, level, drawables int) {
		s.NumOctants++
		if level > s.MaxDepth {
			s.MaxDepth = level
		}
		if level < len(s.PerLevel) {
			s.PerLevel[level] += drawables
		}
	})
	return s
}
