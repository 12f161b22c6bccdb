package scene

import (
	"fmt"
	"log"
	"sync"
	"time"

	"octoscene/internal/mathx"
	"octoscene/internal/octree"
)

// WorldConfig sizes the world and its octree.
type WorldConfig struct {
	Bounds    mathx.BoundingBox
	NumLevels int // octree subdivision depth
	TickRate  int // ticks per second for the motion loop
	MaxBodies int // hard cap, rejects adds beyond it
}

// World owns the bodies and their octree. Reads and writes are serialized
// by one RWMutex; queries take the read lock only.
type World struct {
	mu     sync.RWMutex
	bodies map[uint32]*Body
	tree   *octree.Octree
	nextID uint32

	bounds    mathx.BoundingBox
	maxBodies int

	tickRate  int
	tickCount int64
	running   bool
	ticker    *time.Ticker
	stopChan  chan struct{}

	// OnTick, when set, receives the duration of each tick. Used to feed
	// metrics without the world importing the API layer.
	OnTick func(time.Duration)
}

// NewWorld creates a world over the configured bounds.
func NewWorld(cfg WorldConfig) *World {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if cfg.NumLevels <= 0 {
		cfg.NumLevels = octree.DefaultLevels
	}
	return &World{
		bodies:    make(map[uint32]*Body),
		tree:      octree.New(cfg.Bounds, cfg.NumLevels),
		bounds:    cfg.Bounds,
		maxBodies: cfg.MaxBodies,
		tickRate:  cfg.TickRate,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the tick loop. Calling Start on a running world is a no-op.
func (w *World) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.ticker = time.NewTicker(time.Second / time.Duration(w.tickRate))

	go func() {
		for {
			select {
			case <-w.ticker.C:
				start := time.Now()
				w.tick()
				if w.OnTick != nil {
					w.OnTick(time.Since(start))
				}
			case <-w.stopChan:
				return
			}
		}
	}()

	log.Printf("world started at %d TPS, octree levels=%d", w.tickRate, w.tree.NumLevels())
}

// Stop halts the tick loop. Safe to call twice.
func (w *World) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	if w.ticker != nil {
		w.ticker.Stop()
	}
	close(w.stopChan)
	log.Println("world stopped")
}

// tick integrates body motion, bounces at the world bounds, and flushes
// the octree's reinsertion queue once for the whole batch.
func (w *World) tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tickCount++
	dt := 1.0 / float64(w.tickRate)

	for _, b := range w.bodies {
		if b.velocity == (mathx.Vector3{}) {
			continue
		}
		b.center = b.center.Add(b.velocity.Scale(dt))
		w.bounce(b)
		w.tree.QueueUpdate(b)
	}

	w.tree.Update()
}

// bounce reflects velocity when a body's box leaves the world bounds.
func (w *World) bounce(b *Body) {
	box := b.WorldBoundingBox()
	if box.Min.X < w.bounds.Min.X || box.Max.X > w.bounds.Max.X {
		b.velocity.X = -b.velocity.X
	}
	if box.Min.Y < w.bounds.Min.Y || box.Max.Y > w.bounds.Max.Y {
		b.velocity.Y = -b.velocity.Y
	}
	if box.Min.Z < w.bounds.Min.Z || box.Max.Z > w.bounds.Max.Z {
		b.velocity.Z = -b.velocity.Z
	}
}

// AddBody creates a body and indexes it. Fails when the body cap is
// reached or the spec has non-positive extents.
func (w *World) AddBody(spec BodySpec) (BodySnapshot, error) {
	spec = spec.normalized()
	if spec.HalfExtents.X <= 0 || spec.HalfExtents.Y <= 0 || spec.HalfExtents.Z <= 0 {
		return BodySnapshot{}, fmt.Errorf("scene: half extents must be positive, got %+v", spec.HalfExtents)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.maxBodies > 0 && len(w.bodies) >= w.maxBodies {
		return BodySnapshot{}, fmt.Errorf("scene: body limit reached (%d)", w.maxBodies)
	}

	w.nextID++
	b := &Body{
		id:          w.nextID,
		name:        spec.Name,
		center:      spec.Center,
		halfExtents: spec.HalfExtents,
		velocity:    spec.Velocity,
		flags:       spec.Flags,
		viewMask:    spec.ViewMask,
	}

	if err := w.tree.Insert(b); err != nil {
		return BodySnapshot{}, err
	}
	w.bodies[b.id] = b
	return b.snapshot(), nil
}

// RemoveBody detaches a body. Returns false for unknown ids.
func (w *World) RemoveBody(id uint32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.bodies[id]
	if !ok {
		return false
	}
	w.tree.Remove(b)
	delete(w.bodies, id)
	return true
}

// MoveBody repositions a body and queues its reinsertion.
func (w *World) MoveBody(id uint32, center mathx.Vector3) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.bodies[id]
	if !ok {
		return false
	}
	b.center = center
	w.tree.QueueUpdate(b)
	w.tree.Update()
	return true
}

// SetVelocity changes a body's velocity.
func (w *World) SetVelocity(id uint32, velocity mathx.Vector3) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.bodies[id]
	if !ok {
		return false
	}
	b.velocity = velocity
	return true
}

// Body returns a snapshot of one body.
func (w *World) Body(id uint32) (BodySnapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, ok := w.bodies[id]
	if !ok {
		return BodySnapshot{}, false
	}
	return b.snapshot(), true
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

// Bounds returns the world bounds.
func (w *World) Bounds() mathx.BoundingBox { return w.bounds }

// TickCount returns the number of completed ticks.
func (w *World) TickCount() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tickCount
}

// OctantSnapshot is one live octant for diagnostics and debug rendering.
type OctantSnapshot struct {
	Box       mathx.BoundingBox `json:"box"`
	Level     int               `json:"level"`
	Drawables int               `json:"drawables"`
}

// WorldSnapshot is an immutable copy of world state for lock-free
// consumers (renderer, API, websocket broadcasts).
type WorldSnapshot struct {
	Tick    int64             `json:"tick"`
	Bounds  mathx.BoundingBox `json:"bounds"`
	Bodies  []BodySnapshot    `json:"bodies"`
	Octants []OctantSnapshot  `json:"octants"`
	Octree  octree.Stats      `json:"octree"`
}

// Snapshot copies the current world state.
func (w *World) Snapshot() WorldSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snap := WorldSnapshot{
		Tick:   w.tickCount,
		Bounds: w.bounds,
		Bodies: make([]BodySnapshot, 0, len(w.bodies)),
		Octree: w.tree.Stats(),
	}
	for _, b := range w.bodies {
		snap.Bodies = append(snap.Bodies, b.snapshot())
	}
	w.tree.WalkOctants(func(box mathx.BoundingBox, level, drawables int) {
		snap.Octants = append(snap.Octants, OctantSnapshot{Box: box, Level: level, Drawables: drawables})
	})
	return snap
}

// OctreeStats returns occupancy counters without a full snapshot.
func (w *World) OctreeStats() octree.Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tree.Stats()
}

// QueryPoint returns bodies whose bounds contain the point.
func (w *World) QueryPoint(p mathx.Vector3, flags uint8, viewMask uint32) []BodySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var result []octree.Drawable
	w.tree.GetDrawables(octree.NewPointQuery(&result, p, flags, viewMask))
	return w.toSnapshots(result)
}

// QuerySphere returns bodies touching the sphere.
func (w *World) QuerySphere(s mathx.Sphere, flags uint8, viewMask uint32) []BodySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var result []octree.Drawable
	w.tree.GetDrawables(octree.NewSphereQuery(&result, s, flags, viewMask))
	return w.toSnapshots(result)
}

// QueryBox returns bodies touching the box.
func (w *World) QueryBox(box mathx.BoundingBox, flags uint8, viewMask uint32) []BodySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var result []octree.Drawable
	w.tree.GetDrawables(octree.NewBoxQuery(&result, box, flags, viewMask))
	return w.toSnapshots(result)
}

// QueryFrustum returns bodies touching the frustum.
func (w *World) QueryFrustum(f mathx.Frustum, flags uint8, viewMask uint32) []BodySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var result []octree.Drawable
	w.tree.GetDrawables(octree.NewFrustumQuery(&result, f, flags, viewMask))
	return w.toSnapshots(result)
}

// QueryAll returns every body passing the mask filters.
func (w *World) QueryAll(flags uint8, viewMask uint32) []BodySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var result []octree.Drawable
	w.tree.GetDrawables(octree.NewAllContentQuery(&result, flags, viewMask))
	return w.toSnapshots(result)
}

// RayHit is one raycast hit with its body snapshot.
type RayHit struct {
	Body     BodySnapshot  `json:"body"`
	Position mathx.Vector3 `json:"position"`
	Distance float64       `json:"distance"`
}

// Raycast returns all hits along the ray sorted nearest first.
func (w *World) Raycast(ray mathx.Ray, maxDistance float64, flags uint8, viewMask uint32) []RayHit {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var results []octree.RayQueryResult
	w.tree.Raycast(octree.NewRayQuery(&results, ray, maxDistance, flags, viewMask))

	hits := make([]RayHit, 0, len(results))
	for _, r := range results {
		b, ok := r.Drawable.(*Body)
		if !ok {
			continue
		}
		hits = append(hits, RayHit{Body: b.snapshot(), Position: r.Position, Distance: r.Distance})
	}
	return hits
}

func (w *World) toSnapshots(drawables []octree.Drawable) []BodySnapshot {
	out := make([]BodySnapshot, 0, len(drawables))
	for _, d := range drawables {
		if b, ok := d.(*Body); ok {
			out = append(out, b.snapshot())
		}
	}
	return out
}
