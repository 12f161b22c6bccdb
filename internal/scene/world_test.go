package scene

import (
	"math"
	"testing"

	"octoscene/internal/mathx"
	"octoscene/internal/octree"
)

func testWorld(extent float64, maxBodies int) *World {
	return NewWorld(WorldConfig{
		Bounds: mathx.BoundingBox{
			Min: mathx.Vector3{X: -extent, Y: -extent, Z: -extent},
			Max: mathx.Vector3{X: extent, Y: extent, Z: extent},
		},
		TickRate:  10,
		MaxBodies: maxBodies,
	})
}

func TestAddRemoveBody(t *testing.T) {
	w := testWorld(100, 0)

	snap, err := w.AddBody(BodySpec{
		Name:        "crate",
		Center:      mathx.Vector3{X: 5},
		HalfExtents: mathx.Vector3{X: 1, Y: 1, Z: 1},
	})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if snap.ID == 0 {
		t.Error("id should be assigned")
	}
	if snap.Flags != octree.DrawableGeometry {
		t.Errorf("flags = %#x, want geometry default", snap.Flags)
	}
	if snap.ViewMask != octree.DefaultViewMask {
		t.Errorf("view mask = %#x, want default", snap.ViewMask)
	}
	if w.BodyCount() != 1 {
		t.Fatalf("body count = %d, want 1", w.BodyCount())
	}

	got, ok := w.Body(snap.ID)
	if !ok || got.Name != "crate" {
		t.Errorf("Body(%d) = %+v, %v", snap.ID, got, ok)
	}

	if !w.RemoveBody(snap.ID) {
		t.Fatal("remove returned false")
	}
	if w.RemoveBody(snap.ID) {
		t.Error("second remove should return false")
	}
	if w.BodyCount() != 0 {
		t.Errorf("body count after remove = %d", w.BodyCount())
	}
}

func TestAddBodyValidation(t *testing.T) {
	w := testWorld(100, 2)

	if _, err := w.AddBody(BodySpec{HalfExtents: mathx.Vector3{X: 1, Y: -1, Z: 1}}); err == nil {
		t.Error("negative extents accepted")
	}
	if _, err := w.AddBody(BodySpec{HalfExtents: mathx.Vector3{}}); err == nil {
		t.Error("zero extents accepted")
	}

	ok := BodySpec{HalfExtents: mathx.Vector3{X: 1, Y: 1, Z: 1}}
	for i := 0; i < 2; i++ {
		if _, err := w.AddBody(ok); err != nil {
			t.Fatalf("AddBody %d: %v", i, err)
		}
	}
	if _, err := w.AddBody(ok); err == nil {
		t.Error("body cap not enforced")
	}
}

func TestMoveBodyUpdatesQueries(t *testing.T) {
	w := testWorld(100, 0)

	snap, err := w.AddBody(BodySpec{
		Center:      mathx.Vector3{X: -50},
		HalfExtents: mathx.Vector3{X: 1, Y: 1, Z: 1},
	})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	if !w.MoveBody(snap.ID, mathx.Vector3{X: 50}) {
		t.Fatal("move returned false")
	}

	hits := w.QuerySphere(mathx.Sphere{Center: mathx.Vector3{X: 50}, Radius: 5}, octree.DrawableAny, octree.DefaultViewMask)
	if len(hits) != 1 {
		t.Fatalf("hits at new position = %d, want 1", len(hits))
	}
	if hits[0].Center.X != 50 {
		t.Errorf("snapshot center = %v", hits[0].Center)
	}

	old := w.QuerySphere(mathx.Sphere{Center: mathx.Vector3{X: -50}, Radius: 5}, octree.DrawableAny, octree.DefaultViewMask)
	if len(old) != 0 {
		t.Error("body still found at old position")
	}

	if w.MoveBody(9999, mathx.Vector3{}) {
		t.Error("moving unknown body should return false")
	}
}

func TestTickIntegratesMotion(t *testing.T) {
	w := testWorld(100, 0)

	snap, err := w.AddBody(BodySpec{
		Center:      mathx.Vector3{},
		HalfExtents: mathx.Vector3{X: 1, Y: 1, Z: 1},
		Velocity:    mathx.Vector3{X: 10},
	})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	// 10 TPS means each tick advances 1/10 s.
	for i := 0; i < 5; i++ {
		w.tick()
	}

	got, _ := w.Body(snap.ID)
	if math.Abs(got.Center.X-5) > 1e-9 {
		t.Errorf("center after 5 ticks = %v, want x=5", got.Center)
	}
	if w.TickCount() != 5 {
		t.Errorf("tick count = %d, want 5", w.TickCount())
	}

	// The octree followed the motion.
	hits := w.QueryPoint(got.Center, octree.DrawableAny, octree.DefaultViewMask)
	if len(hits) != 1 {
		t.Errorf("point query at new center = %d hits", len(hits))
	}
}

func TestTickBouncesAtBounds(t *testing.T) {
	w := testWorld(10, 0)

	snap, err := w.AddBody(BodySpec{
		Center:      mathx.Vector3{X: 8.5},
		HalfExtents: mathx.Vector3{X: 1, Y: 1, Z: 1},
		Velocity:    mathx.Vector3{X: 10},
	})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	w.tick() // moves to 9.5, box max 10.5 > 10, velocity flips

	got, _ := w.Body(snap.ID)
	if got.Velocity.X != -10 {
		t.Errorf("velocity after bounce = %v, want x=-10", got.Velocity)
	}
}

func TestSetVelocity(t *testing.T) {
	w := testWorld(100, 0)

	snap, err := w.AddBody(BodySpec{HalfExtents: mathx.Vector3{X: 1, Y: 1, Z: 1}})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	if !w.SetVelocity(snap.ID, mathx.Vector3{Y: 3}) {
		t.Fatal("SetVelocity returned false")
	}
	got, _ := w.Body(snap.ID)
	if got.Velocity != (mathx.Vector3{Y: 3}) {
		t.Errorf("velocity = %v", got.Velocity)
	}
	if w.SetVelocity(9999, mathx.Vector3{}) {
		t.Error("unknown body should return false")
	}
}

func TestSnapshot(t *testing.T) {
	w := testWorld(100, 0)

	for i := 0; i < 20; i++ {
		if _, err := w.AddBody(BodySpec{
			Center:      mathx.Vector3{X: float64(i*8 - 80), Y: 40, Z: -40},
			HalfExtents: mathx.Vector3{X: 0.5, Y: 0.5, Z: 0.5},
		}); err != nil {
			t.Fatalf("AddBody %d: %v", i, err)
		}
	}

	snap := w.Snapshot()
	if len(snap.Bodies) != 20 {
		t.Errorf("snapshot bodies = %d, want 20", len(snap.Bodies))
	}
	if snap.Octree.NumDrawables != 20 {
		t.Errorf("octree drawables = %d, want 20", snap.Octree.NumDrawables)
	}
	if len(snap.Octants) != snap.Octree.NumOctants {
		t.Errorf("octant list %d does not match stats %d", len(snap.Octants), snap.Octree.NumOctants)
	}
	if snap.Bounds != w.Bounds() {
		t.Error("snapshot bounds mismatch")
	}

	// Mutating the snapshot must not affect the world.
	snap.Bodies[0].Center = mathx.Vector3{X: 999}
	for _, b := range w.Snapshot().Bodies {
		if b.Center.X == 999 {
			t.Fatal("snapshot aliases world state")
		}
	}
}

func TestQueryShapes(t *testing.T) {
	w := testWorld(100, 0)

	inSphere, err := w.AddBody(BodySpec{
		Center:      mathx.Vector3{X: 10},
		HalfExtents: mathx.Vector3{X: 1, Y: 1, Z: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddBody(BodySpec{
		Center:      mathx.Vector3{X: -80},
		HalfExtents: mathx.Vector3{X: 1, Y: 1, Z: 1},
	}); err != nil {
		t.Fatal(err)
	}

	t.Run("sphere", func(t *testing.T) {
		hits := w.QuerySphere(mathx.Sphere{Center: mathx.Vector3{X: 10}, Radius: 5}, octree.DrawableAny, octree.DefaultViewMask)
		if len(hits) != 1 || hits[0].ID != inSphere.ID {
			t.Errorf("sphere hits = %+v", hits)
		}
	})

	t.Run("box", func(t *testing.T) {
		box := mathx.BoundingBox{
			Min: mathx.Vector3{X: 5, Y: -5, Z: -5},
			Max: mathx.Vector3{X: 15, Y: 5, Z: 5},
		}
		hits := w.QueryBox(box, octree.DrawableAny, octree.DefaultViewMask)
		if len(hits) != 1 {
			t.Errorf("box hits = %d, want 1", len(hits))
		}
	})

	t.Run("frustum", func(t *testing.T) {
		f := mathx.FrustumFromCamera(
			mathx.Vector3{X: 10, Z: 50},
			mathx.Vector3{X: 10},
			mathx.Vector3{Y: 1},
			math.Pi/2, 1, 1, 100,
		)
		hits := w.QueryFrustum(f, octree.DrawableAny, octree.DefaultViewMask)
		if len(hits) != 1 {
			t.Errorf("frustum hits = %d, want 1", len(hits))
		}
	})

	t.Run("all", func(t *testing.T) {
		hits := w.QueryAll(octree.DrawableAny, octree.DefaultViewMask)
		if len(hits) != 2 {
			t.Errorf("all hits = %d, want 2", len(hits))
		}
	})

	t.Run("raycast", func(t *testing.T) {
		ray := mathx.NewRay(mathx.Vector3{X: -100}, mathx.Vector3{X: 1})
		hits := w.Raycast(ray, 0, octree.DrawableAny, octree.DefaultViewMask)
		if len(hits) != 2 {
			t.Fatalf("ray hits = %d, want 2", len(hits))
		}
		if hits[0].Distance >= hits[1].Distance {
			t.Error("ray hits not sorted nearest first")
		}
		if hits[0].Body.Center.X != -80 {
			t.Errorf("nearest hit body at %v, want x=-80", hits[0].Body.Center)
		}
	})
}

func TestStartStop(t *testing.T) {
	w := testWorld(100, 0)
	w.Start()
	w.Start() // second call is a no-op
	w.Stop()
	w.Stop() // safe to call twice
}
