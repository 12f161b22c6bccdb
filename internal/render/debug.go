// Package render draws top-down debug frames of the world: octant
// partitions as wireframes, bodies as filled boxes, and an optional query
// shape overlay. Frames project the X/Z plane; Y is ignored.
package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"octoscene/internal/mathx"
	"octoscene/internal/scene"
)

// Overlay highlights a query volume on top of the frame.
type Overlay struct {
	Sphere *mathx.Sphere
	Box    *mathx.BoundingBox
}

// Frame renders a world snapshot to a gg context of the given size.
func Frame(snap scene.WorldSnapshot, width, height int, overlay *Overlay) *gg.Context {
	dc := gg.NewContext(width, height)

	// Background
	dc.SetRGB(0.07, 0.07, 0.1)
	dc.Clear()

	p := projector{bounds: snap.Bounds, width: float64(width), height: float64(height)}

	// Octant wireframes, fainter with depth
	for _, oct := range snap.Octants {
		x0, y0 := p.point(oct.Box.Min.X, oct.Box.Min.Z)
		x1, y1 := p.point(oct.Box.Max.X, oct.Box.Max.Z)
		alpha := 0.55 / float64(oct.Level+1)
		dc.SetRGBA(0.4, 0.7, 1.0, alpha)
		dc.SetLineWidth(1)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		dc.Stroke()
	}

	// Bodies
	for _, b := range snap.Bodies {
		box := mathx.BoundingBox{
			Min: b.Center.Sub(b.HalfExtents),
			Max: b.Center.Add(b.HalfExtents),
		}
		x0, y0 := p.point(box.Min.X, box.Min.Z)
		x1, y1 := p.point(box.Max.X, box.Max.Z)
		dc.SetRGBA(0.95, 0.6, 0.2, 0.8)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		dc.Fill()
	}

	if overlay != nil {
		drawOverlay(dc, p, overlay)
	}

	// Corner caption with occupancy
	dc.SetRGB(0.8, 0.8, 0.8)
	caption := fmt.Sprintf("tick %d  bodies %d  octants %d  depth %d",
		snap.Tick, len(snap.Bodies), snap.Octree.NumOctants, snap.Octree.MaxDepth)
	dc.DrawString(caption, 8, float64(height)-8)

	return dc
}

// PNG renders a frame and encodes it.
func PNG(snap scene.WorldSnapshot, width, height int, overlay *Overlay) ([]byte, error) {
	dc := Frame(snap, width, height, overlay)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render: encoding frame: %w", err)
	}
	return buf.Bytes(), nil
}

func drawOverlay(dc *gg.Context, p projector, overlay *Overlay) {
	dc.SetLineWidth(2)
	if overlay.Sphere != nil {
		s := overlay.Sphere
		cx, cy := p.point(s.Center.X, s.Center.Z)
		dc.SetRGBA(0.2, 1.0, 0.4, 0.9)
		dc.DrawCircle(cx, cy, s.Radius*p.scaleX())
		dc.Stroke()
	}
	if overlay.Box != nil {
		b := overlay.Box
		x0, y0 := p.point(b.Min.X, b.Min.Z)
		x1, y1 := p.point(b.Max.X, b.Max.Z)
		dc.SetRGBA(0.2, 1.0, 0.4, 0.9)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		dc.Stroke()
	}
}

// projector maps world X/Z to pixel coordinates.
type projector struct {
	bounds        mathx.BoundingBox
	width, height float64
}

func (p projector) point(x, z float64) (float64, float64) {
	size := p.bounds.Size()
	if size.X == 0 || size.Z == 0 {
		return 0, 0
	}
	px := (x - p.bounds.Min.X) / size.X * p.width
	py := (z - p.bounds.Min.Z) / size.Z * p.height
	return px, py
}

func (p projector) scaleX() float64 {
	size := p.bounds.Size()
	if size.X == 0 {
		return 1
	}
	return p.width / size.X
}
