package mathx

// Frustum plane order.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
	NumFrustumPlanes
)

// Frustum holds the six clip planes of a view volume. All plane normals
// point inward, so a point is inside when every signed distance is >= 0.
type Frustum struct {
	Planes [NumFrustumPlanes]Plane
}

// FrustumFromMatrix extracts the six planes from a view-projection matrix
// using the Gribb/Hartmann method, normalizing each plane so distances are
// in world units.
func FrustumFromMatrix(vp Mat4) Frustum {
	var f Frustum
	f.Planes[PlaneLeft] = planeFromRows(vp, 0, 1).normalized()
	f.Planes[PlaneRight] = planeFromRows(vp, 0, -1).normalized()
	f.Planes[PlaneBottom] = planeFromRows(vp, 1, 1).normalized()
	f.Planes[PlaneTop] = planeFromRows(vp, 1, -1).normalized()
	f.Planes[PlaneNear] = planeFromRows(vp, 2, 1).normalized()
	f.Planes[PlaneFar] = planeFromRows(vp, 2, -1).normalized()
	return f
}

// FrustumFromCamera is a convenience wrapper building the frustum of a
// perspective camera looking from eye toward target.
func FrustumFromCamera(eye, target, up Vector3, fovY, aspect, near, far float64) Frustum {
	vp := Perspective(fovY, aspect, near, far).Mul(LookAt(eye, target, up))
	return FrustumFromMatrix(vp)
}

// planeFromRows combines row 3 of the clip matrix with +/- row i.
func planeFromRows(m Mat4, i int, sign float64) Plane {
	return Plane{
		Normal: Vector3{
			X: m[3][0] + sign*m[i][0],
			Y: m[3][1] + sign*m[i][1],
			Z: m[3][2] + sign*m[i][2],
		},
		D: m[3][3] + sign*m[i][3],
	}
}

// ContainsPoint classifies a point against the frustum.
func (f Frustum) ContainsPoint(p Vector3) Intersection {
	for i := range f.Planes {
		if f.Planes[i].Distance(p) < 0 {
			return Outside
		}
	}
	return Inside
}

// Contains classifies a box against the frustum using the p/n-vertex test:
// per plane, the corner most aligned with the normal decides rejection and
// the opposite corner decides full containment.
func (f Frustum) Contains(box BoundingBox) Intersection {
	allInside := true
	for i := range f.Planes {
		pl := f.Planes[i]
		pv, nv := boxExtremes(box, pl.Normal)
		if pl.Distance(pv) < 0 {
			return Outside
		}
		if pl.Distance(nv) < 0 {
			allInside = false
		}
	}
	if allInside {
		return Inside
	}
	return Intersects
}

// ContainsFast reports whether the box is at least partially inside. Only
// definite outsiders are rejected; the test is conservative near corners.
func (f Frustum) ContainsFast(box BoundingBox) bool {
	for i := range f.Planes {
		pl := f.Planes[i]
		pv, _ := boxExtremes(box, pl.Normal)
		if pl.Distance(pv) < 0 {
			return false
		}
	}
	return true
}

// boxExtremes returns the positive vertex (corner most in the direction of
// the normal) and the negative vertex (opposite corner).
func boxExtremes(box BoundingBox, n Vector3) (pv, nv Vector3) {
	pv, nv = box.Min, box.Max
	if n.X >= 0 {
		pv.X, nv.X = box.Max.X, box.Min.X
	}
	if n.Y >= 0 {
		pv.Y, nv.Y = box.Max.Y, box.Min.Y
	}
	if n.Z >= 0 {
		pv.Z, nv.Z = box.Max.Z, box.Min.Z
	}
	return pv, nv
}
