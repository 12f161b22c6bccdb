package mathx

// Plane is the half-space ax + by + cz + d = 0. The normal points toward
// the "inside" side, so positive distances mean inside.
type Plane struct {
	Normal Vector3
	D      float64
}

// Distance returns the signed distance from a point to the plane.
func (p Plane) Distance(pt Vector3) float64 {
	return p.Normal.Dot(pt) + p.D
}

// normalized returns the plane scaled so Distance yields true world units.
// A degenerate plane (zero normal) is returned unchanged.
func (p Plane) normalized() Plane {
	l := p.Normal.Length()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), D: p.D / l}
}
