package mathx

import "math"

// Ray is a half-line from Origin along a unit Direction.
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay constructs a ray, normalizing the direction.
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalized()}
}

// Point returns the point at parametric distance t along the ray.
func (r Ray) Point(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// HitDistance returns the distance at which the ray enters the box, using
// the slab method. Returns 0 when the origin is already inside and +Inf on
// a miss.
func (r Ray) HitDistance(box BoundingBox) float64 {
	if box.ContainsPoint(r.Origin) == Inside {
		return 0
	}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	axes := [3][3]float64{
		{r.Origin.X, r.Direction.X, 0},
		{r.Origin.Y, r.Direction.Y, 0},
		{r.Origin.Z, r.Direction.Z, 0},
	}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		o, d := axes[i][0], axes[i][1]
		if d == 0 {
			// Parallel to the slab: miss unless the origin is within it.
			if o < lo[i] || o > hi[i] {
				return math.Inf(1)
			}
			continue
		}
		t1 := (lo[i] - o) / d
		t2 := (hi[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return math.Inf(1)
		}
	}

	if tMax < 0 {
		return math.Inf(1)
	}
	if tMin < 0 {
		return 0
	}
	return tMin
}
