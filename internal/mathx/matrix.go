package mathx

import "math"

// Mat4 is a row-major 4x4 matrix. It exists to build view-projection
// matrices for frustum extraction; it is not a general math library.
type Mat4 [4][4]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j] + m[i][3]*o[3][j]
		}
	}
	return r
}

// MulPoint transforms a point, applying the perspective divide.
func (m Mat4) MulPoint(v Vector3) Vector3 {
	x := m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]
	y := m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]
	z := m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]
	w := m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]
	if w != 0 && w != 1 {
		return Vector3{x / w, y / w, z / w}
	}
	return Vector3{x, y, z}
}

// Perspective builds a right-handed perspective projection.
// fovY is the vertical field of view in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	var m Mat4
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = (far + near) / (near - far)
	m[2][3] = 2 * far * near / (near - far)
	m[3][2] = -1
	return m
}

// LookAt builds a right-handed view matrix from an eye position, a target
// point and an up direction.
func LookAt(eye, target, up Vector3) Mat4 {
	fwd := target.Sub(eye).Normalized()
	side := fwd.Cross(up).Normalized()
	upv := side.Cross(fwd)

	return Mat4{
		{side.X, side.Y, side.Z, -side.Dot(eye)},
		{upv.X, upv.Y, upv.Z, -upv.Dot(eye)},
		{-fwd.X, -fwd.Y, -fwd.Z, fwd.Dot(eye)},
		{0, 0, 0, 1},
	}
}
