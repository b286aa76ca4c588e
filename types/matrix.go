package types

import (
	"math"

	"golang.org/x/image/math/f32"
)

// 4x4 matrix stored in column-major order: element (row, col) lives at
// index col*4 + row. This matches the layout used by go-gl/mathgl and by
// GPU-side shading languages.
type Mat4 f32.Mat4

type Mat3 f32.Mat3

// Create a 4x4 identity matrix.
func Ident4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Create a 4x4 translation matrix.
func Translate4(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v[0], v[1], v[2], 1,
	}
}

// Create a 4x4 scale matrix.
func Scale4(v Vec3) Mat4 {
	return Mat4{
		v[0], 0, 0, 0,
		0, v[1], 0, 0,
		0, 0, v[2], 0,
		0, 0, 0, 1,
	}
}

// Multiply two 4x4 matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = m[row]*m2[col*4] +
				m[4+row]*m2[col*4+1] +
				m[8+row]*m2[col*4+2] +
				m[12+row]*m2[col*4+3]
		}
	}
	return out
}

// Multiply a 4x4 matrix with a 4 component vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// Transpose a 4x4 matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Invert a 4x4 matrix using Gauss-Jordan elimination with partial pivoting.
// Inverting a singular matrix yields the zero matrix.
func (m Mat4) Inv() Mat4 {
	var a [4][8]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			a[row][col] = float64(m[col*4+row])
		}
		a[row][4+row] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Mat4{}
		}
		a[col], a[pivot] = a[pivot], a[col]

		scale := 1.0 / a[col][col]
		for k := col; k < 8; k++ {
			a[col][k] *= scale
		}
		for row := 0; row < 4; row++ {
			if row == col || a[row][col] == 0 {
				continue
			}
			factor := a[row][col]
			for k := col; k < 8; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}

	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = float32(a[row][4+col])
		}
	}
	return out
}

// Extract the top-left 3x3 matrix from a 4x4 matrix.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Create a perspective projection matrix. The vertical field of view is
// given in degrees.
func Perspective4(fovDegrees, aspect, near, far float32) Mat4 {
	fovy := float64(fovDegrees) * math.Pi / 180.0
	f := float32(1.0 / math.Tan(fovy*0.5))
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), -1,
		0, 0, (2 * far * near) / (near - far), 0,
	}
}

// Create a view matrix for a camera at eye looking towards center.
func LookAtV(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up.Normalize()).Normalize()
	u := s.Cross(f)

	rot := Mat4{
		s[0], u[0], -f[0], 0,
		s[1], u[1], -f[1], 0,
		s[2], u[2], -f[2], 0,
		0, 0, 0, 1,
	}
	return rot.Mul4(Translate4(eye.Neg()))
}
