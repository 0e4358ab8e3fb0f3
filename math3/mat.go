// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3

import "github.com/chewxy/math32"

// Mat4 is a 4x4 column-major float32 matrix.
// Element (col, row) is stored at index col*4+row, so the raw array
// matches the WGSL mat4x4<f32> uniform layout byte for byte.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns element (col, row).
func (m Mat4) At(col, row int) float32 { return m[col*4+row] }

// Set sets element (col, row) and returns the modified matrix.
func (m Mat4) Set(col, row int, v float32) Mat4 {
	m[col*4+row] = v
	return m
}

// Col returns column i as a Vec4.
func (m Mat4) Col(i int) Vec4 {
	return Vec4{m[i*4], m[i*4+1], m[i*4+2], m[i*4+3]}
}

// Mul returns the matrix product m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			r[c*4+row] = m[row]*n[c*4] + m[4+row]*n[c*4+1] + m[8+row]*n[c*4+2] + m[12+row]*n[c*4+3]
		}
	}
	return r
}

// MulVec4 returns the product m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// TransformPoint applies m to the point (v, 1) and returns the xyz part.
// No perspective divide is performed; use MulVec4 for projective transforms.
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return m.MulVec4(Point4(v)).XYZ()
}

// TransformDir applies m to the direction (v, 0) and returns the xyz part.
func (m Mat4) TransformDir(v Vec3) Vec3 {
	return m.MulVec4(Dir4(v)).XYZ()
}

// Transpose returns the transpose of m.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			r[c*4+row] = m[row*4+c]
		}
	}
	return r
}

// Det returns the determinant of m.
func (m Mat4) Det() float32 {
	// Expansion by 2x2 sub-determinants of the first two columns.
	s0 := m.At(0, 0)*m.At(1, 1) - m.At(1, 0)*m.At(0, 1)
	s1 := m.At(0, 0)*m.At(1, 2) - m.At(1, 0)*m.At(0, 2)
	s2 := m.At(0, 0)*m.At(1, 3) - m.At(1, 0)*m.At(0, 3)
	s3 := m.At(0, 1)*m.At(1, 2) - m.At(1, 1)*m.At(0, 2)
	s4 := m.At(0, 1)*m.At(1, 3) - m.At(1, 1)*m.At(0, 3)
	s5 := m.At(0, 2)*m.At(1, 3) - m.At(1, 2)*m.At(0, 3)

	c5 := m.At(2, 2)*m.At(3, 3) - m.At(3, 2)*m.At(2, 3)
	c4 := m.At(2, 1)*m.At(3, 3) - m.At(3, 1)*m.At(2, 3)
	c3 := m.At(2, 1)*m.At(3, 2) - m.At(3, 1)*m.At(2, 2)
	c2 := m.At(2, 0)*m.At(3, 3) - m.At(3, 0)*m.At(2, 3)
	c1 := m.At(2, 0)*m.At(3, 2) - m.At(3, 0)*m.At(2, 2)
	c0 := m.At(2, 0)*m.At(3, 1) - m.At(3, 0)*m.At(2, 1)

	return s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
}

// Inverse returns the inverse of m and whether m is invertible.
// For a singular matrix the identity is returned with ok=false.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	s0 := m.At(0, 0)*m.At(1, 1) - m.At(1, 0)*m.At(0, 1)
	s1 := m.At(0, 0)*m.At(1, 2) - m.At(1, 0)*m.At(0, 2)
	s2 := m.At(0, 0)*m.At(1, 3) - m.At(1, 0)*m.At(0, 3)
	s3 := m.At(0, 1)*m.At(1, 2) - m.At(1, 1)*m.At(0, 2)
	s4 := m.At(0, 1)*m.At(1, 3) - m.At(1, 1)*m.At(0, 3)
	s5 := m.At(0, 2)*m.At(1, 3) - m.At(1, 2)*m.At(0, 3)

	c5 := m.At(2, 2)*m.At(3, 3) - m.At(3, 2)*m.At(2, 3)
	c4 := m.At(2, 1)*m.At(3, 3) - m.At(3, 1)*m.At(2, 3)
	c3 := m.At(2, 1)*m.At(3, 2) - m.At(3, 1)*m.At(2, 2)
	c2 := m.At(2, 0)*m.At(3, 3) - m.At(3, 0)*m.At(2, 3)
	c1 := m.At(2, 0)*m.At(3, 2) - m.At(3, 0)*m.At(2, 2)
	c0 := m.At(2, 0)*m.At(3, 1) - m.At(3, 0)*m.At(2, 1)

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity4(), false
	}
	d := 1 / det

	inv = inv.Set(0, 0, (m.At(1, 1)*c5-m.At(1, 2)*c4+m.At(1, 3)*c3)*d)
	inv = inv.Set(1, 0, (-m.At(1, 0)*c5+m.At(1, 2)*c2-m.At(1, 3)*c1)*d)
	inv = inv.Set(2, 0, (m.At(1, 0)*c4-m.At(1, 1)*c2+m.At(1, 3)*c0)*d)
	inv = inv.Set(3, 0, (-m.At(1, 0)*c3+m.At(1, 1)*c1-m.At(1, 2)*c0)*d)

	inv = inv.Set(0, 1, (-m.At(0, 1)*c5+m.At(0, 2)*c4-m.At(0, 3)*c3)*d)
	inv = inv.Set(1, 1, (m.At(0, 0)*c5-m.At(0, 2)*c2+m.At(0, 3)*c1)*d)
	inv = inv.Set(2, 1, (-m.At(0, 0)*c4+m.At(0, 1)*c2-m.At(0, 3)*c0)*d)
	inv = inv.Set(3, 1, (m.At(0, 0)*c3-m.At(0, 1)*c1+m.At(0, 2)*c0)*d)

	inv = inv.Set(0, 2, (m.At(3, 1)*s5-m.At(3, 2)*s4+m.At(3, 3)*s3)*d)
	inv = inv.Set(1, 2, (-m.At(3, 0)*s5+m.At(3, 2)*s2-m.At(3, 3)*s1)*d)
	inv = inv.Set(2, 2, (m.At(3, 0)*s4-m.At(3, 1)*s2+m.At(3, 3)*s0)*d)
	inv = inv.Set(3, 2, (-m.At(3, 0)*s3+m.At(3, 1)*s1-m.At(3, 2)*s0)*d)

	inv = inv.Set(0, 3, (-m.At(2, 1)*s5+m.At(2, 2)*s4-m.At(2, 3)*s3)*d)
	inv = inv.Set(1, 3, (m.At(2, 0)*s5-m.At(2, 2)*s2+m.At(2, 3)*s1)*d)
	inv = inv.Set(2, 3, (-m.At(2, 0)*s4+m.At(2, 1)*s2-m.At(2, 3)*s0)*d)
	inv = inv.Set(3, 3, (m.At(2, 0)*s3-m.At(2, 1)*s1+m.At(2, 2)*s0)*d)

	return inv, true
}

// Translation returns a translation matrix.
func Translation(v Vec3) Mat4 {
	m := Identity4()
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
	return m
}

// Scaling returns a scaling matrix.
func Scaling(v Vec3) Mat4 {
	var m Mat4
	m[0] = v.X
	m[5] = v.Y
	m[10] = v.Z
	m[15] = 1
	return m
}

// TRS composes a transform matrix from translation, rotation, and scale,
// applied in scale-then-rotate-then-translate order.
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	m := r.Mat4()
	// Scale columns in place, then set translation.
	for row := 0; row < 3; row++ {
		m[row] *= s.X
		m[4+row] *= s.Y
		m[8+row] *= s.Z
	}
	m[12] = t.X
	m[13] = t.Y
	m[14] = t.Z
	return m
}

// Decompose splits an affine transform into translation, rotation, and
// scale, matching how glTF matrix nodes are interpreted. If the rotation
// part has negative determinant, the scale is negated to compensate.
func (m Mat4) Decompose() (t Vec3, r Quat, s Vec3) {
	t = Vec3{m[12], m[13], m[14]}

	c0 := Vec3{m[0], m[1], m[2]}
	c1 := Vec3{m[4], m[5], m[6]}
	c2 := Vec3{m[8], m[9], m[10]}
	s = Vec3{c0.Length(), c1.Length(), c2.Length()}

	if s.X != 0 {
		c0 = c0.Scale(1 / s.X)
	}
	if s.Y != 0 {
		c1 = c1.Scale(1 / s.Y)
	}
	if s.Z != 0 {
		c2 = c2.Scale(1 / s.Z)
	}

	// det of the normalized rotation columns
	det := c0.Dot(c1.Cross(c2))
	if det < 0 {
		c0, c1, c2 = c0.Neg(), c1.Neg(), c2.Neg()
		s = s.Neg()
	}

	r = quatFromColumns(c0, c1, c2)
	return t, r, s
}

// Perspective returns a right-handed perspective projection with the
// OpenGL [-1,1] clip-space depth convention. fovy is the vertical field
// of view in radians.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovy/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (near + far) / (near - far)
	m[11] = -1
	m[14] = 2 * near * far / (near - far)
	return m
}

// DepthRemap converts OpenGL [-1,1] clip-space depth to the WebGPU [0,1]
// range. Multiply a Perspective matrix on the left: DepthRemap().Mul(proj).
func DepthRemap() Mat4 {
	m := Identity4()
	m[10] = 0.5
	m[14] = 0.5
	return m
}

// LookTo returns a right-handed view matrix for an eye at the given
// position looking along front (which need not be normalized) with the
// given up direction.
func LookTo(eye, front, up Vec3) Mat4 {
	f := front.Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	var m Mat4
	m[0], m[4], m[8] = s.X, s.Y, s.Z
	m[1], m[5], m[9] = u.X, u.Y, u.Z
	m[2], m[6], m[10] = -f.X, -f.Y, -f.Z
	m[12] = -s.Dot(eye)
	m[13] = -u.Dot(eye)
	m[14] = f.Dot(eye)
	m[15] = 1
	return m
}

// NormalMat returns the matrix that correctly transforms normal vectors
// under the given world transform: the inverse transpose of the upper 3x3,
// embedded in a Mat4 with zero translation. For a singular upper 3x3
// (degenerate scale) the rotation/scale part is passed through unchanged.
func NormalMat(world Mat4) Mat4 {
	// Strip translation so the 4x4 inverse is the inverse of the
	// rotation/scale block.
	rs := world
	rs[12], rs[13], rs[14] = 0, 0, 0
	rs[3], rs[7], rs[11] = 0, 0, 0
	rs[15] = 1

	inv, ok := rs.Inverse()
	if !ok {
		return rs
	}
	n := inv.Transpose()
	n[12], n[13], n[14] = 0, 0, 0
	n[3], n[7], n[11] = 0, 0, 0
	n[15] = 1
	return n
}
