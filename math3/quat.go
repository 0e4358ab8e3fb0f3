// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3

import "github.com/chewxy/math32"

// Quat is a rotation quaternion with scalar part W.
// The component order (x, y, z, w) matches the glTF rotation accessor.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat { return Quat{W: 1} }

// QuatFromAxisAngle returns the rotation of angle radians about axis.
// The axis need not be normalized.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	a := axis.Normalize()
	s := math32.Sin(angle / 2)
	return Quat{
		X: a.X * s,
		Y: a.Y * s,
		Z: a.Z * s,
		W: math32.Cos(angle / 2),
	}
}

// Mul returns the composed rotation q * p (p applied first).
func (q Quat) Mul(p Quat) Quat {
	return Quat{
		X: q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		Y: q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		Z: q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
		W: q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
	}
}

// Normalize returns q scaled to unit length.
// The zero quaternion normalizes to the identity.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2*cross(q.xyz, cross(q.xyz, v) + q.w*v)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Add(v.Scale(q.W))
	return v.Add(u.Cross(t).Scale(2))
}

// Mat4 returns the rotation as a 4x4 column-major matrix.
func (q Quat) Mat4() Mat4 {
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z
	xx, yy, zz := q.X*x2, q.Y*y2, q.Z*z2
	xy, xz, yz := q.X*y2, q.X*z2, q.Y*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2

	var m Mat4
	m[0] = 1 - (yy + zz)
	m[1] = xy + wz
	m[2] = xz - wy

	m[4] = xy - wz
	m[5] = 1 - (xx + zz)
	m[6] = yz + wx

	m[8] = xz + wy
	m[9] = yz - wx
	m[10] = 1 - (xx + yy)

	m[15] = 1
	return m
}

// quatFromColumns builds a quaternion from an orthonormal rotation basis
// given as column vectors. Shepperd's method: branch on the largest
// diagonal element for numerical stability.
func quatFromColumns(c0, c1, c2 Vec3) Quat {
	trace := c0.X + c1.Y + c2.Z
	var q Quat
	switch {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q.W = s / 4
		q.X = (c1.Z - c2.Y) / s
		q.Y = (c2.X - c0.Z) / s
		q.Z = (c0.Y - c1.X) / s
	case c0.X > c1.Y && c0.X > c2.Z:
		s := math32.Sqrt(1+c0.X-c1.Y-c2.Z) * 2
		q.W = (c1.Z - c2.Y) / s
		q.X = s / 4
		q.Y = (c1.X + c0.Y) / s
		q.Z = (c2.X + c0.Z) / s
	case c1.Y > c2.Z:
		s := math32.Sqrt(1+c1.Y-c0.X-c2.Z) * 2
		q.W = (c2.X - c0.Z) / s
		q.X = (c1.X + c0.Y) / s
		q.Y = s / 4
		q.Z = (c2.Y + c1.Z) / s
	default:
		s := math32.Sqrt(1+c2.Z-c0.X-c1.Y) * 2
		q.W = (c0.Y - c1.X) / s
		q.X = (c2.X + c0.Z) / s
		q.Y = (c2.Y + c1.Z) / s
		q.Z = s / 4
	}
	return q.Normalize()
}
