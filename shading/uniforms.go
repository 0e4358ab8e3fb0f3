// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/g3d/math3"
)

// Uniform block byte sizes. Each matches the WGSL struct layout in
// shaders/mesh.wgsl under the uniform address space alignment rules.
const (
	// CameraUniformSize is view_pos (16) + view_front (16) + view_proj (64).
	CameraUniformSize = 96

	// NodeUniformSize is model_mat (64) + normal_mat (64).
	NodeUniformSize = 128

	// MaterialUniformSize is base_color_factor (16) + emissive_factor
	// (12) + trailing pad (4).
	MaterialUniformSize = 32

	// LightSlotSize is kind + two attenuation factors + pad (16) +
	// color (16) + pos_dir (16).
	LightSlotSize = 48

	// LightsUniformSize is count + pad (16) + MaxLights slots.
	LightsUniformSize = 16 + MaxLights*LightSlotSize
)

// MaxLights is the fixed slot capacity of the lights uniform.
const MaxLights = 4

// Light slot kinds, mirroring the LIGHT_* constants in mesh.wgsl.
const (
	LightKindAmbient     uint32 = 0
	LightKindDirectional uint32 = 1
	LightKindPoint       uint32 = 2
)

// CameraUniform mirrors the CameraUniform WGSL block: world-space eye
// position and forward direction (w components are padding; ViewFront
// must be unit length), plus the combined view-projection matrix.
type CameraUniform struct {
	ViewPos   math3.Vec4
	ViewFront math3.Vec4
	ViewProj  math3.Mat4
}

// Pack returns the uniform as CameraUniformSize little-endian bytes.
func (u *CameraUniform) Pack() []byte {
	buf := make([]byte, CameraUniformSize)
	u.PackInto(buf)
	return buf
}

// PackInto writes the uniform bytes into buf, which must hold at least
// CameraUniformSize bytes.
func (u *CameraUniform) PackInto(buf []byte) {
	off := putVec4(buf, 0, u.ViewPos)
	off = putVec4(buf, off, u.ViewFront)
	putMat4(buf, off, u.ViewProj)
}

// NodeUniform mirrors the NodeUniform WGSL block: the object-to-world
// transform and the inverse-transpose normal matrix derived from it.
type NodeUniform struct {
	ModelMat  math3.Mat4
	NormalMat math3.Mat4
}

// Pack returns the uniform as NodeUniformSize little-endian bytes.
func (u *NodeUniform) Pack() []byte {
	buf := make([]byte, NodeUniformSize)
	u.PackInto(buf)
	return buf
}

// PackInto writes the uniform bytes into buf, which must hold at least
// NodeUniformSize bytes.
func (u *NodeUniform) PackInto(buf []byte) {
	off := putMat4(buf, 0, u.ModelMat)
	putMat4(buf, off, u.NormalMat)
}

// MaterialUniform mirrors the MaterialUniform WGSL block. The base color
// factor multiplies the sampled diffuse color; the emissive factor is
// added after lighting and never affects alpha.
type MaterialUniform struct {
	BaseColorFactor math3.Vec4
	EmissiveFactor  math3.Vec3
}

// Pack returns the uniform as MaterialUniformSize little-endian bytes.
func (u *MaterialUniform) Pack() []byte {
	buf := make([]byte, MaterialUniformSize)
	u.PackInto(buf)
	return buf
}

// PackInto writes the uniform bytes into buf, which must hold at least
// MaterialUniformSize bytes.
func (u *MaterialUniform) PackInto(buf []byte) {
	off := putVec4(buf, 0, u.BaseColorFactor)
	off = putF32(buf, off, u.EmissiveFactor.X)
	off = putF32(buf, off, u.EmissiveFactor.Y)
	off = putF32(buf, off, u.EmissiveFactor.Z)
	putF32(buf, off, 0) // trailing pad
}

// LightUniform is one slot of the lights uniform. Color carries rgb plus
// intensity in w. PosDir is the light direction for directional slots and
// the world-space position for point slots; ambient slots ignore it.
type LightUniform struct {
	Kind          uint32
	AttnLinear    float32
	AttnQuadratic float32
	Color         math3.Vec4
	PosDir        math3.Vec4
}

// LightsUniform mirrors the LightsUniform WGSL block: a slot count and a
// fixed array of MaxLights slots. Slots past Count are ignored by the
// fragment stage.
type LightsUniform struct {
	Count uint32
	Slots [MaxLights]LightUniform
}

// Pack returns the uniform as LightsUniformSize little-endian bytes.
func (u *LightsUniform) Pack() []byte {
	buf := make([]byte, LightsUniformSize)
	u.PackInto(buf)
	return buf
}

// PackInto writes the uniform bytes into buf, which must hold at least
// LightsUniformSize bytes.
func (u *LightsUniform) PackInto(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], u.Count)
	// 12 bytes of pad align the slot array to 16.
	off := 16
	for i := range u.Slots {
		s := &u.Slots[i]
		binary.LittleEndian.PutUint32(buf[off:], s.Kind)
		off = putF32(buf, off+4, s.AttnLinear)
		off = putF32(buf, off, s.AttnQuadratic)
		off = putF32(buf, off, 0) // pad
		off = putVec4(buf, off, s.Color)
		off = putVec4(buf, off, s.PosDir)
	}
}

func putF32(buf []byte, off int, v float32) int {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	return off + 4
}

func putVec4(buf []byte, off int, v math3.Vec4) int {
	off = putF32(buf, off, v.X)
	off = putF32(buf, off, v.Y)
	off = putF32(buf, off, v.Z)
	return putF32(buf, off, v.W)
}

func putMat4(buf []byte, off int, m math3.Mat4) int {
	// Column-major storage matches the WGSL mat4x4 layout directly.
	for _, v := range m {
		off = putF32(buf, off, v)
	}
	return off
}
