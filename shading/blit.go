// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import "github.com/gogpu/g3d/math3"

// BlitVertex is one procedural vertex of the blit pass quad: a clip-space
// position with its texture coordinate.
type BlitVertex struct {
	Pos math3.Vec2
	UV  math3.Vec2
}

// blitQuad mirrors the vertex table in shaders/blit.wgsl. Clip-space
// (-1,-1) maps to UV (0,1) and (1,1) to (1,0): texture Y is flipped
// relative to clip Y so the image origin is at the top of the target.
var blitQuad = [BlitVertexCount]BlitVertex{
	{Pos: math3.V2(-1, 1), UV: math3.V2(0, 0)},  // top-left
	{Pos: math3.V2(1, 1), UV: math3.V2(1, 0)},   // top-right
	{Pos: math3.V2(1, -1), UV: math3.V2(1, 1)},  // bottom-right
	{Pos: math3.V2(1, -1), UV: math3.V2(1, 1)},  // bottom-right
	{Pos: math3.V2(-1, -1), UV: math3.V2(0, 1)}, // bottom-left
	{Pos: math3.V2(-1, 1), UV: math3.V2(0, 0)},  // top-left
}

// BlitQuad returns the six blit pass vertices in draw order.
// The returned array is a copy; the table itself is immutable.
func BlitQuad() [BlitVertexCount]BlitVertex {
	return blitQuad
}
