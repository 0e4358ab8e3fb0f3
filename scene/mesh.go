// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "github.com/gogpu/g3d/math3"

// Primitive is one indexed triangle list with per-vertex attributes in
// three tightly packed slices. Exactly one of Indices16/Indices32 is
// set.
type Primitive struct {
	Positions []math3.Vec3
	Normals   []math3.Vec3
	TexCoords []math3.Vec2

	Indices16 []uint16
	Indices32 []uint32

	// Material indexes into Scene.Materials, or -1 for the default
	// material.
	Material int
}

// VertexCount returns the number of vertices.
func (p *Primitive) VertexCount() int { return len(p.Positions) }

// IndexCount returns the number of indices.
func (p *Primitive) IndexCount() int {
	if p.Indices16 != nil {
		return len(p.Indices16)
	}
	return len(p.Indices32)
}

// Index returns the i-th vertex index regardless of index width.
func (p *Primitive) Index(i int) int {
	if p.Indices16 != nil {
		return int(p.Indices16[i])
	}
	return int(p.Indices32[i])
}

// Mesh is a named list of primitives drawn under one node transform.
type Mesh struct {
	Name       string
	Primitives []Primitive
}
