// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import _ "embed"

// Embedded WGSL shader sources for the two render passes.

//go:embed shaders/mesh.wgsl
var meshShaderSource string

//go:embed shaders/blit.wgsl
var blitShaderSource string

// MeshShaderSource returns the WGSL source for the mesh shading pass.
func MeshShaderSource() string { return meshShaderSource }

// BlitShaderSource returns the WGSL source for the blit pass.
func BlitShaderSource() string { return blitShaderSource }

// Shader entry points. Each pass exposes exactly one vertex and one
// fragment entry point.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// BlitVertexCount is the number of procedural vertices the blit pass
// draws: two triangles covering the full clip-space square.
const BlitVertexCount = 6
