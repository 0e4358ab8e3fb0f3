// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package webgpu renders scenes through github.com/cogentcore/webgpu,
// for hosts already living in that ecosystem.
//
// The renderer runs the same two passes as the hal renderer: the mesh
// shading pass into an internal color texture, then either a blit onto
// a caller-provided *wgpu.TextureView, a CPU readback, or both. It
// implements render.Renderer and registers itself with the backend
// registry under the name "webgpu".
package webgpu
