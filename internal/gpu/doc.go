// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu implements the mesh shading and blit passes on the
// gogpu/wgpu hardware abstraction layer.
//
// The package is organized around three pieces:
//
//   - Device: owns (or borrows) a hal device and queue. Standalone use
//     opens a Vulkan device; embedded use shares the host's device via
//     a gpucontext-style provider and never destroys it.
//   - pipelines: the two render pipelines plus their bind group and
//     pipeline layouts, built from the shading package's contract.
//   - Session: per-frame encoding. Uploads uniforms, vertex/index
//     buffers, and material textures, records the mesh pass (and the
//     blit pass when a surface view is attached), then reads pixels
//     back for CPU targets.
//
// Build with the nogpu tag to exclude this package entirely.
package gpu
