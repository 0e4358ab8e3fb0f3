// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package math3 provides float32 linear algebra for 3D rendering.
//
// All matrices are column-major and right-handed, matching the WebGPU
// uniform buffer layout: Mat4 element (col, row) lives at index col*4+row,
// so a Mat4 can be uploaded to the GPU without reordering.
//
// Projection matrices produced by [Perspective] use the OpenGL [-1,1] depth
// convention; multiply by [DepthRemap] (or use [Projection.Matrix] in the
// scene package) to obtain the WebGPU [0,1] depth range.
//
// All types are plain values. Operations return new values and never
// allocate, making them safe to use in per-frame hot paths.
package math3
