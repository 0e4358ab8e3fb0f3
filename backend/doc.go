// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides a pluggable renderer registry.
//
// The backend package lets hosts pick a rendering implementation by
// name, or take the best one available. The software and gpu backends
// are registered on import of this package; the webgpu backend
// registers itself when its package is imported:
//
//	import _ "github.com/gogpu/g3d/backend/webgpu"
//
// # Backend Selection
//
// Use Default() to get the best available renderer, or Get() to request
// a specific one:
//
//	r := backend.Default()
//	defer r.Close()
//
//	r := backend.Get("software")
//
// # Available Backends
//
//   - "software": CPU rasterizer (always available)
//   - "gpu": gogpu/wgpu hal renderer with software fallback
//   - "webgpu": cogentcore/webgpu renderer (import backend/webgpu)
package backend
