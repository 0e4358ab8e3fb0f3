// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package g3d is a small 3D model viewer engine for Go.
//
// # Overview
//
// g3d renders glTF scenes with a two-pass pipeline: a mesh shading pass
// (textured, depth-tested, hemispherically lit) and a blit pass that
// stretches the result onto a host surface. It runs on the GoGPU
// ecosystem (gogpu/wgpu) with a software rasterizer fallback, plus an
// alternative cogentcore/webgpu backend.
//
// # Quick Start
//
//	import "github.com/gogpu/g3d"
//
//	eng := g3d.New()
//	defer eng.Close()
//
//	if err := eng.LoadGLTF("model.gltf"); err != nil {
//	    log.Fatal(err)
//	}
//
//	target := render.NewImageTarget(800, 600)
//	eng.Update(dt)
//	if err := eng.Render(target); err != nil {
//	    log.Fatal(err)
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Engine, options, logging
//   - scene: node hierarchy, meshes, materials, camera, lights
//   - gltf: glTF 2.0 import
//   - render: targets, software renderer, GPU renderer with fallback
//   - shading: the pass contract (bind groups, WGSL, uniform layouts)
//   - backend, backend/webgpu: pluggable renderer registry
//
// # Coordinate System
//
// Right-handed world space, Y up, camera looking down -Z at the default
// yaw. Clip depth is WebGPU [0,1].
package g3d

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
