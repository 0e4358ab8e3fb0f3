// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shading defines the GPU programs at the heart of g3d and the
// exact contract between them and the rest of the system.
//
// Two passes exist:
//
//   - The mesh shading pass transforms vertices from object space to clip
//     space, carries world-space position and normal to the fragment
//     stage, and shades fragments with the bound lights, diffuse texture,
//     and material factors (shaders/mesh.wgsl).
//
//   - The blit pass stretches a previously rendered color texture over the
//     full output target using six procedurally generated vertices
//     (shaders/blit.wgsl).
//
// The package exports three things renderers build on:
//
//   - The embedded WGSL sources ([MeshShaderSource], [BlitShaderSource])
//     with their entry points.
//
//   - The resource-binding contract: group/binding constants, bind group
//     layout entry builders, and the vertex buffer layouts, expressed in
//     gputypes so GPU backends can consume them directly.
//
//   - Go mirrors of every uniform block ([CameraUniform], [NodeUniform],
//     [MaterialUniform], [LightsUniform]) with Pack methods producing the
//     exact bytes the WGSL struct layout expects, plus reference shading
//     math ([Brightness], [ShadeFragment]) shared by the software
//     renderer and the tests.
//
// The shading stages are total functions: any well-typed input produces a
// deterministic color, with no error paths and no discard.
package shading
