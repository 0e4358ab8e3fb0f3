// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render executes the two g3d passes against concrete targets.
//
// A [Renderer] draws a scene through a camera into a [RenderTarget].
// [SoftwareRenderer] is the always-available CPU reference
// implementation; [GPURenderer] runs the same passes on a hal device
// received from the host and falls back to software when no device is
// available.
package render
