// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/g3d/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU renderer.
	BackendSoftware = "software"
	// BackendGPU is the name of the gogpu/wgpu hal renderer.
	BackendGPU = "gpu"
	// BackendWebGPU is the name of the cogentcore/webgpu renderer.
	BackendWebGPU = "webgpu"
)

// Factory creates a new renderer instance.
type Factory func() render.Renderer

// init registers the always-available backends on package import.
func init() {
	Register(BackendSoftware, func() render.Renderer {
		return render.NewSoftwareRenderer()
	})
	Register(BackendGPU, func() render.Renderer {
		return render.NewGPURenderer(nil)
	})
}
