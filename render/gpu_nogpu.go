// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package render

import (
	"fmt"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/scene"
)

// GPURenderer in a nogpu build is a thin shell over the software
// renderer so callers keep a single construction path.
type GPURenderer struct {
	// ClearColor fills the target before drawing.
	ClearColor math3.Vec4

	software    *SoftwareRenderer
	fallbackErr error
}

// NewGPURenderer creates the software-backed stand-in. The handle is
// ignored.
func NewGPURenderer(_ DeviceHandle) *GPURenderer {
	return &GPURenderer{
		ClearColor:  DefaultClearColor,
		software:    NewSoftwareRenderer(),
		fallbackErr: fmt.Errorf("%w: built with the nogpu tag", ErrFallbackToCPU),
	}
}

// FallbackReason reports why the renderer is running on the CPU. The
// error matches ErrFallbackToCPU under errors.Is.
func (r *GPURenderer) FallbackReason() error { return r.fallbackErr }

// SetClearColor sets the background the mesh pass clears to.
func (r *GPURenderer) SetClearColor(c math3.Vec4) { r.ClearColor = c }

// Render draws one frame with the software renderer.
func (r *GPURenderer) Render(t RenderTarget, s *scene.Scene, cam *scene.Camera) error {
	if t == nil {
		return ErrNilTarget
	}
	if s == nil || cam == nil {
		return ErrNilScene
	}
	r.software.ClearColor = r.ClearColor
	return r.software.Render(t, s, cam)
}

// Close releases the software fallback.
func (r *GPURenderer) Close() error { return r.software.Close() }

var _ Renderer = (*GPURenderer)(nil)
