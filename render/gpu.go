// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package render

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/internal/gpu"
	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/scene"
)

// GPURenderer executes the mesh and blit passes on a gogpu/wgpu hal
// device. With a DeviceHandle it shares the host's device; without one
// it opens a standalone Vulkan device on first use. When no device can
// be had, or a frame fails on the GPU, it switches to the software
// renderer and keeps going.
type GPURenderer struct {
	// ClearColor fills the target before drawing.
	ClearColor math3.Vec4

	handle  DeviceHandle
	dev     *gpu.Device
	session *gpu.Session

	software    *SoftwareRenderer
	fallbackErr error
	initialized bool
}

// NewGPURenderer creates a GPU renderer. handle may be nil, in which
// case a standalone device is opened lazily on the first Render call.
func NewGPURenderer(handle DeviceHandle) *GPURenderer {
	return &GPURenderer{
		ClearColor: DefaultClearColor,
		handle:     handle,
		software:   NewSoftwareRenderer(),
	}
}

// FallbackReason reports why the renderer is running on the CPU, or nil
// while the GPU path is active. The error matches ErrFallbackToCPU
// under errors.Is.
func (r *GPURenderer) FallbackReason() error { return r.fallbackErr }

// SetClearColor sets the background the mesh pass clears to.
func (r *GPURenderer) SetClearColor(c math3.Vec4) { r.ClearColor = c }

func (r *GPURenderer) init() {
	if r.initialized {
		return
	}
	r.initialized = true

	var (
		dev *gpu.Device
		err error
	)
	if r.handle != nil {
		dev, err = gpu.ShareDevice(r.handle)
	} else {
		dev, err = gpu.OpenDevice()
	}
	if err != nil {
		r.fallbackErr = fmt.Errorf("%w: %v", ErrFallbackToCPU, err)
		slogger().Warn("render: no GPU device, using software renderer", "error", err)
		return
	}
	r.dev = dev
	device, queue := dev.HAL()
	r.session = gpu.NewSession(device, queue)
}

// Render draws one frame. GPU-only targets require a working device;
// everything else can be served by the software fallback.
func (r *GPURenderer) Render(t RenderTarget, s *scene.Scene, cam *scene.Camera) error {
	if t == nil {
		return ErrNilTarget
	}
	if s == nil || cam == nil {
		return ErrNilScene
	}
	r.init()

	if r.session != nil {
		target := gpu.Target{
			Width:  uint32(t.Width()),  //nolint:gosec // target sizes fit uint32
			Height: uint32(t.Height()), //nolint:gosec // target sizes fit uint32
			Pixels: t.Pixels(),
			Stride: t.Stride(),
		}
		if view := t.NativeView(); view != nil {
			hv, ok := view.(hal.TextureView)
			if !ok {
				return fmt.Errorf("render: target view %T is not a hal texture view", view)
			}
			target.SurfaceView = hv
		}
		r.session.ClearColor = r.ClearColor

		err := r.session.RenderFrame(target, s, cam)
		if err == nil {
			return nil
		}
		r.fallbackErr = fmt.Errorf("%w: %v", ErrFallbackToCPU, err)
		slogger().Warn("render: GPU frame failed, switching to software renderer", "error", err)
		r.dropSession()
	}

	if t.Pixels() == nil {
		// A GPU-only target cannot be served by the CPU path.
		return r.fallbackErr
	}
	r.software.ClearColor = r.ClearColor
	return r.software.Render(t, s, cam)
}

// Close releases the session, the device (if this renderer opened it),
// and the software fallback.
func (r *GPURenderer) Close() error {
	r.dropSession()
	return r.software.Close()
}

func (r *GPURenderer) dropSession() {
	if r.session != nil {
		r.session.Destroy()
		r.session = nil
	}
	if r.dev != nil {
		r.dev.Close()
		r.dev = nil
	}
}

var _ Renderer = (*GPURenderer)(nil)
