// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/scene"
)

// init registers the webgpu backend on package import.
func init() {
	backend.Register(backend.BackendWebGPU, func() render.Renderer {
		return New()
	})
}

// Renderer executes the mesh and blit passes on a cogentcore/webgpu
// device. Without a host device it opens its own on the first Render
// call. Implements render.Renderer. Not safe for concurrent use.
type Renderer struct {
	// ClearColor fills the color attachment before the mesh pass.
	ClearColor math3.Vec4

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	external bool

	pipelines *pipelines

	// Internal render targets, recreated on resize.
	width, height uint32
	colorTex      *wgpu.Texture
	colorView     *wgpu.TextureView
	depthTex      *wgpu.Texture
	depthView     *wgpu.TextureView

	samplers map[scene.Sampler]*wgpu.Sampler
	textures map[*scene.Texture]cachedTexture
}

type cachedTexture struct {
	tex  *wgpu.Texture
	view *wgpu.TextureView
}

// New creates a renderer that opens its own device lazily on the first
// Render call.
func New() *Renderer {
	return &Renderer{
		ClearColor: render.DefaultClearColor,
		samplers:   make(map[scene.Sampler]*wgpu.Sampler),
		textures:   make(map[*scene.Texture]cachedTexture),
	}
}

// SetClearColor sets the background the mesh pass clears to.
func (r *Renderer) SetClearColor(c math3.Vec4) { r.ClearColor = c }

// NewWithDevice creates a renderer on a host-owned device and queue.
// The renderer never releases either.
func NewWithDevice(device *wgpu.Device, queue *wgpu.Queue) *Renderer {
	r := New()
	r.device = device
	r.queue = queue
	r.external = true
	return r
}

// ensureDevice opens a standalone device if none is present yet.
func (r *Renderer) ensureDevice() error {
	if r.device != nil {
		return nil
	}

	r.instance = wgpu.CreateInstance(nil)

	adapter, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil {
		return fmt.Errorf("webgpu: request adapter: %w", err)
	}
	r.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "g3d_device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return fmt.Errorf("webgpu: request device: %w", err)
	}
	r.device = device
	r.queue = device.GetQueue()

	slogger().Info("webgpu: device opened")
	return nil
}

// Render draws one frame of the scene through the camera into the
// target. Targets with pixel access get a CPU readback; targets with a
// *wgpu.TextureView get the blit pass.
func (r *Renderer) Render(t render.RenderTarget, sc *scene.Scene, cam *scene.Camera) error {
	if t == nil {
		return render.ErrNilTarget
	}
	if sc == nil || cam == nil {
		return render.ErrNilScene
	}
	if t.Width() <= 0 || t.Height() <= 0 {
		return nil
	}

	var surfaceView *wgpu.TextureView
	if view := t.NativeView(); view != nil {
		wv, ok := view.(*wgpu.TextureView)
		if !ok {
			return fmt.Errorf("webgpu: target view %T is not a *wgpu.TextureView", view)
		}
		surfaceView = wv
	}
	if t.Pixels() == nil && surfaceView == nil {
		return fmt.Errorf("webgpu: target has neither pixels nor surface view")
	}

	if err := r.ensureDevice(); err != nil {
		return err
	}
	if r.pipelines == nil {
		p, err := createPipelines(r.device)
		if err != nil {
			return fmt.Errorf("webgpu: create pipelines: %w", err)
		}
		r.pipelines = p
	}
	w, h := uint32(t.Width()), uint32(t.Height()) //nolint:gosec // target sizes fit uint32
	if err := r.ensureTargets(w, h); err != nil {
		return fmt.Errorf("webgpu: ensure targets: %w", err)
	}

	res, err := r.buildFrameResources(sc, cam)
	if err != nil {
		res.release()
		return fmt.Errorf("webgpu: build frame resources: %w", err)
	}
	defer res.release()

	return r.encodeSubmit(t, surfaceView, res)
}

// ensureTargets creates or recreates the color and depth textures if
// the requested dimensions differ from the current size.
func (r *Renderer) ensureTargets(w, h uint32) error {
	if r.width == w && r.height == h && r.colorTex != nil {
		return nil
	}
	r.releaseTargets()

	size := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "mesh_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        colorFormat,
		Usage: wgpu.TextureUsageRenderAttachment |
			wgpu.TextureUsageCopySrc |
			wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	r.colorTex = colorTex

	colorView, err := colorTex.CreateView(nil)
	if err != nil {
		r.releaseTargets()
		return fmt.Errorf("create color view: %w", err)
	}
	r.colorView = colorView

	depthTex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "mesh_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		r.releaseTargets()
		return fmt.Errorf("create depth texture: %w", err)
	}
	r.depthTex = depthTex

	depthView, err := depthTex.CreateView(nil)
	if err != nil {
		r.releaseTargets()
		return fmt.Errorf("create depth view: %w", err)
	}
	r.depthView = depthView

	r.width = w
	r.height = h
	return nil
}

// releaseTargets frees the internal render textures and resets the
// cached dimensions.
func (r *Renderer) releaseTargets() {
	if r.depthView != nil {
		r.depthView.Release()
		r.depthView = nil
	}
	if r.depthTex != nil {
		r.depthTex.Release()
		r.depthTex = nil
	}
	if r.colorView != nil {
		r.colorView.Release()
		r.colorView = nil
	}
	if r.colorTex != nil {
		r.colorTex.Release()
		r.colorTex = nil
	}
	r.width = 0
	r.height = 0
}

// Close releases everything the renderer owns. The device, adapter, and
// instance are released only if this renderer opened them. Safe to call
// multiple times.
func (r *Renderer) Close() error {
	for _, ct := range r.textures {
		ct.view.Release()
		ct.tex.Release()
	}
	r.textures = make(map[*scene.Texture]cachedTexture)
	for _, smp := range r.samplers {
		smp.Release()
	}
	r.samplers = make(map[scene.Sampler]*wgpu.Sampler)
	r.releaseTargets()
	if r.pipelines != nil {
		r.pipelines.release()
		r.pipelines = nil
	}
	if !r.external {
		if r.device != nil {
			r.device.Release()
			r.device = nil
			r.queue = nil
		}
		if r.adapter != nil {
			r.adapter.Release()
			r.adapter = nil
		}
		if r.instance != nil {
			r.instance.Release()
			r.instance = nil
		}
	}
	return nil
}

var _ render.Renderer = (*Renderer)(nil)
