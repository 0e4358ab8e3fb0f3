// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/scene"
	"github.com/gogpu/g3d/shading"
)

// Target describes where a frame goes. Pixels receives a CPU readback
// of the mesh pass output; SurfaceView, when non-nil, additionally
// receives the blit pass. At least one of the two must be set.
type Target struct {
	Width  uint32
	Height uint32

	// Pixels is the RGBA8 readback destination, or nil to skip the
	// CPU copy. Rows are Stride bytes apart (Width*4 when Stride is 0).
	Pixels []byte
	Stride int

	// SurfaceView is the blit pass destination, owned by the caller.
	SurfaceView hal.TextureView
}

// Session encodes complete frames on a hal device: the mesh shading
// pass into an internal color texture, an optional blit of that texture
// onto a surface view, and an optional readback for CPU targets.
//
// Per-frame buffers and bind groups are created fresh each frame and
// destroyed once the submission completes; material textures and
// samplers are cached across frames. Not safe for concurrent use.
type Session struct {
	device hal.Device
	queue  hal.Queue

	// ClearColor fills the color attachment before the mesh pass.
	ClearColor math3.Vec4

	pipelines *pipelines

	// Internal render targets, recreated on resize.
	width, height uint32
	colorTex      hal.Texture
	colorView     hal.TextureView
	depthTex      hal.Texture
	depthView     hal.TextureView

	samplers map[scene.Sampler]hal.Sampler
	textures map[*scene.Texture]cachedTexture
}

type cachedTexture struct {
	tex  hal.Texture
	view hal.TextureView
}

// NewSession creates a session on the given device and queue. Pipelines
// and textures are allocated lazily on the first RenderFrame.
func NewSession(device hal.Device, queue hal.Queue) *Session {
	return &Session{
		device:     device,
		queue:      queue,
		ClearColor: math3.V4(0.8, 0.2, 0.3, 1),
		samplers:   make(map[scene.Sampler]hal.Sampler),
		textures:   make(map[*scene.Texture]cachedTexture),
	}
}

// Destroy releases everything the session owns. Safe to call multiple
// times. The device itself is not touched.
func (s *Session) Destroy() {
	for _, ct := range s.textures {
		s.device.DestroyTextureView(ct.view)
		s.device.DestroyTexture(ct.tex)
	}
	s.textures = make(map[*scene.Texture]cachedTexture)
	for _, smp := range s.samplers {
		s.device.DestroySampler(smp)
	}
	s.samplers = make(map[scene.Sampler]hal.Sampler)
	s.destroyTargets()
	if s.pipelines != nil {
		s.pipelines.destroy(s.device)
		s.pipelines = nil
	}
}

// RenderFrame renders one frame of the scene through the camera into
// the target. The scene must have been updated before the call.
func (s *Session) RenderFrame(t Target, sc *scene.Scene, cam *scene.Camera) error {
	if t.Width == 0 || t.Height == 0 {
		return nil
	}
	if t.Pixels == nil && t.SurfaceView == nil {
		return fmt.Errorf("gpu: target has neither pixels nor surface view")
	}

	if s.pipelines == nil {
		p, err := createPipelines(s.device)
		if err != nil {
			return fmt.Errorf("gpu: create pipelines: %w", err)
		}
		s.pipelines = p
	}
	if err := s.ensureTargets(t.Width, t.Height); err != nil {
		return fmt.Errorf("gpu: ensure targets: %w", err)
	}

	res, err := s.buildFrameResources(sc, cam)
	if err != nil {
		return fmt.Errorf("gpu: build frame resources: %w", err)
	}
	defer res.destroy(s.device)

	return s.encodeSubmit(t, res)
}

// ensureTargets creates or recreates the color and depth textures if
// the requested dimensions differ from the current size.
func (s *Session) ensureTargets(w, h uint32) error {
	if s.width == w && s.height == h && s.colorTex != nil {
		return nil
	}
	s.destroyTargets()

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "mesh_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	s.colorTex = colorTex

	colorView, err := s.device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label:         "mesh_color_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.destroyTargets()
		return fmt.Errorf("create color view: %w", err)
	}
	s.colorView = colorView

	depthTex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "mesh_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		s.destroyTargets()
		return fmt.Errorf("create depth texture: %w", err)
	}
	s.depthTex = depthTex

	depthView, err := s.device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label:         "mesh_depth_view",
		Format:        depthFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.destroyTargets()
		return fmt.Errorf("create depth view: %w", err)
	}
	s.depthView = depthView

	s.width = w
	s.height = h
	return nil
}

// destroyTargets releases the internal render textures and resets the
// cached dimensions.
func (s *Session) destroyTargets() {
	if s.depthView != nil {
		s.device.DestroyTextureView(s.depthView)
		s.depthView = nil
	}
	if s.depthTex != nil {
		s.device.DestroyTexture(s.depthTex)
		s.depthTex = nil
	}
	if s.colorView != nil {
		s.device.DestroyTextureView(s.colorView)
		s.colorView = nil
	}
	if s.colorTex != nil {
		s.device.DestroyTexture(s.colorTex)
		s.colorTex = nil
	}
	s.width = 0
	s.height = 0
}

// drawCall is one primitive's worth of recorded state.
type drawCall struct {
	materialBG hal.BindGroup
	nodeBG     hal.BindGroup

	posBuf hal.Buffer
	nrmBuf hal.Buffer
	uvBuf  hal.Buffer

	idxBuf    hal.Buffer
	idxFormat gputypes.IndexFormat
	idxCount  uint32
}

// frameResources holds every per-frame GPU object so that a single
// deferred destroy covers success and failure paths alike.
type frameResources struct {
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup

	cameraBG hal.BindGroup
	draws    []drawCall
}

func (r *frameResources) destroy(device hal.Device) {
	for i := len(r.bindGroups) - 1; i >= 0; i-- {
		device.DestroyBindGroup(r.bindGroups[i])
	}
	for i := len(r.buffers) - 1; i >= 0; i-- {
		device.DestroyBuffer(r.buffers[i])
	}
}

// buildFrameResources uploads uniforms, geometry, and material state
// for every drawable node and records the draw list.
func (s *Session) buildFrameResources(sc *scene.Scene, cam *scene.Camera) (*frameResources, error) {
	res := &frameResources{}

	camU := cam.Uniform()
	cameraBuf, err := s.uploadBuffer(res, "camera_uniform", camU.Pack(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return res, err
	}
	lightsU := sc.BuildLights(cam)
	lightsBuf, err := s.uploadBuffer(res, "lights_uniform", lightsU.Pack(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return res, err
	}

	cameraBG, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "camera_bind",
		Layout: s.pipelines.cameraLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: shading.CameraUniformBinding, Resource: gputypes.BufferBinding{
				Buffer: cameraBuf.NativeHandle(), Offset: 0, Size: shading.CameraUniformSize,
			}},
			{Binding: shading.LightsUniformBinding, Resource: gputypes.BufferBinding{
				Buffer: lightsBuf.NativeHandle(), Offset: 0, Size: shading.LightsUniformSize,
			}},
		},
	})
	if err != nil {
		return res, fmt.Errorf("create camera bind group: %w", err)
	}
	res.bindGroups = append(res.bindGroups, cameraBG)
	res.cameraBG = cameraBG

	// Material bind groups are shared between primitives that use the
	// same material index.
	materialBGs := map[int]hal.BindGroup{}

	var buildErr error
	sc.EachDrawable(func(n *scene.Node) {
		if buildErr != nil || n.Mesh < 0 || n.Mesh >= len(sc.Meshes) {
			return
		}
		nodeU := shading.NodeUniform{ModelMat: n.World(), NormalMat: n.NormalMat()}
		nodeBuf, err := s.uploadBuffer(res, "node_uniform", nodeU.Pack(),
			gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
		if err != nil {
			buildErr = err
			return
		}
		nodeBG, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "node_bind",
			Layout: s.pipelines.nodeLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: shading.NodeUniformBinding, Resource: gputypes.BufferBinding{
					Buffer: nodeBuf.NativeHandle(), Offset: 0, Size: shading.NodeUniformSize,
				}},
			},
		})
		if err != nil {
			buildErr = fmt.Errorf("create node bind group: %w", err)
			return
		}
		res.bindGroups = append(res.bindGroups, nodeBG)

		mesh := &sc.Meshes[n.Mesh]
		for pi := range mesh.Primitives {
			prim := &mesh.Primitives[pi]
			if prim.IndexCount() == 0 || prim.VertexCount() == 0 {
				continue
			}
			materialBG, ok := materialBGs[prim.Material]
			if !ok {
				materialBG, err = s.buildMaterialBindGroup(res, sc, prim.Material)
				if err != nil {
					buildErr = err
					return
				}
				materialBGs[prim.Material] = materialBG
			}
			dc, err := s.buildDrawCall(res, prim, materialBG, nodeBG)
			if err != nil {
				buildErr = err
				return
			}
			res.draws = append(res.draws, dc)
		}
	})
	return res, buildErr
}

// buildMaterialBindGroup uploads the material uniform and binds it with
// the material's resolved texture and sampler.
func (s *Session) buildMaterialBindGroup(res *frameResources, sc *scene.Scene, index int) (hal.BindGroup, error) {
	mat := sc.MaterialAt(index)
	matU := mat.Uniform()
	matBuf, err := s.uploadBuffer(res, "material_uniform", matU.Pack(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	tex := mat.ResolveTexture(sc)
	ct, err := s.ensureTexture(tex)
	if err != nil {
		return nil, err
	}
	sampler, err := s.ensureSampler(tex.Sampler)
	if err != nil {
		return nil, err
	}

	bg, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "material_bind",
		Layout: s.pipelines.materialLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: shading.MaterialUniformBinding, Resource: gputypes.BufferBinding{
				Buffer: matBuf.NativeHandle(), Offset: 0, Size: shading.MaterialUniformSize,
			}},
			{Binding: shading.MaterialTextureBinding, Resource: gputypes.TextureViewBinding{
				TextureView: ct.view.NativeHandle(),
			}},
			{Binding: shading.MaterialSamplerBinding, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create material bind group: %w", err)
	}
	res.bindGroups = append(res.bindGroups, bg)
	return bg, nil
}

// buildDrawCall uploads one primitive's vertex and index buffers.
func (s *Session) buildDrawCall(res *frameResources, prim *scene.Primitive, materialBG, nodeBG hal.BindGroup) (drawCall, error) {
	dc := drawCall{materialBG: materialBG, nodeBG: nodeBG}

	posBuf, err := s.uploadBuffer(res, "mesh_positions", packVec3s(prim.Positions),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return dc, err
	}
	nrmBuf, err := s.uploadBuffer(res, "mesh_normals", packVec3s(prim.Normals),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return dc, err
	}
	uvBuf, err := s.uploadBuffer(res, "mesh_texcoords", packVec2s(prim.TexCoords),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return dc, err
	}

	var idxData []byte
	if len(prim.Indices16) > 0 {
		idxData = packUint16s(prim.Indices16)
		dc.idxFormat = gputypes.IndexFormatUint16
	} else {
		idxData = packUint32s(prim.Indices32)
		dc.idxFormat = gputypes.IndexFormatUint32
	}
	idxBuf, err := s.uploadBuffer(res, "mesh_indices", idxData,
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return dc, err
	}

	dc.posBuf = posBuf
	dc.nrmBuf = nrmBuf
	dc.uvBuf = uvBuf
	dc.idxBuf = idxBuf
	dc.idxCount = uint32(prim.IndexCount()) //nolint:gosec // index counts fit uint32
	return dc, nil
}

// uploadBuffer creates a GPU buffer, uploads data, and registers the
// buffer for end-of-frame destruction.
func (s *Session) uploadBuffer(res *frameResources, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	res.buffers = append(res.buffers, buf)
	s.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// ensureTexture uploads a scene texture on first use and returns the
// cached GPU copy afterwards. Scene textures are immutable once loaded,
// so the cache key is the texture pointer.
func (s *Session) ensureTexture(tex *scene.Texture) (cachedTexture, error) {
	if ct, ok := s.textures[tex]; ok {
		return ct, nil
	}

	w, h := uint32(tex.Width), uint32(tex.Height) //nolint:gosec // texture sizes fit uint32
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	gpuTex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "material_texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return cachedTexture{}, fmt.Errorf("create material texture: %w", err)
	}
	view, err := s.device.CreateTextureView(gpuTex, &hal.TextureViewDescriptor{
		Label:         "material_texture_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.device.DestroyTexture(gpuTex)
		return cachedTexture{}, fmt.Errorf("create material texture view: %w", err)
	}

	s.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: gpuTex, MipLevel: 0},
		tex.Pixels,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&size,
	)

	ct := cachedTexture{tex: gpuTex, view: view}
	s.textures[tex] = ct
	return ct, nil
}

// ensureSampler returns a cached hal sampler matching the scene sampler
// configuration, creating it on first use.
func (s *Session) ensureSampler(cfg scene.Sampler) (hal.Sampler, error) {
	if smp, ok := s.samplers[cfg]; ok {
		return smp, nil
	}

	filter := gputypes.FilterModeLinear
	if cfg.Filter == scene.FilterNearest {
		filter = gputypes.FilterModeNearest
	}
	smp, err := s.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "material_sampler",
		AddressModeU: addressMode(cfg.WrapU),
		AddressModeV: addressMode(cfg.WrapV),
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	s.samplers[cfg] = smp
	return smp, nil
}

func addressMode(w scene.Wrap) gputypes.AddressMode {
	if w == scene.WrapClamp {
		return gputypes.AddressModeClampToEdge
	}
	return gputypes.AddressModeRepeat
}

// encodeSubmit records the mesh pass, the optional blit pass, and the
// optional readback copy, then submits and waits for the submission
// index to complete.
func (s *Session) encodeSubmit(t Target, res *frameResources) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	clear := s.ClearColor
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "mesh_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.colorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: float64(clear.X), G: float64(clear.Y), B: float64(clear.Z), A: float64(clear.W)},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              s.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})

	if len(res.draws) > 0 {
		rp.SetPipeline(s.pipelines.meshPipeline)
		rp.SetBindGroup(shading.CameraGroup, res.cameraBG, nil)
		for i := range res.draws {
			dc := &res.draws[i]
			rp.SetBindGroup(shading.MaterialGroup, dc.materialBG, nil)
			rp.SetBindGroup(shading.NodeGroup, dc.nodeBG, nil)
			rp.SetVertexBuffer(0, dc.posBuf, 0)
			rp.SetVertexBuffer(1, dc.nrmBuf, 0)
			rp.SetVertexBuffer(2, dc.uvBuf, 0)
			rp.SetIndexBuffer(dc.idxBuf, dc.idxFormat, 0)
			rp.DrawIndexed(dc.idxCount, 1, 0, 0, 0)
		}
	}
	rp.End()

	// Track the color texture's usage so each barrier names the state
	// it actually transitions from.
	colorUsage := gputypes.TextureUsageRenderAttachment

	if t.SurfaceView != nil {
		if err := s.encodeBlit(encoder, t, res, &colorUsage); err != nil {
			encoder.DiscardEncoding()
			return err
		}
	}

	var staging hal.Buffer
	var alignedBytesPerRow uint32
	if t.Pixels != nil {
		staging, alignedBytesPerRow, err = s.encodeReadback(encoder, t, &colorUsage)
		if err != nil {
			encoder.DiscardEncoding()
			return err
		}
		defer s.device.DestroyBuffer(staging)
	}

	// Return the color texture to its render pass state for the next
	// frame's clear.
	if colorUsage != gputypes.TextureUsageRenderAttachment {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: s.colorTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: colorUsage,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	subIdx, err := s.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := s.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if completed := s.queue.PollCompleted(); completed < subIdx {
		return fmt.Errorf("submission %d not completed (highest %d)", subIdx, completed)
	}

	if staging != nil {
		if err := s.readPixels(t, staging, alignedBytesPerRow); err != nil {
			return err
		}
	}
	return nil
}

// encodeBlit records the blit pass: the mesh pass color texture is
// sampled and stretched over the caller's surface view.
func (s *Session) encodeBlit(encoder hal.CommandEncoder, t Target, res *frameResources, colorUsage *gputypes.TextureUsage) error {
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: *colorUsage,
			NewUsage: gputypes.TextureUsageTextureBinding,
		},
	}})
	*colorUsage = gputypes.TextureUsageTextureBinding

	sampler, err := s.ensureSampler(scene.Sampler{
		Filter: scene.FilterLinear,
		WrapU:  scene.WrapClamp,
		WrapV:  scene.WrapClamp,
	})
	if err != nil {
		return err
	}
	blitBG, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "blit_bind",
		Layout: s.pipelines.blitLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: shading.BlitTextureBinding, Resource: gputypes.TextureViewBinding{
				TextureView: s.colorView.NativeHandle(),
			}},
			{Binding: shading.BlitSamplerBinding, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create blit bind group: %w", err)
	}
	res.bindGroups = append(res.bindGroups, blitBG)

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.SurfaceView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rp.SetPipeline(s.pipelines.blitPipeline)
	rp.SetBindGroup(0, blitBG, nil)
	rp.Draw(shading.BlitVertexCount, 1, 0, 0)
	rp.End()
	return nil
}

// encodeReadback copies the color texture into a fresh staging buffer.
// WebGPU (and DX12) require BytesPerRow aligned to 256 bytes.
func (s *Session) encodeReadback(encoder hal.CommandEncoder, t Target, colorUsage *gputypes.TextureUsage) (hal.Buffer, uint32, error) {
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: *colorUsage,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	*colorUsage = gputypes.TextureUsageCopySrc

	bytesPerRow := t.Width * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(t.Height)

	staging, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "frame_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create staging buffer: %w", err)
	}

	encoder.CopyTextureToBuffer(s.colorTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: t.Height},
		TextureBase:  hal.ImageCopyTexture{Texture: s.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
	}})
	return staging, alignedBytesPerRow, nil
}

// readPixels maps the staging buffer and copies rows into the target,
// stripping per-row padding. The submission must have completed before
// the call; MapBuffer does not synchronize with the GPU.
func (s *Session) readPixels(t Target, staging hal.Buffer, alignedBytesPerRow uint32) error {
	size := uint64(alignedBytesPerRow) * uint64(t.Height)
	mapping, err := s.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), size)

	rowBytes := int(t.Width) * 4
	stride := t.Stride
	if stride == 0 {
		stride = rowBytes
	}
	for row := 0; row < int(t.Height); row++ {
		src := row * int(alignedBytesPerRow)
		dst := row * stride
		copy(t.Pixels[dst:dst+rowBytes], readback[src:src+rowBytes])
	}
	return s.device.UnmapBuffer(staging)
}

func packVec3s(v []math3.Vec3) []byte {
	out := make([]byte, len(v)*shading.PositionStride)
	for i, p := range v {
		off := i * shading.PositionStride
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(out[off+4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(out[off+8:], math.Float32bits(p.Z))
	}
	return out
}

func packVec2s(v []math3.Vec2) []byte {
	out := make([]byte, len(v)*shading.TexCoordStride)
	for i, p := range v {
		off := i * shading.TexCoordStride
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(out[off+4:], math.Float32bits(p.Y))
	}
	return out
}

// packUint16s encodes indices padded to a 4-byte boundary, matching the
// buffer copy alignment rule.
func packUint16s(v []uint16) []byte {
	n := len(v) * 2
	out := make([]byte, (n+3)&^3)
	for i, x := range v {
		binary.LittleEndian.PutUint16(out[i*2:], x)
	}
	return out
}

func packUint32s(v []uint32) []byte {
	out := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], x)
	}
	return out
}
