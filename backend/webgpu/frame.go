// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/scene"
	"github.com/gogpu/g3d/shading"
)

// drawCall is one primitive's worth of recorded state.
type drawCall struct {
	materialBG *wgpu.BindGroup
	nodeBG     *wgpu.BindGroup

	posBuf *wgpu.Buffer
	nrmBuf *wgpu.Buffer
	uvBuf  *wgpu.Buffer

	idxBuf    *wgpu.Buffer
	idxFormat wgpu.IndexFormat
	idxCount  uint32
}

// frameResources holds every per-frame GPU object so that a single
// deferred release covers success and failure paths alike.
type frameResources struct {
	buffers    []*wgpu.Buffer
	bindGroups []*wgpu.BindGroup

	cameraBG *wgpu.BindGroup
	draws    []drawCall
}

func (r *frameResources) release() {
	for i := len(r.bindGroups) - 1; i >= 0; i-- {
		r.bindGroups[i].Release()
	}
	r.bindGroups = nil
	for i := len(r.buffers) - 1; i >= 0; i-- {
		r.buffers[i].Release()
	}
	r.buffers = nil
}

// buildFrameResources uploads uniforms, geometry, and material state
// for every drawable node and records the draw list.
func (r *Renderer) buildFrameResources(sc *scene.Scene, cam *scene.Camera) (*frameResources, error) {
	res := &frameResources{}

	camU := cam.Uniform()
	cameraBuf, err := r.uploadBuffer(res, "camera_uniform", camU.Pack(),
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return res, err
	}
	lightsU := sc.BuildLights(cam)
	lightsBuf, err := r.uploadBuffer(res, "lights_uniform", lightsU.Pack(),
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return res, err
	}

	cameraBG, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "camera_bind",
		Layout: r.pipelines.cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: shading.CameraUniformBinding, Buffer: cameraBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: shading.LightsUniformBinding, Buffer: lightsBuf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return res, fmt.Errorf("create camera bind group: %w", err)
	}
	res.bindGroups = append(res.bindGroups, cameraBG)
	res.cameraBG = cameraBG

	// Material bind groups are shared between primitives that use the
	// same material index.
	materialBGs := map[int]*wgpu.BindGroup{}

	var buildErr error
	sc.EachDrawable(func(n *scene.Node) {
		if buildErr != nil || n.Mesh < 0 || n.Mesh >= len(sc.Meshes) {
			return
		}
		nodeU := shading.NodeUniform{ModelMat: n.World(), NormalMat: n.NormalMat()}
		nodeBuf, err := r.uploadBuffer(res, "node_uniform", nodeU.Pack(),
			wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			buildErr = err
			return
		}
		nodeBG, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "node_bind",
			Layout: r.pipelines.nodeLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: shading.NodeUniformBinding, Buffer: nodeBuf, Offset: 0, Size: wgpu.WholeSize},
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
				materialBG, err = r.buildMaterialBindGroup(res, sc, prim.Material)
				if err != nil {
					buildErr = err
					return
				}
				materialBGs[prim.Material] = materialBG
			}
			dc, err := r.buildDrawCall(res, prim, materialBG, nodeBG)
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
func (r *Renderer) buildMaterialBindGroup(res *frameResources, sc *scene.Scene, index int) (*wgpu.BindGroup, error) {
	mat := sc.MaterialAt(index)
	matU := mat.Uniform()
	matBuf, err := r.uploadBuffer(res, "material_uniform", matU.Pack(),
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	tex := mat.ResolveTexture(sc)
	ct, err := r.ensureTexture(tex)
	if err != nil {
		return nil, err
	}
	sampler, err := r.ensureSampler(tex.Sampler)
	if err != nil {
		return nil, err
	}

	bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "material_bind",
		Layout: r.pipelines.materialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: shading.MaterialUniformBinding, Buffer: matBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: shading.MaterialTextureBinding, TextureView: ct.view},
			{Binding: shading.MaterialSamplerBinding, Sampler: sampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create material bind group: %w", err)
	}
	res.bindGroups = append(res.bindGroups, bg)
	return bg, nil
}

// buildDrawCall uploads one primitive's vertex and index buffers.
func (r *Renderer) buildDrawCall(res *frameResources, prim *scene.Primitive, materialBG, nodeBG *wgpu.BindGroup) (drawCall, error) {
	dc := drawCall{materialBG: materialBG, nodeBG: nodeBG}

	posBuf, err := r.uploadBuffer(res, "mesh_positions", packVec3s(prim.Positions),
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return dc, err
	}
	nrmBuf, err := r.uploadBuffer(res, "mesh_normals", packVec3s(prim.Normals),
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return dc, err
	}
	uvBuf, err := r.uploadBuffer(res, "mesh_texcoords", packVec2s(prim.TexCoords),
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return dc, err
	}

	var idxData []byte
	if len(prim.Indices16) > 0 {
		idxData = packUint16s(prim.Indices16)
		dc.idxFormat = wgpu.IndexFormatUint16
	} else {
		idxData = packUint32s(prim.Indices32)
		dc.idxFormat = wgpu.IndexFormatUint32
	}
	idxBuf, err := r.uploadBuffer(res, "mesh_indices", idxData,
		wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
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
// buffer for end-of-frame release.
func (r *Renderer) uploadBuffer(res *frameResources, label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	res.buffers = append(res.buffers, buf)
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// ensureTexture uploads a scene texture on first use and returns the
// cached GPU copy afterwards. Scene textures are immutable once loaded,
// so the cache key is the texture pointer.
func (r *Renderer) ensureTexture(tex *scene.Texture) (cachedTexture, error) {
	if ct, ok := r.textures[tex]; ok {
		return ct, nil
	}

	w, h := uint32(tex.Width), uint32(tex.Height) //nolint:gosec // texture sizes fit uint32
	size := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	gpuTex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "material_texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        colorFormat,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return cachedTexture{}, fmt.Errorf("create material texture: %w", err)
	}
	view, err := gpuTex.CreateView(nil)
	if err != nil {
		gpuTex.Release()
		return cachedTexture{}, fmt.Errorf("create material texture view: %w", err)
	}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  gpuTex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		tex.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&size,
	)

	ct := cachedTexture{tex: gpuTex, view: view}
	r.textures[tex] = ct
	return ct, nil
}

// ensureSampler returns a cached sampler matching the scene sampler
// configuration, creating it on first use.
func (r *Renderer) ensureSampler(cfg scene.Sampler) (*wgpu.Sampler, error) {
	if smp, ok := r.samplers[cfg]; ok {
		return smp, nil
	}

	filter := wgpu.FilterModeLinear
	if cfg.Filter == scene.FilterNearest {
		filter = wgpu.FilterModeNearest
	}
	smp, err := r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "material_sampler",
		AddressModeU:  addressMode(cfg.WrapU),
		AddressModeV:  addressMode(cfg.WrapV),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	r.samplers[cfg] = smp
	return smp, nil
}

func addressMode(w scene.Wrap) wgpu.AddressMode {
	if w == scene.WrapClamp {
		return wgpu.AddressModeClampToEdge
	}
	return wgpu.AddressModeRepeat
}

// encodeSubmit records the mesh pass, the optional blit pass, and the
// optional readback copy, then submits and waits for the queue.
func (r *Renderer) encodeSubmit(t render.RenderTarget, surfaceView *wgpu.TextureView, res *frameResources) error {
	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("webgpu: create command encoder: %w", err)
	}
	defer encoder.Release()

	clear := r.ClearColor
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "mesh_pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    r.colorView,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(clear.X), G: float64(clear.Y), B: float64(clear.Z), A: float64(clear.W),
			},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	if len(res.draws) > 0 {
		pass.SetPipeline(r.pipelines.meshPipeline)
		pass.SetBindGroup(shading.CameraGroup, res.cameraBG, nil)
		for i := range res.draws {
			dc := &res.draws[i]
			pass.SetBindGroup(shading.MaterialGroup, dc.materialBG, nil)
			pass.SetBindGroup(shading.NodeGroup, dc.nodeBG, nil)
			pass.SetVertexBuffer(0, dc.posBuf, 0, wgpu.WholeSize)
			pass.SetVertexBuffer(1, dc.nrmBuf, 0, wgpu.WholeSize)
			pass.SetVertexBuffer(2, dc.uvBuf, 0, wgpu.WholeSize)
			pass.SetIndexBuffer(dc.idxBuf, dc.idxFormat, 0, wgpu.WholeSize)
			pass.DrawIndexed(dc.idxCount, 1, 0, 0, 0)
		}
	}
	pass.End()

	if surfaceView != nil {
		if err := r.encodeBlit(encoder, surfaceView, res); err != nil {
			return err
		}
	}

	var staging *wgpu.Buffer
	var alignedBytesPerRow uint32
	if t.Pixels() != nil {
		staging, alignedBytesPerRow, err = r.encodeReadback(encoder)
		if err != nil {
			return err
		}
		defer staging.Release()
	}

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("webgpu: finish encoding: %w", err)
	}
	r.queue.Submit(cmdBuf)
	cmdBuf.Release()

	if staging != nil {
		if err := r.readPixels(t, staging, alignedBytesPerRow); err != nil {
			return err
		}
	}
	return nil
}

// encodeBlit records the blit pass: the mesh pass color texture is
// sampled and stretched over the caller's surface view.
func (r *Renderer) encodeBlit(encoder *wgpu.CommandEncoder, surfaceView *wgpu.TextureView, res *frameResources) error {
	sampler, err := r.ensureSampler(scene.Sampler{
		Filter: scene.FilterLinear,
		WrapU:  scene.WrapClamp,
		WrapV:  scene.WrapClamp,
	})
	if err != nil {
		return err
	}
	blitBG, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "blit_bind",
		Layout: r.pipelines.blitLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: shading.BlitTextureBinding, TextureView: r.colorView},
			{Binding: shading.BlitSamplerBinding, Sampler: sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("webgpu: create blit bind group: %w", err)
	}
	res.bindGroups = append(res.bindGroups, blitBG)

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "blit_pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       surfaceView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	pass.SetPipeline(r.pipelines.blitPipeline)
	pass.SetBindGroup(0, blitBG, nil)
	pass.Draw(shading.BlitVertexCount, 1, 0, 0)
	pass.End()
	return nil
}

// encodeReadback copies the color texture into a fresh staging buffer.
// WebGPU requires BytesPerRow aligned to 256 bytes.
func (r *Renderer) encodeReadback(encoder *wgpu.CommandEncoder) (*wgpu.Buffer, uint32, error) {
	alignedBytesPerRow := alignRow(r.width * 4)
	stagingSize := uint64(alignedBytesPerRow) * uint64(r.height)

	staging, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "frame_staging",
		Size:  stagingSize,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("webgpu: create staging buffer: %w", err)
	}

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  r.colorTex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: staging,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  alignedBytesPerRow,
				RowsPerImage: r.height,
			},
		},
		&wgpu.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
	)
	return staging, alignedBytesPerRow, nil
}

// readPixels maps the staging buffer and copies rows into the target,
// stripping per-row padding.
func (r *Renderer) readPixels(t render.RenderTarget, staging *wgpu.Buffer, alignedBytesPerRow uint32) error {
	size := uint64(alignedBytesPerRow) * uint64(r.height)

	var mapErr error
	done := false
	err := staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		done = true
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("webgpu: buffer map status %v", status)
		}
	})
	if err != nil {
		return fmt.Errorf("webgpu: map staging buffer: %w", err)
	}
	r.device.Poll(true, nil)
	if !done {
		return fmt.Errorf("webgpu: buffer map did not complete")
	}
	if mapErr != nil {
		return mapErr
	}
	defer staging.Unmap()

	readback := staging.GetMappedRange(0, uint(size))

	pixels := t.Pixels()
	rowBytes := int(r.width) * 4
	stride := t.Stride()
	if stride == 0 {
		stride = rowBytes
	}
	for row := 0; row < int(r.height); row++ {
		src := row * int(alignedBytesPerRow)
		dst := row * stride
		copy(pixels[dst:dst+rowBytes], readback[src:src+rowBytes])
	}
	return nil
}

// alignRow rounds a row pitch up to the 256-byte copy alignment.
func alignRow(bytesPerRow uint32) uint32 {
	const copyPitchAlignment = 256
	return (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
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
