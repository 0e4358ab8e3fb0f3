// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/g3d/shading"
)

// colorFormat is the format of the internal color texture and every
// color attachment in both passes.
const colorFormat = wgpu.TextureFormatRGBA8Unorm

// depthFormat is the mesh pass depth attachment format.
const depthFormat = wgpu.TextureFormatDepth24Plus

// materialLayoutEntries is the mesh pass group 0 layout: material
// uniform, diffuse texture, diffuse sampler, all fragment-visible.
func materialLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    shading.MaterialUniformBinding,
			Visibility: wgpu.ShaderStageFragment,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		},
		{
			Binding:    shading.MaterialTextureBinding,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    shading.MaterialSamplerBinding,
			Visibility: wgpu.ShaderStageFragment,
			Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
		},
	}
}

// cameraLayoutEntries is the mesh pass group 1 layout: the camera
// uniform (vertex and fragment) and the lights uniform (fragment).
func cameraLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    shading.CameraUniformBinding,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		},
		{
			Binding:    shading.LightsUniformBinding,
			Visibility: wgpu.ShaderStageFragment,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		},
	}
}

// nodeLayoutEntries is the mesh pass group 2 layout: the per-node
// transform uniform, vertex-visible.
func nodeLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    shading.NodeUniformBinding,
			Visibility: wgpu.ShaderStageVertex,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		},
	}
}

// blitLayoutEntries is the blit pass group 0 layout: the source texture
// and its sampler, fragment-visible.
func blitLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    shading.BlitTextureBinding,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    shading.BlitSamplerBinding,
			Visibility: wgpu.ShaderStageFragment,
			Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
		},
	}
}

// vertexBufferLayouts returns the mesh pass vertex buffers: position,
// normal, and texture coordinates at shader locations 0, 1, 2, each
// tightly packed in its own buffer.
func vertexBufferLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: shading.PositionStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: shading.NormalStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: shading.TexCoordStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 2},
			},
		},
	}
}

// pipelines holds the two render pipelines and the layouts they were
// built from. Created once per renderer, released in reverse creation
// order.
type pipelines struct {
	meshShader *wgpu.ShaderModule
	blitShader *wgpu.ShaderModule

	materialLayout *wgpu.BindGroupLayout
	cameraLayout   *wgpu.BindGroupLayout
	nodeLayout     *wgpu.BindGroupLayout
	blitLayout     *wgpu.BindGroupLayout

	meshPipeLayout *wgpu.PipelineLayout
	blitPipeLayout *wgpu.PipelineLayout

	meshPipeline *wgpu.RenderPipeline
	blitPipeline *wgpu.RenderPipeline
}

// createPipelines compiles both WGSL sources and builds the mesh and
// blit render pipelines. On error, everything created so far is
// released.
func createPipelines(device *wgpu.Device) (*pipelines, error) {
	p := &pipelines{}
	if err := p.create(device); err != nil {
		p.release()
		return nil, err
	}
	return p, nil
}

func (p *pipelines) create(device *wgpu.Device) error {
	meshShader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "mesh_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shading.MeshShaderSource(),
		},
	})
	if err != nil {
		return fmt.Errorf("compile mesh shader: %w", err)
	}
	p.meshShader = meshShader

	blitShader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "blit_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shading.BlitShaderSource(),
		},
	})
	if err != nil {
		return fmt.Errorf("compile blit shader: %w", err)
	}
	p.blitShader = blitShader

	// The three mesh bind group layouts, in pipeline layout order:
	// material, camera, node.
	materialLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "mesh_material_layout",
		Entries: materialLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create material bind group layout: %w", err)
	}
	p.materialLayout = materialLayout

	cameraLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "mesh_camera_layout",
		Entries: cameraLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create camera bind group layout: %w", err)
	}
	p.cameraLayout = cameraLayout

	nodeLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "mesh_node_layout",
		Entries: nodeLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create node bind group layout: %w", err)
	}
	p.nodeLayout = nodeLayout

	blitLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "blit_layout",
		Entries: blitLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create blit bind group layout: %w", err)
	}
	p.blitLayout = blitLayout

	meshPipeLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "mesh_pipe_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{
			p.materialLayout, p.cameraLayout, p.nodeLayout,
		},
	})
	if err != nil {
		return fmt.Errorf("create mesh pipeline layout: %w", err)
	}
	p.meshPipeLayout = meshPipeLayout

	blitPipeLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "blit_pipe_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.blitLayout},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline layout: %w", err)
	}
	p.blitPipeLayout = blitPipeLayout

	// Mesh pipeline: depth Less with write, back faces culled, output
	// replaces the destination.
	meshPipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "mesh_pipeline",
		Layout: p.meshPipeLayout,
		Vertex: wgpu.VertexState{
			Module:     p.meshShader,
			EntryPoint: shading.VertexEntryPoint,
			Buffers:    vertexBufferLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.meshShader,
			EntryPoint: shading.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    colorFormat,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create mesh pipeline: %w", err)
	}
	p.meshPipeline = meshPipeline

	// Blit pipeline: no depth attachment, no culling, vertices generated
	// from the vertex index.
	blitPipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "blit_pipeline",
		Layout: p.blitPipeLayout,
		Vertex: wgpu.VertexState{
			Module:     p.blitShader,
			EntryPoint: shading.VertexEntryPoint,
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.blitShader,
			EntryPoint: shading.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    colorFormat,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline: %w", err)
	}
	p.blitPipeline = blitPipeline

	return nil
}

// release frees all pipeline resources in reverse creation order.
// Safe to call on a partially created set.
func (p *pipelines) release() {
	if p.blitPipeline != nil {
		p.blitPipeline.Release()
		p.blitPipeline = nil
	}
	if p.meshPipeline != nil {
		p.meshPipeline.Release()
		p.meshPipeline = nil
	}
	if p.blitPipeLayout != nil {
		p.blitPipeLayout.Release()
		p.blitPipeLayout = nil
	}
	if p.meshPipeLayout != nil {
		p.meshPipeLayout.Release()
		p.meshPipeLayout = nil
	}
	if p.blitLayout != nil {
		p.blitLayout.Release()
		p.blitLayout = nil
	}
	if p.nodeLayout != nil {
		p.nodeLayout.Release()
		p.nodeLayout = nil
	}
	if p.cameraLayout != nil {
		p.cameraLayout.Release()
		p.cameraLayout = nil
	}
	if p.materialLayout != nil {
		p.materialLayout.Release()
		p.materialLayout = nil
	}
	if p.blitShader != nil {
		p.blitShader.Release()
		p.blitShader = nil
	}
	if p.meshShader != nil {
		p.meshShader.Release()
		p.meshShader = nil
	}
}
