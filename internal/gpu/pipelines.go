// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/shading"
)

// colorFormat is the format of every color attachment in both passes.
const colorFormat = gputypes.TextureFormatRGBA8Unorm

// depthFormat is the mesh pass depth attachment format. The stencil
// component exists only because it ships with the 24-bit depth format;
// both faces are configured to never touch it.
const depthFormat = gputypes.TextureFormatDepth24PlusStencil8

// pipelines holds the two render pipelines and every layout object they
// were built from. Created once per session, destroyed in reverse
// creation order.
type pipelines struct {
	meshShader hal.ShaderModule
	blitShader hal.ShaderModule

	materialLayout hal.BindGroupLayout
	cameraLayout   hal.BindGroupLayout
	nodeLayout     hal.BindGroupLayout
	blitLayout     hal.BindGroupLayout

	meshPipeLayout hal.PipelineLayout
	blitPipeLayout hal.PipelineLayout

	meshPipeline hal.RenderPipeline
	blitPipeline hal.RenderPipeline
}

// stencilNoop is the disabled stencil configuration used on both faces
// of the mesh pipeline.
func stencilNoop() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
}

// createPipelines compiles both WGSL sources and builds the mesh and
// blit render pipelines. On error, everything created so far is
// destroyed.
func createPipelines(device hal.Device) (*pipelines, error) {
	p := &pipelines{}
	if err := p.create(device); err != nil {
		p.destroy(device)
		return nil, err
	}
	return p, nil
}

func (p *pipelines) create(device hal.Device) error {
	meshShader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mesh_shader",
		Source: hal.ShaderSource{WGSL: shading.MeshShaderSource()},
	})
	if err != nil {
		return fmt.Errorf("compile mesh shader: %w", err)
	}
	p.meshShader = meshShader

	blitShader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "blit_shader",
		Source: hal.ShaderSource{WGSL: shading.BlitShaderSource()},
	})
	if err != nil {
		return fmt.Errorf("compile blit shader: %w", err)
	}
	p.blitShader = blitShader

	// The three mesh bind group layouts, in pipeline layout order:
	// material, camera, node.
	materialLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "mesh_material_layout",
		Entries: shading.MaterialBindGroupLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create material bind group layout: %w", err)
	}
	p.materialLayout = materialLayout

	cameraLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "mesh_camera_layout",
		Entries: shading.CameraBindGroupLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create camera bind group layout: %w", err)
	}
	p.cameraLayout = cameraLayout

	nodeLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "mesh_node_layout",
		Entries: shading.NodeBindGroupLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create node bind group layout: %w", err)
	}
	p.nodeLayout = nodeLayout

	blitLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "blit_layout",
		Entries: shading.BlitBindGroupLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create blit bind group layout: %w", err)
	}
	p.blitLayout = blitLayout

	meshPipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "mesh_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{
			p.materialLayout, p.cameraLayout, p.nodeLayout,
		},
	})
	if err != nil {
		return fmt.Errorf("create mesh pipeline layout: %w", err)
	}
	p.meshPipeLayout = meshPipeLayout

	blitPipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.blitLayout},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline layout: %w", err)
	}
	p.blitPipeLayout = blitPipeLayout

	// Mesh pipeline: depth Less with write, back faces culled, output
	// replaces the destination (nil blend).
	meshPipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "mesh_pipeline",
		Layout: p.meshPipeLayout,
		Vertex: hal.VertexState{
			Module:     p.meshShader,
			EntryPoint: shading.VertexEntryPoint,
			Buffers:    shading.VertexBufferLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.meshShader,
			EntryPoint: shading.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront:      stencilNoop(),
			StencilBack:       stencilNoop(),
			StencilReadMask:   0xFF,
			StencilWriteMask:  0xFF,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
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
	blitPipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_pipeline",
		Layout: p.blitPipeLayout,
		Vertex: hal.VertexState{
			Module:     p.blitShader,
			EntryPoint: shading.VertexEntryPoint,
		},
		Fragment: &hal.FragmentState{
			Module:     p.blitShader,
			EntryPoint: shading.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
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

// destroy releases all pipeline resources in reverse creation order.
// Safe to call on a partially created set.
func (p *pipelines) destroy(device hal.Device) {
	if device == nil {
		return
	}
	if p.blitPipeline != nil {
		device.DestroyRenderPipeline(p.blitPipeline)
		p.blitPipeline = nil
	}
	if p.meshPipeline != nil {
		device.DestroyRenderPipeline(p.meshPipeline)
		p.meshPipeline = nil
	}
	if p.blitPipeLayout != nil {
		device.DestroyPipelineLayout(p.blitPipeLayout)
		p.blitPipeLayout = nil
	}
	if p.meshPipeLayout != nil {
		device.DestroyPipelineLayout(p.meshPipeLayout)
		p.meshPipeLayout = nil
	}
	if p.blitLayout != nil {
		device.DestroyBindGroupLayout(p.blitLayout)
		p.blitLayout = nil
	}
	if p.nodeLayout != nil {
		device.DestroyBindGroupLayout(p.nodeLayout)
		p.nodeLayout = nil
	}
	if p.cameraLayout != nil {
		device.DestroyBindGroupLayout(p.cameraLayout)
		p.cameraLayout = nil
	}
	if p.materialLayout != nil {
		device.DestroyBindGroupLayout(p.materialLayout)
		p.materialLayout = nil
	}
	if p.blitShader != nil {
		device.DestroyShaderModule(p.blitShader)
		p.blitShader = nil
	}
	if p.meshShader != nil {
		device.DestroyShaderModule(p.meshShader)
		p.meshShader = nil
	}
}
