// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import "github.com/gogpu/gputypes"

// Bind group indices for the mesh shading pass, in pipeline layout order.
const (
	MaterialGroup = 0
	CameraGroup   = 1
	NodeGroup     = 2
)

// Bindings within each mesh pass group.
const (
	MaterialUniformBinding = 0
	MaterialTextureBinding = 1
	MaterialSamplerBinding = 2

	CameraUniformBinding = 0
	LightsUniformBinding = 1

	NodeUniformBinding = 0
)

// Bindings for the blit pass (single group 0).
const (
	BlitTextureBinding = 0
	BlitSamplerBinding = 1
)

// Vertex buffer strides for the three mesh attribute buffers.
const (
	PositionStride = 12 // 3 x float32
	NormalStride   = 12 // 3 x float32
	TexCoordStride = 8  // 2 x float32
)

// MaterialBindGroupLayoutEntries returns the layout for mesh pass group 0:
// the material uniform, diffuse texture, and diffuse sampler, all visible
// to the fragment stage.
func MaterialBindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    MaterialUniformBinding,
			Visibility: gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{
			Binding:    MaterialTextureBinding,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    MaterialSamplerBinding,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
}

// CameraBindGroupLayoutEntries returns the layout for mesh pass group 1:
// the camera uniform (vertex reads view_proj, fragment reads view_front)
// and the lights uniform.
func CameraBindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    CameraUniformBinding,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{
			Binding:    LightsUniformBinding,
			Visibility: gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	}
}

// NodeBindGroupLayoutEntries returns the layout for mesh pass group 2:
// the per-node transform uniform, visible to the vertex stage.
func NodeBindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    NodeUniformBinding,
			Visibility: gputypes.ShaderStageVertex,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	}
}

// BlitBindGroupLayoutEntries returns the layout for the blit pass: the
// source texture and its sampler, visible to the fragment stage.
func BlitBindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    BlitTextureBinding,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    BlitSamplerBinding,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
}

// VertexBufferLayouts returns the three mesh pass vertex buffers:
// position, normal, and texture coordinates at shader locations 0, 1, 2,
// each tightly packed in its own buffer.
func VertexBufferLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: PositionStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: NormalStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: TexCoordStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 2},
			},
		},
	}
}
