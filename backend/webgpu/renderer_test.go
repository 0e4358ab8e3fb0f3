// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/scene"
	"github.com/gogpu/g3d/shading"
)

func TestRegisteredWithBackend(t *testing.T) {
	if !backend.IsRegistered(backend.BackendWebGPU) {
		t.Fatal("webgpu backend not registered")
	}
	r := backend.Get(backend.BackendWebGPU)
	if r == nil {
		t.Fatal("Get(webgpu) returned nil")
	}
	if _, ok := r.(*Renderer); !ok {
		t.Errorf("Get(webgpu) = %T, want *Renderer", r)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestMaterialLayoutEntries(t *testing.T) {
	entries := materialLayoutEntries()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].Binding != shading.MaterialUniformBinding ||
		entries[0].Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Error("material uniform entry mismatch")
	}
	if entries[1].Binding != shading.MaterialTextureBinding ||
		entries[1].Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Error("material texture entry mismatch")
	}
	if entries[2].Binding != shading.MaterialSamplerBinding ||
		entries[2].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Error("material sampler entry mismatch")
	}
	for _, e := range entries {
		if e.Visibility != wgpu.ShaderStageFragment {
			t.Errorf("binding %d visibility = %v, want fragment", e.Binding, e.Visibility)
		}
	}
}

func TestCameraLayoutEntries(t *testing.T) {
	entries := cameraLayoutEntries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Error("camera uniform must be visible to vertex and fragment stages")
	}
	if entries[1].Binding != shading.LightsUniformBinding ||
		entries[1].Visibility != wgpu.ShaderStageFragment {
		t.Error("lights uniform entry mismatch")
	}
}

func TestVertexBufferLayouts(t *testing.T) {
	layouts := vertexBufferLayouts()
	if len(layouts) != 3 {
		t.Fatalf("len = %d, want 3", len(layouts))
	}
	wantStrides := []uint64{shading.PositionStride, shading.NormalStride, shading.TexCoordStride}
	wantFormats := []wgpu.VertexFormat{
		wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x2,
	}
	for i, l := range layouts {
		if l.ArrayStride != wantStrides[i] {
			t.Errorf("layout %d stride = %d, want %d", i, l.ArrayStride, wantStrides[i])
		}
		if len(l.Attributes) != 1 {
			t.Fatalf("layout %d attribute count = %d, want 1", i, len(l.Attributes))
		}
		attr := l.Attributes[0]
		if attr.Format != wantFormats[i] {
			t.Errorf("layout %d format = %v, want %v", i, attr.Format, wantFormats[i])
		}
		if attr.ShaderLocation != uint32(i) {
			t.Errorf("layout %d shader location = %d, want %d", i, attr.ShaderLocation, i)
		}
	}
}

func TestAlignRow(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0, 0},
		{1, 256},
		{256, 256},
		{257, 512},
		{640 * 4, 2560},
		{100 * 4, 512},
	}
	for _, tt := range tests {
		if got := alignRow(tt.in); got != tt.want {
			t.Errorf("alignRow(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAddressMode(t *testing.T) {
	if addressMode(scene.WrapClamp) != wgpu.AddressModeClampToEdge {
		t.Error("WrapClamp should map to clamp-to-edge")
	}
	if addressMode(scene.WrapRepeat) != wgpu.AddressModeRepeat {
		t.Error("WrapRepeat should map to repeat")
	}
}

func TestPackUint16sPadsToFourBytes(t *testing.T) {
	tests := []struct {
		count   int
		wantLen int
	}{
		{0, 0},
		{1, 4},
		{2, 4},
		{3, 8},
	}
	for _, tt := range tests {
		v := make([]uint16, tt.count)
		if got := len(packUint16s(v)); got != tt.wantLen {
			t.Errorf("packUint16s(%d indices) len = %d, want %d", tt.count, got, tt.wantLen)
		}
	}
}
