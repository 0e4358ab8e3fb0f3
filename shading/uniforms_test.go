// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/g3d/math3"
)

func f32At(t *testing.T, buf []byte, off int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func u32At(t *testing.T, buf []byte, off int) uint32 {
	t.Helper()
	return binary.LittleEndian.Uint32(buf[off:])
}

func TestUniformSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"camera", CameraUniformSize, 96},
		{"node", NodeUniformSize, 128},
		{"material", MaterialUniformSize, 32},
		{"light slot", LightSlotSize, 48},
		{"lights", LightsUniformSize, 208},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s uniform size = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestCameraUniformPack(t *testing.T) {
	u := CameraUniform{
		ViewPos:   math3.V4(1, 2, 3, 0),
		ViewFront: math3.V4(0, 0, -1, 0),
	}
	u.ViewProj = math3.Identity4().Set(3, 2, 42) // column 3, row 2

	buf := u.Pack()
	if len(buf) != CameraUniformSize {
		t.Fatalf("Pack len = %d, want %d", len(buf), CameraUniformSize)
	}
	if got := f32At(t, buf, 0); got != 1 {
		t.Errorf("view_pos.x = %v, want 1", got)
	}
	if got := f32At(t, buf, 16+8); got != -1 {
		t.Errorf("view_front.z = %v, want -1", got)
	}
	// view_proj starts at 32, column-major: column 3 row 2 is element 14.
	if got := f32At(t, buf, 32+14*4); got != 42 {
		t.Errorf("view_proj[3][2] = %v, want 42", got)
	}
	if got := f32At(t, buf, 32); got != 1 {
		t.Errorf("view_proj[0][0] = %v, want 1", got)
	}
}

func TestNodeUniformPack(t *testing.T) {
	u := NodeUniform{ModelMat: math3.Translation(math3.V3(5, 6, 7))}
	u.NormalMat = math3.Identity4().Set(1, 1, 9)

	buf := u.Pack()
	if len(buf) != NodeUniformSize {
		t.Fatalf("Pack len = %d, want %d", len(buf), NodeUniformSize)
	}
	// Translation lives in column 3, rows 0..2: elements 12, 13, 14.
	if got := f32At(t, buf, 12*4); got != 5 {
		t.Errorf("model_mat translation x = %v, want 5", got)
	}
	// normal_mat starts at 64; column 1 row 1 is element 5.
	if got := f32At(t, buf, 64+5*4); got != 9 {
		t.Errorf("normal_mat[1][1] = %v, want 9", got)
	}
}

func TestMaterialUniformPack(t *testing.T) {
	u := MaterialUniform{
		BaseColorFactor: math3.V4(0.1, 0.2, 0.3, 0.4),
		EmissiveFactor:  math3.V3(0.5, 0.6, 0.7),
	}
	buf := u.Pack()
	if len(buf) != MaterialUniformSize {
		t.Fatalf("Pack len = %d, want %d", len(buf), MaterialUniformSize)
	}
	if got := f32At(t, buf, 12); got != 0.4 {
		t.Errorf("base_color_factor.a = %v, want 0.4", got)
	}
	if got := f32At(t, buf, 16); got != 0.5 {
		t.Errorf("emissive_factor.r = %v, want 0.5", got)
	}
	if got := f32At(t, buf, 28); got != 0 {
		t.Errorf("trailing pad = %v, want 0", got)
	}
}

func TestLightsUniformPack(t *testing.T) {
	u := LightsUniform{Count: 2}
	u.Slots[0] = LightUniform{
		Kind:   LightKindAmbient,
		Color:  math3.V4(1, 1, 1, 0.25),
		PosDir: math3.V4(0, 0, 0, 0),
	}
	u.Slots[1] = LightUniform{
		Kind:          LightKindPoint,
		AttnLinear:    0.09,
		AttnQuadratic: 0.032,
		Color:         math3.V4(1, 0.5, 0, 2),
		PosDir:        math3.V4(3, 4, 5, 0),
	}

	buf := u.Pack()
	if len(buf) != LightsUniformSize {
		t.Fatalf("Pack len = %d, want %d", len(buf), LightsUniformSize)
	}
	if got := u32At(t, buf, 0); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	for off := 4; off < 16; off += 4 {
		if got := u32At(t, buf, off); got != 0 {
			t.Errorf("header pad at %d = %d, want 0", off, got)
		}
	}
	// Slot 0 starts at 16.
	if got := u32At(t, buf, 16); got != LightKindAmbient {
		t.Errorf("slot 0 kind = %d, want %d", got, LightKindAmbient)
	}
	if got := f32At(t, buf, 16+16+12); got != 0.25 {
		t.Errorf("slot 0 intensity = %v, want 0.25", got)
	}
	// Slot 1 starts at 16 + 48 = 64.
	if got := u32At(t, buf, 64); got != LightKindPoint {
		t.Errorf("slot 1 kind = %d, want %d", got, LightKindPoint)
	}
	if got := f32At(t, buf, 64+4); got != 0.09 {
		t.Errorf("slot 1 attn_linear = %v, want 0.09", got)
	}
	if got := f32At(t, buf, 64+8); got != 0.032 {
		t.Errorf("slot 1 attn_quadratic = %v, want 0.032", got)
	}
	if got := f32At(t, buf, 64+32); got != 3 {
		t.Errorf("slot 1 pos_dir.x = %v, want 3", got)
	}
}
