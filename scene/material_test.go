// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"testing"

	"github.com/gogpu/g3d/math3"
)

// checker2x1 is a red texel next to a green texel.
func checker2x1(s Sampler) *Texture {
	return &Texture{
		Pixels: []byte{
			255, 0, 0, 255,
			0, 255, 0, 255,
		},
		Width:   2,
		Height:  1,
		Sampler: s,
	}
}

func vec4Near(a, b math3.Vec4) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) && near(a.W, b.W)
}

func TestTextureSampleNearest(t *testing.T) {
	tex := checker2x1(Sampler{Filter: FilterNearest})
	if got := tex.Sample(0.25, 0.5); !vec4Near(got, math3.V4(1, 0, 0, 1)) {
		t.Errorf("left texel = %v, want red", got)
	}
	if got := tex.Sample(0.75, 0.5); !vec4Near(got, math3.V4(0, 1, 0, 1)) {
		t.Errorf("right texel = %v, want green", got)
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := checker2x1(Sampler{Filter: FilterLinear, WrapU: WrapClamp, WrapV: WrapClamp})
	// Midpoint between texel centers blends evenly.
	if got := tex.Sample(0.5, 0.5); !vec4Near(got, math3.V4(0.5, 0.5, 0, 1)) {
		t.Errorf("midpoint = %v, want half red half green", got)
	}
	// At a texel center the blend collapses to that texel.
	if got := tex.Sample(0.25, 0.5); !vec4Near(got, math3.V4(1, 0, 0, 1)) {
		t.Errorf("left center = %v, want red", got)
	}
}

func TestTextureWrapModes(t *testing.T) {
	repeat := checker2x1(Sampler{Filter: FilterNearest, WrapU: WrapRepeat})
	// u = 1.25 wraps to the left texel.
	if got := repeat.Sample(1.25, 0.5); !vec4Near(got, math3.V4(1, 0, 0, 1)) {
		t.Errorf("repeat sample = %v, want red", got)
	}

	clamp := checker2x1(Sampler{Filter: FilterNearest, WrapU: WrapClamp})
	// u past 1 clamps to the right texel.
	if got := clamp.Sample(1.25, 0.5); !vec4Near(got, math3.V4(0, 1, 0, 1)) {
		t.Errorf("clamp sample = %v, want green", got)
	}
	if got := clamp.Sample(-0.25, 0.5); !vec4Near(got, math3.V4(1, 0, 0, 1)) {
		t.Errorf("clamp sample below 0 = %v, want red", got)
	}
}

func TestMaterialUniform(t *testing.T) {
	m := Material{
		BaseColorFactor: math3.V4(0.1, 0.2, 0.3, 0.4),
		EmissiveFactor:  math3.V3(0.5, 0.6, 0.7),
	}
	u := m.Uniform()
	if u.BaseColorFactor != m.BaseColorFactor {
		t.Errorf("base color = %v, want %v", u.BaseColorFactor, m.BaseColorFactor)
	}
	if u.EmissiveFactor != m.EmissiveFactor {
		t.Errorf("emissive = %v, want %v", u.EmissiveFactor, m.EmissiveFactor)
	}
}

func TestMaterialAtOutOfRange(t *testing.T) {
	s := New()
	m := s.MaterialAt(-1)
	if m.BaseColorFactor != math3.V4(1, 1, 1, 1) || m.Texture != NoTexture {
		t.Errorf("default material = %+v", m)
	}
}
