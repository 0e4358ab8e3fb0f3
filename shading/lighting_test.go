// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import (
	"testing"

	"github.com/gogpu/g3d/math3"
)

const lightEps = 1e-6

func nearF(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= lightEps
}

func TestBrightnessBoundaries(t *testing.T) {
	front := math3.V3(0, 0, -1)
	tests := []struct {
		name   string
		normal math3.Vec3
		want   float32
	}{
		{"facing camera", math3.V3(0, 0, 1), 1.0},
		{"facing away", math3.V3(0, 0, -1), 0.0},
		{"orthogonal", math3.V3(1, 0, 0), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Brightness(tt.normal, front); !nearF(got, tt.want) {
				t.Errorf("Brightness(%v, %v) = %v, want %v", tt.normal, front, got, tt.want)
			}
		})
	}
}

// whiteHeadlight is a unit-intensity white directional light aimed along
// the view direction, the default light set.
func whiteHeadlight(viewFront math3.Vec3) *LightsUniform {
	u := &LightsUniform{Count: 1}
	u.Slots[0] = LightUniform{
		Kind:   LightKindDirectional,
		Color:  math3.V4(1, 1, 1, 1),
		PosDir: math3.V4(viewFront.X, viewFront.Y, viewFront.Z, 0),
	}
	return u
}

func TestShadeFragmentMatchesBrightness(t *testing.T) {
	front := math3.V3(0, 0, -1)
	lights := whiteHeadlight(front)
	mat := &MaterialUniform{BaseColorFactor: math3.V4(1, 1, 1, 1)}
	white := math3.V4(1, 1, 1, 1)

	normals := []math3.Vec3{
		math3.V3(0, 0, 1),
		math3.V3(0, 0, -1),
		math3.V3(1, 0, 0),
		math3.V3(0, 1, 1).Normalize(),
	}
	for _, n := range normals {
		want := Brightness(n, front)
		got := ShadeFragment(n, math3.Vec3{}, white, mat, lights)
		if !nearF(got.X, want) || !nearF(got.Y, want) || !nearF(got.Z, want) {
			t.Errorf("ShadeFragment normal %v = %v, want brightness %v on all channels", n, got, want)
		}
	}
}

func TestShadeFragmentAlphaIndependence(t *testing.T) {
	mat := &MaterialUniform{BaseColorFactor: math3.V4(1, 1, 1, 0.5)}
	sampled := math3.V4(0.2, 0.4, 0.6, 0.8)
	n := math3.V3(0, 0, 1)

	dark := &LightsUniform{} // no lights: brightness 0
	bright := whiteHeadlight(math3.V3(0, 0, -1))

	wantAlpha := sampled.W * mat.BaseColorFactor.W
	for _, lights := range []*LightsUniform{dark, bright} {
		got := ShadeFragment(n, math3.Vec3{}, sampled, mat, lights)
		if !nearF(got.W, wantAlpha) {
			t.Errorf("alpha = %v, want %v regardless of lighting", got.W, wantAlpha)
		}
	}
}

func TestShadeFragmentColorMultiplicativity(t *testing.T) {
	// Full brightness with a white sample reproduces the base color factor.
	lights := &LightsUniform{Count: 1}
	lights.Slots[0] = LightUniform{Kind: LightKindAmbient, Color: math3.V4(1, 1, 1, 1)}
	mat := &MaterialUniform{BaseColorFactor: math3.V4(0.3, 0.6, 0.9, 1)}

	got := ShadeFragment(math3.V3(0, 1, 0), math3.Vec3{}, math3.V4(1, 1, 1, 1), mat, lights)
	want := mat.BaseColorFactor
	if !nearF(got.X, want.X) || !nearF(got.Y, want.Y) || !nearF(got.Z, want.Z) || !nearF(got.W, want.W) {
		t.Errorf("ShadeFragment = %v, want %v", got, want)
	}
}

func TestShadeFragmentFacingQuad(t *testing.T) {
	// Camera looking down -Z at a quad with normal +Z, white texture,
	// tinted material.
	lights := whiteHeadlight(math3.V3(0, 0, -1))
	mat := &MaterialUniform{BaseColorFactor: math3.V4(1, 0.5, 0.5, 1)}

	got := ShadeFragment(math3.V3(0, 0, 1), math3.Vec3{}, math3.V4(1, 1, 1, 1), mat, lights)
	want := math3.V4(1, 0.5, 0.5, 1)
	if !nearF(got.X, want.X) || !nearF(got.Y, want.Y) || !nearF(got.Z, want.Z) || !nearF(got.W, want.W) {
		t.Errorf("ShadeFragment = %v, want %v", got, want)
	}
}

func TestShadeFragmentClampsBrightness(t *testing.T) {
	// Two full ambient lights saturate at 1.0, not 2.0.
	lights := &LightsUniform{Count: 2}
	lights.Slots[0] = LightUniform{Kind: LightKindAmbient, Color: math3.V4(1, 1, 1, 1)}
	lights.Slots[1] = LightUniform{Kind: LightKindAmbient, Color: math3.V4(1, 1, 1, 1)}
	mat := &MaterialUniform{BaseColorFactor: math3.V4(1, 1, 1, 1)}

	got := ShadeFragment(math3.V3(0, 0, 1), math3.Vec3{}, math3.V4(1, 1, 1, 1), mat, lights)
	if !nearF(got.X, 1) || !nearF(got.Y, 1) || !nearF(got.Z, 1) {
		t.Errorf("ShadeFragment = %v, want brightness clamped to 1", got)
	}
}

func TestShadeFragmentPointAttenuation(t *testing.T) {
	// Point light 2 units above a surface facing it: hemispherical term is
	// 1.0, falloff 1 + 0.5*2 + 0.25*4 = 3.
	lights := &LightsUniform{Count: 1}
	lights.Slots[0] = LightUniform{
		Kind:          LightKindPoint,
		AttnLinear:    0.5,
		AttnQuadratic: 0.25,
		Color:         math3.V4(1, 1, 1, 1),
		PosDir:        math3.V4(0, 2, 0, 0),
	}
	mat := &MaterialUniform{BaseColorFactor: math3.V4(1, 1, 1, 1)}

	got := ShadeFragment(math3.V3(0, 1, 0), math3.Vec3{}, math3.V4(1, 1, 1, 1), mat, lights)
	want := float32(1.0 / 3.0)
	if !nearF(got.X, want) || !nearF(got.Y, want) || !nearF(got.Z, want) {
		t.Errorf("ShadeFragment = %v, want %v on all channels", got, want)
	}
}

func TestShadeFragmentEmissive(t *testing.T) {
	// Emissive adds after lighting and leaves alpha untouched.
	mat := &MaterialUniform{
		BaseColorFactor: math3.V4(1, 1, 1, 1),
		EmissiveFactor:  math3.V3(0.1, 0.2, 0.3),
	}
	got := ShadeFragment(math3.V3(0, 0, 1), math3.Vec3{}, math3.V4(1, 1, 1, 1), mat, &LightsUniform{})
	want := math3.V4(0.1, 0.2, 0.3, 1)
	if !nearF(got.X, want.X) || !nearF(got.Y, want.Y) || !nearF(got.Z, want.Z) || !nearF(got.W, want.W) {
		t.Errorf("ShadeFragment = %v, want %v", got, want)
	}
}
