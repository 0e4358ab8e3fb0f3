// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/g3d/math3"
)

// Brightness is the hemispherical headlight term: 1.0 for a surface facing
// the viewer, 0.0 for one facing directly away. It equals the directional
// slot math of fs_main for a unit-intensity white light aimed along
// viewFront.
func Brightness(normal, viewFront math3.Vec3) float32 {
	return 0.5 + 0.5*normal.Dot(viewFront.Neg())
}

// ShadeFragment is the Go mirror of fs_main in shaders/mesh.wgsl. It
// accumulates the lit color over the active slots, clamps per channel to
// [0, 1], multiplies the sampled diffuse color by the brightness and base
// color factor, and adds the emissive term. Alpha is sampled alpha times
// base color alpha and is never dimmed by lighting.
//
// normal need not be unit length; it is normalized here, matching the
// per-fragment renormalization in the shader.
func ShadeFragment(normal, worldPos math3.Vec3, sampled math3.Vec4, mat *MaterialUniform, lights *LightsUniform) math3.Vec4 {
	n := normal.Normalize()

	var acc math3.Vec3
	count := lights.Count
	if count > MaxLights {
		count = MaxLights
	}
	for i := uint32(0); i < count; i++ {
		slot := &lights.Slots[i]
		intensity := slot.Color.W
		var amount float32
		switch slot.Kind {
		case LightKindAmbient:
			amount = intensity
		case LightKindDirectional:
			amount = (0.5 + 0.5*n.Dot(slot.PosDir.XYZ().Neg())) * intensity
		default:
			offset := slot.PosDir.XYZ().Sub(worldPos)
			d := offset.Length()
			falloff := 1 + slot.AttnLinear*d + slot.AttnQuadratic*d*d
			amount = (0.5 + 0.5*n.Dot(offset.Normalize())) * intensity / falloff
		}
		acc = acc.Add(slot.Color.XYZ().Scale(amount))
	}
	brightness := math3.V3(clamp01(acc.X), clamp01(acc.Y), clamp01(acc.Z))

	base := mat.BaseColorFactor
	return math3.Vec4{
		X: brightness.X*sampled.X*base.X + mat.EmissiveFactor.X,
		Y: brightness.Y*sampled.Y*base.Y + mat.EmissiveFactor.Y,
		Z: brightness.Z*sampled.Z*base.Z + mat.EmissiveFactor.Z,
		W: sampled.W * base.W,
	}
}

func clamp01(v float32) float32 {
	return math32.Min(math32.Max(v, 0), 1)
}
