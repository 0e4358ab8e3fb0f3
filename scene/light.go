// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/shading"
)

// Light is one light source in a scene. Lights resolve into uniform
// slots at build time, so variants that depend on the camera (the
// headlight) pick up the current pose.
type Light interface {
	slot(cam *Camera) shading.LightUniform
}

// Ambient is a direction-free light adding a constant contribution.
type Ambient struct {
	Color     math3.Vec3
	Intensity float32
}

func (l Ambient) slot(*Camera) shading.LightUniform {
	return shading.LightUniform{
		Kind:  shading.LightKindAmbient,
		Color: math3.V4(l.Color.X, l.Color.Y, l.Color.Z, l.Intensity),
	}
}

// Directional is an infinitely distant light shining along Direction.
type Directional struct {
	Color     math3.Vec3
	Intensity float32
	Direction math3.Vec3
}

func (l Directional) slot(*Camera) shading.LightUniform {
	d := l.Direction.Normalize()
	return shading.LightUniform{
		Kind:   shading.LightKindDirectional,
		Color:  math3.V4(l.Color.X, l.Color.Y, l.Color.Z, l.Intensity),
		PosDir: math3.Dir4(d),
	}
}

// Point is a positional light with distance attenuation
// 1 / (1 + AttnLinear*d + AttnQuadratic*d^2).
type Point struct {
	Color         math3.Vec3
	Intensity     float32
	Position      math3.Vec3
	AttnLinear    float32
	AttnQuadratic float32
}

func (l Point) slot(*Camera) shading.LightUniform {
	return shading.LightUniform{
		Kind:          shading.LightKindPoint,
		AttnLinear:    l.AttnLinear,
		AttnQuadratic: l.AttnQuadratic,
		Color:         math3.V4(l.Color.X, l.Color.Y, l.Color.Z, l.Intensity),
		PosDir:        math3.Point4(l.Position),
	}
}

// headlight is a white unit-intensity directional light locked to the
// camera's forward vector, the classic model-viewer default.
type headlight struct{}

func (headlight) slot(cam *Camera) shading.LightUniform {
	front := math3.V3(0, 0, -1)
	if cam != nil {
		front = cam.Front()
	}
	return shading.LightUniform{
		Kind:   shading.LightKindDirectional,
		Color:  math3.V4(1, 1, 1, 1),
		PosDir: math3.Dir4(front),
	}
}

// Headlight returns the camera-locked directional default light. Every
// new scene starts with exactly one.
func Headlight() Light { return headlight{} }
