// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/shading"
)

// NoTexture marks a material without a bound diffuse texture; such
// materials resolve to the scene's shared white texture.
const NoTexture = -1

// Filter selects the texture magnification/minification filter.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Wrap selects how texture coordinates outside [0,1] are handled.
type Wrap uint8

const (
	WrapRepeat Wrap = iota
	WrapClamp
)

// Sampler is the CPU-side sampling configuration of a texture.
type Sampler struct {
	Filter Filter
	WrapU  Wrap
	WrapV  Wrap
}

// Texture is an RGBA8 image plus its sampler configuration.
type Texture struct {
	Pixels  []byte // RGBA8, row-major, Width*Height*4 bytes
	Width   int
	Height  int
	Sampler Sampler
}

// texel returns the texture color at integer coordinates, applying the
// wrap mode.
func (t *Texture) texel(x, y int) math3.Vec4 {
	x = wrapCoord(x, t.Width, t.Sampler.WrapU)
	y = wrapCoord(y, t.Height, t.Sampler.WrapV)
	i := (y*t.Width + x) * 4
	const s = 1.0 / 255.0
	return math3.V4(
		float32(t.Pixels[i])*s,
		float32(t.Pixels[i+1])*s,
		float32(t.Pixels[i+2])*s,
		float32(t.Pixels[i+3])*s,
	)
}

func wrapCoord(v, n int, w Wrap) int {
	switch w {
	case WrapClamp:
		if v < 0 {
			return 0
		}
		if v >= n {
			return n - 1
		}
		return v
	default: // WrapRepeat
		v %= n
		if v < 0 {
			v += n
		}
		return v
	}
}

// Sample returns the texture color at normalized coordinates (u, v),
// honoring the sampler's filter and wrap modes. Matches GPU sampling
// with texel centers at half-integer coordinates.
func (t *Texture) Sample(u, v float32) math3.Vec4 {
	if t.Width == 0 || t.Height == 0 {
		return math3.V4(1, 1, 1, 1)
	}
	x := u*float32(t.Width) - 0.5
	y := v*float32(t.Height) - 0.5
	if t.Sampler.Filter == FilterNearest {
		return t.texel(int(math32.Floor(x+0.5)), int(math32.Floor(y+0.5)))
	}

	x0 := int(math32.Floor(x))
	y0 := int(math32.Floor(y))
	fx := x - float32(x0)
	fy := y - float32(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	top := c00.Scale(1 - fx).Add(c10.Scale(fx))
	bot := c01.Scale(1 - fx).Add(c11.Scale(fx))
	return top.Scale(1 - fy).Add(bot.Scale(fy))
}

// Material holds the shading factors of a mesh primitive.
type Material struct {
	Name            string
	BaseColorFactor math3.Vec4
	EmissiveFactor  math3.Vec3

	// Texture indexes into Scene.Textures, or NoTexture.
	Texture int

	// DoubleSided is recorded from the asset but not honored: culling
	// stays on for all primitives.
	DoubleSided bool
}

// DefaultMaterial returns the material used when a primitive has none:
// opaque white, no texture.
func DefaultMaterial() Material {
	return Material{
		Name:            "default",
		BaseColorFactor: math3.V4(1, 1, 1, 1),
		Texture:         NoTexture,
	}
}

// ResolveTexture returns the material's diffuse texture, or the scene's
// shared white fallback when none is bound.
func (m *Material) ResolveTexture(s *Scene) *Texture {
	if m.Texture >= 0 && m.Texture < len(s.Textures) {
		return s.Textures[m.Texture]
	}
	return s.WhiteTexture()
}

// Uniform returns the material's packed shading factors.
func (m *Material) Uniform() shading.MaterialUniform {
	return shading.MaterialUniform{
		BaseColorFactor: m.BaseColorFactor,
		EmissiveFactor:  m.EmissiveFactor,
	}
}
