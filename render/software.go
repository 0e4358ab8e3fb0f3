// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/scene"
	"github.com/gogpu/g3d/shading"
)

// DefaultClearColor is the background the mesh pass clears to.
var DefaultClearColor = math3.V4(0.8, 0.2, 0.3, 1)

// SoftwareRenderer is the CPU reference implementation of the mesh
// shading pass plus a CPU blit. It produces the same image the GPU
// paths do, one fragment at a time, and backs every environment without
// a usable device.
type SoftwareRenderer struct {
	// ClearColor fills the target before drawing.
	ClearColor math3.Vec4

	// BlitFilter selects the sampling filter used by Blit.
	BlitFilter scene.Filter

	depth []float32
}

// NewSoftwareRenderer returns a software renderer with the default
// clear color.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{
		ClearColor: DefaultClearColor,
		BlitFilter: scene.FilterLinear,
	}
}

// SetClearColor sets the background the mesh pass clears to.
func (r *SoftwareRenderer) SetClearColor(c math3.Vec4) { r.ClearColor = c }

// Close releases the renderer's buffers.
func (r *SoftwareRenderer) Close() error {
	r.depth = nil
	return nil
}

// Render rasterizes every drawable node of s into t: clear, depth test
// with compare Less, back-face culling of clockwise triangles, fragment
// shading with the scene lights, and source-over-writes-destination
// blending.
//
// Triangles with any vertex at or in front of the near plane are
// dropped whole instead of being clipped, so geometry can pop out as it
// approaches the camera.
func (r *SoftwareRenderer) Render(t RenderTarget, s *scene.Scene, cam *scene.Camera) error {
	if t == nil {
		return ErrNilTarget
	}
	if s == nil || cam == nil {
		return ErrNilScene
	}
	pix := t.Pixels()
	if pix == nil {
		return ErrNoCPUAccess
	}
	w, h := t.Width(), t.Height()
	if w <= 0 || h <= 0 {
		return nil
	}

	if len(r.depth) != w*h {
		r.depth = make([]float32, w*h)
	}
	for i := range r.depth {
		r.depth[i] = 1
	}
	r.clear(pix, t.Stride(), w, h)

	camU := cam.Uniform()
	lights := s.BuildLights(cam)
	fr := &frame{
		pix:    pix,
		stride: t.Stride(),
		w:      w,
		h:      h,
		depth:  r.depth,
		camU:   camU,
		lights: lights,
		near:   cam.Proj.Near,
		scene:  s,
	}

	s.EachDrawable(func(n *scene.Node) {
		if n.Mesh < 0 || n.Mesh >= len(s.Meshes) {
			return
		}
		nodeU := shading.NodeUniform{ModelMat: n.World(), NormalMat: n.NormalMat()}
		mesh := &s.Meshes[n.Mesh]
		for pi := range mesh.Primitives {
			fr.drawPrimitive(&mesh.Primitives[pi], &nodeU)
		}
	})
	return nil
}

func (r *SoftwareRenderer) clear(pix []byte, stride, w, h int) {
	cr := colorByte(r.ClearColor.X)
	cg := colorByte(r.ClearColor.Y)
	cb := colorByte(r.ClearColor.Z)
	ca := colorByte(r.ClearColor.W)
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = cr, cg, cb, ca
		}
	}
}

// Blit stretches src over dst: the CPU form of the blit pass. Each
// destination pixel samples the source at its normalized coordinate
// with the configured filter; alpha passes through untouched. Equal
// sizes round-trip exactly with either filter.
func (r *SoftwareRenderer) Blit(dst, src *image.RGBA) {
	sb := src.Bounds()
	tex := &scene.Texture{
		Pixels: contiguousPixels(src),
		Width:  sb.Dx(),
		Height: sb.Dy(),
		Sampler: scene.Sampler{
			Filter: r.BlitFilter,
			WrapU:  scene.WrapClamp,
			WrapV:  scene.WrapClamp,
		},
	}

	db := dst.Bounds()
	dw, dh := db.Dx(), db.Dy()
	for y := 0; y < dh; y++ {
		v := (float32(y) + 0.5) / float32(dh)
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < dw; x++ {
			u := (float32(x) + 0.5) / float32(dw)
			c := tex.Sample(u, v)
			i := x * 4
			row[i] = colorByte(c.X)
			row[i+1] = colorByte(c.Y)
			row[i+2] = colorByte(c.Z)
			row[i+3] = colorByte(c.W)
		}
	}
}

// contiguousPixels returns src's pixels with rows tightly packed.
func contiguousPixels(src *image.RGBA) []byte {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if src.Stride == w*4 && b.Min == (image.Point{}) {
		return src.Pix
	}
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*w*4:(y+1)*w*4], src.Pix[off:off+w*4])
	}
	return out
}

// frame carries the per-frame rasterization state.
type frame struct {
	pix    []byte
	stride int
	w, h   int
	depth  []float32
	camU   shading.CameraUniform
	lights shading.LightsUniform
	near   float32
	scene  *scene.Scene
}

// vertexOut mirrors the mesh pass vertex stage outputs.
type vertexOut struct {
	clip   math3.Vec4
	world  math3.Vec3
	normal math3.Vec3
	uv     math3.Vec2
}

func (fr *frame) drawPrimitive(p *scene.Primitive, nodeU *shading.NodeUniform) {
	mat := fr.scene.MaterialAt(p.Material)
	matU := mat.Uniform()
	tex := mat.ResolveTexture(fr.scene)

	n := p.IndexCount()
	for i := 0; i+3 <= n; i += 3 {
		fr.drawTriangle(p, nodeU, &matU, tex, p.Index(i), p.Index(i+1), p.Index(i+2))
	}
}

func (fr *frame) shadeVertex(p *scene.Primitive, nodeU *shading.NodeUniform, i int) vertexOut {
	wp := nodeU.ModelMat.MulVec4(math3.Point4(p.Positions[i]))
	return vertexOut{
		clip:   fr.camU.ViewProj.MulVec4(wp),
		world:  wp.XYZ(),
		normal: nodeU.NormalMat.TransformDir(p.Normals[i]).Normalize(),
		uv:     p.TexCoords[i],
	}
}

func (fr *frame) drawTriangle(p *scene.Primitive, nodeU *shading.NodeUniform, matU *shading.MaterialUniform, tex *scene.Texture, i0, i1, i2 int) {
	v0 := fr.shadeVertex(p, nodeU, i0)
	v1 := fr.shadeVertex(p, nodeU, i1)
	v2 := fr.shadeVertex(p, nodeU, i2)

	// Triangles touching or crossing the near plane are dropped whole.
	if v0.clip.W <= fr.near || v1.clip.W <= fr.near || v2.clip.W <= fr.near {
		return
	}

	ow0 := 1 / v0.clip.W
	ow1 := 1 / v1.clip.W
	ow2 := 1 / v2.clip.W
	n0 := math3.V3(v0.clip.X*ow0, v0.clip.Y*ow0, v0.clip.Z*ow0)
	n1 := math3.V3(v1.clip.X*ow1, v1.clip.Y*ow1, v1.clip.Z*ow1)
	n2 := math3.V3(v2.clip.X*ow2, v2.clip.Y*ow2, v2.clip.Z*ow2)

	// Counter-clockwise in NDC is front-facing; cull the rest.
	ndcArea := (n1.X-n0.X)*(n2.Y-n0.Y) - (n1.Y-n0.Y)*(n2.X-n0.X)
	if ndcArea <= 0 {
		return
	}

	fw, fh := float32(fr.w), float32(fr.h)
	s0 := math3.V2((n0.X+1)*0.5*fw, (1-n0.Y)*0.5*fh)
	s1 := math3.V2((n1.X+1)*0.5*fw, (1-n1.Y)*0.5*fh)
	s2 := math3.V2((n2.X+1)*0.5*fw, (1-n2.Y)*0.5*fh)

	area := edge(s0, s1, s2)
	if area == 0 {
		return
	}

	minX := clampInt(int(math32.Floor(min3(s0.X, s1.X, s2.X))), 0, fr.w-1)
	maxX := clampInt(int(math32.Ceil(max3(s0.X, s1.X, s2.X))), 0, fr.w-1)
	minY := clampInt(int(math32.Floor(min3(s0.Y, s1.Y, s2.Y))), 0, fr.h-1)
	maxY := clampInt(int(math32.Ceil(max3(s0.Y, s1.Y, s2.Y))), 0, fr.h-1)

	invArea := 1 / area
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			pt := math3.V2(float32(x)+0.5, float32(y)+0.5)
			l0 := edge(s1, s2, pt) * invArea
			l1 := edge(s2, s0, pt) * invArea
			l2 := edge(s0, s1, pt) * invArea
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}

			// NDC z is already divided by w: screen-space linear.
			z := l0*n0.Z + l1*n1.Z + l2*n2.Z
			if z < 0 || z > 1 {
				continue
			}
			di := y*fr.w + x
			if z >= fr.depth[di] {
				continue
			}

			// Perspective-correct interpolation of the varyings.
			d := l0*ow0 + l1*ow1 + l2*ow2
			pw0 := l0 * ow0 / d
			pw1 := l1 * ow1 / d
			pw2 := l2 * ow2 / d

			world := v0.world.Scale(pw0).Add(v1.world.Scale(pw1)).Add(v2.world.Scale(pw2))
			normal := v0.normal.Scale(pw0).Add(v1.normal.Scale(pw1)).Add(v2.normal.Scale(pw2))
			uv := v0.uv.Scale(pw0).Add(v1.uv.Scale(pw1)).Add(v2.uv.Scale(pw2))

			sampled := tex.Sample(uv.X, uv.Y)
			out := shading.ShadeFragment(normal, world, sampled, matU, &fr.lights)

			fr.depth[di] = z
			pi := y*fr.stride + x*4
			fr.pix[pi] = colorByte(out.X)
			fr.pix[pi+1] = colorByte(out.Y)
			fr.pix[pi+2] = colorByte(out.Z)
			fr.pix[pi+3] = colorByte(out.W)
		}
	}
}

// edge is twice the signed area of (a, b, p) in screen space (y down).
func edge(a, b, p math3.Vec2) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func colorByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c float32) float32 { return math32.Min(a, math32.Min(b, c)) }
func max3(a, b, c float32) float32 { return math32.Max(a, math32.Max(b, c)) }

var _ Renderer = (*SoftwareRenderer)(nil)
