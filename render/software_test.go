// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/scene"
)

// triangleScene builds a scene with one triangle at depth z facing +Z,
// shaded with the given base color.
func triangleScene(base math3.Vec4, z float32, reversed bool) *scene.Scene {
	s := scene.New()
	prim := scene.Primitive{
		Positions: []math3.Vec3{
			math3.V3(-1, -1, z), math3.V3(1, -1, z), math3.V3(0, 1, z),
		},
		Normals: []math3.Vec3{
			math3.V3(0, 0, 1), math3.V3(0, 0, 1), math3.V3(0, 0, 1),
		},
		TexCoords: make([]math3.Vec2, 3),
		Indices16: []uint16{0, 1, 2},
		Material:  0,
	}
	if reversed {
		prim.Indices16 = []uint16{0, 2, 1}
	}
	s.Meshes = []scene.Mesh{{Name: "tri", Primitives: []scene.Primitive{prim}}}
	m := scene.DefaultMaterial()
	m.BaseColorFactor = base
	s.Materials = []scene.Material{m}

	n := scene.NewNode("tri")
	n.Mesh = 0
	s.AddRoot(n)
	return s
}

// frontCamera looks straight down -Z from the origin.
func frontCamera() *scene.Camera {
	cam := scene.NewCamera()
	cam.Position = math3.V3(0, 0, 0)
	cam.Pitch = 0
	return cam
}

func centerPixel(t *ImageTarget) [4]byte {
	w, h := t.Width(), t.Height()
	i := t.Image().PixOffset(w/2, h/2)
	p := t.Image().Pix
	return [4]byte{p[i], p[i+1], p[i+2], p[i+3]}
}

var clearBytes = [4]byte{204, 51, 77, 255} // (0.8, 0.2, 0.3, 1.0)

func TestRenderClearsTarget(t *testing.T) {
	r := NewSoftwareRenderer()
	target := NewImageTarget(4, 4)
	s := scene.New()
	s.Update()

	if err := r.Render(target, s, frontCamera()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	pix := target.Pixels()
	for i := 0; i < len(pix); i += 4 {
		got := [4]byte{pix[i], pix[i+1], pix[i+2], pix[i+3]}
		if got != clearBytes {
			t.Fatalf("pixel %d = %v, want clear color %v", i/4, got, clearBytes)
		}
	}
}

func TestRenderFrontFacingTriangle(t *testing.T) {
	r := NewSoftwareRenderer()
	target := NewImageTarget(8, 8)
	s := triangleScene(math3.V4(1, 0, 0, 1), -5, false)
	s.Update()

	if err := r.Render(target, s, frontCamera()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Directly facing the headlight: brightness 1, pure base color.
	if got := centerPixel(target); got != [4]byte{255, 0, 0, 255} {
		t.Errorf("center pixel = %v, want opaque red", got)
	}
}

func TestRenderCullsBackFaces(t *testing.T) {
	r := NewSoftwareRenderer()
	target := NewImageTarget(8, 8)
	s := triangleScene(math3.V4(1, 0, 0, 1), -5, true)
	s.Update()

	if err := r.Render(target, s, frontCamera()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := centerPixel(target); got != clearBytes {
		t.Errorf("center pixel = %v, want clear color (culled)", got)
	}
}

func TestRenderDropsTrianglesCrossingNearPlane(t *testing.T) {
	r := NewSoftwareRenderer()
	target := NewImageTarget(8, 8)

	// One vertex behind the camera: the triangle is dropped whole, not
	// clipped.
	s := triangleScene(math3.V4(1, 0, 0, 1), -5, false)
	s.Meshes[0].Primitives[0].Positions[2] = math3.V3(0, 1, 1)
	s.Update()

	if err := r.Render(target, s, frontCamera()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := centerPixel(target); got != clearBytes {
		t.Errorf("center pixel = %v, want clear color (dropped)", got)
	}
}

func TestRenderDepthTest(t *testing.T) {
	// A green triangle in front of a red one must win regardless of
	// draw order.
	for _, greenFirst := range []bool{true, false} {
		s := scene.New()
		near := triangleScene(math3.V4(0, 1, 0, 1), -3, false)
		far := triangleScene(math3.V4(1, 0, 0, 1), -5, false)

		s.Meshes = []scene.Mesh{near.Meshes[0], far.Meshes[0]}
		s.Materials = []scene.Material{near.Materials[0], far.Materials[0]}
		s.Meshes[1].Primitives[0].Material = 1

		nearNode := scene.NewNode("near")
		nearNode.Mesh = 0
		farNode := scene.NewNode("far")
		farNode.Mesh = 1
		if greenFirst {
			s.AddRoot(nearNode)
			s.AddRoot(farNode)
		} else {
			s.AddRoot(farNode)
			s.AddRoot(nearNode)
		}
		s.Update()

		r := NewSoftwareRenderer()
		target := NewImageTarget(8, 8)
		if err := r.Render(target, s, frontCamera()); err != nil {
			t.Fatalf("Render: %v", err)
		}
		if got := centerPixel(target); got != [4]byte{0, 255, 0, 255} {
			t.Errorf("greenFirst=%v: center pixel = %v, want opaque green", greenFirst, got)
		}
	}
}

func TestRenderSkipsZeroScaleNodes(t *testing.T) {
	s := triangleScene(math3.V4(1, 0, 0, 1), -5, false)
	s.Roots[0].SetScale(math3.V3(0, 1, 1))
	s.Update()

	r := NewSoftwareRenderer()
	target := NewImageTarget(8, 8)
	if err := r.Render(target, s, frontCamera()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := centerPixel(target); got != clearBytes {
		t.Errorf("center pixel = %v, want clear color (node skipped)", got)
	}
}

func TestRenderArgumentErrors(t *testing.T) {
	r := NewSoftwareRenderer()
	s := scene.New()
	cam := frontCamera()

	if err := r.Render(nil, s, cam); !errors.Is(err, ErrNilTarget) {
		t.Errorf("nil target error = %v, want ErrNilTarget", err)
	}
	if err := r.Render(NewImageTarget(2, 2), nil, cam); !errors.Is(err, ErrNilScene) {
		t.Errorf("nil scene error = %v, want ErrNilScene", err)
	}
	if err := r.Render(NewImageTarget(2, 2), s, nil); !errors.Is(err, ErrNilScene) {
		t.Errorf("nil camera error = %v, want ErrNilScene", err)
	}
	gpuOnly := NewTextureTarget(struct{}{}, 2, 2, 0)
	if err := r.Render(gpuOnly, s, cam); !errors.Is(err, ErrNoCPUAccess) {
		t.Errorf("GPU-only target error = %v, want ErrNoCPUAccess", err)
	}
}

func TestBlitSameSizeRoundTrips(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = byte(i * 7)
	}
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))

	r := NewSoftwareRenderer()
	r.Blit(dst, src)
	for i := range src.Pix {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d = %d, want %d", i, dst.Pix[i], src.Pix[i])
		}
	}
}

func TestBlitStretches(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.Pix[0], src.Pix[1], src.Pix[2], src.Pix[3] = 10, 20, 30, 40

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	r := NewSoftwareRenderer()
	r.Blit(dst, src)

	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 10 || dst.Pix[i+1] != 20 || dst.Pix[i+2] != 30 || dst.Pix[i+3] != 40 {
			t.Fatalf("pixel %d = %v, want stretched source color", i/4, dst.Pix[i:i+4])
		}
	}
}
