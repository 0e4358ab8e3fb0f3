// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command g3ddemo renders a glTF model (or a built-in textured cube) to
// PNG frames with the software renderer, orbiting the camera around the
// scene.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/scene"
)

func main() {
	var (
		in     = flag.String("in", "", "glTF file to render (.gltf or .glb); built-in cube when empty")
		out    = flag.String("out", "frame.png", "output PNG file")
		size   = flag.String("size", "800x600", "output size as WIDTHxHEIGHT")
		frames = flag.Int("frames", 1, "number of frames; the camera orbits one full turn")
	)
	flag.Parse()

	width, height, err := parseSize(*size)
	if err != nil {
		log.Fatalf("Bad -size: %v", err)
	}
	if *frames < 1 {
		log.Fatalf("Bad -frames: %d", *frames)
	}

	eng := g3d.New(g3d.WithRenderer(render.NewSoftwareRenderer()))
	defer eng.Close()

	if *in != "" {
		if err := eng.LoadGLTF(*in); err != nil {
			log.Fatalf("Failed to load: %v", err)
		}
	} else {
		if err := eng.SetScene(cubeScene()); err != nil {
			log.Fatalf("Failed to set scene: %v", err)
		}
		eng.Camera().Position = math3.V3(0, 1.5, 3)
	}

	// The orbit keeps the starting distance and height.
	start := eng.Camera().Position
	radius := math32.Sqrt(start.X*start.X + start.Z*start.Z)
	target := render.NewImageTarget(width, height)

	for i := 0; i < *frames; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(*frames)
		orbitCamera(eng.Camera(), angle, radius, start.Y)

		eng.Update(0)
		if err := eng.Render(target); err != nil {
			log.Fatalf("Failed to render frame %d: %v", i, err)
		}

		path := framePath(*out, i, *frames)
		if err := savePNG(path, target); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Frame saved to %s (%dx%d)\n", path, width, height)
	}
}

// orbitCamera places cam on a circle of the given radius and height
// around the origin, looking at it.
func orbitCamera(cam *scene.Camera, angle, radius, height float32) {
	cam.Position = math3.V3(radius*math32.Cos(angle), height, radius*math32.Sin(angle))
	dir := cam.Position.Scale(-1).Normalize()
	cam.Yaw = math32.Atan2(dir.Z, dir.X)
	cam.Pitch = math32.Asin(dir.Y)
}

func parseSize(s string) (w, h int, err error) {
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("%q is not WIDTHxHEIGHT", s)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("%q has non-positive dimensions", s)
	}
	return w, h, nil
}

// framePath returns out unchanged for single-frame runs, or out with a
// zero-padded frame index before the extension.
func framePath(out string, i, frames int) string {
	if frames == 1 {
		return out
	}
	ext := filepath.Ext(out)
	base := strings.TrimSuffix(out, ext)
	return fmt.Sprintf("%s_%03d%s", base, i, ext)
}

func savePNG(path string, target *render.ImageTarget) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, target.Image()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// cubeScene builds a unit cube with a checkerboard texture, 24 vertices
// so each face gets flat normals and its own texture coordinates.
func cubeScene() *scene.Scene {
	faces := []struct {
		normal math3.Vec3
		// corner order: (-u,-v), (+u,-v), (+u,+v), (-u,+v)
		corners [4]math3.Vec3
	}{
		{math3.V3(0, 0, 1), [4]math3.Vec3{
			math3.V3(-1, -1, 1), math3.V3(1, -1, 1), math3.V3(1, 1, 1), math3.V3(-1, 1, 1)}},
		{math3.V3(0, 0, -1), [4]math3.Vec3{
			math3.V3(1, -1, -1), math3.V3(-1, -1, -1), math3.V3(-1, 1, -1), math3.V3(1, 1, -1)}},
		{math3.V3(1, 0, 0), [4]math3.Vec3{
			math3.V3(1, -1, 1), math3.V3(1, -1, -1), math3.V3(1, 1, -1), math3.V3(1, 1, 1)}},
		{math3.V3(-1, 0, 0), [4]math3.Vec3{
			math3.V3(-1, -1, -1), math3.V3(-1, -1, 1), math3.V3(-1, 1, 1), math3.V3(-1, 1, -1)}},
		{math3.V3(0, 1, 0), [4]math3.Vec3{
			math3.V3(-1, 1, 1), math3.V3(1, 1, 1), math3.V3(1, 1, -1), math3.V3(-1, 1, -1)}},
		{math3.V3(0, -1, 0), [4]math3.Vec3{
			math3.V3(-1, -1, -1), math3.V3(1, -1, -1), math3.V3(1, -1, 1), math3.V3(-1, -1, 1)}},
	}
	uvs := [4]math3.Vec2{
		math3.V2(0, 1), math3.V2(1, 1), math3.V2(1, 0), math3.V2(0, 0),
	}

	var p scene.Primitive
	for fi, f := range faces {
		base := uint16(fi * 4)
		for c := 0; c < 4; c++ {
			p.Positions = append(p.Positions, f.corners[c].Scale(0.5))
			p.Normals = append(p.Normals, f.normal)
			p.TexCoords = append(p.TexCoords, uvs[c])
		}
		p.Indices16 = append(p.Indices16,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	p.Material = 0

	s := scene.New()
	s.Meshes = []scene.Mesh{{Name: "cube", Primitives: []scene.Primitive{p}}}
	s.Textures = []*scene.Texture{checkerTexture(8, 8)}
	m := scene.DefaultMaterial()
	m.Name = "checker"
	m.Texture = 0
	s.Materials = []scene.Material{m}

	n := scene.NewNode("cube")
	n.Mesh = 0
	s.AddRoot(n)
	return s
}

// checkerTexture returns a w x h checkerboard in light and dark gray,
// nearest-filtered so the squares stay crisp.
func checkerTexture(w, h int) *scene.Texture {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte(60)
			if (x+y)%2 == 0 {
				v = 220
			}
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return &scene.Texture{
		Pixels: pix,
		Width:  w,
		Height: h,
		Sampler: scene.Sampler{
			Filter: scene.FilterNearest,
			WrapU:  scene.WrapRepeat,
			WrapV:  scene.WrapRepeat,
		},
	}
}
