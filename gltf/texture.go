// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gltf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/image/draw"

	"github.com/gogpu/g3d/scene"
)

// decodeTextures decodes every usable document texture into the scene
// and returns a glTF-texture-index to scene-texture-index mapping, -1
// for textures that failed to load. Failed textures fall back to the
// scene's white texture through the material resolution path.
func decodeTextures(doc *gltf.Document, dir string, s *scene.Scene) []int {
	texIndex := make([]int, len(doc.Textures))
	for i, gt := range doc.Textures {
		texIndex[i] = -1
		if gt.Source == nil || *gt.Source < 0 || *gt.Source >= len(doc.Images) {
			continue
		}
		data, err := imageData(doc, dir, doc.Images[*gt.Source])
		if err != nil {
			slogger().Warn("gltf: skipping texture", "texture", i, "reason", err)
			continue
		}
		tex, err := decodeRGBA(data)
		if err != nil {
			slogger().Warn("gltf: skipping texture", "texture", i, "reason", err)
			continue
		}
		tex.Sampler = samplerConfig(doc, gt.Sampler)

		texIndex[i] = len(s.Textures)
		s.Textures = append(s.Textures, tex)
	}
	return texIndex
}

// imageData returns the raw encoded bytes of a glTF image from whichever
// of the three storage forms it uses.
func imageData(doc *gltf.Document, dir string, img *gltf.Image) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		if *img.BufferView < 0 || *img.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("gltf: image buffer view %d out of range", *img.BufferView)
		}
		data, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("gltf: read image buffer view: %w", err)
		}
		return data, nil
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("gltf: decode embedded image: %w", err)
		}
		return data, nil
	case img.URI != "":
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(img.URI)))
		if err != nil {
			return nil, fmt.Errorf("gltf: read image %q: %w", img.URI, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("gltf: image has no data source")
	}
}

// decodeRGBA decodes PNG or JPEG bytes into an RGBA8 texture.
func decodeRGBA(data []byte) (*scene.Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gltf: decode image: %w", err)
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(rgba, image.Point{}, img, b, draw.Src, nil)
	return &scene.Texture{
		Pixels: rgba.Pix,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// samplerConfig maps a glTF sampler onto the scene sampling config.
// Mirrored repeat degrades to plain repeat.
func samplerConfig(doc *gltf.Document, si *int) scene.Sampler {
	cfg := scene.Sampler{Filter: scene.FilterLinear}
	if si == nil || *si < 0 || *si >= len(doc.Samplers) {
		return cfg
	}
	gs := doc.Samplers[*si]
	if gs.MagFilter == gltf.MagNearest {
		cfg.Filter = scene.FilterNearest
	}
	if gs.WrapS == gltf.WrapClampToEdge {
		cfg.WrapU = scene.WrapClamp
	}
	if gs.WrapT == gltf.WrapClampToEdge {
		cfg.WrapV = scene.WrapClamp
	}
	return cfg
}
