// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gltf imports glTF 2.0 assets into a renderable scene graph.
//
// The importer is deliberately forgiving: primitives and textures it
// cannot use are skipped with a warning rather than failing the whole
// load, so partially supported assets still display.
package gltf

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/scene"
)

// identityMatrix is the glTF default node matrix.
var identityMatrix = [16]float64{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Load reads a .gltf or .glb file and builds a scene from its default
// glTF scene (or scene 0 when none is marked default).
func Load(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf: open %q: %w", path, err)
	}
	return decode(doc, filepath.Dir(path))
}

// Decode builds a scene from an already parsed glTF document. External
// image URIs resolve relative to the current directory.
func Decode(doc *gltf.Document) (*scene.Scene, error) {
	return decode(doc, ".")
}

func decode(doc *gltf.Document, dir string) (*scene.Scene, error) {
	s := scene.New()

	texIndex := decodeTextures(doc, dir, s)
	decodeMaterials(doc, s, texIndex)
	decodeMeshes(doc, s)

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		nodes[i] = decodeNode(i, gn)
	}
	for i, gn := range doc.Nodes {
		for _, ci := range gn.Children {
			if ci >= 0 && ci < len(nodes) {
				nodes[i].AddChild(nodes[ci])
			}
		}
	}

	for _, ri := range rootIndices(doc) {
		if ri >= 0 && ri < len(nodes) {
			s.AddRoot(nodes[ri])
		}
	}
	return s, nil
}

// rootIndices returns the node indices of the default scene, scene 0
// when no default is marked, or all parentless nodes when the document
// has no scenes at all.
func rootIndices(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, ci := range gn.Children {
			if ci >= 0 && ci < len(hasParent) {
				hasParent[ci] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func decodeNode(i int, gn *gltf.Node) *scene.Node {
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", i)
	}
	n := scene.NewNode(name)

	if gn.Matrix != identityMatrix && gn.Matrix != ([16]float64{}) {
		// Matrix nodes carry a baked transform; recover TRS from it.
		var m math3.Mat4
		for j, v := range gn.Matrix {
			m[j] = float32(v)
		}
		t, r, sc := m.Decompose()
		n.SetTRS(t, r, sc)
	} else {
		t := gn.TranslationOrDefault()
		r := gn.RotationOrDefault() // [x, y, z, w]
		sc := gn.ScaleOrDefault()
		n.SetTRS(
			math3.V3(float32(t[0]), float32(t[1]), float32(t[2])),
			math3.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
			math3.V3(float32(sc[0]), float32(sc[1]), float32(sc[2])),
		)
	}

	if gn.Mesh != nil {
		n.Mesh = *gn.Mesh
	}
	return n
}

func decodeMeshes(doc *gltf.Document, s *scene.Scene) {
	s.Meshes = make([]scene.Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		mesh := scene.Mesh{Name: gm.Name}
		for pi, prim := range gm.Primitives {
			p, err := decodePrimitive(doc, prim)
			if err != nil {
				slogger().Warn("gltf: skipping primitive", "mesh", mi, "primitive", pi, "reason", err)
				continue
			}
			mesh.Primitives = append(mesh.Primitives, p)
		}
		s.Meshes[mi] = mesh
	}
}

func decodePrimitive(doc *gltf.Document, prim *gltf.Primitive) (scene.Primitive, error) {
	var p scene.Primitive

	if prim.Mode != gltf.PrimitiveTriangles {
		return p, fmt.Errorf("gltf: primitive mode %d is not triangles", prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return p, fmt.Errorf("gltf: primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return p, fmt.Errorf("gltf: read positions: %w", err)
	}

	normIdx, ok := prim.Attributes["NORMAL"]
	if !ok {
		// Shading needs per-vertex normals; the asset pipeline is
		// expected to supply them.
		return p, fmt.Errorf("gltf: primitive has no NORMAL attribute")
	}
	normals, err := modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
	if err != nil {
		return p, fmt.Errorf("gltf: read normals: %w", err)
	}
	if len(normals) != len(positions) {
		return p, fmt.Errorf("gltf: %d normals for %d positions", len(normals), len(positions))
	}

	p.Positions = make([]math3.Vec3, len(positions))
	for i, v := range positions {
		p.Positions[i] = math3.V3(v[0], v[1], v[2])
	}
	p.Normals = make([]math3.Vec3, len(normals))
	for i, v := range normals {
		p.Normals[i] = math3.V3(v[0], v[1], v[2])
	}

	p.TexCoords = make([]math3.Vec2, len(positions))
	if uvIdx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
		if err != nil {
			return p, fmt.Errorf("gltf: read texcoords: %w", err)
		}
		for i := range uvs {
			if i < len(p.TexCoords) {
				p.TexCoords[i] = math3.V2(uvs[i][0], uvs[i][1])
			}
		}
	}

	if prim.Indices != nil {
		acc := doc.Accessors[*prim.Indices]
		indices, err := modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return p, fmt.Errorf("gltf: read indices: %w", err)
		}
		switch acc.ComponentType {
		case gltf.ComponentUbyte, gltf.ComponentUshort:
			// Narrow component types fit uint16 index buffers.
			p.Indices16 = make([]uint16, len(indices))
			for i, v := range indices {
				p.Indices16[i] = uint16(v)
			}
		default:
			p.Indices32 = indices
		}
	} else {
		// Non-indexed geometry: synthesize sequential indices.
		n := len(positions)
		if n <= 1<<16 {
			p.Indices16 = make([]uint16, n)
			for i := range p.Indices16 {
				p.Indices16[i] = uint16(i)
			}
		} else {
			p.Indices32 = make([]uint32, n)
			for i := range p.Indices32 {
				p.Indices32[i] = uint32(i)
			}
		}
	}

	p.Material = -1
	if prim.Material != nil {
		p.Material = *prim.Material
	}
	return p, nil
}

func decodeMaterials(doc *gltf.Document, s *scene.Scene, texIndex []int) {
	s.Materials = make([]scene.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		m := scene.DefaultMaterial()
		m.Name = gm.Name

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			m.BaseColorFactor = math3.V4(
				float32(cf[0]), float32(cf[1]), float32(cf[2]), float32(cf[3]))
			if pbr.BaseColorTexture != nil {
				ti := pbr.BaseColorTexture.Index
				if ti >= 0 && ti < len(texIndex) && texIndex[ti] >= 0 {
					m.Texture = texIndex[ti]
				}
			}
		}
		ef := gm.EmissiveFactor
		m.EmissiveFactor = math3.V3(float32(ef[0]), float32(ef[1]), float32(ef[2]))

		if gm.DoubleSided {
			slogger().Warn("gltf: double-sided material not supported, culling stays on",
				"material", gm.Name)
			m.DoubleSided = true
		}
		s.Materials[i] = m
	}
}
