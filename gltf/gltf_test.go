// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gltf

import (
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gogpu/g3d/math3"
)

const eps = 1e-5

func near(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func vecNear(a, b math3.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

// triangleDoc builds a single-triangle document: one mesh, one node, one
// scene.
func triangleDoc(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	norm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx := int(modeler.WriteIndices(doc, []uint16{0, 1, 2}))

	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				"POSITION": int(pos),
				"NORMAL":   int(norm),
			},
			Indices: &idx,
		}},
	}}
	mesh := 0
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: &mesh}}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func TestDecodeTriangle(t *testing.T) {
	s, err := Decode(triangleDoc(t))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.Roots) != 1 || s.Roots[0].Name != "root" {
		t.Fatalf("roots = %v", s.Roots)
	}
	if s.Roots[0].Mesh != 0 {
		t.Errorf("root mesh index = %d, want 0", s.Roots[0].Mesh)
	}
	if len(s.Meshes) != 1 || len(s.Meshes[0].Primitives) != 1 {
		t.Fatalf("meshes = %+v", s.Meshes)
	}
	p := s.Meshes[0].Primitives[0]
	if p.VertexCount() != 3 {
		t.Errorf("vertex count = %d, want 3", p.VertexCount())
	}
	if !vecNear(p.Positions[1], math3.V3(1, 0, 0)) {
		t.Errorf("position 1 = %v, want (1, 0, 0)", p.Positions[1])
	}
	if !vecNear(p.Normals[0], math3.V3(0, 0, 1)) {
		t.Errorf("normal 0 = %v, want (0, 0, 1)", p.Normals[0])
	}
	// Absent TEXCOORD_0 zero-fills the slot.
	if len(p.TexCoords) != 3 || p.TexCoords[2] != math3.V2(0, 0) {
		t.Errorf("tex coords = %v, want three zero pairs", p.TexCoords)
	}
	// uint16 source indices stay 16-bit.
	if len(p.Indices16) != 3 || p.Indices32 != nil {
		t.Errorf("indices16 = %v, indices32 = %v", p.Indices16, p.Indices32)
	}
	if p.Material != -1 {
		t.Errorf("material = %d, want -1", p.Material)
	}
}

func TestDecodeWideIndices(t *testing.T) {
	doc := triangleDoc(t)
	idx := int(modeler.WriteIndices(doc, []uint32{0, 1, 2}))
	doc.Meshes[0].Primitives[0].Indices = &idx

	s, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p := s.Meshes[0].Primitives[0]
	if len(p.Indices32) != 3 || p.Indices16 != nil {
		t.Errorf("indices32 = %v, indices16 = %v", p.Indices32, p.Indices16)
	}
}

func TestDecodeSkipsPrimitiveWithoutNormals(t *testing.T) {
	doc := triangleDoc(t)
	delete(doc.Meshes[0].Primitives[0].Attributes, "NORMAL")

	s, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.Meshes[0].Primitives) != 0 {
		t.Errorf("primitives = %d, want 0 (skipped)", len(s.Meshes[0].Primitives))
	}
}

func TestDecodeSkipsNonTrianglePrimitives(t *testing.T) {
	doc := triangleDoc(t)
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLineStrip

	s, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.Meshes[0].Primitives) != 0 {
		t.Errorf("primitives = %d, want 0 (skipped)", len(s.Meshes[0].Primitives))
	}
}

func TestDecodeNodeTRS(t *testing.T) {
	doc := triangleDoc(t)
	doc.Nodes[0].Translation = [3]float64{1, 2, 3}
	doc.Nodes[0].Scale = [3]float64{2, 2, 2}

	s, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	n := s.Roots[0]
	if !vecNear(n.Translation(), math3.V3(1, 2, 3)) {
		t.Errorf("translation = %v, want (1, 2, 3)", n.Translation())
	}
	if !vecNear(n.Scale(), math3.V3(2, 2, 2)) {
		t.Errorf("scale = %v, want (2, 2, 2)", n.Scale())
	}
}

func TestDecodeNodeMatrix(t *testing.T) {
	doc := triangleDoc(t)
	// Column-major translation by (4, 5, 6).
	doc.Nodes[0].Matrix = [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		4, 5, 6, 1,
	}

	s, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	n := s.Roots[0]
	if !vecNear(n.Translation(), math3.V3(4, 5, 6)) {
		t.Errorf("translation = %v, want (4, 5, 6)", n.Translation())
	}
	if !vecNear(n.Scale(), math3.V3(1, 1, 1)) {
		t.Errorf("scale = %v, want (1, 1, 1)", n.Scale())
	}
}

func TestDecodeHierarchy(t *testing.T) {
	doc := triangleDoc(t)
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Children: []int{1}},
		{Name: "child"},
	}
	doc.Scenes[0].Nodes = []int{0}

	s, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.Roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(s.Roots))
	}
	kids := s.Roots[0].Children()
	if len(kids) != 1 || kids[0].Name != "child" {
		t.Errorf("children = %v, want [child]", kids)
	}
}

func TestDecodeMaterial(t *testing.T) {
	doc := triangleDoc(t)
	base := [4]float64{0.5, 0.25, 0.125, 1}
	doc.Materials = []*gltf.Material{{
		Name:           "painted",
		EmissiveFactor: [3]float64{0.1, 0.2, 0.3},
		DoubleSided:    true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
		},
	}}
	mi := 0
	doc.Meshes[0].Primitives[0].Material = &mi

	s, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.Materials) != 1 {
		t.Fatalf("materials = %d, want 1", len(s.Materials))
	}
	m := s.Materials[0]
	if !near(m.BaseColorFactor.X, 0.5) || !near(m.BaseColorFactor.Y, 0.25) {
		t.Errorf("base color = %v", m.BaseColorFactor)
	}
	if !vecNear(m.EmissiveFactor, math3.V3(0.1, 0.2, 0.3)) {
		t.Errorf("emissive = %v", m.EmissiveFactor)
	}
	if !m.DoubleSided {
		t.Error("double-sided flag lost")
	}
	if s.Meshes[0].Primitives[0].Material != 0 {
		t.Errorf("primitive material = %d, want 0", s.Meshes[0].Primitives[0].Material)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.gltf")
	if err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
	if !strings.HasPrefix(err.Error(), "gltf:") {
		t.Errorf("error %q lacks package prefix", err)
	}
}
