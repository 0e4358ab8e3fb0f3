// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene holds the CPU-side model of what gets rendered: a node
// hierarchy with TRS transforms and cached world matrices, meshes,
// materials, textures, lights, and the camera driving the view.
package scene

import (
	"sync"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/shading"
)

// Scene is the root of the renderable world. The zero value is not
// usable; construct with [New].
type Scene struct {
	Roots     []*Node
	Meshes    []Mesh
	Materials []Material
	Textures  []*Texture
	Lights    []Light

	whiteOnce sync.Once
	white     *Texture
}

// New returns an empty scene lit by the default headlight.
func New() *Scene {
	return &Scene{Lights: []Light{Headlight()}}
}

// AddRoot appends a root node.
func (s *Scene) AddRoot(n *Node) {
	s.Roots = append(s.Roots, n)
}

// MaterialAt returns the material at index i, or the default material
// for out-of-range indices. The returned copy is safe to modify.
func (s *Scene) MaterialAt(i int) Material {
	if i >= 0 && i < len(s.Materials) {
		return s.Materials[i]
	}
	return DefaultMaterial()
}

// WhiteTexture returns the shared 1x1 opaque white fallback texture.
func (s *Scene) WhiteTexture() *Texture {
	s.whiteOnce.Do(func() {
		s.white = &Texture{
			Pixels: []byte{255, 255, 255, 255},
			Width:  1,
			Height: 1,
		}
	})
	return s.white
}

type traversalFrame struct {
	node        *Node
	parentWorld math3.Mat4
	parentDirty bool
}

// Update recomputes cached world and normal matrices for every node
// whose transform, or an ancestor's, changed since the last call. All
// nodes get matrices, including zero-scale ones: degenerate transforms
// are excluded at draw time, not here.
func (s *Scene) Update() {
	stack := make([]traversalFrame, 0, 16)
	for _, root := range s.Roots {
		stack = append(stack, traversalFrame{node: root, parentWorld: math3.Identity4()})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.node
		dirty := f.parentDirty || n.dirty
		if dirty {
			n.world = f.parentWorld.Mul(n.local())
			n.normalMat = math3.NormalMat(n.world)
			n.dirty = false
		}
		for _, c := range n.children {
			stack = append(stack, traversalFrame{node: c, parentWorld: n.world, parentDirty: dirty})
		}
	}
}

// EachDrawable calls fn for every mesh-bearing node in traversal order,
// skipping zero-scale subtrees entirely.
func (s *Scene) EachDrawable(fn func(n *Node)) {
	stack := make([]*Node, 0, 16)
	for i := len(s.Roots) - 1; i >= 0; i-- {
		stack = append(stack, s.Roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.zeroScale() {
			continue
		}
		if n.Mesh != NoMesh {
			fn(n)
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// BuildLights resolves the scene's lights into the fixed-capacity
// uniform. The first [shading.MaxLights] lights fill the slots; extras
// are dropped with a warning.
func (s *Scene) BuildLights(cam *Camera) shading.LightsUniform {
	var u shading.LightsUniform
	for i, l := range s.Lights {
		if i >= shading.MaxLights {
			slogger().Warn("light slots exhausted, dropping extra lights",
				"lights", len(s.Lights), "slots", shading.MaxLights)
			break
		}
		u.Slots[i] = l.slot(cam)
		u.Count++
	}
	return u
}
