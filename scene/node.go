// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "github.com/gogpu/g3d/math3"

// NoMesh marks a node that carries no drawable geometry.
const NoMesh = -1

// Node is one element of the scene hierarchy: a TRS transform, optional
// mesh reference, and children. World and normal matrices are cached and
// recomputed by [Scene.Update] when the transform (or an ancestor's)
// changes.
type Node struct {
	Name string

	// Mesh indexes into Scene.Meshes, or NoMesh.
	Mesh int

	translation math3.Vec3
	rotation    math3.Quat
	scale       math3.Vec3

	children []*Node

	world     math3.Mat4
	normalMat math3.Mat4
	dirty     bool
}

// NewNode returns a node with an identity transform and no mesh.
func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Mesh:      NoMesh,
		rotation:  math3.QuatIdentity(),
		scale:     math3.V3(1, 1, 1),
		world:     math3.Identity4(),
		normalMat: math3.Identity4(),
		dirty:     true,
	}
}

// SetTRS replaces the node's full local transform.
func (n *Node) SetTRS(t math3.Vec3, r math3.Quat, s math3.Vec3) {
	n.translation, n.rotation, n.scale = t, r, s
	n.dirty = true
}

// SetTranslation sets the local translation.
func (n *Node) SetTranslation(t math3.Vec3) {
	n.translation = t
	n.dirty = true
}

// SetRotation sets the local rotation.
func (n *Node) SetRotation(r math3.Quat) {
	n.rotation = r
	n.dirty = true
}

// SetScale sets the local scale.
func (n *Node) SetScale(s math3.Vec3) {
	n.scale = s
	n.dirty = true
}

// Translation returns the local translation.
func (n *Node) Translation() math3.Vec3 { return n.translation }

// Rotation returns the local rotation.
func (n *Node) Rotation() math3.Quat { return n.rotation }

// Scale returns the local scale.
func (n *Node) Scale() math3.Vec3 { return n.scale }

// AddChild appends a child node.
func (n *Node) AddChild(child *Node) {
	n.children = append(n.children, child)
}

// Children returns the node's children. The slice is shared; do not
// reorder it during traversal.
func (n *Node) Children() []*Node { return n.children }

// World returns the cached object-to-world matrix, valid after the last
// [Scene.Update].
func (n *Node) World() math3.Mat4 { return n.world }

// NormalMat returns the cached inverse-transpose normal matrix, valid
// after the last [Scene.Update].
func (n *Node) NormalMat() math3.Mat4 { return n.normalMat }

func (n *Node) local() math3.Mat4 {
	return math3.TRS(n.translation, n.rotation, n.scale)
}

// zeroScale reports whether any scale component is zero. Such nodes have
// a degenerate world transform and are excluded from drawing together
// with their subtree.
func (n *Node) zeroScale() bool {
	return n.scale.X == 0 || n.scale.Y == 0 || n.scale.Z == 0
}
