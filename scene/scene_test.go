// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/shading"
)

const eps = 1e-5

func near(a, b float32) bool { return math32.Abs(a-b) <= eps }

func vecNear(a, b math3.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestUpdateComposesWorldMatrices(t *testing.T) {
	s := New()
	parent := NewNode("parent")
	parent.SetTranslation(math3.V3(1, 0, 0))
	child := NewNode("child")
	child.SetTranslation(math3.V3(0, 2, 0))
	parent.AddChild(child)
	s.AddRoot(parent)

	s.Update()

	got := child.World().TransformPoint(math3.V3(0, 0, 0))
	if !vecNear(got, math3.V3(1, 2, 0)) {
		t.Errorf("child world origin = %v, want (1, 2, 0)", got)
	}
}

func TestUpdatePropagatesParentChanges(t *testing.T) {
	s := New()
	parent := NewNode("parent")
	child := NewNode("child")
	child.SetTranslation(math3.V3(0, 1, 0))
	parent.AddChild(child)
	s.AddRoot(parent)
	s.Update()

	parent.SetTranslation(math3.V3(5, 0, 0))
	s.Update()

	got := child.World().TransformPoint(math3.V3(0, 0, 0))
	if !vecNear(got, math3.V3(5, 1, 0)) {
		t.Errorf("child world origin after parent move = %v, want (5, 1, 0)", got)
	}
}

func TestUpdateNormalMatNonUniformScale(t *testing.T) {
	s := New()
	n := NewNode("scaled")
	n.SetScale(math3.V3(2, 1, 1))
	s.AddRoot(n)
	s.Update()

	// The inverse-transpose keeps an X-facing normal on axis under
	// non-uniform X scale.
	got := n.NormalMat().TransformDir(math3.V3(1, 0, 0)).Normalize()
	if !vecNear(got, math3.V3(1, 0, 0)) {
		t.Errorf("transformed normal = %v, want (1, 0, 0)", got)
	}
}

func TestEachDrawableSkipsZeroScaleSubtrees(t *testing.T) {
	s := New()
	drawable := NewNode("drawable")
	drawable.Mesh = 0

	collapsed := NewNode("collapsed")
	collapsed.SetScale(math3.V3(0, 1, 1))
	hidden := NewNode("hidden")
	hidden.Mesh = 0
	collapsed.AddChild(hidden)

	empty := NewNode("empty") // no mesh: traversed but not reported
	inner := NewNode("inner")
	inner.Mesh = 0
	empty.AddChild(inner)

	s.AddRoot(drawable)
	s.AddRoot(collapsed)
	s.AddRoot(empty)
	s.Update()

	var names []string
	s.EachDrawable(func(n *Node) { names = append(names, n.Name) })

	want := []string{"drawable", "inner"}
	if len(names) != len(want) {
		t.Fatalf("drawables = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("drawable %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestBuildLightsDefaultHeadlight(t *testing.T) {
	s := New()
	cam := NewCamera()

	u := s.BuildLights(cam)
	if u.Count != 1 {
		t.Fatalf("light count = %d, want 1", u.Count)
	}
	slot := u.Slots[0]
	if slot.Kind != shading.LightKindDirectional {
		t.Errorf("headlight kind = %d, want directional", slot.Kind)
	}
	if slot.Color != math3.V4(1, 1, 1, 1) {
		t.Errorf("headlight color = %v, want unit white", slot.Color)
	}
	front := cam.Front()
	if !vecNear(slot.PosDir.XYZ(), front) {
		t.Errorf("headlight direction = %v, want camera front %v", slot.PosDir.XYZ(), front)
	}
}

func TestBuildLightsDropsExtras(t *testing.T) {
	s := New()
	s.Lights = nil
	for i := 0; i < shading.MaxLights+2; i++ {
		s.Lights = append(s.Lights, Ambient{Color: math3.V3(1, 1, 1), Intensity: 0.1})
	}

	u := s.BuildLights(NewCamera())
	if u.Count != shading.MaxLights {
		t.Errorf("light count = %d, want %d", u.Count, shading.MaxLights)
	}
}

func TestBuildLightsVariants(t *testing.T) {
	s := New()
	s.Lights = []Light{
		Ambient{Color: math3.V3(0.1, 0.2, 0.3), Intensity: 0.5},
		Directional{Color: math3.V3(1, 1, 1), Intensity: 1, Direction: math3.V3(0, -2, 0)},
		Point{Color: math3.V3(1, 0, 0), Intensity: 2, Position: math3.V3(1, 2, 3), AttnLinear: 0.1, AttnQuadratic: 0.01},
	}

	u := s.BuildLights(NewCamera())
	if u.Count != 3 {
		t.Fatalf("light count = %d, want 3", u.Count)
	}
	if u.Slots[0].Kind != shading.LightKindAmbient || !near(u.Slots[0].Color.W, 0.5) {
		t.Errorf("ambient slot = %+v", u.Slots[0])
	}
	// Directional direction is normalized at build time.
	if !vecNear(u.Slots[1].PosDir.XYZ(), math3.V3(0, -1, 0)) {
		t.Errorf("directional dir = %v, want (0, -1, 0)", u.Slots[1].PosDir.XYZ())
	}
	p := u.Slots[2]
	if p.Kind != shading.LightKindPoint || !near(p.AttnLinear, 0.1) || !near(p.AttnQuadratic, 0.01) {
		t.Errorf("point slot = %+v", p)
	}
	if !vecNear(p.PosDir.XYZ(), math3.V3(1, 2, 3)) {
		t.Errorf("point position = %v, want (1, 2, 3)", p.PosDir.XYZ())
	}
}

func TestResolveTextureFallback(t *testing.T) {
	s := New()
	m := DefaultMaterial()

	tex := m.ResolveTexture(s)
	if tex == nil {
		t.Fatal("ResolveTexture returned nil")
	}
	if tex.Width != 1 || tex.Height != 1 {
		t.Errorf("fallback texture size = %dx%d, want 1x1", tex.Width, tex.Height)
	}
	if got := tex.Sample(0.5, 0.5); got != math3.V4(1, 1, 1, 1) {
		t.Errorf("fallback sample = %v, want opaque white", got)
	}
	if m.ResolveTexture(s) != tex {
		t.Error("fallback texture is not shared")
	}
}
