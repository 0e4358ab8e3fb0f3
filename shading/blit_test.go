// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import (
	"testing"

	"github.com/gogpu/g3d/math3"
)

func TestBlitQuadCorners(t *testing.T) {
	// Position-to-UV pairing: clip-space corners map to texture corners
	// with Y flipped.
	want := map[math3.Vec2]math3.Vec2{
		math3.V2(-1, 1):  math3.V2(0, 0),
		math3.V2(1, 1):   math3.V2(1, 0),
		math3.V2(1, -1):  math3.V2(1, 1),
		math3.V2(-1, -1): math3.V2(0, 1),
	}
	seen := make(map[math3.Vec2]bool)
	for i, v := range BlitQuad() {
		uv, ok := want[v.Pos]
		if !ok {
			t.Fatalf("vertex %d position %v is not a corner of the clip square", i, v.Pos)
		}
		if v.UV != uv {
			t.Errorf("vertex %d at %v has UV %v, want %v", i, v.Pos, v.UV, uv)
		}
		seen[v.Pos] = true
	}
	if len(seen) != 4 {
		t.Errorf("quad touches %d distinct corners, want 4", len(seen))
	}
}

// signedArea2 is twice the signed area of triangle (a, b, c); negative for
// clockwise orientation in clip space (+Y up).
func signedArea2(a, b, c math3.Vec2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func TestBlitQuadCoverageAndWinding(t *testing.T) {
	q := BlitQuad()
	a1 := signedArea2(q[0].Pos, q[1].Pos, q[2].Pos)
	a2 := signedArea2(q[3].Pos, q[4].Pos, q[5].Pos)

	if a1 == 0 || a2 == 0 {
		t.Fatalf("degenerate triangle: areas %v, %v", a1, a2)
	}
	if (a1 > 0) != (a2 > 0) {
		t.Errorf("inconsistent winding: signed areas %v and %v", a1, a2)
	}

	abs := func(v float32) float32 {
		if v < 0 {
			return -v
		}
		return v
	}
	// The two triangles together cover the full 2x2 clip square.
	if got := abs(a1)/2 + abs(a2)/2; got != 4 {
		t.Errorf("total covered area = %v, want 4", got)
	}

	// The shared diagonal appears in both triangles, so coverage has no
	// gap or overlap.
	if q[2].Pos != q[3].Pos || q[0].Pos != q[5].Pos {
		t.Error("triangles do not share the expected diagonal edge")
	}
}

func TestBlitQuadVertexCount(t *testing.T) {
	if BlitVertexCount != 6 {
		t.Fatalf("BlitVertexCount = %d, want 6", BlitVertexCount)
	}
	if len(BlitQuad()) != BlitVertexCount {
		t.Fatalf("len(BlitQuad()) = %d, want %d", len(BlitQuad()), BlitVertexCount)
	}
}
