// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package g3d

import (
	"testing"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/scene"
)

func TestWithCamera(t *testing.T) {
	cam := scene.NewCamera()
	cam.Position = math3.V3(1, 2, 3)

	eng := newTestEngine(WithCamera(cam))
	defer eng.Close()

	if eng.Camera() != cam {
		t.Error("engine did not adopt the supplied camera")
	}
	if eng.Camera().Position != math3.V3(1, 2, 3) {
		t.Errorf("camera position = %v, want (1, 2, 3)", eng.Camera().Position)
	}
}

func TestWithController(t *testing.T) {
	ctl := scene.NewController()
	ctl.Speed = 10

	eng := newTestEngine(WithController(ctl))
	defer eng.Close()

	if eng.Controller() != ctl {
		t.Error("engine did not adopt the supplied controller")
	}
}

func TestWithRenderer(t *testing.T) {
	sw := render.NewSoftwareRenderer()
	eng := New(WithRenderer(sw))
	defer eng.Close()

	if eng.Renderer() != render.Renderer(sw) {
		t.Error("engine did not adopt the supplied renderer")
	}
}

func TestWithClearColorReachesRenderer(t *testing.T) {
	sw := render.NewSoftwareRenderer()
	eng := New(WithRenderer(sw), WithClearColor(math3.V4(0, 1, 0, 1)))
	defer eng.Close()

	if sw.ClearColor != math3.V4(0, 1, 0, 1) {
		t.Errorf("renderer clear color = %v, want (0, 1, 0, 1)", sw.ClearColor)
	}
}
