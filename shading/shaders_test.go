// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import (
	"testing"

	"github.com/gogpu/naga"
)

func TestMeshShaderCompiles(t *testing.T) {
	src := MeshShaderSource()
	if src == "" {
		t.Fatal("mesh shader source is empty")
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		t.Fatalf("mesh shader failed to compile: %v", err)
	}
	if len(spirv) == 0 {
		t.Fatal("mesh shader compiled to empty SPIR-V")
	}
	if len(spirv)%4 != 0 {
		t.Errorf("SPIR-V length = %d, want multiple of 4", len(spirv))
	}
}

func TestBlitShaderCompiles(t *testing.T) {
	src := BlitShaderSource()
	if src == "" {
		t.Fatal("blit shader source is empty")
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		t.Fatalf("blit shader failed to compile: %v", err)
	}
	if len(spirv) == 0 {
		t.Fatal("blit shader compiled to empty SPIR-V")
	}
}
