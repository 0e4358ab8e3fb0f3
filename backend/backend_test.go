// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/g3d/render"
)

func TestSoftwareRegistered(t *testing.T) {
	if !IsRegistered(BackendSoftware) {
		t.Fatal("software backend not registered")
	}
	r := Get(BackendSoftware)
	if r == nil {
		t.Fatal("Get(software) returned nil")
	}
	if _, ok := r.(*render.SoftwareRenderer); !ok {
		t.Errorf("Get(software) = %T, want *render.SoftwareRenderer", r)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestGPURegistered(t *testing.T) {
	if !IsRegistered(BackendGPU) {
		t.Fatal("gpu backend not registered")
	}
	r := Get(BackendGPU)
	if r == nil {
		t.Fatal("Get(gpu) returned nil")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestGetUnknown(t *testing.T) {
	if Get("no-such-backend") != nil {
		t.Error("Get of unknown backend should return nil")
	}
	_, err := New("no-such-backend")
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("New error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegisterUnregister(t *testing.T) {
	const name = "test-backend"
	Register(name, func() render.Renderer {
		return render.NewSoftwareRenderer()
	})
	defer Unregister(name)

	if !IsRegistered(name) {
		t.Fatal("registered backend not found")
	}
	r, err := New(name)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	Unregister(name)
	if IsRegistered(name) {
		t.Error("backend still registered after Unregister")
	}
}

func TestAvailable(t *testing.T) {
	names := Available()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found[BackendSoftware] || !found[BackendGPU] {
		t.Errorf("Available() = %v, want software and gpu present", names)
	}
}

func TestDefault(t *testing.T) {
	r := Default()
	if r == nil {
		t.Fatal("Default returned nil")
	}
	defer r.Close()
}

func TestMustDefault(t *testing.T) {
	defer func() {
		if recover() != nil {
			t.Error("MustDefault panicked with backends registered")
		}
	}()
	r := MustDefault()
	r.Close()
}
