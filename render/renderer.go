// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/g3d/scene"
)

// Sentinel errors for programmatic checks.
var (
	// ErrNilTarget is returned when Render receives a nil target.
	ErrNilTarget = errors.New("render: nil target")

	// ErrNilScene is returned when Render receives a nil scene or camera.
	ErrNilScene = errors.New("render: nil scene or camera")

	// ErrNoCPUAccess is returned when a CPU renderer receives a target
	// without pixel access.
	ErrNoCPUAccess = errors.New("render: target has no CPU pixel access")

	// ErrFallbackToCPU wraps GPU errors when a GPU renderer silently
	// switched to the software path. Detect with errors.Is.
	ErrFallbackToCPU = errors.New("render: fell back to CPU rendering")
)

// Renderer draws a scene through a camera into a target. Implementations
// are not safe for concurrent use on the same target.
type Renderer interface {
	// Render executes the mesh shading pass (and, where the target
	// requires it, the blit pass) for one frame. The scene must have
	// been updated via scene.Update before rendering.
	Render(t RenderTarget, s *scene.Scene, cam *scene.Camera) error

	// Close releases renderer resources. The renderer is unusable
	// afterwards.
	Close() error
}
