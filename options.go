// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package g3d

import (
	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/scene"
)

// Option configures an Engine during creation.
// Use functional options to customize Engine behavior.
//
// Example:
//
//	// Default: best available renderer, headlight, standard camera
//	eng := g3d.New()
//
//	// Custom renderer (dependency injection)
//	eng := g3d.New(g3d.WithRenderer(render.NewSoftwareRenderer()))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	renderer    render.Renderer
	camera      *scene.Camera
	controller  *scene.Controller
	clearColor  *math3.Vec4
	noHeadlight bool
}

// WithRenderer sets a custom renderer for the Engine.
// Use this for dependency injection of a specific backend:
//
//	eng := g3d.New(g3d.WithRenderer(render.NewSoftwareRenderer()))
//
// Without this option the Engine takes the best registered backend
// (GPU with software fallback by default).
func WithRenderer(r render.Renderer) Option {
	return func(o *engineOptions) {
		o.renderer = r
	}
}

// WithClearColor sets the background color the mesh pass clears to.
func WithClearColor(c math3.Vec4) Option {
	return func(o *engineOptions) {
		o.clearColor = &c
	}
}

// WithCamera sets the initial camera instead of the default viewer pose.
func WithCamera(cam *scene.Camera) Option {
	return func(o *engineOptions) {
		o.camera = cam
	}
}

// WithController sets the camera controller instead of the default one.
func WithController(ct *scene.Controller) Option {
	return func(o *engineOptions) {
		o.controller = ct
	}
}

// WithoutHeadlight removes the camera-locked default light from scenes
// the engine manages. Use it when the model brings its own lights.
func WithoutHeadlight() Option {
	return func(o *engineOptions) {
		o.noHeadlight = true
	}
}
