// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package g3d

import (
	"errors"
	"fmt"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gltf"
	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/scene"
)

// Sentinel errors for programmatic checks.
var (
	// ErrNilScene is returned when SetScene receives a nil scene.
	ErrNilScene = errors.New("g3d: nil scene")

	// ErrNilTarget is returned when Render receives a nil target.
	ErrNilTarget = errors.New("g3d: nil target")
)

// clearColorSetter is implemented by renderers that take a background
// color.
type clearColorSetter interface {
	SetClearColor(math3.Vec4)
}

// Engine owns a scene, a camera with its controller, and a renderer,
// and drives the per-frame update/render cycle. Not safe for concurrent
// use.
type Engine struct {
	scene      *scene.Scene
	camera     *scene.Camera
	controller *scene.Controller
	renderer   render.Renderer

	noHeadlight bool
}

// New creates an engine with an empty scene. Without options it uses
// the default camera pose, the default controller, and the best
// registered backend (GPU with software fallback).
func New(opts ...Option) *Engine {
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		camera:      o.camera,
		controller:  o.controller,
		renderer:    o.renderer,
		noHeadlight: o.noHeadlight,
	}
	if e.camera == nil {
		e.camera = scene.NewCamera()
	}
	if e.controller == nil {
		e.controller = scene.NewController()
	}
	if e.renderer == nil {
		e.renderer = backend.MustDefault()
	}
	if o.clearColor != nil {
		if cs, ok := e.renderer.(clearColorSetter); ok {
			cs.SetClearColor(*o.clearColor)
		}
	}

	s := scene.New()
	e.adoptScene(s)
	return e
}

// adoptScene installs s as the engine's scene, applying the headlight
// policy and refreshing world matrices.
func (e *Engine) adoptScene(s *scene.Scene) {
	if e.noHeadlight {
		lights := s.Lights[:0]
		for _, l := range s.Lights {
			if l != scene.Headlight() {
				lights = append(lights, l)
			}
		}
		s.Lights = lights
	}
	s.Update()
	e.scene = s
}

// Scene returns the engine's current scene.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Camera returns the engine's camera.
func (e *Engine) Camera() *scene.Camera { return e.camera }

// Controller returns the engine's camera controller.
func (e *Engine) Controller() *scene.Controller { return e.controller }

// Renderer returns the engine's renderer.
func (e *Engine) Renderer() render.Renderer { return e.renderer }

// SetScene replaces the engine's scene. The scene's world matrices are
// refreshed; the camera keeps its pose.
func (e *Engine) SetScene(s *scene.Scene) error {
	if s == nil {
		return ErrNilScene
	}
	e.adoptScene(s)
	return nil
}

// LoadGLTF reads a .gltf or .glb file and makes its default scene the
// engine's scene.
func (e *Engine) LoadGLTF(path string) error {
	s, err := gltf.Load(path)
	if err != nil {
		return fmt.Errorf("g3d: load %s: %w", path, err)
	}
	e.adoptScene(s)
	Logger().Info("g3d: scene loaded", "path", path,
		"roots", len(s.Roots), "meshes", len(s.Meshes), "materials", len(s.Materials))
	return nil
}

// Update advances one frame: the controller's accumulated input moves
// the camera, then the scene's world matrices are refreshed. dt is the
// frame time in seconds.
func (e *Engine) Update(dt float32) {
	e.controller.Update(e.camera, dt)
	e.scene.Update()
}

// Render draws the current scene into the target. The camera's aspect
// ratio follows the target size.
func (e *Engine) Render(target render.RenderTarget) error {
	if target == nil {
		return ErrNilTarget
	}
	e.camera.Proj.Resize(target.Width(), target.Height())
	return e.renderer.Render(target, e.scene, e.camera)
}

// Close releases the renderer. The engine is unusable afterwards.
func (e *Engine) Close() error {
	if e.renderer == nil {
		return nil
	}
	err := e.renderer.Close()
	e.renderer = nil
	return err
}
