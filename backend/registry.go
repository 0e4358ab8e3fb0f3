// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"sync"

	"github.com/gogpu/g3d/render"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendGPU, BackendWebGPU, BackendSoftware}
)

// Register registers a renderer factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be
// replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a new renderer by backend name.
// Returns nil if the backend is not registered.
func Get(name string) render.Renderer {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// New returns a new renderer by backend name, or
// ErrBackendNotAvailable if no such backend is registered.
func New(name string) (render.Renderer, error) {
	r := Get(name)
	if r == nil {
		return nil, ErrBackendNotAvailable
	}
	return r, nil
}

// Default returns the best available renderer based on priority.
// Priority order: gpu > webgpu > software.
// Returns nil if no backends are registered.
func Default() render.Renderer {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if r := factory(); r != nil {
				return r
			}
		}
	}

	// Fallback: return first available
	for _, factory := range backends {
		if r := factory(); r != nil {
			return r
		}
	}

	return nil
}

// MustDefault returns the default renderer or panics.
func MustDefault() render.Renderer {
	r := Default()
	if r == nil {
		panic("backend: no backend available")
	}
	return r
}
