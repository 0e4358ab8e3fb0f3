// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/gputypes"
)

// RenderTarget defines where rendering output goes.
//
// Targets may support CPU access (Pixels), GPU access (NativeView), or
// both; renderers choose the access path they need.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to RGBA8 pixel data, or nil for
	// GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per pixel row, or 0 for
	// GPU-only targets.
	Stride() int

	// NativeView returns the backend texture view for GPU targets, or
	// nil for CPU-only targets. The concrete type belongs to the
	// renderer's backend.
	NativeView() any
}

// ImageTarget is a CPU-backed render target wrapping an *image.RGBA.
type ImageTarget struct {
	img *image.RGBA
}

// NewImageTarget creates a CPU-backed target of the given size.
func NewImageTarget(width, height int) *ImageTarget {
	return &ImageTarget{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// NewImageTargetFrom wraps an existing *image.RGBA without copying.
func NewImageTargetFrom(img *image.RGBA) *ImageTarget {
	return &ImageTarget{img: img}
}

// Width returns the target width in pixels.
func (t *ImageTarget) Width() int { return t.img.Bounds().Dx() }

// Height returns the target height in pixels.
func (t *ImageTarget) Height() int { return t.img.Bounds().Dy() }

// Format returns the pixel format (RGBA8).
func (t *ImageTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *ImageTarget) Pixels() []byte { return t.img.Pix }

// Stride returns the number of bytes per row.
func (t *ImageTarget) Stride() int { return t.img.Stride }

// NativeView returns nil: this is a CPU-only target.
func (t *ImageTarget) NativeView() any { return nil }

// Image returns the underlying *image.RGBA, sharing memory with the
// target.
func (t *ImageTarget) Image() *image.RGBA { return t.img }

var _ RenderTarget = (*ImageTarget)(nil)

// TextureTarget wraps a backend texture view, letting GPU renderers
// draw straight into a host-owned texture (a swapchain view, an
// offscreen attachment).
type TextureTarget struct {
	width  int
	height int
	format gputypes.TextureFormat
	view   any
}

// NewTextureTarget wraps a backend texture view as a render target. The
// view's concrete type must match the renderer that consumes it.
func NewTextureTarget(view any, width, height int, format gputypes.TextureFormat) *TextureTarget {
	return &TextureTarget{width: width, height: height, format: format, view: view}
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int { return t.height }

// Format returns the pixel format.
func (t *TextureTarget) Format() gputypes.TextureFormat { return t.format }

// Pixels returns nil: this is a GPU-only target.
func (t *TextureTarget) Pixels() []byte { return nil }

// Stride returns 0: this is a GPU-only target.
func (t *TextureTarget) Stride() int { return 0 }

// NativeView returns the wrapped backend texture view.
func (t *TextureTarget) NativeView() any { return t.view }

var _ RenderTarget = (*TextureTarget)(nil)
