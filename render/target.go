// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor"
)

// RenderTarget is where a backend's frames end up.
//
// Targets may be CPU-accessible (Pixels returns the raw buffer), GPU
// resident (Pixels returns nil), or both. The software renderer
// requires CPU access; GPU backends require their own resources.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to the pixel data, or nil for
	// GPU-only targets. For RGBA formats each pixel is 4 bytes.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target over an *image.RGBA.
//
// It is the target of choice for the software renderer and for tests:
// after a render, Image exposes the composited result directly.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a CPU-backed target of the given
// post-transform size.
func NewPixmapTarget(size compositor.Size) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, size.W, size.H)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA without
// copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA. The returned image shares
// memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Resize replaces the backing store with a new one of the given size.
// The contents are not preserved.
func (t *PixmapTarget) Resize(size compositor.Size) {
	t.img = image.NewRGBA(image.Rect(0, 0, size.W, size.H))
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)

// resizableTarget is implemented by targets that can change size; the
// software renderer resizes them when the output geometry changes.
type resizableTarget interface {
	Resize(size compositor.Size)
}
