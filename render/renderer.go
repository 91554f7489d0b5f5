// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image/color"

	"github.com/gogpu/compositor"
)

// Renderer is the backend the damage tracker paints through.
//
// The tracker treats the backend as opaque: it opens one [Frame] per
// repaint, clears exposed background, dispatches element draws and
// finishes the frame. Resource management, swap scheduling and
// presentation belong to the backend and its host.
//
// Thread safety: a Renderer is borrowed mutably for the duration of a
// single [DamageTracker.Render] call; implementations need not allow
// concurrent frames.
type Renderer interface {
	// Render opens a frame. size is the output's pre-transform size;
	// transform is the output transform the backend applies. All
	// rectangles handed to the returned frame are in post-transform
	// space.
	Render(size compositor.Size, transform compositor.Transform) (Frame, error)
}

// Frame is one in-flight repaint on a backend.
//
// Any error aborts the frame; the tracker then discards its state so
// the next frame repaints fully.
type Frame interface {
	// Clear fills the given non-overlapping regions with the color.
	Clear(c color.Color, damage []compositor.Rect) error

	// RenderTextureFromTo samples src out of the texture and paints it
	// into dst, restricted to the damage regions given in dst-local
	// coordinates. alpha in [0,1] is a global opacity multiplier.
	RenderTextureFromTo(tex Texture, src compositor.RectF, dst compositor.Rect,
		damage []compositor.Rect, transform compositor.Transform, alpha float64) error

	// Finish completes the frame and releases it.
	Finish() error
}

// Texture is a backend-resident image an element samples from.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int
}
