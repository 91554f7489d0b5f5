// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/compositor"

// ID is the stable identity of a scene element.
//
// The same ID may appear multiple times in one frame's element list;
// every occurrence is a separate instance of the same content (for
// example one texture placed at two locations). The damage tracker
// never assumes per-frame uniqueness.
type ID string

// CommitCounter is the version of an element's content. It advances
// monotonically whenever the element's pixels change; equal counters
// mean unchanged content.
type CommitCounter uint64

// Element describes a scene element to the damage analyzer. It is the
// describe-only subset of [RenderElement], sufficient for
// [DamageTracker.ComputeDamage].
//
// Elements are borrowed for the duration of a single tracker call.
// Geometry and commit counters are sampled once per frame.
type Element interface {
	// ID returns the element's stable identity.
	ID() ID

	// CurrentCommit returns the version of the element's content.
	CurrentCommit() CommitCounter

	// Geometry returns the element's placement on the output in
	// physical pixels at the given fractional scale.
	Geometry(scale float64) compositor.Rect

	// Src returns the sub-region of the element's buffer used as the
	// sampling source.
	Src() compositor.RectF

	// OpaqueRegions returns regions within the element's geometry that
	// are guaranteed fully opaque, in element-local physical pixels.
	// Elements behind these regions are culled.
	OpaqueRegions(scale float64) []compositor.Rect

	// DamageSince returns the element-local regions dirtied since the
	// given commit. A nil commit, or a commit too old to resolve, must
	// yield the element's full extent.
	DamageSince(scale float64, commit *CommitCounter) []compositor.Rect
}

// RenderElement is an [Element] that can paint itself into a backend
// frame. [DamageTracker.Render] requires this full capability set.
type RenderElement interface {
	Element

	// Draw paints the element into the frame. src is the element's
	// source region, dst its output-space geometry, and damage the
	// regions to repaint in element-local coordinates. damage is
	// never empty.
	Draw(frame Frame, src compositor.RectF, dst compositor.Rect, damage []compositor.Rect) error
}
