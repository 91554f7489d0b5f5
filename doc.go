// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compositor provides damage-tracked output rendering for Go
// compositors.
//
// # Overview
//
// A compositor that repaints every pixel of every output on every frame
// wastes most of its rendering budget. The packages under this module
// track what actually changed between frames — element content, element
// placement, buffer age, output geometry — and repaint only that.
//
// The root package holds the shared vocabulary: integer rectangles on
// the physical pixel grid ([Rect]), output transforms ([Transform]) and
// the module-wide logger ([SetLogger]).
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/compositor"
//	    "github.com/gogpu/compositor/render"
//	)
//
//	// One tracker per output.
//	tracker := render.NewDamageTracker(
//	    compositor.Size{W: 800, H: 600}, 1.0, compositor.TransformNormal)
//
//	// Each frame: hand the tracker the scene (front to back) and the
//	// age of the back buffer. It clears and draws only what changed.
//	damage, states, err := tracker.Render(backend, bufferAge, elements, clearColor)
//
// # Architecture
//
// The module is organized into:
//   - Root: geometry primitives, transforms, logging
//   - render: the damage tracker, element contracts, backend contract,
//     software backend and render targets
//   - output: live output descriptors for the tracker's auto mode
//   - element/memory: a CPU memory-buffer render element
//   - cache: generic LRU used for per-scale buffer variants
//
// # Coordinate System
//
// All rectangles exchanged with the tracker live in the output's
// physical-pixel, post-transform space: origin at the top-left,
// x right, y down, inclusive-exclusive edges. Element damage is
// element-local (origin at the element's top-left corner).
package compositor
