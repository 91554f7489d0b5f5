// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render implements damage-tracked rendering for a single
// output.
//
// # Overview
//
// The central type is [DamageTracker]: a per-output engine that, given
// a frame's scene elements (front to back) and the age of the back
// buffer, computes the minimal set of screen rectangles that must be
// repainted and optionally performs the repaint through a backend.
//
// Damage is fused from four sources:
//   - element content changes, tracked through per-element commit
//     counters and [Element.DamageSince]
//   - element motion, reordering, appearance and disappearance
//   - back buffers older than one frame (buffer age)
//   - output geometry changes
//
// Elements declare opaque regions; pixels hidden behind an opaque
// region of a closer element are neither cleared nor drawn.
//
// # Backends
//
// The tracker paints through the narrow [Renderer] and [Frame]
// contract. [SoftwareRenderer] is a complete CPU implementation over a
// [RenderTarget]; GPU backends implement the same contract on top of
// their own frame machinery.
//
// # Usage
//
//	tracker := render.NewDamageTracker(
//	    compositor.Size{W: 800, H: 600}, 1.0, compositor.TransformNormal)
//
//	for {
//	    age := swapchain.BufferAge()
//	    damage, states, err := tracker.Render(backend, age, elements, clearColor)
//	    if err != nil {
//	        // Tracker state is reset; the next frame repaints fully.
//	        continue
//	    }
//	    if damage == nil {
//	        continue // nothing changed, backend untouched
//	    }
//	    swapchain.SwapWithDamage(damage)
//	    _ = states // per-element visibility, e.g. for presentation feedback
//	}
//
// One tracker serves one output. Trackers are not safe for concurrent
// use; drive each from its output's render loop.
package render
