// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package output describes display outputs for the damage tracker's
// auto mode.
//
// An Output is a small, thread-safe descriptor of one display surface:
// its current mode, fractional scale and transform. A damage tracker
// constructed with render.FromOutput re-reads the descriptor on every
// frame, so mode or scale changes take effect on the next render
// without rebuilding the tracker.
package output

import (
	"sync"

	"github.com/gogpu/compositor"
)

// Mode is one display timing of an output.
type Mode struct {
	// Size is the mode's resolution in physical pixels, pre-transform.
	Size compositor.Size

	// RefreshMillihertz is the vertical refresh rate in mHz.
	// Zero when unknown.
	RefreshMillihertz int
}

// Output is a single display surface.
//
// The zero value has no mode, scale 1.0 and the normal transform; an
// unset mode makes the damage tracker fail with ErrOutputNoMode until
// SetMode is called.
//
// Output is safe for concurrent use. Compositors typically mutate it
// from their event loop while a per-output render loop reads it.
type Output struct {
	mu        sync.Mutex
	name      string
	mode      *Mode
	scale     float64
	transform compositor.Transform
}

// New creates an output with the given name, no mode, scale 1.0 and
// the normal transform.
func New(name string) *Output {
	return &Output{name: name, scale: 1.0}
}

// Name returns the output's name.
func (o *Output) Name() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.name
}

// SetMode sets the output's current mode.
func (o *Output) SetMode(mode Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mode = &mode
}

// CurrentMode returns the output's current mode.
// ok is false when no mode has been set.
func (o *Output) CurrentMode() (Mode, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mode == nil {
		return Mode{}, false
	}
	return *o.mode, true
}

// SetScale sets the output's fractional scale. Non-positive values are
// ignored.
func (o *Output) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scale = scale
}

// CurrentScale returns the output's fractional scale.
func (o *Output) CurrentScale() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.scale == 0 {
		return 1.0
	}
	return o.scale
}

// SetTransform sets the output's transform.
func (o *Output) SetTransform(t compositor.Transform) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transform = t
}

// CurrentTransform returns the output's transform.
func (o *Output) CurrentTransform() compositor.Transform {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transform
}
