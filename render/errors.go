// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Package errors for the render package.
var (
	// ErrOutputNoMode is returned when an auto-mode tracker's output
	// has no active mode set.
	ErrOutputNoMode = errors.New("render: output has no active mode")

	// ErrTargetNoCPUAccess is returned when the software renderer is
	// given a target without CPU pixel access.
	ErrTargetNoCPUAccess = errors.New("render: target does not support CPU access")

	// ErrUnsupportedFormat is returned for targets whose pixel format
	// the software renderer cannot write.
	ErrUnsupportedFormat = errors.New("render: unsupported target pixel format")

	// ErrUnsupportedTexture is returned when a frame is handed a
	// texture that does not belong to its renderer.
	ErrUnsupportedTexture = errors.New("render: texture not usable by this renderer")

	// ErrUnsupportedTransform is returned when the software renderer
	// is asked for a transform it cannot apply.
	ErrUnsupportedTransform = errors.New("render: unsupported transform")

	// ErrTargetSizeMismatch is returned when a fixed-size target does
	// not match the output geometry.
	ErrTargetSizeMismatch = errors.New("render: target size does not match output")

	// ErrNoDevice is returned when a GPU target is created without a
	// usable device.
	ErrNoDevice = errors.New("render: device handle provides no GPU device")

	// ErrFrameFinished is returned when a finished frame is used.
	ErrFrameFinished = errors.New("render: frame already finished")
)

// RenderError wraps an error the backend returned while a frame was in
// flight. After a RenderError the tracker's state has been reset: the
// partially painted buffer can no longer be trusted, so the next frame
// repaints the whole output.
type RenderError struct {
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return "render: backend failed: " + e.Err.Error()
}

// Unwrap returns the backend's error.
func (e *RenderError) Unwrap() error {
	return e.Err
}
