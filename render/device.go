// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor"
)

// DeviceHandle provides GPU device access from the host application.
//
// GPU-backed render targets do not create devices; they receive one
// from the host (the compositor's GPU context) through this interface,
// so backend and host share resources. DeviceHandle is an alias for
// gpucontext.DeviceProvider, keeping this package compatible with the
// gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle without a GPU. It stands in where
// only CPU rendering is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// TextureTarget is a GPU-resident render target owned by the host's
// device. It has no CPU pixel access, so the software renderer cannot
// open a frame on it; GPU frame implementations consume it.
type TextureTarget struct {
	handle DeviceHandle
	size   compositor.Size
	format gputypes.TextureFormat
}

// NewTextureTarget creates a GPU render target of the given
// post-transform size on the host's device. Fails with ErrNoDevice
// when the handle has no usable device.
func NewTextureTarget(handle DeviceHandle, size compositor.Size, format gputypes.TextureFormat) (*TextureTarget, error) {
	if handle == nil || handle.Device() == nil {
		return nil, ErrNoDevice
	}
	return &TextureTarget{handle: handle, size: size, format: format}, nil
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int {
	return t.size.W
}

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int {
	return t.size.H
}

// Format returns the pixel format.
func (t *TextureTarget) Format() gputypes.TextureFormat {
	return t.format
}

// Pixels returns nil: the target is GPU-only.
func (t *TextureTarget) Pixels() []byte {
	return nil
}

// Stride returns 0: the target is GPU-only.
func (t *TextureTarget) Stride() int {
	return 0
}

// Device returns the host device handle the target was created on.
func (t *TextureTarget) Device() DeviceHandle {
	return t.handle
}

// Ensure TextureTarget implements RenderTarget.
var _ RenderTarget = (*TextureTarget)(nil)
