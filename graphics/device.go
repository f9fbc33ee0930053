// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host application (e.g., gogpu.App) implements DeviceHandle and passes
// it to NewDevice, allowing the render system to use the shared GPU device
// and surface format.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for headless runs and tests where no GPU is available.
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

// AdapterInfo reports a software adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "null", Type: gpucontext.AdapterTypeSoftware}
}

var _ DeviceHandle = NullDeviceHandle{}

// DefaultBackBufferFormat is used when the host surface format is undefined.
const DefaultBackBufferFormat = gputypes.TextureFormatBGRA8Unorm

// DefaultDepthStencilFormat is the depth format used unless overridden.
const DefaultDepthStencilFormat = gputypes.TextureFormatDepth24PlusStencil8

// RenderOutputDescription is the output format pair of a render stage.
type RenderOutputDescription struct {
	Color        gputypes.TextureFormat
	DepthStencil gputypes.TextureFormat
}

// DeviceOption configures a Device.
type DeviceOption func(*deviceOptions)

type deviceOptions struct {
	backBuffer gputypes.TextureFormat
	depth      gputypes.TextureFormat
}

// WithBackBufferFormat overrides the presenter back-buffer format.
func WithBackBufferFormat(f gputypes.TextureFormat) DeviceOption {
	return func(o *deviceOptions) {
		o.backBuffer = f
	}
}

// WithDepthStencilFormat sets the presenter depth-stencil format.
// Formats without a depth aspect are ignored.
func WithDepthStencilFormat(f gputypes.TextureFormat) DeviceOption {
	return func(o *deviceOptions) {
		if f.HasDepth() {
			o.depth = f
		}
	}
}

// Device is the graphics capability surface used by render features.
type Device struct {
	handle DeviceHandle
	output RenderOutputDescription
}

// NewDevice wraps a host device handle.
func NewDevice(h DeviceHandle, opts ...DeviceOption) *Device {
	if h == nil {
		h = NullDeviceHandle{}
	}
	o := deviceOptions{depth: DefaultDepthStencilFormat}
	for _, opt := range opts {
		opt(&o)
	}

	color := o.backBuffer
	if color == gputypes.TextureFormatUndefined {
		color = h.SurfaceFormat()
	}
	if color == gputypes.TextureFormatUndefined {
		color = DefaultBackBufferFormat
	}

	return &Device{
		handle: h,
		output: RenderOutputDescription{Color: color, DepthStencil: o.depth},
	}
}

// NewNullDevice creates a Device without a GPU.
func NewNullDevice(opts ...DeviceOption) *Device {
	return NewDevice(NullDeviceHandle{}, opts...)
}

// Handle returns the host device handle.
func (d *Device) Handle() DeviceHandle { return d.handle }

// BackBufferFormat returns the presenter back-buffer format.
func (d *Device) BackBufferFormat() gputypes.TextureFormat { return d.output.Color }

// DepthStencilFormat returns the presenter depth-stencil format.
func (d *Device) DepthStencilFormat() gputypes.TextureFormat { return d.output.DepthStencil }

// PresenterOutput returns the back-buffer/depth format pair, the output of
// stages that render to the presenter.
func (d *Device) PresenterOutput() RenderOutputDescription { return d.output }

// NewSpriteBatch allocates a sprite batch renderer for this device.
func (d *Device) NewSpriteBatch() *SpriteBatch {
	return newSpriteBatch(d)
}
