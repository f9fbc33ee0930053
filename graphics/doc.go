// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graphics is the device capability surface consumed by the render
// pipeline.
//
// It provides:
//   - Device: host device injection, presenter back-buffer and depth formats
//   - Named blend, depth-stencil and rasterizer state presets
//   - PipelineStateDescription, the per-node resolved GPU state
//   - Textures with an explicit readiness signal
//   - SpriteBatch, a Begin/Draw/End batch renderer recording into a CommandList
//
// Key principle: graphics RECEIVES the device from the host, it does NOT
// create one. See [DeviceHandle].
package graphics
