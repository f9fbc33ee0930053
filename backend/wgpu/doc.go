// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu turns render pipeline states into gogpu/wgpu render
// pipelines.
//
// Descriptor translates a graphics.PipelineStateDescription into a
// hal.RenderPipelineDescriptor without touching the GPU. PipelineCache
// compiles effects into shader modules and pipelines on first use and keeps
// them in sharded LRU caches keyed by the state hash; evicted pipelines and
// modules are destroyed on the device.
//
//	pc := wgpu.NewPipelineCache(halDevice, layout, wgpu.SpriteVertexLayout())
//	defer pc.Close()
//	pipeline, err := pc.Pipeline(&node.PipelineState)
package wgpu
