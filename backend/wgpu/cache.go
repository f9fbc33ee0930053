// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/cache"
	"github.com/gogpu/xrender/graphics"
)

// Device is the part of hal.Device the pipeline cache uses.
type Device interface {
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	DestroyShaderModule(module hal.ShaderModule)
	CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error)
	DestroyRenderPipeline(pipeline hal.RenderPipeline)
}

var _ Device = hal.Device(nil)

// PipelineCache creates render pipelines for pipeline states on demand.
//
// Pipelines are keyed by PipelineStateDescription.Key and shader modules by
// effect name. Both caches are bounded; evicted objects are destroyed.
// Safe for concurrent use, so parallel draw workers may share one cache.
type PipelineCache struct {
	device  Device
	layout  hal.PipelineLayout
	buffers []gputypes.VertexBufferLayout

	modules   *cache.ShardedCache[string, hal.ShaderModule]
	pipelines *cache.ShardedCache[uint64, hal.RenderPipeline]

	created atomic.Int64
	closed  atomic.Bool
}

// NewPipelineCache returns a cache creating pipelines on device with the
// given layout and vertex buffers.
func NewPipelineCache(device Device, layout hal.PipelineLayout, buffers []gputypes.VertexBufferLayout) *PipelineCache {
	return NewPipelineCacheSize(device, layout, buffers, 0)
}

// NewPipelineCacheSize is NewPipelineCache with a per-shard capacity.
// capacity <= 0 uses cache.DefaultCapacity.
func NewPipelineCacheSize(device Device, layout hal.PipelineLayout, buffers []gputypes.VertexBufferLayout, capacity int) *PipelineCache {
	c := &PipelineCache{device: device, layout: layout, buffers: buffers}
	c.modules = cache.NewSharded(capacity, cache.StringHasher, func(name string, m hal.ShaderModule) {
		xrender.Logger().Debug("wgpu: shader module released", "effect", name)
		device.DestroyShaderModule(m)
	})
	c.pipelines = cache.NewSharded(capacity, cache.Uint64Hasher, func(_ uint64, p hal.RenderPipeline) {
		device.DestroyRenderPipeline(p)
	})
	return c
}

// Pipeline returns the render pipeline for s, creating it on first use.
func (c *PipelineCache) Pipeline(s *graphics.PipelineStateDescription) (hal.RenderPipeline, error) {
	if c.closed.Load() {
		xrender.Bug("wgpu.PipelineCache.Pipeline", "cache is closed")
	}
	if s.Effect == nil {
		return nil, ErrNoEffect
	}
	return c.pipelines.GetOrCreate(s.Key(), func() (hal.RenderPipeline, error) {
		module, err := c.module(s)
		if err != nil {
			return nil, err
		}
		desc, err := Descriptor(s, c.layout, module, c.buffers)
		if err != nil {
			return nil, err
		}
		p, err := c.device.CreateRenderPipeline(desc)
		if err != nil {
			return nil, fmt.Errorf("wgpu: create pipeline %s: %w", s.Effect.Name, err)
		}
		c.created.Add(1)
		xrender.Logger().Debug("wgpu: pipeline created", "effect", s.Effect.Name,
			"blend", s.BlendState.Label, "depth", s.DepthStencilState.Label, "raster", s.RasterizerState.Label)
		return p, nil
	})
}

func (c *PipelineCache) module(s *graphics.PipelineStateDescription) (hal.ShaderModule, error) {
	e := s.Effect
	return c.modules.GetOrCreate(e.Name, func() (hal.ShaderModule, error) {
		m, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  e.Name,
			Source: shaderSource(e),
		})
		if err != nil {
			return nil, fmt.Errorf("wgpu: compile effect %s: %w", e.Name, err)
		}
		return m, nil
	})
}

// Created returns the number of pipelines created so far.
func (c *PipelineCache) Created() int64 { return c.created.Load() }

// Stats returns pipeline cache statistics.
func (c *PipelineCache) Stats() cache.Stats { return c.pipelines.Stats() }

// Close destroys every cached pipeline and shader module.
func (c *PipelineCache) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.pipelines.Clear()
	c.modules.Clear()
}
