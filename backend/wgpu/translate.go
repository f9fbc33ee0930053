// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xrender/effect"
	"github.com/gogpu/xrender/graphics"
)

// ErrNoEffect is returned for pipeline states whose effect failed to load.
var ErrNoEffect = errors.New("wgpu: pipeline state has no effect")

// vertexStride is the size of one sprite vertex: position xyz, uv, rgba.
const vertexStride = (3 + 2 + 4) * 4

// SpriteVertexLayout returns the vertex layout used by sprite and mesh
// effects: float32x3 position, float32x2 uv, float32x4 color.
func SpriteVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 2},
			},
		},
	}
}

// Primitive returns the primitive state of s. The node topology wins over
// the rasterizer preset; wireframe fill draws lines since WebGPU has no
// polygon mode.
func Primitive(s *graphics.PipelineStateDescription) gputypes.PrimitiveState {
	p := s.RasterizerState.Primitive
	p.Topology = s.Topology
	if s.RasterizerState.FillMode == graphics.FillModeWireFrame {
		p.Topology = gputypes.PrimitiveTopologyLineList
		p.CullMode = gputypes.CullModeNone
	}
	p.UnclippedDepth = p.UnclippedDepth || !s.RasterizerState.DepthClipEnable
	return p
}

// ColorTargets returns the single color target of s, or nil when the
// output has no color attachment.
func ColorTargets(s *graphics.PipelineStateDescription) []gputypes.ColorTargetState {
	if s.Output.Color == gputypes.TextureFormatUndefined {
		return nil
	}
	return []gputypes.ColorTargetState{s.BlendState.ColorTarget(s.Output.Color)}
}

var keepStencil = hal.StencilFaceState{
	Compare:     gputypes.CompareFunctionAlways,
	FailOp:      hal.StencilOperationKeep,
	DepthFailOp: hal.StencilOperationKeep,
	PassOp:      hal.StencilOperationKeep,
}

// DepthStencil returns the depth-stencil state of s. Disabled depth still
// yields a pass-through state when the output has a depth attachment, since
// the pipeline must match the render pass.
func DepthStencil(s *graphics.PipelineStateDescription) *hal.DepthStencilState {
	format := s.Output.DepthStencil
	if !format.HasDepth() {
		return nil
	}
	ds := &hal.DepthStencilState{
		Format:       format,
		DepthCompare: gputypes.CompareFunctionAlways,
		StencilFront: keepStencil,
		StencilBack:  keepStencil,
	}
	if gs := s.DepthStencilState.GPUState(format); gs != nil {
		ds.DepthWriteEnabled = gs.DepthWriteEnabled
		ds.DepthCompare = gs.DepthCompare
	}
	return ds
}

// Descriptor translates s into a render pipeline descriptor using module
// for both shader stages.
func Descriptor(s *graphics.PipelineStateDescription, layout hal.PipelineLayout, module hal.ShaderModule,
	buffers []gputypes.VertexBufferLayout) (*hal.RenderPipelineDescriptor, error) {
	if s.Effect == nil {
		return nil, ErrNoEffect
	}
	desc := &hal.RenderPipelineDescriptor{
		Label:  s.Effect.Name,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: entry(s.Effect.VertexEntry, effect.DefaultVertexEntry),
			Buffers:    buffers,
		},
		Primitive:    Primitive(s),
		DepthStencil: DepthStencil(s),
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if targets := ColorTargets(s); targets != nil {
		desc.Fragment = &hal.FragmentState{
			Module:     module,
			EntryPoint: entry(s.Effect.FragmentEntry, effect.DefaultFragmentEntry),
			Targets:    targets,
		}
	}
	return desc, nil
}

func entry(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

// shaderSource prefers precompiled SPIR-V over WGSL.
func shaderSource(e *effect.Effect) hal.ShaderSource {
	if len(e.SPIRV) > 0 {
		return hal.ShaderSource{SPIRV: e.SPIRV}
	}
	return hal.ShaderSource{WGSL: e.Source}
}
