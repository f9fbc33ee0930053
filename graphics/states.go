// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import "github.com/gogpu/gputypes"

// BlendStateDescription describes color blending for one render target.
// Descriptions are comparable values; two equal descriptions produce the
// same GPU state.
type BlendStateDescription struct {
	Label     string
	Enabled   bool
	State     gputypes.BlendState
	WriteMask gputypes.ColorWriteMask
}

// ColorTarget converts the description into a color target for format.
func (b BlendStateDescription) ColorTarget(format gputypes.TextureFormat) gputypes.ColorTargetState {
	t := gputypes.ColorTargetState{Format: format, WriteMask: b.WriteMask}
	if b.Enabled {
		state := b.State
		t.Blend = &state
	}
	return t
}

// DepthStencilStateDescription describes depth testing.
type DepthStencilStateDescription struct {
	Label            string
	DepthEnable      bool
	DepthWriteEnable bool
	DepthCompare     gputypes.CompareFunction
}

// GPUState converts the description for a depth attachment of format.
// Returns nil when depth is disabled or format has no depth aspect.
func (d DepthStencilStateDescription) GPUState(format gputypes.TextureFormat) *gputypes.DepthStencilState {
	if !d.DepthEnable || !format.HasDepth() {
		return nil
	}
	s := gputypes.DefaultDepthStencilState(format)
	s.DepthWriteEnabled = d.DepthWriteEnable
	s.DepthCompare = d.DepthCompare
	return &s
}

// FillMode selects solid or wireframe rasterization.
type FillMode uint8

const (
	FillModeSolid FillMode = iota
	FillModeWireFrame
)

// String returns the fill mode name.
func (m FillMode) String() string {
	if m == FillModeWireFrame {
		return "WireFrame"
	}
	return "Solid"
}

// RasterizerStateDescription describes primitive assembly and rasterization.
type RasterizerStateDescription struct {
	Label           string
	Primitive       gputypes.PrimitiveState
	FillMode        FillMode
	DepthClipEnable bool
}

// CullMode returns the face culling mode.
func (r RasterizerStateDescription) CullMode() gputypes.CullMode { return r.Primitive.CullMode }

// WithCullMode returns a copy of r culling mode faces.
func (r RasterizerStateDescription) WithCullMode(mode gputypes.CullMode) RasterizerStateDescription {
	r.Primitive.CullMode = mode
	return r
}

// BlendStatePresets is the set of named blend presets.
type BlendStatePresets struct {
	Default          BlendStateDescription
	Opaque           BlendStateDescription
	AlphaBlend       BlendStateDescription
	NonPremultiplied BlendStateDescription
	Additive         BlendStateDescription
}

// DepthStencilStatePresets is the set of named depth-stencil presets.
type DepthStencilStatePresets struct {
	Default   DepthStencilStateDescription
	DepthRead DepthStencilStateDescription
	None      DepthStencilStateDescription
}

// RasterizerStatePresets is the set of named rasterizer presets.
type RasterizerStatePresets struct {
	CullNone  RasterizerStateDescription
	CullFront RasterizerStateDescription
	CullBack  RasterizerStateDescription
	WireFrame RasterizerStateDescription
}

// BlendStates holds the blend presets. AlphaBlend expects premultiplied colors.
var BlendStates = BlendStatePresets{
	Default: BlendStateDescription{
		Label:     "Default",
		State:     gputypes.BlendStateReplace(),
		WriteMask: gputypes.ColorWriteMaskAll,
	},
	Opaque: BlendStateDescription{
		Label:     "Opaque",
		State:     gputypes.BlendStateReplace(),
		WriteMask: gputypes.ColorWriteMaskAll,
	},
	AlphaBlend: BlendStateDescription{
		Label:     "AlphaBlend",
		Enabled:   true,
		State:     gputypes.BlendStatePremultiplied(),
		WriteMask: gputypes.ColorWriteMaskAll,
	},
	NonPremultiplied: BlendStateDescription{
		Label:     "NonPremultiplied",
		Enabled:   true,
		State:     gputypes.BlendStateAlpha(),
		WriteMask: gputypes.ColorWriteMaskAll,
	},
	Additive: BlendStateDescription{
		Label:   "Additive",
		Enabled: true,
		State: gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		},
		WriteMask: gputypes.ColorWriteMaskAll,
	},
}

// DepthStencilStates holds the depth-stencil presets.
var DepthStencilStates = DepthStencilStatePresets{
	Default: DepthStencilStateDescription{
		Label:            "Default",
		DepthEnable:      true,
		DepthWriteEnable: true,
		DepthCompare:     gputypes.CompareFunctionLessEqual,
	},
	DepthRead: DepthStencilStateDescription{
		Label:        "DepthRead",
		DepthEnable:  true,
		DepthCompare: gputypes.CompareFunctionLessEqual,
	},
	None: DepthStencilStateDescription{
		Label:        "None",
		DepthCompare: gputypes.CompareFunctionAlways,
	},
}

// RasterizerStates holds the rasterizer presets.
var RasterizerStates = RasterizerStatePresets{
	CullNone: RasterizerStateDescription{
		Label:           "CullNone",
		Primitive:       gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList, FrontFace: gputypes.FrontFaceCW, CullMode: gputypes.CullModeNone},
		DepthClipEnable: true,
	},
	CullFront: RasterizerStateDescription{
		Label:           "CullFront",
		Primitive:       gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList, FrontFace: gputypes.FrontFaceCW, CullMode: gputypes.CullModeFront},
		DepthClipEnable: true,
	},
	CullBack: RasterizerStateDescription{
		Label:           "CullBack",
		Primitive:       gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList, FrontFace: gputypes.FrontFaceCW, CullMode: gputypes.CullModeBack},
		DepthClipEnable: true,
	},
	WireFrame: RasterizerStateDescription{
		Label:           "WireFrame",
		Primitive:       gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList, FrontFace: gputypes.FrontFaceCW, CullMode: gputypes.CullModeBack},
		FillMode:        FillModeWireFrame,
		DepthClipEnable: true,
	},
}
