// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrender/effect"
)

// PipelineStateDescription is the resolved GPU state of one render node:
// effect, blend, depth-stencil, rasterizer, output formats and topology.
//
// It is built during Prepare and must not change during Draw.
type PipelineStateDescription struct {
	Effect            *effect.Effect
	BlendState        BlendStateDescription
	DepthStencilState DepthStencilStateDescription
	RasterizerState   RasterizerStateDescription
	Output            RenderOutputDescription
	Topology          gputypes.PrimitiveTopology
}

// DefaultPipelineState returns the state used before any hook runs:
// opaque blending, depth test and write, back-face culling.
func DefaultPipelineState(output RenderOutputDescription) PipelineStateDescription {
	return PipelineStateDescription{
		BlendState:        BlendStates.Default,
		DepthStencilState: DepthStencilStates.Default,
		RasterizerState:   RasterizerStates.CullBack,
		Output:            output,
		Topology:          gputypes.PrimitiveTopologyTriangleList,
	}
}

// Equal reports whether p and o describe the same GPU state.
func (p *PipelineStateDescription) Equal(o *PipelineStateDescription) bool {
	return p.Effect.EffectName() == o.Effect.EffectName() &&
		p.BlendState == o.BlendState &&
		p.DepthStencilState == o.DepthStencilState &&
		p.RasterizerState == o.RasterizerState &&
		p.Output == o.Output &&
		p.Topology == o.Topology
}

// Key returns a 64-bit hash of the state. Equal states have equal keys;
// the key is used for state-change sorting and pipeline caching.
func (p *PipelineStateDescription) Key() uint64 {
	h := fnv.New64a()
	var buf [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	putBool := func(b bool) {
		if b {
			put(1)
		} else {
			put(0)
		}
	}
	putBlend := func(c gputypes.BlendComponent) {
		put(uint32(c.SrcFactor))
		put(uint32(c.DstFactor))
		put(uint32(c.Operation))
	}

	_, _ = h.Write([]byte(p.Effect.EffectName()))
	put(0xffffffff)

	b := p.BlendState
	putBool(b.Enabled)
	putBlend(b.State.Color)
	putBlend(b.State.Alpha)
	put(uint32(b.WriteMask))

	d := p.DepthStencilState
	putBool(d.DepthEnable)
	putBool(d.DepthWriteEnable)
	put(uint32(d.DepthCompare))

	r := p.RasterizerState
	put(uint32(r.Primitive.Topology))
	put(uint32(r.Primitive.FrontFace))
	put(uint32(r.Primitive.CullMode))
	putBool(r.Primitive.UnclippedDepth)
	put(uint32(r.FillMode))
	putBool(r.DepthClipEnable)

	put(uint32(p.Output.Color))
	put(uint32(p.Output.DepthStencil))
	put(uint32(p.Topology))
	return h.Sum64()
}

// StateKey32 folds Key into 32 bits for packing into sort keys.
func (p *PipelineStateDescription) StateKey32() uint32 {
	k := p.Key()
	return uint32(k>>32) ^ uint32(k&math.MaxUint32)
}
