// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
)

// NodeData is the per-node draw data sub-features fill in during Prepare.
type NodeData struct {
	World f32.Mat4
	Color gputypes.Color

	// Hidden nodes are counted as skipped draw units instead of drawn.
	Hidden bool
}

// MeshRenderFeature draws MeshObjects.
type MeshRenderFeature struct {
	render.RootFeatureBase

	data []NodeData
}

var _ render.RootRenderFeature = (*MeshRenderFeature)(nil)

// NewMeshRenderFeature returns a mesh feature with no sub-features.
func NewMeshRenderFeature() *MeshRenderFeature {
	f := &MeshRenderFeature{}
	f.InitBase(Kind, f)
	return f
}

// NodeData returns the draw data of the node ref for the current frame.
func (f *MeshRenderFeature) NodeData(ref render.RenderNodeReference) *NodeData {
	return &f.data[ref]
}

// Prepare resets the per-node data, then runs the sub-features and hooks.
func (f *MeshRenderFeature) Prepare(ctx *render.RenderContext) {
	n := len(f.Nodes())
	if cap(f.data) < n {
		f.data = make([]NodeData, n)
	}
	f.data = f.data[:n]
	for i := range f.data {
		node := f.Node(render.RenderNodeReference(i))
		obj := node.Object().(*MeshObject)
		f.data[i] = NodeData{World: node.Object().RenderObjectBase().World(), Color: obj.Color}
	}
	f.RootFeatureBase.Prepare(ctx)
}

// Draw records the nodes [start, end) of stage.
func (f *MeshRenderFeature) Draw(ctx *render.RenderDrawContext, _ *render.RenderView, stage *render.RenderViewStage, start, end int) error {
	var prev *graphics.PipelineStateDescription
	for i := start; i < end; i++ {
		ref := stage.SortedNodes[i].Node
		d := &f.data[ref]
		if d.Hidden {
			ctx.SkipDrawUnit()
			continue
		}

		node := f.Node(ref)
		if prev == nil || !prev.Equal(&node.PipelineState) {
			ctx.CommandList.SetPipelineState(&node.PipelineState)
			prev = &node.PipelineState
		}
		ctx.CommandList.DrawMesh(node.Object().(*MeshObject).Name, d.World, d.Color)
	}
	return nil
}
