// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/xrender/graphics"

// RenderNodeReference indexes a node in its feature's node table for the
// current frame. It carries no identity across frames.
type RenderNodeReference int

// RenderNode pairs one object with one stage for the current frame.
// Its object, view and stage are fixed at creation.
type RenderNode struct {
	object Object
	view   *RenderView
	stage  *RenderStage

	EffectName    string
	Priority      uint16
	Distance      float32
	SortKey       uint64
	PipelineState graphics.PipelineStateDescription
}

// Object returns the node's render object.
func (n *RenderNode) Object() Object { return n.object }

// View returns the view the node was extracted for.
func (n *RenderNode) View() *RenderView { return n.view }

// Stage returns the node's stage.
func (n *RenderNode) Stage() *RenderStage { return n.stage }

// SortedRenderNode is one entry of a stage's sorted draw list.
type SortedRenderNode struct {
	SortKey uint64
	Feature RootRenderFeature
	Node    RenderNodeReference
}
