// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender/graphics"
)

// RenderViewStage is the per-view sorted node list of one stage.
// It is rebuilt every Prepare and read-only during Draw.
type RenderViewStage struct {
	Stage       *RenderStage
	SortedNodes []SortedRenderNode
}

// RenderView is a camera the scene is rendered from.
type RenderView struct {
	Name           string
	View           f32.Mat4
	Projection     f32.Mat4
	ViewProjection f32.Mat4
	Eye            f32.Vec3

	// Filter, when set, rejects objects before selection.
	Filter func(Object) bool

	stages []RenderViewStage
}

// NewRenderView creates a view with identity matrices.
func NewRenderView(name string) *RenderView {
	v := &RenderView{Name: name}
	v.SetCamera(graphics.Identity(), graphics.Identity(), f32.Vec3{})
	return v
}

// SetCamera sets the view and projection matrices and the eye position.
func (v *RenderView) SetCamera(view, projection f32.Mat4, eye f32.Vec3) {
	v.View = view
	v.Projection = projection
	v.ViewProjection = graphics.Mul(view, projection)
	v.Eye = eye
}

// Stage returns the view stage for stage, or nil if stage was created after
// the last Prepare.
func (v *RenderView) Stage(stage *RenderStage) *RenderViewStage {
	if stage == nil || stage.Index >= len(v.stages) {
		return nil
	}
	return &v.stages[stage.Index]
}

// Stages returns the view stages in draw order.
func (v *RenderView) Stages() []RenderViewStage { return v.stages }

// reset sizes the view stage table to stages and empties every node list,
// keeping storage.
func (v *RenderView) reset(stages []*RenderStage) {
	for len(v.stages) < len(stages) {
		v.stages = append(v.stages, RenderViewStage{})
	}
	v.stages = v.stages[:len(stages)]
	for i, s := range stages {
		v.stages[i].Stage = s
		clear(v.stages[i].SortedNodes)
		v.stages[i].SortedNodes = v.stages[i].SortedNodes[:0]
	}
}

// distanceTo returns the distance from the eye to p.
func (v *RenderView) distanceTo(p f32.Vec3) float32 {
	dx := p[0] - v.Eye[0]
	dy := p[1] - v.Eye[1]
	dz := p[2] - v.Eye[2]
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}
