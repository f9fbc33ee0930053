// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
)

// Sub-feature roles. A mesh feature holds at most one sub-feature per role.
const (
	RoleTransform render.SubFeatureRole = "transform"
	RoleMaterial  render.SubFeatureRole = "material"
	RoleLighting  render.SubFeatureRole = "lighting"
	RolePicking   render.SubFeatureRole = "picking"
	RoleWireFrame render.SubFeatureRole = "wireframe"
	RoleHighlight render.SubFeatureRole = "highlight"
)

// subFeature carries the attachment shared by every mesh sub-feature.
type subFeature struct {
	role    render.SubFeatureRole
	feature *MeshRenderFeature
}

func (s *subFeature) Role() render.SubFeatureRole { return s.role }

func (s *subFeature) Attach(root render.RootRenderFeature) error {
	f, ok := root.(*MeshRenderFeature)
	if !ok {
		return fmt.Errorf("mesh: %s sub-feature needs a mesh feature, got %T", s.role, root)
	}
	s.feature = f
	return nil
}

func (s *subFeature) Prepare(*render.RenderContext) {}

func (s *subFeature) object(node *render.RenderNode) *MeshObject {
	return node.Object().(*MeshObject)
}

// TransformRenderFeature composes each mesh's local matrix with its entity's
// world matrix.
type TransformRenderFeature struct{ subFeature }

func NewTransformRenderFeature() *TransformRenderFeature {
	return &TransformRenderFeature{subFeature{role: RoleTransform}}
}

func (s *TransformRenderFeature) ProcessPipelineState(_ *render.RenderContext, ref render.RenderNodeReference, node *render.RenderNode, _ *graphics.PipelineStateDescription) {
	d := s.feature.NodeData(ref)
	d.World = graphics.Mul(s.object(node).Local, d.World)
}

// MaterialRenderFeature applies the mesh colour. Transparent meshes blend
// with premultiplied alpha and keep the depth buffer read-only.
type MaterialRenderFeature struct{ subFeature }

func NewMaterialRenderFeature() *MaterialRenderFeature {
	return &MaterialRenderFeature{subFeature{role: RoleMaterial}}
}

func (s *MaterialRenderFeature) ProcessPipelineState(_ *render.RenderContext, ref render.RenderNodeReference, node *render.RenderNode, state *graphics.PipelineStateDescription) {
	obj := s.object(node)
	d := s.feature.NodeData(ref)
	d.Color = obj.Color
	if obj.Transparent {
		state.BlendState = graphics.BlendStates.AlphaBlend
		state.DepthStencilState = graphics.DepthStencilStates.DepthRead
	}
}

// ForwardLightingRenderFeature modulates mesh colour by a single ambient
// light. Nodes in ShadowMapRenderStage only write depth.
type ForwardLightingRenderFeature struct {
	subFeature

	Ambient gputypes.Color

	// ShadowMapRenderStage is set by ShadowMeshPipelinePlugin.
	ShadowMapRenderStage *render.RenderStage

	casters int
}

func NewForwardLightingRenderFeature() *ForwardLightingRenderFeature {
	return &ForwardLightingRenderFeature{
		subFeature: subFeature{role: RoleLighting},
		Ambient:    gputypes.ColorWhite,
	}
}

// ShadowCasters returns the number of shadow-stage nodes in the last frame.
func (s *ForwardLightingRenderFeature) ShadowCasters() int { return s.casters }

func (s *ForwardLightingRenderFeature) Prepare(*render.RenderContext) { s.casters = 0 }

func (s *ForwardLightingRenderFeature) ProcessPipelineState(_ *render.RenderContext, ref render.RenderNodeReference, node *render.RenderNode, state *graphics.PipelineStateDescription) {
	d := s.feature.NodeData(ref)
	if s.ShadowMapRenderStage != nil && node.Stage() == s.ShadowMapRenderStage {
		s.casters++
		d.Color = gputypes.ColorBlack
		state.BlendState.WriteMask = gputypes.ColorWriteMaskNone
		return
	}
	d.Color.R *= s.Ambient.R
	d.Color.G *= s.Ambient.G
	d.Color.B *= s.Ambient.B
}

// PickingRenderFeature encodes the object's runtime id as the draw colour in
// the picking stage.
type PickingRenderFeature struct {
	subFeature
	stage *render.RenderStage
}

func NewPickingRenderFeature(stage *render.RenderStage) *PickingRenderFeature {
	return &PickingRenderFeature{subFeature: subFeature{role: RolePicking}, stage: stage}
}

func (s *PickingRenderFeature) ProcessPipelineState(_ *render.RenderContext, ref render.RenderNodeReference, node *render.RenderNode, state *graphics.PipelineStateDescription) {
	if node.Stage() != s.stage {
		return
	}
	s.feature.NodeData(ref).Color = render.PickingColor(node.Object().RenderObjectBase().RuntimeID())
	state.BlendState = graphics.BlendStates.Opaque
}

// WireFrameRenderFeature draws wireframe-stage nodes in a flat colour.
type WireFrameRenderFeature struct {
	subFeature
	stage *render.RenderStage

	Color gputypes.Color
}

func NewWireFrameRenderFeature(stage *render.RenderStage) *WireFrameRenderFeature {
	return &WireFrameRenderFeature{
		subFeature: subFeature{role: RoleWireFrame},
		stage:      stage,
		Color:      gputypes.Color{R: 1, G: 1, B: 1, A: 0.5},
	}
}

func (s *WireFrameRenderFeature) ProcessPipelineState(_ *render.RenderContext, ref render.RenderNodeReference, node *render.RenderNode, _ *graphics.PipelineStateDescription) {
	if node.Stage() == s.stage {
		s.feature.NodeData(ref).Color = s.Color
	}
}

// HighlightRenderFeature draws selected meshes in the highlight stage and
// hides the rest.
type HighlightRenderFeature struct {
	subFeature
	stage *render.RenderStage

	Color gputypes.Color
}

func NewHighlightRenderFeature(stage *render.RenderStage) *HighlightRenderFeature {
	return &HighlightRenderFeature{
		subFeature: subFeature{role: RoleHighlight},
		stage:      stage,
		Color:      gputypes.Color{R: 1, G: 0.6, B: 0, A: 0.5},
	}
}

func (s *HighlightRenderFeature) ProcessPipelineState(_ *render.RenderContext, ref render.RenderNodeReference, node *render.RenderNode, _ *graphics.PipelineStateDescription) {
	if node.Stage() != s.stage {
		return
	}
	d := s.feature.NodeData(ref)
	if !s.object(node).Selected {
		d.Hidden = true
		return
	}
	d.Color = s.Color
}
