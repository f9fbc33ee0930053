// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// StageAssignment places an object in a stage with an effect.
// Priority occupies the top bits of the node sort key.
type StageAssignment struct {
	Stage      *RenderStage
	EffectName string
	Priority   uint16
}

// RenderStageSelector maps an object to zero or more stages.
//
// Select appends its assignments to out and returns the extended slice.
// Implementations must be pure: the result depends only on the object and
// view, and Select has no side effects. On error the assignments appended
// by this call are discarded and the object is dropped from this selector's
// stages for the frame.
type RenderStageSelector interface {
	Select(obj Object, view *RenderView, out []StageAssignment) ([]StageAssignment, error)
}

// SelectorFunc adapts a function to RenderStageSelector.
type SelectorFunc func(obj Object, view *RenderView, out []StageAssignment) ([]StageAssignment, error)

// Select implements RenderStageSelector.
func (f SelectorFunc) Select(obj Object, view *RenderView, out []StageAssignment) ([]StageAssignment, error) {
	return f(obj, view, out)
}

// SimpleGroupToRenderStageSelector assigns every object to one stage.
type SimpleGroupToRenderStageSelector struct {
	RenderStage *RenderStage
	EffectName  string
}

// Select implements RenderStageSelector.
func (s *SimpleGroupToRenderStageSelector) Select(_ Object, _ *RenderView, out []StageAssignment) ([]StageAssignment, error) {
	if s.RenderStage == nil {
		return out, ErrUnboundStage
	}
	return append(out, StageAssignment{Stage: s.RenderStage, EffectName: s.EffectName}), nil
}

// TransparentRenderStageSelector routes objects to an opaque or a
// transparent stage by their Transparency. Objects without the capability
// are opaque. When EffectFilter is set, only objects whose EffectTag equals
// it are routed.
type TransparentRenderStageSelector struct {
	MainRenderStage        *RenderStage
	TransparentRenderStage *RenderStage
	EffectName             string
	EffectFilter           string
}

// Select implements RenderStageSelector.
func (s *TransparentRenderStageSelector) Select(obj Object, _ *RenderView, out []StageAssignment) ([]StageAssignment, error) {
	if s.EffectFilter != "" {
		tagged, ok := obj.(EffectTagged)
		if !ok || tagged.EffectTag() != s.EffectFilter {
			return out, nil
		}
	}

	stage := s.MainRenderStage
	if t, ok := obj.(Transparency); ok && t.IsTransparent() {
		stage = s.TransparentRenderStage
	}
	if stage == nil {
		return out, ErrUnboundStage
	}
	return append(out, StageAssignment{Stage: stage, EffectName: s.EffectName}), nil
}

// ShadowMapRenderStageSelector routes shadow casters to a shadow map stage.
type ShadowMapRenderStageSelector struct {
	ShadowMapRenderStage *RenderStage
	EffectName           string
}

// Select implements RenderStageSelector.
func (s *ShadowMapRenderStageSelector) Select(obj Object, _ *RenderView, out []StageAssignment) ([]StageAssignment, error) {
	caster, ok := obj.(ShadowCaster)
	if !ok || !caster.IsShadowCaster() {
		return out, nil
	}
	if s.ShadowMapRenderStage == nil {
		return out, ErrUnboundStage
	}
	return append(out, StageAssignment{Stage: s.ShadowMapRenderStage, EffectName: s.EffectName}), nil
}
