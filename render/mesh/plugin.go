// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
)

// DefaultEffectName is the mesh effect used when a plugin names none.
// Extension plugins append their stage name, e.g. "TestEffect.Picking".
const DefaultEffectName = "TestEffect"

func effectName(base, stage string) string {
	if base == "" {
		base = DefaultEffectName
	}
	if stage == "" {
		return base
	}
	return base + "." + stage
}

// MeshPipelinePlugin creates the Main and Transparent stages and the mesh
// feature with its transform, material and lighting sub-features. Running it
// again leaves the existing feature untouched.
type MeshPipelinePlugin struct {
	EffectName string
}

func (p *MeshPipelinePlugin) Name() string { return "mesh" }

func (p *MeshPipelinePlugin) SetupPipeline(ctx *render.RenderContext, sys *render.RenderSystem) error {
	out := ctx.Device.PresenterOutput()
	main := render.GetOrCreateRenderStage(sys, render.StageMain, "Main", out)
	transparent := render.GetOrCreateRenderStage(sys, render.StageTransparent, "Main", out,
		render.WithSortMode(render.SortModeBackToFront))

	var setupErr error
	_, err := render.GetOrCreateFeature(sys, Kind, func() *MeshRenderFeature {
		f := NewMeshRenderFeature()
		for _, sf := range []render.SubRenderFeature{
			NewTransformRenderFeature(),
			NewMaterialRenderFeature(),
			NewForwardLightingRenderFeature(),
		} {
			if err := f.AddSubFeature(sf); err != nil && setupErr == nil {
				setupErr = err
			}
		}
		f.AddSelector(&render.TransparentRenderStageSelector{
			MainRenderStage:        main,
			TransparentRenderStage: transparent,
			EffectName:             effectName(p.EffectName, ""),
		})
		return f
	})
	if err != nil {
		return err
	}
	return setupErr
}

// meshFeature returns the feature created by MeshPipelinePlugin and the
// stage called name.
func meshFeature(sys *render.RenderSystem, name string) (*MeshRenderFeature, *render.RenderStage, error) {
	f, err := render.FeatureOf[*MeshRenderFeature](sys, Kind)
	if err != nil {
		return nil, nil, err
	}
	stage, err := render.GetRenderStage(sys, name)
	if err != nil {
		return nil, nil, err
	}
	return f, stage, nil
}

// PickingMeshPipelinePlugin routes every mesh into the Picking stage.
type PickingMeshPipelinePlugin struct {
	EffectName string
}

func (p *PickingMeshPipelinePlugin) Name() string { return "mesh-picking" }

func (p *PickingMeshPipelinePlugin) SetupPipeline(_ *render.RenderContext, sys *render.RenderSystem) error {
	f, stage, err := meshFeature(sys, render.StagePicking)
	if err != nil {
		return err
	}
	if err := f.AddSubFeature(NewPickingRenderFeature(stage)); err != nil {
		return err
	}
	f.AddSelector(&render.SimpleGroupToRenderStageSelector{
		RenderStage: stage,
		EffectName:  effectName(p.EffectName, render.StagePicking),
	})
	return nil
}

// WireFrameMeshPipelinePlugin draws every mesh again as alpha-blended
// wireframe in the WireFrame stage.
type WireFrameMeshPipelinePlugin struct {
	EffectName string
}

func (p *WireFrameMeshPipelinePlugin) Name() string { return "mesh-wireframe" }

func (p *WireFrameMeshPipelinePlugin) SetupPipeline(_ *render.RenderContext, sys *render.RenderSystem) error {
	f, stage, err := meshFeature(sys, render.StageWireFrame)
	if err != nil {
		return err
	}
	if err := f.AddSubFeature(NewWireFrameRenderFeature(stage)); err != nil {
		return err
	}
	f.Hooks().Add(render.PipelineStateHook{
		Name:      "wireframe",
		Predicate: render.InStage(stage),
		Mutate: func(_ *render.RenderNode, s *graphics.PipelineStateDescription) {
			s.BlendState = graphics.BlendStates.AlphaBlend
			s.RasterizerState = graphics.RasterizerStates.WireFrame
		},
	})
	f.AddSelector(&render.SimpleGroupToRenderStageSelector{
		RenderStage: stage,
		EffectName:  effectName(p.EffectName, render.StageWireFrame),
	})
	return nil
}

// HighlightMeshPipelinePlugin overlays selected meshes in the Highlight stage.
type HighlightMeshPipelinePlugin struct {
	EffectName string
}

func (p *HighlightMeshPipelinePlugin) Name() string { return "mesh-highlight" }

func (p *HighlightMeshPipelinePlugin) SetupPipeline(_ *render.RenderContext, sys *render.RenderSystem) error {
	f, stage, err := meshFeature(sys, render.StageHighlight)
	if err != nil {
		return err
	}
	if err := f.AddSubFeature(NewHighlightRenderFeature(stage)); err != nil {
		return err
	}
	f.Hooks().Add(render.PipelineStateHook{
		Name:      "highlight",
		Predicate: render.InStage(stage),
		Mutate: func(_ *render.RenderNode, s *graphics.PipelineStateDescription) {
			s.BlendState = graphics.BlendStates.AlphaBlend
			s.DepthStencilState = graphics.DepthStencilStates.DepthRead
		},
	})
	f.AddSelector(&render.SimpleGroupToRenderStageSelector{
		RenderStage: stage,
		EffectName:  effectName(p.EffectName, render.StageHighlight),
	})
	return nil
}

// ShadowMeshPipelinePlugin renders shadow casters into the ShadowMapCaster
// stage without culling or depth clipping.
type ShadowMeshPipelinePlugin struct {
	EffectName string
}

func (p *ShadowMeshPipelinePlugin) Name() string { return "mesh-shadow" }

func (p *ShadowMeshPipelinePlugin) SetupPipeline(_ *render.RenderContext, sys *render.RenderSystem) error {
	f, stage, err := meshFeature(sys, render.StageShadowMapCaster)
	if err != nil {
		return err
	}
	if sf, ok := f.SubFeature(RoleLighting); ok {
		sf.(*ForwardLightingRenderFeature).ShadowMapRenderStage = stage
	}

	caster := graphics.RasterizerStates.CullNone
	caster.Label = "ShadowCaster"
	caster.DepthClipEnable = false
	f.Hooks().Add(render.PipelineStateHook{
		Name:      "shadow-caster",
		Predicate: render.InStage(stage),
		Mutate: func(_ *render.RenderNode, s *graphics.PipelineStateDescription) {
			s.RasterizerState = caster
		},
	})
	f.AddSelector(&render.ShadowMapRenderStageSelector{
		ShadowMapRenderStage: stage,
		EffectName:           effectName(p.EffectName, render.StageShadowMapCaster),
	})
	return nil
}
