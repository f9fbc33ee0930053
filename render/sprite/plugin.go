// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"errors"

	"github.com/gogpu/xrender/render"
)

// DefaultEffectName is the sprite effect used when a plugin names none.
const DefaultEffectName = "SpriteEffect"

func mainStages(ctx *render.RenderContext, sys *render.RenderSystem) (main, transparent *render.RenderStage) {
	out := ctx.Device.PresenterOutput()
	main = render.GetOrCreateRenderStage(sys, render.StageMain, "Main", out)
	transparent = render.GetOrCreateRenderStage(sys, render.StageTransparent, "Main", out,
		render.WithSortMode(render.SortModeBackToFront))
	return main, transparent
}

func effectOrDefault(name string) string {
	if name == "" {
		return DefaultEffectName
	}
	return name
}

// SpriteStudioPipelinePlugin creates the Main and Transparent stages and the
// sprite rig feature. Running it again leaves the existing feature untouched.
type SpriteStudioPipelinePlugin struct {
	EffectName string
}

func (p *SpriteStudioPipelinePlugin) Name() string { return "sprite-studio" }

func (p *SpriteStudioPipelinePlugin) SetupPipeline(ctx *render.RenderContext, sys *render.RenderSystem) error {
	main, transparent := mainStages(ctx, sys)
	_, err := render.GetOrCreateFeature(sys, StudioKind, func() *StudioRenderFeature {
		f := NewStudioRenderFeature()
		f.AddSelector(&render.TransparentRenderStageSelector{
			MainRenderStage:        main,
			TransparentRenderStage: transparent,
			EffectName:             effectOrDefault(p.EffectName),
		})
		return f
	})
	return err
}

// SpritePipelinePlugin creates the Main and Transparent stages and the
// single-sprite feature.
type SpritePipelinePlugin struct {
	EffectName string
}

func (p *SpritePipelinePlugin) Name() string { return "sprite" }

func (p *SpritePipelinePlugin) SetupPipeline(ctx *render.RenderContext, sys *render.RenderSystem) error {
	main, transparent := mainStages(ctx, sys)
	_, err := render.GetOrCreateFeature(sys, Kind, func() *SpriteRenderFeature {
		f := NewSpriteRenderFeature()
		f.AddSelector(&render.TransparentRenderStageSelector{
			MainRenderStage:        main,
			TransparentRenderStage: transparent,
			EffectName:             effectOrDefault(p.EffectName),
		})
		return f
	})
	return err
}

// SpritePickingPlugin routes the objects of every registered sprite feature
// into the Picking stage. It must run after the sprite plugins and after the
// Picking stage exists.
type SpritePickingPlugin struct{}

func (p *SpritePickingPlugin) Name() string { return "sprite-picking" }

func (p *SpritePickingPlugin) SetupPipeline(_ *render.RenderContext, sys *render.RenderSystem) error {
	stage, err := render.GetRenderStage(sys, render.StagePicking)
	if err != nil {
		return err
	}

	found := false
	for _, kind := range []render.FeatureKind{StudioKind, Kind} {
		f, err := render.FeatureOf[render.RootRenderFeature](sys, kind)
		if errors.Is(err, render.ErrFeatureNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		f.Base().AddSelector(&render.SimpleGroupToRenderStageSelector{
			RenderStage: stage,
			EffectName:  PickingSpriteEffect,
		})
		found = true
	}
	if !found {
		return &render.FeatureNotFoundError{Kind: Kind}
	}
	return nil
}
