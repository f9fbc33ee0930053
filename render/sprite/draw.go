// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/effect"
	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
)

// Effect names used by the sprite features.
const (
	SelectedSpriteEffect = "SelectedSprite"
	PickingSpriteEffect  = "SpritePicking"
)

// NormalizedCenter returns the sprite center relative to the middle of the
// region, with y pointing up, in region units. For a Rotated90 image the
// vector is rotated with it: (x, y) becomes (-y, x).
func NormalizedCenter(center f32.Vec2, region graphics.Rect, o graphics.ImageOrientation) f32.Vec2 {
	n := f32.Vec2{center[0]/region.Width - 0.5, 0.5 - center[1]/region.Height}
	if o == graphics.ImageOrientationRotated90 {
		n = f32.Vec2{-n[1], n[0]}
	}
	return n
}

// Recenter moves world so that a quad of the given size is drawn around the
// sprite center rather than the middle of its region.
func Recenter(world f32.Mat4, center f32.Vec2, region graphics.Rect, size f32.Vec2, o graphics.ImageOrientation) f32.Mat4 {
	n := NormalizedCenter(center, region, o)
	ox, oy := n[0]*size[0], n[1]*size[1]
	world[12] -= ox*world[0] + oy*world[4]
	world[13] -= ox*world[1] + oy*world[5]
	return world
}

// ProjectedDepth returns z/w of the translation of world projected by
// viewProjection.
func ProjectedDepth(world, viewProjection f32.Mat4) float32 {
	p := graphics.TransformPoint(viewProjection, graphics.TranslationOf(world))
	if p[3] == 0 {
		return p[2]
	}
	return p[2] / p[3]
}

// BlendColor lerps white towards c by factor, then scales every channel by
// transparency. A zero factor leaves plain white.
func BlendColor(c gputypes.Color, factor, transparency float32) gputypes.Color {
	out := gputypes.ColorWhite
	if factor > 0 {
		f := float64(factor)
		out.R += (c.R - out.R) * f
		out.G += (c.G - out.G) * f
		out.B += (c.B - out.B) * f
		out.A += (c.A - out.A) * f
	}
	t := float64(transparency)
	out.R *= t
	out.G *= t
	out.B *= t
	out.A *= t
	return out
}

// batchState tracks the state of one draw call's sprite batch. It lives only
// for the duration of a Draw, so concurrent ranges never share it.
type batchState struct {
	batch *graphics.SpriteBatch
	out   *graphics.CommandList
	view  *render.RenderView

	effect *effect.Effect
	blend  graphics.BlendStateDescription
	depth  graphics.DepthStencilStateDescription
}

func newBatchState(batches []*graphics.SpriteBatch, ctx *render.RenderDrawContext, view *render.RenderView) batchState {
	if ctx.Worker < 0 || ctx.Worker >= len(batches) {
		xrender.Bug("sprite.Draw", "worker %d has no sprite batch (have %d)", ctx.Worker, len(batches))
	}
	return batchState{batch: batches[ctx.Worker], out: ctx.CommandList, view: view}
}

// use begins a new batch unless the open one already has these states.
func (s *batchState) use(eff *effect.Effect, blend graphics.BlendStateDescription, depth graphics.DepthStencilStateDescription) {
	if s.batch.IsBegun() && eff == s.effect && blend == s.blend && depth == s.depth {
		return
	}
	if s.batch.IsBegun() {
		s.batch.End()
	}
	s.batch.Begin(s.out, graphics.BatchParams{
		ViewProjection: s.view.ViewProjection,
		SortMode:       graphics.SpriteSortDeferred,
		Blend:          blend,
		DepthStencil:   depth,
		Rasterizer:     graphics.RasterizerStates.CullNone,
		Effect:         eff,
	})
	s.effect, s.blend, s.depth = eff, blend, depth
}

func (s *batchState) flush() {
	if s.batch.IsBegun() {
		s.batch.End()
	}
}

func isPicking(stage *render.RenderViewStage) bool {
	return stage.Stage.Name == render.StagePicking
}

// stageEffect returns the effect overriding a sprite's default drawing.
func stageEffect(ctx *render.RenderDrawContext, picking, selected bool) *effect.Effect {
	switch {
	case picking:
		return ctx.ResolveEffect(PickingSpriteEffect)
	case selected:
		return ctx.ResolveEffect(SelectedSpriteEffect)
	default:
		return nil
	}
}

func newBatches(ctx *render.RenderContext) []*graphics.SpriteBatch {
	batches := make([]*graphics.SpriteBatch, ctx.System.Workers())
	for i := range batches {
		batches[i] = ctx.Device.NewSpriteBatch()
	}
	return batches
}
