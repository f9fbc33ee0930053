// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
)

// Kind is the feature kind of single sprites.
var Kind = render.NewFeatureKind("sprite")

// SpriteObject draws the sprite of its Provider at its entity.
type SpriteObject struct {
	render.RenderObject

	Provider Provider
	Color    gputypes.Color
	Swizzle  graphics.SwizzleMode

	// IgnoreDepth draws the sprite without depth testing.
	IgnoreDepth bool
	Selected    bool

	// frame is the provider's sprite as of the last Extract. Draw reads
	// only this copy, so providers shared between objects are never
	// touched by draw workers.
	frame    Sprite
	drawable bool
}

// NewSpriteObject returns an enabled white sprite attached to entity.
func NewSpriteObject(entity render.Entity, p Provider) *SpriteObject {
	return &SpriteObject{
		RenderObject: render.RenderObject{Entity: entity, Enabled: true},
		Provider:     p,
		Color:        gputypes.ColorWhite,
	}
}

// Kind implements render.Object.
func (o *SpriteObject) Kind() render.FeatureKind { return Kind }

func (o *SpriteObject) IsSelected() bool { return o.Selected }

// IsTransparent reports whether the sprite resolved at the last Extract
// has transparent pixels or the object colour is translucent.
func (o *SpriteObject) IsTransparent() bool {
	return o.Color.A < 1 || o.frame.IsTransparent
}

// resolve snapshots the provider's current sprite.
func (o *SpriteObject) resolve() {
	o.frame, o.drawable = Sprite{}, false
	if o.Provider == nil || o.Provider.SpritesCount() == 0 {
		return
	}
	if s := o.Provider.GetSprite(); s != nil {
		o.frame = *s
		o.drawable = s.Drawable()
	}
}

// SpriteRenderFeature draws SpriteObjects.
type SpriteRenderFeature struct {
	render.RootFeatureBase

	batches []*graphics.SpriteBatch
}

var _ render.RootRenderFeature = (*SpriteRenderFeature)(nil)

// NewSpriteRenderFeature returns an uninitialized sprite feature.
func NewSpriteRenderFeature() *SpriteRenderFeature {
	f := &SpriteRenderFeature{}
	f.InitBase(Kind, f)
	return f
}

// Initialize allocates one sprite batch per draw worker.
func (f *SpriteRenderFeature) Initialize(ctx *render.RenderContext) error {
	f.batches = newBatches(ctx)
	return nil
}

// Destroy releases the sprite batches.
func (f *SpriteRenderFeature) Destroy() {
	f.batches = nil
}

// Extract resolves every object's sprite on the calling goroutine, then
// runs the selectors.
func (f *SpriteRenderFeature) Extract(ctx *render.RenderContext, view *render.RenderView) {
	for _, obj := range f.Objects() {
		if obj.RenderObjectBase().Enabled {
			obj.(*SpriteObject).resolve()
		}
	}
	f.RootFeatureBase.Extract(ctx, view)
}

func spriteStates(obj *SpriteObject, s *Sprite) (graphics.BlendStateDescription, graphics.DepthStencilStateDescription) {
	blend := graphics.BlendStates.Opaque
	depth := graphics.DepthStencilStates.Default
	if s.IsTransparent || obj.Color.A < 1 {
		blend = graphics.BlendStates.AlphaBlend
		depth = graphics.DepthStencilStates.DepthRead
	}
	if obj.IgnoreDepth {
		depth = graphics.DepthStencilStates.None
	}
	return blend, depth
}

// Draw draws the sprites [start, end) of stage.
func (f *SpriteRenderFeature) Draw(ctx *render.RenderDrawContext, view *render.RenderView, stage *render.RenderViewStage, start, end int) error {
	bs := newBatchState(f.batches, ctx, view)
	defer bs.flush()

	picking := isPicking(stage)

	for i := start; i < end; i++ {
		obj := f.Node(stage.SortedNodes[i].Node).Object().(*SpriteObject)
		if !obj.drawable {
			ctx.SkipDrawUnit()
			continue
		}
		s := &obj.frame

		blend, depth := spriteStates(obj, s)
		color := obj.Color
		if picking {
			blend = graphics.BlendStates.Default
			color = render.PickingColor(obj.RuntimeID())
		}
		bs.use(stageEffect(ctx, picking, obj.Selected), blend, depth)

		world := obj.World()
		size := s.Size()
		bs.batch.Draw(s.Texture, Recenter(world, s.Center, s.Region, size, s.Orientation),
			s.Region, size, color, s.Orientation, obj.Swizzle, ProjectedDepth(world, view.ViewProjection))
	}
	return nil
}
