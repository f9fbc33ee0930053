// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
)

// StudioKind is the feature kind of sprite rigs.
var StudioKind = render.NewFeatureKind("sprite-studio")

// StudioNode is one part of a sprite rig.
type StudioNode struct {
	Name   string
	Sprite *Sprite
	Hide   bool

	// ModelTransform places the node relative to the rig's entity.
	ModelTransform f32.Mat4

	AlphaBlending BlendMode

	// BlendColor is mixed into white by BlendFactor using BlendType.
	BlendType   BlendMode
	BlendColor  gputypes.Color
	BlendFactor float32

	FinalTransparency float32
}

// NewStudioNode returns a visible, opaque node drawing s at the rig origin.
func NewStudioNode(name string, s *Sprite) *StudioNode {
	return &StudioNode{
		Name:              name,
		Sprite:            s,
		ModelTransform:    graphics.Identity(),
		FinalTransparency: 1,
	}
}

// StudioObject is a sprite rig. Nodes are drawn in slice order.
type StudioObject struct {
	render.RenderObject

	Nodes       []*StudioNode
	Selected    bool
	Transparent bool
}

// NewStudioObject returns an enabled, transparent rig attached to entity.
func NewStudioObject(entity render.Entity, nodes ...*StudioNode) *StudioObject {
	return &StudioObject{
		RenderObject: render.RenderObject{Entity: entity, Enabled: true},
		Nodes:        nodes,
		Transparent:  true,
	}
}

// Kind implements render.Object.
func (o *StudioObject) Kind() render.FeatureKind { return StudioKind }

func (o *StudioObject) IsTransparent() bool { return o.Transparent }
func (o *StudioObject) IsSelected() bool    { return o.Selected }

// StudioRenderFeature draws StudioObjects.
type StudioRenderFeature struct {
	render.RootFeatureBase

	batches []*graphics.SpriteBatch
}

var _ render.RootRenderFeature = (*StudioRenderFeature)(nil)

// NewStudioRenderFeature returns an uninitialized rig feature.
func NewStudioRenderFeature() *StudioRenderFeature {
	f := &StudioRenderFeature{}
	f.InitBase(StudioKind, f)
	return f
}

// Initialize allocates one sprite batch per draw worker.
func (f *StudioRenderFeature) Initialize(ctx *render.RenderContext) error {
	f.batches = newBatches(ctx)
	return nil
}

// Destroy releases the sprite batches.
func (f *StudioRenderFeature) Destroy() {
	f.batches = nil
}

// Draw draws every visible node of the rigs [start, end) of stage. A node
// with an unknown blend mode fails the draw; batches begun so far are still
// submitted.
func (f *StudioRenderFeature) Draw(ctx *render.RenderDrawContext, view *render.RenderView, stage *render.RenderViewStage, start, end int) error {
	bs := newBatchState(f.batches, ctx, view)
	defer bs.flush()

	picking := isPicking(stage)
	depth := graphics.DepthStencilStates.DepthRead

	for i := start; i < end; i++ {
		node := f.Node(stage.SortedNodes[i].Node)
		obj := node.Object().(*StudioObject)
		entityWorld := obj.World()

		for _, n := range obj.Nodes {
			if n.Hide || !n.Sprite.Drawable() {
				ctx.SkipDrawUnit()
				continue
			}

			nodeBlend, err := BlendState(n.AlphaBlending)
			if err != nil {
				return fmt.Errorf("sprite: rig node %s: %w", n.Name, err)
			}
			blend := nodeBlend
			if picking {
				blend = graphics.BlendStates.Default
			}

			color := render.PickingColor(obj.RuntimeID())
			if !picking {
				if n.BlendFactor > 0 && !n.BlendType.Valid() {
					return fmt.Errorf("sprite: rig node %s blend type: %w: %s", n.Name, ErrUnknownBlendMode, n.BlendType)
				}
				color = BlendColor(n.BlendColor, n.BlendFactor, n.FinalTransparency)
			}

			bs.use(stageEffect(ctx, picking, obj.Selected), blend, depth)

			s := n.Sprite
			size := s.Size()
			world := Recenter(graphics.Mul(n.ModelTransform, entityWorld), s.Center, s.Region, size, s.Orientation)
			bs.batch.Draw(s.Texture, world, s.Region, size, color, s.Orientation, graphics.SwizzleNone,
				ProjectedDepth(entityWorld, view.ViewProjection))
		}
	}
	return nil
}
