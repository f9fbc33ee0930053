// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"cmp"
	"slices"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/effect"
)

// BatchParams is the state a sprite batch is begun with. Every sprite drawn
// between Begin and End shares it.
type BatchParams struct {
	ViewProjection f32.Mat4
	SortMode       SpriteSortMode
	Blend          BlendStateDescription
	// Sampler is the texture sampler; nil selects linear clamp sampling.
	Sampler      *gputypes.SamplerDescriptor
	DepthStencil DepthStencilStateDescription
	Rasterizer   RasterizerStateDescription
	Effect       *effect.Effect
}

// SpriteInstance is one textured quad.
type SpriteInstance struct {
	Texture     Texture
	World       f32.Mat4
	Region      Rect
	Size        f32.Vec2
	Color       gputypes.Color
	Orientation ImageOrientation
	Swizzle     SwizzleMode
	Depth       float32
}

// SpriteBatch accumulates sprites sharing one BatchParams and submits them
// to a CommandList on End.
//
// Begin/End pairs are not reentrant and a SpriteBatch is not safe for
// concurrent use: use one batch per worker.
type SpriteBatch struct {
	device  *Device
	params  BatchParams
	out     *CommandList
	begun   bool
	sprites []SpriteInstance
	submits int
}

func newSpriteBatch(d *Device) *SpriteBatch {
	return &SpriteBatch{device: d, sprites: make([]SpriteInstance, 0, 64)}
}

// Begin starts a batch recording into out.
// Calling Begin on a begun batch panics with *xrender.InternalError.
func (b *SpriteBatch) Begin(out *CommandList, p BatchParams) {
	if b.begun {
		xrender.Bug("SpriteBatch.Begin", "batch already begun")
	}
	if out == nil {
		xrender.Bug("SpriteBatch.Begin", "nil command list")
	}
	if p.Sampler == nil {
		s := gputypes.LinearSamplerDescriptor()
		p.Sampler = &s
	}
	b.params = p
	b.out = out
	b.begun = true
}

// Draw adds a sprite to the batch.
// Calling Draw outside Begin/End panics with *xrender.InternalError.
func (b *SpriteBatch) Draw(tex Texture, world f32.Mat4, region Rect, size f32.Vec2,
	color gputypes.Color, orientation ImageOrientation, swizzle SwizzleMode, depth float32) {
	if !b.begun {
		xrender.Bug("SpriteBatch.Draw", "batch not begun")
	}
	b.sprites = append(b.sprites, SpriteInstance{
		Texture:     tex,
		World:       world,
		Region:      region,
		Size:        size,
		Color:       color,
		Orientation: orientation,
		Swizzle:     swizzle,
		Depth:       depth,
	})
	if b.params.SortMode == SpriteSortImmediate {
		b.submit()
	}
}

// End submits the accumulated sprites and closes the batch.
// Calling End on a batch that is not begun panics with *xrender.InternalError.
func (b *SpriteBatch) End() {
	if !b.begun {
		xrender.Bug("SpriteBatch.End", "batch not begun")
	}
	b.sort()
	b.submit()
	b.begun = false
	b.out = nil
}

// IsBegun reports whether the batch is between Begin and End.
func (b *SpriteBatch) IsBegun() bool { return b.begun }

// Submits returns the number of submissions made by this batch.
func (b *SpriteBatch) Submits() int { return b.submits }

// Params returns the parameters of the current batch.
func (b *SpriteBatch) Params() BatchParams { return b.params }

func (b *SpriteBatch) sort() {
	switch b.params.SortMode {
	case SpriteSortTexture:
		slices.SortStableFunc(b.sprites, func(x, y SpriteInstance) int {
			return cmp.Compare(x.Texture.Label(), y.Texture.Label())
		})
	case SpriteSortBackToFront:
		slices.SortStableFunc(b.sprites, func(x, y SpriteInstance) int {
			return cmp.Compare(y.Depth, x.Depth)
		})
	case SpriteSortFrontToBack:
		slices.SortStableFunc(b.sprites, func(x, y SpriteInstance) int {
			return cmp.Compare(x.Depth, y.Depth)
		})
	}
}

func (b *SpriteBatch) submit() {
	if len(b.sprites) == 0 {
		return
	}
	b.out.Append(Command{
		Kind:    CommandSubmitSprites,
		Batch:   b.params,
		Sprites: slices.Clone(b.sprites),
	})
	clear(b.sprites)
	b.sprites = b.sprites[:0]
	b.submits++
}

// Device returns the device the batch was created for.
func (b *SpriteBatch) Device() *Device { return b.device }
