// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender/graphics"
)

// Sprite is a region of a texture drawn as a quad.
type Sprite struct {
	Name    string
	Texture graphics.Texture

	// Region is the source rectangle in texture pixels.
	Region graphics.Rect

	// Center is the sprite origin in pixels from the region's top-left corner.
	Center f32.Vec2

	PixelsPerUnit f32.Vec2
	Orientation   graphics.ImageOrientation
	IsTransparent bool
}

// Size returns the sprite size in scene units.
func (s *Sprite) Size() f32.Vec2 {
	w, h := s.Region.Width, s.Region.Height
	if s.Orientation == graphics.ImageOrientationRotated90 {
		w, h = h, w
	}
	ppu := s.PixelsPerUnit
	if ppu[0] <= 0 || ppu[1] <= 0 {
		return f32.Vec2{w, h}
	}
	return f32.Vec2{w / ppu[0], h / ppu[1]}
}

// Drawable reports whether the sprite has a ready texture and a non-empty
// region.
func (s *Sprite) Drawable() bool {
	return s != nil && s.Texture != nil && !s.Region.Empty() && graphics.IsReady(s.Texture)
}

// Provider supplies the sprite to draw for an object. GetSprite is called
// once per object per view during Extract, never from draw workers.
type Provider interface {
	SpritesCount() int
	GetSprite() *Sprite
}

// DefaultPixelsPerUnit is the scale of a SpriteFromTexture.
const DefaultPixelsPerUnit = 100

// SpriteFromTexture provides a sprite covering a whole texture.
//
// The sprite is rebuilt lazily after any setter. While the texture reports
// itself not ready the provider stays dirty, so the region picks up the
// real texture size once it is known.
type SpriteFromTexture struct {
	texture          graphics.Texture
	pixelsPerUnit    float32
	center           f32.Vec2
	centerFromMiddle bool
	transparent      bool

	dirty  bool
	sprite Sprite
}

var _ Provider = (*SpriteFromTexture)(nil)

// NewSpriteFromTexture returns a transparent provider for tex centered on
// the middle of the texture.
func NewSpriteFromTexture(tex graphics.Texture) *SpriteFromTexture {
	return &SpriteFromTexture{
		texture:          tex,
		pixelsPerUnit:    DefaultPixelsPerUnit,
		centerFromMiddle: true,
		transparent:      true,
		dirty:            true,
	}
}

// SpriteFromTextureOf wraps an existing sprite. The provider starts clean
// and its center is taken as is.
func SpriteFromTextureOf(s *Sprite) *SpriteFromTexture {
	return &SpriteFromTexture{
		texture:       s.Texture,
		pixelsPerUnit: s.PixelsPerUnit[0],
		center:        s.Center,
		transparent:   s.IsTransparent,
		sprite:        *s,
	}
}

func (p *SpriteFromTexture) Texture() graphics.Texture { return p.texture }

func (p *SpriteFromTexture) SetTexture(tex graphics.Texture) {
	p.texture = tex
	p.dirty = true
}

func (p *SpriteFromTexture) PixelsPerUnit() float32 { return p.pixelsPerUnit }

func (p *SpriteFromTexture) SetPixelsPerUnit(v float32) {
	p.pixelsPerUnit = v
	p.dirty = true
}

// Center returns the center offset in pixels, from the middle of the texture
// when CenterFromMiddle is set and from its top-left corner otherwise.
func (p *SpriteFromTexture) Center() f32.Vec2 { return p.center }

func (p *SpriteFromTexture) SetCenter(c f32.Vec2) {
	p.center = c
	p.dirty = true
}

func (p *SpriteFromTexture) CenterFromMiddle() bool { return p.centerFromMiddle }

func (p *SpriteFromTexture) SetCenterFromMiddle(v bool) {
	p.centerFromMiddle = v
	p.dirty = true
}

func (p *SpriteFromTexture) IsTransparent() bool { return p.transparent }

func (p *SpriteFromTexture) SetTransparent(v bool) {
	p.transparent = v
	p.dirty = true
}

// Dirty reports whether the next GetSprite rebuilds the sprite.
func (p *SpriteFromTexture) Dirty() bool { return p.dirty }

// SpritesCount implements Provider.
func (p *SpriteFromTexture) SpritesCount() int { return 1 }

// GetSprite implements Provider.
func (p *SpriteFromTexture) GetSprite() *Sprite {
	if p.dirty {
		p.update()
		p.dirty = false
	}
	if p.texture != nil && !graphics.IsReady(p.texture) {
		p.dirty = true
	}
	return &p.sprite
}

func (p *SpriteFromTexture) update() {
	s := &p.sprite
	s.Texture = p.texture
	s.IsTransparent = p.transparent
	s.PixelsPerUnit = f32.Vec2{p.pixelsPerUnit, p.pixelsPerUnit}
	if p.texture == nil {
		return
	}
	w, h := float32(p.texture.Width()), float32(p.texture.Height())
	s.Center = p.center
	if p.centerFromMiddle {
		s.Center[0] += w / 2
		s.Center[1] += h / 2
	}
	s.Region = graphics.Rect{Width: w, Height: h}
}
