// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender/graphics"
)

func near(a, b float32) bool { return math32.Abs(a-b) < 1e-5 }

func TestNormalizedCenter(t *testing.T) {
	region := graphics.Rect{Width: 20, Height: 10}
	tests := []struct {
		name   string
		center f32.Vec2
		o      graphics.ImageOrientation
		want   f32.Vec2
	}{
		{"middle", f32.Vec2{10, 5}, graphics.ImageOrientationAsIs, f32.Vec2{0, 0}},
		{"middle rotated", f32.Vec2{10, 5}, graphics.ImageOrientationRotated90, f32.Vec2{0, 0}},
		{"off center", f32.Vec2{4, 2}, graphics.ImageOrientationAsIs, f32.Vec2{-0.3, 0.3}},
		{"off center rotated", f32.Vec2{4, 2}, graphics.ImageOrientationRotated90, f32.Vec2{-0.3, -0.3}},
		{"top left", f32.Vec2{0, 0}, graphics.ImageOrientationAsIs, f32.Vec2{-0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizedCenter(tt.center, region, tt.o)
			if !near(got[0], tt.want[0]) || !near(got[1], tt.want[1]) {
				t.Errorf("NormalizedCenter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecenter(t *testing.T) {
	region := graphics.Rect{Width: 20, Height: 10}
	size := f32.Vec2{0.2, 0.1}

	got := Recenter(graphics.Identity(), f32.Vec2{0, 0}, region, size, graphics.ImageOrientationAsIs)
	if !near(got[12], 0.1) || !near(got[13], -0.05) {
		t.Errorf("Recenter() translation = (%v, %v), want (0.1, -0.05)", got[12], got[13])
	}

	// the offset follows the matrix axes
	scaled := Recenter(graphics.Scaling(2, 3, 1), f32.Vec2{0, 0}, region, size, graphics.ImageOrientationAsIs)
	if !near(scaled[12], 0.2) || !near(scaled[13], -0.15) {
		t.Errorf("Recenter(scaled) translation = (%v, %v), want (0.2, -0.15)", scaled[12], scaled[13])
	}

	centered := Recenter(graphics.Translation(1, 2, 3), f32.Vec2{10, 5}, region, size, graphics.ImageOrientationAsIs)
	if centered != graphics.Translation(1, 2, 3) {
		t.Errorf("Recenter() moved a centered sprite: %v", centered)
	}
}

func TestBlendStateExhaustive(t *testing.T) {
	want := map[BlendMode]string{
		BlendMix:            "AlphaBlend",
		BlendMultiplication: "Multiplication",
		BlendAddition:       "Additive",
		BlendSubtraction:    "Subtraction",
	}
	for m, label := range want {
		got, err := BlendState(m)
		if err != nil || got.Label != label {
			t.Errorf("BlendState(%s) = %s, %v, want %s", m, got.Label, err, label)
		}
		if !got.Enabled {
			t.Errorf("BlendState(%s) has blending disabled", m)
		}
	}

	_, err := BlendState(BlendSubtraction + 1)
	if !errors.Is(err, ErrUnknownBlendMode) {
		t.Errorf("BlendState(4) error = %v, want ErrUnknownBlendMode", err)
	}
	if (BlendSubtraction + 1).Valid() {
		t.Error("BlendMode(4).Valid() = true")
	}
}

func TestSubBlendStateReverseSubtracts(t *testing.T) {
	c := SubBlendState.State.Color
	if c.Operation != gputypes.BlendOperationReverseSubtract || c.SrcFactor != gputypes.BlendFactorSrcAlpha || c.DstFactor != gputypes.BlendFactorOne {
		t.Errorf("SubBlendState color = %+v", c)
	}
	if a := MultBlendState.State.Alpha; a.SrcFactor != gputypes.BlendFactorZero {
		t.Errorf("MultBlendState alpha src = %v, want Zero", a.SrcFactor)
	}
}

func TestBlendColor(t *testing.T) {
	tests := []struct {
		name       string
		c          gputypes.Color
		factor, tr float32
		want       gputypes.Color
	}{
		{"plain", gputypes.ColorBlack, 0, 1, gputypes.ColorWhite},
		{"faded", gputypes.ColorBlack, 0, 0.5, gputypes.Color{R: 0.5, G: 0.5, B: 0.5, A: 0.5}},
		{"half black", gputypes.ColorBlack, 0.5, 1, gputypes.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}},
		{"full red", gputypes.Color{R: 1, A: 1}, 1, 1, gputypes.Color{R: 1, A: 1}},
		{"negative factor ignored", gputypes.ColorBlack, -1, 1, gputypes.ColorWhite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BlendColor(tt.c, tt.factor, tt.tr); got != tt.want {
				t.Errorf("BlendColor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProjectedDepth(t *testing.T) {
	world := graphics.Translation(0, 0, 0.5)
	if got := ProjectedDepth(world, graphics.Identity()); got != 0.5 {
		t.Errorf("ProjectedDepth(identity) = %v, want 0.5", got)
	}
	vp := graphics.Identity()
	vp[15] = 2
	if got := ProjectedDepth(world, vp); got != 0.25 {
		t.Errorf("ProjectedDepth(w=2) = %v, want 0.25", got)
	}
}

func TestSpriteSize(t *testing.T) {
	s := &Sprite{Region: graphics.Rect{Width: 200, Height: 100}, PixelsPerUnit: f32.Vec2{100, 100}}
	if got := s.Size(); got != (f32.Vec2{2, 1}) {
		t.Errorf("Size() = %v, want [2 1]", got)
	}
	s.Orientation = graphics.ImageOrientationRotated90
	if got := s.Size(); got != (f32.Vec2{1, 2}) {
		t.Errorf("Size(rotated) = %v, want [1 2]", got)
	}
	s.PixelsPerUnit = f32.Vec2{}
	if got := s.Size(); got != (f32.Vec2{100, 200}) {
		t.Errorf("Size(no scale) = %v, want [100 200]", got)
	}
}

func TestSpriteDrawable(t *testing.T) {
	tex := graphics.NewTexture("t", 8, 8, gputypes.TextureFormatRGBA8Unorm)
	pending := graphics.NewAsyncTexture("p", gputypes.TextureFormatRGBA8Unorm)
	tests := []struct {
		name string
		s    *Sprite
		want bool
	}{
		{"nil", nil, false},
		{"no texture", &Sprite{Region: graphics.Rect{Width: 1, Height: 1}}, false},
		{"empty region", &Sprite{Texture: tex}, false},
		{"pending texture", &Sprite{Texture: pending, Region: graphics.Rect{Width: 1, Height: 1}}, false},
		{"ok", &Sprite{Texture: tex, Region: graphics.Rect{Width: 1, Height: 1}}, true},
	}
	for _, tt := range tests {
		if got := tt.s.Drawable(); got != tt.want {
			t.Errorf("%s: Drawable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSpriteFromTexture(t *testing.T) {
	tex := graphics.NewTexture("hero", 64, 32, gputypes.TextureFormatRGBA8Unorm)
	p := NewSpriteFromTexture(tex)

	if p.PixelsPerUnit() != DefaultPixelsPerUnit || !p.CenterFromMiddle() || !p.IsTransparent() {
		t.Errorf("defaults = %v/%v/%v", p.PixelsPerUnit(), p.CenterFromMiddle(), p.IsTransparent())
	}

	s := p.GetSprite()
	if s.Region != (graphics.Rect{Width: 64, Height: 32}) || s.Center != (f32.Vec2{32, 16}) {
		t.Errorf("GetSprite() region %v center %v", s.Region, s.Center)
	}
	if s.Size() != (f32.Vec2{0.64, 0.32}) {
		t.Errorf("Size() = %v, want [0.64 0.32]", s.Size())
	}
	if p.Dirty() {
		t.Error("provider still dirty after GetSprite with a ready texture")
	}

	p.SetCenter(f32.Vec2{4, -2})
	p.SetCenterFromMiddle(false)
	if !p.Dirty() {
		t.Error("setter did not mark provider dirty")
	}
	if s = p.GetSprite(); s.Center != (f32.Vec2{4, -2}) {
		t.Errorf("Center = %v, want [4 -2]", s.Center)
	}
	if p.SpritesCount() != 1 {
		t.Errorf("SpritesCount() = %d, want 1", p.SpritesCount())
	}
}

func TestSpriteFromTextureWaitsForTexture(t *testing.T) {
	tex := graphics.NewAsyncTexture("streamed", gputypes.TextureFormatRGBA8Unorm)
	p := NewSpriteFromTexture(tex)

	if s := p.GetSprite(); !s.Region.Empty() || s.Drawable() {
		t.Errorf("sprite of pending texture = %v, want empty", s.Region)
	}
	if !p.Dirty() {
		t.Fatal("provider clean while texture is pending")
	}

	tex.Resolve(128, 64)
	s := p.GetSprite()
	if s.Region != (graphics.Rect{Width: 128, Height: 64}) || s.Center != (f32.Vec2{64, 32}) {
		t.Errorf("after resolve: region %v center %v", s.Region, s.Center)
	}
	if p.Dirty() || !s.Drawable() {
		t.Error("provider not settled after texture became ready")
	}
}

func TestSpriteFromTextureOf(t *testing.T) {
	src := &Sprite{
		Texture:       graphics.NewTexture("t", 10, 10, gputypes.TextureFormatRGBA8Unorm),
		Region:        graphics.Rect{X: 2, Y: 2, Width: 4, Height: 4},
		Center:        f32.Vec2{1, 1},
		PixelsPerUnit: f32.Vec2{50, 50},
	}
	p := SpriteFromTextureOf(src)
	if p.Dirty() || p.CenterFromMiddle() || p.PixelsPerUnit() != 50 {
		t.Errorf("SpriteFromTextureOf() dirty=%v middle=%v ppu=%v", p.Dirty(), p.CenterFromMiddle(), p.PixelsPerUnit())
	}
	if got := p.GetSprite(); got.Region != src.Region {
		t.Errorf("GetSprite() region = %v, want %v", got.Region, src.Region)
	}
}
