// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import "golang.org/x/image/math/f32"

// Rect is a rectangle in texture pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Size returns the rectangle size.
func (r Rect) Size() f32.Vec2 {
	return f32.Vec2{r.Width, r.Height}
}

// ImageOrientation tells how a sprite image is stored in its texture.
type ImageOrientation uint8

const (
	ImageOrientationAsIs ImageOrientation = iota
	// ImageOrientationRotated90 images are stored rotated by 90 degrees.
	ImageOrientationRotated90
)

// SwizzleMode selects a channel swizzle applied when sampling.
type SwizzleMode uint8

const (
	SwizzleNone SwizzleMode = iota
	SwizzleRRRR
	SwizzleRRR1
	SwizzleNormalMap
)

// SpriteSortMode controls the order in which a batch submits sprites.
type SpriteSortMode uint8

const (
	// SpriteSortDeferred keeps draw order and submits on End.
	SpriteSortDeferred SpriteSortMode = iota
	// SpriteSortImmediate submits every sprite as it is drawn.
	SpriteSortImmediate
	// SpriteSortTexture groups sprites by texture.
	SpriteSortTexture
	// SpriteSortBackToFront orders by decreasing depth.
	SpriteSortBackToFront
	// SpriteSortFrontToBack orders by increasing depth.
	SpriteSortFrontToBack
)
