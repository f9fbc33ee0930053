// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sprite provides sprites, sprite providers and the render features
// drawing them through graphics.SpriteBatch.
//
// StudioRenderFeature draws animated sprite rigs (StudioObject), one batched
// quad per visible rig node with per-node blend modes. SpriteRenderFeature
// draws single sprites fed by a Provider such as SpriteFromTexture.
//
// Both features keep one sprite batch per draw worker and begin a new batch
// only when the effect, blend or depth-stencil state changes between
// consecutive sprites of a draw range. Sprites without a ready texture, with
// an empty region or hidden are skipped and counted in
// render.FrameStats.SkippedDrawUnits.
package sprite
