// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render schedules visible objects into ordered render stages and
// draws them through render features.
//
// # Frame flow
//
//	RenderSystem.Prepare
//	    features Extract nodes per view (selectors assign objects to stages)
//	    features Prepare (sub-features, pipeline state, post-process hooks)
//	    each view stage is sorted by key
//	RenderSystem.Draw
//	    stages in creation order, contiguous runs of one feature,
//	    optionally split into ranges drawn in parallel
//
// # Core types
//
//   - RenderStage: named, ordered bucket of draw work with one output format
//   - RenderStageSelector: maps an object to zero or more stages
//   - RootRenderFeature: owns objects of one kind and draws index ranges
//   - PipelinePlugin: setup routine wiring stages, features and selectors
//   - RenderSystem: owns stages and features, runs Prepare and Draw
//
// # Plugin ordering
//
// Stage lookup is by name. Plugins that create stages (GetOrCreateRenderStage)
// must run before plugins that consume them (GetRenderStage), which fail fast
// with ErrStageNotFound otherwise.
package render
