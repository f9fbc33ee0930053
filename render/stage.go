// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/xrender/graphics"
)

// Well-known stage names shared by the bundled plugins.
const (
	StageMain            = "Main"
	StageTransparent     = "Transparent"
	StagePicking         = "Picking"
	StageWireFrame       = "WireFrame"
	StageHighlight       = "Highlight"
	StageShadowMapCaster = "ShadowMapCaster"
)

// SortMode selects how nodes of a stage are ordered.
type SortMode uint8

const (
	// SortModeStateChange groups nodes by pipeline state, then front to back.
	SortModeStateChange SortMode = iota
	// SortModeFrontToBack orders by increasing distance from the eye.
	SortModeFrontToBack
	// SortModeBackToFront orders by decreasing distance, for blending.
	SortModeBackToFront
)

// String returns the sort mode name.
func (m SortMode) String() string {
	switch m {
	case SortModeStateChange:
		return "StateChange"
	case SortModeFrontToBack:
		return "FrontToBack"
	case SortModeBackToFront:
		return "BackToFront"
	default:
		return "Unknown"
	}
}

// RenderStage is a named, ordered bucket of draw work sharing one output
// format. Stages are created through GetOrCreateRenderStage and never
// duplicated: one instance per name per RenderSystem.
type RenderStage struct {
	Name           string
	EffectSlotName string
	Output         graphics.RenderOutputDescription
	SortMode       SortMode

	// Index is the creation ordinal: draw order and stage mask bit.
	Index int
}

// String returns the stage name.
func (s *RenderStage) String() string { return s.Name }

// StageOption configures a stage on creation. Options passed to later
// GetOrCreateRenderStage calls for the same name are ignored.
type StageOption func(*RenderStage)

// WithSortMode sets the stage sort mode.
func WithSortMode(m SortMode) StageOption {
	return func(s *RenderStage) {
		s.SortMode = m
	}
}

// ComputeSortKey builds the ascending sort key of a node.
//
// The top 16 bits hold the selector priority. The rest encodes distance and
// state in the order mode asks for: state then distance for
// SortModeStateChange, distance then state for the two depth modes.
// Negative or NaN distances count as zero.
func ComputeSortKey(mode SortMode, priority uint16, distance float32, stateKey uint32) uint64 {
	if distance < 0 || math32.IsNaN(distance) {
		distance = 0
	}
	// Non-negative IEEE floats order like their bit patterns.
	d := math32.Float32bits(distance)

	var low uint64
	switch mode {
	case SortModeFrontToBack:
		low = uint64(d)<<16 | uint64(stateKey>>16)
	case SortModeBackToFront:
		low = uint64(^d)<<16 | uint64(stateKey>>16)
	default:
		low = uint64(stateKey>>8)<<24 | uint64(d>>8)
	}
	return uint64(priority)<<48 | low&(1<<48-1)
}
