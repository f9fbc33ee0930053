// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/xrender"
)

// PipelinePlugin is a one-time setup routine wiring stages, features and
// selectors into a rendering configuration.
//
// SetupPipeline must fetch-or-create the features it depends on and append
// its own contribution (sub-feature, selector, hook) instead of replacing
// existing ones. Plugins that consume stages created by another plugin look
// them up with GetRenderStage and fail fast when run out of order.
type PipelinePlugin interface {
	Name() string
	SetupPipeline(ctx *RenderContext, sys *RenderSystem) error
}

// RunPlugins runs plugins in order and stops at the first error.
func RunPlugins(ctx *RenderContext, sys *RenderSystem, plugins ...PipelinePlugin) error {
	for _, p := range plugins {
		if err := p.SetupPipeline(ctx, sys); err != nil {
			return fmt.Errorf("render: plugin %s: %w", p.Name(), err)
		}
		xrender.Logger().Info("render: plugin set up", "plugin", p.Name())
	}
	return nil
}
