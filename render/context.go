// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"sync"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/effect"
	"github.com/gogpu/xrender/graphics"
)

// RenderContext is the per-system context handed to features and plugins.
type RenderContext struct {
	// Context bounds blocking waits such as effect loads.
	Context context.Context
	System  *RenderSystem
	Device  *graphics.Device
	// Effects loads effects by name; nil disables effect resolution.
	Effects effect.Loader

	effectMu sync.Mutex
	effects  map[string]*effectSlot
}

// effectSlot caches one effect load result. A failed load leaves the slot
// disabled for the lifetime of the system.
type effectSlot struct {
	effect *effect.Effect
	err    error
}

// ResolveEffect returns the named effect, loading it on first use and
// blocking until the load completes. Later calls return the cached result.
// An empty name, a nil loader and a failed load all yield nil; failures are
// logged once.
func (c *RenderContext) ResolveEffect(name string) *effect.Effect {
	eff, _ := c.LoadEffect(name)
	return eff
}

// LoadEffect is ResolveEffect with the load error.
func (c *RenderContext) LoadEffect(name string) (*effect.Effect, error) {
	if name == "" || c.Effects == nil {
		return nil, nil
	}

	c.effectMu.Lock()
	defer c.effectMu.Unlock()

	if slot, ok := c.effects[name]; ok {
		return slot.effect, slot.err
	}

	eff, err := c.Effects.LoadEffect(name).Wait(c.Context)
	if err != nil {
		xrender.Logger().Warn("render: effect slot disabled", "effect", name, "err", err)
	}
	if c.effects == nil {
		c.effects = make(map[string]*effectSlot)
	}
	c.effects[name] = &effectSlot{effect: eff, err: err}
	return eff, err
}

func (c *RenderContext) reportSelectorFailure(err *SelectorError) {
	c.System.stats.SelectorFailures++
	xrender.Logger().Warn("render: object dropped by selector",
		"feature", err.Feature.String(), "object", err.Object, "err", err.Err)
}

// RenderDrawContext is the context of one Draw call over one range.
// Every concurrent range gets its own RenderDrawContext.
type RenderDrawContext struct {
	*RenderContext
	CommandList *graphics.CommandList
	// Worker is the index of the goroutine drawing the range, in
	// [0, RenderSystem.Workers()). Features use it to pick per-worker
	// batch renderers.
	Worker int
}

// SkipDrawUnit records a draw unit skipped for malformed data.
func (d *RenderDrawContext) SkipDrawUnit() {
	d.System.skipped.Add(1)
}
