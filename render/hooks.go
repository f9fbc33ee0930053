// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/xrender/graphics"

// PipelineStatePredicate decides whether a hook applies to a node.
type PipelineStatePredicate func(node *RenderNode) bool

// PipelineStateMutator edits the pipeline state of a node.
type PipelineStateMutator func(node *RenderNode, state *graphics.PipelineStateDescription)

// PipelineStateHook is one post-process step of pipeline state resolution.
type PipelineStateHook struct {
	Name      string
	Predicate PipelineStatePredicate
	Mutate    PipelineStateMutator
}

// PipelineStateHooks is an ordered hook list. Hooks run in the order they
// were added, which is the order plugins registered them; a later hook may
// overwrite fields set by an earlier one, but only when its predicate holds.
type PipelineStateHooks struct {
	hooks []PipelineStateHook
}

// Add appends hook. A nil Predicate matches every node.
func (h *PipelineStateHooks) Add(hook PipelineStateHook) {
	h.hooks = append(h.hooks, hook)
}

// Len returns the number of hooks.
func (h *PipelineStateHooks) Len() int { return len(h.hooks) }

// Names returns hook names in application order.
func (h *PipelineStateHooks) Names() []string {
	names := make([]string, len(h.hooks))
	for i, hook := range h.hooks {
		names[i] = hook.Name
	}
	return names
}

// Apply runs every matching hook on state in order.
func (h *PipelineStateHooks) Apply(node *RenderNode, state *graphics.PipelineStateDescription) {
	for i := range h.hooks {
		hook := &h.hooks[i]
		if hook.Predicate == nil || hook.Predicate(node) {
			hook.Mutate(node, state)
		}
	}
}

// InStage returns a predicate matching nodes of stage.
func InStage(stage *RenderStage) PipelineStatePredicate {
	return func(node *RenderNode) bool {
		return node.stage == stage
	}
}
