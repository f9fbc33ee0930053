// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/graphics"
)

// FeatureKind identifies a render object type and the one root feature
// that supports it. Kinds are allocated with NewFeatureKind.
type FeatureKind uint32

var (
	kindMu    sync.Mutex
	kindNames = []string{"invalid"}
)

// NewFeatureKind allocates a new kind. Call it once per object type,
// typically in a package-level var.
func NewFeatureKind(name string) FeatureKind {
	kindMu.Lock()
	defer kindMu.Unlock()
	kindNames = append(kindNames, name)
	return FeatureKind(len(kindNames) - 1)
}

// String returns the name the kind was allocated with.
func (k FeatureKind) String() string {
	kindMu.Lock()
	defer kindMu.Unlock()
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("FeatureKind(%d)", uint32(k))
}

// RootRenderFeature owns the objects of one kind and draws them.
//
// Draw must draw exactly the sorted nodes [start, end) of stage and must not
// keep state on the feature between calls: concurrent calls for disjoint
// ranges of the same stage are allowed, each with its own RenderDrawContext.
type RootRenderFeature interface {
	// Kind is the supported render object type.
	Kind() FeatureKind
	Initialize(ctx *RenderContext) error
	// Extract creates this frame's nodes for view.
	Extract(ctx *RenderContext, view *RenderView)
	// Prepare refreshes per-object data and resolves node pipeline states.
	Prepare(ctx *RenderContext)
	Draw(ctx *RenderDrawContext, view *RenderView, stage *RenderViewStage, start, end int) error
	Destroy()

	// Base exposes the object table, selectors, hooks and nodes.
	Base() *RootFeatureBase
}

// SubFeatureRole names the logical role of a sub-feature. A root feature
// holds at most one sub-feature per role.
type SubFeatureRole string

// SubRenderFeature contributes to the state of its root feature's nodes.
type SubRenderFeature interface {
	Role() SubFeatureRole
	// Attach is called once when the sub-feature is added to root.
	Attach(root RootRenderFeature) error
	// Prepare runs once per frame before pipeline states are resolved.
	Prepare(ctx *RenderContext)
	// ProcessPipelineState contributes to one node's pipeline state.
	ProcessPipelineState(ctx *RenderContext, ref RenderNodeReference, node *RenderNode, state *graphics.PipelineStateDescription)
}

// RootFeatureBase implements the bookkeeping shared by root features.
// Concrete features embed it, call InitBase, and implement Draw.
type RootFeatureBase struct {
	kind        FeatureKind
	self        RootRenderFeature
	objects     []Object
	selectors   []RenderStageSelector
	hooks       PipelineStateHooks
	subFeatures []SubRenderFeature

	nodes     []RenderNode
	assignBuf []StageAssignment
}

// InitBase binds the base to its kind and to the embedding feature.
func (b *RootFeatureBase) InitBase(kind FeatureKind, self RootRenderFeature) {
	b.kind = kind
	b.self = self
}

// Base returns b.
func (b *RootFeatureBase) Base() *RootFeatureBase { return b }

// Kind returns the supported object kind.
func (b *RootFeatureBase) Kind() FeatureKind { return b.kind }

// Initialize does nothing; features override it to allocate resources.
func (b *RootFeatureBase) Initialize(*RenderContext) error { return nil }

// Destroy does nothing; features override it to release resources.
func (b *RootFeatureBase) Destroy() {}

// AddSelector appends a stage selector.
func (b *RootFeatureBase) AddSelector(sel RenderStageSelector) {
	b.selectors = append(b.selectors, sel)
}

// Selectors returns the selectors in registration order.
func (b *RootFeatureBase) Selectors() []RenderStageSelector { return b.selectors }

// Hooks returns the post-process pipeline state hooks.
func (b *RootFeatureBase) Hooks() *PipelineStateHooks { return &b.hooks }

// AddSubFeature appends sf. A second sub-feature for a filled role is a
// configuration error.
func (b *RootFeatureBase) AddSubFeature(sf SubRenderFeature) error {
	if _, ok := b.SubFeature(sf.Role()); ok {
		return &DuplicateSubFeatureError{Feature: b.kind, Role: sf.Role()}
	}
	if err := sf.Attach(b.self); err != nil {
		return fmt.Errorf("render: attach %s sub-feature: %w", sf.Role(), err)
	}
	b.subFeatures = append(b.subFeatures, sf)
	return nil
}

// SubFeature returns the sub-feature filling role.
func (b *RootFeatureBase) SubFeature(role SubFeatureRole) (SubRenderFeature, bool) {
	for _, sf := range b.subFeatures {
		if sf.Role() == role {
			return sf, true
		}
	}
	return nil, false
}

// SubFeatures returns the sub-features in registration order.
func (b *RootFeatureBase) SubFeatures() []SubRenderFeature { return b.subFeatures }

// Objects returns the object table. The slice is owned by the feature.
func (b *RootFeatureBase) Objects() []Object { return b.objects }

// Nodes returns this frame's nodes.
func (b *RootFeatureBase) Nodes() []RenderNode { return b.nodes }

// Node returns the node ref points to.
func (b *RootFeatureBase) Node(ref RenderNodeReference) *RenderNode {
	return &b.nodes[ref]
}

func (b *RootFeatureBase) addObject(obj Object, runtimeID uint32) {
	ro := obj.RenderObjectBase()
	if ro.owner != nil {
		xrender.Bug("RenderSystem.AddObject", "object %d is already registered", ro.runtimeID)
	}
	ro.owner = b
	ro.index = len(b.objects)
	ro.runtimeID = runtimeID
	b.objects = append(b.objects, obj)
}

func (b *RootFeatureBase) removeObject(obj Object) {
	ro := obj.RenderObjectBase()
	if ro.owner != b || ro.index >= len(b.objects) || b.objects[ro.index] != obj {
		xrender.Bug("RenderSystem.RemoveObject", "object is not registered with feature %s", b.kind)
	}
	last := len(b.objects) - 1
	moved := b.objects[last]
	b.objects[ro.index] = moved
	moved.RenderObjectBase().index = ro.index
	b.objects[last] = nil
	b.objects = b.objects[:last]

	ro.owner = nil
	ro.index = -1
	ro.runtimeID = 0
}

// resetNodes empties the node table, keeping storage.
func (b *RootFeatureBase) resetNodes() {
	clear(b.nodes)
	b.nodes = b.nodes[:0]
}

// Extract runs every selector on every enabled object and appends one node
// per assignment to the view's stage lists. Selector errors drop the
// object from that selector's stages and are reported, never returned.
func (b *RootFeatureBase) Extract(ctx *RenderContext, view *RenderView) {
	for _, obj := range b.objects {
		ro := obj.RenderObjectBase()
		if !ro.Enabled {
			continue
		}
		if view.Filter != nil && !view.Filter(obj) {
			continue
		}

		distance := view.distanceTo(sortOrigin(obj))
		for _, sel := range b.selectors {
			before := len(b.assignBuf)
			out, err := sel.Select(obj, view, b.assignBuf)
			if err != nil {
				b.assignBuf = out[:before]
				ctx.reportSelectorFailure(&SelectorError{Feature: b.kind, Object: ro.runtimeID, Err: err})
				continue
			}
			b.assignBuf = out
		}

		for _, a := range b.assignBuf {
			if !ro.StageMask.Includes(a.Stage) {
				continue
			}
			vs := view.Stage(a.Stage)
			if vs == nil {
				continue
			}
			ref := RenderNodeReference(len(b.nodes))
			b.nodes = append(b.nodes, RenderNode{
				object:     obj,
				view:       view,
				stage:      a.Stage,
				EffectName: a.EffectName,
				Priority:   a.Priority,
				Distance:   distance,
			})
			vs.SortedNodes = append(vs.SortedNodes, SortedRenderNode{Feature: b.self, Node: ref})
		}
		clear(b.assignBuf)
		b.assignBuf = b.assignBuf[:0]
	}
}

// Prepare runs sub-feature Prepare, then resolves every node's pipeline
// state: stage defaults and effect, sub-feature contributions in order,
// then post-process hooks in registration order.
func (b *RootFeatureBase) Prepare(ctx *RenderContext) {
	for _, sf := range b.subFeatures {
		sf.Prepare(ctx)
	}

	for i := range b.nodes {
		node := &b.nodes[i]
		state := graphics.DefaultPipelineState(node.stage.Output)
		state.Effect = ctx.ResolveEffect(node.EffectName)

		for _, sf := range b.subFeatures {
			sf.ProcessPipelineState(ctx, RenderNodeReference(i), node, &state)
		}
		b.hooks.Apply(node, &state)
		node.PipelineState = state
	}
}
