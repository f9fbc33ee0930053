// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/effect"
	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/internal/parallel"
)

// Option configures a RenderSystem during creation.
//
// Example:
//
//	sys := render.NewRenderSystem(dev,
//	    render.WithEffects(effects),
//	    render.WithParallelDraw(4, 64),
//	)
type Option func(*options)

type options struct {
	ctx      context.Context
	effects  effect.Loader
	workers  int
	minRange int
}

func defaultOptions() options {
	return options{ctx: context.Background(), minRange: 64}
}

// WithEffects sets the effect loader used to resolve node effects.
func WithEffects(l effect.Loader) Option {
	return func(o *options) {
		o.effects = l
	}
}

// WithContext sets the context bounding blocking effect loads.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithParallelDraw splits stages with at least 2*minRange sorted nodes into
// ranges drawn by a pool of workers. workers <= 0 uses GOMAXPROCS.
func WithParallelDraw(workers, minRange int) Option {
	return func(o *options) {
		o.workers = workers
		if o.workers == 0 {
			o.workers = -1
		}
		if minRange > 0 {
			o.minRange = minRange
		}
	}
}

// FrameStats summarizes the last Prepare and Draw.
type FrameStats struct {
	Frame            uint64
	Nodes            int
	SelectorFailures int
	SkippedDrawUnits int64
}

// RenderSystem owns stages, features and views and runs the frame.
//
// Prepare and Draw run on one goroutine; only Draw fans out to workers.
// Stage and feature registration is safe for concurrent use.
type RenderSystem struct {
	device *graphics.Device
	ctx    *RenderContext

	mu             sync.Mutex
	stages         []*RenderStage
	stagesByName   map[string]*RenderStage
	features       []RootRenderFeature
	featuresByKind map[FeatureKind]RootRenderFeature

	views  []*RenderView
	nextID atomic.Uint32

	pool     *parallel.WorkerPool
	minRange int
	lists    []*graphics.CommandList
	errs     []error

	frame   uint64
	stats   FrameStats
	skipped atomic.Int64
}

// NewRenderSystem creates a render system drawing to device.
func NewRenderSystem(device *graphics.Device, opts ...Option) *RenderSystem {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if device == nil {
		device = graphics.NewNullDevice()
	}

	s := &RenderSystem{
		device:         device,
		stagesByName:   make(map[string]*RenderStage),
		featuresByKind: make(map[FeatureKind]RootRenderFeature),
		minRange:       o.minRange,
	}
	s.ctx = &RenderContext{
		Context: o.ctx,
		System:  s,
		Device:  device,
		Effects: o.effects,
	}
	if o.workers != 0 {
		s.pool = parallel.NewWorkerPool(max(o.workers, 0))
	}
	return s
}

// Context returns the system's render context.
func (s *RenderSystem) Context() *RenderContext { return s.ctx }

// Device returns the graphics device.
func (s *RenderSystem) Device() *graphics.Device { return s.device }

// Workers returns the number of draw workers; 1 without parallel draw.
func (s *RenderSystem) Workers() int {
	if s.pool == nil {
		return 1
	}
	return s.pool.Workers()
}

// RenderStages returns the stages in creation order.
func (s *RenderSystem) RenderStages() []*RenderStage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.stages)
}

// Features returns the root features in registration order.
func (s *RenderSystem) Features() []RootRenderFeature {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.features)
}

// FeatureCount returns the number of registered root features.
func (s *RenderSystem) FeatureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.features)
}

// AddView registers a view for Prepare and returns it.
func (s *RenderSystem) AddView(v *RenderView) *RenderView {
	s.views = append(s.views, v)
	return v
}

// Views returns the registered views.
func (s *RenderSystem) Views() []*RenderView { return s.views }

// AddObject hands obj to the feature supporting its kind and assigns it a
// runtime id. Adding a registered object panics with *xrender.InternalError.
func (s *RenderSystem) AddObject(obj Object) error {
	s.mu.Lock()
	f, ok := s.featuresByKind[obj.Kind()]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoFeatureForKind, obj.Kind())
	}
	f.Base().addObject(obj, s.nextID.Add(1))
	return nil
}

// RemoveObject removes obj from its feature. Removing an object that is not
// registered panics with *xrender.InternalError.
func (s *RenderSystem) RemoveObject(obj Object) {
	ro := obj.RenderObjectBase()
	if ro.owner == nil {
		xrender.Bug("RenderSystem.RemoveObject", "object is not registered")
	}
	ro.owner.removeObject(obj)
}

// Stats returns the statistics of the last frame.
func (s *RenderSystem) Stats() FrameStats {
	st := s.stats
	st.SkippedDrawUnits = s.skipped.Load()
	return st
}

// Prepare extracts, prepares and sorts the nodes of every view.
func (s *RenderSystem) Prepare() {
	s.frame++
	s.stats = FrameStats{Frame: s.frame}
	s.skipped.Store(0)

	stages := s.RenderStages()
	features := s.Features()

	for _, f := range features {
		f.Base().resetNodes()
	}
	for _, v := range s.views {
		v.reset(stages)
		for _, f := range features {
			f.Extract(s.ctx, v)
		}
	}
	for _, f := range features {
		f.Prepare(s.ctx)
	}

	for _, v := range s.views {
		for i := range v.stages {
			vs := &v.stages[i]
			mode := vs.Stage.SortMode
			for j := range vs.SortedNodes {
				sn := &vs.SortedNodes[j]
				node := sn.Feature.Base().Node(sn.Node)
				node.SortKey = ComputeSortKey(mode, node.Priority, node.Distance, node.PipelineState.StateKey32())
				sn.SortKey = node.SortKey
			}
			slices.SortStableFunc(vs.SortedNodes, func(a, b SortedRenderNode) int {
				return cmp.Compare(a.SortKey, b.SortKey)
			})
			s.stats.Nodes += len(vs.SortedNodes)
		}
	}

	xrender.Logger().Debug("render: prepared frame", "frame", s.frame,
		"views", len(s.views), "nodes", s.stats.Nodes, "selector_failures", s.stats.SelectorFailures)
}

// Draw draws every stage of view, in stage order, into out.
//
// With parallel draw enabled, large stages are split into contiguous ranges
// recorded into separate command lists and appended to out in range order,
// so out matches a sequential draw apart from batch boundaries. The first
// error, in range order, aborts the frame.
func (s *RenderSystem) Draw(view *RenderView, out *graphics.CommandList) error {
	for i := range view.stages {
		vs := &view.stages[i]
		n := len(vs.SortedNodes)
		if n == 0 {
			continue
		}
		if s.pool == nil || n < 2*s.minRange {
			if err := s.DrawRange(view, vs, 0, n, out, 0); err != nil {
				return err
			}
			continue
		}
		if err := s.drawParallel(view, vs, out); err != nil {
			return err
		}
	}
	return nil
}

func (s *RenderSystem) drawParallel(view *RenderView, vs *RenderViewStage, out *graphics.CommandList) error {
	ranges := parallel.SplitRange(len(vs.SortedNodes), s.pool.Workers(), s.minRange)

	for len(s.lists) < len(ranges) {
		s.lists = append(s.lists, graphics.NewCommandList())
	}
	s.errs = slices.Grow(s.errs[:0], len(ranges))[:len(ranges)]

	tasks := make([]parallel.Task, len(ranges))
	for r, rg := range ranges {
		list := s.lists[r]
		list.Reset()
		s.errs[r] = nil
		tasks[r] = func(worker int) {
			s.errs[r] = s.DrawRange(view, vs, rg.Start, rg.End, list, worker)
		}
	}
	s.pool.ExecuteAll(tasks)

	for r := range ranges {
		if s.errs[r] != nil {
			return s.errs[r]
		}
		out.AppendList(s.lists[r])
	}
	return nil
}

// DrawRange draws the sorted nodes [start, end) of vs into out, handing each
// contiguous run of one feature to that feature's Draw.
func (s *RenderSystem) DrawRange(view *RenderView, vs *RenderViewStage, start, end int, out *graphics.CommandList, worker int) error {
	if start < 0 || end > len(vs.SortedNodes) || start > end {
		xrender.Bug("RenderSystem.DrawRange", "range [%d,%d) outside stage %s of %d nodes",
			start, end, vs.Stage.Name, len(vs.SortedNodes))
	}

	dc := RenderDrawContext{RenderContext: s.ctx, CommandList: out, Worker: worker}
	for i := start; i < end; {
		f := vs.SortedNodes[i].Feature
		j := i + 1
		for j < end && vs.SortedNodes[j].Feature == f {
			j++
		}
		if err := f.Draw(&dc, view, vs, i, j); err != nil {
			return fmt.Errorf("render: draw stage %s: %w", vs.Stage.Name, err)
		}
		i = j
	}
	return nil
}

// Close destroys every feature and stops the draw workers.
func (s *RenderSystem) Close() {
	for _, f := range s.Features() {
		f.Destroy()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
