// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/graphics"
)

// GetOrCreateRenderStage returns the stage called name, creating it on the
// first call. Later calls return the identical instance whatever their
// other arguments: the first registration wins.
//
// Safe for concurrent use; exactly one instance is ever created per name.
func GetOrCreateRenderStage(sys *RenderSystem, name, effectSlot string, output graphics.RenderOutputDescription, opts ...StageOption) *RenderStage {
	sys.mu.Lock()
	defer sys.mu.Unlock()

	if s, ok := sys.stagesByName[name]; ok {
		return s
	}
	s := &RenderStage{
		Name:           name,
		EffectSlotName: effectSlot,
		Output:         output,
		Index:          len(sys.stages),
	}
	for _, opt := range opts {
		opt(s)
	}
	sys.stages = append(sys.stages, s)
	sys.stagesByName[name] = s

	xrender.Logger().Debug("render: stage created", "name", name, "index", s.Index,
		"color", output.Color.String(), "depth", output.DepthStencil.String())
	return s
}

// GetRenderStage returns the stage called name. It fails with a
// *StageNotFoundError (matching ErrStageNotFound) if no plugin created it.
func GetRenderStage(sys *RenderSystem, name string) (*RenderStage, error) {
	sys.mu.Lock()
	defer sys.mu.Unlock()

	if s, ok := sys.stagesByName[name]; ok {
		return s, nil
	}
	return nil, &StageNotFoundError{Name: name}
}

// GetOrCreateFeature returns the feature registered for kind, creating,
// initializing and registering it with create on first use.
//
// The registered feature must be a T of the same kind; otherwise a
// *FeatureKindMismatchError is returned.
func GetOrCreateFeature[T RootRenderFeature](sys *RenderSystem, kind FeatureKind, create func() T) (T, error) {
	var zero T

	sys.mu.Lock()
	existing, ok := sys.featuresByKind[kind]
	sys.mu.Unlock()

	if ok {
		f, ok := existing.(T)
		if !ok {
			return zero, &FeatureKindMismatchError{Kind: kind, Want: fmt.Sprintf("%T", zero), Got: fmt.Sprintf("%T", existing)}
		}
		return f, nil
	}

	f := create()
	if f.Kind() != kind {
		return zero, &FeatureKindMismatchError{Kind: kind, Want: kind.String(), Got: f.Kind().String()}
	}
	if f.Base().self == nil {
		xrender.Bug("GetOrCreateFeature", "feature %s did not call InitBase", kind)
	}
	if err := f.Initialize(sys.ctx); err != nil {
		return zero, fmt.Errorf("render: initialize feature %s: %w", kind, err)
	}

	sys.mu.Lock()
	defer sys.mu.Unlock()
	if raced, ok := sys.featuresByKind[kind]; ok {
		f.Destroy()
		if rf, ok := raced.(T); ok {
			return rf, nil
		}
		return zero, &FeatureKindMismatchError{Kind: kind, Want: fmt.Sprintf("%T", zero), Got: fmt.Sprintf("%T", raced)}
	}
	sys.features = append(sys.features, f)
	sys.featuresByKind[kind] = f

	xrender.Logger().Info("render: feature registered", "kind", kind.String())
	return f, nil
}

// FeatureOf returns the feature registered for kind as a T.
func FeatureOf[T RootRenderFeature](sys *RenderSystem, kind FeatureKind) (T, error) {
	var zero T

	sys.mu.Lock()
	existing, ok := sys.featuresByKind[kind]
	sys.mu.Unlock()

	if !ok {
		return zero, &FeatureNotFoundError{Kind: kind}
	}
	f, ok := existing.(T)
	if !ok {
		return zero, &FeatureKindMismatchError{Kind: kind, Want: fmt.Sprintf("%T", zero), Got: fmt.Sprintf("%T", existing)}
	}
	return f, nil
}
