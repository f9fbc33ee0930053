// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrender/graphics"
)

func TestGetOrCreateRenderStageFirstWins(t *testing.T) {
	sys := NewRenderSystem(nil)
	out := sys.Device().PresenterOutput()

	a := GetOrCreateRenderStage(sys, StageMain, "Main", out, WithSortMode(SortModeFrontToBack))
	b := GetOrCreateRenderStage(sys, StageMain, "Other", graphics.RenderOutputDescription{}, WithSortMode(SortModeBackToFront))

	if a != b {
		t.Fatal("GetOrCreateRenderStage() returned two instances for one name")
	}
	if b.EffectSlotName != "Main" || b.SortMode != SortModeFrontToBack || b.Output != out {
		t.Errorf("later call changed the stage: %+v", b)
	}
	if n := len(sys.RenderStages()); n != 1 {
		t.Errorf("RenderStages() has %d stages, want 1", n)
	}
}

func TestGetOrCreateRenderStageConcurrent(t *testing.T) {
	sys := NewRenderSystem(nil)
	out := sys.Device().PresenterOutput()

	const callers = 64
	got := make([]*RenderStage, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = GetOrCreateRenderStage(sys, "Shared", "slot", out)
		}()
	}
	wg.Wait()

	for i, s := range got {
		if s != got[0] {
			t.Fatalf("caller %d observed a different stage instance", i)
		}
	}
	if n := len(sys.RenderStages()); n != 1 {
		t.Errorf("RenderStages() has %d stages, want 1", n)
	}
}

func TestStageIndexIsCreationOrder(t *testing.T) {
	sys := NewRenderSystem(nil)
	out := sys.Device().PresenterOutput()
	names := []string{StageMain, StageTransparent, StagePicking}
	for _, n := range names {
		GetOrCreateRenderStage(sys, n, n, out)
	}
	for i, s := range sys.RenderStages() {
		if s.Index != i || s.Name != names[i] {
			t.Errorf("stage %d = %s (index %d), want %s", i, s.Name, s.Index, names[i])
		}
	}
}

func TestGetRenderStageNotFound(t *testing.T) {
	sys := NewRenderSystem(nil)
	_, err := GetRenderStage(sys, StageWireFrame)
	if !errors.Is(err, ErrStageNotFound) {
		t.Fatalf("GetRenderStage() error = %v, want ErrStageNotFound", err)
	}
	var nf *StageNotFoundError
	if !errors.As(err, &nf) || nf.Name != StageWireFrame {
		t.Errorf("GetRenderStage() error = %v, want *StageNotFoundError{WireFrame}", err)
	}

	created := GetOrCreateRenderStage(sys, StageWireFrame, "", graphics.RenderOutputDescription{Color: gputypes.TextureFormatRGBA8Unorm})
	got, err := GetRenderStage(sys, StageWireFrame)
	if err != nil || got != created {
		t.Errorf("GetRenderStage() = %v, %v, want created stage", got, err)
	}
}

func TestGetOrCreateFeature(t *testing.T) {
	sys := NewRenderSystem(nil)

	calls := 0
	create := func() *testFeature {
		calls++
		return newTestFeature()
	}

	a, err := GetOrCreateFeature(sys, testKind, create)
	if err != nil {
		t.Fatalf("GetOrCreateFeature() error = %v", err)
	}
	b, err := GetOrCreateFeature(sys, testKind, create)
	if err != nil {
		t.Fatalf("GetOrCreateFeature() error = %v", err)
	}
	if a != b || calls != 1 || sys.FeatureCount() != 1 {
		t.Errorf("GetOrCreateFeature() created %d features (count %d), want 1", calls, sys.FeatureCount())
	}

	got, err := FeatureOf[*testFeature](sys, testKind)
	if err != nil || got != a {
		t.Errorf("FeatureOf() = %v, %v, want registered feature", got, err)
	}
}

func TestFeatureOfErrors(t *testing.T) {
	sys := NewRenderSystem(nil)
	if _, err := FeatureOf[*testFeature](sys, otherKind); !errors.Is(err, ErrFeatureNotFound) {
		t.Errorf("FeatureOf() error = %v, want ErrFeatureNotFound", err)
	}

	// a feature claiming the wrong kind
	_, err := GetOrCreateFeature(sys, otherKind, newTestFeature)
	if !errors.Is(err, ErrFeatureKindMismatch) {
		t.Errorf("GetOrCreateFeature() error = %v, want ErrFeatureKindMismatch", err)
	}
	if sys.FeatureCount() != 0 {
		t.Errorf("FeatureCount() = %d after mismatch, want 0", sys.FeatureCount())
	}
}

func TestAddSubFeatureDuplicateRole(t *testing.T) {
	f := newTestFeature()
	if err := f.AddSubFeature(&recordingSubFeature{role: "material"}); err != nil {
		t.Fatalf("AddSubFeature() error = %v", err)
	}
	err := f.AddSubFeature(&recordingSubFeature{role: "material"})
	if !errors.Is(err, ErrDuplicateSubFeature) {
		t.Fatalf("AddSubFeature() error = %v, want ErrDuplicateSubFeature", err)
	}
	var dup *DuplicateSubFeatureError
	if !errors.As(err, &dup) || dup.Role != "material" {
		t.Errorf("AddSubFeature() error = %v, want role material", err)
	}
	if len(f.SubFeatures()) != 1 {
		t.Errorf("SubFeatures() = %d, want 1", len(f.SubFeatures()))
	}
}

func TestFeatureKindString(t *testing.T) {
	if testKind.String() != "test" {
		t.Errorf("String() = %q, want test", testKind.String())
	}
	if FeatureKind(1<<30).String() == "" {
		t.Error("unknown kind has empty name")
	}
}
