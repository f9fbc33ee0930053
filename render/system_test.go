// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender/effect"
	"github.com/gogpu/xrender/graphics"
)

type recordingSubFeature struct {
	role      SubFeatureRole
	root      RootRenderFeature
	prepares  int
	processed int
}

func (s *recordingSubFeature) Role() SubFeatureRole { return s.role }

func (s *recordingSubFeature) Attach(root RootRenderFeature) error {
	s.root = root
	return nil
}

func (s *recordingSubFeature) Prepare(*RenderContext) { s.prepares++ }

func (s *recordingSubFeature) ProcessPipelineState(_ *RenderContext, _ RenderNodeReference, _ *RenderNode, state *graphics.PipelineStateDescription) {
	s.processed++
	state.DepthStencilState = graphics.DepthStencilStates.DepthRead
}

type fixture struct {
	sys         *RenderSystem
	feature     *testFeature
	view        *RenderView
	main        *RenderStage
	transparent *RenderStage
}

func newFixture(t testing.TB, opts ...Option) *fixture {
	t.Helper()
	sys := NewRenderSystem(graphics.NewNullDevice(), opts...)
	t.Cleanup(sys.Close)

	out := sys.Device().PresenterOutput()
	fx := &fixture{
		sys:         sys,
		main:        GetOrCreateRenderStage(sys, StageMain, "Main", out),
		transparent: GetOrCreateRenderStage(sys, StageTransparent, "Main", out, WithSortMode(SortModeBackToFront)),
		view:        sys.AddView(NewRenderView("camera")),
	}
	f, err := GetOrCreateFeature(sys, testKind, newTestFeature)
	if err != nil {
		t.Fatalf("GetOrCreateFeature() error = %v", err)
	}
	f.AddSelector(&TransparentRenderStageSelector{
		MainRenderStage:        fx.main,
		TransparentRenderStage: fx.transparent,
	})
	fx.feature = f
	return fx
}

func (fx *fixture) add(t testing.TB, objs ...*testObject) {
	t.Helper()
	for _, o := range objs {
		if err := fx.sys.AddObject(o); err != nil {
			t.Fatalf("AddObject(%s) error = %v", o.name, err)
		}
	}
}

func names(f RootRenderFeature, vs *RenderViewStage) []string {
	var out []string
	for _, sn := range vs.SortedNodes {
		out = append(out, f.Base().Node(sn.Node).Object().(*testObject).name)
	}
	return out
}

func TestAddRemoveObject(t *testing.T) {
	fx := newFixture(t)
	a, b, c := newTestObject("a", 1), newTestObject("b", 2), newTestObject("c", 3)
	fx.add(t, a, b, c)

	if a.RuntimeID() == 0 || a.RuntimeID() == b.RuntimeID() {
		t.Errorf("runtime ids a=%d b=%d, want distinct non-zero", a.RuntimeID(), b.RuntimeID())
	}

	fx.sys.RemoveObject(a)
	if a.Registered() || a.RuntimeID() != 0 {
		t.Error("removed object still registered")
	}
	objs := fx.feature.Objects()
	if len(objs) != 2 || objs[0] != Object(c) || objs[1] != Object(b) {
		t.Errorf("Objects() after remove = %v, want [c b]", objs)
	}

	// c moved into a's slot and can still be removed
	fx.sys.RemoveObject(c)
	fx.sys.RemoveObject(b)
	if len(fx.feature.Objects()) != 0 {
		t.Errorf("Objects() = %d, want 0", len(fx.feature.Objects()))
	}
}

func TestRemoveUnregisteredObjectPanics(t *testing.T) {
	fx := newFixture(t)
	o := newTestObject("ghost", 0)
	expectInternalError(t, func() { fx.sys.RemoveObject(o) })

	fx.add(t, o)
	fx.sys.RemoveObject(o)
	expectInternalError(t, func() { fx.sys.RemoveObject(o) })
}

func TestAddRegisteredObjectPanics(t *testing.T) {
	fx := newFixture(t)
	o := newTestObject("twice", 0)
	fx.add(t, o)
	expectInternalError(t, func() { _ = fx.sys.AddObject(o) })
}

type otherObject struct{ RenderObject }

func (*otherObject) Kind() FeatureKind { return otherKind }

func TestAddObjectWithoutFeature(t *testing.T) {
	fx := newFixture(t)
	err := fx.sys.AddObject(&otherObject{})
	if !errors.Is(err, ErrNoFeatureForKind) {
		t.Errorf("AddObject() error = %v, want ErrNoFeatureForKind", err)
	}
}

func TestPrepareRoutesAndSorts(t *testing.T) {
	fx := newFixture(t)
	fx.view.SetCamera(graphics.Identity(), graphics.Identity(), f32.Vec3{})

	o1, o2, o3 := newTestObject("o1", 1), newTestObject("o2", 3), newTestObject("o3", 2)
	t1, t2, t3 := newTestObject("t1", 1), newTestObject("t2", 3), newTestObject("t3", 2)
	for _, o := range []*testObject{t1, t2, t3} {
		o.transparent = true
	}
	fx.add(t, o1, o2, o3, t1, t2, t3)

	fx.sys.Prepare()

	if got, want := names(fx.feature, fx.view.Stage(fx.main)), []string{"o1", "o3", "o2"}; !slices.Equal(got, want) {
		t.Errorf("main order = %v, want %v", got, want)
	}
	if got, want := names(fx.feature, fx.view.Stage(fx.transparent)), []string{"t2", "t3", "t1"}; !slices.Equal(got, want) {
		t.Errorf("transparent order = %v, want %v", got, want)
	}
	if st := fx.sys.Stats(); st.Nodes != 6 || st.Frame != 1 {
		t.Errorf("Stats() = %+v, want 6 nodes in frame 1", st)
	}
}

func TestPrepareSkipsDisabledMaskedAndFiltered(t *testing.T) {
	fx := newFixture(t)
	disabled := newTestObject("disabled", 1)
	disabled.Enabled = false
	masked := newTestObject("masked", 1)
	masked.OnlyInStages(fx.transparent)
	filtered := newTestObject("filtered", 1)
	kept := newTestObject("kept", 1)
	fx.add(t, disabled, masked, filtered, kept)

	fx.view.Filter = func(o Object) bool { return o.(*testObject).name != "filtered" }
	fx.sys.Prepare()

	if got := names(fx.feature, fx.view.Stage(fx.main)); !slices.Equal(got, []string{"kept"}) {
		t.Errorf("main nodes = %v, want [kept]", got)
	}
}

func TestSelectorFailureDropsObject(t *testing.T) {
	fx := newFixture(t)
	errBinding := errors.New("unresolvable effect binding")
	fx.feature.AddSelector(SelectorFunc(func(obj Object, _ *RenderView, out []StageAssignment) ([]StageAssignment, error) {
		out = append(out, StageAssignment{Stage: fx.transparent})
		if obj.(*testObject).name == "bad" {
			return out, errBinding
		}
		return out, nil
	}))
	fx.add(t, newTestObject("good", 1), newTestObject("bad", 2))

	fx.sys.Prepare()

	if got := names(fx.feature, fx.view.Stage(fx.transparent)); !slices.Equal(got, []string{"good"}) {
		t.Errorf("transparent nodes = %v, want [good]", got)
	}
	// the first selector still placed "bad" in the main stage
	if got := len(fx.view.Stage(fx.main).SortedNodes); got != 2 {
		t.Errorf("main nodes = %d, want 2", got)
	}
	if st := fx.sys.Stats(); st.SelectorFailures != 1 {
		t.Errorf("SelectorFailures = %d, want 1", st.SelectorFailures)
	}
}

func TestHooksAppliedInOrderWithPredicate(t *testing.T) {
	fx := newFixture(t)
	hooks := fx.feature.Hooks()
	hooks.Add(PipelineStateHook{
		Name: "all-alpha",
		Mutate: func(_ *RenderNode, s *graphics.PipelineStateDescription) {
			s.BlendState = graphics.BlendStates.AlphaBlend
		},
	})
	hooks.Add(PipelineStateHook{
		Name:      "transparent-additive",
		Predicate: InStage(fx.transparent),
		Mutate: func(_ *RenderNode, s *graphics.PipelineStateDescription) {
			s.BlendState = graphics.BlendStates.Additive
		},
	})
	if got := hooks.Names(); !slices.Equal(got, []string{"all-alpha", "transparent-additive"}) {
		t.Errorf("Names() = %v", got)
	}

	opaque, glass := newTestObject("opaque", 1), newTestObject("glass", 1)
	glass.transparent = true
	fx.add(t, opaque, glass)
	fx.sys.Prepare()

	mainNode := fx.feature.Node(fx.view.Stage(fx.main).SortedNodes[0].Node)
	if mainNode.PipelineState.BlendState.Label != "AlphaBlend" {
		t.Errorf("main blend = %s, want AlphaBlend", mainNode.PipelineState.BlendState.Label)
	}
	glassNode := fx.feature.Node(fx.view.Stage(fx.transparent).SortedNodes[0].Node)
	if glassNode.PipelineState.BlendState.Label != "Additive" {
		t.Errorf("transparent blend = %s, want Additive", glassNode.PipelineState.BlendState.Label)
	}
}

func TestSubFeaturesContributeEachFrame(t *testing.T) {
	fx := newFixture(t)
	sf := &recordingSubFeature{role: "lighting"}
	if err := fx.feature.AddSubFeature(sf); err != nil {
		t.Fatal(err)
	}
	if sf.root != RootRenderFeature(fx.feature) {
		t.Error("Attach() not called with the root feature")
	}
	fx.add(t, newTestObject("a", 1), newTestObject("b", 2))

	fx.sys.Prepare()
	fx.sys.Prepare()

	if sf.prepares != 2 || sf.processed != 4 {
		t.Errorf("prepares=%d processed=%d, want 2 and 4", sf.prepares, sf.processed)
	}
	node := fx.feature.Node(0)
	if node.PipelineState.DepthStencilState.Label != "DepthRead" {
		t.Errorf("depth = %s, want DepthRead", node.PipelineState.DepthStencilState.Label)
	}
}

// addVaried adds n objects whose pipeline state alternates in runs so
// that draws bind several states.
func addVaried(t testing.TB, fx *fixture, n int) {
	t.Helper()
	fx.feature.Hooks().Add(PipelineStateHook{
		Name: "vary",
		Predicate: func(node *RenderNode) bool {
			return node.Object().RenderObjectBase().RuntimeID()%3 == 0
		},
		Mutate: func(_ *RenderNode, s *graphics.PipelineStateDescription) {
			s.RasterizerState = graphics.RasterizerStates.CullNone
		},
	})
	for i := range n {
		o := newTestObject(fmt.Sprintf("n%03d", i), float32(i))
		o.transparent = i%4 == 0
		fx.add(t, o)
	}
}

func TestDrawRangePartitionMatchesFullDraw(t *testing.T) {
	fx := newFixture(t)
	addVaried(t, fx, 10)
	fx.sys.Prepare()

	vs := fx.view.Stage(fx.main)
	n := len(vs.SortedNodes)

	full := graphics.NewCommandList()
	if err := fx.sys.DrawRange(fx.view, vs, 0, n, full, 0); err != nil {
		t.Fatal(err)
	}

	split := graphics.NewCommandList()
	for _, r := range [][2]int{{0, 3}, {3, 3}, {3, 7}, {7, n}} {
		part := graphics.NewCommandList()
		if err := fx.sys.DrawRange(fx.view, vs, r[0], r[1], part, 0); err != nil {
			t.Fatal(err)
		}
		split.AppendList(part)
	}

	if got, want := flatten(split), flatten(full); !slices.Equal(got, want) {
		t.Errorf("split draw = %v\nwant %v", got, want)
	}
	if len(flatten(full)) != n {
		t.Errorf("full draw drew %d meshes, want %d", len(flatten(full)), n)
	}
}

func TestParallelDrawMatchesSequential(t *testing.T) {
	seq := newFixture(t)
	addVaried(t, seq, 300)
	par := newFixture(t, WithParallelDraw(4, 8))
	addVaried(t, par, 300)

	seq.sys.Prepare()
	par.sys.Prepare()

	want := graphics.NewCommandList()
	if err := seq.sys.Draw(seq.view, want); err != nil {
		t.Fatal(err)
	}
	got := graphics.NewCommandList()
	if err := par.sys.Draw(par.view, got); err != nil {
		t.Fatal(err)
	}

	if g, w := flatten(got), flatten(want); !slices.Equal(g, w) {
		t.Errorf("parallel draw differs from sequential: %d vs %d meshes", len(g), len(w))
	}
	if par.sys.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", par.sys.Workers())
	}
}

func TestDrawErrorAbortsFrame(t *testing.T) {
	for _, opts := range [][]Option{nil, {WithParallelDraw(4, 2)}} {
		fx := newFixture(t, opts...)
		addVaried(t, fx, 40)
		fx.feature.failAt = "n021"
		fx.sys.Prepare()

		err := fx.sys.Draw(fx.view, graphics.NewCommandList())
		if err == nil || !strings.Contains(err.Error(), "bad object n021") {
			t.Errorf("Draw() error = %v, want failure from n021", err)
		}
	}
}

func TestDrawRangeOutOfBoundsPanics(t *testing.T) {
	fx := newFixture(t)
	fx.add(t, newTestObject("a", 1))
	fx.sys.Prepare()
	vs := fx.view.Stage(fx.main)
	expectInternalError(t, func() {
		_ = fx.sys.DrawRange(fx.view, vs, 0, 2, graphics.NewCommandList(), 0)
	})
}

func TestResolveEffectLoadsOnce(t *testing.T) {
	effects := effect.NewSystem(effect.MapSource{"Mesh": "// wgsl"},
		effect.WithCompiler(func(string) ([]byte, error) { return make([]byte, 4), nil }))
	fx := newFixture(t, WithEffects(effects))
	fx.feature.AddSelector(&SimpleGroupToRenderStageSelector{RenderStage: fx.main, EffectName: "Mesh"})
	fx.feature.AddSelector(&SimpleGroupToRenderStageSelector{RenderStage: fx.transparent, EffectName: "Missing"})
	fx.add(t, newTestObject("a", 1), newTestObject("b", 2))

	fx.sys.Prepare()
	fx.sys.Prepare()

	if effects.Loads() != 2 {
		t.Errorf("Loads() = %d, want 2 (one per name)", effects.Loads())
	}
	for _, sn := range fx.view.Stage(fx.main).SortedNodes {
		node := fx.feature.Node(sn.Node)
		if node.EffectName == "Mesh" && node.PipelineState.Effect.EffectName() != "Mesh" {
			t.Error("Mesh effect not resolved")
		}
	}
	for _, sn := range fx.view.Stage(fx.transparent).SortedNodes {
		if eff := fx.feature.Node(sn.Node).PipelineState.Effect; eff != nil {
			t.Errorf("missing effect resolved to %v, want disabled slot", eff.Name)
		}
	}
	if _, err := fx.sys.Context().LoadEffect("Missing"); !errors.Is(err, effect.ErrEffectNotFound) {
		t.Errorf("LoadEffect(Missing) error = %v, want ErrEffectNotFound", err)
	}
}

func TestCloseDestroysFeatures(t *testing.T) {
	sys := NewRenderSystem(nil)
	f, _ := GetOrCreateFeature(sys, testKind, newTestFeature)
	sys.Close()
	if !f.destroyed {
		t.Error("Close() did not destroy the feature")
	}
}
