// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/graphics"
)

var (
	testKind  = NewFeatureKind("test")
	otherKind = NewFeatureKind("other")
)

type testEntity struct{ world f32.Mat4 }

func (e *testEntity) WorldMatrix() f32.Mat4 { return e.world }

type testObject struct {
	RenderObject
	name        string
	transparent bool
	caster      bool
	tag         string
}

func (o *testObject) Kind() FeatureKind    { return testKind }
func (o *testObject) IsTransparent() bool  { return o.transparent }
func (o *testObject) IsShadowCaster() bool { return o.caster }
func (o *testObject) EffectTag() string    { return o.tag }

func newTestObject(name string, z float32) *testObject {
	return &testObject{
		RenderObject: RenderObject{Enabled: true, Entity: &testEntity{world: graphics.Translation(0, 0, z)}},
		name:         name,
	}
}

// testFeature draws one DrawMesh per node, binding state on change.
type testFeature struct {
	RootFeatureBase
	destroyed bool
	failAt    string
}

func newTestFeature() *testFeature {
	f := &testFeature{}
	f.InitBase(testKind, f)
	return f
}

func (f *testFeature) Destroy() { f.destroyed = true }

func (f *testFeature) Draw(ctx *RenderDrawContext, _ *RenderView, stage *RenderViewStage, start, end int) error {
	var prev *graphics.PipelineStateDescription
	for i := start; i < end; i++ {
		node := f.Node(stage.SortedNodes[i].Node)
		obj := node.Object().(*testObject)
		if obj.name == f.failAt {
			return errors.New("bad object " + obj.name)
		}
		if prev == nil || !prev.Equal(&node.PipelineState) {
			ctx.CommandList.SetPipelineState(&node.PipelineState)
			prev = &node.PipelineState
		}
		ctx.CommandList.DrawMesh(obj.name, node.Object().RenderObjectBase().World(), gputypes.ColorWhite)
	}
	return nil
}

// flatten renders a command list as the state each mesh was drawn with,
// ignoring where state binds happened.
func flatten(cl *graphics.CommandList) []string {
	var out []string
	var state string
	for _, c := range cl.Commands() {
		switch c.Kind {
		case graphics.CommandSetPipelineState:
			state = fmt.Sprintf("%s/%s/%s", c.State.BlendState.Label, c.State.DepthStencilState.Label, c.State.RasterizerState.Label)
		case graphics.CommandDrawMesh:
			out = append(out, state+":"+c.Label)
		}
	}
	return out
}

func expectInternalError(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		var ie *xrender.InternalError
		if !ok || !errors.As(err, &ie) {
			t.Fatalf("recovered %v, want *xrender.InternalError", r)
		}
	}()
	fn()
}
