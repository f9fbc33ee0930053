// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender/graphics"
)

// Entity is the scene-side owner of a render object's transform.
// A render object refers to its entity but never owns it.
type Entity interface {
	WorldMatrix() f32.Mat4
}

// StageMask selects the stages an object may be drawn in, one bit per stage
// index. The zero mask includes every stage.
type StageMask uint64

// Includes reports whether the mask admits stage.
func (m StageMask) Includes(stage *RenderStage) bool {
	if m == 0 {
		return true
	}
	if stage.Index >= 64 {
		return false
	}
	return m&(1<<uint(stage.Index)) != 0
}

// RenderObject is the part of a renderable instance the scheduler works on.
// Concrete objects (meshes, sprites) embed it and implement Object.
type RenderObject struct {
	Entity    Entity
	Enabled   bool
	StageMask StageMask

	runtimeID uint32
	owner     *RootFeatureBase
	index     int
}

// RenderObjectBase returns o. It lets types embedding RenderObject satisfy Object.
func (o *RenderObject) RenderObjectBase() *RenderObject { return o }

// RuntimeID is the object's id for the lifetime of its registration.
// Zero means the object is not registered.
func (o *RenderObject) RuntimeID() uint32 { return o.runtimeID }

// Registered reports whether the object is in a feature's object table.
func (o *RenderObject) Registered() bool { return o.owner != nil }

// World returns the entity world matrix, or identity without an entity.
func (o *RenderObject) World() f32.Mat4 {
	if o.Entity == nil {
		return f32.Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	}
	return o.Entity.WorldMatrix()
}

// OnlyInStages restricts the object to the given stages.
func (o *RenderObject) OnlyInStages(stages ...*RenderStage) {
	o.StageMask = 0
	for _, s := range stages {
		if s.Index < 64 {
			o.StageMask |= 1 << uint(s.Index)
		}
	}
}

// Object is a renderable instance routed to the feature supporting Kind.
type Object interface {
	RenderObjectBase() *RenderObject
	// Kind is the object type; the feature with the same kind owns it.
	Kind() FeatureKind
}

// Optional object capabilities read by selectors and features.
type (
	// Transparency routes objects to transparent stages.
	Transparency interface{ IsTransparent() bool }
	// ShadowCaster marks objects drawn into shadow maps.
	ShadowCaster interface{ IsShadowCaster() bool }
	// EffectTagged exposes the effect name an object was authored for.
	EffectTagged interface{ EffectTag() string }
	// Selectable marks objects selected in the host (highlight, selection effect).
	Selectable interface{ IsSelected() bool }
	// SortOrigined objects are sorted by distance to SortOrigin instead of
	// the origin of their entity.
	SortOrigined interface{ SortOrigin() f32.Vec3 }
)

// sortOrigin returns the world-space point obj is depth sorted by.
func sortOrigin(obj Object) f32.Vec3 {
	if o, ok := obj.(SortOrigined); ok {
		return o.SortOrigin()
	}
	return graphics.TranslationOf(obj.RenderObjectBase().World())
}

// PickingColor encodes a runtime id into an opaque color for picking stages.
func PickingColor(id uint32) gputypes.Color {
	return gputypes.Color{
		R: float64(id&0xff) / 255,
		G: float64((id>>8)&0xff) / 255,
		B: float64((id>>16)&0xff) / 255,
		A: 1,
	}
}
