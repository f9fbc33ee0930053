// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
)

// Kind is the feature kind of mesh objects.
var Kind = render.NewFeatureKind("mesh")

// MeshObject is one visible mesh instance.
type MeshObject struct {
	render.RenderObject

	Name string

	// Local is applied before the entity's world matrix.
	Local f32.Mat4
	Color gputypes.Color

	Transparent  bool
	ShadowCaster bool
	Selected     bool

	// Tag is matched against selector effect filters.
	Tag string
}

// NewMeshObject returns an enabled, opaque white mesh attached to entity.
func NewMeshObject(name string, entity render.Entity) *MeshObject {
	return &MeshObject{
		RenderObject: render.RenderObject{Entity: entity, Enabled: true},
		Name:         name,
		Local:        graphics.Identity(),
		Color:        gputypes.ColorWhite,
	}
}

// Kind implements render.Object.
func (m *MeshObject) Kind() render.FeatureKind { return Kind }

func (m *MeshObject) IsTransparent() bool  { return m.Transparent }
func (m *MeshObject) IsShadowCaster() bool { return m.ShadowCaster }
func (m *MeshObject) IsSelected() bool     { return m.Selected }
func (m *MeshObject) EffectTag() string    { return m.Tag }

// SortOrigin returns the world position of the mesh's local origin.
func (m *MeshObject) SortOrigin() f32.Vec3 {
	return graphics.TranslationOf(graphics.Mul(m.Local, m.World()))
}

// Transform is a render.Entity with a fixed world matrix.
type Transform struct {
	World f32.Mat4
}

// WorldMatrix implements render.Entity.
func (t *Transform) WorldMatrix() f32.Mat4 { return t.World }
