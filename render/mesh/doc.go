// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mesh provides the composite mesh render feature and the pipeline
// plugins that set it up.
//
// MeshRenderFeature owns an ordered list of sub-features (transform,
// material, lighting and the optional picking, wireframe and highlight
// contributions). Each one refines the per-node draw data and pipeline state
// of the same node during Prepare. Draw emits one SetPipelineState command
// whenever the resolved state changes and one DrawMesh command per node.
//
// Plugin order matters: MeshPipelinePlugin creates the Main and Transparent
// stages and the feature, and must run before the extension plugins, which
// look up their stage with render.GetRenderStage and fail fast:
//
//	err := render.RunPlugins(sys.Context(), sys,
//	    &mesh.MeshPipelinePlugin{},
//	    &mesh.PickingMeshPipelinePlugin{},
//	    &mesh.ShadowMeshPipelinePlugin{},
//	)
package mesh
