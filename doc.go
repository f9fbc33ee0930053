// Package xrender is a render-stage / render-feature pipeline for Go.
//
// # Overview
//
// xrender sits between scene data and the graphics API. Renderable objects
// visible from a view are grouped into ordered render stages, per-object
// pipeline state (blend, depth-stencil, rasterizer, effect) is resolved, and
// draw calls are issued through render features that each batch one object
// kind (meshes, sprites).
//
// # Quick Start
//
//	sys := render.NewRenderSystem(graphics.NewNullDevice(), render.WithEffects(effects))
//	defer sys.Close()
//	render.GetOrCreateRenderStage(sys, render.StageWireFrame, "WireFrame", sys.Device().PresenterOutput())
//	if err := render.RunPlugins(sys.Context(), sys,
//	    &mesh.MeshPipelinePlugin{},
//	    &mesh.WireFrameMeshPipelinePlugin{},
//	); err != nil {
//	    log.Fatal(err)
//	}
//
//	view := sys.AddView(render.NewRenderView("main"))
//	_ = sys.AddObject(mesh.NewMeshObject("crate", entity))
//
//	out := graphics.NewCommandList()
//	for range frames {
//	    sys.Prepare()
//	    out.Reset()
//	    if err := sys.Draw(view, out); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// The same system can be described in a TOML or YAML file and built with
// config.Build.
//
// # Architecture
//
// The module is organized into:
//   - render: stages, selectors, features, plugins, RenderSystem
//   - render/mesh, render/sprite: concrete features and their plugins
//   - graphics: device capability surface, state presets, sprite batch
//   - effect: named effect loading with awaitable futures
//   - audio: audio engine lifecycle consumed by the host; audio/beepdev plays it through beep
//   - backend/wgpu: translation of pipeline states to wgpu pipelines
//   - config: declarative pipeline files
//   - cache: sharded LRU cache used for GPU pipelines
//
// # Logging
//
// All packages log through [Logger]. Logging is disabled by default; see
// [SetLogger].
package xrender

// Version is the current version of the library.
const Version = "0.1.0"
