package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/effect"
	"github.com/gogpu/xrender/graphics"
	"github.com/gogpu/xrender/render"
)

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	catalog  *Catalog
	effects  fs.FS
	compiler effect.Compiler
	render   []render.Option
}

// WithCatalog replaces DefaultCatalog.
func WithCatalog(c *Catalog) BuildOption {
	return func(o *buildOptions) {
		o.catalog = c
	}
}

// WithEffectFS loads effects from fsys instead of the directory named in
// the file.
func WithEffectFS(fsys fs.FS) BuildOption {
	return func(o *buildOptions) {
		o.effects = fsys
	}
}

// WithEffectCompiler replaces the naga effect compiler.
func WithEffectCompiler(c effect.Compiler) BuildOption {
	return func(o *buildOptions) {
		o.compiler = c
	}
}

// WithRenderOptions passes extra options to render.NewRenderSystem.
func WithRenderOptions(opts ...render.Option) BuildOption {
	return func(o *buildOptions) {
		o.render = append(o.render, opts...)
	}
}

// Build creates a render system for p on device: it pre-creates the listed
// stages, runs the plugins in order and preloads effects. A nil device uses
// a null device.
func Build(ctx context.Context, p *Pipeline, device *graphics.Device, opts ...BuildOption) (*render.RenderSystem, *effect.System, error) {
	o := buildOptions{catalog: DefaultCatalog()}
	for _, opt := range opts {
		opt(&o)
	}
	if device == nil {
		device = graphics.NewNullDevice()
	}

	plugins := make([]render.PipelinePlugin, 0, len(p.Plugins))
	for _, pc := range p.Plugins {
		pl, err := o.catalog.New(pc.Name, pc.Effect)
		if err != nil {
			return nil, nil, err
		}
		plugins = append(plugins, pl)
	}

	fsys := o.effects
	if fsys == nil && p.Effects.Dir != "" {
		fsys = os.DirFS(p.Effects.Dir)
	}
	var effects *effect.System
	ropts := []render.Option{render.WithContext(ctx)}
	if fsys != nil {
		var eopts []effect.Option
		if o.compiler != nil {
			eopts = append(eopts, effect.WithCompiler(o.compiler))
		}
		effects = effect.NewSystem(effect.FSSource{FS: fsys}, eopts...)
		ropts = append(ropts, render.WithEffects(effects))
	}
	if p.Parallel.Workers != 0 {
		ropts = append(ropts, render.WithParallelDraw(p.Parallel.Workers, p.Parallel.MinRange))
	}
	ropts = append(ropts, o.render...)

	sys := render.NewRenderSystem(device, ropts...)
	if err := createStages(sys, p.Stages); err != nil {
		sys.Close()
		return nil, nil, err
	}
	if err := render.RunPlugins(sys.Context(), sys, plugins...); err != nil {
		sys.Close()
		return nil, nil, err
	}

	if len(p.Effects.Preload) > 0 {
		if effects == nil {
			sys.Close()
			return nil, nil, fmt.Errorf("config: preload %v without an effect directory", p.Effects.Preload)
		}
		if err := effects.Preload(ctx, p.Effects.Preload...); err != nil {
			sys.Close()
			return nil, nil, fmt.Errorf("config: preload effects: %w", err)
		}
	}

	xrender.Logger().Info("config: pipeline built", "stages", len(sys.RenderStages()),
		"plugins", len(plugins), "features", sys.FeatureCount())
	return sys, effects, nil
}

func createStages(sys *render.RenderSystem, stages []Stage) error {
	for _, st := range stages {
		if st.Name == "" {
			return errors.New("config: stage without a name")
		}
		out := sys.Device().PresenterOutput()
		if st.Color != "" {
			f, err := ParseTextureFormat(st.Color)
			if err != nil {
				return fmt.Errorf("config: stage %s color: %w", st.Name, err)
			}
			out.Color = f
		}
		if st.Depth != "" {
			f, err := ParseTextureFormat(st.Depth)
			if err != nil {
				return fmt.Errorf("config: stage %s depth: %w", st.Name, err)
			}
			out.DepthStencil = f
		}
		mode, err := ParseSortMode(st.Sort)
		if err != nil {
			return fmt.Errorf("config: stage %s: %w", st.Name, err)
		}
		slot := st.EffectSlot
		if slot == "" {
			slot = st.Name
		}
		render.GetOrCreateRenderStage(sys, st.Name, slot, out, render.WithSortMode(mode))
	}
	return nil
}
