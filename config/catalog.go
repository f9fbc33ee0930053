package config

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/text/cases"

	"github.com/gogpu/xrender/render"
	"github.com/gogpu/xrender/render/mesh"
	"github.com/gogpu/xrender/render/sprite"
)

// ErrUnknownPlugin matches *UnknownPluginError.
var ErrUnknownPlugin = errors.New("config: unknown plugin")

// UnknownPluginError reports a plugin name missing from the catalog.
type UnknownPluginError struct {
	Name string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("config: unknown plugin %q", e.Name)
}

func (e *UnknownPluginError) Is(target error) bool { return target == ErrUnknownPlugin }

// PluginFactory creates a plugin; effect is "" for the plugin default.
type PluginFactory func(effect string) render.PipelinePlugin

// Catalog maps plugin names to factories. Names match case-insensitively
// under Unicode case folding.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]PluginFactory
	names     []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]PluginFactory)}
}

func fold(name string) string {
	return cases.Fold().String(name)
}

// Register adds a factory under name, replacing any earlier one.
func (c *Catalog) Register(name string, f PluginFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := fold(name)
	if _, ok := c.factories[key]; !ok {
		c.names = append(c.names, name)
	}
	c.factories[key] = f
}

// New creates the plugin registered as name.
func (c *Catalog) New(name, effect string) (render.PipelinePlugin, error) {
	c.mu.RLock()
	f, ok := c.factories[fold(name)]
	c.mu.RUnlock()
	if !ok {
		return nil, &UnknownPluginError{Name: name}
	}
	return f(effect), nil
}

// Names returns the registered names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.names)
}

// DefaultCatalog returns a catalog of the bundled mesh and sprite plugins,
// registered under their Name.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, f := range []PluginFactory{
		func(e string) render.PipelinePlugin { return &mesh.MeshPipelinePlugin{EffectName: e} },
		func(e string) render.PipelinePlugin { return &mesh.PickingMeshPipelinePlugin{EffectName: e} },
		func(e string) render.PipelinePlugin { return &mesh.WireFrameMeshPipelinePlugin{EffectName: e} },
		func(e string) render.PipelinePlugin { return &mesh.HighlightMeshPipelinePlugin{EffectName: e} },
		func(e string) render.PipelinePlugin { return &mesh.ShadowMeshPipelinePlugin{EffectName: e} },
		func(e string) render.PipelinePlugin { return &sprite.SpritePipelinePlugin{EffectName: e} },
		func(e string) render.PipelinePlugin { return &sprite.SpriteStudioPipelinePlugin{EffectName: e} },
		func(string) render.PipelinePlugin { return &sprite.SpritePickingPlugin{} },
	} {
		c.Register(f("").Name(), f)
	}
	return c
}
