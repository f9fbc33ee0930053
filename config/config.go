// Package config reads declarative render pipeline files and builds a
// RenderSystem from them.
//
// A pipeline file lists stages to pre-create, plugins to run in order,
// effects to preload and parallel draw settings. TOML and YAML are
// accepted:
//
//	[[stages]]
//	name = "Main"
//	sort = "StateChange"
//
//	[[plugins]]
//	name = "Mesh"
//
//	[[plugins]]
//	name = "mesh-picking"
//	effect = "PickingEffect"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Format is a pipeline file encoding.
type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "YAML"
	}
	return "TOML"
}

// Pipeline is the decoded pipeline file.
type Pipeline struct {
	Stages   []Stage  `toml:"stages" yaml:"stages"`
	Plugins  []Plugin `toml:"plugins" yaml:"plugins"`
	Effects  Effects  `toml:"effects" yaml:"effects"`
	Parallel Parallel `toml:"parallel" yaml:"parallel"`
}

// Stage pre-creates a render stage. Since the first registration of a name
// wins, stages listed here override the defaults of the plugins.
type Stage struct {
	Name       string `toml:"name" yaml:"name"`
	EffectSlot string `toml:"effect_slot" yaml:"effect_slot"`
	Color      string `toml:"color" yaml:"color"`
	Depth      string `toml:"depth" yaml:"depth"`
	Sort       string `toml:"sort" yaml:"sort"`
}

// Plugin names a catalog plugin and optionally overrides its effect.
type Plugin struct {
	Name   string `toml:"name" yaml:"name"`
	Effect string `toml:"effect" yaml:"effect"`
}

// Effects configures effect loading.
type Effects struct {
	// Dir is searched for "<name>.wgsl" files.
	Dir     string   `toml:"dir" yaml:"dir"`
	Preload []string `toml:"preload" yaml:"preload"`
}

// Parallel configures parallel stage draw. Zero Workers disables it.
type Parallel struct {
	Workers  int `toml:"workers" yaml:"workers"`
	MinRange int `toml:"min_range" yaml:"min_range"`
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads and decodes the pipeline file at path.
func Load(path string) (*Pipeline, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	p, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return p, nil
}

// Decode parses a pipeline file. Unknown keys are rejected.
func Decode(data []byte, format Format) (*Pipeline, error) {
	var p Pipeline
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	return &p, nil
}
