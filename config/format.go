package config

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrender/render"
)

var (
	// ErrUnknownTextureFormat is returned for stage formats not in the table.
	ErrUnknownTextureFormat = errors.New("config: unknown texture format")

	// ErrUnknownSortMode is returned for unknown stage sort modes.
	ErrUnknownSortMode = errors.New("config: unknown sort mode")
)

// textureFormats is keyed by the folded gputypes name of each format.
var textureFormats = func() map[string]gputypes.TextureFormat {
	m := make(map[string]gputypes.TextureFormat)
	for _, f := range []gputypes.TextureFormat{
		gputypes.TextureFormatUndefined,
		gputypes.TextureFormatR8Unorm,
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float,
	} {
		m[fold(f.String())] = f
	}
	return m
}()

// ParseTextureFormat parses a format by its gputypes name, ignoring case.
func ParseTextureFormat(s string) (gputypes.TextureFormat, error) {
	if f, ok := textureFormats[fold(s)]; ok {
		return f, nil
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %q", ErrUnknownTextureFormat, s)
}

// ParseSortMode parses a stage sort mode; "" is SortModeStateChange.
func ParseSortMode(s string) (render.SortMode, error) {
	if s == "" {
		return render.SortModeStateChange, nil
	}
	for _, m := range []render.SortMode{render.SortModeStateChange, render.SortModeFrontToBack, render.SortModeBackToFront} {
		if fold(m.String()) == fold(s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
}
