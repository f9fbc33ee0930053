// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"sync"

	"github.com/gogpu/gputypes"
)

// Texture is a sampled GPU texture as seen by the batch renderer.
type Texture interface {
	// Label identifies the texture in logs and command lists.
	Label() string
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
}

// ReadyTexture is implemented by textures whose contents arrive
// asynchronously. Ready is closed once Width and Height are final.
type ReadyTexture interface {
	Texture
	Ready() <-chan struct{}
}

// IsReady reports whether tex can be drawn. Textures that do not implement
// ReadyTexture are always ready. IsReady never blocks.
func IsReady(tex Texture) bool {
	if tex == nil {
		return false
	}
	rt, ok := tex.(ReadyTexture)
	if !ok {
		return true
	}
	select {
	case <-rt.Ready():
		return true
	default:
		return false
	}
}

// StaticTexture is a texture whose size is known at creation.
type StaticTexture struct {
	label  string
	width  uint32
	height uint32
	format gputypes.TextureFormat
}

// NewTexture creates a StaticTexture.
func NewTexture(label string, width, height uint32, format gputypes.TextureFormat) *StaticTexture {
	return &StaticTexture{label: label, width: width, height: height, format: format}
}

func (t *StaticTexture) Label() string                  { return t.label }
func (t *StaticTexture) Width() uint32                  { return t.width }
func (t *StaticTexture) Height() uint32                 { return t.height }
func (t *StaticTexture) Format() gputypes.TextureFormat { return t.format }

// AsyncTexture is a texture being streamed in by the asset system.
// Its size reads as zero until Resolve is called.
type AsyncTexture struct {
	label  string
	format gputypes.TextureFormat

	once   sync.Once
	ready  chan struct{}
	mu     sync.RWMutex
	width  uint32
	height uint32
}

var _ ReadyTexture = (*AsyncTexture)(nil)

// NewAsyncTexture creates a texture that becomes ready on Resolve.
func NewAsyncTexture(label string, format gputypes.TextureFormat) *AsyncTexture {
	return &AsyncTexture{label: label, format: format, ready: make(chan struct{})}
}

// Resolve sets the final size and signals readiness. Later calls are ignored.
func (t *AsyncTexture) Resolve(width, height uint32) {
	t.once.Do(func() {
		t.mu.Lock()
		t.width, t.height = width, height
		t.mu.Unlock()
		close(t.ready)
	})
}

func (t *AsyncTexture) Label() string                  { return t.label }
func (t *AsyncTexture) Format() gputypes.TextureFormat { return t.format }
func (t *AsyncTexture) Ready() <-chan struct{}         { return t.ready }

func (t *AsyncTexture) Width() uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.width
}

func (t *AsyncTexture) Height() uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.height
}
