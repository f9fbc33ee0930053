package effect

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// ErrEffectNotFound is returned when a Source has no effect of the requested name.
var ErrEffectNotFound = errors.New("effect: not found")

// NotFoundError is returned when a named effect cannot be resolved.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "effect: not found: " + e.Name
}

// Is reports whether target is ErrEffectNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrEffectNotFound
}

// Source resolves an effect name to WGSL source text.
type Source interface {
	Lookup(name string) (string, error)
}

// MapSource is an in-memory Source.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(name string) (string, error) {
	src, ok := m[name]
	if !ok {
		return "", &NotFoundError{Name: name}
	}
	return src, nil
}

// FSSource resolves effect names to files "<Dir>/<name>.wgsl" in an fs.FS.
type FSSource struct {
	FS  fs.FS
	Dir string
}

// Lookup implements Source.
func (s FSSource) Lookup(name string) (string, error) {
	p := path.Join(s.Dir, name+".wgsl")
	data, err := fs.ReadFile(s.FS, p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &NotFoundError{Name: name}
	}
	if err != nil {
		return "", fmt.Errorf("effect: read %s: %w", p, err)
	}
	return string(data), nil
}
