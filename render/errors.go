// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
)

// Configuration errors. They indicate a wiring bug and are returned
// immediately, never retried.
var (
	// ErrStageNotFound is returned by GetRenderStage for an unknown name.
	ErrStageNotFound = errors.New("render: stage not found")

	// ErrFeatureNotFound is returned by FeatureOf when no feature of the kind
	// is registered.
	ErrFeatureNotFound = errors.New("render: feature not found")

	// ErrFeatureKindMismatch is returned when a registered feature does not
	// have the requested Go type or kind.
	ErrFeatureKindMismatch = errors.New("render: feature kind mismatch")

	// ErrNoFeatureForKind is returned by AddObject when no feature supports
	// the object's kind.
	ErrNoFeatureForKind = errors.New("render: no feature for object kind")

	// ErrDuplicateSubFeature is returned when a second sub-feature is added
	// for a role that is already filled.
	ErrDuplicateSubFeature = errors.New("render: duplicate sub-feature")

	// ErrUnboundStage is returned by selectors whose target stage is nil.
	ErrUnboundStage = errors.New("render: selector stage not bound")
)

// StageNotFoundError is returned when a stage name is not registered.
type StageNotFoundError struct {
	Name string
}

func (e *StageNotFoundError) Error() string {
	return "render: stage not found: " + e.Name
}

// Is reports whether target is ErrStageNotFound.
func (e *StageNotFoundError) Is(target error) bool {
	return target == ErrStageNotFound
}

// FeatureNotFoundError is returned when no feature of Kind is registered.
type FeatureNotFoundError struct {
	Kind FeatureKind
}

func (e *FeatureNotFoundError) Error() string {
	return "render: feature not found: " + e.Kind.String()
}

// Is reports whether target is ErrFeatureNotFound.
func (e *FeatureNotFoundError) Is(target error) bool {
	return target == ErrFeatureNotFound
}

// FeatureKindMismatchError reports a registry entry of an unexpected type.
type FeatureKindMismatchError struct {
	Kind FeatureKind
	Want string
	Got  string
}

func (e *FeatureKindMismatchError) Error() string {
	return fmt.Sprintf("render: feature %s is %s, want %s", e.Kind, e.Got, e.Want)
}

// Is reports whether target is ErrFeatureKindMismatch.
func (e *FeatureKindMismatchError) Is(target error) bool {
	return target == ErrFeatureKindMismatch
}

// DuplicateSubFeatureError reports a second sub-feature for one role.
type DuplicateSubFeatureError struct {
	Feature FeatureKind
	Role    SubFeatureRole
}

func (e *DuplicateSubFeatureError) Error() string {
	return fmt.Sprintf("render: feature %s already has a %s sub-feature", e.Feature, e.Role)
}

// Is reports whether target is ErrDuplicateSubFeature.
func (e *DuplicateSubFeatureError) Is(target error) bool {
	return target == ErrDuplicateSubFeature
}

// SelectorError is reported when a selector cannot assign an object.
// The object is dropped from that selector's stages for the frame.
type SelectorError struct {
	Feature FeatureKind
	Object  uint32
	Err     error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("render: selector failed for object %d of %s: %v", e.Object, e.Feature, e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }
