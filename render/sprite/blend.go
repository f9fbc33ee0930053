// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrender/graphics"
)

// ErrUnknownBlendMode is returned from Draw for a node whose blend mode is
// not one of the defined BlendMode values.
var ErrUnknownBlendMode = errors.New("sprite: unknown blend mode")

// BlendMode is the colour blending of a sprite rig node.
type BlendMode uint8

const (
	BlendMix BlendMode = iota
	BlendMultiplication
	BlendAddition
	BlendSubtraction
)

func (m BlendMode) String() string {
	switch m {
	case BlendMix:
		return "Mix"
	case BlendMultiplication:
		return "Multiplication"
	case BlendAddition:
		return "Addition"
	case BlendSubtraction:
		return "Subtraction"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint8(m))
	}
}

// Valid reports whether m is a defined blend mode.
func (m BlendMode) Valid() bool { return m <= BlendSubtraction }

// MultBlendState multiplies the destination by the source colour.
var MultBlendState = graphics.BlendStateDescription{
	Label:   "Multiplication",
	Enabled: true,
	State: gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorDst,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorZero,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	},
	WriteMask: gputypes.ColorWriteMaskAll,
}

// SubBlendState subtracts the alpha-weighted source from the destination.
var SubBlendState = graphics.BlendStateDescription{
	Label:   "Subtraction",
	Enabled: true,
	State: gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationReverseSubtract,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationReverseSubtract,
		},
	},
	WriteMask: gputypes.ColorWriteMaskAll,
}

// BlendState returns the blend state drawing a node in mode m.
func BlendState(m BlendMode) (graphics.BlendStateDescription, error) {
	switch m {
	case BlendMix:
		return graphics.BlendStates.AlphaBlend, nil
	case BlendMultiplication:
		return MultBlendState, nil
	case BlendAddition:
		return graphics.BlendStates.Additive, nil
	case BlendSubtraction:
		return SubBlendState, nil
	default:
		return graphics.BlendStateDescription{}, fmt.Errorf("%w: %s", ErrUnknownBlendMode, m)
	}
}
