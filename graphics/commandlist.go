// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// CommandKind identifies a recorded command.
type CommandKind uint8

const (
	// CommandSetPipelineState binds Command.State.
	CommandSetPipelineState CommandKind = iota
	// CommandDrawMesh draws one mesh with Command.World and Command.Color.
	CommandDrawMesh
	// CommandSubmitSprites submits Command.Sprites under Command.Batch.
	CommandSubmitSprites
)

// String returns the command kind name.
func (k CommandKind) String() string {
	switch k {
	case CommandSetPipelineState:
		return "SetPipelineState"
	case CommandDrawMesh:
		return "DrawMesh"
	case CommandSubmitSprites:
		return "SubmitSprites"
	default:
		return "Unknown"
	}
}

// Command is one recorded GPU submission.
type Command struct {
	Kind CommandKind

	State PipelineStateDescription

	Label string
	World f32.Mat4
	Color gputypes.Color

	Batch   BatchParams
	Sprites []SpriteInstance
}

// CommandList records commands for one draw range. A CommandList is not
// safe for concurrent use; parallel ranges each record into their own list.
type CommandList struct {
	cmds []Command
}

// NewCommandList creates an empty command list.
func NewCommandList() *CommandList {
	return &CommandList{}
}

// Append records cmd.
func (l *CommandList) Append(cmd Command) {
	l.cmds = append(l.cmds, cmd)
}

// AppendList appends every command of o, preserving order.
func (l *CommandList) AppendList(o *CommandList) {
	l.cmds = append(l.cmds, o.cmds...)
}

// SetPipelineState records a state bind.
func (l *CommandList) SetPipelineState(state *PipelineStateDescription) {
	l.cmds = append(l.cmds, Command{Kind: CommandSetPipelineState, State: *state})
}

// DrawMesh records a mesh draw.
func (l *CommandList) DrawMesh(label string, world f32.Mat4, color gputypes.Color) {
	l.cmds = append(l.cmds, Command{Kind: CommandDrawMesh, Label: label, World: world, Color: color})
}

// Commands returns the recorded commands. The slice is owned by the list.
func (l *CommandList) Commands() []Command { return l.cmds }

// Len returns the number of recorded commands.
func (l *CommandList) Len() int { return len(l.cmds) }

// Reset clears the list, keeping its storage.
func (l *CommandList) Reset() {
	clear(l.cmds)
	l.cmds = l.cmds[:0]
}
