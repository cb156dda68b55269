package scene

import (
	"fmt"

	"github.com/1siamBot/steering-playground/engine/vecmath"
)

// CmdType identifies a pointer command
type CmdType uint8

const (
	CmdPointerDown CmdType = iota
	CmdPointerMove
	CmdPointerUp
)

func (t CmdType) String() string {
	switch t {
	case CmdPointerDown:
		return "pointer_down"
	case CmdPointerMove:
		return "pointer_move"
	case CmdPointerUp:
		return "pointer_up"
	default:
		return fmt.Sprintf("CmdType(%d)", uint8(t))
	}
}

// Command is host input queued for the next tick boundary
type Command struct {
	Tick uint64 // tick count when the command was queued
	Type CmdType
	Pos  vecmath.Vec2
}

// commandQueue holds commands until the simulation is between ticks
type commandQueue struct {
	pending []Command
}

func (q *commandQueue) push(c Command) {
	q.pending = append(q.pending, c)
}

// drain returns queued commands in arrival order and empties the queue
func (q *commandQueue) drain() []Command {
	cmds := q.pending
	q.pending = nil
	return cmds
}

func (q *commandQueue) size() int { return len(q.pending) }
