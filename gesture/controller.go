// Package gesture turns pointer input into disc rotation and note toggles.
package gesture

import (
	"mandachord/debug"
	"mandachord/sequencer"
)

// State of the drag state machine
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Disc is what a drag rotates
type Disc interface {
	IsPaused() bool
	Drag(dx float64) bool
}

// Notes is what a click toggles
type Notes interface {
	Toggle(id sequencer.NoteID) error
}

// Controller drives the Idle/Dragging state machine. A drag holds a pointer
// capture from Begin until the pointer is released or the controller is cancelled.
type Controller struct {
	capture Capturer
	disc    Disc
	notes   Notes

	state   State
	lastX   float64
	release func()
}

func NewController(capture Capturer, disc Disc, notes Notes) *Controller {
	return &Controller{
		capture: capture,
		disc:    disc,
		notes:   notes,
	}
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Dragging reports whether a drag gesture is active
func (c *Controller) Dragging() bool {
	return c.state == Dragging
}

// Begin starts a drag at pointer x. It is refused while playing or while
// another drag is active; a refused Begin changes nothing.
func (c *Controller) Begin(x float64) bool {
	if c.state == Dragging || !c.disc.IsPaused() {
		return false
	}
	c.state = Dragging
	c.lastX = x
	c.release = c.capture.Capture(dragListener{c})
	debug.Log("drag", "begin x=%.1f", x)
	return true
}

// Cancel ends any drag in progress and drops its capture (view teardown)
func (c *Controller) Cancel() {
	c.end()
}

// Click toggles a note. Ignored while dragging.
func (c *Controller) Click(id sequencer.NoteID) (toggled bool, err error) {
	if c.state == Dragging {
		return false, nil
	}
	if err := c.notes.Toggle(id); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Controller) move(x float64) {
	if c.state != Dragging {
		return
	}
	dx := x - c.lastX
	c.disc.Drag(dx)
	c.lastX = x
}

func (c *Controller) end() {
	if c.release != nil {
		c.release()
		c.release = nil
	}
	if c.state == Dragging {
		debug.Log("drag", "end x=%.1f", c.lastX)
	}
	c.state = Idle
}

// dragListener keeps the pointer callbacks off the Controller's public surface
type dragListener struct {
	c *Controller
}

func (l dragListener) PointerMove(x float64) { l.c.move(x) }
func (l dragListener) PointerUp()            { l.c.end() }
