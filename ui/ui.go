package ui

import (
	"context"
	"io"

	"github.com/Gleipnir-Technology/fastclick/state"
)

type EventType int

const (
	EventNone EventType = iota
	EventExit
	EventResize
	EventUpdate // forcibly redraw
	EventPointer
	EventToggleTouch
)

// Phase is where a pointer event sits in a press/drag/release gesture.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	}
	return "unknown"
}

// Event is input from the user. Pointer coordinates are page pixels.
type Event struct {
	Type  EventType
	Phase Phase
	X     float64
	Y     float64
}
type UI interface {
	Close()
	Run(context.Context, chan<- Event, <-chan *state.Page) error
}

// Scale maps terminal cells to page pixels.
type Scale struct {
	CellWidth  float64
	CellHeight float64
}

func NewTUI(title string, scale Scale) (UI, error) {
	return newUITcell(title, scale)
}

func NewFlat(out io.Writer) (UI, error) {
	return newUIFlat(out)
}
