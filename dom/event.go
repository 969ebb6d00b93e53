package dom

import (
	"github.com/google/uuid"
)

const (
	Click      = "click"
	TouchStart = "touchstart"
	TouchMove  = "touchmove"
	TouchEnd   = "touchend"
)

// Result is what a listener asks the dispatcher to do with the event after it
// returns. The two flags are independent: stopping propagation does not cancel
// the default action and vice versa.
type Result uint8

const (
	Continue        Result = 0
	StopPropagation Result = 1 << 0
	PreventDefault  Result = 1 << 1
)

func (r Result) Has(flag Result) bool {
	return r&flag == flag
}

func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case StopPropagation:
		return "stop"
	case PreventDefault:
		return "prevent"
	case StopPropagation | PreventDefault:
		return "stop+prevent"
	}
	return "unknown"
}

type Phase int

const (
	PhaseNone Phase = iota
	PhaseCapture
	PhaseTarget
	PhaseBubble
)

// Touch is one active contact point of a touch event.
type Touch struct {
	ClientX float64
	ClientY float64
}

type Event struct {
	ID      string
	Type    string
	ClientX float64
	ClientY float64
	// Touches lists the contacts still on the surface. It is empty for
	// touchend.
	Touches []Touch

	Target        *Element
	CurrentTarget *Element
	Phase         Phase

	result Result
}

func NewEvent(eventType string, x, y float64) *Event {
	return &Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		ClientX: x,
		ClientY: y,
	}
}

// NewClick builds a native click at the given client coordinates.
func NewClick(x, y float64) *Event {
	return NewEvent(Click, x, y)
}

// NewTouch builds a touch event. touchstart and touchmove carry a single
// active contact at (x, y); touchend carries none.
func NewTouch(eventType string, x, y float64) *Event {
	e := NewEvent(eventType, x, y)
	if eventType != TouchEnd {
		e.Touches = []Touch{{ClientX: x, ClientY: y}}
	}
	return e
}

// FirstTouch returns the first active contact.
func (e *Event) FirstTouch() (Touch, bool) {
	if len(e.Touches) == 0 {
		return Touch{}, false
	}
	return e.Touches[0], true
}

func (e *Event) PropagationStopped() bool {
	return e.result.Has(StopPropagation)
}

func (e *Event) DefaultPrevented() bool {
	return e.result.Has(PreventDefault)
}

// Result is the accumulated result of every listener that has seen the event.
func (e *Event) Result() Result {
	return e.result
}
