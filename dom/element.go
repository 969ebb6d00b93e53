package dom

import (
	"sync"
)

// Listener handles one dispatched event and reports what should happen next.
type Listener func(*Event) Result

// ListenerID identifies one registration on one element. Functions cannot be
// compared in Go, so removal goes through the ID handed out on registration.
type ListenerID uint64

type entry struct {
	id       ListenerID
	listener Listener
	capture  bool
}

type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type Element struct {
	Name   string
	Bounds Rect

	children []*Element
	parent   *Element

	mu        sync.RWMutex
	listeners map[string][]entry
	nextID    ListenerID
}

func newElement(name string, bounds Rect, parent *Element) *Element {
	return &Element{
		Name:      name,
		Bounds:    bounds,
		parent:    parent,
		listeners: make(map[string][]entry),
		nextID:    1,
	}
}

// Append creates a child element.
func (e *Element) Append(name string, bounds Rect) *Element {
	child := newElement(name, bounds, e)
	e.mu.Lock()
	e.children = append(e.children, child)
	e.mu.Unlock()
	return child
}

func (e *Element) Children() []*Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) Parent() *Element {
	return e.parent
}

func (e *Element) String() string {
	return e.Name
}

// On registers l for the bubble and target phases of eventType.
func (e *Element) On(eventType string, l Listener) ListenerID {
	return e.add(eventType, l, false)
}

// OnCapture registers l for the capture and target phases of eventType.
func (e *Element) OnCapture(eventType string, l Listener) ListenerID {
	return e.add(eventType, l, true)
}

func (e *Element) add(eventType string, l Listener, capture bool) ListenerID {
	if l == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[eventType] = append(e.listeners[eventType], entry{
		id:       id,
		listener: l,
		capture:  capture,
	})
	return id
}

// Off removes the registration with the given id. It reports whether a
// registration was removed.
func (e *Element) Off(eventType string, id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := e.listeners[eventType]
	for i, en := range entries {
		if en.id == id {
			e.listeners[eventType] = append(entries[:i:i], entries[i+1:]...)
			if len(e.listeners[eventType]) == 0 {
				delete(e.listeners, eventType)
			}
			return true
		}
	}
	return false
}

func (e *Element) ListenerCount(eventType string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[eventType])
}

func (e *Element) snapshot(eventType string) []entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]entry, len(e.listeners[eventType]))
	copy(out, e.listeners[eventType])
	return out
}

// Dispatch delivers ev with e as the target: capture listeners from the root
// down to e's parent, every listener on e, then bubble listeners from e's
// parent up to the root. Once a listener returns StopPropagation the current
// element finishes and no further element sees the event.
func (e *Element) Dispatch(ev *Event) Result {
	ev.Target = e
	var path []*Element
	for p := e.parent; p != nil; p = p.parent {
		path = append(path, p)
	}

	for i := len(path) - 1; i >= 0; i-- {
		if path[i].invoke(ev, PhaseCapture) {
			return ev.result
		}
	}
	if e.invoke(ev, PhaseTarget) {
		return ev.result
	}
	for _, p := range path {
		if p.invoke(ev, PhaseBubble) {
			return ev.result
		}
	}
	ev.CurrentTarget = nil
	ev.Phase = PhaseNone
	return ev.result
}

// invoke runs the listeners registered for phase and reports whether
// propagation has been stopped.
func (e *Element) invoke(ev *Event, phase Phase) bool {
	ev.CurrentTarget = e
	ev.Phase = phase
	for _, en := range e.snapshot(ev.Type) {
		if phase == PhaseCapture && !en.capture {
			continue
		}
		if phase == PhaseBubble && en.capture {
			continue
		}
		ev.result |= en.listener(ev)
	}
	return ev.PropagationStopped()
}
