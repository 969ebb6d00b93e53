package fastclick

import (
	"github.com/Gleipnir-Technology/fastclick/dom"
)

// Target is anything events can be bound to. *dom.Element and *dom.Document
// satisfy it.
type Target interface {
	On(eventType string, l dom.Listener) dom.ListenerID
	OnCapture(eventType string, l dom.Listener) dom.ListenerID
	Off(eventType string, id dom.ListenerID) bool
}

// Binding owns exactly one registration of a listener on a target.
type Binding struct {
	target    Target
	eventType string
	id        dom.ListenerID
}

func newBinding(target Target, eventType string, l dom.Listener, capture bool) *Binding {
	b := &Binding{
		target:    target,
		eventType: eventType,
	}
	if capture {
		b.id = target.OnCapture(eventType, l)
	} else {
		b.id = target.On(eventType, l)
	}
	return b
}

// Bind registers l for eventType on target.
func Bind(target Target, eventType string, l dom.Listener) *Binding {
	return newBinding(target, eventType, l, false)
}

func (b *Binding) Type() string {
	return b.eventType
}

// Destroy removes the registration. It is meant to be called once; later
// calls find nothing to remove.
func (b *Binding) Destroy() {
	b.target.Off(b.eventType, b.id)
}

// Group is an ordered batch of bindings on one target that are torn down
// together.
type Group struct {
	target   Target
	bindings []*Binding
}

func NewGroup(target Target) *Group {
	return &Group{target: target}
}

func (g *Group) AddEventListener(eventType string, l dom.Listener) {
	g.bindings = append(g.bindings, Bind(g.target, eventType, l))
}

// Destroy removes every binding and leaves the group empty and reusable.
func (g *Group) Destroy() {
	for _, b := range g.bindings {
		b.Destroy()
	}
	g.bindings = nil
}

func (g *Group) Len() int {
	return len(g.bindings)
}
