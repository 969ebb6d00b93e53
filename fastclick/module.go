package fastclick

import (
	"fmt"

	"github.com/Gleipnir-Technology/fastclick/dom"
	"github.com/Gleipnir-Technology/fastclick/expr"
	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/rs/zerolog/log"
)

// Module is the binding surface a page uses: it owns the one Buster for the
// document and creates a Tap for every element bound through it.
type Module struct {
	OnOutcome *notify.SubscriptionManager[Outcome]

	buster *Buster
	doc    *dom.Document
	taps   []*Tap
}

func NewModule(doc *dom.Document, scheduler Scheduler, opts BusterOptions) *Module {
	return &Module{
		OnOutcome: notify.NewSubscriptionManager[Outcome](),
		buster:    NewBuster(doc, scheduler, opts),
		doc:       doc,
	}
}

func (m *Module) Buster() *Buster {
	return m.buster
}

// Bind attaches handler to el as its logical click handler.
func (m *Module) Bind(el *dom.Element, handler Handler) *Tap {
	t := NewTap(el, handler, m.buster, TapOptions{
		Touch:    m.doc.TouchCapable(),
		Outcomes: m.OnOutcome,
	})
	m.taps = append(m.taps, t)
	log.Debug().Str("element", el.Name).Bool("touch", m.doc.TouchCapable()).Msg("bound fast click")
	return t
}

// BindExpr compiles source in scope and binds it to el. The expression sees
// the completing event as `event`.
func (m *Module) BindExpr(el *dom.Element, source string, scope *expr.Scope) (*Tap, error) {
	e, err := scope.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", el.Name, err)
	}
	return m.Bind(el, func(ev *dom.Event) (any, error) {
		return scope.Eval(e, map[string]any{"event": EventLocals(ev)})
	}), nil
}

// EventLocals is the view of ev that handler expressions receive.
func EventLocals(ev *dom.Event) map[string]any {
	locals := map[string]any{
		"id":      ev.ID,
		"type":    ev.Type,
		"clientX": ev.ClientX,
		"clientY": ev.ClientY,
	}
	if ev.Target != nil {
		locals["target"] = ev.Target.Name
	}
	return locals
}

func (m *Module) Taps() []*Tap {
	out := make([]*Tap, len(m.taps))
	copy(out, m.taps)
	return out
}

// Close destroys every Tap and unbinds the Buster.
func (m *Module) Close() {
	for _, t := range m.taps {
		t.Destroy()
	}
	m.taps = nil
	m.buster.Close()
}
