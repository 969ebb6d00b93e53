package main

import (
	"fmt"

	"github.com/Gleipnir-Technology/fastclick/dom"
	"github.com/Gleipnir-Technology/fastclick/expr"
	"github.com/Gleipnir-Technology/fastclick/fastclick"
	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/Gleipnir-Technology/fastclick/state"
	"github.com/rs/zerolog/log"
)

// page is one live document built from a Config: its elements, their taps,
// the shared expression scope and the counters shown to the user.
type page struct {
	cfg      Config
	doc      *dom.Document
	elements []*pageElement
	module   *fastclick.Module
	scope    *expr.Scope

	cancelled  int
	suppressed int

	feed         *notify.SubscriptionManager[feedEvent]
	outcomes     *notify.Subscription[fastclick.Outcome]
	suppressions *notify.Subscription[fastclick.Suppression]
}

type pageElement struct {
	cfg    ElementConfig
	el     *dom.Element
	err    string
	status state.StatusTap
	tap    *fastclick.Tap
	taps   int
}

func newPage(cfg Config, scheduler fastclick.Scheduler, feed *notify.SubscriptionManager[feedEvent]) (*page, error) {
	scope, err := expr.NewScope()
	if err != nil {
		return nil, fmt.Errorf("create scope: %w", err)
	}
	doc := dom.NewDocument(cfg.Touch)
	module := fastclick.NewModule(doc, scheduler, fastclick.BusterOptions{
		Window: cfg.Window(),
		Bubble: cfg.Bubble,
	})
	p := &page{
		cfg:          cfg,
		doc:          doc,
		feed:         feed,
		module:       module,
		scope:        scope,
		outcomes:     module.OnOutcome.Subscribe(),
		suppressions: module.Buster().OnSuppress.Subscribe(),
	}
	for _, ec := range cfg.Elements {
		el := doc.Append(ec.Name, dom.Rect{X: ec.X, Y: ec.Y, W: ec.W, H: ec.H})
		pe := &pageElement{cfg: ec, el: el}
		if ec.Expr == "" {
			pe.tap = module.Bind(el, func(*dom.Event) (any, error) { return nil, nil })
		} else {
			pe.tap, err = module.BindExpr(el, ec.Expr, scope)
			if err != nil {
				p.close()
				return nil, err
			}
		}
		p.elements = append(p.elements, pe)
	}
	log.Info().Bool("touch", cfg.Touch).Dur("window", cfg.Window()).Int("elements", len(p.elements)).Msg("page built")
	return p, nil
}

func (p *page) element(name string) *pageElement {
	for _, pe := range p.elements {
		if pe.cfg.Name == name {
			return pe
		}
	}
	return nil
}

// drain folds every pending outcome and suppression into the page counters
// and forwards them to the feed.
func (p *page) drain() {
	for {
		select {
		case o := <-p.outcomes.C:
			p.handleOutcome(o)
		case s := <-p.suppressions.C:
			p.handleSuppression(s)
		default:
			return
		}
	}
}

func (p *page) handleOutcome(o fastclick.Outcome) {
	pe := p.element(o.Element)
	if pe == nil {
		return
	}
	ev := feedEvent{
		Element: o.Element,
		Trigger: o.Trigger,
		X:       o.Start.X,
		Y:       o.Start.Y,
	}
	switch {
	case o.Kind == fastclick.OutcomeCancelled:
		p.cancelled++
		pe.status = state.StatusTapCancelled
		ev.Kind = feedCancel
	case o.Err != nil:
		pe.taps++
		pe.status = state.StatusTapFailed
		pe.err = o.Err.Error()
		ev.Kind = feedTap
		ev.Error = pe.err
	default:
		pe.taps++
		pe.status = state.StatusTapCompleted
		pe.err = ""
		ev.Kind = feedTap
	}
	p.feed.Publish(ev.stamped())
}

func (p *page) handleSuppression(s fastclick.Suppression) {
	p.suppressed++
	log.Info().Str("event", s.EventID).Float64("x", s.Click.X).Float64("y", s.Click.Y).Msg("ghost click busted")
	p.feed.Publish(feedEvent{
		Kind: feedBust,
		X:    s.Click.X,
		Y:    s.Click.Y,
	}.stamped())
}

func (p *page) snapshot() *state.Page {
	s := &state.Page{
		Touch:      p.doc.TouchCapable(),
		Window:     p.module.Buster().Window(),
		Suppressed: p.suppressed,
		Cancelled:  p.cancelled,
		Records:    []state.Record{},
	}
	for _, r := range p.module.Buster().Records() {
		s.Records = append(s.Records, state.Record{X: r.X, Y: r.Y})
	}
	for _, pe := range p.elements {
		status := pe.status
		if pe.tap.State() == fastclick.StateTouching {
			status = state.StatusTapTouching
		}
		s.Elements = append(s.Elements, &state.Element{
			Name:   pe.cfg.Name,
			X:      pe.cfg.X,
			Y:      pe.cfg.Y,
			W:      pe.cfg.W,
			H:      pe.cfg.H,
			Expr:   pe.cfg.Expr,
			Status: status,
			Taps:   pe.taps,
			Values: p.scope.Values(pe.cfg.Watch),
			Error:  pe.err,
		})
	}
	return s
}

func (p *page) close() {
	p.outcomes.Close()
	p.suppressions.Close()
	p.module.Close()
	p.scope.Close()
}
