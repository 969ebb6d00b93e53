package main

import (
	"math"
	"time"

	"github.com/Gleipnir-Technology/fastclick/dom"
	"github.com/Gleipnir-Technology/fastclick/fastclick"
	"github.com/rs/zerolog/log"
)

// browserSlop is how far a finger may travel before the browser treats the
// gesture as a scroll and sends no click.
const browserSlop = 10.0

// emulator turns pointer input into the events a mobile browser would
// deliver: touches on the pressed element, then the native click
// clickDelay after release at the release point.
type emulator struct {
	clickDelay time.Duration
	doc        *dom.Document
	scheduler  fastclick.Scheduler
	// onDispatch sees every event after it has been dispatched.
	onDispatch func(*dom.Event)

	active bool
	downX  float64
	downY  float64
	moved  bool
	target *dom.Element
}

func newEmulator(doc *dom.Document, scheduler fastclick.Scheduler, clickDelay time.Duration) *emulator {
	return &emulator{
		clickDelay: clickDelay,
		doc:        doc,
		scheduler:  scheduler,
	}
}

func (e *emulator) Down(x, y float64) {
	e.active = true
	e.downX, e.downY = x, y
	e.moved = false
	e.target = e.doc.HitTest(x, y)
	if e.doc.TouchCapable() {
		e.dispatch(e.target, dom.NewTouch(dom.TouchStart, x, y))
	}
}

func (e *emulator) Move(x, y float64) {
	if !e.active {
		return
	}
	if math.Abs(x-e.downX) > browserSlop || math.Abs(y-e.downY) > browserSlop {
		e.moved = true
	}
	if e.doc.TouchCapable() {
		e.dispatch(e.target, dom.NewTouch(dom.TouchMove, x, y))
	}
}

func (e *emulator) Up(x, y float64) {
	if !e.active {
		return
	}
	e.active = false
	if !e.doc.TouchCapable() {
		if !e.moved {
			e.dispatch(e.doc.HitTest(x, y), dom.NewClick(x, y))
		}
		return
	}
	e.dispatch(e.target, dom.NewTouch(dom.TouchEnd, x, y))
	if e.moved {
		return
	}
	e.scheduler.Schedule(func() {
		e.dispatch(e.doc.HitTest(x, y), dom.NewClick(x, y))
	}, e.clickDelay)
}

func (e *emulator) dispatch(target *dom.Element, ev *dom.Event) {
	result := target.Dispatch(ev)
	log.Debug().Str("type", ev.Type).Str("target", target.Name).Float64("x", ev.ClientX).Float64("y", ev.ClientY).Stringer("result", result).Msg("dispatched")
	if e.onDispatch != nil {
		e.onDispatch(ev)
	}
}
