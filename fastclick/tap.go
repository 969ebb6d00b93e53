package fastclick

import (
	"fmt"
	"math"

	"github.com/Gleipnir-Technology/fastclick/dom"
	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/rs/zerolog/log"
)

// MoveThreshold is how far, per axis, a touch may wander before the gesture
// stops being a tap.
const MoveThreshold = 10.0

// Handler is the caller's logical click handler. It receives the event that
// completed the tap: a touchend or a plain click.
type Handler func(ev *dom.Event) (any, error)

type State int

const (
	StateIdle State = iota
	StateTouching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTouching:
		return "touching"
	}
	return "unknown"
}

type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Outcome reports how a gesture on one element ended.
type Outcome struct {
	Element string
	Kind    OutcomeKind
	// Trigger is the event type that ended the gesture.
	Trigger string
	// Start is the touchstart position for touch gestures.
	Start  Point
	Result any
	Err    error
}

type TapOptions struct {
	// Touch enables the touchstart path. Without it only plain clicks are
	// handled.
	Touch bool
	// Outcomes, when set, receives every completed or cancelled gesture.
	Outcomes *notify.SubscriptionManager[Outcome]
}

// Tap promotes a touch gesture on one element into a single logical click,
// and handles plain clicks the same way.
type Tap struct {
	buster    *Buster
	handler   Handler
	name      string
	outcomes  *notify.SubscriptionManager[Outcome]
	permanent *Group
	gesture   *Group
	state     State
	startX    float64
	startY    float64
}

func NewTap(target Target, handler Handler, buster *Buster, opts TapOptions) *Tap {
	t := &Tap{
		buster:    buster,
		handler:   handler,
		name:      targetName(target),
		outcomes:  opts.Outcomes,
		permanent: NewGroup(target),
		gesture:   NewGroup(target),
		state:     StateIdle,
	}
	if opts.Touch {
		t.permanent.AddEventListener(dom.TouchStart, t.onTouchStart)
	}
	t.permanent.AddEventListener(dom.Click, t.onClick)
	return t
}

func targetName(target Target) string {
	if s, ok := target.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%p", target)
}

func (t *Tap) Name() string {
	return t.name
}

func (t *Tap) State() State {
	return t.state
}

// Start is the position of the current or most recent touchstart.
func (t *Tap) Start() Point {
	return Point{X: t.startX, Y: t.startY}
}

func (t *Tap) onTouchStart(ev *dom.Event) dom.Result {
	// A second touchstart before the first gesture ended restarts tracking
	// instead of stacking another touchend/touchmove pair.
	t.reset()

	touch, ok := ev.FirstTouch()
	if !ok {
		touch = dom.Touch{ClientX: ev.ClientX, ClientY: ev.ClientY}
	}
	t.startX = touch.ClientX
	t.startY = touch.ClientY
	t.gesture.AddEventListener(dom.TouchEnd, t.onClick)
	t.gesture.AddEventListener(dom.TouchMove, t.onTouchMove)
	t.state = StateTouching
	return dom.StopPropagation
}

func (t *Tap) onTouchMove(ev *dom.Event) dom.Result {
	touch, ok := ev.FirstTouch()
	if !ok {
		return dom.Continue
	}
	if math.Abs(touch.ClientX-t.startX) > MoveThreshold ||
		math.Abs(touch.ClientY-t.startY) > MoveThreshold {
		log.Debug().Str("element", t.name).
			Float64("dx", touch.ClientX-t.startX).
			Float64("dy", touch.ClientY-t.startY).
			Msg("tap cancelled by movement")
		t.reset()
		t.outcomes.Publish(Outcome{
			Element: t.name,
			Kind:    OutcomeCancelled,
			Trigger: ev.Type,
			Start:   t.Start(),
		})
	}
	return dom.Continue
}

func (t *Tap) onClick(ev *dom.Event) dom.Result {
	t.Click(ev)
	return dom.StopPropagation
}

// Click completes a gesture with ev: it ends any touch tracking, runs the
// handler and, when ev is a touchend, busts the native click that the
// browser will fire at the touch start position.
func (t *Tap) Click(ev *dom.Event) (any, error) {
	t.reset()

	result, err := t.handler(ev)
	if err != nil {
		log.Warn().Err(err).Str("element", t.name).Str("event", ev.Type).Msg("tap handler failed")
	}

	var start Point
	if ev.Type == dom.TouchEnd {
		start = t.Start()
		t.buster.PreventGhostClick(start.X, start.Y)
	}
	log.Debug().Str("element", t.name).Str("trigger", ev.Type).Msg("tap")
	t.outcomes.Publish(Outcome{
		Element: t.name,
		Kind:    OutcomeCompleted,
		Trigger: ev.Type,
		Start:   start,
		Result:  result,
		Err:     err,
	})
	return result, err
}

func (t *Tap) reset() {
	t.gesture.Destroy()
	t.state = StateIdle
}

// Destroy unbinds everything the Tap registered on its element.
func (t *Tap) Destroy() {
	t.reset()
	t.permanent.Destroy()
}
