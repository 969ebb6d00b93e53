package fastclick

import (
	"math"
	"sync"
	"time"

	"github.com/Gleipnir-Technology/fastclick/dom"
	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultWindow is how long a registered touch point keeps busting clicks.
	DefaultWindow = 2500 * time.Millisecond
	// Radius is the box distance, per axis, inside which a click is a ghost.
	Radius = 25.0
)

// Scheduler runs fn once after delay on the same queue as event dispatch.
type Scheduler interface {
	Schedule(fn func(), delay time.Duration)
}

type Point struct {
	X float64
	Y float64
}

// Near reports whether p and o are closer than Radius on both axes.
func (p Point) Near(o Point) bool {
	return math.Abs(p.X-o.X) < Radius && math.Abs(p.Y-o.Y) < Radius
}

// Suppression describes one swallowed click.
type Suppression struct {
	EventID string
	Click   Point
	Record  Point
}

type BusterOptions struct {
	// Window defaults to DefaultWindow.
	Window time.Duration
	// Bubble listens on the document in the bubble phase instead of the
	// capture phase. A bubbling listener never sees clicks that an element
	// handler has already stopped.
	Bubble bool
}

// Buster swallows clicks that land near a recently tapped point. One Buster
// serves a whole document.
type Buster struct {
	OnSuppress *notify.SubscriptionManager[Suppression]

	binding   *Binding
	mu        sync.Mutex
	records   []Point
	scheduler Scheduler
	window    time.Duration
}

// NewBuster binds a click listener on doc for the Buster's lifetime.
func NewBuster(doc Target, scheduler Scheduler, opts BusterOptions) *Buster {
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	b := &Buster{
		OnSuppress: notify.NewSubscriptionManager[Suppression](),
		scheduler:  scheduler,
		window:     window,
	}
	b.binding = newBinding(doc, dom.Click, b.onClick, !opts.Bubble)
	return b
}

// PreventGhostClick busts every click within Radius of (x, y) until the
// window elapses. Expiry removes the most recently registered point, not
// necessarily this one, when registrations overlap.
func (b *Buster) PreventGhostClick(x, y float64) {
	b.mu.Lock()
	b.records = append(b.records, Point{X: x, Y: y})
	window := b.window
	b.mu.Unlock()
	log.Debug().Float64("x", x).Float64("y", y).Dur("window", window).Msg("busting clicks")

	b.scheduler.Schedule(b.expire, window)
}

func (b *Buster) expire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := len(b.records); n > 0 {
		b.records = b.records[:n-1]
	}
}

func (b *Buster) onClick(ev *dom.Event) dom.Result {
	click := Point{X: ev.ClientX, Y: ev.ClientY}
	b.mu.Lock()
	var hit *Point
	for i := range b.records {
		if b.records[i].Near(click) {
			r := b.records[i]
			hit = &r
			break
		}
	}
	b.mu.Unlock()
	if hit == nil {
		return dom.Continue
	}
	log.Debug().Str("event", ev.ID).Float64("x", click.X).Float64("y", click.Y).Msg("ghost click busted")
	b.OnSuppress.Publish(Suppression{
		EventID: ev.ID,
		Click:   click,
		Record:  *hit,
	})
	return dom.StopPropagation | dom.PreventDefault
}

// Records returns the live points, oldest first.
func (b *Buster) Records() []Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Point, len(b.records))
	copy(out, b.records)
	return out
}

func (b *Buster) Window() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.window
}

// SetWindow changes the window for later registrations. Points already
// registered keep their scheduled expiry.
func (b *Buster) SetWindow(d time.Duration) {
	if d <= 0 {
		d = DefaultWindow
	}
	b.mu.Lock()
	b.window = d
	b.mu.Unlock()
}

// Close unbinds the document listener. Pending expiries still fire.
func (b *Buster) Close() {
	if b.binding != nil {
		b.binding.Destroy()
		b.binding = nil
	}
}
