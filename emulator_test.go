package main

import (
	"testing"
	"time"

	"github.com/Gleipnir-Technology/fastclick/dom"
	"github.com/Gleipnir-Technology/fastclick/loop"
	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/Gleipnir-Technology/fastclick/state"
)

type testPage struct {
	clock *loop.Virtual
	emu   *emulator
	feed  *notify.Subscription[feedEvent]
	page  *page
	seen  []*dom.Event
}

func newTestPage(t *testing.T, touch bool) *testPage {
	t.Helper()
	cfg := defaultConfig()
	cfg.Touch = touch
	feed := notify.NewSubscriptionManager[feedEvent]()
	tp := &testPage{
		clock: loop.NewVirtual(),
		feed:  feed.Subscribe(),
	}
	p, err := newPage(cfg, tp.clock, feed)
	if err != nil {
		t.Fatalf("newPage: %v", err)
	}
	tp.page = p
	tp.emu = newEmulator(p.doc, tp.clock, cfg.ClickDelay())
	tp.emu.onDispatch = func(ev *dom.Event) {
		tp.seen = append(tp.seen, ev)
		p.drain()
	}
	t.Cleanup(func() {
		tp.feed.Close()
		p.close()
	})
	return tp
}

func (tp *testPage) tap(x, y float64) {
	tp.emu.Down(x, y)
	tp.emu.Up(x, y)
}

func (tp *testPage) types() []string {
	var out []string
	for _, ev := range tp.seen {
		out = append(out, ev.Type)
	}
	return out
}

func (tp *testPage) element(t *testing.T, name string) *state.Element {
	t.Helper()
	for _, e := range tp.page.snapshot().Elements {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("no element %q", name)
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEmulatorTouchTapBustsGhostClick(t *testing.T) {
	tp := newTestPage(t, true)
	tp.tap(50, 50)

	save := tp.element(t, "save")
	if save.Taps != 1 || save.Status != state.StatusTapCompleted {
		t.Fatalf("after touchend got taps %d status %s", save.Taps, state.StatusStringTap(save.Status))
	}
	if save.Values["saves"] != float64(1) {
		t.Errorf("got saves %v", save.Values["saves"])
	}
	if got := len(tp.page.snapshot().Records); got != 1 {
		t.Errorf("got %d records, want 1", got)
	}

	tp.clock.Advance(300 * time.Millisecond)
	want := []string{dom.TouchStart, dom.TouchEnd, dom.Click}
	if got := tp.types(); !equalStrings(got, want) {
		t.Fatalf("got events %v, want %v", got, want)
	}
	ghost := tp.seen[2]
	if !ghost.PropagationStopped() || !ghost.DefaultPrevented() {
		t.Errorf("ghost click result %s", ghost.Result())
	}
	snap := tp.page.snapshot()
	if snap.Suppressed != 1 {
		t.Errorf("got suppressed %d", snap.Suppressed)
	}
	if got := tp.element(t, "save").Taps; got != 1 {
		t.Errorf("handler ran %d times", got)
	}

	tp.clock.Advance(2500 * time.Millisecond)
	if got := len(tp.page.snapshot().Records); got != 0 {
		t.Errorf("records did not expire: %d", got)
	}
}

func TestEmulatorScrollSendsNoClick(t *testing.T) {
	tp := newTestPage(t, true)
	tp.emu.Down(50, 50)
	tp.emu.Move(80, 50)
	tp.emu.Up(80, 50)
	if tp.clock.Pending() != 0 {
		t.Errorf("got %d pending tasks", tp.clock.Pending())
	}
	snap := tp.page.snapshot()
	if snap.Cancelled != 1 {
		t.Errorf("got cancelled %d", snap.Cancelled)
	}
	if save := tp.element(t, "save"); save.Taps != 0 || save.Status != state.StatusTapCancelled {
		t.Errorf("got taps %d status %s", save.Taps, state.StatusStringTap(save.Status))
	}
}

func TestEmulatorWithoutTouchClicksOnRelease(t *testing.T) {
	tp := newTestPage(t, false)
	tp.tap(250, 50)
	if got := tp.types(); !equalStrings(got, []string{dom.Click}) {
		t.Fatalf("got events %v", got)
	}
	if del := tp.element(t, "delete"); del.Taps != 1 {
		t.Errorf("got taps %d", del.Taps)
	}
	if got := len(tp.page.snapshot().Records); got != 0 {
		t.Errorf("plain click registered %d records", got)
	}
}

func TestEmulatorTouchingStatus(t *testing.T) {
	tp := newTestPage(t, true)
	tp.emu.Down(50, 50)
	if got := tp.element(t, "save").Status; got != state.StatusTapTouching {
		t.Errorf("got status %s", state.StatusStringTap(got))
	}
}

func TestEmulatorUpWithoutDown(t *testing.T) {
	tp := newTestPage(t, true)
	tp.emu.Up(50, 50)
	tp.emu.Move(60, 60)
	if len(tp.seen) != 0 {
		t.Errorf("got events %v", tp.types())
	}
}

func TestPageFeed(t *testing.T) {
	tp := newTestPage(t, true)
	tp.tap(50, 50)
	tp.clock.Advance(300 * time.Millisecond)

	var kinds []string
	for len(tp.feed.C) > 0 {
		ev := <-tp.feed.C
		if ev.ID == "" || ev.Time.IsZero() {
			t.Errorf("unstamped event %+v", ev)
		}
		kinds = append(kinds, string(ev.Kind))
	}
	if want := []string{"tap", "bust"}; !equalStrings(kinds, want) {
		t.Errorf("got feed %v, want %v", kinds, want)
	}
}

func TestPageBadExpression(t *testing.T) {
	cfg := defaultConfig()
	cfg.Elements = []ElementConfig{{Name: "broken", W: 10, H: 10, Expr: "x = = 1"}}
	if _, err := newPage(cfg, loop.NewVirtual(), nil); err == nil {
		t.Fatal("expected compile error")
	}
}
