package dom

import (
	"reflect"
	"testing"
)

func TestResultString(t *testing.T) {
	tests := []struct {
		result   Result
		expected string
	}{
		{Continue, "continue"},
		{StopPropagation, "stop"},
		{PreventDefault, "prevent"},
		{StopPropagation | PreventDefault, "stop+prevent"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.result.String(); got != tt.expected {
				t.Errorf("Result.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewTouchContacts(t *testing.T) {
	start := NewTouch(TouchStart, 50, 60)
	touch, ok := start.FirstTouch()
	if !ok {
		t.Fatalf("touchstart has no contacts")
	}
	if touch.ClientX != 50 || touch.ClientY != 60 {
		t.Errorf("first touch = %+v, want (50,60)", touch)
	}
	end := NewTouch(TouchEnd, 50, 60)
	if _, ok := end.FirstTouch(); ok {
		t.Errorf("touchend should carry no active contacts")
	}
	if start.ID == "" || start.ID == end.ID {
		t.Errorf("expected distinct event ids, got %q and %q", start.ID, end.ID)
	}
}

func TestOffRemovesOnlyThatRegistration(t *testing.T) {
	doc := NewDocument(false)
	el := doc.Append("button", Rect{W: 10, H: 10})

	var calls []string
	a := el.On(Click, func(*Event) Result { calls = append(calls, "a"); return Continue })
	el.On(Click, func(*Event) Result { calls = append(calls, "b"); return Continue })

	if !el.Off(Click, a) {
		t.Fatalf("Off(a) = false, want true")
	}
	if el.Off(Click, a) {
		t.Errorf("second Off(a) = true, want false")
	}
	el.Dispatch(NewClick(1, 1))
	if !reflect.DeepEqual(calls, []string{"b"}) {
		t.Errorf("calls = %v, want [b]", calls)
	}
	if got := el.ListenerCount(Click); got != 1 {
		t.Errorf("ListenerCount = %d, want 1", got)
	}
}

func TestDispatchOrder(t *testing.T) {
	doc := NewDocument(true)
	outer := doc.Append("outer", Rect{W: 100, H: 100})
	inner := outer.Append("inner", Rect{W: 50, H: 50})

	var order []string
	rec := func(name string) Listener {
		return func(ev *Event) Result {
			order = append(order, name)
			return Continue
		}
	}
	doc.On(Click, rec("doc-bubble"))
	doc.OnCapture(Click, rec("doc-capture"))
	outer.On(Click, rec("outer-bubble"))
	outer.OnCapture(Click, rec("outer-capture"))
	inner.On(Click, rec("inner"))
	inner.OnCapture(Click, rec("inner-capture"))

	inner.Dispatch(NewClick(1, 1))
	want := []string{"doc-capture", "outer-capture", "inner", "inner-capture", "outer-bubble", "doc-bubble"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestStopPropagationFinishesCurrentElement(t *testing.T) {
	doc := NewDocument(false)
	el := doc.Append("button", Rect{W: 10, H: 10})

	var order []string
	el.On(Click, func(*Event) Result { order = append(order, "first"); return StopPropagation })
	el.On(Click, func(*Event) Result { order = append(order, "second"); return Continue })
	doc.On(Click, func(*Event) Result { order = append(order, "doc"); return Continue })

	ev := NewClick(1, 1)
	r := el.Dispatch(ev)
	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Errorf("order = %v, want [first second]", order)
	}
	if !ev.PropagationStopped() || ev.DefaultPrevented() {
		t.Errorf("result = %v, want stop only", r)
	}
}

func TestCaptureStopPreventsTarget(t *testing.T) {
	doc := NewDocument(false)
	el := doc.Append("button", Rect{W: 10, H: 10})
	fired := false
	doc.OnCapture(Click, func(*Event) Result { return StopPropagation | PreventDefault })
	el.On(Click, func(*Event) Result { fired = true; return Continue })

	ev := NewClick(1, 1)
	el.Dispatch(ev)
	if fired {
		t.Errorf("target listener ran after capture stop")
	}
	if !ev.DefaultPrevented() {
		t.Errorf("default not prevented")
	}
}

func TestHitTest(t *testing.T) {
	doc := NewDocument(false)
	panel := doc.Append("panel", Rect{X: 0, Y: 0, W: 200, H: 200})
	left := panel.Append("left", Rect{X: 0, Y: 0, W: 100, H: 100})
	overlay := doc.Append("overlay", Rect{X: 50, Y: 50, W: 20, H: 20})

	tests := []struct {
		x, y float64
		want *Element
	}{
		{10, 10, left},
		{150, 150, panel},
		{55, 55, overlay},
		{500, 500, doc.Element},
	}
	for _, tt := range tests {
		if got := doc.HitTest(tt.x, tt.y); got != tt.want {
			t.Errorf("HitTest(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if doc.Find("left") != left {
		t.Errorf("Find(left) failed")
	}
	var names []string
	doc.Walk(func(e *Element) { names = append(names, e.Name) })
	if !reflect.DeepEqual(names, []string{"panel", "left", "overlay"}) {
		t.Errorf("Walk = %v", names)
	}
}
