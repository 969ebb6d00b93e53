// Package fastclick removes the delay and the duplicate handler run that
// touch devices cause on click targets.
//
// A touch device fires touchstart/touchend for a tap and then, a few hundred
// milliseconds later, a native click at the same spot. Tap answers the
// touchend immediately and registers the touch position with the page's
// Buster, which swallows the late native click if it lands within Radius on
// both axes during the window.
//
//	m := fastclick.NewModule(doc, queue, fastclick.BusterOptions{})
//	m.Bind(button, func(ev *dom.Event) (any, error) {
//	    return save(), nil
//	})
//
// A touch that moves more than MoveThreshold on either axis before touchend
// is not a tap and runs nothing.
//
// Everything in this package runs on the page's single event queue; only
// Buster's record list is guarded so that it can be inspected from other
// goroutines.
package fastclick
