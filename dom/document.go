// Package dom is a small in-process model of a browser page: an element tree,
// touch and click events, and listener registration with capture and bubble
// dispatch. It is the host that fastclick binds to.
package dom

type Document struct {
	*Element
	touch bool
}

// NewDocument creates an empty page. touch reports whether the page runs on
// a touch-capable device, the equivalent of probing "ontouchstart" in window.
func NewDocument(touch bool) *Document {
	return &Document{
		Element: newElement("document", Rect{}, nil),
		touch:   touch,
	}
}

func (d *Document) TouchCapable() bool {
	return d.touch
}

// HitTest returns the deepest element whose bounds contain (x, y). Later
// siblings are on top of earlier ones. The document itself is returned when
// nothing else matches.
func (d *Document) HitTest(x, y float64) *Element {
	return hit(d.Element, x, y)
}

func hit(e *Element, x, y float64) *Element {
	children := e.Children()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if c.Bounds.Contains(x, y) {
			return hit(c, x, y)
		}
	}
	return e
}

// Find returns the first element named name in document order.
func (d *Document) Find(name string) *Element {
	return find(d.Element, name)
}

func find(e *Element, name string) *Element {
	if e.Name == name {
		return e
	}
	for _, c := range e.Children() {
		if f := find(c, name); f != nil {
			return f
		}
	}
	return nil
}

// Walk calls fn for every element below the document in document order.
func (d *Document) Walk(fn func(*Element)) {
	var walk func(*Element)
	walk = func(e *Element) {
		for _, c := range e.Children() {
			fn(c)
			walk(c)
		}
	}
	walk(d.Element)
}
