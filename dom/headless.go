package dom

import (
	"bytes"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vcrobe/assignview/vdom"
)

// Compile-time assertion to ensure Headless implements Document.
var _ Document = (*Headless)(nil)

// Headless is an in-memory Document backed by x/net/html nodes. It emulates
// the few browser behaviours the panel relies on: event dispatch by id,
// form values and required-field validation on submit.
type Headless struct {
	mu     sync.Mutex
	root   *html.Node
	byID   map[string]*headlessElement
	mounts int
}

type headlessElement struct {
	doc       *Headless
	node      *html.Node
	listeners map[string][]Listener
}

// NewHeadless creates an empty document whose mount point has id mountID.
func NewHeadless(mountID string) *Headless {
	root := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "id", Val: mountID}},
	}
	return &Headless{root: root, byID: map[string]*headlessElement{}}
}

// Mount implements Document.
func (d *Headless) Mount(tree *vdom.VNode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for c := d.root.FirstChild; c != nil; c = d.root.FirstChild {
		d.root.RemoveChild(c)
	}
	d.byID = map[string]*headlessElement{}
	d.mounts++

	n := vdom.ToHTML(tree)
	if n == nil {
		return
	}
	d.root.AppendChild(n)
	d.index(n)
}

func (d *Headless) index(n *html.Node) {
	if n.Type == html.ElementNode {
		if id := attr(n, "id"); id != "" {
			if _, dup := d.byID[id]; !dup {
				d.byID[id] = &headlessElement{doc: d, node: n, listeners: map[string][]Listener{}}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c)
	}
}

// ElementByID implements Document.
func (d *Headless) ElementByID(id string) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return el, true
}

// Mounts reports how many times the document has been mounted.
func (d *Headless) Mounts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounts
}

// Has reports whether an element with id is currently mounted.
func (d *Headless) Has(id string) bool {
	_, ok := d.ElementByID(id)
	return ok
}

// HTML serializes the content of the mount point.
func (d *Headless) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var buf bytes.Buffer
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// Text returns the concatenated text content of the mount point.
func (d *Headless) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return sb.String()
}

// InteractiveCount counts the mounted elements a user could act on.
func (d *Headless) InteractiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Button, atom.Input, atom.Textarea, atom.Select, atom.Form, atom.A:
				count++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return count
}

// SetValue sets the value of the form control with id, as if typed.
func (d *Headless) SetValue(id, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.byID[id]
	if !ok {
		return false
	}
	n := el.node
	if n.DataAtom == atom.Textarea {
		for c := n.FirstChild; c != nil; c = n.FirstChild {
			n.RemoveChild(c)
		}
		if value != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		}
		return true
	}
	setAttr(n, "value", value)
	return true
}

// Value returns the value of the form control with id.
func (d *Headless) Value(id string) (string, bool) {
	el, ok := d.ElementByID(id)
	if !ok {
		return "", false
	}
	return el.Value(), true
}

// Click dispatches a click on the element with id. Clicking a submit button
// submits its form. It reports whether any listener ran.
func (d *Headless) Click(id string) bool {
	d.mu.Lock()
	el, ok := d.byID[id]
	if !ok || hasAttr(el.node, "disabled") {
		d.mu.Unlock()
		return false
	}
	var form *html.Node
	if el.node.DataAtom == atom.Button && attr(el.node, "type") == "submit" {
		form = enclosingForm(el.node)
	}
	d.mu.Unlock()

	ran := d.dispatch(id, EventClick)
	if form != nil {
		if formID := attr(form, "id"); formID != "" && d.Submit(formID) {
			ran = true
		}
	}
	return ran
}

// Submit dispatches a submit event on the form with id after checking its
// required fields the way a browser does. It reports whether any listener ran.
func (d *Headless) Submit(formID string) bool {
	d.mu.Lock()
	el, ok := d.byID[formID]
	if !ok || el.node.DataAtom != atom.Form || !requiredFilled(el.node) {
		d.mu.Unlock()
		return false
	}
	d.mu.Unlock()
	return d.dispatch(formID, EventSubmit)
}

// dispatch runs the listeners outside the lock so they may read the
// document or trigger a re-mount.
func (d *Headless) dispatch(id, event string) bool {
	d.mu.Lock()
	el, ok := d.byID[id]
	if !ok {
		d.mu.Unlock()
		return false
	}
	listeners := append([]Listener(nil), el.listeners[event]...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(&headlessEvent{})
	}
	return len(listeners) > 0
}

func (e *headlessElement) ID() string {
	return attr(e.node, "id")
}

func (e *headlessElement) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return nodeValue(e.node)
}

func (e *headlessElement) AddEventListener(event string, fn Listener) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], fn)
}

type headlessEvent struct {
	defaultPrevented bool
}

func (e *headlessEvent) PreventDefault() {
	e.defaultPrevented = true
}

func nodeValue(n *html.Node) string {
	if n.DataAtom == atom.Textarea {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return sb.String()
	}
	return attr(n, "value")
}

func requiredFilled(form *html.Node) bool {
	ok := true
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasAttr(n, "required") && !hasAttr(n, "disabled") {
			if nodeValue(n) == "" {
				ok = false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(form)
	return ok
}

func enclosingForm(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Form {
			return p
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
