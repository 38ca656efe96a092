//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/vcrobe/assignview/vdom"
)

// Compile-time assertion to ensure Browser implements Document.
var _ Document = (*Browser)(nil)

// Browser renders into the page's real DOM under the element matching
// selector.
type Browser struct {
	selector string
	// callbacks created for the current tree; released on the next Mount.
	callbacks []js.Func
}

// NewBrowser creates a Document for the mount point matching selector.
func NewBrowser(selector string) *Browser {
	return &Browser{selector: selector}
}

// Mount implements Document.
func (b *Browser) Mount(tree *vdom.VNode) {
	vdom.Clear(b.selector)
	for _, cb := range b.callbacks {
		cb.Release()
	}
	b.callbacks = nil
	vdom.RenderToSelector(b.selector, tree)
}

// ElementByID implements Document.
func (b *Browser) ElementByID(id string) (Element, bool) {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return nil, false
	}
	el := doc.Call("getElementById", id)
	if !el.Truthy() {
		return nil, false
	}
	return &browserElement{doc: b, el: el}, true
}

type browserElement struct {
	doc *Browser
	el  js.Value
}

func (e *browserElement) ID() string {
	return e.el.Get("id").String()
}

func (e *browserElement) Value() string {
	v := e.el.Get("value")
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

func (e *browserElement) AddEventListener(event string, fn Listener) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(browserEvent{ev: ev})
		return nil
	})
	e.el.Call("addEventListener", event, cb)
	e.doc.callbacks = append(e.doc.callbacks, cb)
}

type browserEvent struct {
	ev js.Value
}

func (e browserEvent) PreventDefault() {
	if e.ev.Truthy() {
		e.ev.Call("preventDefault")
	}
}
