// Package dom is the thin document abstraction the panel renders into and
// binds listeners on. The browser build talks to the real DOM; everything
// else uses the in-memory Headless document.
package dom

import "github.com/vcrobe/assignview/vdom"

// Event names understood by the binder.
const (
	EventClick  = "click"
	EventSubmit = "submit"
)

// Event is the part of a DOM event listeners may use.
type Event interface {
	PreventDefault()
}

// Listener handles one event.
type Listener func(Event)

// Element is a live element in the mounted tree.
type Element interface {
	ID() string
	// Value returns the current value of a form control.
	Value() string
	AddEventListener(event string, fn Listener)
}

// Document owns a single mount point.
type Document interface {
	// Mount replaces everything under the mount point with tree. Elements
	// from earlier mounts, and their listeners, are discarded.
	Mount(tree *vdom.VNode)
	// ElementByID looks up an element in the current tree.
	ElementByID(id string) (Element, bool)
}
