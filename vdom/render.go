//go:build js && wasm

package vdom

import (
	"syscall/js"

	"github.com/vcrobe/assignview/console"
)

// Clear removes every child of the element matching selector.
func Clear(selector string) {
	mount, ok := mountElement(selector)
	if !ok {
		return
	}
	// Set innerHTML to an empty string to clear all children.
	mount.Set("innerHTML", "")
}

// RenderToSelector mounts the VNode under the first element matching the CSS selector.
func RenderToSelector(selector string, n *VNode) {
	if n == nil {
		return
	}
	mount, ok := mountElement(selector)
	if !ok {
		return
	}
	RenderTo(mount, n)
}

func mountElement(selector string) (js.Value, bool) {
	if selector == "" {
		return js.Undefined(), false
	}
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return js.Undefined(), false
	}
	mount := doc.Call("querySelector", selector)
	if !mount.Truthy() {
		console.Error("Mount element not found for selector:", selector)
		return js.Undefined(), false
	}
	return mount, true
}

// RenderTo appends the rendered node to a specific mount element.
func RenderTo(mount js.Value, n *VNode) {
	if n == nil {
		return
	}
	el := createElement(n)
	if el.Truthy() {
		mount.Call("appendChild", el)
	}
}

// setAttributeValue sets an attribute on an element, handling boolean attributes correctly.
func setAttributeValue(el js.Value, key string, value any) {
	val, ok := AttributeString(value)
	if !ok {
		return
	}
	el.Call("setAttribute", key, val)
}

func createElement(n *VNode) js.Value {
	doc := js.Global().Get("document")
	if !doc.Truthy() || n == nil {
		return js.Undefined()
	}

	if n.Tag == TextTag {
		if n.Content == "" {
			return js.Undefined()
		}
		return doc.Call("createTextNode", n.Content)
	}

	el := doc.Call("createElement", n.Tag)
	for k, v := range n.Attributes {
		setAttributeValue(el, k, v)
	}

	switch n.Tag {
	case "input", "textarea":
		// Form controls take their content as the live value.
		if n.Content != "" {
			el.Set("value", n.Content)
		}
		return el
	default:
		// textContent never interprets markup.
		if n.Content != "" {
			el.Set("textContent", n.Content)
		}
	}

	for _, child := range n.Children {
		childEl := createElement(child)
		if childEl.Truthy() {
			el.Call("appendChild", childEl)
		}
	}
	return el
}
