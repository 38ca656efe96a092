package runtime

import (
	"github.com/vcrobe/assignview/dom"
	"github.com/vcrobe/assignview/vdom"
)

// Component is anything the renderer can mount.
// This interface has NO build tags, making it available to both WASM and native test builds.
type Component interface {
	// Render generates the virtual DOM tree for this component. It must be a
	// pure function of the component's current state.
	Render(r Renderer) *vdom.VNode

	// SetRenderer is called by the framework to attach the renderer to the component.
	// This enables StateHasChanged() to trigger re-renders.
	SetRenderer(r Renderer)
}

// Binder is implemented by components that attach event listeners to the
// mounted document. Bind runs after every mount, because a mount discards
// all previously attached listeners.
type Binder interface {
	Bind(doc dom.Document)
}
