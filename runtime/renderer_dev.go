//go:build dev

package runtime

import "github.com/vcrobe/assignview/vdom"

// callRender invokes Render in development mode.
// In dev mode, panics propagate to aid debugging and fast failure.
func (r *RendererImpl) callRender(comp Component) (*vdom.VNode, bool) {
	return comp.Render(r), true
}

// callBind invokes Bind in development mode.
// In dev mode, panics propagate to aid debugging and fast failure.
func (r *RendererImpl) callBind(binder Binder) {
	binder.Bind(r.doc)
}
