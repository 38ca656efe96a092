//go:build !dev

package runtime

import (
	"go.uber.org/zap"

	"github.com/vcrobe/assignview/vdom"
)

// callRender invokes Render in production mode.
// In production mode, panics are recovered and logged to prevent application crashes.
func (r *RendererImpl) callRender(comp Component) (tree *vdom.VNode, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("render panic", zap.Any("panic", rec))
			tree, ok = nil, false
		}
	}()
	return comp.Render(r), true
}

// callBind invokes Bind in production mode.
// In production mode, panics are recovered and logged to prevent application crashes.
func (r *RendererImpl) callBind(binder Binder) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("bind panic", zap.Any("panic", rec))
		}
	}()
	binder.Bind(r.doc)
}
