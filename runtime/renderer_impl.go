package runtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vcrobe/assignview/dom"
	"github.com/vcrobe/assignview/logging"
	"github.com/vcrobe/assignview/vdom"
)

// Compile-time assertion to ensure the concrete RendererImpl implements the Renderer interface.
var _ Renderer = (*RendererImpl)(nil)

// RendererImpl drives the render cycle for a single root component. Every
// cycle replaces the whole mounted tree; there is no diffing, so listeners
// are re-attached by the component's Bind after each mount.
type RendererImpl struct {
	mu               sync.Mutex
	doc              dom.Document
	currentComponent Component
	logger           *zap.Logger
	cycles           int
	lastVDOM         *vdom.VNode
}

// NewRenderer creates a renderer mounting into doc.
func NewRenderer(doc dom.Document, logger *zap.Logger) *RendererImpl {
	return &RendererImpl{
		doc:    doc,
		logger: logging.OrNop(logger).Named("runtime"),
	}
}

// SetCurrentComponent sets the component to be rendered.
func (r *RendererImpl) SetCurrentComponent(comp Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentComponent = comp
	if comp != nil {
		comp.SetRenderer(r)
	}
}

// RenderRoot renders the current component, replaces the mounted tree and
// binds listeners, in that order.
func (r *RendererImpl) RenderRoot() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentComponent == nil {
		return
	}

	tree, ok := r.callRender(r.currentComponent)
	if !ok {
		// Keep whatever is mounted; a failed render must not blank the view.
		return
	}
	r.doc.Mount(tree)
	r.lastVDOM = tree
	r.cycles++

	if binder, ok := r.currentComponent.(Binder); ok {
		r.callBind(binder)
	}
	r.logger.Debug("render cycle complete", zap.Int("cycle", r.cycles))
}

// ReRender implements Renderer.
func (r *RendererImpl) ReRender() {
	r.RenderRoot()
}

// Cycles reports how many render cycles have completed.
func (r *RendererImpl) Cycles() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cycles
}

// LastVDOM returns the most recently mounted tree.
func (r *RendererImpl) LastVDOM() *vdom.VNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastVDOM
}
