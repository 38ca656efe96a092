// Package panel implements the assignment detail panel: a store holding the
// last ViewState pushed by the host, a pure view over it, a binder that
// re-attaches listeners after every render and a dispatcher that turns user
// actions into commands.
package panel

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/vcrobe/assignview/dom"
	"github.com/vcrobe/assignview/logging"
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/runtime"
	"github.com/vcrobe/assignview/transport"
	"github.com/vcrobe/assignview/vdom"
)

// Options configure a Panel.
type Options struct {
	// Sender carries commands to the host.
	Sender transport.Sender
	// Confirm answers the unassign, deploy and delete prompts. Nil declines.
	Confirm Confirmer
	// Applied, when set, is called with every state the panel applies, after
	// it has been rendered and bound.
	Applied func(protocol.ViewState)
	Logger  *zap.Logger
}

// Panel wires the store, renderer, binder and dispatcher together.
type Panel struct {
	runtime.ComponentBase

	// mu serializes inbound updates so they apply in delivery order.
	mu          sync.Mutex
	store       *Store
	dispatcher  *Dispatcher
	renderer    *runtime.RendererImpl
	applied     func(protocol.ViewState)
	logger      *zap.Logger
	unsubscribe func()
}

// Compile-time assertions for the runtime contracts.
var (
	_ runtime.Component = (*Panel)(nil)
	_ runtime.Binder    = (*Panel)(nil)
)

// New creates a panel rendering into doc, starting from initial. Nothing is
// rendered until Start.
func New(doc dom.Document, initial protocol.ViewState, opts Options) *Panel {
	logger := logging.OrNop(opts.Logger).Named("panel")
	store := NewStore(initial)
	p := &Panel{
		store:      store,
		dispatcher: NewDispatcher(store, opts.Sender, opts.Confirm, logger),
		renderer:   runtime.NewRenderer(doc, logger),
		applied:    opts.Applied,
		logger:     logger,
	}
	p.renderer.SetCurrentComponent(p)
	p.unsubscribe = store.OnReplace(p.StateHasChanged)
	return p
}

// Start performs the initial render and bind.
func (p *Panel) Start() {
	p.renderer.RenderRoot()
}

// State returns the current ViewState.
func (p *Panel) State() protocol.ViewState {
	return p.store.Get()
}

// Dispatcher exposes the command dispatcher, for embedders that drive
// actions without a DOM.
func (p *Panel) Dispatcher() *Dispatcher {
	return p.dispatcher
}

// Renders reports how many render cycles have completed.
func (p *Panel) Renders() int {
	return p.renderer.Cycles()
}

// Render implements runtime.Component.
func (p *Panel) Render(runtime.Renderer) *vdom.VNode {
	return View(p.store.Get())
}

// HandleMessage applies one inbound message. Only updateState is understood:
// the state is replaced, rendered and bound before HandleMessage returns.
// It reports whether the message changed the state.
func (p *Panel) HandleMessage(msg protocol.Message) bool {
	if msg.Command != protocol.CommandUpdateState {
		p.logger.Debug("ignoring inbound message", zap.String("command", msg.Command))
		return false
	}
	var state protocol.ViewState
	if err := msg.Decode(&state); err != nil {
		p.logger.Warn("dropping malformed state update", zap.Error(err))
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.store.Replace(state)
	if p.applied != nil {
		p.applied(state)
	}
	return true
}

// Run applies messages from in until it is closed or ctx is done.
func (p *Panel) Run(ctx context.Context, in <-chan protocol.Message) error {
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case msg, ok := <-in:
			if !ok {
				return nil
			}
			p.HandleMessage(msg)
		}
	}
}

// Close detaches the panel from its store. Later updates are still stored
// but no longer rendered.
func (p *Panel) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}
