package panel

import (
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/signals"
)

// Store holds the single current ViewState.
type Store struct {
	sig *signals.Signal[protocol.ViewState]
}

// NewStore creates a store holding initial.
func NewStore(initial protocol.ViewState) *Store {
	return &Store{sig: signals.NewSignal(initial)}
}

// Get returns the current state.
func (s *Store) Get() protocol.ViewState {
	return s.sig.Get()
}

// Replace swaps in state wholesale and then notifies subscribers.
func (s *Store) Replace(state protocol.ViewState) {
	s.sig.Set(state)
}

// OnReplace registers fn to run after every Replace.
func (s *Store) OnReplace(fn func()) (unsubscribe func()) {
	return s.sig.Subscribe(fn)
}
