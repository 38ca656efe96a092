// Package transport carries protocol messages between the panel and its
// host. Sends are fire-and-forget: a sender reports local failures but never
// waits for the host to act.
package transport

import (
	"context"
	"errors"
	"sync"

	"github.com/vcrobe/assignview/protocol"
)

// ErrClosed is returned when sending on a closed transport.
var ErrClosed = errors.New("transport closed")

// Sender hands a message to the host.
type Sender interface {
	Send(msg protocol.Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(msg protocol.Message) error

func (f SenderFunc) Send(msg protocol.Message) error { return f(msg) }

// Pipe is an in-process, buffered pair of channels. The panel end sends on
// Outbound and reads from Inbound; the host end does the opposite.
type Pipe struct {
	outbound chan protocol.Message
	inbound  chan protocol.Message

	mu     sync.RWMutex
	closed bool
}

// NewPipe creates a pipe whose channels buffer size messages each.
func NewPipe(size int) *Pipe {
	return &Pipe{
		outbound: make(chan protocol.Message, size),
		inbound:  make(chan protocol.Message, size),
	}
}

// Send queues a panel command for the host. It fails instead of blocking
// when the buffer is full, so a stalled host never freezes the UI.
func (p *Pipe) Send(msg protocol.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.outbound <- msg:
		return nil
	default:
		return errors.New("transport: outbound buffer full")
	}
}

// Push delivers a host message to the panel, blocking until there is room
// or ctx is done.
func (p *Pipe) Push(ctx context.Context, msg protocol.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbound <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outbound is the stream of panel commands, read by the host.
func (p *Pipe) Outbound() <-chan protocol.Message { return p.outbound }

// Inbound is the stream of host messages, read by the panel.
func (p *Pipe) Inbound() <-chan protocol.Message { return p.inbound }

// Close closes both directions. Further sends fail with ErrClosed.
func (p *Pipe) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.outbound)
	close(p.inbound)
}
