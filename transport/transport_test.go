package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vcrobe/assignview/protocol"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPipe_SendAndPush(t *testing.T) {
	p := NewPipe(1)

	require.NoError(t, p.Send(protocol.Message{Command: protocol.CommandRefresh}))
	// Buffer full: fail fast instead of blocking the UI.
	assert.Error(t, p.Send(protocol.Message{Command: protocol.CommandRefresh}))
	assert.Equal(t, protocol.CommandRefresh, (<-p.Outbound()).Command)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Push(ctx, protocol.Message{Command: protocol.CommandUpdateState}))
	assert.Equal(t, protocol.CommandUpdateState, (<-p.Inbound()).Command)

	p.Close()
	p.Close()
	assert.ErrorIs(t, p.Send(protocol.Message{Command: protocol.CommandRefresh}), ErrClosed)
	assert.ErrorIs(t, p.Push(ctx, protocol.Message{}), ErrClosed)
	_, open := <-p.Inbound()
	assert.False(t, open)
}

func TestPipe_PushHonoursContext(t *testing.T) {
	p := NewPipe(0)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Push(ctx, protocol.Message{}), context.Canceled)
}

func TestSenderFunc(t *testing.T) {
	var got string
	s := SenderFunc(func(msg protocol.Message) error {
		got = msg.Command
		return nil
	})
	require.NoError(t, s.Send(protocol.Message{Command: protocol.CommandDeleteContent}))
	assert.Equal(t, protocol.CommandDeleteContent, got)
}
