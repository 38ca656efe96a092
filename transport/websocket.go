package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vcrobe/assignview/logging"
	"github.com/vcrobe/assignview/protocol"
)

const writeTimeout = 10 * time.Second

// Conn is a message transport over a WebSocket connection. Either side of
// the boundary can use it: the panel dials, the host accepts.
type Conn struct {
	ws     *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex
	once    sync.Once
}

// Dial connects to a host at url.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newConn(ws, logger), nil
}

// Accept upgrades an HTTP request to a message connection.
func Accept(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, logger *zap.Logger) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	return newConn(ws, logger), nil
}

func newConn(ws *websocket.Conn, logger *zap.Logger) *Conn {
	return &Conn{ws: ws, logger: logging.OrNop(logger).Named("transport")}
}

// Send writes one message as a JSON text frame.
func (c *Conn) Send(msg protocol.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("send %s: %w", msg.Command, err)
	}
	if err := c.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Command, err)
	}
	return nil
}

// ReadLoop delivers each received message to handle until the connection
// closes or ctx is done. Malformed frames are logged and skipped. A normal
// close returns nil.
func (c *Conn) ReadLoop(ctx context.Context, handle func(protocol.Message)) error {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || errors.Is(err, websocket.ErrCloseSent) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		msg, err := protocol.ParseMessage(raw)
		if err != nil {
			c.logger.Warn("dropping malformed frame", zap.Error(err))
			continue
		}
		handle(msg)
	}
}

// Close sends a close frame and closes the connection. It is safe to call
// more than once.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
