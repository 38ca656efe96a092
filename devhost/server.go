package devhost

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
	"golang.org/x/sync/errgroup"

	"github.com/vcrobe/assignview/logging"
	"github.com/vcrobe/assignview/panel"
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/transport"
	"github.com/vcrobe/assignview/vdom"
)

// Server exposes a Host over HTTP: panels connect on /ws, and / serves a
// server-side rendering of the current state.
type Server struct {
	host     *Host
	logger   *zap.Logger
	upgrader *websocket.Upgrader

	mu    sync.Mutex
	conns map[*transport.Conn]struct{}
}

// NewServer creates a server for host.
func NewServer(host *Host, logger *zap.Logger) *Server {
	return &Server{
		host:     host,
		logger:   logging.OrNop(logger).Named("server"),
		upgrader: &websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
		conns:    map[*transport.Conn]struct{}{},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWS)
	mux.HandleFunc("GET /{$}", s.servePreview)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("devhost listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeConns()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := transport.Accept(s.upgrader, w, r, s.logger)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	s.track(conn, true)
	defer func() {
		s.track(conn, false)
		_ = conn.Close()
	}()

	ctx := r.Context()
	state, err := s.host.State(ctx)
	if err != nil {
		s.logger.Error("initial state", zap.Error(err))
		return
	}
	if err := s.send(conn, Reply{State: &state}); err != nil {
		s.logger.Warn("push initial state", zap.Error(err))
		return
	}

	err = conn.ReadLoop(ctx, func(msg protocol.Message) {
		s.logger.Debug("command received", zap.String("command", msg.Command))
		reply := s.host.Handle(ctx, msg)
		if err := s.send(conn, reply); err != nil {
			s.logger.Warn("send reply", zap.String("command", msg.Command), zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Warn("panel connection closed", zap.Error(err))
	}
}

func (s *Server) send(conn *transport.Conn, reply Reply) error {
	msgs, err := reply.Messages()
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := conn.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) track(conn *transport.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// closeConns closes hijacked websocket connections, which http.Server.Shutdown
// does not track.
func (s *Server) closeConns() {
	s.mu.Lock()
	conns := make([]*transport.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		_ = c.Close()
	}
}

const previewPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>%s</title></head>
<body><div id="%s">%s</div></body></html>
`

func (s *Server) servePreview(w http.ResponseWriter, r *http.Request) {
	state, err := s.host.State(r.Context())
	if err != nil {
		s.logger.Error("preview state", zap.Error(err))
		http.Error(w, "could not load assignment", http.StatusInternalServerError)
		return
	}
	title := "assignview"
	if state.HasRecord() {
		title = state.Record.DisplayName()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, previewPage, vdom.Escape(title), panel.IDMount, vdom.HTMLString(panel.View(state)))
}
