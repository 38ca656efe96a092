package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vcrobe/assignview/dialogs"
	"github.com/vcrobe/assignview/dom"
	"github.com/vcrobe/assignview/logging"
	"github.com/vcrobe/assignview/panel"
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/transport"
)

func newAttachCmd(c *cli) *cobra.Command {
	var (
		url string
		yes bool
	)
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Drive a headless panel against a running host",
		Long: `Connects a headless panel to a host over WebSocket and reads commands
from stdin. Type "help" for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Attach
			if cmd.Flags().Changed("url") {
				cfg.URL = url
			}
			if yes {
				cfg.AutoConfirm = true
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return attach(ctx, cfg.URL, cfg.AutoConfirm, cmd.InOrStdin(), cmd.OutOrStdout(), c.logger)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Host WebSocket URL (overrides attach.url)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Answer yes to every confirmation")
	return cmd
}

// attach runs a headless panel against the host at url. The panel talks to
// a Pipe; the session pumps the pipe to and from the socket so that the panel
// never waits on the network.
func attach(ctx context.Context, url string, autoConfirm bool, in io.Reader, out io.Writer, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	conn, err := transport.Dial(ctx, url, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	w := &syncWriter{w: out}
	r := bufio.NewReader(in)

	var confirm panel.Confirmer = dialogs.NewTerminal(r, w)
	if autoConfirm {
		confirm = dialogs.Always(true)
	}

	pipe := transport.NewPipe(64)
	defer pipe.Close()

	doc := dom.NewHeadless(panel.IDMount)
	p := panel.New(doc, protocol.ViewState{}, panel.Options{
		Sender:  pipe,
		Confirm: confirm,
		Applied: func(state protocol.ViewState) { fmt.Fprintf(w, "state: %s\n", summary(state)) },
		Logger:  logger,
	})
	defer p.Close()
	p.Start()

	session, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(session)

	// host -> panel
	g.Go(func() error {
		return conn.ReadLoop(gctx, func(msg protocol.Message) {
			if msg.Command == protocol.CommandShowNotification {
				printNotification(w, msg)
				return
			}
			if err := pipe.Push(gctx, msg); err != nil {
				logger.Debug("inbound message dropped", zap.String("command", msg.Command), zap.Error(err))
			}
		})
	})
	g.Go(func() error {
		return p.Run(gctx, pipe.Inbound())
	})

	// panel -> host
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case msg, ok := <-pipe.Outbound():
				if !ok {
					return nil
				}
				if err := conn.Send(msg); err != nil {
					fmt.Fprintf(w, "! %s not sent: %v\n", msg.Command, err)
				}
			}
		}
	})

	g.Go(func() error {
		err := newREPL(p, doc, r, w).run(gctx)
		// Leaving the REPL ends the session; closing unblocks ReadLoop.
		cancel()
		_ = conn.Close()
		return err
	})
	return g.Wait()
}

func printNotification(w io.Writer, msg protocol.Message) {
	var n protocol.Notification
	if err := msg.Decode(&n); err != nil {
		fmt.Fprintf(w, "! malformed notification: %v\n", err)
		return
	}
	line := fmt.Sprintf("[%s] %s", n.Level, n.Message)
	if n.URL != "" {
		line += " " + n.URL
	}
	fmt.Fprintln(w, line)
}

func summary(state protocol.ViewState) string {
	if !state.HasRecord() {
		return "no assignment"
	}
	rec := state.Record
	s := fmt.Sprintf("%q (%s)", rec.DisplayName(), rec.Path)
	if rec.HasLinkedResource {
		s += ", example " + rec.DeploymentStatus.Label()
	} else {
		s += ", no example"
	}
	return s
}

// syncWriter serializes writes from the REPL and the inbound loop.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
