package devhost

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vcrobe/assignview/dom"
	"github.com/vcrobe/assignview/panel"
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/transport"
)

func newTestServer(t *testing.T) (*Host, *httptest.Server) {
	t.Helper()
	host := NewHost(openSeeded(t), DemoCourseID, DemoAssignmentID, "https://gitlab.example.com", zap.NewNop())
	srv := httptest.NewServer(NewServer(host, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return host, srv
}

func TestServer_PanelRoundTrip(t *testing.T) {
	_, srv := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", zap.NewNop())
	require.NoError(t, err)

	doc := dom.NewHeadless(panel.IDMount)
	p := panel.New(doc, protocol.ViewState{}, panel.Options{Sender: conn, Logger: zap.NewNop()})
	p.Start()
	assert.True(t, doc.Has(panel.IDEmptyState))

	notices := make(chan protocol.Notification, 8)
	done := make(chan error, 1)
	go func() {
		done <- conn.ReadLoop(ctx, func(msg protocol.Message) {
			if msg.Command == protocol.CommandShowNotification {
				var n protocol.Notification
				if msg.Decode(&n) == nil {
					notices <- n
				}
				return
			}
			p.HandleMessage(msg)
		})
	}()

	require.Eventually(t, func() bool { return doc.Has(panel.IDNoExample) }, 5*time.Second, 10*time.Millisecond,
		"initial state push should render the record")
	assert.Equal(t, "Loops", p.State().Record.Title)

	require.True(t, doc.Click(panel.IDAssignExample))
	require.Eventually(t, func() bool { return doc.Has(panel.IDDeploymentStatus) }, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, doc.Text(), "Loop kata")
	assert.True(t, doc.Has(panel.IDDeploy))

	select {
	case n := <-notices:
		assert.Equal(t, protocol.LevelInfo, n.Level)
		assert.Contains(t, n.Message, "Loop kata")
	case <-ctx.Done():
		t.Fatal("no notification for assignExample")
	}

	require.NoError(t, conn.Close())
	assert.NoError(t, <-done)
}

func TestServer_PreviewEscapes(t *testing.T) {
	host, srv := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, host.repo.UpdateContent(ctx, DemoAssignmentID, protocol.ContentUpdates{
		Title: `<script>alert("x")</script>`,
	}))

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "<script>")
	assert.Contains(t, string(body), "&lt;script&gt;")
	assert.Contains(t, string(body), `id="contentForm"`)
}

func TestServer_UnknownRoute(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	host := NewHost(openSeeded(t), DemoCourseID, DemoAssignmentID, "", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(host, zap.NewNop()).ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
