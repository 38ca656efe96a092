package panel

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vcrobe/assignview/dom"
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/transport"
)

type recorder struct {
	mu   sync.Mutex
	msgs []protocol.Message
}

func (r *recorder) Send(msg protocol.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) all() []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Message(nil), r.msgs...)
}

func (r *recorder) commands() []string {
	var out []string
	for _, m := range r.all() {
		out = append(out, m.Command)
	}
	return out
}

func newTestPanel(t *testing.T, initial protocol.ViewState, confirm Confirmer) (*Panel, *dom.Headless, *recorder) {
	t.Helper()
	doc := dom.NewHeadless(IDMount)
	rec := &recorder{}
	p := New(doc, initial, Options{Sender: rec, Confirm: confirm, Logger: zaptest.NewLogger(t)})
	p.Start()
	t.Cleanup(p.Close)
	return p, doc, rec
}

func stateMessage(t *testing.T, state protocol.ViewState) protocol.Message {
	t.Helper()
	msg, err := protocol.StateMessage(state)
	require.NoError(t, err)
	return msg
}

func sampleState() protocol.ViewState {
	return protocol.ViewState{
		Record: &protocol.Assignment{
			ID:           "a-1",
			Title:        "Loops",
			Path:         "week1.loops",
			Description:  "Iterate all the things",
			MaxGroupSize: protocol.IntPtr(2),
		},
		Container:    &protocol.Course{ID: "c-1", Title: "Intro to Go"},
		RecordKind:   &protocol.ContentKind{ID: "k-1", Title: "Assignment"},
		IsActionable: true,
	}
}

func withExample(state protocol.ViewState, status protocol.DeploymentStatus) protocol.ViewState {
	rec := *state.Record
	rec.HasLinkedResource = true
	rec.DeploymentStatus = status
	state.Record = &rec
	state.LinkedResource = &protocol.Example{ID: "e-1", Title: "Loop kata"}
	return state
}

func payload(t *testing.T, msg protocol.Message) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &out))
	return out
}

func TestPanel_EndToEnd(t *testing.T) {
	// Arrange: bootstrap without a record.
	p, doc, rec := newTestPanel(t, protocol.ViewState{}, nil)
	assert.True(t, doc.Has(IDEmptyState))

	// Act: the host pushes a record without an example.
	state := sampleState()
	require.True(t, p.HandleMessage(stateMessage(t, state)))

	// Assert: assign button and pre-filled form.
	assert.True(t, doc.Has(IDAssignExample))
	assert.False(t, doc.Has(IDEmptyState))
	title, _ := doc.Value(IDTitle)
	assert.Equal(t, "Loops", title)
	desc, _ := doc.Value(IDDescription)
	assert.Equal(t, "Iterate all the things", desc)
	group, _ := doc.Value(IDMaxGroupSize)
	assert.Equal(t, "2", group)
	runs, _ := doc.Value(IDMaxTestRuns)
	assert.Equal(t, "", runs)

	require.True(t, doc.Click(IDAssignExample))
	msgs := rec.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, protocol.CommandAssignExample, msgs[0].Command)
	assert.Equal(t, map[string]any{"containerId": "c-1", "recordId": "a-1"}, payload(t, msgs[0]))
}

func TestPanel_PlaceholderHasNoInteractiveElements(t *testing.T) {
	_, doc, rec := newTestPanel(t, protocol.ViewState{Container: &protocol.Course{ID: "c"}, IsActionable: true}, nil)

	assert.Zero(t, doc.InteractiveCount())
	for _, id := range []string{IDForm, IDSubmit, IDRefresh, IDDelete, IDCreateChild, IDAssignExample, IDDeploy} {
		assert.False(t, doc.Click(id), id)
	}
	assert.Empty(t, rec.all())
}

func TestPanel_IdempotentRebind(t *testing.T) {
	p, doc, rec := newTestPanel(t, protocol.ViewState{}, nil)

	p.HandleMessage(stateMessage(t, sampleState()))
	p.HandleMessage(stateMessage(t, sampleState()))

	require.True(t, doc.Click(IDRefresh))
	assert.Equal(t, []string{protocol.CommandRefresh}, rec.commands())
	assert.Equal(t, 3, p.Renders())
}

func TestPanel_FormRoundTrip_TitleOnly(t *testing.T) {
	state := sampleState()
	state.Record.MaxGroupSize = nil
	_, doc, rec := newTestPanel(t, state, nil)

	require.True(t, doc.SetValue(IDTitle, "Loops, revised"))
	require.True(t, doc.Click(IDSubmit))

	msgs := rec.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, protocol.CommandUpdateContent, msgs[0].Command)
	want := map[string]any{
		"containerId": "c-1",
		"recordId":    "a-1",
		"updates": map[string]any{
			"title":       "Loops, revised",
			"description": "Iterate all the things",
		},
	}
	if diff := cmp.Diff(want, payload(t, msgs[0])); diff != "" {
		t.Errorf("updateContent payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPanel_NumericOmission(t *testing.T) {
	state := sampleState()
	state.Record.MaxGroupSize = nil
	_, doc, rec := newTestPanel(t, state, nil)

	require.True(t, doc.SetValue(IDMaxGroupSize, "5"))
	require.True(t, doc.Submit(IDForm))

	msgs := rec.all()
	require.Len(t, msgs, 1)
	var got protocol.UpdateContent
	require.NoError(t, msgs[0].Decode(&got))
	require.NotNil(t, got.Updates.MaxGroupSize)
	assert.Equal(t, 5, *got.Updates.MaxGroupSize)

	updates := payload(t, msgs[0])["updates"].(map[string]any)
	assert.Equal(t, float64(5), updates["maxGroupSize"])
	assert.NotContains(t, updates, "maxTestRuns")
	assert.NotContains(t, updates, "maxSubmissions")
}

func TestPanel_EmptyTitleBlocksSubmit(t *testing.T) {
	_, doc, rec := newTestPanel(t, sampleState(), nil)

	require.True(t, doc.SetValue(IDTitle, ""))
	assert.False(t, doc.Submit(IDForm))
	assert.Empty(t, rec.all())
}

func TestPanel_WhitespaceTitleIsSent(t *testing.T) {
	_, doc, rec := newTestPanel(t, sampleState(), nil)

	require.True(t, doc.SetValue(IDTitle, "   "))
	require.True(t, doc.Click(IDSubmit))

	msgs := rec.all()
	require.Len(t, msgs, 1)
	var got protocol.UpdateContent
	require.NoError(t, msgs[0].Decode(&got))
	assert.Equal(t, "   ", got.Updates.Title)
}

func TestPanel_ConfirmationGating(t *testing.T) {
	cases := []struct {
		id      string
		command string
	}{
		{IDDelete, protocol.CommandDeleteContent},
		{IDUnassignExample, protocol.CommandUnassignExample},
		{IDDeploy, protocol.CommandDeployAssignment},
	}
	for _, tc := range cases {
		t.Run(tc.command, func(t *testing.T) {
			var prompts []string
			answer := false
			confirm := ConfirmFunc(func(msg string) bool {
				prompts = append(prompts, msg)
				return answer
			})
			_, doc, rec := newTestPanel(t, withExample(sampleState(), protocol.DeploymentPending), confirm)

			require.True(t, doc.Click(tc.id))
			assert.Empty(t, rec.all(), "declined prompt must not send")

			answer = true
			require.True(t, doc.Click(tc.id))
			assert.Equal(t, []string{tc.command}, rec.commands())
			assert.Len(t, prompts, 2)
		})
	}
}

func TestPanel_DeletePromptNamesRecord(t *testing.T) {
	var prompt string
	confirm := ConfirmFunc(func(msg string) bool { prompt = msg; return false })

	state := sampleState()
	_, doc, _ := newTestPanel(t, state, confirm)
	require.True(t, doc.Click(IDDelete))
	assert.Contains(t, prompt, "“Loops”")
	assert.NotContains(t, prompt, `\"`)

	state.Record.Title = ""
	_, doc, _ = newTestPanel(t, state, confirm)
	require.True(t, doc.Click(IDDelete))
	assert.Contains(t, prompt, "“week1.loops”")
}

func TestPanel_NilConfirmDeclines(t *testing.T) {
	_, doc, rec := newTestPanel(t, sampleState(), nil)
	require.True(t, doc.Click(IDDelete))
	assert.Empty(t, rec.all())
}

func TestPanel_RemainingCommands(t *testing.T) {
	_, doc, rec := newTestPanel(t, withExample(sampleState(), protocol.DeploymentDeployed), nil)

	for _, id := range []string{IDRefresh, IDViewSubmissions, IDOpenGitLab, IDCreateChild} {
		require.True(t, doc.Click(id), id)
	}
	msgs := rec.all()
	require.Len(t, msgs, 4)
	assert.Equal(t, []string{
		protocol.CommandRefresh,
		protocol.CommandViewSubmissions,
		protocol.CommandOpenGitLabRepo,
		protocol.CommandCreateChild,
	}, rec.commands())

	var child protocol.CreateChild
	require.NoError(t, msgs[3].Decode(&child))
	assert.Equal(t, "c-1", child.ContainerID)
	assert.Equal(t, "a-1", child.ParentRecord.ID)
	assert.Equal(t, "Loops", child.ParentRecord.Title)
	assert.True(t, child.ParentRecord.HasLinkedResource)
}

func TestPanel_CreateChildEchoesWholeRecord(t *testing.T) {
	p, doc, rec := newTestPanel(t, protocol.ViewState{}, nil)

	raw := `{"record":{"id":"a-1","title":"Loops","path":"w.l","hasLinkedResource":false,` +
		`"courseContentTypeId":"k-9","position":3,"properties":{"lang":"go","tags":["a","b"]}},` +
		`"container":{"id":"c-1","title":"Go"},"isActionable":true}`
	require.True(t, p.HandleMessage(protocol.Message{Command: protocol.CommandUpdateState, Data: json.RawMessage(raw)}))
	require.True(t, doc.Click(IDCreateChild))

	msgs := rec.all()
	require.Len(t, msgs, 1)
	want := map[string]any{
		"containerId": "c-1",
		"parentRecord": map[string]any{
			"id":                  "a-1",
			"title":               "Loops",
			"path":                "w.l",
			"hasLinkedResource":   false,
			"courseContentTypeId": "k-9",
			"position":            float64(3),
			"properties":          map[string]any{"lang": "go", "tags": []any{"a", "b"}},
		},
	}
	if diff := cmp.Diff(want, payload(t, msgs[0])); diff != "" {
		t.Errorf("createChild payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPanel_CoercesPrimitiveFields(t *testing.T) {
	p, doc, _ := newTestPanel(t, protocol.ViewState{}, nil)

	raw := `{"record":{"id":42,"title":"Loops","path":"w.l","maxGroupSize":"4","maxTestRuns":2.7,` +
		`"maxSubmissions":{"odd":true},"hasLinkedResource":"true","deploymentStatus":"pending"},` +
		`"container":{"id":7,"title":"Go"},"linkedResource":"not an object","isActionable":1}`
	require.True(t, p.HandleMessage(protocol.Message{Command: protocol.CommandUpdateState, Data: json.RawMessage(raw)}))

	state := p.State()
	require.True(t, state.HasRecord())
	assert.Equal(t, "42", state.RecordID())
	assert.Equal(t, "7", state.ContainerID())
	assert.True(t, state.IsActionable)
	assert.True(t, state.Record.HasLinkedResource)
	assert.Nil(t, state.LinkedResource)
	assert.Nil(t, state.Record.MaxSubmissions)

	assert.False(t, doc.Has(IDEmptyState))
	assert.True(t, doc.Has(IDDeploymentStatus))
	group, _ := doc.Value(IDMaxGroupSize)
	assert.Equal(t, "4", group)
	runs, _ := doc.Value(IDMaxTestRuns)
	assert.Equal(t, "2", runs)
	subs, _ := doc.Value(IDMaxSubmissions)
	assert.Equal(t, "", subs)
}

func TestPanel_AppliedHookSeesRenderedState(t *testing.T) {
	doc := dom.NewHeadless(IDMount)
	var seen []string
	p := New(doc, protocol.ViewState{}, Options{Applied: func(state protocol.ViewState) {
		title, _ := doc.Value(IDTitle)
		seen = append(seen, state.RecordID()+"/"+title)
	}})
	p.Start()

	require.True(t, p.HandleMessage(stateMessage(t, sampleState())))
	assert.False(t, p.HandleMessage(protocol.Message{Command: "somethingNew"}))
	assert.Equal(t, []string{"a-1/Loops"}, seen)
}

func TestPanel_IgnoresUnknownAndMalformed(t *testing.T) {
	p, _, _ := newTestPanel(t, sampleState(), nil)

	assert.False(t, p.HandleMessage(protocol.Message{Command: protocol.CommandShowNotification, Data: json.RawMessage(`{"message":"hi"}`)}))
	assert.False(t, p.HandleMessage(protocol.Message{Command: "somethingNew"}))
	assert.False(t, p.HandleMessage(protocol.Message{Command: protocol.CommandUpdateState, Data: json.RawMessage(`[1,2,3]`)}))
	assert.False(t, p.HandleMessage(protocol.Message{Command: protocol.CommandUpdateState, Data: json.RawMessage(`"record"`)}))
	assert.False(t, p.HandleMessage(protocol.Message{Command: protocol.CommandUpdateState}))

	assert.Equal(t, "a-1", p.State().RecordID())
	assert.Equal(t, 1, p.Renders())
}

func TestPanel_SendFailureIsSwallowed(t *testing.T) {
	doc := dom.NewHeadless(IDMount)
	p := New(doc, sampleState(), Options{
		Sender:  transport.SenderFunc(func(protocol.Message) error { return assert.AnError }),
		Confirm: ConfirmFunc(func(string) bool { return true }),
	})
	p.Start()

	assert.NotPanics(t, func() { doc.Click(IDDelete) })
	assert.Equal(t, "a-1", p.State().RecordID())
}

func TestPanel_RunAppliesInOrder(t *testing.T) {
	p, doc, _ := newTestPanel(t, protocol.ViewState{}, nil)

	in := make(chan protocol.Message, 3)
	for _, title := range []string{"one", "two", "three"} {
		state := sampleState()
		state.Record.Title = title
		in <- stateMessage(t, state)
	}
	close(in)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Run(ctx, in))

	assert.Equal(t, "three", p.State().Record.Title)
	title, _ := doc.Value(IDTitle)
	assert.Equal(t, "three", title)
	assert.Equal(t, 4, p.Renders())
}

func TestPanel_RunStopsOnCancel(t *testing.T) {
	p, _, _ := newTestPanel(t, protocol.ViewState{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, p.Run(ctx, make(chan protocol.Message)))
}

func TestPanel_CloseStopsRendering(t *testing.T) {
	p, _, _ := newTestPanel(t, protocol.ViewState{}, nil)
	p.Close()
	p.HandleMessage(stateMessage(t, sampleState()))
	assert.Equal(t, 1, p.Renders())
	assert.Equal(t, "a-1", p.State().RecordID())
}

func TestDecodeInitialState(t *testing.T) {
	assert.False(t, DecodeInitialState("").HasRecord())
	assert.False(t, DecodeInitialState("undefined").HasRecord())
	assert.False(t, DecodeInitialState("{broken").HasRecord())

	state := DecodeInitialState(`{"record":{"id":"a","title":"T","path":"p","hasLinkedResource":false},"isActionable":true}`)
	require.True(t, state.HasRecord())
	assert.Equal(t, "T", state.Record.Title)
}
