package panel

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/vdom"
)

// stateVariants covers every combination of the fields the view branches on.
func stateVariants() []protocol.ViewState {
	var out []protocol.ViewState
	statuses := []protocol.DeploymentStatus{
		protocol.DeploymentNone, protocol.DeploymentPending, protocol.DeploymentDeploying,
		protocol.DeploymentDeployed, protocol.DeploymentFailed,
	}
	for _, hasExample := range []bool{false, true} {
		for _, status := range statuses {
			for _, withResource := range []bool{false, true} {
				for _, actionable := range []bool{false, true} {
					state := sampleState()
					state.Record.HasLinkedResource = hasExample
					state.Record.DeploymentStatus = status
					state.IsActionable = actionable
					if withResource {
						state.LinkedResource = &protocol.Example{ID: "e", Title: "Example"}
					}
					out = append(out, state)
				}
			}
		}
	}
	return out
}

func TestView_ExactlyOneExampleBranch(t *testing.T) {
	for _, state := range stateVariants() {
		tree := View(state)
		status := tree.Find(IDDeploymentStatus) != nil
		none := tree.Find(IDNoExample) != nil
		assert.True(t, status != none, "exactly one branch for %+v", *state.Record)
		assert.Equal(t, state.Record.HasLinkedResource, status)
	}
}

func TestView_DeployVisibility(t *testing.T) {
	for _, state := range stateVariants() {
		want := state.Record.HasLinkedResource && state.Record.DeploymentStatus != protocol.DeploymentDeployed
		assert.Equal(t, want, View(state).Find(IDDeploy) != nil,
			"hasExample=%v status=%q", state.Record.HasLinkedResource, state.Record.DeploymentStatus)
	}
}

func TestView_AlwaysRenderedControls(t *testing.T) {
	for _, state := range stateVariants() {
		tree := View(state)
		for _, id := range []string{IDForm, IDTitle, IDDescription, IDMaxGroupSize, IDMaxTestRuns, IDMaxSubmissions, IDSubmit, IDRefresh, IDCreateChild, IDDelete} {
			assert.NotNil(t, tree.Find(id), id)
		}
	}
}

func TestView_NoRecord(t *testing.T) {
	tree := View(protocol.ViewState{IsActionable: true, Container: &protocol.Course{ID: "c"}})
	assert.Equal(t, IDEmptyState, tree.ID())

	interactive := 0
	tree.Walk(func(n *vdom.VNode) bool {
		switch n.Tag {
		case "button", "input", "textarea", "form":
			interactive++
		}
		return true
	})
	assert.Zero(t, interactive)
}

func TestView_EscapesText(t *testing.T) {
	state := withExample(sampleState(), protocol.DeploymentPending)
	state.Record.Title = `<script>alert("pwned")</script>`
	state.Record.Description = `</textarea><img src=x onerror=alert(1)>`
	state.Container.Title = `<b>course</b>`
	state.LinkedResource.Title = `<iframe src="evil"></iframe>`

	out := vdom.HTMLString(View(state))
	for _, live := range []string{"<script", "<img", "<b>", "<iframe"} {
		assert.NotContains(t, out, live)
	}

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	var tags []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tags = append(tags, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	for _, tag := range tags {
		assert.NotContains(t, []string{"script", "img", "b", "iframe"}, tag)
	}
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestView_NumbersRenderEmptyWhenUnset(t *testing.T) {
	state := sampleState()
	state.Record.MaxTestRuns = protocol.IntPtr(0)
	tree := View(state)

	assert.Equal(t, "2", tree.Find(IDMaxGroupSize).Content)
	assert.Equal(t, "0", tree.Find(IDMaxTestRuns).Content)
	assert.Equal(t, "", tree.Find(IDMaxSubmissions).Content)
	assert.Equal(t, "unlimited", tree.Find(IDMaxSubmissions).Attributes["placeholder"])
}

func TestView_ReadOnlyDisablesEditing(t *testing.T) {
	state := sampleState()
	state.IsActionable = false
	tree := View(state)

	for _, id := range []string{IDTitle, IDDescription, IDMaxGroupSize, IDSubmit} {
		assert.Equal(t, true, tree.Find(id).Attributes["disabled"], id)
	}
	assert.Nil(t, tree.Find(IDRefresh).Attributes["disabled"])

	state.IsActionable = true
	assert.Equal(t, false, View(state).Find(IDSubmit).Attributes["disabled"])
}

func TestView_Deterministic(t *testing.T) {
	state := withExample(sampleState(), protocol.DeploymentFailed)
	first := vdom.HTMLString(View(state))
	for range 10 {
		if diff := cmp.Diff(first, vdom.HTMLString(View(state))); diff != "" {
			t.Fatalf("view output changed between renders (-first +again):\n%s", diff)
		}
	}
}

func TestView_StatusBadge(t *testing.T) {
	state := withExample(sampleState(), protocol.DeploymentNone)
	out := vdom.HTMLString(View(state))
	assert.Contains(t, out, `class="badge status-none"`)
	assert.Contains(t, out, "not deployed")
	assert.Contains(t, out, "Loop kata")

	state.LinkedResource = nil
	assert.NotContains(t, vdom.HTMLString(View(state)), "example-title")
}
