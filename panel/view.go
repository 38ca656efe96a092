package panel

import (
	"strconv"

	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/vdom"
)

// View renders state into a fresh tree. It is a pure function: the same
// state always yields the same tree. All text is carried as text content or
// attribute values and is therefore escaped on output.
func View(state protocol.ViewState) *vdom.VNode {
	if !state.HasRecord() {
		return vdom.Div(map[string]any{"id": IDEmptyState, "class": "empty-state"},
			vdom.Paragraph("No assignment data available.", nil),
		)
	}

	return vdom.Div(map[string]any{"class": "assignment-panel"},
		header(state),
		exampleSection(state),
		editSection(state),
		actionsSection(state),
	)
}

func header(state protocol.ViewState) *vdom.VNode {
	rec := state.Record
	meta := []*vdom.VNode{
		vdom.Span(rec.Path, map[string]any{"class": "path"}),
	}
	if state.Container != nil {
		meta = append(meta, vdom.Span(state.Container.Title, map[string]any{"class": "course"}))
	}
	if state.RecordKind != nil {
		meta = append(meta, vdom.Span(state.RecordKind.Title, map[string]any{"class": "kind"}))
	}
	return vdom.NewVNode("header", nil, []*vdom.VNode{
		vdom.Heading(1, rec.DisplayName(), nil),
		vdom.Div(map[string]any{"class": "meta"}, meta...),
	}, "")
}

// exampleSection renders exactly one of the two example branches.
func exampleSection(state protocol.ViewState) *vdom.VNode {
	rec := state.Record
	if !rec.HasLinkedResource {
		return vdom.Section(map[string]any{"id": IDNoExample, "class": "card no-example"},
			vdom.Heading(2, "Example", nil),
			vdom.Paragraph("No example assigned to this assignment.", nil),
			vdom.Button("Assign Example", map[string]any{"id": IDAssignExample, "class": "primary"}),
		)
	}

	status := rec.DeploymentStatus
	var exampleTitle *vdom.VNode
	if state.LinkedResource != nil {
		exampleTitle = vdom.Paragraph(state.LinkedResource.Title, map[string]any{"class": "example-title"})
	}
	return vdom.Section(map[string]any{"id": IDDeploymentStatus, "class": "card deployment"},
		vdom.Heading(2, "Deployment Status", nil),
		vdom.Span(status.Label(), map[string]any{"class": "badge status-" + statusClass(status)}),
		exampleTitle,
		vdom.Div(map[string]any{"class": "button-row"},
			vdom.Button("View Submissions", map[string]any{"id": IDViewSubmissions}),
			vdom.Button("Open in GitLab", map[string]any{"id": IDOpenGitLab}),
			vdom.Button("Unassign Example", map[string]any{"id": IDUnassignExample, "class": "danger"}),
		),
	)
}

func statusClass(s protocol.DeploymentStatus) string {
	if s == protocol.DeploymentNone {
		return "none"
	}
	return string(s)
}

func editSection(state protocol.ViewState) *vdom.VNode {
	rec := state.Record
	readOnly := !state.IsActionable

	return vdom.Section(map[string]any{"class": "card edit"},
		vdom.Heading(2, "Details", nil),
		vdom.Form(map[string]any{"id": IDForm},
			field(IDTitle, "Title",
				vdom.InputText(rec.Title, map[string]any{"id": IDTitle, "name": IDTitle, "required": true, "disabled": readOnly})),
			field(IDDescription, "Description",
				vdom.TextArea(rec.Description, map[string]any{"id": IDDescription, "name": IDDescription, "rows": 4, "disabled": readOnly})),
			numberField(IDMaxGroupSize, "Max Group Size", rec.MaxGroupSize, readOnly),
			numberField(IDMaxTestRuns, "Max Test Runs", rec.MaxTestRuns, readOnly),
			numberField(IDMaxSubmissions, "Max Submissions", rec.MaxSubmissions, readOnly),
			vdom.Div(map[string]any{"class": "button-row"},
				vdom.Button("Save Changes", map[string]any{"id": IDSubmit, "type": "submit", "class": "primary", "disabled": readOnly}),
				vdom.Button("Refresh", map[string]any{"id": IDRefresh}),
			),
		),
	)
}

func field(id, label string, control *vdom.VNode) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "field"}, vdom.Label(id, label), control)
}

// numberField leaves the input empty for a nil value so the placeholder
// shows instead of a misleading zero.
func numberField(id, label string, value *int, readOnly bool) *vdom.VNode {
	text := ""
	if value != nil {
		text = strconv.Itoa(*value)
	}
	return field(id, label, vdom.InputNumber(text, map[string]any{
		"id":          id,
		"name":        id,
		"min":         0,
		"placeholder": "unlimited",
		"disabled":    readOnly,
	}))
}

func actionsSection(state protocol.ViewState) *vdom.VNode {
	return vdom.Section(map[string]any{"class": "card actions"},
		vdom.Heading(2, "Actions", nil),
		vdom.Div(map[string]any{"class": "button-row"},
			vdom.If(state.Deployable(), vdom.Button("Deploy Assignment", map[string]any{"id": IDDeploy, "class": "primary"})),
			vdom.Button("Create Child Content", map[string]any{"id": IDCreateChild}),
			vdom.Button("Delete", map[string]any{"id": IDDelete, "class": "danger"}),
		),
	)
}
