package panel

import (
	"github.com/vcrobe/assignview/dom"
)

// Bind implements runtime.Binder. It attaches one listener per known
// element. Elements are rendered conditionally, so missing ones are skipped.
func (p *Panel) Bind(doc dom.Document) {
	d := p.dispatcher
	clicks := []struct {
		id     string
		action func()
	}{
		{IDRefresh, d.Refresh},
		{IDAssignExample, d.AssignExample},
		{IDUnassignExample, d.UnassignExample},
		{IDViewSubmissions, d.ViewSubmissions},
		{IDOpenGitLab, d.OpenGitLabRepo},
		{IDDeploy, d.Deploy},
		{IDCreateChild, d.CreateChild},
		{IDDelete, d.Delete},
	}
	for _, c := range clicks {
		el, ok := doc.ElementByID(c.id)
		if !ok {
			continue
		}
		action := c.action
		el.AddEventListener(dom.EventClick, func(dom.Event) { action() })
	}

	if form, ok := doc.ElementByID(IDForm); ok {
		form.AddEventListener(dom.EventSubmit, func(e dom.Event) {
			e.PreventDefault()
			d.SubmitEdit(readForm(doc))
		})
	}
}

func readForm(doc dom.Document) FormValues {
	value := func(id string) string {
		if el, ok := doc.ElementByID(id); ok {
			return el.Value()
		}
		return ""
	}
	return FormValues{
		Title:          value(IDTitle),
		Description:    value(IDDescription),
		MaxGroupSize:   value(IDMaxGroupSize),
		MaxTestRuns:    value(IDMaxTestRuns),
		MaxSubmissions: value(IDMaxSubmissions),
	}
}
