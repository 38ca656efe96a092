// Package protocol defines the messages exchanged between the assignment
// panel and its host: the ViewState pushed by the host and the commands the
// panel sends back.
package protocol

import "encoding/json"

// DeploymentStatus describes where the linked example of an assignment is in
// its deployment lifecycle.
type DeploymentStatus string

const (
	DeploymentNone      DeploymentStatus = ""
	DeploymentPending   DeploymentStatus = "pending"
	DeploymentDeploying DeploymentStatus = "deploying"
	DeploymentDeployed  DeploymentStatus = "deployed"
	DeploymentFailed    DeploymentStatus = "failed"
)

// Label returns the human readable badge text for the status.
func (s DeploymentStatus) Label() string {
	switch s {
	case DeploymentNone:
		return "not deployed"
	case DeploymentPending:
		return "pending"
	case DeploymentDeploying:
		return "deploying"
	case DeploymentDeployed:
		return "deployed"
	case DeploymentFailed:
		return "failed"
	default:
		return string(s)
	}
}

// Assignment is the record shown and edited by the panel.
type Assignment struct {
	ID                string           `json:"id" yaml:"id"`
	ParentID          string           `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Title             string           `json:"title" yaml:"title"`
	Path              string           `json:"path" yaml:"path"`
	Description       string           `json:"description,omitempty" yaml:"description,omitempty"`
	MaxGroupSize      *int             `json:"maxGroupSize,omitempty" yaml:"maxGroupSize,omitempty"`
	MaxTestRuns       *int             `json:"maxTestRuns,omitempty" yaml:"maxTestRuns,omitempty"`
	MaxSubmissions    *int             `json:"maxSubmissions,omitempty" yaml:"maxSubmissions,omitempty"`
	HasLinkedResource bool             `json:"hasLinkedResource" yaml:"hasLinkedResource"`
	DeploymentStatus  DeploymentStatus `json:"deploymentStatus,omitempty" yaml:"deploymentStatus,omitempty"`

	// Extra holds the record members the panel does not interpret. They are
	// sent back untouched when the whole record is echoed to the host.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// UnmarshalJSON decodes the known members leniently and keeps the rest in
// Extra.
func (a *Assignment) UnmarshalJSON(raw []byte) error {
	if isNull(raw) {
		return nil
	}
	m := members(raw)
	if m == nil {
		return errNotObject
	}
	*a = Assignment{
		ID:                looseString(take(m, "id")),
		ParentID:          looseString(take(m, "parentId")),
		Title:             looseString(take(m, "title")),
		Path:              looseString(take(m, "path")),
		Description:       looseString(take(m, "description")),
		MaxGroupSize:      looseInt(take(m, "maxGroupSize")),
		MaxTestRuns:       looseInt(take(m, "maxTestRuns")),
		MaxSubmissions:    looseInt(take(m, "maxSubmissions")),
		HasLinkedResource: looseBool(take(m, "hasLinkedResource")),
		DeploymentStatus:  DeploymentStatus(looseString(take(m, "deploymentStatus"))),
	}
	if len(m) > 0 {
		a.Extra = m
	}
	return nil
}

// MarshalJSON writes Extra merged with the known members. Known members win
// over an Extra entry of the same name.
func (a Assignment) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+10)
	for k, v := range a.Extra {
		out[k] = v
	}
	set := func(key string, v any, present bool) {
		if present {
			out[key] = v
		} else {
			delete(out, key)
		}
	}
	out["id"] = a.ID
	out["title"] = a.Title
	out["path"] = a.Path
	out["hasLinkedResource"] = a.HasLinkedResource
	set("parentId", a.ParentID, a.ParentID != "")
	set("description", a.Description, a.Description != "")
	set("maxGroupSize", a.MaxGroupSize, a.MaxGroupSize != nil)
	set("maxTestRuns", a.MaxTestRuns, a.MaxTestRuns != nil)
	set("maxSubmissions", a.MaxSubmissions, a.MaxSubmissions != nil)
	set("deploymentStatus", a.DeploymentStatus, a.DeploymentStatus != DeploymentNone)
	return json.Marshal(out)
}

// DisplayName is the title, or the path when the title is empty.
func (a *Assignment) DisplayName() string {
	if a.Title != "" {
		return a.Title
	}
	return a.Path
}

// Course is the container the assignment belongs to.
type Course struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (c *Course) UnmarshalJSON(raw []byte) error {
	if isNull(raw) {
		return nil
	}
	m := members(raw)
	if m == nil {
		return errNotObject
	}
	*c = Course{ID: looseString(m["id"]), Title: looseString(m["title"]), Path: looseString(m["path"])}
	return nil
}

// ContentKind describes the category of the record.
type ContentKind struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

func (k *ContentKind) UnmarshalJSON(raw []byte) error {
	if isNull(raw) {
		return nil
	}
	m := members(raw)
	if m == nil {
		return errNotObject
	}
	*k = ContentKind{ID: looseString(m["id"]), Title: looseString(m["title"])}
	return nil
}

// Example is the deployable artifact optionally linked to an assignment.
type Example struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
}

func (e *Example) UnmarshalJSON(raw []byte) error {
	if isNull(raw) {
		return nil
	}
	m := members(raw)
	if m == nil {
		return errNotObject
	}
	*e = Example{
		ID:         looseString(m["id"]),
		Title:      looseString(m["title"]),
		Identifier: looseString(m["identifier"]),
		Version:    looseString(m["version"]),
	}
	return nil
}

// ViewState is everything the panel needs to render. It is replaced
// wholesale on every update and never mutated in place.
type ViewState struct {
	Record         *Assignment  `json:"record" yaml:"record"`
	Container      *Course      `json:"container,omitempty" yaml:"container,omitempty"`
	RecordKind     *ContentKind `json:"recordKind,omitempty" yaml:"recordKind,omitempty"`
	LinkedResource *Example     `json:"linkedResource,omitempty" yaml:"linkedResource,omitempty"`
	IsActionable   bool         `json:"isActionable" yaml:"isActionable"`
}

// UnmarshalJSON decodes a state blob. A member that is not an object is
// treated as absent, so only a blob that is not an object at all fails.
func (s *ViewState) UnmarshalJSON(raw []byte) error {
	if isNull(raw) {
		return nil
	}
	m := members(raw)
	if m == nil {
		return errNotObject
	}
	var next ViewState
	if r := m["record"]; isObject(r) {
		next.Record = new(Assignment)
		if err := next.Record.UnmarshalJSON(r); err != nil {
			next.Record = nil
		}
	}
	if r := m["container"]; isObject(r) {
		next.Container = new(Course)
		if err := next.Container.UnmarshalJSON(r); err != nil {
			next.Container = nil
		}
	}
	if r := m["recordKind"]; isObject(r) {
		next.RecordKind = new(ContentKind)
		if err := next.RecordKind.UnmarshalJSON(r); err != nil {
			next.RecordKind = nil
		}
	}
	if r := m["linkedResource"]; isObject(r) {
		next.LinkedResource = new(Example)
		if err := next.LinkedResource.UnmarshalJSON(r); err != nil {
			next.LinkedResource = nil
		}
	}
	next.IsActionable = looseBool(m["isActionable"])
	*s = next
	return nil
}

// HasRecord reports whether there is anything to render beyond the placeholder.
func (s ViewState) HasRecord() bool {
	return s.Record != nil
}

// ContainerID returns the container id or the empty string.
func (s ViewState) ContainerID() string {
	if s.Container == nil {
		return ""
	}
	return s.Container.ID
}

// RecordID returns the record id or the empty string.
func (s ViewState) RecordID() string {
	if s.Record == nil {
		return ""
	}
	return s.Record.ID
}

// Deployable reports whether a deploy action makes sense for the state: the
// record has a linked example that is not deployed yet.
func (s ViewState) Deployable() bool {
	return s.Record != nil && s.Record.HasLinkedResource && s.Record.DeploymentStatus != DeploymentDeployed
}

// IntPtr is a small helper for building optional numeric fields.
func IntPtr(v int) *int {
	return &v
}
