package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Outbound commands, panel to host.
const (
	CommandUpdateContent    = "updateContent"
	CommandRefresh          = "refresh"
	CommandAssignExample    = "assignExample"
	CommandUnassignExample  = "unassignExample"
	CommandViewSubmissions  = "viewSubmissions"
	CommandOpenGitLabRepo   = "openGitLabRepo"
	CommandDeployAssignment = "deployAssignment"
	CommandCreateChild      = "createChild"
	CommandDeleteContent    = "deleteContent"
)

// Inbound commands, host to panel.
const (
	CommandUpdateState      = "updateState"
	CommandShowNotification = "showNotification"
)

// OutboundCommands lists every command the panel may send.
var OutboundCommands = []string{
	CommandUpdateContent,
	CommandRefresh,
	CommandAssignExample,
	CommandUnassignExample,
	CommandViewSubmissions,
	CommandOpenGitLabRepo,
	CommandDeployAssignment,
	CommandCreateChild,
	CommandDeleteContent,
}

// ErrNoData is returned by Decode when the message carries no payload.
var ErrNoData = errors.New("message has no data")

// Message is the envelope used in both directions.
type Message struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewMessage marshals data into an envelope for command.
func NewMessage(command string, data any) (Message, error) {
	msg := Message{Command: command}
	if data == nil {
		return msg, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", command, err)
	}
	msg.Data = raw
	return msg, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if len(m.Data) == 0 || string(m.Data) == "null" {
		return ErrNoData
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Command, err)
	}
	return nil
}

// ParseMessage decodes a raw envelope.
func ParseMessage(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("decode envelope: %w", err)
	}
	if msg.Command == "" {
		return Message{}, errors.New("decode envelope: missing command")
	}
	return msg, nil
}

// RecordRef identifies the record a command applies to.
type RecordRef struct {
	ContainerID string `json:"containerId"`
	RecordID    string `json:"recordId"`
}

// ContentUpdates carries the edited form fields. Numeric fields are nil when
// the input was left empty and are then left out of the payload entirely.
type ContentUpdates struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	MaxGroupSize   *int   `json:"maxGroupSize,omitempty"`
	MaxTestRuns    *int   `json:"maxTestRuns,omitempty"`
	MaxSubmissions *int   `json:"maxSubmissions,omitempty"`
}

// UpdateContent is the payload of updateContent.
type UpdateContent struct {
	ContainerID string         `json:"containerId"`
	RecordID    string         `json:"recordId"`
	Updates     ContentUpdates `json:"updates"`
}

// CreateChild is the payload of createChild.
type CreateChild struct {
	ContainerID  string     `json:"containerId"`
	ParentRecord Assignment `json:"parentRecord"`
}

// NotificationLevel grades host notifications.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is the payload of showNotification. The panel itself ignores
// it; it is surfaced by whatever embeds the panel.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	URL     string            `json:"url,omitempty"`
}

// StateMessage builds an updateState envelope.
func StateMessage(state ViewState) (Message, error) {
	return NewMessage(CommandUpdateState, state)
}
