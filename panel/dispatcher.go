package panel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vcrobe/assignview/logging"
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/transport"
)

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// FormValues are the raw input values of the edit form.
type FormValues struct {
	Title          string
	Description    string
	MaxGroupSize   string
	MaxTestRuns    string
	MaxSubmissions string
}

// Dispatcher turns user actions into commands for the host. It never touches
// the state itself and never waits for an answer.
type Dispatcher struct {
	store   *Store
	sender  transport.Sender
	confirm Confirmer
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher. A nil confirm declines every prompt.
func NewDispatcher(store *Store, sender transport.Sender, confirm Confirmer, logger *zap.Logger) *Dispatcher {
	if confirm == nil {
		confirm = ConfirmFunc(func(string) bool { return false })
	}
	return &Dispatcher{
		store:   store,
		sender:  sender,
		confirm: confirm,
		logger:  logging.OrNop(logger).Named("dispatch"),
	}
}

// SubmitEdit sends updateContent with the edited fields. Empty numeric
// inputs are left out so the host can tell "unset" from zero.
func (d *Dispatcher) SubmitEdit(form FormValues) {
	state := d.store.Get()
	if !state.HasRecord() {
		return
	}
	if form.Title == "" {
		d.logger.Debug("ignoring submit with empty title")
		return
	}
	d.send(protocol.CommandUpdateContent, protocol.UpdateContent{
		ContainerID: state.ContainerID(),
		RecordID:    state.RecordID(),
		Updates:     d.buildUpdates(form),
	})
}

func (d *Dispatcher) buildUpdates(form FormValues) protocol.ContentUpdates {
	return protocol.ContentUpdates{
		Title:          form.Title,
		Description:    form.Description,
		MaxGroupSize:   d.optionalInt(IDMaxGroupSize, form.MaxGroupSize),
		MaxTestRuns:    d.optionalInt(IDMaxTestRuns, form.MaxTestRuns),
		MaxSubmissions: d.optionalInt(IDMaxSubmissions, form.MaxSubmissions),
	}
}

func (d *Dispatcher) optionalInt(field, raw string) *int {
	v, ok, err := ParseOptionalInt(raw)
	if err != nil {
		d.logger.Warn("dropping unparsable number", zap.String("field", field), zap.String("value", raw))
		return nil
	}
	if !ok {
		return nil
	}
	return &v
}

// ParseOptionalInt parses a numeric input the way a number field reports it.
// An empty input reports ok=false. Decimal and exponent notation are both
// accepted ("1e3" is 1000) and fractions truncate toward zero. Values outside
// the int32 range are rejected whatever their notation.
func ParseOptionalInt(raw string) (v int, ok bool, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("not a number: %q", raw)
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false, fmt.Errorf("out of range: %q", raw)
	}
	return int(f), true, nil
}

// Refresh asks the host to push the current state again.
func (d *Dispatcher) Refresh() {
	d.sendRef(protocol.CommandRefresh)
}

// AssignExample asks the host to link an example.
func (d *Dispatcher) AssignExample() {
	d.sendRef(protocol.CommandAssignExample)
}

// UnassignExample removes the linked example after confirmation.
func (d *Dispatcher) UnassignExample() {
	if !d.confirm.Confirm("Are you sure you want to unassign the example from this assignment?") {
		return
	}
	d.sendRef(protocol.CommandUnassignExample)
}

// ViewSubmissions asks the host to show the submissions.
func (d *Dispatcher) ViewSubmissions() {
	d.sendRef(protocol.CommandViewSubmissions)
}

// OpenGitLabRepo asks the host to open the repository in a browser.
func (d *Dispatcher) OpenGitLabRepo() {
	d.sendRef(protocol.CommandOpenGitLabRepo)
}

// Deploy asks the host to deploy the assignment after confirmation.
func (d *Dispatcher) Deploy() {
	state := d.store.Get()
	if !state.HasRecord() {
		return
	}
	if !d.confirm.Confirm(fmt.Sprintf("Deploy “%s” to students?", state.Record.DisplayName())) {
		return
	}
	d.sendRef(protocol.CommandDeployAssignment)
}

// CreateChild asks the host to create content below the record.
func (d *Dispatcher) CreateChild() {
	state := d.store.Get()
	if !state.HasRecord() {
		return
	}
	d.send(protocol.CommandCreateChild, protocol.CreateChild{
		ContainerID:  state.ContainerID(),
		ParentRecord: *state.Record,
	})
}

// Delete asks the host to delete the record after confirmation.
func (d *Dispatcher) Delete() {
	state := d.store.Get()
	if !state.HasRecord() {
		return
	}
	msg := fmt.Sprintf("Are you sure you want to delete “%s”? This action cannot be undone.", state.Record.DisplayName())
	if !d.confirm.Confirm(msg) {
		return
	}
	d.sendRef(protocol.CommandDeleteContent)
}

func (d *Dispatcher) sendRef(command string) {
	state := d.store.Get()
	if !state.HasRecord() {
		return
	}
	d.send(command, protocol.RecordRef{
		ContainerID: state.ContainerID(),
		RecordID:    state.RecordID(),
	})
}

// send is best effort: failures are logged and never retried.
func (d *Dispatcher) send(command string, payload any) {
	msg, err := protocol.NewMessage(command, payload)
	if err != nil {
		d.logger.Error("encode command", zap.String("command", command), zap.Error(err))
		return
	}
	if d.sender == nil {
		d.logger.Warn("no host transport, dropping command", zap.String("command", command))
		return
	}
	if err := d.sender.Send(msg); err != nil {
		d.logger.Warn("send command", zap.String("command", command), zap.Error(err))
		return
	}
	d.logger.Debug("sent command", zap.String("command", command))
}
