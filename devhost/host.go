package devhost

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcrobe/assignview/logging"
	"github.com/vcrobe/assignview/protocol"
)

// Reply is the outcome of one command. Every command ends in a state push,
// a notification, or both; a Reply with neither is never produced.
type Reply struct {
	State  *protocol.ViewState
	Notice *protocol.Notification
}

// Messages converts the reply into envelopes, notification first.
func (r Reply) Messages() ([]protocol.Message, error) {
	var out []protocol.Message
	if r.Notice != nil {
		msg, err := protocol.NewMessage(protocol.CommandShowNotification, r.Notice)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	if r.State != nil {
		msg, err := protocol.StateMessage(*r.State)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

// Host executes panel commands against a repository. It tracks which
// content the panel is focused on so that creating or deleting content can
// move the view.
type Host struct {
	repo      Repository
	gitlabURL string
	logger    *zap.Logger

	mu       sync.Mutex
	courseID string
	focusID  string
}

// NewHost creates a host focused on contentID within courseID.
func NewHost(repo Repository, courseID, contentID, gitlabURL string, logger *zap.Logger) *Host {
	return &Host{
		repo:      repo,
		gitlabURL: strings.TrimRight(gitlabURL, "/"),
		logger:    logging.OrNop(logger).Named("devhost"),
		courseID:  courseID,
		focusID:   contentID,
	}
}

// Focus returns the course and content currently shown.
func (h *Host) Focus() (courseID, contentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.courseID, h.focusID
}

func (h *Host) setFocus(contentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focusID = contentID
}

// State builds the ViewState for the focused content. A focus on nothing, or
// on deleted content, yields a state without a record.
func (h *Host) State(ctx context.Context) (protocol.ViewState, error) {
	courseID, contentID := h.Focus()
	state := protocol.ViewState{IsActionable: true}

	course, err := h.repo.Course(ctx, courseID)
	switch {
	case err == nil:
		state.Container = &course
	case !errors.Is(err, ErrNotFound):
		return protocol.ViewState{}, err
	}

	if contentID == "" {
		return state, nil
	}
	content, err := h.repo.Content(ctx, contentID)
	if errors.Is(err, ErrNotFound) {
		return state, nil
	}
	if err != nil {
		return protocol.ViewState{}, err
	}
	rec := content.Assignment
	state.Record = &rec

	if content.KindID != "" {
		if kind, err := h.repo.ContentKind(ctx, content.KindID); err == nil {
			state.RecordKind = &kind
		}
	}
	if content.ExampleID != "" {
		if ex, err := h.repo.Example(ctx, content.ExampleID); err == nil {
			state.LinkedResource = &ex
		}
	}
	return state, nil
}

// Handle executes one command and returns the reply to send back.
func (h *Host) Handle(ctx context.Context, msg protocol.Message) Reply {
	logger := h.logger.With(zap.String("command", msg.Command))
	notice, err := h.dispatch(ctx, msg)
	if err != nil {
		logger.Warn("command failed", zap.Error(err))
		return Reply{Notice: &protocol.Notification{Level: protocol.LevelError, Message: err.Error()}}
	}
	if notice != nil && (notice.Level != protocol.LevelInfo || notice.URL != "") {
		// Warnings and navigation change nothing the panel shows.
		return Reply{Notice: notice}
	}

	state, err := h.State(ctx)
	if err != nil {
		logger.Error("build state", zap.Error(err))
		return Reply{Notice: &protocol.Notification{Level: protocol.LevelError, Message: "could not load assignment: " + err.Error()}}
	}
	logger.Debug("command handled")
	return Reply{State: &state, Notice: notice}
}

func (h *Host) dispatch(ctx context.Context, msg protocol.Message) (*protocol.Notification, error) {
	switch msg.Command {
	case protocol.CommandUpdateContent:
		var p protocol.UpdateContent
		if err := msg.Decode(&p); err != nil {
			return nil, err
		}
		if err := validateUpdates(p.Updates); err != nil {
			return nil, err
		}
		if err := h.repo.UpdateContent(ctx, p.RecordID, p.Updates); err != nil {
			return nil, err
		}
		h.setFocus(p.RecordID)
		return &protocol.Notification{Level: protocol.LevelInfo, Message: "Assignment updated."}, nil

	case protocol.CommandCreateChild:
		var p protocol.CreateChild
		if err := msg.Decode(&p); err != nil {
			return nil, err
		}
		return h.createChild(ctx, p)
	}

	var ref protocol.RecordRef
	if err := msg.Decode(&ref); err != nil {
		return nil, err
	}
	if ref.RecordID == "" {
		return nil, errors.New("missing recordId")
	}

	switch msg.Command {
	case protocol.CommandRefresh:
		h.setFocus(ref.RecordID)
		return nil, nil

	case protocol.CommandAssignExample:
		ex, err := h.repo.FirstExample(ctx)
		if err != nil {
			return nil, fmt.Errorf("no example available: %w", err)
		}
		if err := h.repo.SetExample(ctx, ref.RecordID, ex.ID); err != nil {
			return nil, err
		}
		if err := h.repo.SetDeploymentStatus(ctx, ref.RecordID, protocol.DeploymentPending); err != nil {
			return nil, err
		}
		return &protocol.Notification{Level: protocol.LevelInfo, Message: fmt.Sprintf("Assigned example %q.", ex.Title)}, nil

	case protocol.CommandUnassignExample:
		if err := h.repo.SetExample(ctx, ref.RecordID, ""); err != nil {
			return nil, err
		}
		return &protocol.Notification{Level: protocol.LevelInfo, Message: "Example unassigned."}, nil

	case protocol.CommandDeployAssignment:
		content, err := h.repo.Content(ctx, ref.RecordID)
		if err != nil {
			return nil, err
		}
		if content.ExampleID == "" {
			return &protocol.Notification{Level: protocol.LevelWarning, Message: "Assign an example before deploying."}, nil
		}
		if err := h.repo.SetDeploymentStatus(ctx, ref.RecordID, protocol.DeploymentDeployed); err != nil {
			return nil, err
		}
		return &protocol.Notification{Level: protocol.LevelInfo, Message: fmt.Sprintf("Deployed %q.", content.DisplayName())}, nil

	case protocol.CommandDeleteContent:
		content, err := h.repo.Content(ctx, ref.RecordID)
		if err != nil {
			return nil, err
		}
		if err := h.repo.DeleteContent(ctx, ref.RecordID); err != nil {
			return nil, err
		}
		h.setFocus(content.ParentID)
		return &protocol.Notification{Level: protocol.LevelInfo, Message: fmt.Sprintf("Deleted %q.", content.DisplayName())}, nil

	case protocol.CommandViewSubmissions:
		link, err := h.link(ctx, ref, "-/merge_requests")
		if err != nil {
			return nil, err
		}
		return &protocol.Notification{Level: protocol.LevelInfo, Message: "Opening submissions.", URL: link}, nil

	case protocol.CommandOpenGitLabRepo:
		content, err := h.repo.Content(ctx, ref.RecordID)
		if err != nil {
			return nil, err
		}
		if content.ExampleID == "" {
			return &protocol.Notification{Level: protocol.LevelWarning, Message: "No repository: assign an example first."}, nil
		}
		link, err := h.link(ctx, ref, "")
		if err != nil {
			return nil, err
		}
		return &protocol.Notification{Level: protocol.LevelInfo, Message: "Opening repository.", URL: link}, nil
	}

	return nil, fmt.Errorf("unknown command %q", msg.Command)
}

func (h *Host) createChild(ctx context.Context, p protocol.CreateChild) (*protocol.Notification, error) {
	parent, err := h.repo.Content(ctx, p.ParentRecord.ID)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	child := Content{
		Assignment: protocol.Assignment{
			ID:       id,
			ParentID: parent.ID,
			Title:    "New content",
			Path:     parent.Path + ".c" + strings.ReplaceAll(id[:8], "-", ""),
		},
		CourseID: parent.CourseID,
		KindID:   KindAssignment,
	}
	if err := h.repo.CreateContent(ctx, child); err != nil {
		return nil, err
	}
	h.setFocus(child.ID)
	return &protocol.Notification{Level: protocol.LevelInfo, Message: fmt.Sprintf("Created %q.", child.Path)}, nil
}

func (h *Host) link(ctx context.Context, ref protocol.RecordRef, suffix string) (string, error) {
	content, err := h.repo.Content(ctx, ref.RecordID)
	if err != nil {
		return "", err
	}
	course, err := h.repo.Course(ctx, content.CourseID)
	if err != nil {
		return "", err
	}
	link, err := url.JoinPath(h.gitlabURL, course.Path, strings.ReplaceAll(content.Path, ".", "/"), suffix)
	if err != nil {
		return "", fmt.Errorf("build link: %w", err)
	}
	return link, nil
}

// validateUpdates enforces the business rules the panel leaves to the host.
func validateUpdates(u protocol.ContentUpdates) error {
	var errs []error
	if strings.TrimSpace(u.Title) == "" {
		errs = append(errs, errors.New("title must not be empty"))
	}
	if u.MaxGroupSize != nil && *u.MaxGroupSize < 1 {
		errs = append(errs, fmt.Errorf("max group size must be at least 1, got %d", *u.MaxGroupSize))
	}
	if u.MaxTestRuns != nil && *u.MaxTestRuns < 0 {
		errs = append(errs, fmt.Errorf("max test runs must not be negative, got %d", *u.MaxTestRuns))
	}
	if u.MaxSubmissions != nil && *u.MaxSubmissions < 0 {
		errs = append(errs, fmt.Errorf("max submissions must not be negative, got %d", *u.MaxSubmissions))
	}
	return errors.Join(errs...)
}
