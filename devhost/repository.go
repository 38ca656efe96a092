// Package devhost is a reference host for the assignment panel. It owns the
// data, performs every command against an SQLite store and answers each one
// with either a fresh state push or a notification.
package devhost

import (
	"context"
	"errors"

	"github.com/vcrobe/assignview/protocol"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Content is a stored assignment together with its relations.
type Content struct {
	protocol.Assignment
	CourseID  string
	KindID    string
	ExampleID string
}

// Repository is the storage the host works against.
type Repository interface {
	Course(ctx context.Context, id string) (protocol.Course, error)
	ContentKind(ctx context.Context, id string) (protocol.ContentKind, error)
	Example(ctx context.Context, id string) (protocol.Example, error)
	// FirstExample returns the catalog example assigned by default.
	FirstExample(ctx context.Context) (protocol.Example, error)

	Content(ctx context.Context, id string) (Content, error)
	// FirstContent returns the first content of a course by path.
	FirstContent(ctx context.Context, courseID string) (Content, error)
	CreateContent(ctx context.Context, c Content) error
	UpdateContent(ctx context.Context, id string, u protocol.ContentUpdates) error
	// SetExample links exampleID, or unlinks when it is empty. Either way the
	// deployment status is reset.
	SetExample(ctx context.Context, id, exampleID string) error
	SetDeploymentStatus(ctx context.Context, id string, status protocol.DeploymentStatus) error
	DeleteContent(ctx context.Context, id string) error

	Close() error
}
