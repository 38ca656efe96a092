package devhost

import (
	"context"

	"github.com/vcrobe/assignview/protocol"
)

// Demo catalog ids.
const (
	DemoCourseID     = "course-intro-go"
	DemoAssignmentID = "content-week1-loops"
	KindAssignment   = "assignment"
	KindUnit         = "unit"
)

// Seed fills an empty repository with a small demo course. It is a no-op
// when a course already exists.
func Seed(ctx context.Context, repo *SQLiteRepository) error {
	empty, err := repo.Empty(ctx)
	if err != nil || !empty {
		return err
	}

	if err := repo.InsertCourse(ctx, protocol.Course{ID: DemoCourseID, Title: "Introduction to Go", Path: "intro-go"}); err != nil {
		return err
	}
	for _, k := range []protocol.ContentKind{
		{ID: KindAssignment, Title: "Assignment"},
		{ID: KindUnit, Title: "Unit"},
	} {
		if err := repo.InsertContentKind(ctx, k); err != nil {
			return err
		}
	}
	for _, e := range []protocol.Example{
		{ID: "example-loops", Title: "Loop kata", Identifier: "go.loops", Version: "1.0.0"},
		{ID: "example-maps", Title: "Map drills", Identifier: "go.maps", Version: "0.3.0"},
	} {
		if err := repo.InsertExample(ctx, e); err != nil {
			return err
		}
	}
	return repo.CreateContent(ctx, Content{
		Assignment: protocol.Assignment{
			ID:           DemoAssignmentID,
			Title:        "Loops",
			Path:         "week1.loops",
			Description:  "Write three flavours of for loop.",
			MaxGroupSize: protocol.IntPtr(1),
		},
		CourseID: DemoCourseID,
		KindID:   KindAssignment,
	})
}
