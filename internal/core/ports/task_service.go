package ports

import (
	"context"

	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// CreateTaskInput carries the fields for task creation under a project.
type CreateTaskInput struct {
	Title       string
	Description string
	TaskStatus  domain.TaskStatus
	AssignedTo  string
}

type TaskService interface {
	Create(ctx context.Context, actx *auth.Context, projectID string, in CreateTaskInput) (*domain.Task, error)
	ListByProject(ctx context.Context, actx *auth.Context, projectID string) ([]*domain.Task, error)
	// Assign sets the task's assignee; assigneeID must name an active user.
	Assign(ctx context.Context, actx *auth.Context, projectID, taskID, assigneeID string) (*domain.Task, error)
	Delete(ctx context.Context, actx *auth.Context, projectID, taskID string) error
}
