package ports

import (
	"context"

	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. Method names state
// explicitly whether soft-deleted rows are included.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindActiveByID(ctx context.Context, id string) (*domain.Task, error)
	FindActiveByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	// Update is version-guarded; a mismatch surfaces domain.ErrVersionConflict.
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
}
