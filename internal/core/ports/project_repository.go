package ports

import (
	"context"

	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects. Method names
// state explicitly whether soft-deleted rows are included.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindActiveByID(ctx context.Context, id string) (*domain.Project, error)
	FindAllActive(ctx context.Context) ([]*domain.Project, error)
	FindActiveByOwner(ctx context.Context, ownerID string) ([]*domain.Project, error)
	// Update is version-guarded; a mismatch surfaces domain.ErrVersionConflict.
	Update(ctx context.Context, project *domain.Project) (*domain.Project, error)
}
