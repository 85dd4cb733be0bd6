package ports

import (
	"context"

	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// CreateProjectInput carries the fields for project creation. OwnerID is
// optional; when set it must name an active user.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     string
}

type ProjectService interface {
	Create(ctx context.Context, actx *auth.Context, in CreateProjectInput) (*domain.Project, error)
	GetByID(ctx context.Context, actx *auth.Context, id string) (*domain.Project, error)
	List(ctx context.Context, actx *auth.Context) ([]*domain.Project, error)
	// ListMine returns the active projects owned by the current principal.
	ListMine(ctx context.Context, actx *auth.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, actx *auth.Context, id string) error
}
