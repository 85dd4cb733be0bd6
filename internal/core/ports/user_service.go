package ports

import (
	"context"

	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// RegisterUserInput carries the fields for account creation.
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.Role
}

// UpdateUserInput carries optional account mutations; blank fields are left
// unchanged.
type UpdateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

type UserService interface {
	Register(ctx context.Context, actx *auth.Context, in RegisterUserInput) (*domain.User, error)
	GetByID(ctx context.Context, actx *auth.Context, id string) (*domain.User, error)
	Update(ctx context.Context, actx *auth.Context, id string, in UpdateUserInput) (*domain.User, error)
	// Delete is a soft delete: a terminal ACTIVE to DELETED transition.
	Delete(ctx context.Context, actx *auth.Context, id string) error
	List(ctx context.Context, actx *auth.Context) ([]*domain.User, error)
	Search(ctx context.Context, actx *auth.Context, filter UserSearchFilter) ([]*domain.User, error)
}
