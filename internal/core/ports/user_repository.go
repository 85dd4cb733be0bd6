package ports

import (
	"context"

	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// UserSearchFilter carries the optional, independently-toggleable search
// conditions. Blank fields contribute no restriction: an empty filter matches
// every active user, never zero rows.
type UserSearchFilter struct {
	Username string      // substring, case-insensitive
	FullName string      // substring, case-insensitive
	Email    string      // exact match
	Role     domain.Role // exact match
}

// UserRepository defines persistence operations for user accounts. Every
// method name states whether soft-deleted rows are included; there is no
// implicit toggle to remember.
type UserRepository interface {
	// Create inserts a new account. Unique-index violations on username or
	// email surface as domain.ErrDuplicateEntity.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindActiveByID(ctx context.Context, id string) (*domain.User, error)
	FindActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAllActive(ctx context.Context) ([]*domain.User, error)
	// SearchActive returns active users matching the AND of all provided
	// filter conditions.
	SearchActive(ctx context.Context, filter UserSearchFilter) ([]*domain.User, error)

	// FindByIDIncludingDeleted is the deliberate administrative path that
	// does not exclude soft-deleted rows.
	FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.User, error)

	// Update writes all mutable fields guarded by the optimistic version
	// check: the row is matched on id and user.Version, and the stored
	// version is incremented. A mismatch surfaces domain.ErrVersionConflict.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
