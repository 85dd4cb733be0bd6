package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/worktrack/worktrack-api/internal/pkg/metrics"
	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
	"github.com/worktrack/worktrack-api/internal/core/ports"
	"github.com/worktrack/worktrack-api/internal/infrastructure/retry"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 8
)

// UserService implements account management with policy enforcement,
// soft-delete semantics, and principal-cache consistency.
type UserService struct {
	users     ports.UserRepository
	passwords *auth.CredentialVerifier
	cache     auth.PrincipalCache
	retry     *retry.Executor
	log       zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	passwords *auth.CredentialVerifier,
	cache auth.PrincipalCache,
	retryExec *retry.Executor,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, passwords: passwords, cache: cache, retry: retryExec, log: log}
}

// Register creates a new active account. Duplicate username or email surfaces
// as ErrDuplicateEntity from the repository's unique indexes.
func (s *UserService) Register(ctx context.Context, actx *auth.Context, in ports.RegisterUserInput) (*domain.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	// Self-registration is audited under the new account's own username.
	createdBy := in.Username
	if name, err := actx.CurrentUsername(); err == nil {
		createdBy = name
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
		Status:       domain.StatusActive,
		CreatedBy:    createdBy,
		UpdatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Safe to retry: the unique username/email indexes turn a replayed
	// insert into ErrDuplicateEntity instead of a second document.
	var created *domain.User
	err = s.retry.Do(ctx, "user.create", func(ctx context.Context) error {
		var createErr error
		created, createErr = s.users.Create(ctx, user)
		return createErr
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// GetByID returns an active account, visible to admins and the account owner.
func (s *UserService) GetByID(ctx context.Context, actx *auth.Context, id string) (*domain.User, error) {
	if !auth.CanReadUser(actx, id) {
		metrics.AuthorizationDenialsTotal.WithLabelValues("user.read").Inc()
		return nil, domain.ErrAccessDenied
	}

	var user *domain.User
	err := s.retry.Do(ctx, "user.find_by_id", func(ctx context.Context) error {
		var findErr error
		user, findErr = s.users.FindActiveByID(ctx, id)
		return findErr
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies the non-blank fields of in under the optimistic version
// check and evicts the principal cache entry for the account, keyed by the
// username before the write in case the username itself changed.
func (s *UserService) Update(ctx context.Context, actx *auth.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if !auth.CanUpdateUser(actx, id) {
		metrics.AuthorizationDenialsTotal.WithLabelValues("user.update").Inc()
		return nil, domain.ErrAccessDenied
	}

	user, err := s.GetByID(ctx, actx, id)
	if err != nil {
		return nil, err
	}
	previousUsername := user.Username

	if in.Username != "" {
		if len(in.Username) < usernameMinLen || len(in.Username) > usernameMaxLen {
			return nil, fmt.Errorf("%w: username must be %d-%d characters", domain.ErrValidation, usernameMinLen, usernameMaxLen)
		}
		user.Username = in.Username
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
		}
		user.Email = in.Email
	}
	if in.Password != "" {
		if len(in.Password) < passwordMinLen {
			return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, passwordMinLen)
		}
		hash, err := s.passwords.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.FullName != "" {
		user.FullName = in.FullName
	}

	updated, err := s.writeAndEvict(ctx, actx, user, previousUsername, "user.update")
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", updated.Username).Msg("user updated")
	return updated, nil
}

// Delete soft-deletes the account: a terminal ACTIVE to DELETED transition
// with a version bump and principal-cache eviction. The row stays in place
// for the administrative read path; no default lookup will surface it again.
func (s *UserService) Delete(ctx context.Context, actx *auth.Context, id string) error {
	if !auth.CanDeleteUser(actx, id) {
		metrics.AuthorizationDenialsTotal.WithLabelValues("user.delete").Inc()
		return domain.ErrAccessDenied
	}

	var user *domain.User
	err := s.retry.Do(ctx, "user.find_by_id", func(ctx context.Context) error {
		var findErr error
		user, findErr = s.users.FindActiveByID(ctx, id)
		return findErr
	})
	if err != nil {
		return err
	}

	user.Status = domain.StatusDeleted
	if _, err := s.writeAndEvict(ctx, actx, user, user.Username, "user.delete"); err != nil {
		return err
	}

	s.log.Info().Str("username", user.Username).Msg("user soft-deleted")
	return nil
}

// List returns all active accounts; admin only.
func (s *UserService) List(ctx context.Context, actx *auth.Context) ([]*domain.User, error) {
	if !auth.CanListUsers(actx) {
		metrics.AuthorizationDenialsTotal.WithLabelValues("user.list").Inc()
		return nil, domain.ErrAccessDenied
	}

	var users []*domain.User
	err := s.retry.Do(ctx, "user.list", func(ctx context.Context) error {
		var listErr error
		users, listErr = s.users.FindAllActive(ctx)
		return listErr
	})
	return users, err
}

// Search returns the active accounts matching the AND of all provided filter
// conditions; admin only. An empty filter returns every active account.
func (s *UserService) Search(ctx context.Context, actx *auth.Context, filter ports.UserSearchFilter) ([]*domain.User, error) {
	if !auth.CanSearchUsers(actx) {
		metrics.AuthorizationDenialsTotal.WithLabelValues("user.search").Inc()
		return nil, domain.ErrAccessDenied
	}
	if filter.Role != "" && !domain.ValidRole(filter.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, filter.Role)
	}

	var users []*domain.User
	err := s.retry.Do(ctx, "user.search", func(ctx context.Context) error {
		var searchErr error
		users, searchErr = s.users.SearchActive(ctx, filter)
		return searchErr
	})
	return users, err
}

// writeAndEvict performs the version-guarded write and evicts the principal
// cache entry before the operation is considered complete, so no subsequent
// request resolves a stale principal. The write is safe to retry: the version
// guard makes a replayed attempt fail with a conflict instead of
// double-applying.
func (s *UserService) writeAndEvict(ctx context.Context, actx *auth.Context, user *domain.User, previousUsername, operation string) (*domain.User, error) {
	if name, err := actx.CurrentUsername(); err == nil {
		user.UpdatedBy = name
	}
	user.UpdatedAt = time.Now().UTC()

	var updated *domain.User
	err := s.retry.Do(ctx, operation, func(ctx context.Context) error {
		var updateErr error
		updated, updateErr = s.users.Update(ctx, user)
		return updateErr
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Evict(ctx, previousUsername); err != nil {
			s.log.Error().Err(err).Str("username", previousUsername).Msg("principal cache eviction failed")
		}
	}
	return updated, nil
}

func validateRegistration(in ports.RegisterUserInput) error {
	if len(in.Username) < usernameMinLen || len(in.Username) > usernameMaxLen {
		return fmt.Errorf("%w: username must be %d-%d characters", domain.ErrValidation, usernameMinLen, usernameMaxLen)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(in.Password) < passwordMinLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, passwordMinLen)
	}
	if !domain.ValidRole(in.Role) {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}
	return nil
}
