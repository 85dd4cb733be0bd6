package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/worktrack/worktrack-api/internal/pkg/metrics"
	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
	"github.com/worktrack/worktrack-api/internal/core/ports"
	"github.com/worktrack/worktrack-api/internal/infrastructure/retry"
)

// ProjectService implements project management with soft-delete semantics.
type ProjectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	retry    *retry.Executor
	log      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	retryExec *retry.Executor,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, users: users, retry: retryExec, log: log}
}

// Create creates a project; admins and managers only. A provided owner must
// be an active user.
func (s *ProjectService) Create(ctx context.Context, actx *auth.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	if !auth.CanCreateProject(actx) {
		metrics.AuthorizationDenialsTotal.WithLabelValues("project.create").Inc()
		return nil, domain.ErrAccessDenied
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrValidation)
	}

	if in.OwnerID != "" {
		err := s.retry.Do(ctx, "user.find_by_id", func(ctx context.Context) error {
			_, findErr := s.users.FindActiveByID(ctx, in.OwnerID)
			return findErr
		})
		if err != nil {
			return nil, err
		}
	}

	creator, err := actx.CurrentUsername()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		Status:      domain.StatusActive,
		CreatedBy:   creator,
		UpdatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The insert is not retried: projects carry no unique key, so a replay
	// after a transient failure could apply the insert twice.
	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("project", created.Name).Str("created_by", creator).Msg("project created")
	return created, nil
}

// GetByID returns an active project; any authenticated caller.
func (s *ProjectService) GetByID(ctx context.Context, actx *auth.Context, id string) (*domain.Project, error) {
	if _, err := actx.CurrentUsername(); err != nil {
		return nil, err
	}

	var project *domain.Project
	err := s.retry.Do(ctx, "project.find_by_id", func(ctx context.Context) error {
		var findErr error
		project, findErr = s.projects.FindActiveByID(ctx, id)
		return findErr
	})
	return project, err
}

// List returns all active projects; any authenticated caller.
func (s *ProjectService) List(ctx context.Context, actx *auth.Context) ([]*domain.Project, error) {
	if _, err := actx.CurrentUsername(); err != nil {
		return nil, err
	}

	var projects []*domain.Project
	err := s.retry.Do(ctx, "project.list", func(ctx context.Context) error {
		var listErr error
		projects, listErr = s.projects.FindAllActive(ctx)
		return listErr
	})
	return projects, err
}

// ListMine returns the active projects owned by the current principal.
func (s *ProjectService) ListMine(ctx context.Context, actx *auth.Context) ([]*domain.Project, error) {
	ownerID, err := actx.CurrentUserID()
	if err != nil {
		return nil, err
	}

	var projects []*domain.Project
	err = s.retry.Do(ctx, "project.list_by_owner", func(ctx context.Context) error {
		var listErr error
		projects, listErr = s.projects.FindActiveByOwner(ctx, ownerID)
		return listErr
	})
	return projects, err
}

// Delete soft-deletes a project; admins and the project owner only.
func (s *ProjectService) Delete(ctx context.Context, actx *auth.Context, id string) error {
	var project *domain.Project
	err := s.retry.Do(ctx, "project.find_by_id", func(ctx context.Context) error {
		var findErr error
		project, findErr = s.projects.FindActiveByID(ctx, id)
		return findErr
	})
	if err != nil {
		return err
	}

	if !auth.CanDeleteProject(actx, project.OwnerID) {
		metrics.AuthorizationDenialsTotal.WithLabelValues("project.delete").Inc()
		return domain.ErrAccessDenied
	}

	project.Status = domain.StatusDeleted
	if name, err := actx.CurrentUsername(); err == nil {
		project.UpdatedBy = name
	}
	project.UpdatedAt = time.Now().UTC()

	err = s.retry.Do(ctx, "project.delete", func(ctx context.Context) error {
		_, updateErr := s.projects.Update(ctx, project)
		return updateErr
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("project", project.Name).Msg("project soft-deleted")
	return nil
}
