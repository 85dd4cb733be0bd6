package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
	"github.com/worktrack/worktrack-api/internal/core/ports"
	"github.com/worktrack/worktrack-api/internal/infrastructure/retry"
)

// TaskService implements task management under a project. All operations
// require an authenticated caller and an active parent project.
type TaskService struct {
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	users    ports.UserRepository
	retry    *retry.Executor
	log      zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	retryExec *retry.Executor,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users, retry: retryExec, log: log}
}

// Create adds a task to an active project. An assignee, when provided, must
// be an active user.
func (s *TaskService) Create(ctx context.Context, actx *auth.Context, projectID string, in ports.CreateTaskInput) (*domain.Task, error) {
	creator, err := actx.CurrentUsername()
	if err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrValidation)
	}
	taskStatus := in.TaskStatus
	if taskStatus == "" {
		taskStatus = domain.TaskStatusTodo
	}
	if !domain.ValidTaskStatus(taskStatus) {
		return nil, fmt.Errorf("%w: unknown task status %q", domain.ErrValidation, taskStatus)
	}

	if err := s.requireActiveProject(ctx, projectID); err != nil {
		return nil, err
	}
	if in.AssignedTo != "" {
		if err := s.requireActiveUser(ctx, in.AssignedTo); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		TaskStatus:  taskStatus,
		ProjectID:   projectID,
		AssignedTo:  in.AssignedTo,
		Status:      domain.StatusActive,
		CreatedBy:   creator,
		UpdatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The insert is not retried: tasks carry no unique key, so a replay
	// after a transient failure could apply the insert twice.
	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task", created.Title).Str("project_id", projectID).Msg("task created")
	return created, nil
}

// ListByProject returns the active tasks of an active project.
func (s *TaskService) ListByProject(ctx context.Context, actx *auth.Context, projectID string) ([]*domain.Task, error) {
	if _, err := actx.CurrentUsername(); err != nil {
		return nil, err
	}
	if err := s.requireActiveProject(ctx, projectID); err != nil {
		return nil, err
	}

	var tasks []*domain.Task
	err := s.retry.Do(ctx, "task.list_by_project", func(ctx context.Context) error {
		var listErr error
		tasks, listErr = s.tasks.FindActiveByProject(ctx, projectID)
		return listErr
	})
	return tasks, err
}

// Assign sets the task's assignee under the optimistic version check.
func (s *TaskService) Assign(ctx context.Context, actx *auth.Context, projectID, taskID, assigneeID string) (*domain.Task, error) {
	updater, err := actx.CurrentUsername()
	if err != nil {
		return nil, err
	}
	if err := s.requireActiveUser(ctx, assigneeID); err != nil {
		return nil, err
	}

	task, err := s.findTaskInProject(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	task.AssignedTo = assigneeID
	task.UpdatedBy = updater
	task.UpdatedAt = time.Now().UTC()

	var updated *domain.Task
	err = s.retry.Do(ctx, "task.assign", func(ctx context.Context) error {
		var updateErr error
		updated, updateErr = s.tasks.Update(ctx, task)
		return updateErr
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task", updated.Title).Str("assigned_to", assigneeID).Msg("task assigned")
	return updated, nil
}

// Delete soft-deletes a task.
func (s *TaskService) Delete(ctx context.Context, actx *auth.Context, projectID, taskID string) error {
	updater, err := actx.CurrentUsername()
	if err != nil {
		return err
	}

	task, err := s.findTaskInProject(ctx, projectID, taskID)
	if err != nil {
		return err
	}

	task.Status = domain.StatusDeleted
	task.UpdatedBy = updater
	task.UpdatedAt = time.Now().UTC()

	err = s.retry.Do(ctx, "task.delete", func(ctx context.Context) error {
		_, updateErr := s.tasks.Update(ctx, task)
		return updateErr
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("task", task.Title).Msg("task soft-deleted")
	return nil
}

// findTaskInProject loads an active task and checks it belongs to projectID;
// a task under a different project is treated as not found rather than
// disclosed.
func (s *TaskService) findTaskInProject(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	var task *domain.Task
	err := s.retry.Do(ctx, "task.find_by_id", func(ctx context.Context) error {
		var findErr error
		task, findErr = s.tasks.FindActiveByID(ctx, taskID)
		return findErr
	})
	if err != nil {
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

func (s *TaskService) requireActiveProject(ctx context.Context, projectID string) error {
	return s.retry.Do(ctx, "project.find_by_id", func(ctx context.Context) error {
		_, findErr := s.projects.FindActiveByID(ctx, projectID)
		return findErr
	})
}

func (s *TaskService) requireActiveUser(ctx context.Context, userID string) error {
	return s.retry.Do(ctx, "user.find_by_id", func(ctx context.Context) error {
		_, findErr := s.users.FindActiveByID(ctx, userID)
		return findErr
	})
}
