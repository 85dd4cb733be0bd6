package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
	"github.com/worktrack/worktrack-api/internal/core/ports"
	"github.com/worktrack/worktrack-api/internal/infrastructure/retry"
)

// Shared in-memory stubs for the service tests. Each stub honors the
// contracts the services rely on: active-only lookups skip soft-deleted
// rows, Create enforces uniqueness, Update enforces the version guard.
// The transient counter makes the next N calls fail retryably.

func testExecutor() *retry.Executor {
	return retry.NewExecutor(3, time.Millisecond, zerolog.Nop())
}

func ctxFor(u *domain.User) *auth.Context {
	return auth.ForUser(u)
}

// --- users ---

type stubUserRepo struct {
	byID      map[string]*domain.User
	seq       int
	transient int
	// conflictOnUpdate simulates a concurrent writer bumping the stored
	// version between the service's read and its write.
	conflictOnUpdate bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) tryFail() error {
	if r.transient > 0 {
		r.transient--
		return domain.ErrConnectionLost
	}
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

// add seeds an account directly, bypassing the service layer.
func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.seq++
	clone := cloneUser(u)
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("u%d", r.seq)
	}
	if clone.Version == 0 {
		clone.Version = 1
	}
	if clone.Status == "" {
		clone.Status = domain.StatusActive
	}
	r.byID[clone.ID] = clone
	return cloneUser(clone)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if err := r.tryFail(); err != nil {
		return nil, err
	}
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrDuplicateEntity
		}
	}
	return r.add(user), nil
}

func (r *stubUserRepo) FindActiveByID(_ context.Context, id string) (*domain.User, error) {
	if err := r.tryFail(); err != nil {
		return nil, err
	}
	if u, ok := r.byID[id]; ok && u.Status != domain.StatusDeleted {
		return cloneUser(u), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	if err := r.tryFail(); err != nil {
		return nil, err
	}
	for _, u := range r.byID {
		if u.Username == username && u.Status != domain.StatusDeleted {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindAllActive(_ context.Context) ([]*domain.User, error) {
	if err := r.tryFail(); err != nil {
		return nil, err
	}
	var out []*domain.User
	for _, u := range r.byID {
		if u.Status != domain.StatusDeleted {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) SearchActive(_ context.Context, filter ports.UserSearchFilter) ([]*domain.User, error) {
	if err := r.tryFail(); err != nil {
		return nil, err
	}
	var out []*domain.User
	for _, u := range r.byID {
		if u.Status == domain.StatusDeleted {
			continue
		}
		if filter.Username != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(filter.Username)) {
			continue
		}
		if filter.FullName != "" && !strings.Contains(strings.ToLower(u.FullName), strings.ToLower(filter.FullName)) {
			continue
		}
		if filter.Email != "" && u.Email != filter.Email {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByIDIncludingDeleted(_ context.Context, id string) (*domain.User, error) {
	if err := r.tryFail(); err != nil {
		return nil, err
	}
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if err := r.tryFail(); err != nil {
		return nil, err
	}
	stored, ok := r.byID[user.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.conflictOnUpdate || stored.Version != user.Version {
		return nil, domain.ErrVersionConflict
	}
	clone := cloneUser(user)
	clone.Version++
	r.byID[clone.ID] = clone
	return cloneUser(clone), nil
}

// --- principal cache ---

type stubPrincipalCache struct {
	entries map[string]*domain.User
	evicted []string
	err     error
}

func newStubPrincipalCache() *stubPrincipalCache {
	return &stubPrincipalCache{entries: make(map[string]*domain.User)}
}

func (c *stubPrincipalCache) Get(_ context.Context, username string) (*domain.User, error) {
	if c.err != nil {
		return nil, c.err
	}
	if u, ok := c.entries[username]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (c *stubPrincipalCache) Set(_ context.Context, user *domain.User) error {
	if c.err != nil {
		return c.err
	}
	c.entries[user.Username] = cloneUser(user)
	return nil
}

func (c *stubPrincipalCache) Evict(_ context.Context, username string) error {
	c.evicted = append(c.evicted, username)
	if c.err != nil {
		return c.err
	}
	delete(c.entries, username)
	return nil
}

// --- projects ---

type stubProjectRepo struct {
	byID map[string]*domain.Project
	seq  int
	// failCreateAfterInsert simulates a connection dropped after the server
	// applied the insert: the document lands, the call still errors.
	failCreateAfterInsert bool
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	return &clone
}

func (r *stubProjectRepo) add(p *domain.Project) *domain.Project {
	r.seq++
	clone := cloneProject(p)
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("p%d", r.seq)
	}
	if clone.Version == 0 {
		clone.Version = 1
	}
	if clone.Status == "" {
		clone.Status = domain.StatusActive
	}
	r.byID[clone.ID] = clone
	return cloneProject(clone)
}

func (r *stubProjectRepo) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	created := r.add(project)
	if r.failCreateAfterInsert {
		r.failCreateAfterInsert = false
		return nil, domain.ErrConnectionLost
	}
	return created, nil
}

func (r *stubProjectRepo) FindActiveByID(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := r.byID[id]; ok && p.Status != domain.StatusDeleted {
		return cloneProject(p), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubProjectRepo) FindAllActive(_ context.Context) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.byID {
		if p.Status != domain.StatusDeleted {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) FindActiveByOwner(_ context.Context, ownerID string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.byID {
		if p.Status != domain.StatusDeleted && p.OwnerID == ownerID {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, project *domain.Project) (*domain.Project, error) {
	stored, ok := r.byID[project.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if stored.Version != project.Version {
		return nil, domain.ErrVersionConflict
	}
	clone := cloneProject(project)
	clone.Version++
	r.byID[clone.ID] = clone
	return cloneProject(clone), nil
}

// --- tasks ---

type stubTaskRepo struct {
	byID map[string]*domain.Task
	seq  int
	// failCreateAfterInsert simulates a connection dropped after the server
	// applied the insert: the document lands, the call still errors.
	failCreateAfterInsert bool
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.seq++
	clone := cloneTask(task)
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("t%d", r.seq)
	}
	if clone.Version == 0 {
		clone.Version = 1
	}
	r.byID[clone.ID] = clone
	if r.failCreateAfterInsert {
		r.failCreateAfterInsert = false
		return nil, domain.ErrConnectionLost
	}
	return cloneTask(clone), nil
}

func (r *stubTaskRepo) FindActiveByID(_ context.Context, id string) (*domain.Task, error) {
	if t, ok := r.byID[id]; ok && t.Status != domain.StatusDeleted {
		return cloneTask(t), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubTaskRepo) FindActiveByProject(_ context.Context, projectID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.byID {
		if t.Status != domain.StatusDeleted && t.ProjectID == projectID {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) (*domain.Task, error) {
	stored, ok := r.byID[task.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if stored.Version != task.Version {
		return nil, domain.ErrVersionConflict
	}
	clone := cloneTask(task)
	clone.Version++
	r.byID[clone.ID] = clone
	return cloneTask(clone), nil
}
