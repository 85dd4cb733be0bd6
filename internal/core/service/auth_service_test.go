package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
)

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(
		repo,
		auth.NewTokenCodec("secret", time.Hour),
		auth.NewCredentialVerifier(bcrypt.MinCost),
		testExecutor(),
		zerolog.Nop(),
	)
}

func seedAccount(repo *stubUserRepo, username, password string, role domain.Role) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return repo.add(&domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	})
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedAccount(repo, "alice", "s3cret-pass", domain.RoleAdmin)
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if time.Until(result.ExpiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", result.ExpiresAt)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedAccount(repo, "bob", "goodpass1", domain.RoleEmployee)
	svc := newTestAuthService(repo)

	if _, err := svc.Login(context.Background(), "bob", "badpass99"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost", "whatever1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_DeletedAccount(t *testing.T) {
	repo := newStubUserRepo()
	u := seedAccount(repo, "carol", "s3cret-pass", domain.RoleManager)
	repo.byID[u.ID].Status = domain.StatusDeleted
	svc := newTestAuthService(repo)

	// Correct password, but the account is soft-deleted; the failure is
	// indistinguishable from a wrong password.
	if _, err := svc.Login(context.Background(), "carol", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_BlankInput(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for blank username, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for blank password, got %v", err)
	}
}

func TestAuthService_Login_RetriesTransientLookup(t *testing.T) {
	repo := newStubUserRepo()
	seedAccount(repo, "dave", "s3cret-pass", domain.RoleEmployee)
	repo.transient = 2
	svc := newTestAuthService(repo)

	if _, err := svc.Login(context.Background(), "dave", "s3cret-pass"); err != nil {
		t.Fatalf("expected login to succeed after retries, got %v", err)
	}
}

func TestAuthService_Login_BackendUnavailable(t *testing.T) {
	repo := newStubUserRepo()
	seedAccount(repo, "erin", "s3cret-pass", domain.RoleEmployee)
	repo.transient = 3
	svc := newTestAuthService(repo)

	if _, err := svc.Login(context.Background(), "erin", "s3cret-pass"); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestAuthService_WhoAmI(t *testing.T) {
	repo := newStubUserRepo()
	u := seedAccount(repo, "frank", "s3cret-pass", domain.RoleManager)
	svc := newTestAuthService(repo)

	info, err := svc.WhoAmI(context.Background(), ctxFor(u))
	if err != nil {
		t.Fatalf("WhoAmI returned error: %v", err)
	}
	if info.Username != "frank" || info.Role != domain.RoleManager {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestAuthService_WhoAmI_Anonymous(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.WhoAmI(context.Background(), auth.Anonymous()); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestAuthService_WhoAmI_DeletedSinceTokenIssued(t *testing.T) {
	repo := newStubUserRepo()
	u := seedAccount(repo, "grace", "s3cret-pass", domain.RoleEmployee)
	svc := newTestAuthService(repo)
	repo.byID[u.ID].Status = domain.StatusDeleted

	if _, err := svc.WhoAmI(context.Background(), ctxFor(u)); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}
