package ports

import (
	"context"
	"time"

	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// LoginResult is the outcome of a successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// UserInfo describes the current principal for the who-am-I contract.
type UserInfo struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Role     domain.Role `json:"role"`
}

type AuthService interface {
	// Login checks credentials against the active-only account lookup and
	// issues a token. Bad password, unknown username, and deleted accounts
	// all fail with domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// WhoAmI describes the current principal.
	WhoAmI(ctx context.Context, actx *auth.Context) (*UserInfo, error)
}
