package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/worktrack/worktrack-api/internal/pkg/metrics"
	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
	"github.com/worktrack/worktrack-api/internal/core/ports"
	"github.com/worktrack/worktrack-api/internal/infrastructure/retry"
)

// AuthService implements login and the current-user contract.
type AuthService struct {
	users     ports.UserRepository
	codec     *auth.TokenCodec
	passwords *auth.CredentialVerifier
	retry     *retry.Executor
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	codec *auth.TokenCodec,
	passwords *auth.CredentialVerifier,
	retryExec *retry.Executor,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, codec: codec, passwords: passwords, retry: retryExec, log: log}
}

// Login checks credentials and issues a signed token. The lookup is
// active-only, so a deleted account fails with ErrInvalidCredentials even
// when the password is correct.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	var user *domain.User
	err := s.retry.Do(ctx, "user.find_by_username", func(ctx context.Context) error {
		var findErr error
		user, findErr = s.users.FindActiveByUsername(ctx, username)
		return findErr
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwords.Matches(user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Info().Str("username", username).Msg("login rejected: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.codec.Issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", username).Msg("login succeeded")
	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// WhoAmI describes the current principal.
func (s *AuthService) WhoAmI(ctx context.Context, actx *auth.Context) (*ports.UserInfo, error) {
	username, err := actx.CurrentUsername()
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = s.retry.Do(ctx, "user.find_by_username", func(ctx context.Context) error {
		var findErr error
		user, findErr = s.users.FindActiveByUsername(ctx, username)
		return findErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, err
	}

	return &ports.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}
