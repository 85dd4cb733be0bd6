package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// AccountLookup is the single repository call principal resolution depends
// on: the active-only username lookup (deleted accounts cannot authenticate).
type AccountLookup interface {
	FindActiveByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PrincipalCache is the bounded-TTL account-by-username cache consulted
// during principal resolution. A (nil, nil) return means a miss. Implemented
// by the Redis adapter; failures degrade to repository reads.
type PrincipalCache interface {
	Get(ctx context.Context, username string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Evict(ctx context.Context, username string) error
}

// Resolver turns verified token claims into a trusted principal. It is the
// only path by which a token becomes a principal: the subject must resolve to
// an ACTIVE account, and the role is re-read from the account record rather
// than trusted from the claim, so role changes take effect immediately.
type Resolver struct {
	users AccountLookup
	cache PrincipalCache
	log   zerolog.Logger
}

func NewResolver(users AccountLookup, cache PrincipalCache, log zerolog.Logger) *Resolver {
	return &Resolver{users: users, cache: cache, log: log}
}

// Resolve looks up the active account named by claims.Subject. It assumes the
// token was already verified. Deleted or missing accounts fail with
// domain.ErrAuthenticationFailed.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (*domain.User, error) {
	username := claims.Subject
	if username == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, username)
		if err != nil {
			r.log.Warn().Err(err).Str("username", username).Msg("principal cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := r.users.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, user); err != nil {
			r.log.Warn().Err(err).Str("username", username).Msg("principal cache write failed")
		}
	}
	return user, nil
}
