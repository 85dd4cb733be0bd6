package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/worktrack/worktrack-api/internal/pkg/metrics"
	"github.com/worktrack/worktrack-api/internal/core/domain"
)

const (
	principalKeyPrefix  = "users:username:"
	defaultPrincipalTTL = 10 * time.Minute
)

// PrincipalCache is a bounded-TTL account-by-username cache backed by Redis.
// Any write that changes a username, email, role, or status must call Evict
// in the same logical operation, so a subsequent request never resolves a
// stale principal.
type PrincipalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPrincipalCache creates a PrincipalCache wrapping the given Redis client.
func NewPrincipalCache(client *redis.Client, ttl time.Duration) *PrincipalCache {
	if ttl <= 0 {
		ttl = defaultPrincipalTTL
	}
	return &PrincipalCache{client: client, ttl: ttl}
}

// cachedPrincipal is the stored shape; the password hash is deliberately
// excluded so credential checks always hit the repository.
type cachedPrincipal struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      domain.Role `json:"role"`
	Version   int64       `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Get returns the cached account for username, or (nil, nil) on a miss.
func (c *PrincipalCache) Get(ctx context.Context, username string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.PrincipalCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.PrincipalCacheTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("principal cache get: %w", err)
	}

	var cp cachedPrincipal
	if err := json.Unmarshal(raw, &cp); err != nil {
		metrics.PrincipalCacheTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("principal cache decode: %w", err)
	}

	metrics.PrincipalCacheTotal.WithLabelValues("hit").Inc()
	return &domain.User{
		ID:        cp.ID,
		Username:  cp.Username,
		Email:     cp.Email,
		FullName:  cp.FullName,
		Role:      cp.Role,
		Status:    domain.StatusActive, // only active accounts are ever cached
		Version:   cp.Version,
		CreatedAt: cp.CreatedAt,
		UpdatedAt: cp.UpdatedAt,
	}, nil
}

// Set stores the account under its username with the configured TTL.
func (c *PrincipalCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(cachedPrincipal{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Version:   user.Version,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("principal cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.Username), raw, c.ttl).Err()
}

// Evict removes the cached account for username.
func (c *PrincipalCache) Evict(ctx context.Context, username string) error {
	return c.client.Del(ctx, c.key(username)).Err()
}

func (c *PrincipalCache) key(username string) string {
	return principalKeyPrefix + username
}
