package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/worktrack/worktrack-api/internal/pkg/metrics"
	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// AuthContextKey is the echo context key under which the request's
// auth.Context is stored.
const AuthContextKey = "auth_context"

// Authenticate verifies the bearer token, resolves the principal, and injects
// a request-scoped auth.Context. An absent or malformed Authorization header
// yields an anonymous context rather than an error: per-operation policy
// decides whether anonymous access is permitted. A present token that is
// expired, invalid, or unresolvable terminates the request immediately.
func Authenticate(codec *auth.TokenCodec, resolver *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, ok := bearerToken(header)
			if !ok {
				c.Set(AuthContextKey, auth.Anonymous())
				return next(c)
			}

			claims, err := codec.Verify(token)
			if err != nil {
				switch err {
				case domain.ErrTokenExpired:
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
				default:
					metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				}
				return err
			}

			user, err := resolver.Resolve(c.Request().Context(), claims)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("unresolved").Inc()
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(AuthContextKey, auth.ForUser(user))
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
