package auth

import "github.com/worktrack/worktrack-api/internal/core/domain"

// Context holds the principal resolved for one inbound request. It is created
// once by the authentication middleware, threaded explicitly as a parameter
// through services, and discarded when the request completes. It is never a
// process-wide singleton and never shared across concurrent requests.
type Context struct {
	user *domain.User
}

// Anonymous returns a context without a principal, used for endpoints that
// permit unauthenticated access such as login.
func Anonymous() *Context {
	return &Context{}
}

// ForUser wraps a resolved account as the current principal.
func ForUser(user *domain.User) *Context {
	return &Context{user: user}
}

// IsAnonymous reports whether no principal was resolved for this request.
func (c *Context) IsAnonymous() bool {
	return c == nil || c.user == nil
}

// CurrentUserID returns the principal's id, failing with
// domain.ErrAuthenticationRequired when anonymous. It never returns a
// sentinel value silently.
func (c *Context) CurrentUserID() (string, error) {
	if c.IsAnonymous() {
		return "", domain.ErrAuthenticationRequired
	}
	return c.user.ID, nil
}

// CurrentUsername returns the principal's username, failing with
// domain.ErrAuthenticationRequired when anonymous.
func (c *Context) CurrentUsername() (string, error) {
	if c.IsAnonymous() {
		return "", domain.ErrAuthenticationRequired
	}
	return c.user.Username, nil
}

// HasRole reports whether the principal carries the given role. Anonymous
// contexts hold no roles.
func (c *Context) HasRole(role domain.Role) bool {
	return !c.IsAnonymous() && c.user.Role == role
}
