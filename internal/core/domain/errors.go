package domain

import "errors"

// Sentinel errors returned by core services and repositories. The API layer
// maps each of these to an entry in the closed error-code set; anything else
// is logged server-side and surfaced as an internal error.
var (
	// ErrTokenExpired means the token signature was valid but its expiry has
	// passed. Callers should prompt for a fresh login.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid means the token encoding or signature is malformed or
	// tampered with. Callers should treat it as noise, not a session issue.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrAuthenticationRequired is returned when an anonymous context is asked
	// for the current principal.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrAuthenticationFailed means a verified token's subject does not
	// resolve to an active account.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrInvalidCredentials is returned on a bad username/password at login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccessDenied means the authorization policy rejected the operation.
	ErrAccessDenied = errors.New("access denied")

	ErrNotFound        = errors.New("entity not found")
	ErrDuplicateEntity = errors.New("entity already exists")
	ErrValidation      = errors.New("validation failed")
	// ErrVersionConflict signals a concurrent conflicting write detected by
	// the optimistic version check.
	ErrVersionConflict = errors.New("version conflict")

	// ErrBackendUnavailable is surfaced after transient-failure retries are
	// exhausted. The raw cause is logged, never returned to callers.
	ErrBackendUnavailable = errors.New("backend temporarily unavailable")
)

// Transient data-access failure classes. Repositories return these (wrapped)
// for failures expected to succeed on retry; the retry executor recognises
// them via errors.Is.
var (
	ErrLockContention = errors.New("lock contention")
	ErrQueryTimeout   = errors.New("query timeout")
	ErrConnectionLost = errors.New("connection lost")
)

// ErrorCode values form the closed set exposed in the API error envelope.
type ErrorCode string

const (
	CodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	CodeInvalidCredential    ErrorCode = "INVALID_CREDENTIAL"
	CodeAccessDenied         ErrorCode = "ACCESS_DENIED"
	CodeEntityNotFound       ErrorCode = "ENTITY_NOT_FOUND"
	CodeDuplicateEntity      ErrorCode = "DUPLICATE_ENTITY"
	CodeValidationError      ErrorCode = "VALIDATION_ERROR"
	CodeTransientBackend     ErrorCode = "TRANSIENT_BACKEND_UNAVAILABLE"
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
)
