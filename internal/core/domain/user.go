package domain

import "time"

// Role is the authorization role stored on a user account. The account record
// is the source of truth; the role claim carried inside a token is only a
// snapshot taken at issuance time.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Status marks whether an entity is live or soft-deleted. Deletion is a
// terminal transition: no code path moves a row back to active.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// User models an account in the system. Mutable fields are guarded by the
// optimistic Version counter, incremented by the persistence layer on every
// successful write.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	Version      int64     `json:"-"`
	CreatedBy    string    `json:"created_by,omitempty"`
	UpdatedBy    string    `json:"updated_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
