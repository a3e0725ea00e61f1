package domain

import (
	"fmt"
	"time"
)

// Role is the authorization level of an identity.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Status is the account state of an identity.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Identity models an authenticated principal as returned by the identity API.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate reports whether the identity may be persisted.
func (i *Identity) Validate() error {
	if i == nil {
		return ErrInvalidIdentity
	}
	if i.ID == "" || i.Email == "" {
		return fmt.Errorf("%w: id and email are required", ErrInvalidIdentity)
	}
	if !i.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidIdentity, i.Role)
	}
	if !i.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidIdentity, i.Status)
	}
	return nil
}

// IsAdmin reports whether the identity carries the administrator role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// CredentialBundle pairs an identity with the opaque bearer token the API issued for it.
type CredentialBundle struct {
	Identity Identity `json:"user"`
	Token    string   `json:"token"`
}

// Account is the server-side record kept by the development identity API.
// PasswordHash is empty for seeded accounts that cannot log in.
type Account struct {
	Identity
	PasswordHash string `json:"-"`
}
