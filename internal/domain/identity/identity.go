// Package identity defines the authenticated principal consumed by every
// authorization decision. An Identity is ephemeral: it is reconstructed from
// a verified token on each request and never persisted.
package identity

import (
	"context"
	"errors"
	"time"
)

// Role tags the principal as a student or a staff member.
type Role string

const (
	// RoleStudent - a student accruing hours.
	RoleStudent Role = "student"
	// RoleStaff - a staff member logging and confirming hours.
	RoleStaff Role = "staff"
)

// IsValid checks that the role is one of the known tags.
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleStaff
}

// Identity represents an authenticated principal for the duration of one
// operation. A nil *Identity means the caller is not authenticated.
type Identity struct {
	// UserID is the internal ID of the underlying Student or Staff record.
	UserID string

	// Username is the unique username of the principal.
	Username string

	// Role is the role tag.
	Role Role
}

// IsStudent returns true for student principals.
func (i *Identity) IsStudent() bool {
	return i != nil && i.Role == RoleStudent
}

// IsStaff returns true for staff principals.
func (i *Identity) IsStaff() bool {
	return i != nil && i.Role == RoleStaff
}

// Is returns true if the identity refers to the given user ID.
func (i *Identity) Is(userID string) bool {
	return i != nil && i.UserID == userID
}

// ══════════════════════════════════════════════════════════════════════════════
// TOKEN STORE
// Maps opaque bearer tokens to identities (usually implemented with Redis).
// ══════════════════════════════════════════════════════════════════════════════

// ErrTokenNotFound is returned when a token is unknown or expired.
var ErrTokenNotFound = errors.New("identity: token not found")

// TokenStore issues and resolves opaque session tokens.
type TokenStore interface {
	// Issue stores the identity under a fresh opaque token and returns it.
	Issue(ctx context.Context, id Identity, ttl time.Duration) (string, error)

	// Resolve returns the identity for a token.
	// Returns ErrTokenNotFound if the token is unknown or expired.
	Resolve(ctx context.Context, token string) (*Identity, error)

	// Revoke invalidates a token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
}
