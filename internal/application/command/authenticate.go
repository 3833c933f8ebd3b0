// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/shared"
	"github.com/cshours/community-service-hub/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE COMMAND
// Verifies credentials and issues an opaque session token. The core only
// consumes the resulting Identity; how the token is derived is a boundary
// concern and carries no meaning of its own.
// ══════════════════════════════════════════════════════════════════════════════

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = shared.NewDomainError("auth", "Authenticate", shared.ErrUnauthorized, "invalid credentials")

// AuthenticateCommand contains the credentials to verify.
type AuthenticateCommand struct {
	// Username is the username to authenticate.
	Username string

	// Password is the plaintext password.
	Password string
}

// Validate validates the command.
func (c AuthenticateCommand) Validate() error {
	if c.Username == "" {
		return errors.New("authenticate: username is required")
	}
	if c.Password == "" {
		return errors.New("authenticate: password is required")
	}
	return nil
}

// AuthenticateResult contains the issued token and the resolved identity.
type AuthenticateResult struct {
	// Token is the opaque bearer token for subsequent requests.
	Token string

	// Identity is the authenticated principal.
	Identity identity.Identity
}

// AuthenticateHandler handles the AuthenticateCommand.
type AuthenticateHandler struct {
	students   user.StudentRepository
	staff      user.StaffRepository
	tokenStore identity.TokenStore
	tokenTTL   time.Duration
}

// NewAuthenticateHandler creates a new AuthenticateHandler.
func NewAuthenticateHandler(
	students user.StudentRepository,
	staff user.StaffRepository,
	tokenStore identity.TokenStore,
	tokenTTL time.Duration,
) *AuthenticateHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &AuthenticateHandler{
		students:   students,
		staff:      staff,
		tokenStore: tokenStore,
		tokenTTL:   tokenTTL,
	}
}

// Handle verifies the credentials and issues a session token.
// Returns ErrInvalidCredentials when the username does not resolve in either
// role or the password does not match.
func (h *AuthenticateHandler) Handle(ctx context.Context, cmd AuthenticateCommand) (*AuthenticateResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("auth", "Authenticate", shared.ErrValidation, "validation failed", err)
	}

	id, hash, err := h.lookup(ctx, user.Username(cmd.Username))
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(cmd.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := h.tokenStore.Issue(ctx, *id, h.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("authenticate: failed to issue token: %w", err)
	}

	return &AuthenticateResult{
		Token:    token,
		Identity: *id,
	}, nil
}

// lookup resolves a username to an identity and a password hash.
// Students and staff share one username namespace, so at most one matches.
func (h *AuthenticateHandler) lookup(ctx context.Context, username user.Username) (*identity.Identity, string, error) {
	stud, err := h.students.GetByUsername(ctx, username)
	if err == nil {
		return &identity.Identity{
			UserID:   stud.ID,
			Username: stud.Username.String(),
			Role:     identity.RoleStudent,
		}, stud.PasswordHash, nil
	}
	if !errors.Is(err, user.ErrStudentNotFound) {
		return nil, "", fmt.Errorf("authenticate: student lookup failed: %w", err)
	}

	staff, err := h.staff.GetByUsername(ctx, username)
	if err == nil {
		return &identity.Identity{
			UserID:   staff.ID,
			Username: staff.Username.String(),
			Role:     identity.RoleStaff,
		}, staff.PasswordHash, nil
	}
	if !errors.Is(err, user.ErrStaffNotFound) {
		return nil, "", fmt.Errorf("authenticate: staff lookup failed: %w", err)
	}

	return nil, "", ErrInvalidCredentials
}
