package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/shared"
	"github.com/cshours/community-service-hub/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// Creates a student or staff record. The credential hash is set exactly once
// here; records are never deleted in normal operation.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserCommand contains the data to register a user.
type RegisterUserCommand struct {
	// Username is the unique username. Shared across both roles.
	Username string

	// DisplayName is the human-readable name.
	DisplayName string

	// Password is the plaintext password to hash.
	Password string

	// Role selects the record type: student or staff.
	Role identity.Role
}

// Validate validates the command.
func (c RegisterUserCommand) Validate() error {
	if c.Username == "" {
		return errors.New("register_user: username is required")
	}
	if c.Password == "" {
		return errors.New("register_user: password is required")
	}
	if !c.Role.IsValid() {
		return fmt.Errorf("register_user: unknown role: %s", c.Role)
	}
	return nil
}

// RegisterUserResult contains the created record's public fields.
type RegisterUserResult struct {
	// ID is the internal ID of the new record.
	ID string `json:"id"`

	// Username is the registered username.
	Username string `json:"username"`

	// DisplayName is the registered display name.
	DisplayName string `json:"display_name"`

	// Role is the registered role.
	Role identity.Role `json:"role"`
}

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	students   user.StudentRepository
	staff      user.StaffRepository
	bcryptCost int
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(students user.StudentRepository, staff user.StaffRepository, bcryptCost int) *RegisterUserHandler {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &RegisterUserHandler{
		students:   students,
		staff:      staff,
		bcryptCost: bcryptCost,
	}
}

// Handle executes the register user command.
// Returns user.ErrDuplicateUsername when the username is already taken in
// either role.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("user", "Register", shared.ErrValidation, "validation failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), h.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register_user: failed to hash password: %w", err)
	}

	id := uuid.New().String()

	switch cmd.Role {
	case identity.RoleStudent:
		stud, err := user.NewStudent(user.NewStudentParams{
			ID:           id,
			Username:     user.Username(cmd.Username),
			DisplayName:  cmd.DisplayName,
			PasswordHash: string(hash),
		})
		if err != nil {
			return nil, shared.WrapError("user", "Register", shared.ErrValidation, "invalid student", err)
		}
		if err := h.students.Create(ctx, stud); err != nil {
			return nil, err
		}
		return &RegisterUserResult{
			ID:          stud.ID,
			Username:    stud.Username.String(),
			DisplayName: stud.DisplayName,
			Role:        identity.RoleStudent,
		}, nil

	case identity.RoleStaff:
		member, err := user.NewStaff(user.NewStaffParams{
			ID:           id,
			Username:     user.Username(cmd.Username),
			DisplayName:  cmd.DisplayName,
			PasswordHash: string(hash),
		})
		if err != nil {
			return nil, shared.WrapError("user", "Register", shared.ErrValidation, "invalid staff member", err)
		}
		if err := h.staff.Create(ctx, member); err != nil {
			return nil, err
		}
		return &RegisterUserResult{
			ID:          member.ID,
			Username:    member.Username.String(),
			DisplayName: member.DisplayName,
			Role:        identity.RoleStaff,
		}, nil

	default:
		return nil, fmt.Errorf("register_user: unknown role: %s", cmd.Role)
	}
}
