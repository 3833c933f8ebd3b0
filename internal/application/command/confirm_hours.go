package command

import (
	"context"

	"github.com/cshours/community-service-hub/internal/domain/authz"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIRM HOURS COMMAND
// A staff member clears a student's open confirmation request. Confirming
// does not alter total hours - crediting happens via logHours independently.
// ══════════════════════════════════════════════════════════════════════════════

// ConfirmHoursCommand contains the data to confirm hours.
type ConfirmHoursCommand struct {
	// Actor is the authenticated caller. Nil means unauthenticated.
	Actor *identity.Identity

	// StudentID is the internal ID of the student whose request to clear.
	StudentID string
}

// ConfirmHoursResult contains the student state after the transition.
type ConfirmHoursResult struct {
	// Student is the post-transition student record.
	Student *user.Student
}

// ConfirmHoursHandler handles the ConfirmHoursCommand.
type ConfirmHoursHandler struct {
	students user.StudentRepository
}

// NewConfirmHoursHandler creates a new ConfirmHoursHandler.
func NewConfirmHoursHandler(students user.StudentRepository) *ConfirmHoursHandler {
	return &ConfirmHoursHandler{students: students}
}

// Handle executes the confirm hours command.
// Returns user.ErrNoPendingRequest when the student has no open request.
func (h *ConfirmHoursHandler) Handle(ctx context.Context, cmd ConfirmHoursCommand) (*ConfirmHoursResult, error) {
	if err := authz.Authorize(cmd.Actor, authz.OpConfirmHours, cmd.StudentID); err != nil {
		return nil, err
	}

	stud, err := h.students.Mutate(ctx, cmd.StudentID, func(s *user.Student) error {
		return s.ConfirmHours()
	})
	if err != nil {
		return nil, err
	}

	return &ConfirmHoursResult{Student: stud}, nil
}
