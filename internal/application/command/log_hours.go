package command

import (
	"context"

	"github.com/cshours/community-service-hub/internal/domain/authz"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG HOURS COMMAND
// Credits hours to a student. Valid in either confirmation state: accrual
// and confirmation are orthogonal, so the confirmation flag is untouched.
// Checks run in the fixed order authn < authz < existence < amount, so the
// caller always receives the most fundamental failure first.
// ══════════════════════════════════════════════════════════════════════════════

// LogHoursCommand contains the data to credit hours.
type LogHoursCommand struct {
	// Actor is the authenticated caller. Nil means unauthenticated.
	Actor *identity.Identity

	// StudentID is the internal ID of the student to credit.
	StudentID string

	// Amount is the number of hours to add. Must be positive.
	Amount int
}

// LogHoursResult contains the student state after the transition.
type LogHoursResult struct {
	// Student is the post-transition student record.
	Student *user.Student
}

// LogHoursHandler handles the LogHoursCommand.
type LogHoursHandler struct {
	students user.StudentRepository
}

// NewLogHoursHandler creates a new LogHoursHandler.
func NewLogHoursHandler(students user.StudentRepository) *LogHoursHandler {
	return &LogHoursHandler{students: students}
}

// Handle executes the log hours command.
// Returns authz.ErrUnauthorized / authz.ErrForbidden for a missing identity
// or a non-staff actor, user.ErrStudentNotFound when the student does not
// resolve, and user.ErrInvalidHours when the amount is not positive.
func (h *LogHoursHandler) Handle(ctx context.Context, cmd LogHoursCommand) (*LogHoursResult, error) {
	if err := authz.Authorize(cmd.Actor, authz.OpLogHours, cmd.StudentID); err != nil {
		return nil, err
	}

	// Mutate serializes concurrent calls against the same student, so two
	// overlapping logHours cannot both read the old total. The amount check
	// runs inside the mutation, after existence is established.
	stud, err := h.students.Mutate(ctx, cmd.StudentID, func(s *user.Student) error {
		return s.AddHours(user.Hours(cmd.Amount))
	})
	if err != nil {
		return nil, err
	}

	return &LogHoursResult{Student: stud}, nil
}
