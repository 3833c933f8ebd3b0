package command

import (
	"context"

	"github.com/cshours/community-service-hub/internal/domain/authz"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST CONFIRMATION COMMAND
// A student opens a confirmation request on their own record. Self-service
// only: staff cannot request on a student's behalf. Requesting while a
// request is already open is a no-op, not a fault - only one open request
// is meaningful at a time.
// ══════════════════════════════════════════════════════════════════════════════

// RequestConfirmationCommand contains the data to open a request.
type RequestConfirmationCommand struct {
	// Actor is the authenticated caller. Nil means unauthenticated.
	Actor *identity.Identity
}

// RequestConfirmationResult contains the student state after the transition.
type RequestConfirmationResult struct {
	// Student is the post-transition student record.
	Student *user.Student

	// AlreadyPending is true when a request was already open and the call
	// had no additional effect.
	AlreadyPending bool
}

// RequestConfirmationHandler handles the RequestConfirmationCommand.
type RequestConfirmationHandler struct {
	students user.StudentRepository
}

// NewRequestConfirmationHandler creates a new RequestConfirmationHandler.
func NewRequestConfirmationHandler(students user.StudentRepository) *RequestConfirmationHandler {
	return &RequestConfirmationHandler{students: students}
}

// Handle executes the request confirmation command.
func (h *RequestConfirmationHandler) Handle(ctx context.Context, cmd RequestConfirmationCommand) (*RequestConfirmationResult, error) {
	targetID := ""
	if cmd.Actor != nil {
		targetID = cmd.Actor.UserID
	}

	if err := authz.Authorize(cmd.Actor, authz.OpRequestConfirmation, targetID); err != nil {
		return nil, err
	}

	alreadyPending := false
	stud, err := h.students.Mutate(ctx, targetID, func(s *user.Student) error {
		alreadyPending = s.ConfirmationRequested
		s.RequestConfirmation()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RequestConfirmationResult{
		Student:        stud,
		AlreadyPending: alreadyPending,
	}, nil
}
