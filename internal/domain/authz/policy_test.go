package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/shared"
)

var (
	studentID = "student-1"
	otherID   = "student-2"

	asStudent = &identity.Identity{UserID: studentID, Username: "aruzhan", Role: identity.RoleStudent}
	asStaff   = &identity.Identity{UserID: "staff-1", Username: "bob", Role: identity.RoleStaff}
)

func TestAuthorize_NilIdentity(t *testing.T) {
	// Authentication is checked before any role rule, for every operation.
	ops := []Operation{
		OpViewStudentRoster, OpViewStaffRoster, OpViewStudent,
		OpLogHours, OpConfirmHours, OpRequestConfirmation,
		OpViewAccolades, OpViewLeaderboard, OpViewPendingConfirmations,
	}
	for _, op := range ops {
		err := Authorize(nil, op, studentID)
		assert.ErrorIs(t, err, shared.ErrUnauthorized, "op %s", op)
	}
}

func TestAuthorize_Rosters(t *testing.T) {
	assert.NoError(t, Authorize(asStaff, OpViewStudentRoster, ""))
	assert.NoError(t, Authorize(asStaff, OpViewStaffRoster, ""))
	assert.NoError(t, Authorize(asStaff, OpViewPendingConfirmations, ""))

	assert.ErrorIs(t, Authorize(asStudent, OpViewStudentRoster, ""), shared.ErrForbidden)
	assert.ErrorIs(t, Authorize(asStudent, OpViewStaffRoster, ""), shared.ErrForbidden)
	assert.ErrorIs(t, Authorize(asStudent, OpViewPendingConfirmations, ""), shared.ErrForbidden)
}

func TestAuthorize_ViewStudent(t *testing.T) {
	assert.NoError(t, Authorize(asStaff, OpViewStudent, studentID))
	assert.NoError(t, Authorize(asStudent, OpViewStudent, studentID))
	assert.ErrorIs(t, Authorize(asStudent, OpViewStudent, otherID), shared.ErrForbidden)
}

func TestAuthorize_LedgerTransitions(t *testing.T) {
	assert.NoError(t, Authorize(asStaff, OpLogHours, studentID))
	assert.NoError(t, Authorize(asStaff, OpConfirmHours, studentID))

	// Students cannot credit or confirm hours, not even their own.
	assert.ErrorIs(t, Authorize(asStudent, OpLogHours, studentID), shared.ErrForbidden)
	assert.ErrorIs(t, Authorize(asStudent, OpConfirmHours, studentID), shared.ErrForbidden)
}

func TestAuthorize_RequestConfirmation(t *testing.T) {
	assert.NoError(t, Authorize(asStudent, OpRequestConfirmation, studentID))

	// Self-service only
	assert.ErrorIs(t, Authorize(asStudent, OpRequestConfirmation, otherID), shared.ErrForbidden)
	assert.ErrorIs(t, Authorize(asStaff, OpRequestConfirmation, studentID), shared.ErrForbidden)
}

func TestAuthorize_SharedViews(t *testing.T) {
	assert.NoError(t, Authorize(asStudent, OpViewAccolades, otherID))
	assert.NoError(t, Authorize(asStaff, OpViewAccolades, studentID))
	assert.NoError(t, Authorize(asStudent, OpViewLeaderboard, ""))
	assert.NoError(t, Authorize(asStaff, OpViewLeaderboard, ""))
}

func TestAuthorize_UnknownOperation(t *testing.T) {
	assert.ErrorIs(t, Authorize(asStaff, Operation("unknown"), ""), shared.ErrForbidden)
}
