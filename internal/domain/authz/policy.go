// Package authz implements the authorization policy: a single stateless
// decision function gating every operation. Keeping all role and ownership
// rules in one place makes the policy auditable; callers never check roles
// themselves.
package authz

import (
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/shared"
)

// Operation enumerates the gated operations.
type Operation string

const (
	// OpViewStudentRoster - view the full student roster.
	OpViewStudentRoster Operation = "view_student_roster"

	// OpViewStaffRoster - view the full staff roster.
	OpViewStaffRoster Operation = "view_staff_roster"

	// OpViewStudent - view a specific student's profile.
	OpViewStudent Operation = "view_student"

	// OpLogHours - credit hours to a student.
	OpLogHours Operation = "log_hours"

	// OpConfirmHours - clear a student's pending confirmation request.
	OpConfirmHours Operation = "confirm_hours"

	// OpRequestConfirmation - open a confirmation request on one's own record.
	OpRequestConfirmation Operation = "request_confirmation"

	// OpViewAccolades - read a student's accolades.
	OpViewAccolades Operation = "view_accolades"

	// OpViewLeaderboard - read the leaderboard.
	OpViewLeaderboard Operation = "view_leaderboard"

	// OpViewPendingConfirmations - list students awaiting confirmation.
	OpViewPendingConfirmations Operation = "view_pending_confirmations"
)

// Decision errors. Boundaries map these to 401/403.
var (
	// ErrUnauthorized - no valid identity. Checked before any role rule.
	ErrUnauthorized = shared.NewDomainError("authz", "Authorize", shared.ErrUnauthorized, "authentication required")

	// ErrForbidden - valid identity, insufficient role or ownership.
	ErrForbidden = shared.NewDomainError("authz", "Authorize", shared.ErrForbidden, "operation not permitted for this role")
)

// Authorize decides whether id may perform op against the target student.
// targetStudentID is the student the operation acts on; it is ignored for
// operations without a target. A nil return means the operation is allowed.
//
// Rules, in priority order:
//  1. rosters: staff only;
//  2. a specific student's profile: staff, or that same student;
//  3. logging / confirming hours: staff only;
//  4. requesting confirmation: the student themselves only;
//  5. accolades and leaderboard: any authenticated identity.
func Authorize(id *identity.Identity, op Operation, targetStudentID string) error {
	if id == nil {
		return ErrUnauthorized
	}

	switch op {
	case OpViewStudentRoster, OpViewStaffRoster, OpViewPendingConfirmations:
		if !id.IsStaff() {
			return ErrForbidden
		}
		return nil

	case OpViewStudent:
		if id.IsStaff() || id.Is(targetStudentID) {
			return nil
		}
		return ErrForbidden

	case OpLogHours, OpConfirmHours:
		if !id.IsStaff() {
			return ErrForbidden
		}
		return nil

	case OpRequestConfirmation:
		// Self-service only: staff cannot request on a student's behalf.
		if id.IsStudent() && id.Is(targetStudentID) {
			return nil
		}
		return ErrForbidden

	case OpViewAccolades, OpViewLeaderboard:
		return nil

	default:
		return ErrForbidden
	}
}
