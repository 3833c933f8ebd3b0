package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cshours/community-service-hub/internal/application/command"
	"github.com/cshours/community-service-hub/internal/application/query"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/shared"
	"github.com/cshours/community-service-hub/internal/domain/user"
	"github.com/cshours/community-service-hub/pkg/logger"
)

// maxBodyBytes limits request body size for JSON endpoints.
const maxBodyBytes = 1 << 20 // 1 MB

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps a core error to an HTTP status code. The mapping is
// the single place where the error taxonomy meets the transport.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, command.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")

	case errors.Is(err, shared.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")

	case errors.Is(err, shared.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "forbidden", "Operation not permitted")

	case errors.Is(err, user.ErrStudentNotFound):
		writeJSONError(w, http.StatusNotFound, "student_not_found", "Student not found")

	case errors.Is(err, user.ErrStaffNotFound):
		writeJSONError(w, http.StatusNotFound, "staff_not_found", "Staff member not found")

	case errors.Is(err, shared.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "Resource not found")

	case errors.Is(err, user.ErrDuplicateUsername):
		writeJSONError(w, http.StatusConflict, "duplicate_username", "Username already taken")

	case errors.Is(err, user.ErrNoPendingRequest):
		writeJSONError(w, http.StatusConflict, "no_pending_request", "No pending confirmation request")

	case errors.Is(err, user.ErrInvalidHours):
		writeJSONError(w, http.StatusBadRequest, "invalid_amount", "Amount must be positive")

	case errors.Is(err, shared.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())

	default:
		s.logger.Error("unhandled error",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// decodeJSON decodes the request body into dst. On failure it writes a 400
// response and returns false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH & REGISTRATION
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string        `json:"token"`
	UserID   string        `json:"user_id"`
	Username string        `json:"username"`
	Role     identity.Role `json:"role"`
}

// handleLogin verifies credentials and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.AuthenticateHandler.Handle(r.Context(), command.AuthenticateCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		UserID:   result.Identity.UserID,
		Username: result.Identity.Username,
		Role:     result.Identity.Role,
	})
}

// handleLogout revokes the presented session token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := s.deps.TokenStore.Revoke(r.Context(), token); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

type identifyResponse struct {
	UserID   string        `json:"user_id"`
	Username string        `json:"username"`
	Role     identity.Role `json:"role"`
}

// handleIdentify returns the identity behind the presented token.
func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	if id == nil {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, identifyResponse{
		UserID:   id.UserID,
		Username: id.Username,
		Role:     id.Role,
	})
}

type registerRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// handleRegister creates a student or staff account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	role := identity.Role(req.Role)
	if req.Role == "" {
		role = identity.RoleStudent
	}

	result, err := s.deps.RegisterUserHandler.Handle(r.Context(), command.RegisterUserCommand{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        role,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTORY & PROFILES
// ══════════════════════════════════════════════════════════════════════════════

// handleGetMe returns the caller's own profile.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetSelfProfileHandler.Handle(r.Context(), query.GetSelfProfileQuery{
		Actor: identityFrom(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetStudents returns the full student roster. Staff only.
func (s *Server) handleGetStudents(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetStudentRosterHandler.Handle(r.Context(), query.GetStudentRosterQuery{
		Actor: identityFrom(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetStaff returns the full staff roster. Staff only.
func (s *Server) handleGetStaff(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetStaffRosterHandler.Handle(r.Context(), query.GetStaffRosterQuery{
		Actor: identityFrom(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetStudent returns one student's profile. Staff or the student
// themselves.
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetStudentHandler.Handle(r.Context(), query.GetStudentQuery{
		Actor:     identityFrom(r.Context()),
		StudentID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetAccolades returns a student's reached milestones.
func (s *Server) handleGetAccolades(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetAccoladesHandler.Handle(r.Context(), query.GetAccoladesQuery{
		Actor:     identityFrom(r.Context()),
		StudentID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// HOURS LEDGER
// ══════════════════════════════════════════════════════════════════════════════

// handleRequestConfirmation opens a confirmation request on the caller's own
// record. Students only.
func (s *Server) handleRequestConfirmation(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.RequestConfirmationHandler.Handle(r.Context(), command.RequestConfirmationCommand{
		Actor: identityFrom(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id":      result.Student.ID,
		"state":           result.Student.ConfirmationState(),
		"already_pending": result.AlreadyPending,
	})
}

type logHoursRequest struct {
	StudentID string `json:"student_id"`
	Amount    int    `json:"amount"`
}

// handleLogHours credits hours to a student. Staff only.
func (s *Server) handleLogHours(w http.ResponseWriter, r *http.Request) {
	var req logHoursRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.LogHoursHandler.Handle(r.Context(), command.LogHoursCommand{
		Actor:     identityFrom(r.Context()),
		StudentID: req.StudentID,
		Amount:    req.Amount,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id":  result.Student.ID,
		"total_hours": int(result.Student.TotalHours),
	})
}

type confirmHoursRequest struct {
	StudentID string `json:"student_id"`
}

// handleConfirmHours clears a student's pending confirmation request. Staff only.
func (s *Server) handleConfirmHours(w http.ResponseWriter, r *http.Request) {
	var req confirmHoursRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.ConfirmHoursHandler.Handle(r.Context(), command.ConfirmHoursCommand{
		Actor:     identityFrom(r.Context()),
		StudentID: req.StudentID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id": result.Student.ID,
		"state":      result.Student.ConfirmationState(),
	})
}

// handleGetPendingConfirmations lists students awaiting confirmation. Staff only.
func (s *Server) handleGetPendingConfirmations(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetPendingConfirmationsHandler.Handle(r.Context(), query.GetPendingConfirmationsQuery{
		Actor: identityFrom(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard returns the ranking by total hours.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), query.GetLeaderboardQuery{
		Actor: identityFrom(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
