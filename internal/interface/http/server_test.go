package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/cshours/community-service-hub/internal/application/command"
	"github.com/cshours/community-service-hub/internal/application/query"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/infrastructure/persistence/memory"
	"github.com/cshours/community-service-hub/pkg/logger"
)

type testEnv struct {
	server *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	d := memory.NewDirectory()
	tokens := memory.NewTokenStore()
	students := d.Students()
	staff := d.Staff()

	deps := Dependencies{
		AuthenticateHandler:        command.NewAuthenticateHandler(students, staff, tokens, 0),
		RegisterUserHandler:        command.NewRegisterUserHandler(students, staff, bcrypt.MinCost),
		LogHoursHandler:            command.NewLogHoursHandler(students),
		ConfirmHoursHandler:        command.NewConfirmHoursHandler(students),
		RequestConfirmationHandler: command.NewRequestConfirmationHandler(students),

		GetStudentRosterHandler:        query.NewGetStudentRosterHandler(students),
		GetStaffRosterHandler:          query.NewGetStaffRosterHandler(staff),
		GetStudentHandler:              query.NewGetStudentHandler(students),
		GetSelfProfileHandler:          query.NewGetSelfProfileHandler(students, staff),
		GetPendingConfirmationsHandler: query.NewGetPendingConfirmationsHandler(students),
		GetAccoladesHandler:            query.NewGetAccoladesHandler(students),
		GetLeaderboardHandler:          query.NewGetLeaderboardHandler(students),

		TokenStore: tokens,
		Logger:     logger.New(logger.Options{Output: &bytes.Buffer{}}),
	}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // no rate limiting in tests

	return &testEnv{server: NewServer(cfg, deps)}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	var resp JSONResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

// register creates an account and returns its ID.
func (e *testEnv) register(t *testing.T, username, password string, role identity.Role) string {
	t.Helper()

	rec, resp := e.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username":     username,
		"display_name": username,
		"password":     password,
		"role":         string(role),
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	data := resp.Data.(map[string]interface{})
	return data["id"].(string)
}

// login authenticates and returns the bearer token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	rec, resp := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	return data["token"].(string)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rec, resp := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestLoginFlow(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "aruzhan", "secret", identity.RoleStudent)

	token := e.login(t, "aruzhan", "secret")
	assert.NotEmpty(t, token)

	// identify echoes the principal behind the token
	rec, resp := e.do(t, http.MethodGet, "/api/identify", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "aruzhan", data["username"])
	assert.Equal(t, "student", data["role"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "aruzhan", "secret", identity.RoleStudent)

	rec, resp := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "aruzhan", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", resp.Error.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "aruzhan", "secret", identity.RoleStudent)
	token := e.login(t, "aruzhan", "secret")

	rec, _ := e.do(t, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/identify", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "alex", "secret", identity.RoleStudent)

	rec, resp := e.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "alex", "display_name": "Alex", "password": "other", "role": "staff",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_username", resp.Error.Code)
}

func TestHoursFlow(t *testing.T) {
	e := newTestEnv(t)
	studentID := e.register(t, "aruzhan", "secret", identity.RoleStudent)
	e.register(t, "bob", "hunter2", identity.RoleStaff)

	studentToken := e.login(t, "aruzhan", "secret")
	staffToken := e.login(t, "bob", "hunter2")

	// Staff credits hours
	rec, resp := e.do(t, http.MethodPost, "/api/staff/log-hours", staffToken, map[string]interface{}{
		"student_id": studentID, "amount": 12,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(12), data["total_hours"])

	// Student opens a confirmation request
	rec, _ = e.do(t, http.MethodPost, "/api/students/me/request-confirmation", studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// It shows up on the staff worklist
	rec, resp = e.do(t, http.MethodGet, "/api/staff/pending-confirmations", staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	pending := resp.Data.(map[string]interface{})["students"].([]interface{})
	assert.Len(t, pending, 1)

	// Staff confirms
	rec, _ = e.do(t, http.MethodPost, "/api/staff/confirm-hours", staffToken, map[string]interface{}{
		"student_id": studentID,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Confirming again conflicts: the request was consumed
	rec, resp = e.do(t, http.MethodPost, "/api/staff/confirm-hours", staffToken, map[string]interface{}{
		"student_id": studentID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_pending_request", resp.Error.Code)
}

func TestLogHours_ErrorMapping(t *testing.T) {
	e := newTestEnv(t)
	studentID := e.register(t, "aruzhan", "secret", identity.RoleStudent)
	e.register(t, "bob", "hunter2", identity.RoleStaff)

	studentToken := e.login(t, "aruzhan", "secret")
	staffToken := e.login(t, "bob", "hunter2")

	// No token: 401
	rec, _ := e.do(t, http.MethodPost, "/api/staff/log-hours", "", map[string]interface{}{
		"student_id": studentID, "amount": 5,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Student token: 403
	rec, _ = e.do(t, http.MethodPost, "/api/staff/log-hours", studentToken, map[string]interface{}{
		"student_id": studentID, "amount": 5,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown student: 404
	rec, _ = e.do(t, http.MethodPost, "/api/staff/log-hours", staffToken, map[string]interface{}{
		"student_id": "missing", "amount": 5,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Non-positive amount: 400
	rec, resp := e.do(t, http.MethodPost, "/api/staff/log-hours", staffToken, map[string]interface{}{
		"student_id": studentID, "amount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_amount", resp.Error.Code)
}

func TestGetStudent_AccessRules(t *testing.T) {
	e := newTestEnv(t)
	studentID := e.register(t, "aruzhan", "secret", identity.RoleStudent)
	otherID := e.register(t, "dias", "secret", identity.RoleStudent)
	e.register(t, "bob", "hunter2", identity.RoleStaff)

	studentToken := e.login(t, "aruzhan", "secret")
	staffToken := e.login(t, "bob", "hunter2")

	rec, _ := e.do(t, http.MethodGet, "/api/students/"+studentID, studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/students/"+otherID, studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/students/"+otherID, staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Roster is staff only
	rec, _ = e.do(t, http.MethodGet, "/api/students", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = e.do(t, http.MethodGet, "/api/students", staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLeaderboardAndAccolades(t *testing.T) {
	e := newTestEnv(t)
	ids := make([]string, 3)
	for i, name := range []string{"first", "second", "third"} {
		ids[i] = e.register(t, name, "secret", identity.RoleStudent)
	}
	e.register(t, "bob", "hunter2", identity.RoleStaff)
	staffToken := e.login(t, "bob", "hunter2")
	studentToken := e.login(t, "first", "secret")

	for i, hours := range []int{5, 30, 30} {
		rec, _ := e.do(t, http.MethodPost, "/api/staff/log-hours", staffToken, map[string]interface{}{
			"student_id": ids[i], "amount": hours,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec, resp := e.do(t, http.MethodGet, "/api/leaderboard", studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	entries := resp.Data.(map[string]interface{})["entries"].([]interface{})
	assert.Len(t, entries, 3)

	top := entries[0].(map[string]interface{})
	assert.Equal(t, "second", top["username"])
	assert.Equal(t, float64(1), top["rank"])
	// Tie between second and third resolves by registration order
	runnerUp := entries[1].(map[string]interface{})
	assert.Equal(t, "third", runnerUp["username"])

	// Accolades are visible to any authenticated caller
	rec, resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/students/%s/accolades", ids[1]), studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	accolades := resp.Data.(map[string]interface{})["accolades"].([]interface{})
	assert.Equal(t, []interface{}{float64(10), float64(25)}, accolades)

	// But not to anonymous callers
	rec, _ = e.do(t, http.MethodGet, "/api/leaderboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidJSONBody(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownToken_IsAnonymous(t *testing.T) {
	e := newTestEnv(t)

	rec, _ := e.do(t, http.MethodGet, "/api/identify", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
