package query

import (
	"context"
	"fmt"

	"github.com/cshours/community-service-hub/internal/domain/authz"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT QUERY
// Профиль конкретного студента. Доступен сотрудникам и самому студенту.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentQuery содержит параметры запроса профиля студента.
type GetStudentQuery struct {
	// Actor - аутентифицированный вызывающий. Nil - не аутентифицирован.
	Actor *identity.Identity

	// StudentID - внутренний ID запрашиваемого студента.
	StudentID string
}

// GetStudentResult содержит профиль студента.
type GetStudentResult struct {
	// Student - профиль студента.
	Student StudentDTO `json:"student"`
}

// GetStudentHandler обрабатывает запрос профиля студента.
type GetStudentHandler struct {
	students user.StudentRepository
}

// NewGetStudentHandler создаёт новый обработчик.
func NewGetStudentHandler(students user.StudentRepository) *GetStudentHandler {
	return &GetStudentHandler{students: students}
}

// Handle выполняет запрос профиля студента.
// Порядок проверок фиксированный: аутентификация и авторизация раньше
// существования, поэтому чужой несуществующий ID даёт Forbidden, а не NotFound.
func (h *GetStudentHandler) Handle(ctx context.Context, q GetStudentQuery) (*GetStudentResult, error) {
	if err := authz.Authorize(q.Actor, authz.OpViewStudent, q.StudentID); err != nil {
		return nil, err
	}

	stud, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	result := toStudentDTO(stud)
	return &GetStudentResult{Student: result}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET SELF PROFILE QUERY
// Собственный профиль вызывающего - студента или сотрудника.
// ══════════════════════════════════════════════════════════════════════════════

// GetSelfProfileQuery содержит параметры запроса собственного профиля.
type GetSelfProfileQuery struct {
	// Actor - аутентифицированный вызывающий. Nil - не аутентифицирован.
	Actor *identity.Identity
}

// GetSelfProfileResult содержит профиль вызывающего.
// Заполнено ровно одно из полей - по роли вызывающего.
type GetSelfProfileResult struct {
	// Student - профиль, если вызывающий - студент.
	Student *StudentDTO `json:"student,omitempty"`

	// Staff - профиль, если вызывающий - сотрудник.
	Staff *StaffDTO `json:"staff,omitempty"`
}

// GetSelfProfileHandler обрабатывает запрос собственного профиля.
type GetSelfProfileHandler struct {
	students user.StudentRepository
	staff    user.StaffRepository
}

// NewGetSelfProfileHandler создаёт новый обработчик.
func NewGetSelfProfileHandler(students user.StudentRepository, staff user.StaffRepository) *GetSelfProfileHandler {
	return &GetSelfProfileHandler{students: students, staff: staff}
}

// Handle выполняет запрос собственного профиля.
func (h *GetSelfProfileHandler) Handle(ctx context.Context, q GetSelfProfileQuery) (*GetSelfProfileResult, error) {
	if q.Actor == nil {
		return nil, authz.ErrUnauthorized
	}

	switch q.Actor.Role {
	case identity.RoleStudent:
		stud, err := h.students.GetByID(ctx, q.Actor.UserID)
		if err != nil {
			return nil, err
		}
		dto := toStudentDTO(stud)
		return &GetSelfProfileResult{Student: &dto}, nil

	case identity.RoleStaff:
		member, err := h.staff.GetByID(ctx, q.Actor.UserID)
		if err != nil {
			return nil, err
		}
		dto := toStaffDTO(member)
		return &GetSelfProfileResult{Staff: &dto}, nil

	default:
		return nil, fmt.Errorf("get_self_profile: unknown role: %s", q.Actor.Role)
	}
}
