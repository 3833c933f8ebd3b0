package query

import (
	"context"

	"github.com/cshours/community-service-hub/internal/domain/authz"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER QUERIES
// Полные списки студентов и сотрудников. Доступны только сотрудникам;
// порядок - естественный порядок создания записей в реестре.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentRosterQuery содержит параметры запроса списка студентов.
type GetStudentRosterQuery struct {
	// Actor - аутентифицированный вызывающий. Nil - не аутентифицирован.
	Actor *identity.Identity
}

// GetStudentRosterResult содержит список студентов.
type GetStudentRosterResult struct {
	// Students - все студенты в порядке создания.
	Students []StudentDTO `json:"students"`
}

// GetStudentRosterHandler обрабатывает запрос списка студентов.
type GetStudentRosterHandler struct {
	students user.StudentRepository
}

// NewGetStudentRosterHandler создаёт новый обработчик.
func NewGetStudentRosterHandler(students user.StudentRepository) *GetStudentRosterHandler {
	return &GetStudentRosterHandler{students: students}
}

// Handle выполняет запрос списка студентов.
func (h *GetStudentRosterHandler) Handle(ctx context.Context, q GetStudentRosterQuery) (*GetStudentRosterResult, error) {
	if err := authz.Authorize(q.Actor, authz.OpViewStudentRoster, ""); err != nil {
		return nil, err
	}

	all, err := h.students.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]StudentDTO, len(all))
	for i, s := range all {
		dtos[i] = toStudentDTO(s)
	}

	return &GetStudentRosterResult{Students: dtos}, nil
}

// GetStaffRosterQuery содержит параметры запроса списка сотрудников.
type GetStaffRosterQuery struct {
	// Actor - аутентифицированный вызывающий. Nil - не аутентифицирован.
	Actor *identity.Identity
}

// GetStaffRosterResult содержит список сотрудников.
type GetStaffRosterResult struct {
	// Staff - все сотрудники в порядке создания.
	Staff []StaffDTO `json:"staff"`
}

// GetStaffRosterHandler обрабатывает запрос списка сотрудников.
type GetStaffRosterHandler struct {
	staff user.StaffRepository
}

// NewGetStaffRosterHandler создаёт новый обработчик.
func NewGetStaffRosterHandler(staff user.StaffRepository) *GetStaffRosterHandler {
	return &GetStaffRosterHandler{staff: staff}
}

// Handle выполняет запрос списка сотрудников.
func (h *GetStaffRosterHandler) Handle(ctx context.Context, q GetStaffRosterQuery) (*GetStaffRosterResult, error) {
	if err := authz.Authorize(q.Actor, authz.OpViewStaffRoster, ""); err != nil {
		return nil, err
	}

	all, err := h.staff.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]StaffDTO, len(all))
	for i, s := range all {
		dtos[i] = toStaffDTO(s)
	}

	return &GetStaffRosterResult{Staff: dtos}, nil
}
