package query

import (
	"context"

	"github.com/cshours/community-service-hub/internal/domain/authz"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PENDING CONFIRMATIONS QUERY
// Студенты с открытым запросом подтверждения, в естественном порядке
// реестра. Рабочий список для сотрудников.
// ══════════════════════════════════════════════════════════════════════════════

// GetPendingConfirmationsQuery содержит параметры запроса.
type GetPendingConfirmationsQuery struct {
	// Actor - аутентифицированный вызывающий. Nil - не аутентифицирован.
	Actor *identity.Identity
}

// GetPendingConfirmationsResult содержит список ожидающих студентов.
type GetPendingConfirmationsResult struct {
	// Students - студенты с открытым запросом, в порядке создания записей.
	Students []StudentDTO `json:"students"`
}

// GetPendingConfirmationsHandler обрабатывает запрос списка ожидающих.
type GetPendingConfirmationsHandler struct {
	students user.StudentRepository
}

// NewGetPendingConfirmationsHandler создаёт новый обработчик.
func NewGetPendingConfirmationsHandler(students user.StudentRepository) *GetPendingConfirmationsHandler {
	return &GetPendingConfirmationsHandler{students: students}
}

// Handle выполняет запрос списка ожидающих подтверждения.
func (h *GetPendingConfirmationsHandler) Handle(ctx context.Context, q GetPendingConfirmationsQuery) (*GetPendingConfirmationsResult, error) {
	if err := authz.Authorize(q.Actor, authz.OpViewPendingConfirmations, ""); err != nil {
		return nil, err
	}

	pending, err := h.students.GetPendingConfirmations(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]StudentDTO, len(pending))
	for i, s := range pending {
		dtos[i] = toStudentDTO(s)
	}

	return &GetPendingConfirmationsResult{Students: dtos}, nil
}
