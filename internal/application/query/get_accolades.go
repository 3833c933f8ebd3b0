package query

import (
	"context"

	"github.com/cshours/community-service-hub/internal/domain/accolade"
	"github.com/cshours/community-service-hub/internal/domain/authz"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACCOLADES QUERY
// Награды студента. Набор производный: пересчитывается от суммарных часов
// при каждом чтении и нигде не хранится. Доступен любому
// аутентифицированному вызывающему.
// ══════════════════════════════════════════════════════════════════════════════

// GetAccoladesQuery содержит параметры запроса наград.
type GetAccoladesQuery struct {
	// Actor - аутентифицированный вызывающий. Nil - не аутентифицирован.
	Actor *identity.Identity

	// StudentID - внутренний ID студента.
	StudentID string
}

// GetAccoladesResult содержит достигнутые рубежи.
type GetAccoladesResult struct {
	// StudentID - ID студента.
	StudentID string `json:"student_id"`

	// Username - имя пользователя студента.
	Username string `json:"username"`

	// TotalHours - суммарные часы, от которых считался набор.
	TotalHours int `json:"total_hours"`

	// Accolades - достигнутые рубежи по возрастанию.
	Accolades []int `json:"accolades"`

	// NextMilestone - ближайший недостигнутый рубеж (0, если лестница пройдена).
	NextMilestone int `json:"next_milestone,omitempty"`
}

// GetAccoladesHandler обрабатывает запрос наград.
type GetAccoladesHandler struct {
	students user.StudentRepository
}

// NewGetAccoladesHandler создаёт новый обработчик.
func NewGetAccoladesHandler(students user.StudentRepository) *GetAccoladesHandler {
	return &GetAccoladesHandler{students: students}
}

// Handle выполняет запрос наград студента.
func (h *GetAccoladesHandler) Handle(ctx context.Context, q GetAccoladesQuery) (*GetAccoladesResult, error) {
	if err := authz.Authorize(q.Actor, authz.OpViewAccolades, q.StudentID); err != nil {
		return nil, err
	}

	stud, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	milestones := accolade.Evaluate(stud.TotalHours)
	reached := make([]int, len(milestones))
	for i, m := range milestones {
		reached[i] = int(m)
	}

	result := &GetAccoladesResult{
		StudentID:  stud.ID,
		Username:   stud.Username.String(),
		TotalHours: int(stud.TotalHours),
		Accolades:  reached,
	}

	if next, ok := accolade.Next(stud.TotalHours); ok {
		result.NextMilestone = int(next)
	}

	return result, nil
}
