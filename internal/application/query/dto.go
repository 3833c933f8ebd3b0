// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"time"

	"github.com/cshours/community-service-hub/internal/domain/accolade"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// StudentDTO - DTO профиля студента (Data Transfer Object).
type StudentDTO struct {
	// ID - внутренний ID студента.
	ID string `json:"id"`

	// Username - имя пользователя.
	Username string `json:"username"`

	// DisplayName - отображаемое имя.
	DisplayName string `json:"display_name"`

	// TotalHours - суммарные зачтённые часы.
	TotalHours int `json:"total_hours"`

	// ConfirmationRequested - открыт ли запрос подтверждения.
	ConfirmationRequested bool `json:"confirmation_requested"`

	// Accolades - достигнутые рубежи; вычисляются при каждом чтении.
	Accolades []int `json:"accolades"`

	// CreatedAt - время регистрации.
	CreatedAt time.Time `json:"created_at"`
}

// StaffDTO - DTO профиля сотрудника.
type StaffDTO struct {
	// ID - внутренний ID сотрудника.
	ID string `json:"id"`

	// Username - имя пользователя.
	Username string `json:"username"`

	// DisplayName - отображаемое имя.
	DisplayName string `json:"display_name"`

	// CreatedAt - время регистрации.
	CreatedAt time.Time `json:"created_at"`
}

// toStudentDTO конвертирует доменную сущность в DTO.
// Хеш пароля наружу не отдаётся никогда.
func toStudentDTO(s *user.Student) StudentDTO {
	milestones := accolade.Evaluate(s.TotalHours)
	reached := make([]int, len(milestones))
	for i, m := range milestones {
		reached[i] = int(m)
	}

	return StudentDTO{
		ID:                    s.ID,
		Username:              s.Username.String(),
		DisplayName:           s.DisplayName,
		TotalHours:            int(s.TotalHours),
		ConfirmationRequested: s.ConfirmationRequested,
		Accolades:             reached,
		CreatedAt:             s.CreatedAt,
	}
}

// toStaffDTO конвертирует доменную сущность в DTO.
func toStaffDTO(s *user.Staff) StaffDTO {
	return StaffDTO{
		ID:          s.ID,
		Username:    s.Username.String(),
		DisplayName: s.DisplayName,
		CreatedAt:   s.CreatedAt,
	}
}
