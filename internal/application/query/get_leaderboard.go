package query

import (
	"context"
	"time"

	"github.com/cshours/community-service-hub/internal/domain/authz"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/leaderboard"
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Рейтинг студентов по суммарным часам, по убыванию. Представление
// производное: строится от реестра при каждом чтении, без кеша.
// Доступен любому аутентифицированному вызывающему.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса лидерборда.
type GetLeaderboardQuery struct {
	// Actor - аутентифицированный вызывающий. Nil - не аутентифицирован.
	Actor *identity.Identity
}

// GetLeaderboardResult содержит результат запроса лидерборда.
type GetLeaderboardResult struct {
	// Entries - записи лидерборда по убыванию часов; при равенстве часов
	// сохраняется порядок создания записей в реестре.
	Entries []leaderboard.Entry `json:"entries"`

	// TotalStudents - общее количество студентов.
	TotalStudents int `json:"total_students"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLeaderboardHandler обрабатывает запросы на получение лидерборда.
type GetLeaderboardHandler struct {
	students user.StudentRepository
}

// NewGetLeaderboardHandler создаёт новый обработчик запроса лидерборда.
func NewGetLeaderboardHandler(students user.StudentRepository) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{students: students}
}

// Handle выполняет запрос на получение лидерборда.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := authz.Authorize(q.Actor, authz.OpViewLeaderboard, ""); err != nil {
		return nil, err
	}

	// GetAll возвращает студентов в порядке создания - это и есть порядок,
	// который стабильная сортировка сохраняет для равных часов.
	all, err := h.students.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &GetLeaderboardResult{
		Entries:       leaderboard.Rank(all),
		TotalStudents: len(all),
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
