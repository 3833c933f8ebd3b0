// Package leaderboard строит ранжированное представление студентов
// по суммарным часам. Представление производное: оно пересчитывается
// при каждом чтении и нигде не кешируется, чтобы единственным источником
// истины оставался реестр.
package leaderboard

import (
	"sort"

	"github.com/cshours/community-service-hub/internal/domain/user"
)

// Entry - одна строка лидерборда.
type Entry struct {
	// Rank - позиция в рейтинге (начиная с 1).
	Rank int `json:"rank"`

	// Username - имя пользователя студента.
	Username string `json:"username"`

	// TotalHours - суммарные зачтённые часы.
	TotalHours int `json:"total_hours"`
}

// Rank строит лидерборд по списку студентов: сортировка по убыванию часов.
// Сортировка стабильная: студенты с равными часами сохраняют взаимный
// порядок входного списка, поэтому повторные вызовы на неизменных данных
// дают идентичный результат.
// Входной список не модифицируется.
func Rank(students []*user.Student) []Entry {
	ordered := make([]*user.Student, len(students))
	copy(ordered, students)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TotalHours > ordered[j].TotalHours
	})

	entries := make([]Entry, len(ordered))
	for i, s := range ordered {
		entries[i] = Entry{
			Rank:       i + 1,
			Username:   s.Username.String(),
			TotalHours: int(s.TotalHours),
		}
	}
	return entries
}
