// Package accolade вычисляет набор наград студента по суммарным часам.
// Оценка - чистая функция: набор всегда пересчитывается от TotalHours
// и нигде не хранится, поэтому новые рубежи добавляются без миграций.
package accolade

import (
	"github.com/cshours/community-service-hub/internal/domain/user"
)

// Milestone - фиксированный рубеж часов, открывающий награду.
type Milestone int

// Ladder - лестница рубежей. Порядок возрастающий.
var Ladder = []Milestone{10, 25, 50, 100}

// Evaluate возвращает рубежи, достигнутые при данном количестве часов:
// рубеж m входит в набор тогда и только тогда, когда totalHours >= m.
// Ошибочных состояний нет: отрицательные значения исключены инвариантом
// неубывания TotalHours.
func Evaluate(totalHours user.Hours) []Milestone {
	reached := make([]Milestone, 0, len(Ladder))
	for _, m := range Ladder {
		if int(totalHours) >= int(m) {
			reached = append(reached, m)
		}
	}
	return reached
}

// Reached проверяет, достигнут ли конкретный рубеж.
func Reached(totalHours user.Hours, m Milestone) bool {
	return int(totalHours) >= int(m)
}

// Next возвращает ближайший недостигнутый рубеж и true,
// либо 0 и false, если пройдена вся лестница.
func Next(totalHours user.Hours) (Milestone, bool) {
	for _, m := range Ladder {
		if int(totalHours) < int(m) {
			return m, true
		}
	}
	return 0, false
}
