package user

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTORY INTERFACES
// Эти интерфейсы определяют контракт для работы с реестром пользователей.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository определяет операции реестра студентов.
type StudentRepository interface {
	// Create создаёт нового студента.
	// Возвращает ErrDuplicateUsername, если имя занято студентом или сотрудником.
	Create(ctx context.Context, student *Student) error

	// GetByID возвращает студента по внутреннему ID.
	// Возвращает ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetByUsername возвращает студента по имени пользователя.
	// Поиск точный, с учётом регистра.
	// Возвращает ErrStudentNotFound, если студент не найден.
	GetByUsername(ctx context.Context, username Username) (*Student, error)

	// GetAll возвращает всех студентов в порядке создания записей.
	GetAll(ctx context.Context) ([]*Student, error)

	// GetPendingConfirmations возвращает студентов с открытым запросом
	// подтверждения, в порядке создания записей.
	GetPendingConfirmations(ctx context.Context) ([]*Student, error)

	// Mutate атомарно применяет fn к студенту и сохраняет результат.
	// Конкурентные вызовы для одного студента сериализуются, поэтому
	// чтение-изменение-запись не теряет обновлений. Если fn возвращает
	// ошибку, состояние не меняется и ошибка возвращается как есть.
	// Возвращает ErrStudentNotFound, если студент не найден.
	Mutate(ctx context.Context, id string, fn func(*Student) error) (*Student, error)
}

// StaffRepository определяет операции реестра сотрудников.
type StaffRepository interface {
	// Create создаёт нового сотрудника.
	// Возвращает ErrDuplicateUsername, если имя занято студентом или сотрудником.
	Create(ctx context.Context, staff *Staff) error

	// GetByID возвращает сотрудника по внутреннему ID.
	// Возвращает ErrStaffNotFound, если сотрудник не найден.
	GetByID(ctx context.Context, id string) (*Staff, error)

	// GetByUsername возвращает сотрудника по имени пользователя.
	// Возвращает ErrStaffNotFound, если сотрудник не найден.
	GetByUsername(ctx context.Context, username Username) (*Staff, error)

	// GetAll возвращает всех сотрудников в порядке создания записей.
	GetAll(ctx context.Context) ([]*Staff, error)

	// Count возвращает общее количество сотрудников.
	Count(ctx context.Context) (int, error)
}

// Directory объединяет оба реестра. Уникальность имён пользователей -
// сквозной инвариант: имя не может повторяться между студентом и сотрудником.
type Directory interface {
	Students() StudentRepository
	Staff() StaffRepository
}
