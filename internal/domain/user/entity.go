// Package user содержит доменную модель участников системы учёта
// общественно-полезных часов: студентов и сотрудников.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Username представляет уникальное имя пользователя.
// Сравнение всегда точное, с учётом регистра.
type Username string

// IsValid проверяет корректность имени пользователя.
func (u Username) IsValid() bool {
	s := string(u)
	return len(s) >= 2 && len(s) <= 50 && !strings.ContainsAny(s, " \t\n\r")
}

// String возвращает строковое представление имени.
func (u Username) String() string {
	return string(u)
}

// Hours представляет количество зачтённых часов.
type Hours int

// IsValid проверяет, что значение неотрицательное.
func (h Hours) IsValid() bool {
	return h >= 0
}

// Add складывает часы.
func (h Hours) Add(delta Hours) Hours {
	return h + delta
}

// ConfirmationState определяет состояние запроса подтверждения часов.
type ConfirmationState string

const (
	// ConfirmationNone - открытого запроса подтверждения нет.
	ConfirmationNone ConfirmationState = "unconfirmed"
	// ConfirmationPending - студент запросил подтверждение, ожидается сотрудник.
	ConfirmationPending ConfirmationState = "pending"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidUsername - невалидное имя пользователя.
	ErrInvalidUsername = errors.New("invalid username: must be 2-50 chars without whitespace")

	// ErrInvalidDisplayName - невалидное отображаемое имя.
	ErrInvalidDisplayName = errors.New("invalid display name: must be 1-100 chars")

	// ErrInvalidHours - количество часов должно быть положительным.
	ErrInvalidHours = errors.New("invalid hours: amount must be positive")

	// ErrEmptyPasswordHash - хеш пароля обязателен.
	ErrEmptyPasswordHash = errors.New("password hash is required")

	// ErrStudentNotFound - студент не найден.
	ErrStudentNotFound = errors.New("student not found")

	// ErrStaffNotFound - сотрудник не найден.
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrDuplicateUsername - имя пользователя уже занято (в любой из ролей).
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrNoPendingRequest - нет открытого запроса подтверждения.
	ErrNoPendingRequest = errors.New("no pending confirmation request")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITIES: STUDENT & STAFF
// ══════════════════════════════════════════════════════════════════════════════

// Student - студент, накапливающий общественно-полезные часы.
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// Username - уникальное имя пользователя (общее пространство имён со Staff).
	Username Username

	// DisplayName - отображаемое имя.
	DisplayName string

	// PasswordHash - bcrypt-хеш пароля; устанавливается один раз при регистрации.
	PasswordHash string

	// TotalHours - суммарные зачтённые часы.
	// Инвариант: значение монотонно неубывающее, уменьшение невозможно.
	TotalHours Hours

	// ConfirmationRequested - открыт ли запрос подтверждения часов.
	ConfirmationRequested bool

	// CreatedAt - время создания записи. Порядок создания определяет
	// естественный порядок Directory.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// Staff - сотрудник, который фиксирует и подтверждает часы студентов.
// Дополнительного изменяемого состояния не несёт.
type Staff struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// Username - уникальное имя пользователя (общее пространство имён со Student).
	Username Username

	// DisplayName - отображаемое имя.
	DisplayName string

	// PasswordHash - bcrypt-хеш пароля.
	PasswordHash string

	// CreatedAt - время создания записи.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams содержит параметры для создания нового студента.
type NewStudentParams struct {
	ID           string
	Username     Username
	DisplayName  string
	PasswordHash string
}

// NewStudent создаёт нового студента с валидацией всех полей.
// Начальное состояние: 0 часов, запрос подтверждения не открыт.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, errors.New("student id is required")
	}

	if !params.Username.IsValid() {
		return nil, ErrInvalidUsername
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return nil, ErrInvalidDisplayName
	}

	if params.PasswordHash == "" {
		return nil, ErrEmptyPasswordHash
	}

	now := time.Now().UTC()

	return &Student{
		ID:                    params.ID,
		Username:              params.Username,
		DisplayName:           displayName,
		PasswordHash:          params.PasswordHash,
		TotalHours:            0,
		ConfirmationRequested: false,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// NewStaffParams содержит параметры для создания нового сотрудника.
type NewStaffParams struct {
	ID           string
	Username     Username
	DisplayName  string
	PasswordHash string
}

// NewStaff создаёт нового сотрудника с валидацией всех полей.
func NewStaff(params NewStaffParams) (*Staff, error) {
	if params.ID == "" {
		return nil, errors.New("staff id is required")
	}

	if !params.Username.IsValid() {
		return nil, ErrInvalidUsername
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return nil, ErrInvalidDisplayName
	}

	if params.PasswordHash == "" {
		return nil, ErrEmptyPasswordHash
	}

	return &Staff{
		ID:           params.ID,
		Username:     params.Username,
		DisplayName:  displayName,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// ConfirmationState возвращает текущее состояние запроса подтверждения.
func (s *Student) ConfirmationState() ConfirmationState {
	if s.ConfirmationRequested {
		return ConfirmationPending
	}
	return ConfirmationNone
}

// AddHours зачисляет часы студенту.
// Возвращает ErrInvalidHours, если количество не положительное.
// Состояние запроса подтверждения не меняется: начисление и подтверждение -
// независимые процессы.
func (s *Student) AddHours(amount Hours) error {
	if amount <= 0 {
		return ErrInvalidHours
	}

	s.TotalHours = s.TotalHours.Add(amount)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// RequestConfirmation открывает запрос подтверждения часов.
// Повторный вызов при уже открытом запросе не является ошибкой:
// одновременно имеет смысл только один открытый запрос.
func (s *Student) RequestConfirmation() {
	if s.ConfirmationRequested {
		return
	}

	s.ConfirmationRequested = true
	s.UpdatedAt = time.Now().UTC()
}

// ConfirmHours закрывает открытый запрос подтверждения.
// Возвращает ErrNoPendingRequest, если запроса нет.
// Суммарные часы не меняются - подтверждение лишь снимает флаг.
func (s *Student) ConfirmHours() error {
	if !s.ConfirmationRequested {
		return ErrNoPendingRequest
	}

	s.ConfirmationRequested = false
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{ID: %s, Username: %s, Hours: %d, Confirmation: %s}",
		s.ID, s.Username, s.TotalHours, s.ConfirmationState(),
	)
}

// Clone создаёт копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	return &clone
}

// String возвращает строковое представление сотрудника для логирования.
func (s *Staff) String() string {
	return fmt.Sprintf("Staff{ID: %s, Username: %s}", s.ID, s.Username)
}

// Clone создаёт копию сотрудника.
func (s *Staff) Clone() *Staff {
	if s == nil {
		return nil
	}

	clone := *s
	return &clone
}
