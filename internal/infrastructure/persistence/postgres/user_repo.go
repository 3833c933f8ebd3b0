package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cshours/community-service-hub/internal/domain/user"
)

const (
	roleStudent = "student"
	roleStaff   = "staff"
)

// Directory is the PostgreSQL implementation of user.Directory.
// Students and staff share a single users table, which is what makes the
// username UNIQUE constraint span both roles.
type Directory struct {
	conn *Connection
}

// NewDirectory creates a PostgreSQL-backed directory.
func NewDirectory(conn *Connection) *Directory {
	return &Directory{conn: conn}
}

// Students returns the student side of the directory.
func (d *Directory) Students() user.StudentRepository {
	return &studentRepository{conn: d.conn}
}

// Staff returns the staff side of the directory.
func (d *Directory) Staff() user.StaffRepository {
	return &staffRepository{conn: d.conn}
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

type studentRepository struct {
	conn *Connection
}

const studentColumns = `id, username, display_name, password_hash, total_hours,
	confirmation_requested, created_at, updated_at`

// Create inserts a new student row.
func (r *studentRepository) Create(ctx context.Context, s *user.Student) error {
	query := `
		INSERT INTO users (id, username, display_name, password_hash, role,
			total_hours, confirmation_requested, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Username.String(),
		s.DisplayName,
		s.PasswordHash,
		roleStudent,
		int(s.TotalHours),
		s.ConfirmationRequested,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by internal ID.
func (r *studentRepository) GetByID(ctx context.Context, id string) (*user.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM users WHERE id = $1 AND role = $2`

	row := r.conn.QueryRow(ctx, query, id, roleStudent)
	return scanStudent(row)
}

// GetByUsername returns a student by username. Exact match, case-sensitive.
func (r *studentRepository) GetByUsername(ctx context.Context, username user.Username) (*user.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM users WHERE username = $1 AND role = $2`

	row := r.conn.QueryRow(ctx, query, username.String(), roleStudent)
	return scanStudent(row)
}

// GetAll returns all students in insertion order.
func (r *studentRepository) GetAll(ctx context.Context) ([]*user.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM users WHERE role = $1 ORDER BY seq`

	rows, err := r.conn.Query(ctx, query, roleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// GetPendingConfirmations returns students with an open confirmation
// request, in insertion order.
func (r *studentRepository) GetPendingConfirmations(ctx context.Context) ([]*user.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM users
		WHERE role = $1 AND confirmation_requested = TRUE ORDER BY seq`

	rows, err := r.conn.Query(ctx, query, roleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending confirmations: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// Mutate atomically applies fn to a student. The row lock taken by
// SELECT ... FOR UPDATE serializes concurrent mutations of the same student
// for the duration of the transaction.
func (r *studentRepository) Mutate(ctx context.Context, id string, fn func(*user.Student) error) (*user.Student, error) {
	var mutated *user.Student

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + studentColumns + ` FROM users
			WHERE id = $1 AND role = $2 FOR UPDATE`

		s, err := scanStudent(tx.QueryRow(ctx, query, id, roleStudent))
		if err != nil {
			return err
		}

		if err := fn(s); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE users
			SET total_hours = $1, confirmation_requested = $2, updated_at = $3
			WHERE id = $4
		`, int(s.TotalHours), s.ConfirmationRequested, s.UpdatedAt, s.ID)
		if err != nil {
			return fmt.Errorf("failed to update student: %w", err)
		}

		mutated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mutated, nil
}

func scanStudent(row pgx.Row) (*user.Student, error) {
	var (
		s        user.Student
		username string
		hours    int
	)

	err := row.Scan(
		&s.ID,
		&username,
		&s.DisplayName,
		&s.PasswordHash,
		&hours,
		&s.ConfirmationRequested,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, user.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.Username = user.Username(username)
	s.TotalHours = user.Hours(hours)
	return &s, nil
}

func scanStudents(rows pgx.Rows) ([]*user.Student, error) {
	students := make([]*user.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}
	return students, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STAFF REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

type staffRepository struct {
	conn *Connection
}

const staffColumns = `id, username, display_name, password_hash, created_at`

// Create inserts a new staff row.
func (r *staffRepository) Create(ctx context.Context, s *user.Staff) error {
	query := `
		INSERT INTO users (id, username, display_name, password_hash, role,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Username.String(),
		s.DisplayName,
		s.PasswordHash,
		roleStaff,
		s.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	return nil
}

// GetByID returns a staff member by internal ID.
func (r *staffRepository) GetByID(ctx context.Context, id string) (*user.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM users WHERE id = $1 AND role = $2`

	row := r.conn.QueryRow(ctx, query, id, roleStaff)
	return scanStaff(row)
}

// GetByUsername returns a staff member by username.
func (r *staffRepository) GetByUsername(ctx context.Context, username user.Username) (*user.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM users WHERE username = $1 AND role = $2`

	row := r.conn.QueryRow(ctx, query, username.String(), roleStaff)
	return scanStaff(row)
}

// GetAll returns all staff members in insertion order.
func (r *staffRepository) GetAll(ctx context.Context) ([]*user.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM users WHERE role = $1 ORDER BY seq`

	rows, err := r.conn.Query(ctx, query, roleStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	staff := make([]*user.Staff, 0)
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff: %w", err)
	}
	return staff, nil
}

// Count returns the total number of staff members.
func (r *staffRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`, roleStaff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}

func scanStaff(row pgx.Row) (*user.Staff, error) {
	var (
		s        user.Staff
		username string
	)

	err := row.Scan(
		&s.ID,
		&username,
		&s.DisplayName,
		&s.PasswordHash,
		&s.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, user.ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to scan staff member: %w", err)
	}

	s.Username = user.Username(username)
	return &s, nil
}
