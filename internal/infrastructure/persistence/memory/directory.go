// Package memory implements an in-memory Directory. It backs tests and the
// single-node mode where no database is configured; semantics match the
// PostgreSQL implementation, including per-student serialization of
// read-modify-write cycles.
package memory

import (
	"context"
	"sync"

	"github.com/cshours/community-service-hub/internal/domain/user"
)

// Directory is an in-memory implementation of user.Directory.
// The outer mutex guards the maps and insertion order; each student record
// carries its own lock so mutations of different students do not contend.
type Directory struct {
	mu sync.RWMutex

	students       map[string]*studentRecord
	studentsByName map[string]*studentRecord
	studentOrder   []string

	staff       map[string]*user.Staff
	staffByName map[string]*user.Staff
	staffOrder  []string

	// usernames spans both roles: a username can never be reused between
	// a student and a staff record.
	usernames map[string]struct{}
}

type studentRecord struct {
	mu      sync.Mutex
	student *user.Student
}

// NewDirectory creates an empty in-memory directory.
func NewDirectory() *Directory {
	return &Directory{
		students:       make(map[string]*studentRecord),
		studentsByName: make(map[string]*studentRecord),
		staff:          make(map[string]*user.Staff),
		staffByName:    make(map[string]*user.Staff),
		usernames:      make(map[string]struct{}),
	}
}

// Students returns the student side of the directory.
func (d *Directory) Students() user.StudentRepository {
	return (*studentRepository)(d)
}

// Staff returns the staff side of the directory.
func (d *Directory) Staff() user.StaffRepository {
	return (*staffRepository)(d)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

type studentRepository Directory

// Create creates a new student.
func (r *studentRepository) Create(_ context.Context, s *user.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Username.String()
	if _, taken := r.usernames[name]; taken {
		return user.ErrDuplicateUsername
	}

	rec := &studentRecord{student: s.Clone()}
	r.students[s.ID] = rec
	r.studentsByName[name] = rec
	r.studentOrder = append(r.studentOrder, s.ID)
	r.usernames[name] = struct{}{}
	return nil
}

// GetByID returns a student by internal ID.
func (r *studentRepository) GetByID(_ context.Context, id string) (*user.Student, error) {
	r.mu.RLock()
	rec, ok := r.students[id]
	r.mu.RUnlock()

	if !ok {
		return nil, user.ErrStudentNotFound
	}
	return rec.get(), nil
}

// GetByUsername returns a student by username. Exact match, case-sensitive.
func (r *studentRepository) GetByUsername(_ context.Context, username user.Username) (*user.Student, error) {
	r.mu.RLock()
	rec, ok := r.studentsByName[username.String()]
	r.mu.RUnlock()

	if !ok {
		return nil, user.ErrStudentNotFound
	}
	return rec.get(), nil
}

// GetAll returns all students in insertion order.
func (r *studentRepository) GetAll(_ context.Context) ([]*user.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*user.Student, 0, len(r.studentOrder))
	for _, id := range r.studentOrder {
		all = append(all, r.students[id].get())
	}
	return all, nil
}

// GetPendingConfirmations returns students with an open confirmation
// request, in insertion order.
func (r *studentRepository) GetPendingConfirmations(_ context.Context) ([]*user.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pending := make([]*user.Student, 0)
	for _, id := range r.studentOrder {
		if s := r.students[id].get(); s.ConfirmationRequested {
			pending = append(pending, s)
		}
	}
	return pending, nil
}

// Mutate atomically applies fn to a student. The record lock serializes
// concurrent mutations of the same student; mutations of different students
// proceed concurrently.
func (r *studentRepository) Mutate(_ context.Context, id string, fn func(*user.Student) error) (*user.Student, error) {
	r.mu.RLock()
	rec, ok := r.students[id]
	r.mu.RUnlock()

	if !ok {
		return nil, user.ErrStudentNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	// fn works on a clone; the stored record only changes when fn succeeds.
	working := rec.student.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	rec.student = working
	return working.Clone(), nil
}

// get returns a snapshot of the record under its lock.
func (rec *studentRecord) get() *user.Student {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.student.Clone()
}

// ══════════════════════════════════════════════════════════════════════════════
// STAFF REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

type staffRepository Directory

// Create creates a new staff member.
func (r *staffRepository) Create(_ context.Context, s *user.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Username.String()
	if _, taken := r.usernames[name]; taken {
		return user.ErrDuplicateUsername
	}

	r.staff[s.ID] = s.Clone()
	r.staffByName[name] = r.staff[s.ID]
	r.staffOrder = append(r.staffOrder, s.ID)
	r.usernames[name] = struct{}{}
	return nil
}

// GetByID returns a staff member by internal ID.
func (r *staffRepository) GetByID(_ context.Context, id string) (*user.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[id]
	if !ok {
		return nil, user.ErrStaffNotFound
	}
	return s.Clone(), nil
}

// GetByUsername returns a staff member by username.
func (r *staffRepository) GetByUsername(_ context.Context, username user.Username) (*user.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staffByName[username.String()]
	if !ok {
		return nil, user.ErrStaffNotFound
	}
	return s.Clone(), nil
}

// GetAll returns all staff members in insertion order.
func (r *staffRepository) GetAll(_ context.Context) ([]*user.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*user.Staff, 0, len(r.staffOrder))
	for _, id := range r.staffOrder {
		all = append(all, r.staff[id].Clone())
	}
	return all, nil
}

// Count returns the total number of staff members.
func (r *staffRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.staffOrder), nil
}
