package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cshours/community-service-hub/internal/domain/user"
)

func newStudent(t *testing.T, id, username string) *user.Student {
	t.Helper()
	s, err := user.NewStudent(user.NewStudentParams{
		ID:           id,
		Username:     user.Username(username),
		DisplayName:  username,
		PasswordHash: "$2a$10$hash",
	})
	assert.NoError(t, err)
	return s
}

func newStaff(t *testing.T, id, username string) *user.Staff {
	t.Helper()
	m, err := user.NewStaff(user.NewStaffParams{
		ID:           id,
		Username:     user.Username(username),
		DisplayName:  username,
		PasswordHash: "$2a$10$hash",
	})
	assert.NoError(t, err)
	return m
}

func TestDirectory_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()

	s := newStudent(t, "s1", "aruzhan")
	assert.NoError(t, d.Students().Create(ctx, s))

	byID, err := d.Students().GetByID(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, user.Username("aruzhan"), byID.Username)

	byName, err := d.Students().GetByUsername(ctx, "aruzhan")
	assert.NoError(t, err)
	assert.Equal(t, "s1", byName.ID)

	_, err = d.Students().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrStudentNotFound)

	// Case-sensitive lookup
	_, err = d.Students().GetByUsername(ctx, "Aruzhan")
	assert.ErrorIs(t, err, user.ErrStudentNotFound)
}

func TestDirectory_DuplicateUsernameAcrossRoles(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()

	assert.NoError(t, d.Students().Create(ctx, newStudent(t, "s1", "alex")))

	// Same username in the same role
	err := d.Students().Create(ctx, newStudent(t, "s2", "alex"))
	assert.ErrorIs(t, err, user.ErrDuplicateUsername)

	// Same username in the other role
	err = d.Staff().Create(ctx, newStaff(t, "m1", "alex"))
	assert.ErrorIs(t, err, user.ErrDuplicateUsername)

	assert.NoError(t, d.Staff().Create(ctx, newStaff(t, "m2", "bob")))
	err = d.Students().Create(ctx, newStudent(t, "s3", "bob"))
	assert.ErrorIs(t, err, user.ErrDuplicateUsername)
}

func TestDirectory_GetAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s%d", i)
		assert.NoError(t, d.Students().Create(ctx, newStudent(t, id, "user"+id)))
	}

	all, err := d.Students().GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 5)
	for i, s := range all {
		assert.Equal(t, fmt.Sprintf("s%d", i), s.ID)
	}
}

func TestDirectory_GetPendingConfirmations(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()

	for _, id := range []string{"s1", "s2", "s3"} {
		assert.NoError(t, d.Students().Create(ctx, newStudent(t, id, "u"+id)))
	}

	_, err := d.Students().Mutate(ctx, "s3", func(s *user.Student) error {
		s.RequestConfirmation()
		return nil
	})
	assert.NoError(t, err)
	_, err = d.Students().Mutate(ctx, "s1", func(s *user.Student) error {
		s.RequestConfirmation()
		return nil
	})
	assert.NoError(t, err)

	pending, err := d.Students().GetPendingConfirmations(ctx)
	assert.NoError(t, err)
	assert.Len(t, pending, 2)
	// Insertion order, not request order
	assert.Equal(t, "s1", pending[0].ID)
	assert.Equal(t, "s3", pending[1].ID)
}

func TestDirectory_MutateNotFound(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()

	_, err := d.Students().Mutate(ctx, "missing", func(s *user.Student) error {
		t.Fatal("fn must not run for a missing student")
		return nil
	})
	assert.ErrorIs(t, err, user.ErrStudentNotFound)
}

func TestDirectory_MutateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()
	assert.NoError(t, d.Students().Create(ctx, newStudent(t, "s1", "aruzhan")))

	_, err := d.Students().Mutate(ctx, "s1", func(s *user.Student) error {
		return s.AddHours(-5)
	})
	assert.ErrorIs(t, err, user.ErrInvalidHours)

	// The stored record is untouched after a failed mutation
	s, err := d.Students().GetByID(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, user.Hours(0), s.TotalHours)
}

func TestDirectory_MutateConcurrentNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()
	assert.NoError(t, d.Students().Create(ctx, newStudent(t, "s1", "aruzhan")))

	const workers = 20
	const perWorker = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := d.Students().Mutate(ctx, "s1", func(s *user.Student) error {
					return s.AddHours(1)
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	s, err := d.Students().GetByID(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, user.Hours(workers*perWorker), s.TotalHours)
}

func TestDirectory_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()
	assert.NoError(t, d.Students().Create(ctx, newStudent(t, "s1", "aruzhan")))

	s, _ := d.Students().GetByID(ctx, "s1")
	_ = s.AddHours(100)

	fresh, _ := d.Students().GetByID(ctx, "s1")
	assert.Equal(t, user.Hours(0), fresh.TotalHours)
}

func TestDirectory_StaffCount(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()

	count, err := d.Staff().Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.NoError(t, d.Staff().Create(ctx, newStaff(t, "m1", "bob")))
	assert.NoError(t, d.Staff().Create(ctx, newStaff(t, "m2", "eve")))

	count, err = d.Staff().Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
