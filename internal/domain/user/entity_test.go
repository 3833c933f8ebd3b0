package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validStudentParams() NewStudentParams {
	return NewStudentParams{
		ID:           "student-1",
		Username:     "aruzhan",
		DisplayName:  "Aruzhan S.",
		PasswordHash: "$2a$10$hash",
	}
}

func TestNewStudent(t *testing.T) {
	s, err := NewStudent(validStudentParams())
	assert.NoError(t, err)
	assert.Equal(t, "student-1", s.ID)
	assert.Equal(t, Username("aruzhan"), s.Username)
	assert.Equal(t, Hours(0), s.TotalHours)
	assert.False(t, s.ConfirmationRequested)
	assert.Equal(t, ConfirmationNone, s.ConfirmationState())
}

func TestNewStudent_Validation(t *testing.T) {
	p := validStudentParams()
	p.Username = "a"
	_, err := NewStudent(p)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	p = validStudentParams()
	p.Username = "has space"
	_, err = NewStudent(p)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	p = validStudentParams()
	p.DisplayName = "   "
	_, err = NewStudent(p)
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	p = validStudentParams()
	p.PasswordHash = ""
	_, err = NewStudent(p)
	assert.ErrorIs(t, err, ErrEmptyPasswordHash)

	p = validStudentParams()
	p.ID = ""
	_, err = NewStudent(p)
	assert.Error(t, err)
}

func TestUsername_IsValid(t *testing.T) {
	assert.True(t, Username("ab").IsValid())
	assert.True(t, Username("Aruzhan_2024").IsValid())
	assert.False(t, Username("a").IsValid())
	assert.False(t, Username("").IsValid())
	assert.False(t, Username("with space").IsValid())
	assert.False(t, Username("tab\there").IsValid())
}

func TestStudent_AddHours(t *testing.T) {
	s, _ := NewStudent(validStudentParams())

	assert.NoError(t, s.AddHours(5))
	assert.Equal(t, Hours(5), s.TotalHours)

	assert.NoError(t, s.AddHours(7))
	assert.Equal(t, Hours(12), s.TotalHours)
}

func TestStudent_AddHours_RejectsNonPositive(t *testing.T) {
	s, _ := NewStudent(validStudentParams())
	_ = s.AddHours(3)

	assert.ErrorIs(t, s.AddHours(0), ErrInvalidHours)
	assert.ErrorIs(t, s.AddHours(-4), ErrInvalidHours)
	// Total unchanged after rejected amounts
	assert.Equal(t, Hours(3), s.TotalHours)
}

func TestStudent_AddHours_KeepsConfirmationState(t *testing.T) {
	s, _ := NewStudent(validStudentParams())
	s.RequestConfirmation()

	assert.NoError(t, s.AddHours(10))
	assert.True(t, s.ConfirmationRequested)
	assert.Equal(t, ConfirmationPending, s.ConfirmationState())
}

func TestStudent_RequestConfirmation_Idempotent(t *testing.T) {
	s, _ := NewStudent(validStudentParams())

	s.RequestConfirmation()
	assert.True(t, s.ConfirmationRequested)

	// A second request while pending changes nothing
	s.RequestConfirmation()
	assert.True(t, s.ConfirmationRequested)
	assert.Equal(t, ConfirmationPending, s.ConfirmationState())
}

func TestStudent_ConfirmHours(t *testing.T) {
	s, _ := NewStudent(validStudentParams())
	_ = s.AddHours(25)
	s.RequestConfirmation()

	assert.NoError(t, s.ConfirmHours())
	assert.False(t, s.ConfirmationRequested)
	// Confirmation only clears the flag, hours stay
	assert.Equal(t, Hours(25), s.TotalHours)
}

func TestStudent_ConfirmHours_NoPendingRequest(t *testing.T) {
	s, _ := NewStudent(validStudentParams())

	assert.ErrorIs(t, s.ConfirmHours(), ErrNoPendingRequest)

	s.RequestConfirmation()
	assert.NoError(t, s.ConfirmHours())
	// The request is consumed, confirming again fails
	assert.ErrorIs(t, s.ConfirmHours(), ErrNoPendingRequest)
}

func TestStudent_Clone(t *testing.T) {
	s, _ := NewStudent(validStudentParams())
	_ = s.AddHours(10)

	clone := s.Clone()
	_ = clone.AddHours(5)

	assert.Equal(t, Hours(10), s.TotalHours)
	assert.Equal(t, Hours(15), clone.TotalHours)
}

func TestNewStaff(t *testing.T) {
	m, err := NewStaff(NewStaffParams{
		ID:           "staff-1",
		Username:     "bob",
		DisplayName:  "Bob",
		PasswordHash: "$2a$10$hash",
	})
	assert.NoError(t, err)
	assert.Equal(t, Username("bob"), m.Username)

	_, err = NewStaff(NewStaffParams{ID: "staff-2", Username: "x", DisplayName: "X", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrInvalidUsername)
}
