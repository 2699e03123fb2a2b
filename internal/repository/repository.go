package repository

import (
	"context"
	"errors"

	"github.com/cohorttools/cohort-tools-api/internal/model"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrCohortNotFound   = errors.New("cohort not found")
	ErrDuplicateCohort  = errors.New("cohort slug already exists")
	ErrStudentNotFound  = errors.New("student not found")
	ErrDuplicateStudent = errors.New("student email or phone already exists")
)

// UserStore persists user identity records. Create enforces email
// uniqueness atomically and reports violations as ErrDuplicateEmail.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// CohortStore persists cohorts.
type CohortStore interface {
	List(ctx context.Context) ([]model.Cohort, error)
	GetByID(ctx context.Context, id string) (*model.Cohort, error)
	Create(ctx context.Context, cohort *model.Cohort) error
	Update(ctx context.Context, cohort *model.Cohort) error
	Delete(ctx context.Context, id string) error
}

// StudentStore persists students.
type StudentStore interface {
	List(ctx context.Context) ([]model.Student, error)
	ListByCohort(ctx context.Context, cohortID string) ([]model.Student, error)
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Create(ctx context.Context, student *model.Student) error
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id string) error
}

// Store groups the stores of one backend.
type Store struct {
	Users    UserStore
	Cohorts  CohortStore
	Students StudentStore

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
