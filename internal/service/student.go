package service

import (
	"context"
	"errors"

	"github.com/cohorttools/cohort-tools-api/internal/model"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
)

// StudentService handles student business logic.
type StudentService struct {
	repo repository.StudentStore
}

// NewStudentService creates a new StudentService.
func NewStudentService(repo repository.StudentStore) *StudentService {
	return &StudentService{repo: repo}
}

func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.repo.List(ctx)
}

// ListByCohort returns the students assigned to cohortID. An unknown
// cohort yields an empty list.
func (s *StudentService) ListByCohort(ctx context.Context, cohortID string) ([]model.Student, error) {
	return s.repo.ListByCohort(ctx, cohortID)
}

func (s *StudentService) Get(ctx context.Context, id string) (model.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Student{}, studentError(err)
	}
	return *student, nil
}

func (s *StudentService) Create(ctx context.Context, req model.StudentRequest) (model.Student, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return model.Student{}, asValidationError(err)
	}

	student := req.ToStudent()
	if err := s.repo.Create(ctx, &student); err != nil {
		return model.Student{}, studentError(err)
	}
	return student, nil
}

// Update replaces every field of the student with id.
func (s *StudentService) Update(ctx context.Context, id string, req model.StudentRequest) (model.Student, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return model.Student{}, asValidationError(err)
	}

	student := req.ToStudent()
	student.ID = id
	if err := s.repo.Update(ctx, &student); err != nil {
		return model.Student{}, studentError(err)
	}
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	return studentError(s.repo.Delete(ctx, id))
}

func studentError(err error) error {
	switch {
	case errors.Is(err, repository.ErrStudentNotFound):
		return ErrStudentNotFound
	case errors.Is(err, repository.ErrDuplicateStudent):
		return ErrStudentConflict
	default:
		return err
	}
}
