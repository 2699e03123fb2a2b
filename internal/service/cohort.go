package service

import (
	"context"
	"errors"

	"github.com/cohorttools/cohort-tools-api/internal/model"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
)

// CohortService handles cohort business logic.
type CohortService struct {
	repo repository.CohortStore
}

// NewCohortService creates a new CohortService.
func NewCohortService(repo repository.CohortStore) *CohortService {
	return &CohortService{repo: repo}
}

func (s *CohortService) List(ctx context.Context) ([]model.Cohort, error) {
	return s.repo.List(ctx)
}

func (s *CohortService) Get(ctx context.Context, id string) (model.Cohort, error) {
	cohort, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Cohort{}, cohortError(err)
	}
	return *cohort, nil
}

func (s *CohortService) Create(ctx context.Context, req model.CohortRequest) (model.Cohort, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return model.Cohort{}, asValidationError(err)
	}

	cohort := req.ToCohort()
	if err := s.repo.Create(ctx, &cohort); err != nil {
		return model.Cohort{}, cohortError(err)
	}
	return cohort, nil
}

// Update replaces every field of the cohort with id.
func (s *CohortService) Update(ctx context.Context, id string, req model.CohortRequest) (model.Cohort, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return model.Cohort{}, asValidationError(err)
	}

	cohort := req.ToCohort()
	cohort.ID = id
	if err := s.repo.Update(ctx, &cohort); err != nil {
		return model.Cohort{}, cohortError(err)
	}
	return cohort, nil
}

func (s *CohortService) Delete(ctx context.Context, id string) error {
	return cohortError(s.repo.Delete(ctx, id))
}

func cohortError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCohortNotFound):
		return ErrCohortNotFound
	case errors.Is(err, repository.ErrDuplicateCohort):
		return ErrCohortConflict
	default:
		return err
	}
}
