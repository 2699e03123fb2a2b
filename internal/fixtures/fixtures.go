// Package fixtures loads cohort and student fixture files into a store.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cohorttools/cohort-tools-api/internal/model"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
	"github.com/cohorttools/cohort-tools-api/internal/service"
)

// Cohort is a cohort fixture entry. ID is the fixture's own identifier,
// which students reference in their cohort field.
type Cohort struct {
	ID string `json:"_id"`
	model.CohortRequest
}

// Student is a student fixture entry.
type Student struct {
	ID string `json:"_id"`
	model.StudentRequest
}

// Report counts the outcome of a seed run.
type Report struct {
	CohortsCreated  int
	CohortsSkipped  int
	StudentsCreated int
	StudentsSkipped int
	Invalid         int
}

// DecodeCohorts reads a JSON array of cohorts.
func DecodeCohorts(r io.Reader) ([]Cohort, error) {
	var cohorts []Cohort
	if err := json.NewDecoder(r).Decode(&cohorts); err != nil {
		return nil, fmt.Errorf("decode cohorts: %w", err)
	}
	return cohorts, nil
}

// DecodeStudents reads a JSON array of students.
func DecodeStudents(r io.Reader) ([]Student, error) {
	var students []Student
	if err := json.NewDecoder(r).Decode(&students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	return students, nil
}

// Seed inserts cohorts then students through the service layer. Entries
// that already exist are skipped, invalid entries are logged and counted.
// Student cohort references to fixture ids are rewritten to the stored ids.
func Seed(ctx context.Context, store *repository.Store, cohorts []Cohort, students []Student) (Report, error) {
	var report Report

	cohortSvc := service.NewCohortService(store.Cohorts)
	studentSvc := service.NewStudentService(store.Students)

	existing, err := cohortSvc.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list cohorts: %w", err)
	}
	bySlug := make(map[string]string, len(existing))
	for _, c := range existing {
		bySlug[c.CohortSlug] = c.ID
	}

	ids := make(map[string]string, len(cohorts))
	for _, fc := range cohorts {
		created, err := cohortSvc.Create(ctx, fc.CohortRequest)
		switch {
		case err == nil:
			report.CohortsCreated++
			ids[fc.ID] = created.ID
		case errors.Is(err, service.ErrCohortConflict):
			report.CohortsSkipped++
			if id, ok := bySlug[fc.CohortRequest.ToCohort().CohortSlug]; ok {
				ids[fc.ID] = id
			}
		case isInvalid(err):
			report.Invalid++
			slog.Warn("skipping invalid cohort", "fixture_id", fc.ID, "error", err)
		default:
			return report, fmt.Errorf("create cohort %s: %w", fc.ID, err)
		}
	}

	for _, fs := range students {
		req := fs.StudentRequest
		if id, ok := ids[req.Cohort]; ok {
			req.Cohort = id
		}

		_, err := studentSvc.Create(ctx, req)
		switch {
		case err == nil:
			report.StudentsCreated++
		case errors.Is(err, service.ErrStudentConflict):
			report.StudentsSkipped++
		case isInvalid(err):
			report.Invalid++
			slog.Warn("skipping invalid student", "fixture_id", fs.ID, "error", err)
		default:
			return report, fmt.Errorf("create student %s: %w", fs.ID, err)
		}
	}

	return report, nil
}

func isInvalid(err error) bool {
	var verr *service.ValidationError
	return errors.As(err, &verr)
}
