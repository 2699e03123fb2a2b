package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/cohorttools/cohort-tools-api/internal/model"
)

const cohortColumns = `id, cohort_slug, cohort_name, program, format, campus, start_date, end_date,
	in_progress, program_manager, lead_teacher, total_hours`

// CohortRepository handles cohort persistence in MySQL.
type CohortRepository struct {
	db *sql.DB
}

// NewCohortRepository creates a new CohortRepository.
func NewCohortRepository(db *sql.DB) *CohortRepository {
	return &CohortRepository{db: db}
}

// List returns all cohorts ordered by start date.
func (r *CohortRepository) List(ctx context.Context) ([]model.Cohort, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cohortColumns+` FROM cohorts ORDER BY start_date, cohort_slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cohorts := []model.Cohort{}
	for rows.Next() {
		c, err := scanCohort(rows)
		if err != nil {
			return nil, err
		}
		cohorts = append(cohorts, *c)
	}

	return cohorts, rows.Err()
}

// GetByID retrieves a cohort by its ID.
func (r *CohortRepository) GetByID(ctx context.Context, id string) (*model.Cohort, error) {
	c, err := scanCohort(r.db.QueryRowContext(ctx, `SELECT `+cohortColumns+` FROM cohorts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCohortNotFound
		}
		return nil, err
	}
	return c, nil
}

// Create inserts a cohort and sets its generated ID.
func (r *CohortRepository) Create(ctx context.Context, cohort *model.Cohort) error {
	query := `INSERT INTO cohorts (` + cohortColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query,
		id, cohort.CohortSlug, cohort.CohortName, cohort.Program, cohort.Format, cohort.Campus,
		cohort.StartDate, cohort.EndDate, cohort.InProgress, cohort.ProgramManager, cohort.LeadTeacher,
		cohort.TotalHours,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateCohort
		}
		return err
	}

	cohort.ID = id
	return nil
}

// Update replaces every field of the cohort identified by cohort.ID.
func (r *CohortRepository) Update(ctx context.Context, cohort *model.Cohort) error {
	query := `UPDATE cohorts SET cohort_slug = ?, cohort_name = ?, program = ?, format = ?, campus = ?,
		start_date = ?, end_date = ?, in_progress = ?, program_manager = ?, lead_teacher = ?, total_hours = ?
		WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		cohort.CohortSlug, cohort.CohortName, cohort.Program, cohort.Format, cohort.Campus,
		cohort.StartDate, cohort.EndDate, cohort.InProgress, cohort.ProgramManager, cohort.LeadTeacher,
		cohort.TotalHours, cohort.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateCohort
		}
		return err
	}

	// MySQL reports zero affected rows for an unchanged row, so existence
	// is checked separately.
	_, err = r.GetByID(ctx, cohort.ID)
	return err
}

// Delete removes the cohort with the given ID.
func (r *CohortRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cohorts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCohortNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCohort(row rowScanner) (*model.Cohort, error) {
	var (
		c          model.Cohort
		start, end sql.NullTime
	)
	if err := row.Scan(
		&c.ID, &c.CohortSlug, &c.CohortName, &c.Program, &c.Format, &c.Campus, &start, &end,
		&c.InProgress, &c.ProgramManager, &c.LeadTeacher, &c.TotalHours,
	); err != nil {
		return nil, err
	}
	if start.Valid {
		c.StartDate = &start.Time
	}
	if end.Valid {
		c.EndDate = &end.Time
	}
	return &c, nil
}
