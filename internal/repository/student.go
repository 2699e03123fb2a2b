package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cohorttools/cohort-tools-api/internal/model"
)

const studentColumns = `id, first_name, last_name, email, phone, linkedin_url, languages, program,
	background, image, cohort_id, projects`

// StudentRepository handles student persistence in MySQL. List fields are
// stored as JSON columns.
type StudentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns all students ordered by last name.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY last_name, first_name`)
}

// ListByCohort returns the students assigned to cohortID.
func (r *StudentRepository) ListByCohort(ctx context.Context, cohortID string) ([]model.Student, error) {
	return r.query(ctx, `SELECT `+studentColumns+` FROM students WHERE cohort_id = ? ORDER BY last_name, first_name`, cohortID)
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

// Create inserts a student and sets its generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	languages, projects, err := encodeStudentLists(student)
	if err != nil {
		return err
	}

	query := `INSERT INTO students (` + studentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, query,
		id, student.FirstName, student.LastName, student.Email, student.Phone, student.LinkedinURL,
		languages, student.Program, student.Background, student.Image, student.Cohort, projects,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateStudent
		}
		return err
	}

	student.ID = id
	return nil
}

// Update replaces every field of the student identified by student.ID.
func (r *StudentRepository) Update(ctx context.Context, student *model.Student) error {
	languages, projects, err := encodeStudentLists(student)
	if err != nil {
		return err
	}

	query := `UPDATE students SET first_name = ?, last_name = ?, email = ?, phone = ?, linkedin_url = ?,
		languages = ?, program = ?, background = ?, image = ?, cohort_id = ?, projects = ?
		WHERE id = ?`

	_, err = r.db.ExecContext(ctx, query,
		student.FirstName, student.LastName, student.Email, student.Phone, student.LinkedinURL,
		languages, student.Program, student.Background, student.Image, student.Cohort, projects,
		student.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateStudent
		}
		return err
	}

	_, err = r.GetByID(ctx, student.ID)
	return err
}

// Delete removes the student with the given ID.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) query(ctx context.Context, query string, args ...any) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}

	return students, rows.Err()
}

func scanStudent(row rowScanner) (*model.Student, error) {
	var (
		s                   model.Student
		languages, projects []byte
	)
	if err := row.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.LinkedinURL, &languages, &s.Program,
		&s.Background, &s.Image, &s.Cohort, &projects,
	); err != nil {
		return nil, err
	}
	if err := decodeStringList(languages, &s.Languages); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}
	if err := decodeStringList(projects, &s.Projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return &s, nil
}

func encodeStudentLists(s *model.Student) (languages, projects []byte, err error) {
	if languages, err = encodeStringList(s.Languages); err != nil {
		return nil, nil, fmt.Errorf("encode languages: %w", err)
	}
	if projects, err = encodeStringList(s.Projects); err != nil {
		return nil, nil, fmt.Errorf("encode projects: %w", err)
	}
	return languages, projects, nil
}

func encodeStringList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	return json.Marshal(items)
}

func decodeStringList(data []byte, dst *[]string) error {
	*dst = []string{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []string{}
	}
	return nil
}
