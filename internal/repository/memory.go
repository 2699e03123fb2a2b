package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cohorttools/cohort-tools-api/internal/model"
)

// NewMemoryStore builds a Store held in process memory. It enforces the
// same uniqueness rules as the database backends and is used by tests and
// local runs without a database.
func NewMemoryStore() *Store {
	return &Store{
		Users:    NewMemoryUserRepository(),
		Cohorts:  NewMemoryCohortRepository(),
		Students: NewMemoryStudentRepository(),
	}
}

// MemoryUserRepository is an in-memory UserStore.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
	now     func() time.Time
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

// Create stores a new user and sets its generated ID and creation time.
func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.now().UTC().Truncate(time.Second)
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

// GetByID retrieves a user by their ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// MemoryCohortRepository is an in-memory CohortStore.
type MemoryCohortRepository struct {
	mu      sync.RWMutex
	cohorts map[string]model.Cohort
}

// NewMemoryCohortRepository creates an empty MemoryCohortRepository.
func NewMemoryCohortRepository() *MemoryCohortRepository {
	return &MemoryCohortRepository{cohorts: make(map[string]model.Cohort)}
}

// List returns all cohorts ordered by start date.
func (r *MemoryCohortRepository) List(_ context.Context) ([]model.Cohort, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cohorts := make([]model.Cohort, 0, len(r.cohorts))
	for _, c := range r.cohorts {
		cohorts = append(cohorts, cloneCohort(c))
	}
	sort.Slice(cohorts, func(i, j int) bool {
		a, b := cohorts[i], cohorts[j]
		if !sameTime(a.StartDate, b.StartDate) {
			return timeBefore(a.StartDate, b.StartDate)
		}
		return a.CohortSlug < b.CohortSlug
	})
	return cohorts, nil
}

// GetByID retrieves a cohort by ID.
func (r *MemoryCohortRepository) GetByID(_ context.Context, id string) (*model.Cohort, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cohorts[id]
	if !ok {
		return nil, ErrCohortNotFound
	}
	c = cloneCohort(c)
	return &c, nil
}

// Create stores a cohort and sets its generated ID.
func (r *MemoryCohortRepository) Create(_ context.Context, cohort *model.Cohort) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(cohort.CohortSlug, "") {
		return ErrDuplicateCohort
	}

	cohort.ID = uuid.NewString()
	r.cohorts[cohort.ID] = cloneCohort(*cohort)
	return nil
}

// Update replaces every field of the cohort identified by cohort.ID.
func (r *MemoryCohortRepository) Update(_ context.Context, cohort *model.Cohort) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cohorts[cohort.ID]; !ok {
		return ErrCohortNotFound
	}
	if r.slugTaken(cohort.CohortSlug, cohort.ID) {
		return ErrDuplicateCohort
	}

	r.cohorts[cohort.ID] = cloneCohort(*cohort)
	return nil
}

// Delete removes the cohort with the given ID.
func (r *MemoryCohortRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cohorts[id]; !ok {
		return ErrCohortNotFound
	}
	delete(r.cohorts, id)
	return nil
}

func (r *MemoryCohortRepository) slugTaken(slug, exceptID string) bool {
	for id, c := range r.cohorts {
		if id != exceptID && c.CohortSlug == slug {
			return true
		}
	}
	return false
}

// MemoryStudentRepository is an in-memory StudentStore.
type MemoryStudentRepository struct {
	mu       sync.RWMutex
	students map[string]model.Student
}

// NewMemoryStudentRepository creates an empty MemoryStudentRepository.
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{students: make(map[string]model.Student)}
}

// List returns all students ordered by last name.
func (r *MemoryStudentRepository) List(_ context.Context) ([]model.Student, error) {
	return r.filter(func(model.Student) bool { return true }), nil
}

// ListByCohort returns the students assigned to cohortID.
func (r *MemoryStudentRepository) ListByCohort(_ context.Context, cohortID string) ([]model.Student, error) {
	return r.filter(func(s model.Student) bool { return s.Cohort == cohortID }), nil
}

// GetByID retrieves a student by ID.
func (r *MemoryStudentRepository) GetByID(_ context.Context, id string) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	s = cloneStudent(s)
	return &s, nil
}

// Create stores a student and sets its generated ID.
func (r *MemoryStudentRepository) Create(_ context.Context, student *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflicts(student, "") {
		return ErrDuplicateStudent
	}

	student.ID = uuid.NewString()
	r.students[student.ID] = cloneStudent(*student)
	return nil
}

// Update replaces every field of the student identified by student.ID.
func (r *MemoryStudentRepository) Update(_ context.Context, student *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[student.ID]; !ok {
		return ErrStudentNotFound
	}
	if r.conflicts(student, student.ID) {
		return ErrDuplicateStudent
	}

	r.students[student.ID] = cloneStudent(*student)
	return nil
}

// Delete removes the student with the given ID.
func (r *MemoryStudentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *MemoryStudentRepository) conflicts(student *model.Student, exceptID string) bool {
	for id, s := range r.students {
		if id == exceptID {
			continue
		}
		if s.Email == student.Email || s.Phone == student.Phone {
			return true
		}
	}
	return false
}

func (r *MemoryStudentRepository) filter(keep func(model.Student) bool) []model.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()

	students := make([]model.Student, 0, len(r.students))
	for _, s := range r.students {
		if keep(s) {
			students = append(students, cloneStudent(s))
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students
}

// cloneCohort copies the date fields so the stored record shares no
// pointers with callers.
func cloneCohort(c model.Cohort) model.Cohort {
	c.StartDate = cloneTime(c.StartDate)
	c.EndDate = cloneTime(c.EndDate)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// cloneStudent copies the list fields so the stored record shares no
// backing arrays with callers.
func cloneStudent(s model.Student) model.Student {
	s.Languages = slices.Clone(s.Languages)
	s.Projects = slices.Clone(s.Projects)
	return s
}

// timeBefore orders nil first, matching MySQL's NULL ordering.
func timeBefore(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
