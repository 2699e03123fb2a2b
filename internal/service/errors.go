package service

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrCohortNotFound     = errors.New("cohort not found")
	ErrCohortConflict     = errors.New("cohort slug already taken")
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentConflict    = errors.New("student email or phone already taken")
)

// ValidationError reports request fields that failed validation, keyed by
// their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// asValidationError converts ozzo-validation field errors into a
// *ValidationError. Other errors are returned unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		if fieldErr != nil {
			fields[name] = fieldErr.Error()
		}
	}
	return &ValidationError{Fields: fields}
}
