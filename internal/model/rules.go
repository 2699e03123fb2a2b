package model

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Programs offered by the bootcamp.
var Programs = []interface{}{"Web Dev", "UX/UI", "Data Analytics", "Cybersecurity"}

// Languages a student may declare.
var Languages = []interface{}{"English", "Spanish", "French", "German", "Portuguese", "Dutch", "Other"}

// CohortFormats are the delivery formats of a cohort.
var CohortFormats = []interface{}{"Full Time", "Part Time"}

// maxBytes limits the byte length of a string value.
func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes", n)
		}
		return nil
	}
}

// eachIn checks that every element of a []string is one of allowed.
func eachIn(allowed ...interface{}) validation.RuleFunc {
	return func(value interface{}) error {
		items, _ := value.([]string)
		for _, item := range items {
			if err := validation.In(allowed...).Validate(item); err != nil {
				return errors.New("must contain only valid values")
			}
		}
		return nil
	}
}

// notBefore checks that a *time.Time value is not earlier than start.
func notBefore(start *time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		end, _ := value.(*time.Time)
		if start == nil || end == nil {
			return nil
		}
		if end.Before(*start) {
			return errors.New("must not be before startDate")
		}
		return nil
	}
}
