package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// DefaultStudentImage is used when a student is created without an image.
const DefaultStudentImage = "https://i.imgur.com/r8bo8u7.png"

// Student is a bootcamp student.
type Student struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	LinkedinURL string   `json:"linkedinUrl"`
	Languages   []string `json:"languages"`
	Program     string   `json:"program"`
	Background  string   `json:"background"`
	Image       string   `json:"image"`
	Cohort      string   `json:"cohort"`
	Projects    []string `json:"projects"`
}

// StudentRequest is the create/replace payload for a student.
type StudentRequest struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	LinkedinURL string   `json:"linkedinUrl"`
	Languages   []string `json:"languages"`
	Program     string   `json:"program"`
	Background  string   `json:"background"`
	Image       string   `json:"image"`
	Cohort      string   `json:"cohort"`
	Projects    []string `json:"projects"`
}

// Normalize trims the free-text fields and normalizes the email in place.
func (r *StudentRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.LinkedinURL = strings.TrimSpace(r.LinkedinURL)
	r.Image = strings.TrimSpace(r.Image)
	r.Cohort = strings.TrimSpace(r.Cohort)
}

// Validate checks required fields, formats, enums and the column widths of
// the SQL schema.
func (r StudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Phone, validation.Required, validation.Length(6, 20)),
		validation.Field(&r.LinkedinURL, validation.Length(0, 500), is.URL),
		validation.Field(&r.Languages, validation.By(eachIn(Languages...))),
		validation.Field(&r.Program, validation.In(Programs...)),
		validation.Field(&r.Image, validation.Length(0, 500), is.URL),
		validation.Field(&r.Cohort, validation.Length(0, 36)),
	)
}

// ToStudent builds a Student from the request. Email is normalized, the
// image defaults to DefaultStudentImage and nil lists become empty.
func (r StudentRequest) ToStudent() Student {
	s := Student{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       NormalizeEmail(r.Email),
		Phone:       strings.TrimSpace(r.Phone),
		LinkedinURL: strings.TrimSpace(r.LinkedinURL),
		Languages:   r.Languages,
		Program:     r.Program,
		Background:  r.Background,
		Image:       strings.TrimSpace(r.Image),
		Cohort:      strings.TrimSpace(r.Cohort),
		Projects:    r.Projects,
	}
	if s.Image == "" {
		s.Image = DefaultStudentImage
	}
	if s.Languages == nil {
		s.Languages = []string{}
	}
	if s.Projects == nil {
		s.Projects = []string{}
	}
	return s
}
