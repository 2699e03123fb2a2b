package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Cohort is a bootcamp cohort.
type Cohort struct {
	ID             string     `json:"id"`
	CohortSlug     string     `json:"cohortSlug"`
	CohortName     string     `json:"cohortName"`
	Program        string     `json:"program"`
	Format         string     `json:"format"`
	Campus         string     `json:"campus"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	InProgress     bool       `json:"inProgress"`
	ProgramManager string     `json:"programManager"`
	LeadTeacher    string     `json:"leadTeacher"`
	TotalHours     int        `json:"totalHours"`
}

// CohortRequest is the create/replace payload for a cohort.
type CohortRequest struct {
	CohortSlug     string     `json:"cohortSlug"`
	CohortName     string     `json:"cohortName"`
	Program        string     `json:"program"`
	Format         string     `json:"format"`
	Campus         string     `json:"campus"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	InProgress     bool       `json:"inProgress"`
	ProgramManager string     `json:"programManager"`
	LeadTeacher    string     `json:"leadTeacher"`
	TotalHours     int        `json:"totalHours"`
}

// Normalize trims the free-text fields in place.
func (r *CohortRequest) Normalize() {
	r.CohortSlug = strings.TrimSpace(r.CohortSlug)
	r.CohortName = strings.TrimSpace(r.CohortName)
	r.Campus = strings.TrimSpace(r.Campus)
	r.ProgramManager = strings.TrimSpace(r.ProgramManager)
	r.LeadTeacher = strings.TrimSpace(r.LeadTeacher)
}

// Validate checks required fields, enums and the column widths of the SQL
// schema.
func (r CohortRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CohortSlug, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.CohortName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Program, validation.In(Programs...)),
		validation.Field(&r.Format, validation.In(CohortFormats...)),
		validation.Field(&r.Campus, validation.Length(0, 100)),
		validation.Field(&r.ProgramManager, validation.Length(0, 200)),
		validation.Field(&r.LeadTeacher, validation.Length(0, 200)),
		validation.Field(&r.TotalHours, validation.Min(0)),
		validation.Field(&r.EndDate, validation.By(notBefore(r.StartDate))),
	)
}

// ToCohort builds a Cohort from the request, trimming free-text fields.
func (r CohortRequest) ToCohort() Cohort {
	return Cohort{
		CohortSlug:     strings.TrimSpace(r.CohortSlug),
		CohortName:     strings.TrimSpace(r.CohortName),
		Program:        r.Program,
		Format:         r.Format,
		Campus:         strings.TrimSpace(r.Campus),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		InProgress:     r.InProgress,
		ProgramManager: strings.TrimSpace(r.ProgramManager),
		LeadTeacher:    strings.TrimSpace(r.LeadTeacher),
		TotalHours:     r.TotalHours,
	}
}
