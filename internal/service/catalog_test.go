package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohorttools/cohort-tools-api/internal/model"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
)

func TestCohortService(t *testing.T) {
	svc := NewCohortService(repository.NewMemoryCohortRepository())
	ctx := context.Background()

	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	req := model.CohortRequest{
		CohortSlug: " wd-jan-2024 ",
		CohortName: "Web Dev January",
		Program:    "Web Dev",
		Format:     "Full Time",
		StartDate:  &start,
		EndDate:    &end,
		TotalHours: 360,
	}

	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "wd-jan-2024", created.CohortSlug)

	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, ErrCohortConflict)

	req.CohortName = "Web Dev Winter"
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Web Dev Winter", updated.CohortName)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Web Dev Winter", got.CohortName)

	_, err = svc.Update(ctx, "missing", req)
	require.ErrorIs(t, err, ErrCohortNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrCohortNotFound)
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrCohortNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCohortServiceValidation(t *testing.T) {
	svc := NewCohortService(repository.NewMemoryCohortRepository())

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), model.CohortRequest{
		Program:    "Basket Weaving",
		Format:     "Weekends",
		StartDate:  &start,
		EndDate:    &end,
		TotalHours: -1,
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"cohortSlug", "cohortName", "program", "format", "endDate", "totalHours"} {
		assert.Contains(t, verr.Fields, f)
	}
}

func TestStudentService(t *testing.T) {
	svc := NewStudentService(repository.NewMemoryStudentRepository())
	ctx := context.Background()

	req := model.StudentRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ADA@example.com",
		Phone:     "555-0100",
		Languages: []string{"English"},
		Program:   "Data Analytics",
		Cohort:    "c1",
	}

	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, model.DefaultStudentImage, created.Image)
	assert.NotNil(t, created.Projects)

	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, ErrStudentConflict)

	inCohort, err := svc.ListByCohort(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, inCohort, 1)
	assert.Equal(t, created.ID, inCohort[0].ID)

	req.Projects = []string{"Analytics dashboard"}
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Analytics dashboard"}, updated.Projects)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentServiceValidation(t *testing.T) {
	svc := NewStudentService(repository.NewMemoryStudentRepository())

	_, err := svc.Create(context.Background(), model.StudentRequest{
		Email:     "nope",
		Languages: []string{"English", "Klingon"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"firstName", "lastName", "email", "phone", "languages"} {
		assert.Contains(t, verr.Fields, f)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "cannot be blank", "email": "must be a valid email address"}}
	assert.Equal(t, "validation failed: email, name", err.Error())
	assert.Nil(t, asValidationError(nil))
}

func validCohortRequest() model.CohortRequest {
	return model.CohortRequest{CohortSlug: "wd-jan-2024", CohortName: "Web Dev January"}
}

func validStudentRequest() model.StudentRequest {
	return model.StudentRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555-0100"}
}

func TestCohortServiceRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CohortRequest)
		field  string
	}{
		{name: "blank slug", mutate: func(r *model.CohortRequest) { r.CohortSlug = "   " }, field: "cohortSlug"},
		{name: "blank name", mutate: func(r *model.CohortRequest) { r.CohortName = " \t " }, field: "cohortName"},
		{name: "slug too long", mutate: func(r *model.CohortRequest) { r.CohortSlug = strings.Repeat("s", 101) }, field: "cohortSlug"},
		{name: "name too long", mutate: func(r *model.CohortRequest) { r.CohortName = strings.Repeat("n", 201) }, field: "cohortName"},
		{name: "campus too long", mutate: func(r *model.CohortRequest) { r.Campus = strings.Repeat("c", 101) }, field: "campus"},
		{name: "program manager too long", mutate: func(r *model.CohortRequest) { r.ProgramManager = strings.Repeat("p", 201) }, field: "programManager"},
		{name: "lead teacher too long", mutate: func(r *model.CohortRequest) { r.LeadTeacher = strings.Repeat("l", 201) }, field: "leadTeacher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewMemoryCohortRepository()
			svc := NewCohortService(repo)
			ctx := context.Background()

			req := validCohortRequest()
			tt.mutate(&req)

			_, err := svc.Create(ctx, req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)

			existing, err := svc.Create(ctx, validCohortRequest())
			require.NoError(t, err)
			_, err = svc.Update(ctx, existing.ID, req)
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)

			list, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
			assert.Equal(t, "Web Dev January", list[0].CohortName)
		})
	}
}

func TestCohortServiceTrimsPaddedFields(t *testing.T) {
	svc := NewCohortService(repository.NewMemoryCohortRepository())

	created, err := svc.Create(context.Background(), model.CohortRequest{
		CohortSlug: "  wd-jan-2024\t",
		CohortName: " Web Dev January ",
		Campus:     strings.Repeat(" ", 50) + "Paris" + strings.Repeat(" ", 50),
	})
	require.NoError(t, err)
	assert.Equal(t, "wd-jan-2024", created.CohortSlug)
	assert.Equal(t, "Web Dev January", created.CohortName)
	assert.Equal(t, "Paris", created.Campus)
}

func TestStudentServiceRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.StudentRequest)
		field  string
	}{
		{name: "blank first name", mutate: func(r *model.StudentRequest) { r.FirstName = "   " }, field: "firstName"},
		{name: "blank last name", mutate: func(r *model.StudentRequest) { r.LastName = "  " }, field: "lastName"},
		{name: "blank email", mutate: func(r *model.StudentRequest) { r.Email = "   " }, field: "email"},
		{name: "first name too long", mutate: func(r *model.StudentRequest) { r.FirstName = strings.Repeat("f", 101) }, field: "firstName"},
		{name: "last name too long", mutate: func(r *model.StudentRequest) { r.LastName = strings.Repeat("l", 101) }, field: "lastName"},
		{name: "email too long", mutate: func(r *model.StudentRequest) { r.Email = strings.Repeat("a", 250) + "@example.com" }, field: "email"},
		{name: "phone too long", mutate: func(r *model.StudentRequest) { r.Phone = strings.Repeat("5", 21) }, field: "phone"},
		{name: "linkedin url too long", mutate: func(r *model.StudentRequest) {
			r.LinkedinURL = "https://linkedin.com/in/" + strings.Repeat("x", 480)
		}, field: "linkedinUrl"},
		{name: "image url too long", mutate: func(r *model.StudentRequest) {
			r.Image = "https://i.imgur.com/" + strings.Repeat("x", 481) + ".png"
		}, field: "image"},
		{name: "cohort id too long", mutate: func(r *model.StudentRequest) { r.Cohort = strings.Repeat("c", 37) }, field: "cohort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewMemoryStudentRepository()
			svc := NewStudentService(repo)
			ctx := context.Background()

			req := validStudentRequest()
			tt.mutate(&req)

			_, err := svc.Create(ctx, req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)

			existing, err := svc.Create(ctx, validStudentRequest())
			require.NoError(t, err)
			_, err = svc.Update(ctx, existing.ID, req)
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)

			list, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
			assert.Equal(t, "Ada", list[0].FirstName)
		})
	}
}

func TestStudentServiceNormalizesPaddedFields(t *testing.T) {
	svc := NewStudentService(repository.NewMemoryStudentRepository())
	ctx := context.Background()

	req := validStudentRequest()
	req.FirstName = " Ada "
	req.Email = " Ada@Example.com "
	req.Phone = " 555-0100 "
	req.Image = "  https://i.imgur.com/ada.png  "

	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Ada", created.FirstName)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, "555-0100", created.Phone)
	assert.Equal(t, "https://i.imgur.com/ada.png", created.Image)

	req.Email = "ADA@EXAMPLE.COM"
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, ErrStudentConflict)
}
