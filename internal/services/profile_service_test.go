package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

func newProfileService(repo *fakeProfileRepo) ProfileService {
	return NewProfileService(repo, nil)
}

func TestUpsertCreatesProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileService(repo)
	owner := uuid.New()

	p, err := svc.Upsert(context.Background(), owner, ProfileInput{
		Status:  "Developer",
		Skills:  "node, react , go",
		Company: "Acme",
		Twitter: "https://twitter.com/acme",
	})
	require.NoError(t, err)
	require.Equal(t, owner, p.UserID)
	require.Equal(t, "Developer", p.Status)
	require.Equal(t, "Acme", p.Company)
	require.Equal(t, datatypes.JSONSlice[string]{"node", "react", "go"}, p.Skills)
	require.Equal(t, "https://twitter.com/acme", p.Social["twitter"])
	require.Empty(t, p.Experience)
	require.Empty(t, p.Education)
}

func TestUpsertMergesSparseFields(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileService(repo)
	owner := uuid.New()

	_, err := svc.Upsert(context.Background(), owner, ProfileInput{
		Status:   "Developer",
		Skills:   "go",
		Company:  "Acme",
		Location: "Berlin",
	})
	require.NoError(t, err)

	// A second upsert that omits company and location must leave them alone.
	p, err := svc.Upsert(context.Background(), owner, ProfileInput{
		Status: "Senior Developer",
		Skills: "go,sql",
	})
	require.NoError(t, err)
	require.Equal(t, "Senior Developer", p.Status)
	require.Equal(t, "Acme", p.Company)
	require.Equal(t, "Berlin", p.Location)
	require.Equal(t, datatypes.JSONSlice[string]{"go", "sql"}, p.Skills)
}

func TestUpsertRetriesOnVersionConflict(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileService(repo)
	owner := uuid.New()

	_, err := svc.Upsert(context.Background(), owner, ProfileInput{Status: "Developer", Skills: "go"})
	require.NoError(t, err)

	repo.conflictsLeft = 2
	p, err := svc.Upsert(context.Background(), owner, ProfileInput{Status: "Lead", Skills: "go"})
	require.NoError(t, err)
	require.Equal(t, "Lead", p.Status)
}

func TestUpsertGivesUpAfterMaxAttempts(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileService(repo)
	owner := uuid.New()

	_, err := svc.Upsert(context.Background(), owner, ProfileInput{Status: "Developer", Skills: "go"})
	require.NoError(t, err)

	repo.conflictsLeft = maxWriteAttempts
	_, err = svc.Upsert(context.Background(), owner, ProfileInput{Status: "Lead", Skills: "go"})
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))
}

func TestGetMissingProfile(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
	var ae *appErr.AppError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "No profile for this user", ae.Message)
}

func TestAddExperiencePrepends(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileService(repo)
	owner := uuid.New()

	_, err := svc.Upsert(context.Background(), owner, ProfileInput{Status: "Developer", Skills: "go"})
	require.NoError(t, err)

	_, err = svc.AddExperience(context.Background(), owner, ExperienceInput{
		Title: "Engineer", Company: "Acme", From: "2018-01-01",
	})
	require.NoError(t, err)
	p, err := svc.AddExperience(context.Background(), owner, ExperienceInput{
		Title: "Senior Engineer", Company: "Acme", From: "2021-06-01",
	})
	require.NoError(t, err)

	require.Len(t, p.Experience, 2)
	require.Equal(t, "Senior Engineer", p.Experience[0].Title)
	require.Equal(t, "Engineer", p.Experience[1].Title)
	require.NotEqual(t, uuid.Nil, p.Experience[0].ID)
}

func TestRemoveExperienceByID(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileService(repo)
	owner := uuid.New()

	_, err := svc.Upsert(context.Background(), owner, ProfileInput{Status: "Developer", Skills: "go"})
	require.NoError(t, err)
	for _, title := range []string{"first", "second", "third"} {
		_, err = svc.AddExperience(context.Background(), owner, ExperienceInput{Title: title, Company: "Acme", From: "2020"})
		require.NoError(t, err)
	}

	p, err := svc.Get(context.Background(), owner)
	require.NoError(t, err)
	// p.Experience is [third, second, first]; remove the middle entry.
	middle := p.Experience[1].ID

	p, err = svc.RemoveExperience(context.Background(), owner, middle)
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	require.Equal(t, "third", p.Experience[0].Title)
	require.Equal(t, "first", p.Experience[1].Title)
}

func TestRemoveExperienceAbsentIDIsNoop(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileService(repo)
	owner := uuid.New()

	_, err := svc.Upsert(context.Background(), owner, ProfileInput{Status: "Developer", Skills: "go"})
	require.NoError(t, err)
	_, err = svc.AddExperience(context.Background(), owner, ExperienceInput{Title: "Engineer", Company: "Acme", From: "2020"})
	require.NoError(t, err)

	p, err := svc.RemoveExperience(context.Background(), owner, uuid.New())
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
}

func TestEducationRoundTrip(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileService(repo)
	owner := uuid.New()

	_, err := svc.Upsert(context.Background(), owner, ProfileInput{Status: "Student", Skills: "go"})
	require.NoError(t, err)

	p, err := svc.AddEducation(context.Background(), owner, EducationInput{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01",
	})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)

	p, err = svc.RemoveEducation(context.Background(), owner, p.Education[0].ID)
	require.NoError(t, err)
	require.Empty(t, p.Education)
}

func TestMutateWithoutProfile(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo())

	_, err := svc.AddExperience(context.Background(), uuid.New(), ExperienceInput{Title: "Engineer", Company: "Acme", From: "2020"})
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestSplitSkills(t *testing.T) {
	require.Equal(t, datatypes.JSONSlice[string]{"node", "react", "go"}, splitSkills("node, react , go"))
	require.Equal(t, datatypes.JSONSlice[string]{"go", "", "sql"}, splitSkills("go,,sql"))
	require.Empty(t, splitSkills(""))
}
