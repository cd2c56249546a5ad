package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ace-TI85/dev-connector/internal/api/middleware"
	"github.com/ace-TI85/dev-connector/internal/api/types"
	"github.com/ace-TI85/dev-connector/internal/api/validators"
	"github.com/ace-TI85/dev-connector/internal/github"
	"github.com/ace-TI85/dev-connector/internal/services"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

type ProfilesHandler struct {
	profiles services.ProfileService
	github   *github.Client
}

func NewProfilesHandler(profiles services.ProfileService, gh *github.Client) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles, github: gh}
}

// Me returns the caller's own profile. The missing-profile case answers 400,
// not 404; long-standing API behavior clients depend on.
// GET /api/profile/me
func (h *ProfilesHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			writeAppErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		writeAppError(w, r, err)
		return
	}
	writeData(w, p)
}

// Upsert creates or merges the caller's profile. POST /api/profile
func (h *ProfilesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req types.UpsertProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validators.Struct(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	p, err := h.profiles.Upsert(r.Context(), middleware.GetUserID(r.Context()), services.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, p)
}

// List is public. GET /api/profile
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, profiles)
}

// GetByUser is the public read of any profile by owner id.
// GET /api/profile/user/{user_id}
func (h *ProfilesHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		writeBadRequest(w, "Not a valid user id")
		return
	}
	p, err := h.profiles.GetByOwner(r.Context(), ownerID)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			writeAppErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		writeAppError(w, r, err)
		return
	}
	writeData(w, p)
}

// AddExperience prepends a work history entry. PUT /api/profile/experience
func (h *ProfilesHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var req types.AddExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validators.Struct(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	p, err := h.profiles.AddExperience(r.Context(), middleware.GetUserID(r.Context()), services.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, p)
}

// RemoveExperience filters an entry out by id; an unknown id is a no-op.
// DELETE /api/profile/experience/{exp_id}
func (h *ProfilesHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "exp_id"))
	if err != nil {
		writeBadRequest(w, "Not a valid experience id")
		return
	}
	p, err := h.profiles.RemoveExperience(r.Context(), middleware.GetUserID(r.Context()), entryID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, p)
}

// AddEducation prepends a study history entry. PUT /api/profile/education
func (h *ProfilesHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var req types.AddEducationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validators.Struct(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	p, err := h.profiles.AddEducation(r.Context(), middleware.GetUserID(r.Context()), services.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, p)
}

// RemoveEducation mirrors RemoveExperience.
// DELETE /api/profile/education/{edu_id}
func (h *ProfilesHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "edu_id"))
	if err != nil {
		writeBadRequest(w, "Not a valid education id")
		return
	}
	p, err := h.profiles.RemoveEducation(r.Context(), middleware.GetUserID(r.Context()), entryID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, p)
}

// GithubRepos lists a user's latest public repositories.
// GET /api/profile/github/{username}
func (h *ProfilesHandler) GithubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.github.Repos(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, repos)
}
