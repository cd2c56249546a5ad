package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ace-TI85/dev-connector/internal/cache"
	"github.com/ace-TI85/dev-connector/internal/models"
	"github.com/ace-TI85/dev-connector/internal/repository"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

// maxWriteAttempts bounds the reload-and-retry loop around version-checked
// sub-collection writes.
const maxWriteAttempts = 3

// ProfileInput is the sparse field-set for an upsert. Empty string means
// "leave unchanged"; there is currently no way to clear a field.
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	// Skills is the raw comma-separated client input.
	Skills string

	Youtube   string
	Twitter   string
	Facebook  string
	Linkedin  string
	Instagram string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

type ProfileService interface {
	Upsert(ctx context.Context, ownerID uuid.UUID, in ProfileInput) (*models.Profile, error)
	Get(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error)

	AddExperience(ctx context.Context, ownerID uuid.UUID, in ExperienceInput) (*models.Profile, error)
	RemoveExperience(ctx context.Context, ownerID, entryID uuid.UUID) (*models.Profile, error)
	AddEducation(ctx context.Context, ownerID uuid.UUID, in EducationInput) (*models.Profile, error)
	RemoveEducation(ctx context.Context, ownerID, entryID uuid.UUID) (*models.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	feed     *cache.FeedCache
}

func NewProfileService(profiles repository.ProfileRepository, feed *cache.FeedCache) ProfileService {
	return &profileService{profiles: profiles, feed: feed}
}

var _ ProfileService = (*profileService)(nil)

func (s *profileService) Upsert(ctx context.Context, ownerID uuid.UUID, in ProfileInput) (*models.Profile, error) {
	var existing models.Profile
	err := s.profiles.GetByUser(ctx, ownerID, &existing)
	if err != nil {
		if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}
		p := &models.Profile{
			UserID:         ownerID,
			Company:        in.Company,
			Website:        in.Website,
			Location:       in.Location,
			Bio:            in.Bio,
			Status:         in.Status,
			GithubUsername: in.GithubUsername,
			Skills:         splitSkills(in.Skills),
			Social:         buildSocial(in),
			Experience:     datatypes.JSONSlice[models.Experience]{},
			Education:      datatypes.JSONSlice[models.Education]{},
		}
		if err := s.profiles.Create(ctx, p); err != nil {
			return nil, err
		}
		_ = s.feed.InvalidateProfiles(ctx)
		return s.reload(ctx, ownerID)
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		err = s.profiles.UpdateFields(ctx, existing.ID, existing.Version, upsertFields(in))
		if err == nil {
			_ = s.feed.InvalidateProfiles(ctx)
			return s.reload(ctx, ownerID)
		}
		if !appErr.IsCode(err, appErr.CodeConflict) {
			return nil, err
		}
		if err := s.profiles.GetByUser(ctx, ownerID, &existing); err != nil {
			return nil, err
		}
	}
	return nil, err
}

func (s *profileService) Get(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := s.profiles.GetByUser(ctx, ownerID, &p); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "No profile for this user")
		}
		return nil, err
	}
	return &p, nil
}

func (s *profileService) List(ctx context.Context) ([]models.Profile, error) {
	if cached, err := s.feed.GetProfiles(ctx); err == nil && cached != nil {
		return cached, nil
	}
	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.feed.SetProfiles(ctx, profiles)
	return profiles, nil
}

func (s *profileService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	return s.Get(ctx, ownerID)
}

func (s *profileService) AddExperience(ctx context.Context, ownerID uuid.UUID, in ExperienceInput) (*models.Profile, error) {
	entry := models.Experience{
		ID:          uuid.New(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	return s.mutate(ctx, ownerID, func(p *models.Profile) (map[string]any, bool) {
		updated := append(datatypes.JSONSlice[models.Experience]{entry}, p.Experience...)
		return map[string]any{"experience": updated}, true
	})
}

func (s *profileService) RemoveExperience(ctx context.Context, ownerID, entryID uuid.UUID) (*models.Profile, error) {
	return s.mutate(ctx, ownerID, func(p *models.Profile) (map[string]any, bool) {
		kept := make(datatypes.JSONSlice[models.Experience], 0, len(p.Experience))
		for _, e := range p.Experience {
			if e.ID != entryID {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(p.Experience) {
			// Absent id is a no-op, not an error.
			return nil, false
		}
		return map[string]any{"experience": kept}, true
	})
}

func (s *profileService) AddEducation(ctx context.Context, ownerID uuid.UUID, in EducationInput) (*models.Profile, error) {
	entry := models.Education{
		ID:           uuid.New(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	return s.mutate(ctx, ownerID, func(p *models.Profile) (map[string]any, bool) {
		updated := append(datatypes.JSONSlice[models.Education]{entry}, p.Education...)
		return map[string]any{"education": updated}, true
	})
}

func (s *profileService) RemoveEducation(ctx context.Context, ownerID, entryID uuid.UUID) (*models.Profile, error) {
	return s.mutate(ctx, ownerID, func(p *models.Profile) (map[string]any, bool) {
		kept := make(datatypes.JSONSlice[models.Education], 0, len(p.Education))
		for _, e := range p.Education {
			if e.ID != entryID {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(p.Education) {
			return nil, false
		}
		return map[string]any{"education": kept}, true
	})
}

// mutate runs a read-modify-write on the owner's profile under the version
// check, retrying against concurrent writers. The callback returns the
// columns to write, or ok=false for a no-op.
func (s *profileService) mutate(ctx context.Context, ownerID uuid.UUID, fn func(p *models.Profile) (map[string]any, bool)) (*models.Profile, error) {
	var lastErr error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var p models.Profile
		if err := s.profiles.GetByUser(ctx, ownerID, &p); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				return nil, appErr.New(appErr.CodeNotFound, "No profile for this user")
			}
			return nil, err
		}
		fields, ok := fn(&p)
		if !ok {
			return &p, nil
		}
		lastErr = s.profiles.UpdateFields(ctx, p.ID, p.Version, fields)
		if lastErr == nil {
			_ = s.feed.InvalidateProfiles(ctx)
			return s.reload(ctx, ownerID)
		}
		if !appErr.IsCode(lastErr, appErr.CodeConflict) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (s *profileService) reload(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := s.profiles.GetByUser(ctx, ownerID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// upsertFields keeps the sparse-merge semantics: only fields the
// client sent are written, absence leaves the stored value alone. The social
// block is rebuilt wholesale whenever any link is present.
func upsertFields(in ProfileInput) map[string]any {
	fields := map[string]any{}
	if in.Company != "" {
		fields["company"] = in.Company
	}
	if in.Website != "" {
		fields["website"] = in.Website
	}
	if in.Location != "" {
		fields["location"] = in.Location
	}
	if in.Bio != "" {
		fields["bio"] = in.Bio
	}
	if in.Status != "" {
		fields["status"] = in.Status
	}
	if in.GithubUsername != "" {
		fields["github_username"] = in.GithubUsername
	}
	if in.Skills != "" {
		fields["skills"] = splitSkills(in.Skills)
	}
	if social := buildSocial(in); len(social) > 0 {
		fields["social"] = social
	}
	return fields
}

// splitSkills turns "node, react , go" into ["node","react","go"]. Entries
// are trimmed but empty ones are kept, matching the long-standing behavior
// clients rely on.
func splitSkills(csv string) datatypes.JSONSlice[string] {
	if csv == "" {
		return datatypes.JSONSlice[string]{}
	}
	parts := strings.Split(csv, ",")
	skills := make(datatypes.JSONSlice[string], 0, len(parts))
	for _, p := range parts {
		skills = append(skills, strings.TrimSpace(p))
	}
	return skills
}

func buildSocial(in ProfileInput) datatypes.JSONMap {
	social := datatypes.JSONMap{}
	if in.Youtube != "" {
		social["youtube"] = in.Youtube
	}
	if in.Twitter != "" {
		social["twitter"] = in.Twitter
	}
	if in.Facebook != "" {
		social["facebook"] = in.Facebook
	}
	if in.Linkedin != "" {
		social["linkedin"] = in.Linkedin
	}
	if in.Instagram != "" {
		social["instagram"] = in.Instagram
	}
	return social
}
