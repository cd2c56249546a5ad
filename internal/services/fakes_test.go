package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ace-TI85/dev-connector/internal/models"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

// In-memory repository fakes. They mirror the version-check semantics of the
// real Postgres layer so the retry paths in the services are exercised for
// real.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id any, dest *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id.(uuid.UUID)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	*dest = u
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid := id.(uuid.UUID)
	if _, ok := r.users[uid]; !ok {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("entity %v not found", id))
	}
	delete(r.users, uid)
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			*dest = u
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "user not found")
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]models.Profile

	// conflictsLeft injects this many version conflicts before writes
	// start succeeding, to exercise the retry loop.
	conflictsLeft int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]models.Profile{}}
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.profiles[p.ID] = *p
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id any, dest *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id.(uuid.UUID)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	*dest = p
	return nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = *p
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, id any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pid := id.(uuid.UUID)
	if _, ok := r.profiles[pid]; !ok {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("entity %v not found", id))
	}
	delete(r.profiles, pid)
	return nil
}

func (r *fakeProfileRepo) GetByUser(ctx context.Context, userID uuid.UUID, dest *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			*dest = p
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "profile not found")
}

func (r *fakeProfileRepo) ListAll(ctx context.Context) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProfileRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.profiles {
		if p.UserID == userID {
			delete(r.profiles, id)
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "profile not found")
}

func (r *fakeProfileRepo) UpdateFields(ctx context.Context, id uuid.UUID, version int64, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return appErr.New(appErr.CodeConflict, "profile was modified concurrently")
	}
	p, ok := r.profiles[id]
	if !ok || p.Version != version {
		return appErr.New(appErr.CodeConflict, "profile was modified concurrently")
	}
	for k, v := range fields {
		switch k {
		case "company":
			p.Company = v.(string)
		case "website":
			p.Website = v.(string)
		case "location":
			p.Location = v.(string)
		case "bio":
			p.Bio = v.(string)
		case "status":
			p.Status = v.(string)
		case "github_username":
			p.GithubUsername = v.(string)
		case "skills":
			p.Skills = v.(datatypes.JSONSlice[string])
		case "social":
			p.Social = v.(datatypes.JSONMap)
		case "experience":
			p.Experience = v.(datatypes.JSONSlice[models.Experience])
		case "education":
			p.Education = v.(datatypes.JSONSlice[models.Education])
		default:
			return fmt.Errorf("fake profile repo: unknown column %q", k)
		}
	}
	p.Version = version + 1
	r.profiles[id] = p
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]models.Post

	conflictsLeft int
	clock         time.Time
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[uuid.UUID]models.Post{}, clock: time.Now()}
}

func (r *fakePostRepo) Create(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	// Strictly increasing timestamps keep feed ordering deterministic.
	r.clock = r.clock.Add(time.Millisecond)
	p.CreatedAt = r.clock
	r.posts[p.ID] = *p
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id any, dest *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id.(uuid.UUID)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	*dest = p
	return nil
}

func (r *fakePostRepo) Update(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = *p
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pid := id.(uuid.UUID)
	if _, ok := r.posts[pid]; !ok {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("entity %v not found", id))
	}
	delete(r.posts, pid)
	return nil
}

func (r *fakePostRepo) ListAll(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePostRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	all, _ := r.ListAll(ctx)
	out := all[:0]
	for _, p := range all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.posts {
		if p.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

func (r *fakePostRepo) UpdateFields(ctx context.Context, id uuid.UUID, version int64, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return appErr.New(appErr.CodeConflict, "post was modified concurrently")
	}
	p, ok := r.posts[id]
	if !ok || p.Version != version {
		return appErr.New(appErr.CodeConflict, "post was modified concurrently")
	}
	for k, v := range fields {
		switch k {
		case "likes":
			p.Likes = v.(datatypes.JSONSlice[models.Like])
		case "comments":
			p.Comments = v.(datatypes.JSONSlice[models.Comment])
		default:
			return fmt.Errorf("fake post repo: unknown column %q", k)
		}
	}
	p.Version = version + 1
	r.posts[id] = p
	return nil
}
