package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/ace-TI85/dev-connector/internal/models"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
	"github.com/ace-TI85/dev-connector/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "console"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type memPostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]models.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[uuid.UUID]models.Post{}}
}

func (r *memPostRepo) Create(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.posts[p.ID] = *p
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id any, dest *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id.(uuid.UUID)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	*dest = p
	return nil
}

func (r *memPostRepo) Update(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = *p
	return nil
}

func (r *memPostRepo) Delete(ctx context.Context, id any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id.(uuid.UUID))
	return nil
}

func (r *memPostRepo) ListAll(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPostRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPostRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.posts {
		if p.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

func (r *memPostRepo) UpdateFields(ctx context.Context, id uuid.UUID, version int64, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
			return fmt.Errorf("unknown column %q", k)
		}
	}
	p.Version = version + 1
	r.posts[id] = p
	return nil
}

func cleanupTask(t *testing.T, userID uuid.UUID) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(AccountCleanupPayload{UserID: userID.String()})
	require.NoError(t, err)
	return asynq.NewTask(TypeAccountCleanup, payload)
}

func TestHandleAccountCleanup(t *testing.T) {
	repo := newMemPostRepo()
	departing := uuid.New()
	staying := uuid.New()

	mine := models.Post{UserID: departing, Text: "mine"}
	require.NoError(t, repo.Create(context.Background(), &mine))

	theirs := models.Post{
		UserID: staying,
		Text:   "theirs",
		Likes: datatypes.JSONSlice[models.Like]{
			{UserID: departing},
			{UserID: staying},
		},
		Comments: datatypes.JSONSlice[models.Comment]{
			{ID: uuid.New(), UserID: departing, Text: "bye"},
			{ID: uuid.New(), UserID: staying, Text: "hi"},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &theirs))

	h := NewCleanupTaskHandler(repo)
	require.NoError(t, h.HandleAccountCleanup(context.Background(), cleanupTask(t, departing)))

	var gone models.Post
	err := repo.GetByID(context.Background(), mine.ID, &gone)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	var kept models.Post
	require.NoError(t, repo.GetByID(context.Background(), theirs.ID, &kept))
	require.Len(t, kept.Likes, 1)
	require.Equal(t, staying, kept.Likes[0].UserID)
	require.Len(t, kept.Comments, 1)
	require.Equal(t, "hi", kept.Comments[0].Text)
}

func TestHandleAccountCleanupIdempotent(t *testing.T) {
	repo := newMemPostRepo()
	departing := uuid.New()
	staying := uuid.New()

	post := models.Post{
		UserID: staying,
		Text:   "theirs",
		Likes:  datatypes.JSONSlice[models.Like]{{UserID: departing}},
	}
	require.NoError(t, repo.Create(context.Background(), &post))

	h := NewCleanupTaskHandler(repo)
	require.NoError(t, h.HandleAccountCleanup(context.Background(), cleanupTask(t, departing)))
	// A re-run after a partial failure finds nothing left to strip.
	require.NoError(t, h.HandleAccountCleanup(context.Background(), cleanupTask(t, departing)))

	var kept models.Post
	require.NoError(t, repo.GetByID(context.Background(), post.ID, &kept))
	require.Empty(t, kept.Likes)
}

func TestHandleAccountCleanupBadPayload(t *testing.T) {
	h := NewCleanupTaskHandler(newMemPostRepo())

	err := h.HandleAccountCleanup(context.Background(), asynq.NewTask(TypeAccountCleanup, []byte("{not json")))
	require.Error(t, err)

	err = h.HandleAccountCleanup(context.Background(), cleanupTask(t, uuid.UUID{}))
	require.NoError(t, err) // the zero uuid parses; it simply matches nothing
}
