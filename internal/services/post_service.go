package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ace-TI85/dev-connector/internal/cache"
	"github.com/ace-TI85/dev-connector/internal/models"
	"github.com/ace-TI85/dev-connector/internal/repository"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

type PostService interface {
	Create(ctx context.Context, ownerID uuid.UUID, text string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error

	// Like and Unlike reject repeats rather than absorbing them, so a
	// client that double-fires sees the bug instead of silence.
	Like(ctx context.Context, callerID, id uuid.UUID) (datatypes.JSONSlice[models.Like], error)
	Unlike(ctx context.Context, callerID, id uuid.UUID) (datatypes.JSONSlice[models.Like], error)

	AddComment(ctx context.Context, callerID, id uuid.UUID, text string) (datatypes.JSONSlice[models.Comment], error)
	RemoveComment(ctx context.Context, callerID, postID, commentID uuid.UUID) (datatypes.JSONSlice[models.Comment], error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
	feed  *cache.FeedCache
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, feed *cache.FeedCache) PostService {
	return &postService{posts: posts, users: users, feed: feed}
}

var _ PostService = (*postService)(nil)

func (s *postService) Create(ctx context.Context, ownerID uuid.UUID, text string) (*models.Post, error) {
	var author models.User
	if err := s.users.GetByID(ctx, ownerID, &author); err != nil {
		return nil, err
	}
	post := &models.Post{
		UserID:    ownerID,
		Text:      text,
		Name:      author.Name,
		AvatarURL: author.AvatarURL,
		Likes:     datatypes.JSONSlice[models.Like]{},
		Comments:  datatypes.JSONSlice[models.Comment]{},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	_ = s.feed.InvalidatePosts(ctx)
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]models.Post, error) {
	if cached, err := s.feed.GetPosts(ctx); err == nil && cached != nil {
		return cached, nil
	}
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.feed.SetPosts(ctx, posts)
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.posts.GetByID(ctx, id, &post); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "Post not found")
		}
		return nil, err
	}
	return &post, nil
}

func (s *postService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != callerID {
		return appErr.New(appErr.CodeForbidden, "User not authorised")
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.feed.InvalidatePosts(ctx)
	return nil
}

func (s *postService) Like(ctx context.Context, callerID, id uuid.UUID) (datatypes.JSONSlice[models.Like], error) {
	var likes datatypes.JSONSlice[models.Like]
	err := s.mutate(ctx, id, func(p *models.Post) (map[string]any, error) {
		if p.LikedBy(callerID) {
			return nil, appErr.New(appErr.CodeConflict, "Post already liked")
		}
		likes = append(datatypes.JSONSlice[models.Like]{{UserID: callerID}}, p.Likes...)
		return map[string]any{"likes": likes}, nil
	})
	if err != nil {
		return nil, err
	}
	return likes, nil
}

func (s *postService) Unlike(ctx context.Context, callerID, id uuid.UUID) (datatypes.JSONSlice[models.Like], error) {
	var likes datatypes.JSONSlice[models.Like]
	err := s.mutate(ctx, id, func(p *models.Post) (map[string]any, error) {
		if !p.LikedBy(callerID) {
			return nil, appErr.New(appErr.CodeConflict, "Post has not yet been liked")
		}
		likes = make(datatypes.JSONSlice[models.Like], 0, len(p.Likes))
		removed := false
		for _, l := range p.Likes {
			if !removed && l.UserID == callerID {
				removed = true
				continue
			}
			likes = append(likes, l)
		}
		return map[string]any{"likes": likes}, nil
	})
	if err != nil {
		return nil, err
	}
	return likes, nil
}

func (s *postService) AddComment(ctx context.Context, callerID, id uuid.UUID, text string) (datatypes.JSONSlice[models.Comment], error) {
	var author models.User
	if err := s.users.GetByID(ctx, callerID, &author); err != nil {
		return nil, err
	}
	comment := models.Comment{
		ID:        uuid.New(),
		UserID:    callerID,
		Text:      text,
		Name:      author.Name,
		AvatarURL: author.AvatarURL,
		CreatedAt: time.Now().UTC(),
	}

	var comments datatypes.JSONSlice[models.Comment]
	err := s.mutate(ctx, id, func(p *models.Post) (map[string]any, error) {
		comments = append(datatypes.JSONSlice[models.Comment]{comment}, p.Comments...)
		return map[string]any{"comments": comments}, nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *postService) RemoveComment(ctx context.Context, callerID, postID, commentID uuid.UUID) (datatypes.JSONSlice[models.Comment], error) {
	var comments datatypes.JSONSlice[models.Comment]
	err := s.mutate(ctx, postID, func(p *models.Post) (map[string]any, error) {
		target := p.CommentByID(commentID)
		if target == nil {
			return nil, appErr.New(appErr.CodeNotFound, "Comment does not exist")
		}
		if target.UserID != callerID {
			return nil, appErr.New(appErr.CodeForbidden, "User not authorised")
		}
		// Removal matches on the comment id alone, so an author holding
		// several comments on one post only loses the targeted one.
		comments = make(datatypes.JSONSlice[models.Comment], 0, len(p.Comments)-1)
		for _, c := range p.Comments {
			if c.ID != commentID {
				comments = append(comments, c)
			}
		}
		return map[string]any{"comments": comments}, nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// mutate reloads the post and applies the version-checked write, retrying
// while concurrent writers keep bumping the version.
func (s *postService) mutate(ctx context.Context, id uuid.UUID, fn func(p *models.Post) (map[string]any, error)) error {
	var lastErr error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		post, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		fields, err := fn(post)
		if err != nil {
			return err
		}
		lastErr = s.posts.UpdateFields(ctx, post.ID, post.Version, fields)
		if lastErr == nil {
			_ = s.feed.InvalidatePosts(ctx)
			return nil
		}
		if !appErr.IsCode(lastErr, appErr.CodeConflict) {
			return lastErr
		}
	}
	return lastErr
}
