package tasks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ace-TI85/dev-connector/internal/models"
	"github.com/ace-TI85/dev-connector/internal/repository"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
	"github.com/ace-TI85/dev-connector/pkg/logger"
)

// TypeAccountCleanup is enqueued when an account is deleted. The handler
// removes the departed user's posts and strips their likes and comments from
// everyone else's posts. Best-effort: account deletion already succeeded.
const TypeAccountCleanup = "account:cleanup"

type AccountCleanupPayload struct {
	UserID string `json:"user_id"`
}

type CleanupTaskHandler struct {
	posts repository.PostRepository
}

func NewCleanupTaskHandler(posts repository.PostRepository) *CleanupTaskHandler {
	return &CleanupTaskHandler{posts: posts}
}

func (h *CleanupTaskHandler) HandleAccountCleanup(ctx context.Context, t *asynq.Task) error {
	var p AccountCleanupPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid cleanup task payload", zap.Error(err))
		return err
	}
	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		logger.L().Error("invalid user id in cleanup task", zap.Error(err))
		return err
	}

	logger.L().Info("handling account cleanup", zap.String("user_id", userID.String()))

	if err := h.posts.DeleteByUser(ctx, userID); err != nil {
		logger.L().Error("delete posts by user failed", zap.Error(err))
		return err
	}

	// Strip the user's reactions from the remaining posts. A version
	// conflict on an individual post fails the task so asynq re-runs it;
	// the filter below is idempotent across runs.
	posts, err := h.posts.ListAll(ctx)
	if err != nil {
		return err
	}
	for i := range posts {
		if err := h.stripReactions(ctx, &posts[i], userID); err != nil {
			return err
		}
	}
	return nil
}

func (h *CleanupTaskHandler) stripReactions(ctx context.Context, post *models.Post, userID uuid.UUID) error {
	fields := map[string]any{}

	likes := make(datatypes.JSONSlice[models.Like], 0, len(post.Likes))
	for _, l := range post.Likes {
		if l.UserID != userID {
			likes = append(likes, l)
		}
	}
	if len(likes) != len(post.Likes) {
		fields["likes"] = likes
	}

	comments := make(datatypes.JSONSlice[models.Comment], 0, len(post.Comments))
	for _, c := range post.Comments {
		if c.UserID != userID {
			comments = append(comments, c)
		}
	}
	if len(comments) != len(post.Comments) {
		fields["comments"] = comments
	}

	if len(fields) == 0 {
		return nil
	}
	if err := h.posts.UpdateFields(ctx, post.ID, post.Version, fields); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil
		}
		logger.L().Warn("strip reactions failed", zap.String("post_id", post.ID.String()), zap.Error(err))
		return err
	}
	return nil
}
