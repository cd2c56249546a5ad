package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ace-TI85/dev-connector/internal/models"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

type PostRepository interface {
	BaseRepository[models.Post]
	// ListAll returns the whole feed, newest first.
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	// UpdateFields is the version-checked write used for the likes and
	// comments sub-collections; see ProfileRepository.UpdateFields.
	UpdateFields(ctx context.Context, id uuid.UUID, version int64, fields map[string]any) error
}

type postRepository struct {
	BaseRepository[models.Post]
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{BaseRepository: NewBaseRepository[models.Post](db), db: db}
}

func (r *postRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, storeErr(err, "list posts failed")
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	var posts []models.Post
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, storeErr(err, "list posts by user failed")
	}
	return posts, nil
}

func (r *postRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
		return storeErr(err, "delete posts by user failed")
	}
	return nil
}

func (r *postRepository) UpdateFields(ctx context.Context, id uuid.UUID, version int64, fields map[string]any) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["version"] = version + 1
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return storeErr(res.Error, "update post failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeConflict, "post was modified concurrently")
	}
	return nil
}
