package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ace-TI85/dev-connector/internal/models"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

type ProfileRepository interface {
	BaseRepository[models.Profile]
	GetByUser(ctx context.Context, userID uuid.UUID, dest *models.Profile) error
	ListAll(ctx context.Context) ([]models.Profile, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	// UpdateFields writes the given columns only when the stored row still
	// carries the expected version, bumping it in the same statement. A
	// conflict error means a concurrent writer won and the caller should
	// reload and retry.
	UpdateFields(ctx context.Context, id uuid.UUID, version int64, fields map[string]any) error
}

type profileRepository struct {
	BaseRepository[models.Profile]
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{BaseRepository: NewBaseRepository[models.Profile](db), db: db}
}

func (r *profileRepository) GetByUser(ctx context.Context, userID uuid.UUID, dest *models.Profile) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "profile not found")
		}
		return storeErr(err, "get profile by user failed")
	}
	return nil
}

func (r *profileRepository) ListAll(ctx context.Context) ([]models.Profile, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, storeErr(err, "list profiles failed")
	}
	return profiles, nil
}

func (r *profileRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Profile{})
	if res.Error != nil {
		return storeErr(res.Error, "delete profile by user failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "profile not found")
	}
	return nil
}

func (r *profileRepository) UpdateFields(ctx context.Context, id uuid.UUID, version int64, fields map[string]any) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["version"] = version + 1
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return storeErr(res.Error, "update profile failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeConflict, "profile was modified concurrently")
	}
	return nil
}
