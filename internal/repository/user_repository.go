package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ace-TI85/dev-connector/internal/models"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return storeErr(err, "get user by email failed")
	}
	return nil
}
