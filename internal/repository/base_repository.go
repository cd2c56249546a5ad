package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

// Every store call runs under this bound so a wedged database surfaces as an
// unavailable error instead of hanging the request.
const opTimeout = 5 * time.Second

// BaseRepository defines common CRUD operations.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	Update(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id any) error
}

type baseRepository[T any] struct {
	db *gorm.DB
}

func NewBaseRepository[T any](db *gorm.DB) BaseRepository[T] {
	return &baseRepository[T]{db: db}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return storeErr(err, "create entity failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "entity not found")
		}
		return storeErr(err, "get entity failed")
	}
	return nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	if err := r.db.WithContext(ctx).Save(obj).Error; err != nil {
		return storeErr(err, "update entity failed")
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return storeErr(res.Error, "delete entity failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("entity %v not found", id))
	}
	return nil
}

func withOpTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// storeErr classifies a persistence failure: deadline overruns become
// unavailable (retryable by the caller), everything else internal.
func storeErr(err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return appErr.Wrap(err, appErr.CodeUnavailable, msg)
	}
	return appErr.Wrap(err, appErr.CodeInternal, msg)
}
