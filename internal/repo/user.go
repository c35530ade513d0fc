package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/framepix/frame_shop/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserIDsByName does a case-insensitive substring match on user names.
// LOWER/LIKE keeps the query portable between postgres and the sqlite used
// in tests.
func (r *GormRepo) FindUserIDsByName(ctx context.Context, name string) ([]uint, error) {
	pattern := "%" + strings.ToLower(name) + "%"

	var ids []uint
	if err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(name) LIKE ?", pattern).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
