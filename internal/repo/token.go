package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/framepix/frame_shop/internal/models"
)

var ErrTokenExpiredOrRevoked = errors.New("token expired or revoked")

func (r *GormRepo) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ?", tokenHash).
		Update("revoked", true).Error
}

func (r *GormRepo) refreshExpiredOrRevoked(db *gorm.DB, jti string) (bool, error) {
	var stored models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&stored).Error; err != nil {
		return false, err
	}
	if stored.Revoked || stored.ExpiresAt < time.Now().Unix() {
		return true, nil
	}
	return false, nil
}

// RotateRefreshToken revokes the old token and stores the new one in a
// single transaction, so a replayed old token can never mint a second
// refresh chain.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, newToken models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired, err := r.refreshExpiredOrRevoked(tx, oldJTI)
		if err != nil {
			return err
		}
		if expired {
			return ErrTokenExpiredOrRevoked
		}

		if err := tx.Model(&models.RefreshToken{}).
			Where("jti = ?", oldJTI).
			Update("revoked", true).Error; err != nil {
			return err
		}

		return tx.Create(&newToken).Error
	})
}
