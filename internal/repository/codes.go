package repository

import (
	"context"
	"errors"

	"github.com/duolove/duolove/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) GetCodeByOwner(ctx context.Context, ownerID int64) (*models.ReferralCode, error) {
	var code models.ReferralCode
	err := r.db.WithContext(ctx).First(&code, "user_id = ?", ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

func (r *Repository) ResolveCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	err := r.db.WithContext(ctx).First(&rc, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rc, nil
}

// SaveCode — upsert по владельцу: регенерация затирает старый код,
// старые ссылки перестают резолвиться.
func (r *Repository) SaveCode(ctx context.Context, code *models.ReferralCode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "created_at"}),
		}).
		Create(code).Error
}
