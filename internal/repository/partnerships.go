package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/duolove/duolove/internal/models"
	"github.com/duolove/duolove/internal/service"
	"gorm.io/gorm"
)

func (r *Repository) GetPartnership(ctx context.Context, userID int64) (*models.Partnership, error) {
	var p models.Partnership
	err := r.db.WithContext(ctx).First(&p, "owner_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CreatePartnerships пишет обе зеркальные строки в одной транзакции.
// Если любая из сторон уже в паре — откат и ErrConflict.
func (r *Repository) CreatePartnerships(ctx context.Context, a, b *models.Partnership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, side := range []int64{a.OwnerID, b.OwnerID} {
			var count int64
			if err := tx.Model(&models.Partnership{}).Where("owner_id = ?", side).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("user %d already has a partner: %w", side, service.ErrConflict)
			}
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return tx.Create(b).Error
	})
}

func (r *Repository) DeletePartnerships(ctx context.Context, ownerA, ownerB int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.Partnership{}, "owner_id IN ?", []int64{ownerA, ownerB}).Error
	})
}
