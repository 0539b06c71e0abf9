package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/duolove/duolove/internal/models"
	"github.com/duolove/duolove/internal/service"
	"gorm.io/gorm"
)

// AppendConnection добавляет запись журнала. Уникальный индекс по referred_id
// пресекает повторный редемпшен, в том числе при гонке дублирующихся запросов.
func (r *Repository) AppendConnection(ctx context.Context, conn *models.ReferralConnection) error {
	err := r.db.WithContext(ctx).Create(conn).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("connection for referred %d already exists: %w", conn.ReferredID, service.ErrConflict)
	}
	return err
}

func (r *Repository) GetConnectionByReferred(ctx context.Context, referredID int64) (*models.ReferralConnection, error) {
	var conn models.ReferralConnection
	err := r.db.WithContext(ctx).First(&conn, "referred_id = ?", referredID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *Repository) ListConnectionsByReferrer(ctx context.Context, referrerID int64) ([]models.ReferralConnection, error) {
	var conns []models.ReferralConnection
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("connected_at").
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *Repository) MarkConnectionInactive(ctx context.Context, referrerID, referredID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.ReferralConnection{}).
		Where("referrer_id = ? AND referred_id = ?", referrerID, referredID).
		Update("status", models.ConnectionStatusInactive).Error
}
