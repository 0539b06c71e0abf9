package service

import (
	"context"
	"fmt"

	"github.com/duolove/duolove/internal/models"
)

// PartnerStatus возвращает партнёрство пользователя или nil, если пары нет.
func (s *Service) PartnerStatus(ctx context.Context, userID int64) (*models.Partnership, error) {
	p, err := s.repo.GetPartnership(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partnership for %d: %w", userID, err)
	}
	return p, nil
}

// Disconnect разрывает пару: удаляет обе зеркальные записи, помечает запись
// журнала неактивной и уведомляет обе стороны.
func (s *Service) Disconnect(ctx context.Context, userID int64) error {
	p, err := s.repo.GetPartnership(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get partnership for %d: %w", userID, err)
	}
	if p == nil {
		return fmt.Errorf("no partnership for user %d: %w", userID, ErrNotFound)
	}

	if err := s.repo.DeletePartnerships(ctx, userID, p.PartnerID); err != nil {
		return fmt.Errorf("failed to delete partnerships %d/%d: %w", userID, p.PartnerID, err)
	}

	// Журнал append-only: запись не удаляется, а гаснет. Реферер мог быть
	// любой из сторон, поэтому пробуем оба направления.
	if err := s.repo.MarkConnectionInactive(ctx, userID, p.PartnerID); err != nil {
		s.logger.Warnf("Failed to deactivate connection %d->%d: %v", userID, p.PartnerID, err)
	}
	if err := s.repo.MarkConnectionInactive(ctx, p.PartnerID, userID); err != nil {
		s.logger.Warnf("Failed to deactivate connection %d->%d: %v", p.PartnerID, userID, err)
	}

	s.notifier.NotifyDisconnected(ctx, userID)
	s.notifier.NotifyDisconnected(ctx, p.PartnerID)

	s.logger.Infof("Partnership %d <-> %d disconnected", userID, p.PartnerID)
	return nil
}

// NotifyInvite сообщает пригласившему, что приглашённый открыл приложение.
func (s *Service) NotifyInvite(ctx context.Context, inviterID, inviteeID int64, inviteeName string) {
	s.logger.Debugf("Invite notification: inviter=%d invitee=%d", inviterID, inviteeID)
	s.notifier.NotifyInvite(ctx, inviterID, inviteeName)
}
