package service

import (
	"context"
	"fmt"
	"time"

	"github.com/duolove/duolove/internal/models"
	"github.com/duolove/duolove/utils"
	"github.com/google/uuid"
)

// EnsureCode возвращает действующий код владельца, создавая его при первом обращении.
func (s *Service) EnsureCode(ctx context.Context, ownerID int64) (string, error) {
	existing, err := s.repo.GetCodeByOwner(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to get referral code for %d: %w", ownerID, err)
	}
	if existing != nil {
		return existing.Code, nil
	}

	code := &models.ReferralCode{
		UserID:    ownerID,
		Code:      utils.NewReferralCode(ownerID),
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveCode(ctx, code); err != nil {
		return "", fmt.Errorf("failed to save referral code for %d: %w", ownerID, err)
	}
	return code.Code, nil
}

// RegenerateCode заменяет код владельца новым. Ранее разосланные ссылки со старым
// кодом перестают резолвиться — поведение унаследовано, см. DESIGN.md.
func (s *Service) RegenerateCode(ctx context.Context, ownerID int64) (string, error) {
	code := &models.ReferralCode{
		UserID:    ownerID,
		Code:      utils.NewReferralCode(ownerID),
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveCode(ctx, code); err != nil {
		return "", fmt.Errorf("failed to regenerate referral code for %d: %w", ownerID, err)
	}
	return code.Code, nil
}

// Resolve возвращает владельца кода.
func (s *Service) Resolve(ctx context.Context, code string) (int64, error) {
	rc, err := s.repo.ResolveCode(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve code %s: %w", code, err)
	}
	if rc == nil {
		return 0, fmt.Errorf("unknown referral code: %w", ErrNotFound)
	}
	return rc.UserID, nil
}

// GenerateLink выдаёт код и ссылку запуска мини-приложения для шаринга.
func (s *Service) GenerateLink(ctx context.Context, ownerID int64) (code string, link string, err error) {
	code, err = s.EnsureCode(ctx, ownerID)
	if err != nil {
		return "", "", err
	}
	return code, s.config.MiniAppURL(code), nil
}

// Redeem — серверная половина воркфлоу подключения: резолв кода, защита от
// самоприглашения и повторного редемпшена, запись в журнал, создание зеркального
// партнёрства и best-effort уведомление владельца кода.
func (s *Service) Redeem(ctx context.Context, code string, redeemerID int64, redeemerName string) (*models.PartnershipSummary, error) {
	ownerID, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	if ownerID == redeemerID {
		return nil, fmt.Errorf("cannot redeem own referral code: %w", ErrConflict)
	}

	existing, err := s.repo.GetConnectionByReferred(ctx, redeemerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check connections for %d: %w", redeemerID, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %d already redeemed a referral code: %w", redeemerID, ErrConflict)
	}

	conn := &models.ReferralConnection{
		ID:          uuid.NewString(),
		ReferrerID:  ownerID,
		ReferredID:  redeemerID,
		Code:        code,
		Status:      models.ConnectionStatusActive,
		ConnectedAt: time.Now(),
	}

	// Сервер не знает Telegram-имени владельца кода, только плейсхолдер.
	referrerName := fmt.Sprintf("User %d", ownerID)

	ownerSide := &models.Partnership{
		OwnerID:     ownerID,
		PartnerID:   redeemerID,
		PartnerName: redeemerName,
		Status:      models.PartnershipStatusConnected,
		ConnectedAt: conn.ConnectedAt,
	}
	redeemerSide := &models.Partnership{
		OwnerID:     redeemerID,
		PartnerID:   ownerID,
		PartnerName: referrerName,
		Status:      models.PartnershipStatusConnected,
		ConnectedAt: conn.ConnectedAt,
	}

	if err := s.repo.CreatePartnerships(ctx, ownerSide, redeemerSide); err != nil {
		return nil, err
	}
	if err := s.repo.AppendConnection(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to record referral connection: %w", err)
	}

	s.notifier.NotifyConnected(ctx, ownerID, redeemerName)

	s.logger.Infof("Referral %s redeemed: %d <-> %d", code, ownerID, redeemerID)

	return &models.PartnershipSummary{
		ConnectionID: conn.ID,
		ReferrerID:   ownerID,
		ReferrerName: referrerName,
		ReferredID:   redeemerID,
		ReferredName: redeemerName,
	}, nil
}

// Stats — агрегат по рефералам владельца для /api/referral/stats.
func (s *Service) Stats(ctx context.Context, ownerID int64) (*models.ReferralStats, error) {
	code, err := s.repo.GetCodeByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral code for %d: %w", ownerID, err)
	}

	conns, err := s.repo.ListConnectionsByReferrer(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections for %d: %w", ownerID, err)
	}

	stats := &models.ReferralStats{
		TotalReferrals: len(conns),
		Connections:    conns,
	}
	if code != nil {
		stats.ReferralCode = code.Code
	}
	for _, c := range conns {
		if c.Status == models.ConnectionStatusActive {
			stats.ActiveReferrals++
		}
	}
	return stats, nil
}
