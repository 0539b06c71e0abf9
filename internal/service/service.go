package service

import (
	"context"

	"github.com/duolove/duolove/config"
	"github.com/duolove/duolove/internal/models"
	"github.com/duolove/duolove/utils"
)

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *utils.Logger
	config   *config.Config
}

// Repository — хранилище реферальных кодов, партнёрств и журнала подключений.
// Реализации: internal/memory (как в проде у исходника) и internal/repository (gorm).
type Repository interface {
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	GetCodeByOwner(ctx context.Context, ownerID int64) (*models.ReferralCode, error)
	ResolveCode(ctx context.Context, code string) (*models.ReferralCode, error)
	SaveCode(ctx context.Context, code *models.ReferralCode) error

	GetPartnership(ctx context.Context, userID int64) (*models.Partnership, error)
	CreatePartnerships(ctx context.Context, a, b *models.Partnership) error
	DeletePartnerships(ctx context.Context, ownerA, ownerB int64) error

	AppendConnection(ctx context.Context, conn *models.ReferralConnection) error
	GetConnectionByReferred(ctx context.Context, referredID int64) (*models.ReferralConnection, error)
	ListConnectionsByReferrer(ctx context.Context, referrerID int64) ([]models.ReferralConnection, error)
	MarkConnectionInactive(ctx context.Context, referrerID, referredID int64) error
}

// Notifier — best-effort уведомления в Telegram. Ошибки отправки
// логируются реализацией и никогда не роняют запрос.
type Notifier interface {
	NotifyConnected(ctx context.Context, userID int64, partnerName string)
	NotifyDisconnected(ctx context.Context, userID int64)
	NotifyInvite(ctx context.Context, inviterID int64, inviteeName string)
}

func NewService(repo Repository, notifier Notifier, cfg *config.Config, logger *utils.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		config:   cfg,
	}
}

func (s *Service) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.repo.GetUser(ctx, telegramID)
}

func (s *Service) CreateUser(ctx context.Context, telegramID int64, name string) error {
	user := &models.User{
		TelegramID: telegramID,
		Name:       name,
	}
	return s.repo.CreateUser(ctx, user)
}
