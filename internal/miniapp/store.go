package miniapp

import (
	"errors"
	"fmt"
	"time"

	"github.com/duolove/duolove/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Store — локальная база устройства (sqlite), аналог встроенной в браузер SQL-базы.
// Один писатель, записи долговечны сразу после возврата.
type Store struct {
	db     *gorm.DB
	logger *utils.Logger
}

func OpenStore(dsn string, log *utils.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Partner{},
		&GameSession{},
		&GameAction{},
		&Achievement{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	log.Debugf("Local store ready at %s", dsn)
	return &Store{db: db, logger: log}, nil
}

func (s *Store) GetUser(telegramID int64) (*User, error) {
	var user User
	err := s.db.First(&user, "telegram_id = ?", telegramID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser идемпотентен по telegram_id: при конфликте возвращает существующую строку.
func (s *Store) CreateUser(telegramID int64, name, avatar string) (*User, error) {
	user := User{
		TelegramID: telegramID,
		Name:       name,
		Avatar:     avatar,
		CreatedAt:  time.Now(),
	}
	err := s.db.Where(User{TelegramID: telegramID}).FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", telegramID, err)
	}
	return &user, nil
}

func (s *Store) GetPartner(userID int64) (*Partner, error) {
	var partner Partner
	err := s.db.First(&partner, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

func (s *Store) AddPartner(userID, partnerID int64, partnerName, partnerAvatar string) (*Partner, error) {
	existing, err := s.GetPartner(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user %d already has partner %d", userID, existing.PartnerID)
	}

	partner := Partner{
		UserID:        userID,
		PartnerID:     partnerID,
		PartnerName:   partnerName,
		PartnerAvatar: partnerAvatar,
		Status:        "connected",
		ConnectedAt:   time.Now(),
	}
	if err := s.db.Create(&partner).Error; err != nil {
		return nil, fmt.Errorf("failed to add partner for %d: %w", userID, err)
	}
	s.logger.Infof("Local partner saved: %d -> %d", userID, partnerID)
	return &partner, nil
}

func (s *Store) RemovePartner(userID int64) error {
	return s.db.Delete(&Partner{}, "user_id = ?", userID).Error
}

func (s *Store) UpdatePartnerInfo(userID int64, partnerName, partnerAvatar string) error {
	return s.db.Model(&Partner{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"partner_name":   partnerName,
			"partner_avatar": partnerAvatar,
		}).Error
}

// --- Игровые сессии и ачивки: непрозрачный CRUD для остального приложения ---

func (s *Store) CreateSession(gameType string) (*GameSession, error) {
	session := GameSession{
		GameType:  gameType,
		Status:    SessionStatusActive,
		StartedAt: time.Now(),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) FinishSession(sessionID uint, score int) error {
	now := time.Now()
	return s.db.Model(&GameSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":      SessionStatusFinished,
			"score":       score,
			"finished_at": &now,
		}).Error
}

func (s *Store) AppendAction(sessionID uint, userID int64, actionType, payload string) error {
	action := GameAction{
		SessionID: sessionID,
		UserID:    userID,
		Type:      actionType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	return s.db.Create(&action).Error
}

func (s *Store) SessionHistory(limit int) ([]GameSession, error) {
	var sessions []GameSession
	err := s.db.Order("started_at DESC").Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// UnlockAchievement идемпотентен по (user, kind).
func (s *Store) UnlockAchievement(userID int64, kind string) error {
	achievement := Achievement{
		UserID:     userID,
		Kind:       kind,
		UnlockedAt: time.Now(),
	}
	err := s.db.Where(Achievement{UserID: userID, Kind: kind}).FirstOrCreate(&achievement).Error
	return err
}

func (s *Store) Achievements(userID int64) ([]Achievement, error) {
	var achievements []Achievement
	err := s.db.Where("user_id = ?", userID).Order("unlocked_at").Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
