package models

import "time"

type User struct {
	TelegramID int64     `gorm:"primaryKey" json:"telegram_id"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReferralCode struct {
	UserID    int64     `gorm:"primaryKey" json:"user_id"`
	Code      string    `gorm:"uniqueIndex" json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Статусы записей о редемпшене кода.
const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusActive   = "active"
	ConnectionStatusInactive = "inactive"
)

// ReferralConnection — append-only журнал редемпшенов.
// Уникальный индекс по referred_id гарантирует один редемпшен на нового пользователя.
type ReferralConnection struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ReferrerID  int64     `gorm:"index" json:"referrer_id"`
	ReferredID  int64     `gorm:"uniqueIndex" json:"referred_id"`
	Code        string    `json:"code"`
	Status      string    `gorm:"default:active" json:"status"`
	ConnectedAt time.Time `json:"connected_at"`
}

const (
	PartnershipStatusPending   = "pending"
	PartnershipStatusConnected = "connected"
)

// Partnership хранится двумя зеркальными строками, по одной на каждую сторону пары.
type Partnership struct {
	OwnerID       int64     `gorm:"primaryKey" json:"owner_id"`
	PartnerID     int64     `gorm:"index" json:"partner_id"`
	PartnerName   string    `json:"partner_name"`
	PartnerAvatar string    `json:"partner_avatar,omitempty"`
	Status        string    `gorm:"default:connected" json:"status"`
	ConnectedAt   time.Time `json:"connected_at"`
}

// PartnershipSummary возвращается клиенту после успешного редемпшена.
type PartnershipSummary struct {
	ConnectionID string `json:"connectionId"`
	ReferrerID   int64  `json:"referrerId"`
	ReferrerName string `json:"referrerName"`
	ReferredID   int64  `json:"referredId"`
	ReferredName string `json:"referredName"`
}

// ReferralStats — агрегат для /api/referral/stats.
type ReferralStats struct {
	ReferralCode    string               `json:"referralCode"`
	TotalReferrals  int                  `json:"totalReferrals"`
	ActiveReferrals int                  `json:"activeReferrals"`
	Connections     []ReferralConnection `json:"connections"`
}
