package miniapp

import "time"

// Локальная схема устройства: каждый клиент хранит только свой взгляд на пару.

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex" json:"telegram_id"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Partner struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"uniqueIndex" json:"user_id"`
	PartnerID     int64     `json:"partner_id"`
	PartnerName   string    `json:"partner_name"`
	PartnerAvatar string    `json:"partner_avatar,omitempty"`
	Status        string    `gorm:"default:connected" json:"status"`
	ConnectedAt   time.Time `json:"connected_at"`
}

const (
	SessionStatusActive   = "active"
	SessionStatusFinished = "finished"
)

type GameSession struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	GameType   string     `json:"game_type"`
	Status     string     `gorm:"default:active" json:"status"`
	Score      int        `json:"score"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type GameAction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"index" json:"session_id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Achievement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"uniqueIndex:idx_user_kind" json:"user_id"`
	Kind       string    `gorm:"uniqueIndex:idx_user_kind" json:"kind"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
