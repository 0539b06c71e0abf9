package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/duolove/duolove/internal/models"
	"github.com/duolove/duolove/internal/service"
)

// Store — процесс-локальное хранилище на картах, как в исходном сервере.
// Перезапуск процесса забывает всё партнёрское состояние; это осознанное
// ограничение, см. DESIGN.md.
type Store struct {
	mu           sync.Mutex
	users        map[int64]*models.User
	codesByOwner map[int64]*models.ReferralCode
	ownersByCode map[string]int64
	partnerships map[int64]*models.Partnership
	connections  []*models.ReferralConnection
}

var _ service.Repository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:        make(map[int64]*models.User),
		codesByOwner: make(map[int64]*models.ReferralCode),
		ownersByCode: make(map[string]int64),
		partnerships: make(map[int64]*models.Partnership),
	}
}

func (s *Store) GetUser(_ context.Context, telegramID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.TelegramID]; ok {
		return nil
	}
	copied := *user
	s.users[user.TelegramID] = &copied
	return nil
}

func (s *Store) GetCodeByOwner(_ context.Context, ownerID int64) (*models.ReferralCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codesByOwner[ownerID]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *Store) ResolveCode(_ context.Context, code string) (*models.ReferralCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ownerID, ok := s.ownersByCode[code]
	if !ok {
		return nil, nil
	}
	copied := *s.codesByOwner[ownerID]
	return &copied, nil
}

func (s *Store) SaveCode(_ context.Context, code *models.ReferralCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Перезапись кода владельца роняет старую ссылку: старый код больше не резолвится.
	if old, ok := s.codesByOwner[code.UserID]; ok {
		delete(s.ownersByCode, old.Code)
	}
	copied := *code
	s.codesByOwner[code.UserID] = &copied
	s.ownersByCode[code.Code] = code.UserID
	return nil
}

func (s *Store) GetPartnership(_ context.Context, userID int64) (*models.Partnership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partnerships[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

// CreatePartnerships пишет обе зеркальные записи за одну блокировку и
// отклоняет запись, если любая из сторон уже состоит в паре.
func (s *Store) CreatePartnerships(_ context.Context, a, b *models.Partnership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.partnerships[a.OwnerID]; ok {
		return fmt.Errorf("user %d already has a partner: %w", a.OwnerID, service.ErrConflict)
	}
	if _, ok := s.partnerships[b.OwnerID]; ok {
		return fmt.Errorf("user %d already has a partner: %w", b.OwnerID, service.ErrConflict)
	}
	copiedA, copiedB := *a, *b
	s.partnerships[a.OwnerID] = &copiedA
	s.partnerships[b.OwnerID] = &copiedB
	return nil
}

func (s *Store) DeletePartnerships(_ context.Context, ownerA, ownerB int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partnerships, ownerA)
	delete(s.partnerships, ownerB)
	return nil
}

func (s *Store) AppendConnection(_ context.Context, conn *models.ReferralConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.connections {
		if c.ReferredID == conn.ReferredID {
			return fmt.Errorf("connection for referred %d already exists: %w", conn.ReferredID, service.ErrConflict)
		}
	}
	copied := *conn
	s.connections = append(s.connections, &copied)
	return nil
}

func (s *Store) GetConnectionByReferred(_ context.Context, referredID int64) (*models.ReferralConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.connections {
		if c.ReferredID == referredID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Store) ListConnectionsByReferrer(_ context.Context, referrerID int64) ([]models.ReferralConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ReferralConnection
	for _, c := range s.connections {
		if c.ReferrerID == referrerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *Store) MarkConnectionInactive(_ context.Context, referrerID, referredID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.connections {
		if c.ReferrerID == referrerID && c.ReferredID == referredID {
			c.Status = models.ConnectionStatusInactive
		}
	}
	return nil
}
