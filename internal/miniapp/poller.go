package miniapp

import (
	"context"
	"sync"
	"time"

	"github.com/duolove/duolove/internal/models"
	"github.com/duolove/duolove/utils"
)

const defaultPollInterval = 5 * time.Second

// Snapshot — последнее известное состояние пары. Маленький идемпотентный
// слепок: каждое завершение опроса просто перезаписывает предыдущее.
type Snapshot struct {
	Partnership *models.Partnership
	HasPartner  bool
}

// statusFetcher покрывается *Client; в тестах подменяется фейком.
type statusFetcher interface {
	PartnerStatus(ctx context.Context, userID int64) (*models.Partnership, error)
}

// Poller периодически перечитывает статус пары и публикует его UI-слою.
// Никогда не паникует и не возвращает ошибку: неудачный опрос публикует
// состояние «партнёра нет», и интерфейс деградирует мягко.
type Poller struct {
	api      statusFetcher
	logger   *utils.Logger
	userID   int64
	interval time.Duration
	publish  func(Snapshot)

	mu   sync.Mutex
	last Snapshot

	wake chan struct{}
}

func NewPoller(api statusFetcher, logger *utils.Logger, userID int64, publish func(Snapshot)) *Poller {
	return &Poller{
		api:      api,
		logger:   logger,
		userID:   userID,
		interval: defaultPollInterval,
		publish:  publish,
		wake:     make(chan struct{}, 1),
	}
}

// Start опрашивает сразу, затем по тикеру и по пробуждениям, до отмены контекста.
func (p *Poller) Start(ctx context.Context) {
	p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		case <-p.wake:
			p.Poll(ctx)
		}
	}
}

// Wake — внеплановый опрос, например при возврате фокуса вкладке.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Poll выполняет один опрос. Безопасен при конкурентных вызовах:
// побеждает последняя запись.
func (p *Poller) Poll(ctx context.Context) Snapshot {
	snapshot := Snapshot{}

	partnership, err := p.api.PartnerStatus(ctx, p.userID)
	if err != nil {
		p.logger.Warnf("Partner status poll failed for %d: %v", p.userID, err)
	} else if partnership != nil {
		snapshot = Snapshot{Partnership: partnership, HasPartner: true}
	}

	p.mu.Lock()
	p.last = snapshot
	p.mu.Unlock()

	if p.publish != nil {
		p.publish(snapshot)
	}
	return snapshot
}

// Last возвращает последний опубликованный слепок.
func (p *Poller) Last() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
