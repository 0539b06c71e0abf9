package miniapp

import (
	"context"

	"github.com/duolove/duolove/utils"
)

// Состояния одноразового воркфлоу редемпшена в рамках сессии приложения.
type State string

const (
	StateIdle         State = "IDLE"
	StateCheckingCode State = "CHECKING_CODE"
	StateRedeeming    State = "REDEEMING"
	StateConnected    State = "CONNECTED"
	StateRejected     State = "REJECTED"
	StateFailed       State = "FAILED"
)

// Workflow — клиентская половина подключения по коду. Обрабатывает не более
// одного кода за сессию; флаг processed — лишь UX-оптимизация, настоящая
// защита от двойного редемпшена живёт на сервере.
type Workflow struct {
	store    *Store
	api      *Client
	logger   *utils.Logger
	userID   int64
	userName string

	state     State
	processed bool
	lastError string
}

func NewWorkflow(store *Store, api *Client, logger *utils.Logger, userID int64, userName string) *Workflow {
	return &Workflow{
		store:    store,
		api:      api,
		logger:   logger,
		userID:   userID,
		userName: userName,
		state:    StateIdle,
	}
}

func (w *Workflow) State() State { return w.state }

func (w *Workflow) LastError() string { return w.lastError }

// Run прогоняет один запуск приложения через машину состояний.
// Пустой код — обычное открытие: ни сети, ни локальных мутаций.
func (w *Workflow) Run(ctx context.Context, code string) State {
	if code == "" {
		return w.state
	}
	if w.processed {
		w.logger.Debugf("Referral code already processed this session, skipping %s", code)
		return w.state
	}
	w.processed = true

	w.state = StateCheckingCode

	// Свой собственный код отсекается до какого-либо похода в сеть.
	if utils.CodeEmbedsOwner(code, w.userID) {
		w.logger.Infof("Rejected self-referral code %s for user %d", code, w.userID)
		return w.reject("нельзя использовать собственную ссылку")
	}

	existing, err := w.store.GetPartner(w.userID)
	if err != nil {
		w.logger.Errorf("Failed to read local partner: %v", err)
		return w.fail("не удалось прочитать локальные данные")
	}
	if existing != nil {
		w.logger.Infof("User %d already has partner %d, rejecting code %s", w.userID, existing.PartnerID, code)
		return w.reject("у вас уже есть партнёр")
	}

	w.state = StateRedeeming

	summary, err := w.api.Connect(ctx, code, w.userID, w.userName)
	if err != nil {
		w.logger.Errorf("Redemption of %s failed: %v", code, err)
		return w.fail("не удалось подключиться по ссылке")
	}

	// Локальная строка пользователя и партнёра пишутся только после
	// успешного ответа сервера; частичных состояний не остаётся.
	if _, err := w.store.CreateUser(w.userID, w.userName, ""); err != nil {
		w.logger.Errorf("Failed to ensure local user: %v", err)
		return w.fail("не удалось сохранить профиль")
	}
	if _, err := w.store.AddPartner(w.userID, summary.ReferrerID, summary.ReferrerName, ""); err != nil {
		w.logger.Errorf("Failed to save local partner: %v", err)
		return w.fail("не удалось сохранить партнёра")
	}

	w.logger.Infof("User %d connected to partner %d", w.userID, summary.ReferrerID)
	w.state = StateConnected
	return w.state
}

func (w *Workflow) reject(reason string) State {
	w.lastError = reason
	w.state = StateRejected
	return w.state
}

func (w *Workflow) fail(reason string) State {
	w.lastError = reason
	w.state = StateFailed
	return w.state
}
