package bot

import (
	"context"
	"fmt"

	"github.com/duolove/duolove/config"
	"github.com/duolove/duolove/internal/service"
	"github.com/duolove/duolove/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway — best-effort уведомления пользователям в Telegram.
// Ошибка отправки логируется и никогда не возвращается наверх:
// неудачное уведомление не должно ронять редемпшен.
type Gateway struct {
	api    *tgbotapi.BotAPI
	logger *utils.Logger
	config *config.Config
}

var _ service.Notifier = (*Gateway)(nil)

func NewGateway(api *tgbotapi.BotAPI, cfg *config.Config, logger *utils.Logger) *Gateway {
	return &Gateway{api: api, logger: logger, config: cfg}
}

func (g *Gateway) NotifyConnected(_ context.Context, userID int64, partnerName string) {
	text := fmt.Sprintf("💞 %s присоединился(ась) к вам по пригласительной ссылке!\n\nТеперь вы пара в DuoLove — откройте приложение и сыграйте вместе.", partnerName)
	g.send(userID, text, true)
}

func (g *Gateway) NotifyDisconnected(_ context.Context, userID int64) {
	g.send(userID, "💔 Ваша пара в DuoLove была разорвана.", false)
}

func (g *Gateway) NotifyInvite(_ context.Context, inviterID int64, inviteeName string) {
	text := fmt.Sprintf("💌 %s открыл(а) ваше приглашение в DuoLove!", inviteeName)
	g.send(inviterID, text, false)
}

func (g *Gateway) send(userID int64, text string, withAppButton bool) {
	msg := tgbotapi.NewMessage(userID, text)
	if withAppButton {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("💕 Открыть DuoLove", g.config.MiniAppURL("")),
			),
		)
	}
	if _, err := g.api.Send(msg); err != nil {
		g.logger.Warnf("Failed to notify user %d: %v", userID, err)
	}
}
